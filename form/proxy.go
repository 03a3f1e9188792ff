package form

import (
	"context"
	"fmt"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-repository-kit/pkg/logger"
)

// Option keys understood by Proxy.SetOptions.
const (
	OptionLister             = "lister"
	OptionIdentifier         = "identifier"
	OptionProperty           = "property"
	OptionIsMethod           = "is_method"
	OptionLabelGenerator     = "label_generator"
	OptionDisplayEmptyItem   = "display_empty_item"
	OptionEmptyItemLabel     = "empty_item_label"
	OptionOptgroupIdentifier = "optgroup_identifier"
	OptionOptgroupDefault    = "optgroup_default"
	OptionOptionAttributes   = "option_attributes"
)

// ProxyOptionKeys lists the option keys an element forwards to its proxy.
var ProxyOptionKeys = []string{
	OptionLister,
	OptionIdentifier,
	OptionProperty,
	OptionIsMethod,
	OptionLabelGenerator,
	OptionDisplayEmptyItem,
	OptionEmptyItemLabel,
	OptionOptgroupIdentifier,
	OptionOptgroupDefault,
	OptionOptionAttributes,
}

// Lister loads the records offered by a select element.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc[T any] func(ctx context.Context) ([]T, error)

// List calls f.
func (f ListerFunc[T]) List(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// ValueOption is one selectable option.
type ValueOption struct {
	Value      string
	Label      string
	Group      string
	Attributes map[string]string
}

// ProxyConfig configures a Proxy.
type ProxyConfig[T any] struct {
	// Lister loads the records. Required.
	Lister Lister[T]

	// Identifier returns the option value of a record. When nil an ID field
	// is read.
	Identifier func(T) any

	// Property is the field, or method with IsMethod, used as label.
	Property string
	IsMethod bool

	// LabelGenerator builds labels and takes precedence over Property.
	LabelGenerator func(T) string

	DisplayEmptyItem bool
	EmptyItemLabel   string

	// OptgroupIdentifier names the property grouping options.
	// OptgroupDefault is the group of records where it is empty.
	OptgroupIdentifier string
	OptgroupDefault    string

	// OptionAttributes maps an attribute name to a static string or to a
	// func(T) string.
	OptionAttributes map[string]any

	Logger *logger.Logger
}

// Validate checks the configuration.
func (c ProxyConfig[T]) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Lister, validation.By(func(value any) error {
			if value == nil {
				return validation.NewError("validation_required", "lister is required")
			}
			return nil
		})),
		validation.Field(&c.OptionAttributes, validation.By(func(value any) error {
			attrs, _ := value.(map[string]any)
			for name, attr := range attrs {
				switch attr.(type) {
				case string, func(T) string:
				default:
					return validation.NewError("validation_attribute", fmt.Sprintf("attribute %q must be a string or a func(record) string", name))
				}
			}
			return nil
		})),
	)
	if err != nil {
		return goerrors.Wrap(fmt.Errorf("%w: %w", ErrInvalidOption, err), goerrors.CategoryBadInput, "invalid proxy configuration").
			WithTextCode("INVALID_FORM_OPTION")
	}
	return nil
}

// Proxy loads records lazily and turns them into value options. Records and
// options are loaded once and cached until the options change.
type Proxy[T any] struct {
	mu           sync.Mutex
	cfg          ProxyConfig[T]
	records      []T
	loaded       bool
	valueOptions []ValueOption
	logger       *logger.Logger
}

// NewProxy validates cfg and returns a proxy.
func NewProxy[T any](cfg ProxyConfig[T]) (*Proxy[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Proxy[T]{cfg: cfg, logger: logger.OrNop(cfg.Logger)}, nil
}

// SetOptions applies the string keyed options listed in ProxyOptionKeys.
// Unknown keys are ignored. Cached value options are dropped; records stay
// loaded unless the lister changes.
func (p *Proxy[T]) SetOptions(options map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	cfg := p.cfg
	for key, value := range options {
		if err := applyOption(&cfg, key, value); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, ok := options[OptionLister]; ok {
		p.records = nil
		p.loaded = false
	}
	p.cfg = cfg
	p.valueOptions = nil
	return nil
}

func applyOption[T any](cfg *ProxyConfig[T], key string, value any) error {
	switch key {
	case OptionLister:
		lister, ok := value.(Lister[T])
		if !ok {
			return optionError(key, "a Lister", value)
		}
		cfg.Lister = lister
	case OptionIdentifier:
		fn, ok := value.(func(T) any)
		if !ok {
			return optionError(key, "a func(record) any", value)
		}
		cfg.Identifier = fn
	case OptionProperty:
		s, ok := value.(string)
		if !ok {
			return optionError(key, "a string", value)
		}
		cfg.Property = s
	case OptionIsMethod:
		b, ok := value.(bool)
		if !ok {
			return optionError(key, "a bool", value)
		}
		cfg.IsMethod = b
	case OptionLabelGenerator:
		fn, ok := value.(func(T) string)
		if !ok {
			return optionError(key, "a func(record) string", value)
		}
		cfg.LabelGenerator = fn
	case OptionDisplayEmptyItem:
		b, ok := value.(bool)
		if !ok {
			return optionError(key, "a bool", value)
		}
		cfg.DisplayEmptyItem = b
	case OptionEmptyItemLabel:
		s, ok := value.(string)
		if !ok {
			return optionError(key, "a string", value)
		}
		cfg.EmptyItemLabel = s
	case OptionOptgroupIdentifier:
		s, ok := value.(string)
		if !ok {
			return optionError(key, "a string", value)
		}
		cfg.OptgroupIdentifier = s
	case OptionOptgroupDefault:
		s, ok := value.(string)
		if !ok {
			return optionError(key, "a string", value)
		}
		cfg.OptgroupDefault = s
	case OptionOptionAttributes:
		attrs, ok := value.(map[string]any)
		if !ok {
			return optionError(key, "a map[string]any", value)
		}
		cfg.OptionAttributes = attrs
	}
	return nil
}

// Records returns the loaded records, loading them on first use.
func (p *Proxy[T]) Records(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return append([]T(nil), p.records...), nil
}

// ValueOptions returns the options built from the records.
func (p *Proxy[T]) ValueOptions(ctx context.Context) ([]ValueOption, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.valueOptions != nil {
		return append([]ValueOption(nil), p.valueOptions...), nil
	}

	if err := p.load(ctx); err != nil {
		return nil, err
	}

	options := make([]ValueOption, 0, len(p.records)+1)
	if p.cfg.DisplayEmptyItem {
		options = append(options, ValueOption{Value: "", Label: p.cfg.EmptyItemLabel})
	}

	for _, record := range p.records {
		option, err := p.valueOption(record)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}

	p.valueOptions = options
	return append([]ValueOption(nil), options...), nil
}

// IdentifierOf returns the option value identifying record.
func (p *Proxy[T]) IdentifierOf(record T) (any, error) {
	if p.cfg.Identifier != nil {
		return p.cfg.Identifier(record), nil
	}
	for _, name := range []string{"ID", "Id", "id"} {
		if v, err := readProperty(record, name, false); err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %T has no ID field and no identifier is configured", ErrIdentifierUnavailable, record)
}

func (p *Proxy[T]) load(ctx context.Context) error {
	if p.loaded {
		return nil
	}

	records, err := p.cfg.Lister.List(ctx)
	if err != nil {
		return err
	}

	p.logger.Debug().Int("records", len(records)).Msg("select options loaded")

	p.records = records
	p.loaded = true
	return nil
}

func (p *Proxy[T]) valueOption(record T) (ValueOption, error) {
	id, err := p.IdentifierOf(record)
	if err != nil {
		return ValueOption{}, err
	}

	label, err := p.label(record)
	if err != nil {
		return ValueOption{}, err
	}

	option := ValueOption{Value: stringify(id), Label: label}

	if p.cfg.OptgroupIdentifier != "" {
		group, err := readProperty(record, p.cfg.OptgroupIdentifier, false)
		if err != nil {
			return ValueOption{}, err
		}
		option.Group = stringify(group)
		if option.Group == "" {
			option.Group = p.cfg.OptgroupDefault
		}
	}

	if len(p.cfg.OptionAttributes) > 0 {
		option.Attributes = make(map[string]string, len(p.cfg.OptionAttributes))
		for name, attr := range p.cfg.OptionAttributes {
			switch a := attr.(type) {
			case string:
				option.Attributes[name] = a
			case func(T) string:
				option.Attributes[name] = a(record)
			}
		}
	}

	return option, nil
}

func (p *Proxy[T]) label(record T) (string, error) {
	if p.cfg.LabelGenerator != nil {
		return p.cfg.LabelGenerator(record), nil
	}

	if p.cfg.Property != "" {
		v, err := readProperty(record, p.cfg.Property, p.cfg.IsMethod)
		if err != nil {
			return "", err
		}
		return stringify(v), nil
	}

	if s, ok := any(record).(fmt.Stringer); ok {
		return s.String(), nil
	}

	return "", fmt.Errorf("%w: %T must implement fmt.Stringer when no property or label generator is set", ErrLabelUnavailable, record)
}
