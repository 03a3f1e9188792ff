package cli

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-repository-kit/events"
)

const (
	// DefaultName is the application name used when none is configured.
	DefaultName = "Repository Kit Command Line Interface"

	// Identifier is the shared event identifier of the application factory.
	Identifier = "repokit"

	// LoadEvent is triggered once the root command is built.
	LoadEvent = "loadCli.post"

	// ParamContainer is the event parameter holding the service Locator.
	ParamContainer = "container"
)

// Service names commands look up in the container.
const (
	ServiceCache  = "cache"
	ServiceFinder = "finder"
)

// ErrMissingService is returned when a command needs a service the
// container does not hold or holds with the wrong type.
var ErrMissingService = errors.New("required service is not available")

// Locator resolves named services.
type Locator interface {
	Get(name string) (any, bool)
}

// NewApplication returns the root command. Errors and usage are not
// printed by cobra; the caller decides how to report a failed command.
func NewApplication(name, version string) *cobra.Command {
	if name == "" {
		name = DefaultName
	}
	return &cobra.Command{
		Use:           "repokit",
		Short:         name,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
}

// Register attaches the built in command sets to shared.
func Register(shared *events.SharedManager) {
	shared.Attach(Identifier, LoadEvent, CacheCommands, 0)
	shared.Attach(Identifier, LoadEvent, ValidateCommands, 0)
}

func targetAndLocator(e *events.Event) (*cobra.Command, Locator, error) {
	root, ok := e.Target.(*cobra.Command)
	if !ok {
		return nil, nil, fmt.Errorf("%s target must be a *cobra.Command, %T found", LoadEvent, e.Target)
	}
	raw, _ := e.Param(ParamContainer)
	locator, ok := raw.(Locator)
	if !ok {
		return nil, nil, fmt.Errorf("%s parameter %q must be a Locator, %T found", LoadEvent, ParamContainer, raw)
	}
	return root, locator, nil
}

func lookup[T any](locator Locator, name string) (T, error) {
	var zero T
	raw, ok := locator.Get(name)
	if !ok {
		return zero, missingService(name, "not registered")
	}
	svc, ok := raw.(T)
	if !ok {
		return zero, missingService(name, fmt.Sprintf("has type %T", raw))
	}
	return svc, nil
}

func missingService(name, reason string) error {
	return goerrors.Wrap(
		fmt.Errorf("%w: %q %s", ErrMissingService, name, reason),
		goerrors.CategoryNotFound,
		"service "+name+" unavailable",
	).WithTextCode("CLI_SERVICE_UNAVAILABLE")
}

// Execute runs root with args.
func Execute(ctx context.Context, root *cobra.Command, args []string) error {
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
