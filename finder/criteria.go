package finder

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"sort"

	goerrors "github.com/goliatone/go-errors"
)

// checkCriteria rejects list values. Query builders render a slice as an IN
// condition, which would turn an equality lookup into a membership test.
// Byte slices and driver.Valuer types such as uuid.UUID are scalars.
func checkCriteria(criteria map[string]any) error {
	fields := make([]string, 0, len(criteria))
	for field := range criteria {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := criteria[field]
		if isList(value) {
			return goerrors.Wrap(
				fmt.Errorf("%w: field %q holds %T", ErrUnsupportedValue, field, value),
				goerrors.CategoryBadInput,
				"invalid lookup criteria",
			).WithTextCode("FINDER_UNSUPPORTED_VALUE")
		}
	}
	return nil
}

func isList(value any) bool {
	switch value.(type) {
	case nil, []byte, driver.Valuer:
		return false
	}
	kind := reflect.ValueOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// driverValues resolves driver.Valuer values, so array backed types like
// uuid.UUID reach the query builder as their column value.
func driverValues(criteria map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(criteria))
	for field, value := range criteria {
		valuer, ok := value.(driver.Valuer)
		if !ok {
			out[field] = value
			continue
		}
		if rv := reflect.ValueOf(valuer); rv.Kind() == reflect.Pointer && rv.IsNil() {
			out[field] = nil
			continue
		}
		v, err := valuer.Value()
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid value for field "+field).
				WithTextCode("FINDER_UNSUPPORTED_VALUE")
		}
		out[field] = v
	}
	return out, nil
}
