package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-repository-kit/events"
	"github.com/goliatone/go-repository-kit/pkg/logger"
	"github.com/goliatone/go-repository-kit/validator"
)

// ErrValidationFailed is returned by the validate commands when the value
// is not valid, so the process exits with a non zero status.
var ErrValidationFailed = errors.New("validation failed")

// DefaultIdentityField is the column read from a matching row to compare
// against --id.
const DefaultIdentityField = "id"

// RowFinder is the finder the validate commands run against.
type RowFinder = validator.Finder[map[string]any]

// ValidateCommands adds validate:exists and validate:unique.
func ValidateCommands(ctx context.Context, e *events.Event) error {
	root, locator, err := targetAndLocator(e)
	if err != nil {
		return err
	}

	root.AddCommand(existsCommand(locator), uniqueCommand(locator))
	return nil
}

func existsCommand(locator Locator) *cobra.Command {
	var fields []string

	cmd := &cobra.Command{
		Use:   "validate:exists <value>...",
		Short: "Check that a record matching the values exists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := lookup[RowFinder](locator, ServiceFinder)
			if err != nil {
				return err
			}
			v, err := validator.NewRecordExists(validator.Config[map[string]any]{
				Finder: finder,
				Fields: fields,
				Logger: logger.FromContext(cmd.Context()),
			})
			if err != nil {
				return err
			}
			valid, err := v.IsValid(cmd.Context(), candidate(args))
			if err != nil {
				return err
			}
			return report(cmd, valid, v.Messages())
		},
	}
	cmd.Flags().StringSliceVarP(&fields, "field", "f", nil, "field to match, repeat for several fields")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func uniqueCommand(locator Locator) *cobra.Command {
	var (
		fields        []string
		identityField string
		identifier    string
	)

	cmd := &cobra.Command{
		Use:   "validate:unique <value>...",
		Short: "Check that no other record matches the values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("id") && identityField == "" {
				return goerrors.Wrap(
					fmt.Errorf("%w: --id needs --identity-field", validator.ErrInvalidConfiguration),
					goerrors.CategoryBadInput,
					"invalid validate:unique flags",
				).WithTextCode("CLI_IDENTITY_FIELD_REQUIRED")
			}

			finder, err := lookup[RowFinder](locator, ServiceFinder)
			if err != nil {
				return err
			}

			cfg := validator.Config[map[string]any]{
				Finder: finder,
				Fields: fields,
				Logger: logger.FromContext(cmd.Context()),
			}
			if identityField != "" {
				cfg.IdentityField = identityField
				cfg.Identifier = func(row map[string]any) any { return row[identityField] }
			}

			v, err := validator.NewUniqueRecord(cfg)
			if err != nil {
				return err
			}

			edit := validator.EditContext{}
			if cmd.Flags().Changed("id") {
				edit.Identifier = identifier
			}

			valid, err := v.IsValid(cmd.Context(), candidate(args), edit)
			if err != nil {
				return err
			}
			return report(cmd, valid, v.Messages())
		},
	}
	cmd.Flags().StringSliceVarP(&fields, "field", "f", nil, "field to match, repeat for several fields")
	cmd.Flags().StringVar(&identityField, "identity-field", DefaultIdentityField, "column identifying the record being edited")
	cmd.Flags().StringVar(&identifier, "id", "", "identifier of the record being edited")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func candidate(args []string) validator.Candidate {
	if len(args) == 1 {
		return validator.Scalar(args[0])
	}
	values := make([]any, len(args))
	for i, a := range args {
		values[i] = a
	}
	return validator.Sequence(values...)
}

func report(cmd *cobra.Command, valid bool, messages map[validator.Reason]string) error {
	out := cmd.OutOrStdout()
	if valid {
		fmt.Fprintln(out, "valid")
		return nil
	}

	reasons := make([]string, 0, len(messages))
	for reason := range messages {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(out, "%s: %s\n", reason, messages[validator.Reason(reason)])
	}
	return ErrValidationFailed
}
