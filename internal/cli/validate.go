package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjziebarth/etascatgen/internal/config"
	"github.com/mjziebarth/etascatgen/internal/etas"
)

// ValidationResult holds validation results for a scenario file.
type ValidationResult struct {
	Valid  bool                     `json:"valid"`
	Errors []config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario file without simulating",
		Long: `Validate a scenario file without running a simulation.

Checks the YAML document against the scenario schema and then runs the
same parameter checks the simulation core applies, so a scenario that
validates here will also be accepted by simulate.

Exit codes:
  0 - Scenario is valid
  1 - Scenario violates the schema or parameter constraints
  2 - Command error (file not found, malformed YAML, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := config.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	formatter.VerboseLog("Loaded scenario: %d event(s), burn-in %d, seed %d",
		scenario.Catalog.Events, scenario.Catalog.BurnIn, scenario.Catalog.Seed)

	validationErrors := validateScenario(scenario)
	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	if fk, err := scenario.Params().Productivity(); err == nil {
		formatter.VerboseLog("Derived: productivity %g, branching ratio %g",
			fk, scenario.Process.OffspringFraction)
	}

	return outputValidateSuccess(formatter)
}

// validateScenario runs schema validation and the core's own parameter
// checks, collecting all violations.
func validateScenario(scenario *config.Scenario) []config.ValidationError {
	validationErrors := scenario.Validate()

	// The schema catches range violations field by field; the core check
	// covers cross-field constraints on the same parameter set.
	if err := scenario.Params().Validate(); err != nil {
		var paramErr *etas.ParamError
		if errors.As(err, &paramErr) {
			validationErrors = append(validationErrors, config.ValidationError{
				Field:   paramErr.Field,
				Message: paramErr.Message,
			})
		} else {
			validationErrors = append(validationErrors, config.ValidationError{
				Field:   "process",
				Message: err.Error(),
			})
		}
	}

	return validationErrors
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ Scenario valid")
	return nil
}

// outputValidationErrors outputs validation errors and maps them to exit
// code 1.
func outputValidationErrors(formatter *OutputFormatter, errs []config.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    ErrCodeValidation,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", e.Field, e.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
