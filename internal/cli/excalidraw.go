package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diagramlab/diaglint/pkg/errors"
	"github.com/diagramlab/diaglint/pkg/pipeline"
)

// ErrInvalid signals that validation produced error-level diagnostics.
// The report has already been printed; main only needs the nonzero exit.
var ErrInvalid = stderrors.New("validation failed")

// excalidrawOpts holds the command-line flags for the excalidraw command.
type excalidrawOpts struct {
	strictGeometry bool // enable the geometry proximity pass
	jsonOutput     bool // emit the machine-readable report instead of styled text
	pick           bool // interactively pick a file from the working directory
}

// newExcalidrawCmd creates the excalidraw validation command.
//
// The command checks scene files for structural problems (missing fields,
// duplicate IDs, dangling bindings, mismatched bounds) and prints the
// findings in document order. Exit status is 0 when the document is valid
// or has only warnings, and 1 when any error-level diagnostic is found.
func newExcalidrawCmd(configPath *string) *cobra.Command {
	var opts excalidrawOpts

	cmd := &cobra.Command{
		Use:   "excalidraw [file...]",
		Short: "Validate Excalidraw scene files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.pick {
				picked, err := pickDiagramFile(".", "*.excalidraw")
				if err != nil {
					return err
				}
				if picked == "" {
					return nil // user quit the picker
				}
				args = append(args, picked)
			}
			if len(args) == 0 {
				return fmt.Errorf("no input files (pass a path or use --pick)")
			}
			return runExcalidraw(cmd.Context(), *configPath, args, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strictGeometry, "strict-geometry", false, "check arrow endpoints against nearby shape edges")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "emit a JSON report")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "pick a file interactively")

	return cmd
}

// runExcalidraw validates each file and prints its report. All files are
// processed even when an early one fails, so one run shows every problem.
func runExcalidraw(ctx context.Context, configPath string, paths []string, opts *excalidrawOpts) error {
	runner, _, cleanup, err := newRunner(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	logger := loggerFromContext(ctx)
	failed := false

	for _, path := range paths {
		logger.Debugf("Validating %s", path)

		if err := errors.ValidateDiagramPath(path); err != nil {
			if opts.jsonOutput {
				_ = writeJSONReport(os.Stdout, failureReport(path, err))
			} else {
				printError("%s: %v", path, err)
			}
			failed = true
			continue
		}

		report, err := runner.ValidateExcalidraw(ctx, path, pipeline.ValidateOptions{
			Verbose: opts.strictGeometry,
		})
		if err != nil {
			if opts.jsonOutput {
				_ = writeJSONReport(os.Stdout, failureReport(path, err))
			} else {
				printError("%s: %v", path, err)
			}
			failed = true
			continue
		}

		if opts.jsonOutput {
			if err := writeJSONReport(os.Stdout, report); err != nil {
				return err
			}
		} else {
			printReport(report)
		}

		if !report.Summary.Valid() {
			failed = true
		}
	}

	if failed {
		return ErrInvalid
	}
	return nil
}
