package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diagramlab/diaglint/pkg/errors"
	"github.com/diagramlab/diaglint/pkg/excalidraw"
	"github.com/diagramlab/diaglint/pkg/pipeline"
	"github.com/diagramlab/diaglint/pkg/render"
	"github.com/diagramlab/diaglint/pkg/render/plantuml"
)

// plantumlOpts holds the command-line flags for the plantuml command.
type plantumlOpts struct {
	render     bool   // render PNGs instead of syntax-checking only
	output     string // output directory for rendered PNGs
	jsonOutput bool   // emit a JSON report per file
}

// newPlantUMLCmd creates the plantuml command.
//
// By default each file is syntax-checked with `plantuml -syntax`, which is
// fast and needs no display. With --render the files are additionally
// rendered to PNG. Every file is processed; the exit status is nonzero when
// any of them fails.
func newPlantUMLCmd(configPath *string) *cobra.Command {
	var opts plantumlOpts

	cmd := &cobra.Command{
		Use:   "plantuml [file...]",
		Short: "Syntax-check or render PlantUML diagrams",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlantUML(cmd.Context(), *configPath, args, &opts)
		},
	}

	cmd.Flags().BoolVar(&opts.render, "render", false, "render PNG output in addition to checking")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory for rendered files")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "emit a JSON report")

	return cmd
}

// syntaxReport converts a PlantUML syntax result into a validation report.
func syntaxReport(path string, res plantuml.SyntaxResult) pipeline.Report {
	var diags []excalidraw.Diagnostic
	if !res.OK {
		msg := res.Description
		if res.Line != "" && res.Line != "?" {
			msg = fmt.Sprintf("line %s: %s", res.Line, res.Description)
		}
		diags = append(diags, excalidraw.Diagnostic{
			Level:    excalidraw.LevelError,
			Category: excalidraw.CategoryStructural,
			Message:  msg,
		})
	}
	return pipeline.Report{
		Source:      path,
		Diagnostics: diags,
		Summary:     excalidraw.Summarize(diags),
	}
}

func runPlantUML(ctx context.Context, configPath string, paths []string, opts *plantumlOpts) error {
	runner, cfg, cleanup, err := newRunner(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	backend := plantuml.New(cfg.PlantUML.Command, cfg.PlantUML.Timeout())
	if err := backend.Installed(); err != nil {
		printError("%s", errors.UserMessage(err))
		return err
	}

	logger := loggerFromContext(ctx)
	failed := false

	for _, path := range paths {
		if err := errors.ValidateDiagramPath(path); err != nil {
			if opts.jsonOutput {
				_ = writeJSONReport(os.Stdout, failureReport(path, err))
			} else {
				printError("%s: %v", path, errors.UserMessage(err))
			}
			failed = true
			continue
		}

		res, err := backend.SyntaxFile(ctx, path)
		if err != nil {
			if opts.jsonOutput {
				_ = writeJSONReport(os.Stdout, failureReport(path, err))
			} else {
				printError("%s: %v", path, errors.UserMessage(err))
			}
			failed = true
			continue
		}

		report := syntaxReport(path, res)
		if opts.jsonOutput {
			if werr := writeJSONReport(os.Stdout, report); werr != nil {
				return werr
			}
		} else if res.OK {
			printSuccess("%s is valid (%s)", path, res.DiagramType)
		} else {
			printReport(report)
		}

		if !res.OK {
			failed = true
			continue
		}

		if opts.render {
			logger.Debugf("Rendering %s", path)
			job := render.NewJob(path, "", render.FormatPNG, "")
			job.Output = opts.output // directory, resolved by the backend

			spin := newRenderSpinner(ctx, fmt.Sprintf("Rendering %s", path))
			spin.Start()
			result, err := runner.Render(ctx, backend, job, cfg.Cache.TTL())
			spin.Stop()
			if err != nil {
				printError("%s: %v", path, errors.UserMessage(err))
				failed = true
				continue
			}
			if !opts.jsonOutput {
				printArtifact(result.OutputPath, result.Cached)
			}
		}
	}

	if failed {
		return ErrInvalid
	}
	return nil
}
