package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/diagramlab/diaglint/pkg/errors"
	"github.com/diagramlab/diaglint/pkg/pipeline"
	"github.com/diagramlab/diaglint/pkg/render"
	"github.com/diagramlab/diaglint/pkg/render/mermaid"
)

// mermaidOpts holds the command-line flags for the mermaid command.
type mermaidOpts struct {
	output     string // output file path; empty derives from the input
	format     string // output format: svg or png
	toolConfig string // mermaid config file passed to mmdc
	noConfig   bool   // skip the default mermaid config entirely
	jsonOutput bool   // emit a JSON report
	noCache    bool   // bypass the artifact cache
}

// newMermaidCmd creates the mermaid render command.
//
// Mermaid has no syntax-only mode, so validation is render-based: a diagram
// that renders is valid, and mmdc's stderr becomes the error message when it
// is not.
func newMermaidCmd(configPath *string) *cobra.Command {
	opts := mermaidOpts{format: render.FormatSVG}

	cmd := &cobra.Command{
		Use:   "mermaid [file]",
		Short: "Render a Mermaid diagram via the mmdc CLI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateDiagramPath(args[0]); err != nil {
				return err
			}
			if err := errors.ValidateOutputFormat(opts.format); err != nil {
				return err
			}
			return runMermaid(cmd.Context(), *configPath, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png")
	cmd.Flags().StringVar(&opts.toolConfig, "mermaid-config", "", "mermaid config file passed to mmdc")
	cmd.Flags().BoolVar(&opts.noConfig, "no-config", false, "do not pass any mermaid config")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "emit a JSON report")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// mermaidConfigPath resolves the effective mermaid config file: the flag
// wins, then the config file, then the default next to the diaglint config.
func mermaidConfigPath(opts *mermaidOpts, configured string) string {
	if opts.noConfig {
		return ""
	}
	if opts.toolConfig != "" {
		return opts.toolConfig
	}
	if configured != "" {
		return configured
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return mermaid.DefaultConfig(filepath.Join(dir, "diaglint"))
	}
	return ""
}

func runMermaid(ctx context.Context, configPath, input string, opts *mermaidOpts) error {
	runner, cfg, cleanup, err := newRunner(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	backend := mermaid.New(cfg.Mermaid.Command, "", cfg.Mermaid.Timeout())
	if err := backend.Installed(); err != nil {
		printError("%s", errors.UserMessage(err))
		printNextStep("Install mmdc", mermaid.InstallHint)
		return err
	}

	job := render.NewJob(input, opts.output, opts.format, mermaidConfigPath(opts, cfg.Mermaid.Config))
	if opts.noCache {
		runner = pipeline.NewRunner(nil, loggerFromContext(ctx))
	}

	spin := newRenderSpinner(ctx, fmt.Sprintf("Rendering %s", input))
	spin.Start()
	result, err := runner.Render(ctx, backend, job, cfg.Cache.TTL())
	spin.Stop()

	if opts.jsonOutput {
		report := pipeline.Report{Source: input}
		if err != nil {
			report = failureReport(input, err)
		}
		if werr := writeJSONReport(os.Stdout, report); werr != nil {
			return werr
		}
		if err != nil {
			return ErrInvalid
		}
		return nil
	}

	if err != nil {
		printError("%s", errors.UserMessage(err))
		return ErrInvalid
	}

	printSuccess("Rendered %s", input)
	printArtifact(result.OutputPath, result.Cached)
	return nil
}
