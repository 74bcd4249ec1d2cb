package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diagramlab/diaglint/pkg/errors"
	"github.com/diagramlab/diaglint/pkg/pipeline"
	"github.com/diagramlab/diaglint/pkg/render"
	"github.com/diagramlab/diaglint/pkg/render/dot"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output  string // output file path; empty derives from the input
	format  string // output format: svg or png
	noCache bool   // bypass the artifact cache
}

// newDotCmd creates the dot render command. Graphviz runs in-process, so no
// external tool needs to be installed.
func newDotCmd(configPath *string) *cobra.Command {
	opts := dotOpts{format: render.FormatSVG}

	cmd := &cobra.Command{
		Use:   "dot [file]",
		Short: "Render a Graphviz DOT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateDiagramPath(args[0]); err != nil {
				return err
			}
			if err := errors.ValidateOutputFormat(opts.format); err != nil {
				return err
			}
			return runDot(cmd.Context(), *configPath, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), png")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func runDot(ctx context.Context, configPath, input string, opts *dotOpts) error {
	runner, cfg, cleanup, err := newRunner(ctx, configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	if opts.noCache {
		runner = pipeline.NewRunner(nil, loggerFromContext(ctx))
	}

	job := render.NewJob(input, opts.output, opts.format, "")
	result, err := runner.Render(ctx, dot.New(), job, cfg.Cache.TTL())
	if err != nil {
		printError("%s", errors.UserMessage(err))
		return ErrInvalid
	}

	printSuccess("Rendered %s", input)
	printArtifact(result.OutputPath, result.Cached)
	return nil
}
