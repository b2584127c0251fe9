package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomhaller/depview/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output          string   // output file path (or base path for multiple formats)
	formats         []string // output formats: svg, png, pdf, dot
	focus           string   // focus task ID
	includeIsolated bool     // include tasks without dependencies
	detailed        bool     // include status and type in DOT labels
	graphviz        bool     // route the SVG through graphviz instead of the native renderer
	scale           float64  // raster scale factor for PNG output
	refresh         bool     // bypass cached layouts and artifacts
	noCache         bool     // disable caching entirely
}

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [project.json]",
		Short: "Render a project's dependency graph",
		Long: `Render a project's dependency graph.

The render command runs the full pipeline: it loads the project, computes the
layout, and writes the requested artifacts next to the input file. Layouts
and artifacts are cached locally, keyed by the project contents, so repeated
runs are cheap.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "restrict the graph to a task and its direct neighbors")
	cmd.Flags().BoolVar(&opts.includeIsolated, "include-isolated", false, "include tasks without dependencies")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include status and type in DOT labels")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "render the SVG through graphviz")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor for PNG output")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender executes the pipeline and writes one file per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	track := newProgress(logger)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		ProjectPath:     input,
		FocusID:         opts.focus,
		IncludeIsolated: opts.includeIsolated,
		Formats:         opts.formats,
		Detailed:        opts.detailed,
		Scale:           opts.scale,
		Graphviz:        opts.graphviz,
		Refresh:         opts.refresh,
		Logger:          logger,
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	track.done(fmt.Sprintf("Rendered %d nodes", result.Stats.NodeCount))

	multi := len(opts.formats) > 1
	printSuccess("Render complete")
	for _, format := range opts.formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(opts.output, input, format, multi)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

	return nil
}
