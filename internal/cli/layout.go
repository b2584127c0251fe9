package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomhaller/depview/pkg/pipeline"
)

// layoutCommand creates the layout command for computing graph layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [project.json]",
		Short: "Compute a layout from a project file",
		Long: `Compute a layout from a project file.

The layout command reads a project.json file, selects the visible tasks and
computes node positions and edge routes. The output is a layout.json file
that the 'render' and 'view' commands consume.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.FocusID, "focus", "", "restrict the layout to a task and its direct neighbors")
	cmd.Flags().BoolVar(&opts.IncludeIsolated, "include-isolated", false, "include tasks without dependencies")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runLayout loads the project, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)
	track := newProgress(logger)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.ProjectPath = input
	opts.Logger = logger

	project, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load project %s: %w", input, err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	cg, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, project, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outPath := output
	if outPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outPath = base + ".layout.json"
	}

	data, err := json.MarshalIndent(cg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outPath, err)
	}

	track.done(fmt.Sprintf("Computed layout for %d nodes", len(cg.Nodes)))
	printSuccess("Layout complete")
	printFile(outPath)
	printStats(len(cg.Nodes), len(cg.Edges), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
