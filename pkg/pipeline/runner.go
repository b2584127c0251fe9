package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomhaller/depview/pkg/cache"
	"github.com/tomhaller/depview/pkg/layout"
	"github.com/tomhaller/depview/pkg/observability"
	"github.com/tomhaller/depview/pkg/render"
	"github.com/tomhaller/depview/pkg/task"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	project, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Project = project
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.TaskCount = len(project.Tasks)

	if data, err := task.MarshalProject(*project); err == nil {
		result.ProjectHash = cache.Hash(data)
	}

	r.Logger.Info("loaded project",
		"name", project.Name,
		"tasks", len(project.Tasks),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	cg, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, project, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = cg
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(cg.Nodes)
	result.Stats.EdgeCount = len(cg.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(cg.Nodes),
		"edges", len(cg.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, cg, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and validates the project from opts. Loading is cheap (a local
// file or an in-memory project), so it is never cached.
func (r *Runner) Load(ctx context.Context, opts Options) (*task.Project, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	source := opts.ProjectPath
	if source == "" {
		source = "inline"
	}
	observability.Pipeline().OnLoadStart(ctx, source)
	start := time.Now()

	var (
		project *task.Project
		err     error
	)
	if opts.Project != nil {
		err = opts.Project.Validate()
		project = opts.Project
	} else {
		var loaded task.Project
		loaded, err = task.ReadProjectFile(opts.ProjectPath)
		project = &loaded
	}

	taskCount := 0
	if project != nil {
		taskCount = len(project.Tasks)
	}
	observability.Pipeline().OnLoadComplete(ctx, source, taskCount, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, project *task.Project, opts Options) (layout.ComputedGraph, bool, error) {
	r.applyLogger(&opts)

	projectData, err := task.MarshalProject(*project)
	if err != nil {
		return layout.ComputedGraph{}, false, fmt.Errorf("serialize project for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(projectData), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.ComputedGraph
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Corrupt entry, fall through to recompute.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	observability.Pipeline().OnLayoutStart(ctx, len(project.Tasks), len(project.Graph.DependsOn))
	start := time.Now()
	cg := layout.Compute(project.Graph, project.Tasks, opts.LayoutOptions())
	observability.Pipeline().OnLayoutComplete(ctx, len(cg.Nodes), time.Since(start), nil)

	if data, err := json.Marshal(cg); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return cg, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, project *task.Project, opts Options) (layout.ComputedGraph, error) {
	cg, _, err := r.ComputeLayoutWithCacheInfo(ctx, project, opts)
	return cg, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, cg layout.ComputedGraph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := json.Marshal(cg)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := r.renderAll(cg, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, cg layout.ComputedGraph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, cg, opts)
	return artifacts, err
}

// renderAll produces every requested format. SVG is the base: PNG and PDF
// are converted from it, so it is rendered once even when not requested.
func (r *Runner) renderAll(cg layout.ComputedGraph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	renderBase := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		if opts.Graphviz {
			dot := render.ToDOT(cg, render.DOTOptions{Detailed: opts.Detailed})
			out, err := render.RenderDOT(dot)
			if err != nil {
				return nil, err
			}
			svg = out
			return svg, nil
		}
		svg = render.RenderSVG(cg)
		return svg, nil
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			out, err := renderBase()
			if err != nil {
				return nil, err
			}
			artifacts[FormatSVG] = out
		case FormatDOT:
			artifacts[FormatDOT] = []byte(render.ToDOT(cg, render.DOTOptions{Detailed: opts.Detailed}))
		case FormatPNG:
			base, err := renderBase()
			if err != nil {
				return nil, err
			}
			out, err := render.ToPNG(base, opts.Scale)
			if err != nil {
				return nil, fmt.Errorf("convert png: %w", err)
			}
			artifacts[FormatPNG] = out
		case FormatPDF:
			base, err := renderBase()
			if err != nil {
				return nil, err
			}
			out, err := render.ToPDF(base)
			if err != nil {
				return nil, fmt.Errorf("convert pdf: %w", err)
			}
			artifacts[FormatPDF] = out
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
