package static

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/itchan-dev/routelab/shared/domain"
	"github.com/itchan-dev/routelab/shared/logger"
	"golang.org/x/sync/errgroup"
)

// ParamsLoader enumerates the params a route family is prerendered for.
type ParamsLoader func(ctx context.Context) ([]domain.RouteParams, error)

// Route is a route family declared for build-time rendering.
type Route struct {
	Pattern string
	Params  ParamsLoader
}

// Renderer produces the full document for one concrete path.
type Renderer interface {
	RenderStatic(ctx context.Context, pattern string, params domain.RouteParams) ([]byte, error)
}

type ReportEntry struct {
	Path     string
	Pattern  string
	Bytes    int
	Duration time.Duration
}

type Report struct {
	BuildId  string
	Entries  []ReportEntry
	Duration time.Duration
}

type Builder struct {
	Renderer    Renderer
	Store       *Store
	Concurrency int
}

type job struct {
	pattern string
	params  domain.RouteParams
	path    string
}

// Build prerenders every enumerated path of routes into the store.
// Any failure aborts the build, mirroring a failed production build.
func (b *Builder) Build(ctx context.Context, routes []Route) (Report, error) {
	start := time.Now()
	report := Report{BuildId: b.Store.BuildId()}

	var jobs []job
	for _, route := range routes {
		paramsList, err := route.Params(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to load static params for %s: %w", route.Pattern, err)
		}
		for _, params := range paramsList {
			path := NormalizePath(params.Expand(route.Pattern))
			if err := ValidatePath(path); err != nil {
				return report, fmt.Errorf("static params for %s: %w", route.Pattern, err)
			}
			jobs = append(jobs, job{pattern: route.Pattern, params: params, path: path})
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Concurrency, 1))
	for _, j := range jobs {
		g.Go(func() error {
			pageStart := time.Now()
			html, err := b.Renderer.RenderStatic(gctx, j.pattern, j.params)
			if err != nil {
				return fmt.Errorf("prerender %s: %w", j.path, err)
			}
			b.Store.Put(Page{Path: j.path, HTML: html})

			mu.Lock()
			report.Entries = append(report.Entries, ReportEntry{
				Path:     j.path,
				Pattern:  j.pattern,
				Bytes:    len(html),
				Duration: time.Since(pageStart),
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	sort.Slice(report.Entries, func(i, k int) bool { return report.Entries[i].Path < report.Entries[k].Path })
	report.Duration = time.Since(start)

	logger.Log.Info("static build finished",
		"component", "static",
		"build_id", report.BuildId,
		"pages", len(report.Entries),
		"duration", report.Duration)
	return report, nil
}

// FixedParams declares a literal list of values for one param name.
func FixedParams(name string, values ...string) ParamsLoader {
	return func(context.Context) ([]domain.RouteParams, error) {
		out := make([]domain.RouteParams, len(values))
		for i, v := range values {
			out[i] = domain.RouteParams{name: v}
		}
		return out, nil
	}
}
