package setup

import (
	"context"
	"fmt"
	"html/template"
	"os"

	"github.com/itchan-dev/routelab/frontend/internal/apiclient"
	"github.com/itchan-dev/routelab/frontend/internal/cache"
	"github.com/itchan-dev/routelab/frontend/internal/handler"
	"github.com/itchan-dev/routelab/frontend/internal/markdown"
	"github.com/itchan-dev/routelab/frontend/internal/render"
	"github.com/itchan-dev/routelab/frontend/internal/static"
	"github.com/itchan-dev/routelab/frontend/templates"
	"github.com/itchan-dev/routelab/shared/config"
	"github.com/itchan-dev/routelab/shared/logger"
)

type Dependencies struct {
	Handler    *handler.Handler
	Public     config.Public
	Cache      *cache.Store
	Pages      *static.Store
	CancelFunc context.CancelFunc
}

// SetupDependencies wires the page handler. With prebuiltDir set the static
// pages come from a previous export, otherwise the store starts empty and
// BuildStatic must fill it.
func SetupDependencies(cfg *config.Config, prebuiltDir string) (*Dependencies, error) {
	ctx, cancel := context.WithCancel(context.Background())

	tmpl, err := loadTemplates(cfg.Public.Render.TemplatesDir)
	if err != nil {
		cancel()
		return nil, err
	}
	templateSet := render.NewTemplates(tmpl)

	pages := static.NewStore("")
	if prebuiltDir != "" {
		pages, err = static.Load(prebuiltDir)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to load prebuilt pages from %s: %w", prebuiltDir, err)
		}
		logger.Log.Info("loaded prebuilt pages",
			"component", "setup",
			"dir", prebuiltDir,
			"build_id", pages.BuildId(),
			"pages", pages.Len())
	}

	responses := cache.New()
	apiClient := apiclient.New(cfg.Public.Upstream.BaseURL, cfg.Public.Upstream.Timeout, responses)
	h := handler.New(templateSet, cfg.Public, markdown.New(), apiClient, pages)

	if cfg.Public.Dev && cfg.Public.Render.TemplatesDir != "" {
		if err := startTemplateReloader(ctx, templateSet, cfg.Public.Render.TemplatesDir); err != nil {
			logger.Log.Warn("template hot reload disabled", "component", "setup", "error", err)
		}
	}

	return &Dependencies{
		Handler:    h,
		Public:     cfg.Public,
		Cache:      responses,
		Pages:      pages,
		CancelFunc: cancel,
	}, nil
}

// BuildStatic prerenders every static route into the page store and marks it ready.
func (d *Dependencies) BuildStatic(ctx context.Context) (static.Report, error) {
	b := &static.Builder{
		Renderer:    d.Handler,
		Store:       d.Pages,
		Concurrency: d.Public.Render.BuildConcurrency,
	}
	report, err := b.Build(ctx, d.Handler.StaticRoutes())
	if err != nil {
		return report, err
	}
	d.Pages.MarkReady()
	return report, nil
}

func loadTemplates(dir string) (*template.Template, error) {
	if dir == "" {
		return render.ParseFS(templates.FS)
	}
	return render.ParseFS(os.DirFS(dir))
}
