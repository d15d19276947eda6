package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/itchan-dev/routelab/frontend/internal/render"
	"github.com/itchan-dev/routelab/frontend/internal/static"
	"github.com/itchan-dev/routelab/shared/domain"
	"github.com/itchan-dev/routelab/shared/logger"
	"github.com/itchan-dev/routelab/shared/middleware/metrics"
)

const Test4Pattern = "/test4/{pageId}"

// StaticRoutes lists the route families prerendered at build time.
func (h *Handler) StaticRoutes() []static.Route {
	return []static.Route{
		{Pattern: Test4Pattern, Params: static.FixedParams(domain.PageIdParam, h.Public.Render.StaticParams...)},
	}
}

// RenderStatic renders the full document of a static route family.
func (h *Handler) RenderStatic(ctx context.Context, pattern string, params domain.RouteParams) ([]byte, error) {
	switch pattern {
	case Test4Pattern:
		content := render.Compose(h.blockingPosts(h.Retained, params.PageId()), h.sectionLayout(Test4Section))
		return h.renderDocument(ctx, content)
	default:
		return nil, fmt.Errorf("no static page is declared for %s", pattern)
	}
}

// serveStatic answers from the prerendered store and renders unknown params
// on demand. Only params the section links to are kept, so arbitrary ids
// cannot grow the store.
func (h *Handler) serveStatic(w http.ResponseWriter, r *http.Request, section Section, pattern string, params domain.RouteParams) {
	path := static.NormalizePath(r.URL.Path)
	if page, ok := h.Pages.Get(path); ok {
		metrics.ObserveStaticPage(modeStatic)
		writeHTML(w, modeStatic, http.StatusOK, page.HTML)
		return
	}

	html, err := h.RenderStatic(r.Context(), pattern, params)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	if section.LinksTo(path) {
		h.Pages.Put(static.Page{Path: path, HTML: html})
	} else {
		logger.Log.Debug("on-demand page not kept", "component", "handler", "path", path)
	}
	metrics.ObserveStaticPage(modeDynamic)
	writeHTML(w, modeDynamic, http.StatusOK, html)
}
