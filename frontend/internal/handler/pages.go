package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/itchan-dev/routelab/frontend/internal/component"
	"github.com/itchan-dev/routelab/frontend/internal/render"
	"github.com/itchan-dev/routelab/shared/domain"
)

type postsView struct {
	HeadingLevel int
	PageId       domain.PageId
	Items        []template.HTML
}

// doc renders one of the embedded markdown texts.
func (h *Handler) doc(name string) render.Content {
	return func(context.Context) (template.HTML, error) {
		body, err := h.TextProcessor.Doc(name)
		if err != nil {
			return "", err
		}
		return h.Templates.HTML("doc_page", body)
	}
}

// blockingPosts resolves every post before returning, keeping list order.
func (h *Handler) blockingPosts(f *component.PostFetcher, pageId domain.PageId) render.Content {
	return func(ctx context.Context) (template.HTML, error) {
		items, err := render.Await(ctx, f.Tasks(h.Public.Render.Delays)...)
		if err != nil {
			return "", err
		}
		return h.Templates.HTML("posts_page", postsView{HeadingLevel: 1, PageId: pageId, Items: items})
	}
}

// streamingPosts puts every post behind its own boundary with a loader fallback.
func (h *Handler) streamingPosts(pageId domain.PageId) render.Content {
	return func(ctx context.Context) (template.HTML, error) {
		loader, err := component.Loader(h.Templates)
		if err != nil {
			return "", err
		}
		sp := render.Suspense{Fallback: loader, Failure: component.FailedItem(h.Templates)}

		tasks := h.Live.Tasks(h.Public.Render.Delays)
		items := make([]template.HTML, len(tasks))
		for i, task := range tasks {
			if items[i], err = render.Suspend(ctx, sp, task); err != nil {
				return "", err
			}
		}
		return h.Templates.HTML("posts_page", postsView{HeadingLevel: 2, PageId: pageId, Items: items})
	}
}

func (h *Handler) HomeGetHandler(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, h.doc("home"))
}

func (h *Handler) Test1GetHandler(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, render.Compose(h.doc("test1"), h.sectionLayout(Test1Section)))
}

func (h *Handler) Test1PageGetHandler(w http.ResponseWriter, r *http.Request) {
	pageId := chi.URLParam(r, domain.PageIdParam)
	h.serveDocument(w, r, render.Compose(h.blockingPosts(h.Live, pageId), h.sectionLayout(Test1Section)))
}

func (h *Handler) Test3GetHandler(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, render.Compose(h.doc("test3"), h.sectionLayout(Test3Section)))
}

func (h *Handler) Test3PageGetHandler(w http.ResponseWriter, r *http.Request) {
	pageId := chi.URLParam(r, domain.PageIdParam)
	h.streamDocument(w, r, render.Compose(h.streamingPosts(pageId), h.sectionLayout(Test3Section)))
}

func (h *Handler) Test4GetHandler(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, render.Compose(h.doc("test4"), h.sectionLayout(Test4Section)))
}

func (h *Handler) Test4PageGetHandler(w http.ResponseWriter, r *http.Request) {
	h.serveStatic(w, r, Test4Section, Test4Pattern, domain.RouteParams{domain.PageIdParam: chi.URLParam(r, domain.PageIdParam)})
}

// NotFoundHandler renders the 404 page inside the root layout.
func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	content := func(context.Context) (template.HTML, error) {
		return h.Templates.HTML("not_found", r.URL.Path)
	}
	page, err := h.renderDocument(r.Context(), content)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	writeHTML(w, modeDynamic, http.StatusNotFound, page)
}
