package handler

import (
	"github.com/itchan-dev/routelab/frontend/internal/component"
	"github.com/itchan-dev/routelab/frontend/internal/markdown"
	"github.com/itchan-dev/routelab/frontend/internal/render"
	"github.com/itchan-dev/routelab/frontend/internal/static"
	"github.com/itchan-dev/routelab/shared/config"
	"github.com/itchan-dev/routelab/shared/domain"
)

type Handler struct {
	Templates     *render.Templates
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	Live          *component.PostFetcher // revalidates on every render
	Retained      *component.PostFetcher // reuses responses for the process lifetime
	Pages         *static.Store
}

func New(templates *render.Templates, publicCfg config.Public, textProcessor *markdown.TextProcessor, posts component.PostGetter, pages *static.Store) *Handler {
	maxPostId := publicCfg.Upstream.MaxPostId
	return &Handler{
		Templates:     templates,
		Public:        publicCfg,
		TextProcessor: textProcessor,
		Live:          component.NewPostFetcher(templates, posts, domain.CacheBypass, maxPostId),
		Retained:      component.NewPostFetcher(templates, posts, domain.CacheRetain, maxPostId),
		Pages:         pages,
	}
}
