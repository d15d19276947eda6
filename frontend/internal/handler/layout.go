package handler

import (
	"context"
	"html/template"

	"github.com/itchan-dev/routelab/frontend/internal/component"
	"github.com/itchan-dev/routelab/frontend/internal/render"
)

const documentTitle = "Routing tests"

// Group is a captioned row of section links.
type Group struct {
	Caption string
	Links   []component.Link
}

// Section is the layout shared by every page under Prefix.
type Section struct {
	Prefix string
	Title  string
	Groups []Group
}

var rootLinks = []component.Link{
	{Href: "/", Label: "home"},
	{Href: "/test1", Label: "test 1"},
	{Href: "/test2", Label: "test 2"},
	{Href: "/test3", Label: "test 3"},
	{Href: "/test4", Label: "test 4"},
}

var (
	prefetchOn  = true
	prefetchOff = false
)

var (
	Test1Section = Section{
		Prefix: "/test1",
		Title:  "Test 1",
		Groups: []Group{{Links: component.PageLinks("/test1", 1, 5, nil)}},
	}
	Test3Section = Section{
		Prefix: "/test3",
		Title:  "Test 3: Streaming",
		Groups: []Group{{Links: component.PageLinks("/test3", 1, 5, nil)}},
	}
	Test4Section = Section{
		Prefix: "/test4",
		Title:  "Test 4: Static rendering",
		Groups: []Group{
			{Caption: "prerendered pages", Links: component.PageLinks("/test4", 1, 5, nil)},
			{Caption: "prefetched pages", Links: component.PageLinks("/test4", 6, 10, &prefetchOn)},
			{Caption: "not prefetched pages", Links: component.PageLinks("/test4", 11, 15, &prefetchOff)},
		},
	}
)

// LinksTo reports whether path is one of the section's own page links.
func (s Section) LinksTo(path string) bool {
	for _, g := range s.Groups {
		for _, l := range g.Links {
			if l.Href == path {
				return true
			}
		}
	}
	return false
}

type groupView struct {
	Caption string
	Nav     template.HTML
}

type sectionView struct {
	Title   string
	Groups  []groupView
	Content template.HTML
}

type documentView struct {
	Title   string
	BuildId string
	Nav     template.HTML
}

// sectionLayout renders the section heading and its link groups above nested.
func (h *Handler) sectionLayout(s Section) render.Layout {
	return func(ctx context.Context, nested render.Content) (template.HTML, error) {
		content, err := nested(ctx)
		if err != nil {
			return "", err
		}
		groups := make([]groupView, len(s.Groups))
		for i, g := range s.Groups {
			nav, err := component.Nav(h.Templates, g.Links)
			if err != nil {
				return "", err
			}
			groups[i] = groupView{Caption: g.Caption, Nav: nav}
		}
		return h.Templates.HTML("section", sectionView{Title: s.Title, Groups: groups, Content: content})
	}
}

// documentHalves renders the root layout split around its body so streamed
// chunks can be written between the two.
func (h *Handler) documentHalves() (head, tail template.HTML, err error) {
	nav, err := component.Nav(h.Templates, rootLinks)
	if err != nil {
		return "", "", err
	}
	head, err = h.Templates.HTML("document_open", documentView{
		Title:   documentTitle,
		BuildId: h.Pages.BuildId(),
		Nav:     nav,
	})
	if err != nil {
		return "", "", err
	}
	tail, err = h.Templates.HTML("document_close", nil)
	if err != nil {
		return "", "", err
	}
	return head, tail, nil
}
