package component

import (
	"html/template"
	"strconv"

	"github.com/itchan-dev/routelab/frontend/internal/render"
)

// Link is a navigation entry. Prefetch is passed through untouched: nil keeps
// the default behaviour, true and false are explicit.
type Link struct {
	Href     string
	Label    string
	Prefetch *bool
}

func (l Link) PrefetchAttr() string {
	if l.Prefetch == nil {
		return ""
	}
	return strconv.FormatBool(*l.Prefetch)
}

// PageLinks builds links prefix/from .. prefix/to labelled "page N".
func PageLinks(prefix string, from, to int, prefetch *bool) []Link {
	links := make([]Link, 0, to-from+1)
	for i := from; i <= to; i++ {
		n := strconv.Itoa(i)
		links = append(links, Link{Href: prefix + "/" + n, Label: "page " + n, Prefetch: prefetch})
	}
	return links
}

// Nav renders links in a horizontal row.
func Nav(ts *render.Templates, links []Link) (template.HTML, error) {
	return ts.HTML("nav", links)
}
