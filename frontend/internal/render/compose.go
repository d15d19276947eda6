// Package render composes layouts and pages and resolves their asynchronous
// parts, either all at once (Await) or slot by slot (Slots).
package render

import (
	"context"
	"html/template"

	"golang.org/x/sync/errgroup"
)

// Content renders a piece of a page.
type Content func(ctx context.Context) (template.HTML, error)

// Layout wraps nested content, e.g. a section heading and its navigation.
type Layout func(ctx context.Context, nested Content) (template.HTML, error)

// Task is one asynchronous unit of a page, typically a single list item.
type Task func(ctx context.Context) (template.HTML, error)

// Compose nests page inside layouts; layouts[0] is the outermost.
func Compose(page Content, layouts ...Layout) Content {
	c := page
	for i := len(layouts) - 1; i >= 0; i-- {
		layout, nested := layouts[i], c
		c = func(ctx context.Context) (template.HTML, error) {
			return layout(ctx, nested)
		}
	}
	return c
}

// Static is content known up front.
func Static(html template.HTML) Content {
	return func(context.Context) (template.HTML, error) {
		return html, nil
	}
}

// Await runs tasks concurrently and returns their output in position order.
// The first failure cancels the remaining tasks and is returned.
func Await(ctx context.Context, tasks ...Task) ([]template.HTML, error) {
	out := make([]template.HTML, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		g.Go(func() error {
			html, err := task(gctx)
			if err != nil {
				return err
			}
			out[i] = html
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
