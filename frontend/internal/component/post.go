package component

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/itchan-dev/routelab/frontend/internal/render"
	"github.com/itchan-dev/routelab/shared/domain"
	"github.com/itchan-dev/routelab/shared/utils"
)

// PostGetter is satisfied by the upstream API client.
type PostGetter interface {
	GetPost(ctx context.Context, id domain.PostId, policy domain.CachePolicy) (domain.Post, error)
}

// PostFetcher renders one list item holding the title of a random post.
// Live fetchers revalidate on every render, static ones reuse retained responses.
type PostFetcher struct {
	Templates *render.Templates
	Posts     PostGetter
	Policy    domain.CachePolicy
	PickId    func() domain.PostId
	Pause     func(ctx context.Context, d time.Duration) error
}

func NewPostFetcher(ts *render.Templates, posts PostGetter, policy domain.CachePolicy, maxPostId int) *PostFetcher {
	return &PostFetcher{
		Templates: ts,
		Posts:     posts,
		Policy:    policy,
		PickId:    func() domain.PostId { return utils.RandomInt(1, maxPostId) },
		Pause:     utils.Pause,
	}
}

// Task picks an id, fetches the post, waits out delay and renders <li>title</li>.
func (f *PostFetcher) Task(delay time.Duration) render.Task {
	return func(ctx context.Context) (template.HTML, error) {
		id := f.PickId()
		post, err := f.Posts.GetPost(ctx, id, f.Policy)
		if err != nil {
			return "", fmt.Errorf("post %d: %w", id, err)
		}
		if err := f.Pause(ctx, delay); err != nil {
			return "", err
		}
		return f.Templates.HTML("post_item", post)
	}
}

// Tasks builds one task per delay, in order.
func (f *PostFetcher) Tasks(delays []time.Duration) []render.Task {
	tasks := make([]render.Task, len(delays))
	for i, d := range delays {
		tasks[i] = f.Task(d)
	}
	return tasks
}

// Loader is the placeholder shown while a post item is pending.
func Loader(ts *render.Templates) (template.HTML, error) {
	return ts.HTML("loader_item", nil)
}

// FailedItem replaces a post item whose fetch failed after the page was sent.
func FailedItem(ts *render.Templates) func(error) template.HTML {
	return func(error) template.HTML {
		html, err := ts.HTML("failed_item", "could not load post")
		if err != nil {
			return ""
		}
		return html
	}
}
