package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/itchan-dev/routelab/frontend/internal/cache"
	"github.com/itchan-dev/routelab/shared/domain"
	"github.com/itchan-dev/routelab/shared/logger"
	"github.com/itchan-dev/routelab/shared/middleware/metrics"
	"github.com/itchan-dev/routelab/shared/utils"
)

// maxPostBody bounds what is read from upstream for a single record.
const maxPostBody = 1 << 20

// PostURL is the upstream address of a post and doubles as its cache key.
func (c *APIClient) PostURL(id domain.PostId) string {
	return fmt.Sprintf("%s/posts/%d", c.BaseURL, id)
}

// GetPost fetches post id honouring policy. Failures are *FetchError.
func (c *APIClient) GetPost(ctx context.Context, id domain.PostId, policy domain.CachePolicy) (domain.Post, error) {
	url := c.PostURL(id)

	entry, outcome, err := c.Cache.Do(ctx, url, policy, func(ctx context.Context) (cache.Entry, error) {
		body, err := c.fetchPostBody(ctx, url)
		if err != nil {
			return cache.Entry{}, err
		}
		// only well-formed records are worth retaining
		if _, err := decodePost(url, body); err != nil {
			return cache.Entry{}, err
		}
		return cache.Entry{Body: body}, nil
	})
	if err != nil {
		metrics.ObserveUpstreamFetch(policy.String(), metrics.ResultError)
		logger.Log.Warn("post fetch failed",
			"component", "apiclient",
			"url", url,
			"policy", policy.String(),
			"error", err)
		return domain.Post{}, err
	}
	metrics.ObserveUpstreamFetch(policy.String(), outcomeLabel(outcome))

	return decodePost(url, entry.Body)
}

func (c *APIClient) fetchPostBody(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	metrics.ObserveUpstreamDuration(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Kind: KindStatus, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPostBody))
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, URL: url, Err: err}
	}
	return body, nil
}

// postRecord is the wire shape of a post. Pointers tell an absent key apart
// from an empty value: a post titled "" is valid, a post without a title is not.
type postRecord struct {
	UserId domain.UserId `json:"userId"`
	Id     *int          `json:"id" validate:"required"`
	Title  *string       `json:"title" validate:"required"`
	Body   string        `json:"body"`
}

func decodePost(url string, body []byte) (domain.Post, error) {
	var rec postRecord
	if err := utils.DecodeValidate(bytes.NewReader(body), &rec); err != nil {
		return domain.Post{}, &FetchError{Kind: KindDecode, URL: url, Err: err}
	}
	return domain.Post{UserId: rec.UserId, Id: *rec.Id, Title: *rec.Title, Body: rec.Body}, nil
}

func outcomeLabel(o cache.Outcome) string {
	switch o {
	case cache.Hit:
		return metrics.ResultHit
	case cache.Miss:
		return metrics.ResultMiss
	default:
		return metrics.ResultBypass
	}
}
