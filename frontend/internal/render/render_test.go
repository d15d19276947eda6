package render

import (
	"context"
	"errors"
	"html/template"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itchan-dev/routelab/frontend/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustTemplates(t *testing.T) *Templates {
	t.Helper()
	tmpl, err := ParseFS(templates.FS)
	require.NoError(t, err)
	return NewTemplates(tmpl)
}

func delayed(d time.Duration, html template.HTML) Task {
	return func(ctx context.Context) (template.HTML, error) {
		select {
		case <-time.After(d):
			return html, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func TestCompose_OutermostFirst(t *testing.T) {
	wrap := func(name string) Layout {
		return func(ctx context.Context, nested Content) (template.HTML, error) {
			inner, err := nested(ctx)
			if err != nil {
				return "", err
			}
			return template.HTML("<" + name + ">" + string(inner) + "</" + name + ">"), nil
		}
	}

	got, err := Compose(Static("page"), wrap("root"), wrap("section"))(context.Background())
	require.NoError(t, err)
	assert.Equal(t, template.HTML("<root><section>page</section></root>"), got)

	got, err = Compose(Static("bare"))(context.Background())
	require.NoError(t, err)
	assert.Equal(t, template.HTML("bare"), got)
}

func TestCompose_PropagatesPageError(t *testing.T) {
	boom := errors.New("boom")
	var layoutRan bool
	layout := func(ctx context.Context, nested Content) (template.HTML, error) {
		layoutRan = true
		return nested(ctx)
	}
	failing := func(ctx context.Context) (template.HTML, error) { return "", boom }

	_, err := Compose(failing, layout)(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, layoutRan)
}

func TestAwait_PositionOrder(t *testing.T) {
	start := time.Now()
	got, err := Await(context.Background(),
		delayed(150*time.Millisecond, "a"),
		delayed(0, "b"),
		delayed(120*time.Millisecond, "c"),
	)
	require.NoError(t, err)
	assert.Equal(t, []template.HTML{"a", "b", "c"}, got)
	// concurrent, not sequential
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestAwait_FirstFailureCancelsRest(t *testing.T) {
	boom := errors.New("upstream down")
	var cancelled atomic.Bool
	slow := func(ctx context.Context) (template.HTML, error) {
		select {
		case <-time.After(5 * time.Second):
			return "late", nil
		case <-ctx.Done():
			cancelled.Store(true)
			return "", ctx.Err()
		}
	}
	failing := func(ctx context.Context) (template.HTML, error) { return "", boom }

	got, err := Await(context.Background(), slow, failing)
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, got)
	assert.True(t, cancelled.Load())
}

func TestAwait_Empty(t *testing.T) {
	got, err := Await(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuspend_WithoutSlots(t *testing.T) {
	_, err := Suspend(context.Background(), Suspense{}, delayed(0, "x"))
	assert.ErrorIs(t, err, ErrNoSlots)
}

func TestSlots_CompletionOrderAndStates(t *testing.T) {
	ts := mustTemplates(t)
	ctx, slots := WithSlots(context.Background(), ts)

	fallback := template.HTML(`<li class="loader">Loading…</li>`)
	delays := []time.Duration{150 * time.Millisecond, 0, 75 * time.Millisecond}
	for i, d := range delays {
		placeholder, err := Suspend(ctx, Suspense{Fallback: fallback}, delayed(d, template.HTML("<li>item "+strconv.Itoa(i)+"</li>")))
		require.NoError(t, err)
		assert.Contains(t, string(placeholder), `id="B:`+strconv.Itoa(i)+`"`)
		assert.Contains(t, string(placeholder), string(fallback))
	}
	require.Equal(t, 3, slots.Len())
	assert.Equal(t, []SlotState{SlotPending, SlotPending, SlotPending}, slots.States())

	var order []int
	for u := range slots.Run(ctx) {
		require.NoError(t, u.Err)
		assert.Equal(t, SlotResolved, u.State)
		order = append(order, u.Index)

		chunk, err := slots.Chunk(u)
		require.NoError(t, err)
		assert.Contains(t, string(chunk), string(u.HTML))
		assert.Contains(t, string(chunk), "$RC(")
	}

	assert.Equal(t, []int{1, 2, 0}, order)
	assert.Equal(t, []SlotState{SlotResolved, SlotResolved, SlotResolved}, slots.States())

	_, err := slots.Suspend(Suspense{}, delayed(0, "late"))
	assert.ErrorIs(t, err, ErrSlotsStarted)
}

func TestSlots_FailedSlot(t *testing.T) {
	ts := mustTemplates(t)
	ctx, slots := WithSlots(context.Background(), ts)
	boom := errors.New("upstream down")
	failing := func(ctx context.Context) (template.HTML, error) { return "", boom }

	_, err := slots.Suspend(Suspense{
		Fallback: "<li>Loading…</li>",
		Failure:  func(err error) template.HTML { return "<li>failed</li>" },
	}, failing)
	require.NoError(t, err)
	_, err = slots.Suspend(Suspense{Fallback: "<li>Loading…</li>"}, failing)
	require.NoError(t, err)
	_, err = slots.Suspend(Suspense{}, delayed(0, "<li>ok</li>"))
	require.NoError(t, err)

	updates := map[int]Update{}
	for u := range slots.Run(ctx) {
		updates[u.Index] = u
	}
	require.Len(t, updates, 3)

	assert.Equal(t, SlotFailed, updates[0].State)
	assert.ErrorIs(t, updates[0].Err, boom)
	chunk, err := slots.Chunk(updates[0])
	require.NoError(t, err)
	assert.Contains(t, string(chunk), "<li>failed</li>")

	chunk, err = slots.Chunk(updates[1])
	require.NoError(t, err)
	assert.Empty(t, chunk, "without failure markup the fallback stays")

	assert.Equal(t, []SlotState{SlotFailed, SlotFailed, SlotResolved}, slots.States())
}

func TestSlots_CancelSettlesEverySlot(t *testing.T) {
	ts := mustTemplates(t)
	ctx, cancel := context.WithCancel(context.Background())
	ctx, slots := WithSlots(ctx, ts)

	for range 4 {
		_, err := slots.Suspend(Suspense{}, delayed(time.Hour, "never"))
		require.NoError(t, err)
	}
	updates := slots.Run(ctx)
	cancel()

	var n int
	for u := range updates {
		assert.Equal(t, SlotFailed, u.State)
		n++
	}
	assert.Equal(t, 4, n)
}

func TestSlots_RunWithoutBoundaries(t *testing.T) {
	_, slots := WithSlots(context.Background(), mustTemplates(t))
	_, open := <-slots.Run(context.Background())
	assert.False(t, open)
}

func TestTemplates_HTML(t *testing.T) {
	ts := mustTemplates(t)

	html, err := ts.HTML("post_item", struct{ Title string }{"<b>x</b>"})
	require.NoError(t, err)
	assert.Equal(t, template.HTML("<li>&lt;b&gt;x&lt;/b&gt;</li>"), html)

	_, err = ts.HTML("missing", nil)
	assert.Error(t, err)

	replacement := template.Must(template.New("post_item").Parse(`<p>{{.Title}}</p>`))
	ts.Swap(replacement)
	html, err = ts.HTML("post_item", struct{ Title string }{"y"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(html), "<p>"))
}
