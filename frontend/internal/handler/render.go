package handler

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/itchan-dev/routelab/frontend/internal/render"
	internal_errors "github.com/itchan-dev/routelab/shared/errors"
	"github.com/itchan-dev/routelab/shared/logger"
	"github.com/itchan-dev/routelab/shared/utils"
)

const (
	renderModeHeader = "X-Render-Mode"

	modeStatic    = "static"
	modeDynamic   = "dynamic"
	modeStreaming = "streaming"
)

type errorView struct {
	Status     int
	StatusText string
	Dev        bool
	Message    string
}

// renderDocument renders content inside the root layout into one buffer.
func (h *Handler) renderDocument(ctx context.Context, content render.Content) ([]byte, error) {
	body, err := content(ctx)
	if err != nil {
		return nil, err
	}
	head, tail, err := h.documentHalves()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(head) + len(body) + len(tail))
	buf.WriteString(string(head))
	buf.WriteString(string(body))
	buf.WriteString(string(tail))
	return buf.Bytes(), nil
}

func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, content render.Content) {
	page, err := h.renderDocument(r.Context(), content)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	writeHTML(w, modeDynamic, http.StatusOK, page)
}

// streamDocument flushes the shell with its boundary fallbacks first, then
// writes one chunk per boundary in the order they settle.
func (h *Handler) streamDocument(w http.ResponseWriter, r *http.Request, content render.Content) {
	ctx, slots := render.WithSlots(r.Context(), h.Templates)

	shell, err := content(ctx)
	if err != nil {
		h.serveError(w, r, err)
		return
	}
	head, tail, err := h.documentHalves()
	if err != nil {
		h.serveError(w, r, err)
		return
	}

	setHTMLHeaders(w, modeStreaming)
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	if err := writeFlush(w, rc, head+shell); err != nil {
		logger.Log.Debug("client gone before shell was sent", "component", "handler", "path", r.URL.Path, "error", err)
		return
	}

	for u := range slots.Run(ctx) {
		if u.Err != nil {
			logger.Log.Warn("suspense boundary failed",
				"component", "handler",
				"path", r.URL.Path,
				"slot", u.Index,
				"error", u.Err)
		}
		chunk, err := slots.Chunk(u)
		if err != nil {
			logger.Log.Error("failed to render slot chunk", "component", "handler", "slot", u.Index, "error", err)
			continue
		}
		if chunk == "" {
			continue
		}
		if err := writeFlush(w, rc, chunk); err != nil {
			logger.Log.Debug("client gone while streaming", "component", "handler", "path", r.URL.Path, "error", err)
			return
		}
	}

	io.WriteString(w, string(tail))

	failed := 0
	for _, state := range slots.States() {
		if state == render.SlotFailed {
			failed++
		}
	}
	logger.Log.Debug("stream finished",
		"component", "handler",
		"path", r.URL.Path,
		"slots", slots.Len(),
		"failed", failed)
}

func writeFlush(w io.Writer, rc *http.ResponseController, html template.HTML) error {
	if _, err := io.WriteString(w, string(html)); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// serveError renders the error page with the status mapped from err.
func (h *Handler) serveError(w http.ResponseWriter, r *http.Request, err error) {
	status := internal_errors.StatusCode(err)
	logger.Log.Error("failed to render page",
		"component", "handler",
		"path", r.URL.Path,
		"status", status,
		"error", err)

	view := errorView{
		Status:     status,
		StatusText: http.StatusText(status),
		Dev:        h.Public.Dev,
		Message:    err.Error(),
	}
	body, renderErr := h.Templates.HTML("error_page", view)
	var page []byte
	if renderErr == nil {
		// the request context may be the one that expired
		page, renderErr = h.renderDocument(context.WithoutCancel(r.Context()), render.Static(body))
	}
	if renderErr != nil {
		logger.Log.Error("failed to render error page", "component", "handler", "error", renderErr)
		utils.WriteErrorAndStatusCode(w, &internal_errors.ErrorWithStatusCode{Message: http.StatusText(status), StatusCode: status})
		return
	}
	writeHTML(w, modeDynamic, status, page)
}

func setHTMLHeaders(w http.ResponseWriter, mode string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set(renderModeHeader, mode)
}

func writeHTML(w http.ResponseWriter, mode string, status int, page []byte) {
	setHTMLHeaders(w, mode)
	w.WriteHeader(status)
	w.Write(page)
}
