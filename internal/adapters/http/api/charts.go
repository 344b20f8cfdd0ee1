package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/okian/crossdash/internal/chart"
)

// ChartsHandler serves chart images.
type ChartsHandler struct {
	deps Dependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleChart handles GET /api/charts/{name}.svg and /api/charts/{name}.png.
// The optional ?t= query in [0, 1] returns a static SVG frame.
func (h *ChartsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.chart"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	file := path.Base(r.URL.Path)
	ext := path.Ext(file)
	name := strings.TrimSuffix(file, ext)

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch ext {
	case ".svg":
		opts, perr := renderOptions(r)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, perr))
			return
		}
		contentType = "image/svg+xml"
		err = h.deps.ChartSVG(r.Context(), name, &buf, opts)
	case ".png":
		contentType = "image/png"
		err = h.deps.ChartPNG(r.Context(), name, &buf)
	default:
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	if err != nil {
		writeClassified(w, op, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func renderOptions(r *http.Request) (chart.RenderOptions, error) {
	raw := r.URL.Query().Get("t")
	if raw == "" {
		return chart.RenderOptions{}, nil
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil || t < 0 || t > 1 {
		return chart.RenderOptions{}, fmt.Errorf("t must be a number in [0, 1], got %q", raw)
	}
	return chart.RenderOptions{Static: true, Progress: t}, nil
}
