package chart

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"
)

// Scene is an immutable picture of a chart after its last update. Scenes are
// safe to render from any goroutine.
type Scene interface {
	ID() string
	WriteSVG(w io.Writer, opts RenderOptions) error
}

// RenderOptions controls SVG output. A static render draws the frame at
// Progress instead of emitting animations.
type RenderOptions struct {
	Static   bool
	Progress float64
}

// svgWriter keeps the first write error so callers check once at the end.
type svgWriter struct {
	w   io.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *svgWriter) open(id string, width, height float64) {
	s.printf(`<svg xmlns="http://www.w3.org/2000/svg" id="%s" width="%s" height="%s" viewBox="0 0 %s %s">`,
		attr(id), coord(width), coord(height), coord(width), coord(height))
}

func (s *svgWriter) close() { s.printf("</svg>") }

// animate emits an SMIL animation whose values follow the eased samples.
func (s *svgWriter) animate(name string, values []string, dur time.Duration) {
	if len(values) < 2 || allEqual(values) {
		return
	}
	times := sampleTimes()
	keys := make([]string, len(times))
	for i, t := range times {
		keys[i] = coord(t)
	}
	s.printf(`<animate attributeName="%s" dur="%dms" values="%s" keyTimes="%s" fill="freeze"/>`,
		name, dur.Milliseconds(), strings.Join(values, ";"), strings.Join(keys, ";"))
}

func allEqual(values []string) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func attr(s string) string { return html.EscapeString(s) }
