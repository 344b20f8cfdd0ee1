// Package export renders the current aggregates as static PNG charts.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/crossdash/internal/domain/aggregate"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	defaultWidth  = 800
	defaultHeight = 480
	barFill       = "#4682b4"
)

type options struct {
	width   int
	height  int
	palette []string
}

// Option configures an export.
type Option func(*options)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithPalette sets the slice colors for pies, in slice order.
func WithPalette(palette []string) Option {
	return func(o *options) {
		if len(palette) > 0 {
			o.palette = palette
		}
	}
}

func build(opts []Option) options {
	o := options{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Histogram draws bins as a bar chart labelled by each bin's lower bound.
func Histogram(w io.Writer, title string, bins []aggregate.Bin, opts ...Option) error {
	if len(bins) == 0 {
		return fmt.Errorf("histogram %q: %w", title, ErrEmptyChart)
	}
	o := build(opts)

	bars := make([]chart.Value, len(bins))
	for i, b := range bins {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.0f", b.X0),
			Value: float64(b.Length),
			Style: chart.Style{FillColor: color(barFill), StrokeColor: color(barFill)},
		}
	}
	top := float64(aggregate.MaxLength(bins))
	if top == 0 {
		top = 1 // go-chart rejects a zero-height range
	}

	slot := float64(o.width-80) / float64(len(bins))
	bc := chart.BarChart{
		Title:      title,
		Width:      o.width,
		Height:     o.height,
		BarWidth:   max(int(slot*0.75), 1),
		BarSpacing: max(int(slot*0.25), 1),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top}},
		Bars:       bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render histogram %q: %w", title, err)
	}
	return nil
}

// Pie draws one wedge per non-empty slice. All-empty input is ErrEmptyChart.
func Pie(w io.Writer, title string, slices []aggregate.Slice, opts ...Option) error {
	o := build(opts)

	values := make([]chart.Value, 0, len(slices))
	for i, s := range slices {
		if s.Count() == 0 {
			continue
		}
		v := chart.Value{
			Label: fmt.Sprintf("%s: %d", s.Key, s.Count()),
			Value: float64(s.Count()),
		}
		if len(o.palette) > 0 {
			c := color(o.palette[i%len(o.palette)])
			v.Style = chart.Style{FillColor: c, StrokeColor: drawing.ColorWhite}
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return fmt.Errorf("pie %q: %w", title, ErrEmptyChart)
	}

	pc := chart.PieChart{
		Title:  title,
		Width:  o.height,
		Height: o.height,
		Values: values,
	}
	if err := pc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render pie %q: %w", title, err)
	}
	return nil
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
