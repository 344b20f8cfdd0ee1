package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/okian/crossdash/internal/domain/aggregate"
)

// Margin is the space around a plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Default histogram layout.
var (
	DefaultHistogramMargin = Margin{Top: 40, Right: 20, Bottom: 10, Left: 120}
)

const (
	DefaultHistogramWidth  = 600
	DefaultHistogramHeight = 400
	histogramTicks         = 10
)

// Rect is a bar rectangle in plot coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Lerp interpolates every field toward to.
func (r Rect) Lerp(to Rect, t float64) Rect {
	return Rect{
		X: lerp(r.X, to.X, t),
		Y: lerp(r.Y, to.Y, t),
		W: lerp(r.W, to.W, t),
		H: lerp(r.H, to.H, t),
	}
}

// Bar is one retained histogram bar: where its transition starts and ends.
type Bar struct {
	From    Rect
	To      Rect
	Title   string
	Entered bool
}

// Tick is an axis tick in plot coordinates.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// HistogramOption configures a Histogram.
type HistogramOption func(*Histogram)

// WithHistogramSize sets the outer size and margins.
func WithHistogramSize(width, height float64, m Margin) HistogramOption {
	return func(h *Histogram) {
		if width > m.Left+m.Right && height > m.Top+m.Bottom {
			h.outerW, h.outerH, h.margin = width, height, m
		}
	}
}

// WithHistogramTransition sets the transition duration and easing.
func WithHistogramTransition(d time.Duration, ease Ease) HistogramOption {
	return func(h *Histogram) {
		if d > 0 {
			h.duration = d
		}
		if ease != nil {
			h.ease = ease
		}
	}
}

// Histogram is a retained horizontal-bar histogram: bin boundaries run down
// the vertical axis, counts along the horizontal one.
type Histogram struct {
	id       string
	outerW   float64
	outerH   float64
	margin   Margin
	duration time.Duration
	ease     Ease

	x *Linear // count -> horizontal
	y *Linear // bin boundary -> vertical

	bars   []Bar
	xTicks []Tick
	yTicks []Tick
	exited int
}

// NewHistogram creates an empty histogram mounted at id.
func NewHistogram(id string, opts ...HistogramOption) *Histogram {
	h := &Histogram{
		id:       id,
		outerW:   DefaultHistogramWidth,
		outerH:   DefaultHistogramHeight,
		margin:   DefaultHistogramMargin,
		duration: DefaultDuration,
		ease:     EaseCubicInOut,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.x = NewLinear(0, h.Width())
	h.y = NewLinear(0, h.Height())
	return h
}

// ID returns the mount point.
func (h *Histogram) ID() string { return h.id }

// Width of the plot area.
func (h *Histogram) Width() float64 { return h.outerW - h.margin.Left - h.margin.Right }

// Height of the plot area.
func (h *Histogram) Height() float64 { return h.outerH - h.margin.Top - h.margin.Bottom }

// Update rebinds the bars to bins by position and recomputes the axes.
func (h *Histogram) Update(bins []aggregate.Bin) {
	h.x.SetDomain(0, float64(aggregate.MaxLength(bins)))
	lo, hi := aggregate.Domain(bins)
	h.y.SetDomain(lo, hi)

	plan := Reconcile(ByPosition, make([]string, len(h.bars)), make([]string, len(bins)))
	next := make([]Bar, len(bins))
	for _, m := range plan.Update {
		next[m.New] = Bar{From: h.bars[m.Old].To, To: h.geometry(bins[m.New]), Title: barTitle(bins[m.New])}
	}
	for _, i := range plan.Enter {
		next[i] = Bar{To: h.geometry(bins[i]), Title: barTitle(bins[i]), Entered: true}
	}
	h.exited = len(plan.Exit)
	h.bars = next
	h.xTicks = ticks(h.x, histogramTicks)
	h.yTicks = ticks(h.y, histogramTicks)
}

// Bars returns a copy of the retained bars.
func (h *Histogram) Bars() []Bar {
	return append([]Bar(nil), h.bars...)
}

// Exited reports how many bars the last update removed.
func (h *Histogram) Exited() int { return h.exited }

// Scales exposes the current scales.
func (h *Histogram) Scales() (x, y *Linear) { return h.x, h.y }

func (h *Histogram) geometry(b aggregate.Bin) Rect {
	y0 := h.y.Map(b.X0)
	height := h.y.Map(b.X1) - y0 - 2
	if height < 0 {
		height = 0
	}
	return Rect{X: 0, Y: y0 + 1, W: h.x.Map(float64(b.Length)), H: height}
}

func barTitle(b aggregate.Bin) string {
	return fmt.Sprintf("%s: %d", formatNumber(b.X0), b.Length)
}

func ticks(s *Linear, count int) []Tick {
	values := s.Ticks(count)
	out := make([]Tick, len(values))
	for i, v := range values {
		out[i] = Tick{Value: v, Pos: s.Map(v), Label: formatNumber(v)}
	}
	return out
}

// Scene snapshots the histogram for rendering.
func (h *Histogram) Scene() *HistogramScene {
	return &HistogramScene{
		id:       h.id,
		outerW:   h.outerW,
		outerH:   h.outerH,
		margin:   h.margin,
		duration: h.duration,
		ease:     h.ease,
		Bars:     h.Bars(),
		XTicks:   append([]Tick(nil), h.xTicks...),
		YTicks:   append([]Tick(nil), h.yTicks...),
	}
}

// HistogramScene is the immutable result of a histogram update.
type HistogramScene struct {
	id       string
	outerW   float64
	outerH   float64
	margin   Margin
	duration time.Duration
	ease     Ease

	Bars   []Bar
	XTicks []Tick
	YTicks []Tick
}

// ID returns the mount point.
func (s *HistogramScene) ID() string { return s.id }

// Frame returns every bar rectangle at transition progress t.
func (s *HistogramScene) Frame(t float64) []Rect {
	e := s.ease(t)
	out := make([]Rect, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.From.Lerp(b.To, e)
	}
	return out
}

// WriteSVG renders the scene.
func (s *HistogramScene) WriteSVG(w io.Writer, opts RenderOptions) error {
	sw := &svgWriter{w: w}
	sw.open(s.id, s.outerW, s.outerH)
	sw.printf(`<g transform="translate(%s,%s)">`, coord(s.margin.Left), coord(s.margin.Top))

	width := s.outerW - s.margin.Left - s.margin.Right
	height := s.outerH - s.margin.Top - s.margin.Bottom
	sw.printf(`<g class="x axis"><line x1="0" y1="0" x2="%s" y2="0" stroke="currentColor"/>`, coord(width))
	for _, t := range s.XTicks {
		sw.printf(`<g class="tick" transform="translate(%s,0)"><line y2="-6" stroke="currentColor"/><text y="-9" text-anchor="middle">%s</text></g>`,
			coord(t.Pos), attr(t.Label))
	}
	sw.printf(`</g><g class="y axis"><line x1="0" y1="0" x2="0" y2="%s" stroke="currentColor"/>`, coord(height))
	for _, t := range s.YTicks {
		sw.printf(`<g class="tick" transform="translate(0,%s)"><line x2="-6" stroke="currentColor"/><text x="-9" dy="0.32em" text-anchor="end">%s</text></g>`,
			coord(t.Pos), attr(t.Label))
	}
	sw.printf(`</g>`)

	frame := s.Frame(opts.Progress)
	for i, b := range s.Bars {
		r := b.To
		if opts.Static {
			r = frame[i]
		}
		sw.printf(`<rect class="bar" data-index="%d" x="%s" y="%s" width="%s" height="%s"><title>%s</title>`,
			i, coord(r.X), coord(r.Y), coord(r.W), coord(r.H), attr(b.Title))
		if !opts.Static {
			s.animateBar(sw, b)
		}
		sw.printf(`</rect>`)
	}
	sw.printf(`</g>`)
	sw.close()
	return sw.err
}

func (s *HistogramScene) animateBar(sw *svgWriter, b Bar) {
	times := sampleTimes()
	ys := make([]string, len(times))
	ws := make([]string, len(times))
	hs := make([]string, len(times))
	for i, t := range times {
		r := b.From.Lerp(b.To, s.ease(t))
		ys[i], ws[i], hs[i] = coord(r.Y), coord(r.W), coord(r.H)
	}
	sw.animate("y", ys, s.duration)
	sw.animate("width", ws, s.duration)
	sw.animate("height", hs, s.duration)
}
