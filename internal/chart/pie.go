package chart

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/okian/crossdash/internal/domain/aggregate"
	"github.com/okian/crossdash/internal/domain/model"
)

const (
	DefaultPieRadius = 100
	DefaultPieMargin = 10
)

// noSlice holds the starting arcs for entering wedges, picked by position
// parity: a full circle for even positions, an empty wedge for odd ones.
var noSlice = [2]Arc{
	{Start: 0, End: 2 * math.Pi},
	{Start: 0, End: 0},
}

// Arc is a wedge given by its angles in radians, clockwise from 12 o'clock.
type Arc struct {
	Start float64
	End   float64
	Pad   float64
}

// Lerp interpolates the angles toward to.
func (a Arc) Lerp(to Arc, t float64) Arc {
	return Arc{
		Start: lerp(a.Start, to.Start, t),
		End:   lerp(a.End, to.End, t),
		Pad:   lerp(a.Pad, to.Pad, t),
	}
}

// Path returns the SVG path of the wedge for radius r centred on the origin.
func (a Arc) Path(r float64) string {
	start, end := a.Start, a.End
	if a.Pad > 0 && math.Abs(end-start) > a.Pad {
		start += a.Pad / 2
		end -= a.Pad / 2
	}
	span := math.Abs(end - start)
	const eps = 1e-9
	if span < eps || r <= 0 {
		return "M0,0Z"
	}
	if span >= 2*math.Pi-eps {
		return fmt.Sprintf("M0,%sA%s,%s,0,1,1,0,%sA%s,%s,0,1,1,0,%sZ",
			coord(-r), coord(r), coord(r), coord(r), coord(r), coord(r), coord(-r))
	}
	large, sweep := 0, 1
	if span > math.Pi {
		large = 1
	}
	if end < start {
		sweep = 0
	}
	x0, y0 := polar(r, start)
	x1, y1 := polar(r, end)
	return fmt.Sprintf("M%s,%sA%s,%s,0,%d,%d,%s,%sL0,0Z",
		coord(x0), coord(y0), coord(r), coord(r), large, sweep, coord(x1), coord(y1))
}

func polar(r, angle float64) (float64, float64) {
	return r * math.Sin(angle), -r * math.Cos(angle)
}

// Layout assigns each count its share of the circle in input order. A zero
// total yields zero wedges at angle 0.
func Layout(counts []int) []Arc {
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]Arc, len(counts))
	if total == 0 {
		return out
	}
	angle := 0.0
	for i, c := range counts {
		end := angle + 2*math.Pi*float64(c)/float64(total)
		out[i] = Arc{Start: angle, End: end}
		angle = end
	}
	return out
}

// Wedge is one retained pie slice.
type Wedge struct {
	Key      string
	Count    int
	From     Arc
	To       Arc
	Fill     string
	Selected bool
	Exiting  bool
}

// Title is the tooltip text.
func (w Wedge) Title() string { return fmt.Sprintf("%s: %d", w.Key, w.Count) }

// ClickHandler receives wedge clicks with the slot the pie is bound to.
type ClickHandler func(ctx context.Context, slot model.Slot, key string) error

// PieOption configures a Pie.
type PieOption func(*Pie)

// WithPalette sets the colors handed out to keys.
func WithPalette(palette []string) PieOption {
	return func(p *Pie) {
		if len(palette) > 0 {
			p.colors = NewOrdinal(palette)
		}
	}
}

// WithRadius sets the radius and the margin around it.
func WithRadius(radius, margin float64) PieOption {
	return func(p *Pie) {
		if radius > 0 && margin >= 0 {
			p.radius, p.margin = radius, margin
		}
	}
}

// WithPieTransition sets the transition duration and easing.
func WithPieTransition(d time.Duration, ease Ease) PieOption {
	return func(p *Pie) {
		if d > 0 {
			p.duration = d
		}
		if ease != nil {
			p.ease = ease
		}
	}
}

// WithClickHandler binds the handler invoked by Click.
func WithClickHandler(fn ClickHandler) PieOption {
	return func(p *Pie) { p.onClick = fn }
}

// Pie is a retained pie chart joined to its slices by key.
type Pie struct {
	id       string
	slot     model.Slot
	radius   float64
	margin   float64
	duration time.Duration
	ease     Ease
	colors   *Ordinal
	onClick  ClickHandler

	wedges  []Wedge
	exiting []Wedge
}

// NewPie creates an empty pie mounted at id and bound to slot.
func NewPie(id string, slot model.Slot, opts ...PieOption) *Pie {
	p := &Pie{
		id:       id,
		slot:     slot,
		radius:   DefaultPieRadius,
		margin:   DefaultPieMargin,
		duration: DefaultDuration,
		ease:     EaseCubicInOut,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.colors == nil {
		p.colors = NewOrdinal(nil)
	}
	return p
}

// ID returns the mount point.
func (p *Pie) ID() string { return p.id }

// Slot returns the filter slot the pie toggles.
func (p *Pie) Slot() model.Slot { return p.slot }

// Update joins slices by key. Exiting wedges from the previous update are
// detached first.
func (p *Pie) Update(slices []aggregate.Slice, selected string) {
	counts := make([]int, len(slices))
	newKeys := make([]string, len(slices))
	for i, s := range slices {
		counts[i] = s.Count()
		newKeys[i] = s.Key
	}
	arcs := Layout(counts)

	oldKeys := make([]string, len(p.wedges))
	for i, w := range p.wedges {
		oldKeys[i] = w.Key
	}
	plan := Reconcile(ByKey, oldKeys, newKeys)

	next := make([]Wedge, len(slices))
	for _, m := range plan.Update {
		next[m.New] = p.wedge(slices[m.New], arcs[m.New], p.wedges[m.Old].To, selected)
	}
	for _, i := range plan.Enter {
		next[i] = p.wedge(slices[i], arcs[i], noSlice[i%2], selected)
	}

	p.exiting = p.exiting[:0]
	for _, j := range plan.Exit {
		w := p.wedges[j]
		w.From = w.To
		w.To = Arc{Start: w.From.End, End: w.From.End}
		w.Exiting = true
		w.Selected = false
		p.exiting = append(p.exiting, w)
	}
	p.wedges = next
}

func (p *Pie) wedge(s aggregate.Slice, to, from Arc, selected string) Wedge {
	return Wedge{
		Key:      s.Key,
		Count:    s.Count(),
		From:     from,
		To:       to,
		Fill:     p.colors.Color(s.Key),
		Selected: selected != "" && s.Key == selected,
	}
}

// Wedges returns a copy of the bound wedges.
func (p *Pie) Wedges() []Wedge { return append([]Wedge(nil), p.wedges...) }

// Exiting returns the wedges collapsing since the last update.
func (p *Pie) Exiting() []Wedge { return append([]Wedge(nil), p.exiting...) }

// Click forwards a click on the wedge with key to the bound handler.
func (p *Pie) Click(ctx context.Context, key string) error {
	return click(ctx, p.id, p.slot, p.wedges, p.onClick, key)
}

func click(ctx context.Context, id string, slot model.Slot, wedges []Wedge, fn ClickHandler, key string) error {
	for _, w := range wedges {
		if w.Key != key {
			continue
		}
		if fn == nil {
			return nil
		}
		return fn(ctx, slot, key)
	}
	return fmt.Errorf("pie %s: %w: %q", id, ErrUnknownKey, key)
}

// Scene snapshots the pie for rendering.
func (p *Pie) Scene() *PieScene {
	return &PieScene{
		id:       p.id,
		slot:     p.slot,
		radius:   p.radius,
		margin:   p.margin,
		duration: p.duration,
		ease:     p.ease,
		onClick:  p.onClick,
		Wedges:   p.Wedges(),
		Exiting:  p.Exiting(),
	}
}

// PieScene is the immutable result of a pie update.
type PieScene struct {
	id       string
	slot     model.Slot
	radius   float64
	margin   float64
	duration time.Duration
	ease     Ease
	onClick  ClickHandler

	Wedges  []Wedge
	Exiting []Wedge
}

// ID returns the mount point.
func (s *PieScene) ID() string { return s.id }

// Slot returns the filter slot the pie toggles.
func (s *PieScene) Slot() model.Slot { return s.slot }

// Click behaves like Pie.Click against the wedges of this scene.
func (s *PieScene) Click(ctx context.Context, key string) error {
	return click(ctx, s.id, s.slot, s.Wedges, s.onClick, key)
}

// Frame returns the arcs of the bound wedges at transition progress t.
func (s *PieScene) Frame(t float64) []Arc {
	e := s.ease(t)
	out := make([]Arc, len(s.Wedges))
	for i, w := range s.Wedges {
		out[i] = w.From.Lerp(w.To, e)
	}
	return out
}

// WriteSVG renders the scene.
func (s *PieScene) WriteSVG(w io.Writer, opts RenderOptions) error {
	size := 2 * (s.radius + s.margin)
	sw := &svgWriter{w: w}
	sw.open(s.id, size, size)
	sw.printf(`<g transform="translate(%s,%s)">`, coord(size/2), coord(size/2))
	for _, wd := range s.Wedges {
		s.writeWedge(sw, wd, opts)
	}
	for _, wd := range s.Exiting {
		s.writeWedge(sw, wd, opts)
	}
	sw.printf(`</g>`)
	sw.close()
	return sw.err
}

func (s *PieScene) writeWedge(sw *svgWriter, wd Wedge, opts RenderOptions) {
	arc := wd.To
	if opts.Static {
		arc = wd.From.Lerp(wd.To, s.ease(opts.Progress))
	}
	class := "slice"
	if wd.Selected {
		class += " selected"
	}
	if wd.Exiting {
		class += " exiting"
	}
	sw.printf(`<path class="%s" data-slot="%s" data-key="%s" d="%s" style="fill:%s"><title>%s</title>`,
		class, attr(string(s.slot)), attr(wd.Key), arc.Path(s.radius), attr(wd.Fill), attr(wd.Title()))
	if !opts.Static {
		times := sampleTimes()
		paths := make([]string, len(times))
		for i, t := range times {
			paths[i] = wd.From.Lerp(wd.To, s.ease(t)).Path(s.radius)
		}
		sw.animate("d", paths, s.duration)
	}
	sw.printf(`</path>`)
}
