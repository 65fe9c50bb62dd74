package render

import (
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/hamed0406/maintwindow/internal/timeline"
)

const (
	defaultWidth    = 1024
	defaultHeight   = 160
	maxTicks        = 16
	barY            = 1.0
	maintenanceBarW = 26
	downBarW        = 14
	nowMarkerW      = 3
)

var (
	colorMaintenance = drawing.Color{R: 255, G: 205, B: 86, A: 200}
	colorServerDown  = drawing.Color{R: 255, G: 99, B: 132, A: 220}
	colorNow         = drawing.Color{R: 54, G: 162, B: 235, A: 255}
	colorAxis        = drawing.Color{R: 102, G: 102, B: 102, A: 255}
)

// Chart renders the timeline with go-chart: one bar per projected window and
// a vertical marker at now.
type Chart struct {
	Width  int
	Height int
	Format Format
}

// NewChart returns a chart renderer; zero sizes fall back to defaults.
func NewChart(width, height int, format Format) *Chart {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Chart{Width: width, Height: height, Format: format}
}

func (c *Chart) ContentType() string {
	if c.Format == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (c *Chart) Render(w io.Writer, in Input) (err error) {
	if !in.Bounds.End.After(in.Bounds.Start) {
		return fmt.Errorf("%w: empty window %v..%v", ErrRender, in.Bounds.Start, in.Bounds.End)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRender, r)
		}
	}()

	ch := chart.Chart{
		Width:      c.Width,
		Height:     c.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 8}},
		XAxis: chart.XAxis{
			Style:        chart.Style{FontColor: colorAxis, StrokeColor: colorAxis, StrokeWidth: 1},
			TickPosition: chart.TickPositionUnderTick,
			Ticks:        c.ticks(in),
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(in.Bounds.Start),
				Max: chart.TimeToFloat64(in.Bounds.End),
			},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: 0, Max: 2 * barY},
		},
		Series: c.series(in),
	}

	rp := chart.SVG
	if c.Format == FormatPNG {
		rp = chart.PNG
	}
	if err := ch.Render(rp, w); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// ticks pins the first and last tick to the window edges so the axis range
// is exactly the window; edge ticks that are not step-aligned stay unlabeled.
func (c *Chart) ticks(in Input) []chart.Tick {
	instants := timeline.Ticks(in.Bounds, maxTicks)
	out := make([]chart.Tick, 0, len(instants)+2)
	if len(instants) == 0 || !instants[0].Equal(in.Bounds.Start) {
		out = append(out, chart.Tick{Value: chart.TimeToFloat64(in.Bounds.Start)})
	}
	for _, t := range instants {
		out = append(out, chart.Tick{Value: chart.TimeToFloat64(t), Label: in.Config.TickLabel(t)})
	}
	if len(instants) == 0 || !instants[len(instants)-1].Equal(in.Bounds.End) {
		out = append(out, chart.Tick{Value: chart.TimeToFloat64(in.Bounds.End)})
	}
	return out
}

func (c *Chart) series(in Input) []chart.Series {
	// hidden baseline keeps the chart valid when nothing is in view
	series := []chart.Series{chart.TimeSeries{
		Name:    "window",
		Style:   chart.Style{Hidden: true},
		XValues: []time.Time{in.Bounds.Start, in.Bounds.End},
		YValues: []float64{0, 0},
	}}

	spans := timeline.Project(in.Events, in.Bounds)
	// maintenance bars first so server-down bars are drawn on top
	for _, kind := range []timeline.SpanKind{timeline.SpanMaintenance, timeline.SpanServerDown} {
		for _, s := range spans {
			if s.Kind != kind {
				continue
			}
			series = append(series, bar(s))
		}
	}

	if in.Bounds.Contains(in.Now) {
		series = append(series, chart.TimeSeries{
			Name:    "Now",
			Style:   chart.Style{StrokeColor: colorNow, StrokeWidth: nowMarkerW},
			XValues: []time.Time{in.Now, in.Now},
			YValues: []float64{barY - 0.6, barY + 0.6},
		})
	}
	return series
}

func bar(s timeline.Span) chart.TimeSeries {
	style := chart.Style{StrokeColor: colorMaintenance, StrokeWidth: maintenanceBarW}
	name := "Maintenance window"
	if s.Kind == timeline.SpanServerDown {
		style = chart.Style{StrokeColor: colorServerDown, StrokeWidth: downBarW}
		name = "Server down"
	}
	return chart.TimeSeries{
		Name:    name,
		Style:   style,
		XValues: []time.Time{s.Start, s.End},
		YValues: []float64{barY, barY},
	}
}
