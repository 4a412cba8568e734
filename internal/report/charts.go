package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/fieldsense/perception/internal/db"
)

// missing is how echarts marks a gap in a series.
const missing = "-"

func reachValue(v *int) opts.LineData {
	if v == nil {
		return opts.LineData{Value: missing}
	}
	return opts.LineData{Value: *v}
}

func lineValue(x float64, age, maxAge int) opts.LineData {
	if age >= maxAge {
		return opts.LineData{Value: missing}
	}
	return opts.LineData{Value: x}
}

// ReachChart charts the per-cycle reach estimates of a run. Our reach is
// capped at capCycles so that unreachable cycles do not flatten the chart.
func ReachChart(runID string, cycles []db.CycleSummary, capCycles int) *charts.Line {
	x := make([]int, 0, len(cycles))
	self := make([]opts.LineData, 0, len(cycles))
	mate := make([]opts.LineData, 0, len(cycles))
	opp := make([]opts.LineData, 0, len(cycles))
	for _, c := range cycles {
		x = append(x, c.Cycle)
		s := c.SelfReach
		if s > capCycles {
			s = capCycles
		}
		self = append(self, opts.LineData{Value: s})
		mate = append(mate, reachValue(c.TeammateReach))
		opp = append(opp, reachValue(c.OpponentReach))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Reach", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Cycles to reach the ball", Subtitle: fmt.Sprintf("run=%s cycles=%d", runID, len(cycles))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cycle", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cycles", Max: capCycles}),
	)
	line.SetXAxis(x).
		AddSeries("self", self).
		AddSeries("fastest teammate", mate).
		AddSeries("fastest opponent", opp)
	return line
}

// LinesChart charts the offside and defense line estimates of a run.
func LinesChart(runID string, cycles []db.CycleSummary, o Options) *charts.Line {
	x := make([]int, 0, len(cycles))
	offside := make([]opts.LineData, 0, len(cycles))
	defense := make([]opts.LineData, 0, len(cycles))
	for _, c := range cycles {
		x = append(x, c.Cycle)
		offside = append(offside, lineValue(c.OffsideX, c.OffsideAge, o.MaxAge))
		defense = append(defense, lineValue(c.DefenseX, c.DefenseAge, o.MaxAge))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Lines", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Tactical lines", Subtitle: fmt.Sprintf("run=%s", runID)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cycle", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "X (m)", Min: -o.HalfLength, Max: o.HalfLength}),
	)
	line.SetXAxis(x).
		AddSeries("offside", offside).
		AddSeries("defense", defense)
	return line
}

// RenderRunPage writes an HTML page with every chart of a run.
func RenderRunPage(w io.Writer, runID string, cycles []db.CycleSummary, capCycles int, o Options) error {
	if len(cycles) == 0 {
		return ErrNoCycles
	}
	page := components.NewPage()
	page.PageTitle = "Perception run " + runID
	page.AddCharts(
		ReachChart(runID, cycles, capCycles),
		LinesChart(runID, cycles, o),
	)
	return page.Render(w)
}
