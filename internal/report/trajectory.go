package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fieldsense/perception/internal/db"
)

// ErrNoCycles is returned when there is nothing to draw.
var ErrNoCycles = errors.New("no cycles to render")

var (
	selfColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	ballColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	lineColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// trajectoryPoints splits the rows into the valid self and ball positions.
func trajectoryPoints(cycles []db.CycleSummary, maxAge int) (self, ball plotter.XYs) {
	for _, c := range cycles {
		if c.SelfPosAge < maxAge {
			self = append(self, plotter.XY{X: c.SelfX, Y: c.SelfY})
		}
		if c.BallPosAge < maxAge {
			ball = append(ball, plotter.XY{X: c.BallX, Y: c.BallY})
		}
	}
	return self, ball
}

// TrajectoryPlot builds a top-down plot of a run on the pitch.
func TrajectoryPlot(title string, cycles []db.CycleSummary, o Options) (*plot.Plot, error) {
	if len(cycles) == 0 {
		return nil, ErrNoCycles
	}
	self, ball := trajectoryPoints(cycles, o.MaxAge)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.X.Min, p.X.Max = -o.HalfLength, o.HalfLength
	p.Y.Min, p.Y.Max = -o.HalfWidth, o.HalfWidth

	halfway, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -o.HalfWidth}, {X: 0, Y: o.HalfWidth}})
	if err != nil {
		return nil, err
	}
	halfway.Color = lineColor
	halfway.Width = vg.Points(0.5)
	p.Add(halfway)

	if len(self) > 0 {
		selfLine, err := plotter.NewLine(self)
		if err != nil {
			return nil, fmt.Errorf("self trajectory: %w", err)
		}
		selfLine.Color = selfColor
		selfLine.Width = vg.Points(1)
		p.Add(selfLine)
		p.Legend.Add("self", selfLine)
	}
	if len(ball) > 0 {
		ballPts, err := plotter.NewScatter(ball)
		if err != nil {
			return nil, fmt.Errorf("ball trajectory: %w", err)
		}
		ballPts.GlyphStyle.Color = ballColor
		ballPts.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(ballPts)
		p.Legend.Add("ball", ballPts)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WriteTrajectoryPNG renders TrajectoryPlot as a PNG to w.
func WriteTrajectoryPNG(w io.Writer, title string, cycles []db.CycleSummary, o Options) error {
	p, err := TrajectoryPlot(title, cycles, o)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(14*vg.Inch, 9*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
