package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/db"
)

func intPtr(v int) *int { return &v }

func sampleRun() []db.CycleSummary {
	return []db.CycleSummary{
		{Cycle: 1, SelfX: -10, SelfY: 0, BallX: 0, BallY: 0, SelfReach: 8, OpponentReach: intPtr(12), OffsideX: 20, DefenseX: -25},
		{Cycle: 2, SelfX: -9.5, SelfY: 0.2, BallPosAge: 1000, SelfReach: 7, TeammateReach: intPtr(3), OffsideAge: 1000},
		{Cycle: 3, SelfPosAge: 1000, BallX: 1, BallY: 0.5, SelfReach: 1000},
	}
}

func TestTrajectoryPointsDropStaleAges(t *testing.T) {
	t.Parallel()

	self, ball := trajectoryPoints(sampleRun(), 10)
	assert.Len(t, self, 2)
	assert.Len(t, ball, 2)
	assert.Equal(t, 1.0, ball[1].X)
}

func TestWriteTrajectoryPNG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTrajectoryPNG(&buf, "run", sampleRun(), DefaultOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "output is not a PNG")
}

func TestTrajectoryPlotNeedsCycles(t *testing.T) {
	t.Parallel()

	_, err := TrajectoryPlot("empty", nil, DefaultOptions())
	assert.True(t, errors.Is(err, ErrNoCycles))
}

func TestReachValueMarksGaps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, missing, reachValue(nil).Value)
	assert.Equal(t, 4, reachValue(intPtr(4)).Value)
	assert.Equal(t, missing, lineValue(3, 10, 10).Value)
	assert.Equal(t, 3.0, lineValue(3, 9, 10).Value)
}

func TestRenderRunPage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, RenderRunPage(&buf, "abc", sampleRun(), 50, DefaultOptions()))
	html := buf.String()
	assert.True(t, strings.Contains(html, "Cycles to reach the ball"))
	assert.True(t, strings.Contains(html, "fastest opponent"))
	assert.True(t, strings.Contains(html, "Tactical lines"))

	assert.ErrorIs(t, RenderRunPage(&buf, "abc", nil, 50, DefaultOptions()), ErrNoCycles)
}
