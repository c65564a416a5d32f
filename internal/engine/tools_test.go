package engine

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionTreeBranches(t *testing.T) {
	var d DecisionTree
	assert.False(t, d.Active())
	assert.Equal(t, QuestionPriority, d.Verdict().Headline)

	d.ChoosePriority(AnswerNo)
	assert.Equal(t, ToneStop, d.Verdict().Tone)
	assert.False(t, d.AsksCapacity())
	assert.False(t, d.ChooseCapacity(AnswerYes), "capacity only after a yes")

	d.ChoosePriority(AnswerMaybe)
	assert.Equal(t, TonePause, d.Verdict().Tone)

	d.ChoosePriority(AnswerYes)
	assert.True(t, d.AsksCapacity())
	assert.Equal(t, QuestionCapacity, d.Verdict().Headline)
	require.True(t, d.ChooseCapacity(AnswerYes))
	assert.Equal(t, ToneGo, d.Verdict().Tone)
	require.True(t, d.ChooseCapacity(AnswerNo))
	assert.Equal(t, "🚫 Say No or Negotiate!", d.Verdict().Headline)

	d.ChoosePriority(AnswerNo)
	assert.Equal(t, AnswerUnset, d.Capacity, "switching priority drops the capacity branch")

	d.Reset()
	assert.False(t, d.Active())
}

func TestTrackerBands(t *testing.T) {
	tr := NewTracker(0)
	assert.Equal(t, DefaultAvailableHours, tr.AvailableHours)
	require.ErrorIs(t, tr.Add("", 3), ErrEmptyInput)
	require.ErrorIs(t, tr.Add("x", 0), ErrInvalidHours)
	require.ErrorIs(t, tr.Add("x", 200), ErrInvalidHours)
	for _, h := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		require.ErrorIs(t, tr.Add("ghost", h), ErrInvalidHours)
		require.ErrorIs(t, tr.SetAvailable(h), ErrInvalidHours)
	}
	assert.Empty(t, tr.Commitments)
	assert.Equal(t, DefaultAvailableHours, tr.AvailableHours)

	require.NoError(t, tr.Add("Project A", 20))
	assert.Equal(t, BandComfortable, tr.Band())
	require.NoError(t, tr.Add("Meetings", 8))
	assert.InDelta(t, 70, tr.Load(), 1e-9)
	assert.Equal(t, BandStretched, tr.Band())
	require.NoError(t, tr.Add("Support", 10))
	assert.Equal(t, BandOverloaded, tr.Band())
	assert.InDelta(t, 2, tr.Remaining(), 1e-9)

	require.NoError(t, tr.Remove(2))
	assert.InDelta(t, 28, tr.Committed(), 1e-9)
	require.ErrorIs(t, tr.SetAvailable(-1), ErrInvalidHours)

	out := CapacityReport(tr, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "Load: 70% (stretched)")
	assert.Contains(t, out, "2. Meetings - 8.0h")
}

func mustClock(t *testing.T, s string) Clock {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

func TestParseClock(t *testing.T) {
	assert.Equal(t, Clock(9*60+30), mustClock(t, "09:30"))
	assert.Equal(t, Clock(24*60), mustClock(t, "24:00"))
	assert.Equal(t, Clock(9*60+5), mustClock(t, " 9:05 "))
	for _, bad := range []string{"", "9", "25:00", "10:75", "24:01", "ab:cd", "10:30xyz", "+9:05", "9:5", "-1:00", "123:00", "10:30-11:00"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidTime, bad)
	}
	assert.Equal(t, "07:05", Clock(7*60+5).String())
}

func TestPlanAddOverlapAndGaps(t *testing.T) {
	p := NewPlan()
	require.NoError(t, p.Add(Block{Label: "Standup", Category: CategoryMeetings, Start: mustClock(t, "09:00"), End: mustClock(t, "09:15")}))
	require.NoError(t, p.Add(Block{Label: "Deep work", Start: mustClock(t, "10:00"), End: mustClock(t, "12:00")}))
	err := p.Add(Block{Label: "Clash", Start: mustClock(t, "11:30"), End: mustClock(t, "12:30")})
	require.ErrorIs(t, err, ErrBlockOverlap)
	require.ErrorIs(t, p.Add(Block{Label: "Backwards", Start: mustClock(t, "13:00"), End: mustClock(t, "12:00")}), ErrInvalidTime)
	require.ErrorIs(t, p.Add(Block{Label: " ", Start: 1, End: 2}), ErrEmptyInput)
	require.NoError(t, p.Add(Block{Label: "Lunch", Category: CategoryBreak, Start: mustClock(t, "12:00"), End: mustClock(t, "13:00")}))

	assert.Equal(t, CategoryDeepWork, p.Blocks[1].Category, "empty category defaults to deep work")
	totals := p.Totals()
	assert.Equal(t, 120, totals[CategoryDeepWork])
	assert.Equal(t, 15, totals[CategoryMeetings])

	want := []Gap{
		{Start: mustClock(t, "09:15"), End: mustClock(t, "10:00")},
		{Start: mustClock(t, "13:00"), End: mustClock(t, "17:00")},
	}
	if diff := cmp.Diff(want, p.Gaps()); diff != "" {
		t.Fatalf("gaps mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, p.Current(mustClock(t, "11:59")))
	assert.Equal(t, -1, p.Current(mustClock(t, "09:30")))
}

func TestPlanYAMLRoundTrip(t *testing.T) {
	src := `day_start: "08:00"
day_end: "16:00"
blocks:
  - label: Email
    category: admin
    start: "08:00"
    end: "08:30"
  - label: Focus
    start: "08:30"
    end: "10:30"
`
	p, err := LoadPlan(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, mustClock(t, "08:00"), p.DayStart)
	require.Len(t, p.Blocks, 2)
	assert.Equal(t, CategoryDeepWork, p.Blocks[1].Category)

	var buf bytes.Buffer
	require.NoError(t, SavePlan(&buf, p))
	assert.Contains(t, buf.String(), "08:30")

	again, err := LoadPlan(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(p, again); diff != "" {
		t.Fatalf("plan changed after save/load:\n%s", diff)
	}

	_, err = LoadPlan(strings.NewReader("blocks:\n  - label: A\n    start: \"09:00\"\n    end: \"10:00\"\n  - label: B\n    start: \"09:30\"\n    end: \"10:30\"\n"))
	require.ErrorIs(t, err, ErrBlockOverlap)
}

func TestPlanReport(t *testing.T) {
	p := NewPlan()
	require.NoError(t, p.Add(Block{Label: "Focus", Start: mustClock(t, "09:00"), End: mustClock(t, "10:30")}))
	out := PlanReport(p, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "09:00-10:30  [deep-work] Focus")
	assert.Contains(t, out, "- deep-work: 1h30m")
	assert.Contains(t, out, "- 10:30-17:00")
}

func TestTriageQuadrants(t *testing.T) {
	tr := NewTriage()
	require.ErrorIs(t, tr.Add(" ", true, true), ErrEmptyInput)
	require.NoError(t, tr.Add("Server down", true, true))
	require.NoError(t, tr.Add("Quarterly plan", false, true))
	require.NoError(t, tr.Add("Vendor call", true, false))
	require.NoError(t, tr.Add("Newsletter", false, false))

	g := tr.Grouped()
	assert.Equal(t, []string{"Server down"}, g[QuadrantDoNow])
	assert.Equal(t, []string{"Quarterly plan"}, g[QuadrantSchedule])
	assert.Equal(t, []string{"Vendor call"}, g[QuadrantDelegate])
	assert.Equal(t, []string{"Newsletter"}, g[QuadrantDrop])

	require.NoError(t, tr.ToggleImportant(3))
	assert.Equal(t, QuadrantSchedule, tr.Items[3].Quadrant())
	require.NoError(t, tr.ToggleUrgent(3))
	assert.Equal(t, QuadrantDoNow, tr.Items[3].Quadrant())
	require.ErrorIs(t, tr.ToggleUrgent(9), ErrOutOfRange)
	require.NoError(t, tr.Remove(0))
	assert.Len(t, tr.Items, 3)
}

func TestTriageProtocol(t *testing.T) {
	tr := NewTriage()
	require.NoError(t, tr.Check(0))
	require.NoError(t, tr.Check(2))
	done, total := tr.Progress()
	assert.Equal(t, 2, done)
	assert.Equal(t, len(ProtocolSteps), total)
	require.NoError(t, tr.Check(2))
	done, _ = tr.Progress()
	assert.Equal(t, 1, done)
	require.ErrorIs(t, tr.Check(len(ProtocolSteps)), ErrOutOfRange)

	out := TriageReport(tr, time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "PROTOCOL: 1/6 steps done")
	assert.Contains(t, out, "[x] "+ProtocolSteps[0])
	assert.Contains(t, out, "DO-NOW:\n(none)")
}
