package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWheelAddRemove(t *testing.T) {
	var w Wheel
	require.ErrorIs(t, w.Add("  "), ErrEmptyInput)
	require.NoError(t, w.Add(" write report "))
	assert.Equal(t, 1, w.Len())
	assert.Equal(t, []string{"write report"}, w.Tasks())
	assert.False(t, w.CanSpin())

	require.NoError(t, w.Add("inbox"))
	assert.True(t, w.CanSpin())

	require.ErrorIs(t, w.Remove(5), ErrOutOfRange)
	require.NoError(t, w.Remove(0))
	assert.Equal(t, []string{"inbox"}, w.Tasks())
	assert.False(t, w.CanSpin(), "removing below two tasks disables spinning")
}

func TestWheelSpinGuard(t *testing.T) {
	var w Wheel
	_ = w.Add("only")
	_, err := w.Spin(&scripted{})
	require.ErrorIs(t, err, ErrTooFewTasks)
}

func TestWheelSpin(t *testing.T) {
	var w Wheel
	for _, s := range []string{"a", "b", "c", "d"} {
		require.NoError(t, w.Add(s))
	}
	// 4 sections of 90 degrees; final angle 100 -> normalized 260 -> index 2.
	res, err := w.Spin(&scripted{ints: []int{3}, floats: []float64{100.0 / 360}})
	require.NoError(t, err)
	assert.Equal(t, 8, res.Rotations)
	assert.InDelta(t, 100, res.FinalAngle, 1e-9)
	assert.InDelta(t, 8*360+100, res.TotalRotation, 1e-9)
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, "c", res.Winner)
}

func TestWinnerIndex(t *testing.T) {
	cases := []struct {
		angle float64
		n     int
		want  int
	}{
		{0, 2, 0},
		{90, 2, 1},
		{180, 2, 1},
		{181, 2, 0},
		{359.9, 3, 0},
		{720 + 45, 4, 3},
		{-45, 4, 0},
		{10, 1, 0},
		{10, 0, -1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WinnerIndex(tc.angle, tc.n), "angle=%v n=%d", tc.angle, tc.n)
	}
}

func TestWinnerIndexMatchesFormula(t *testing.T) {
	seed, _ := NewSessionSeed("wheel-formula")
	st := seed.Stream("w")
	for i := 0; i < 500; i++ {
		n := 2 + st.Intn(8)
		angle := st.Float64() * 360
		normalized := math.Mod(360-math.Mod(angle, 360), 360)
		want := int(math.Floor(normalized / (360 / float64(n))))
		if want >= n {
			want = n - 1
		}
		got := WinnerIndex(angle, n)
		require.Equal(t, want, got)
		require.True(t, got >= 0 && got < n)
	}
}
