package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays fixed draws so tests can pin outcomes.
type scripted struct {
	ints   []int
	floats []float64
}

func (s *scripted) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scripted) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func TestEightBallRequiresQuestion(t *testing.T) {
	_, err := EightBall(&scripted{}, "   ")
	require.ErrorIs(t, err, ErrEmptyInput)

	got, err := EightBall(&scripted{ints: []int{2}}, "report or email?")
	require.NoError(t, err)
	assert.Equal(t, MagicResponses[2], got)
}

func TestCoinFlip(t *testing.T) {
	assert.Equal(t, CoinHeads, CoinFlip(&scripted{floats: []float64{0.49}}))
	assert.Equal(t, CoinTails, CoinFlip(&scripted{floats: []float64{0.5}}))
}

func TestRollDiceRange(t *testing.T) {
	seed, _ := NewSessionSeed("dice")
	st := seed.Stream("dice")
	seen := map[int]bool{}
	for i := 0; i < 600; i++ {
		n := RollDice(st)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 6)
		seen[n] = true
	}
	assert.Len(t, seen, 6)
	assert.Equal(t, "🎲 Rolled: 4", FormatRoll(4))
}

func TestMantraFromList(t *testing.T) {
	assert.Equal(t, FocusMantras[9], Mantra(&scripted{ints: []int{9}}))
}

func TestDecisionReport(t *testing.T) {
	snap := NewDecisionSnapshot()
	snap.Question = "Report first?"
	snap.Answer = MagicResponses[0]
	snap.Tasks = []string{"email", "report"}
	snap.WheelResult = FormatWinner("report")
	out := DecisionReport(snap, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	assert.True(t, strings.HasPrefix(out, "DECISION MAGIC RESULTS\nGenerated: 2026-03-01\n"))
	assert.Contains(t, out, "Question: \"Report first?\"")
	assert.Contains(t, out, "1. email\n2. report\n")
	assert.Contains(t, out, "Result: 🎯 Winner: report")
	assert.Contains(t, out, "- Coin Flip: "+CoinIdle)
	assert.True(t, strings.HasSuffix(out, "Generated by Time Management Toolkit"))

	empty := DecisionReport(NewDecisionSnapshot(), time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	want := "DECISION MAGIC RESULTS\n" +
		"Generated: 2026-03-01\n" +
		"\n" +
		"MAGIC 8-BALL:\n" +
		"Question: \"\"\n" +
		"Answer: \"" + BallIdle + "\"\n" +
		"\n" +
		"ROULETTE TASKS:\n" +
		"No tasks added\n" +
		"\n" +
		"\n" +
		"QUICK DECISION RESULTS:\n" +
		"- Coin Flip: " + CoinIdle + "\n" +
		"- Dice Roll: " + DiceIdle + "  \n" +
		"- Focus Mantra: " + MantraIdle + "\n" +
		"\n" +
		"Generated by Time Management Toolkit"
	assert.Equal(t, want, empty)
}
