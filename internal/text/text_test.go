package text

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failing struct{}

func (failing) Render(string, int) (string, error) { return "", errors.New("boom") }

func TestTipsPresentForEveryTool(t *testing.T) {
	for _, k := range []string{TipCapacity, TipSayingNo, TipTimeBlocking, TipDecision, TipEmergency, TipEnvironment} {
		assert.NotEmpty(t, Tip(k), k)
	}
	assert.Empty(t, Tip("unknown"))
	assert.Contains(t, Tip(TipSayingNo), "Stay firm")
}

func TestGlamourRendererNoTTY(t *testing.T) {
	r := NewGlamourRenderer("notty")
	out, err := r.Render("# Heading\n\nSome **bold** text.", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Heading")
	assert.Contains(t, out, "bold")

	again, err := r.Render("# Heading\n\nSome **bold** text.", 60)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestFallbackOnError(t *testing.T) {
	r := WithFallback(failing{}, NewPlainRenderer())
	out, err := r.Render("  **raw**  \n", 80)
	require.NoError(t, err)
	assert.Equal(t, "**raw**", out)

	r = WithFallback(nil, NewPlainRenderer())
	out, err = r.Render("x", 80)
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestNarrowWidthClamped(t *testing.T) {
	out, err := NewGlamourRenderer("notty").Render("word "+strings.Repeat("a", 10), 5)
	require.NoError(t, err)
	assert.Contains(t, out, "word")
}
