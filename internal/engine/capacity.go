package engine

import (
	"fmt"
	"strings"
	"time"
)

// DefaultAvailableHours is a standard working week.
const DefaultAvailableHours = 40.0

// Band classifies a load percentage.
type Band string

const (
	BandComfortable Band = "comfortable"
	BandStretched   Band = "stretched"
	BandOverloaded  Band = "overloaded"
)

// Thresholds in percent. The 70% line is the same one the saying-no tree asks about.
const (
	stretchedAt  = 70.0
	overloadedAt = 90.0
)

// Commitment is one recurring obligation in hours per week.
type Commitment struct {
	Name  string
	Hours float64
}

// Tracker sums commitments against the hours available in a week.
type Tracker struct {
	AvailableHours float64
	Commitments    []Commitment
}

func NewTracker(available float64) *Tracker {
	if !validHours(available) {
		available = DefaultAvailableHours
	}
	return &Tracker{AvailableHours: available}
}

// Add records a commitment. Name must be non-blank and hours in (0, 168].
func (t *Tracker) Add(name string, hours float64) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyInput
	}
	if !validHours(hours) {
		return ErrInvalidHours
	}
	t.Commitments = append(t.Commitments, Commitment{Name: name, Hours: hours})
	return nil
}

func (t *Tracker) Remove(i int) error {
	if i < 0 || i >= len(t.Commitments) {
		return ErrOutOfRange
	}
	t.Commitments = append(t.Commitments[:i], t.Commitments[i+1:]...)
	return nil
}

// validHours is false for NaN as well as out-of-range values.
func validHours(h float64) bool { return h > 0 && h <= 168 }

// SetAvailable changes the weekly budget.
func (t *Tracker) SetAvailable(hours float64) error {
	if !validHours(hours) {
		return ErrInvalidHours
	}
	t.AvailableHours = hours
	return nil
}

func (t *Tracker) Committed() float64 {
	var sum float64
	for _, c := range t.Commitments {
		sum += c.Hours
	}
	return sum
}

// Load is committed hours as a percentage of available hours.
func (t *Tracker) Load() float64 {
	if t.AvailableHours <= 0 {
		return 0
	}
	return t.Committed() * 100 / t.AvailableHours
}

// Remaining may be negative when overcommitted.
func (t *Tracker) Remaining() float64 { return t.AvailableHours - t.Committed() }

func (t *Tracker) Band() Band { return BandFor(t.Load()) }

// BandFor maps a load percentage to its band.
func BandFor(load float64) Band {
	switch {
	case load >= overloadedAt:
		return BandOverloaded
	case load >= stretchedAt:
		return BandStretched
	default:
		return BandComfortable
	}
}

// Advice is the one-line guidance shown under the capacity meter.
func (b Band) Advice() string {
	switch b {
	case BandOverloaded:
		return "🚨 You're overloaded. Decline or renegotiate before adding anything new."
	case BandStretched:
		return "⚠️ You're stretched. Only accept work that replaces something else."
	default:
		return "✅ You have room. New requests can be considered."
	}
}

// CapacityReport renders the saved capacity summary.
func CapacityReport(t *Tracker, generated time.Time) string {
	var b strings.Builder
	b.WriteString("CAPACITY REPORT\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", generated.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Available hours: %.1f\n", t.AvailableHours))
	b.WriteString(fmt.Sprintf("Committed hours: %.1f\n", t.Committed()))
	b.WriteString(fmt.Sprintf("Load: %.0f%% (%s)\n\n", t.Load(), t.Band()))
	b.WriteString("COMMITMENTS:\n")
	if len(t.Commitments) == 0 {
		b.WriteString("No commitments added\n")
	}
	for i, c := range t.Commitments {
		b.WriteString(fmt.Sprintf("%d. %s - %.1fh\n", i+1, c.Name, c.Hours))
	}
	b.WriteString("\n" + t.Band().Advice() + "\n\n")
	b.WriteString(reportFooter + "\n")
	return b.String()
}
