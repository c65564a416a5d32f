package engine

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Category groups time blocks for the daily totals.
type Category string

const (
	CategoryDeepWork Category = "deep-work"
	CategoryMeetings Category = "meetings"
	CategoryAdmin    Category = "admin"
	CategoryBreak    Category = "break"
	CategoryBuffer   Category = "buffer"
)

var AllCategories = []Category{CategoryDeepWork, CategoryMeetings, CategoryAdmin, CategoryBreak, CategoryBuffer}

// NextCategory cycles through AllCategories.
func NextCategory(c Category) Category {
	for i, cat := range AllCategories {
		if cat == c {
			return AllCategories[(i+1)%len(AllCategories)]
		}
	}
	return AllCategories[0]
}

// Clock is minutes since midnight, 0..1440.
type Clock int

// ParseClock reads H:MM or HH:MM. "24:00" is accepted as end of day.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return Clock(h*60 + m), nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ClockOf converts a wall time to a Clock.
func ClockOf(t time.Time) Clock { return Clock(t.Hour()*60 + t.Minute()) }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60) }

func (c Clock) MarshalYAML() (any, error) { return c.String(), nil }

func (c *Clock) UnmarshalYAML(n *yaml.Node) error {
	parsed, err := ParseClock(n.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Block is a labelled half-open interval [Start, End).
type Block struct {
	Label    string   `yaml:"label"`
	Category Category `yaml:"category"`
	Start    Clock    `yaml:"start"`
	End      Clock    `yaml:"end"`
}

func (b Block) Minutes() int { return int(b.End - b.Start) }

func (b Block) overlaps(o Block) bool { return b.Start < o.End && o.Start < b.End }

// Plan is a single day's time blocks, kept sorted by start.
type Plan struct {
	DayStart Clock   `yaml:"day_start"`
	DayEnd   Clock   `yaml:"day_end"`
	Blocks   []Block `yaml:"blocks"`
}

// NewPlan returns an empty 09:00-17:00 day.
func NewPlan() *Plan { return &Plan{DayStart: 9 * 60, DayEnd: 17 * 60} }

// Add validates and inserts a block.
func (p *Plan) Add(b Block) error {
	b.Label = strings.TrimSpace(b.Label)
	if b.Label == "" {
		return ErrEmptyInput
	}
	if b.End <= b.Start || b.End > 24*60 {
		return fmt.Errorf("%w: %s-%s", ErrInvalidTime, b.Start, b.End)
	}
	if b.Category == "" {
		b.Category = CategoryDeepWork
	}
	for _, existing := range p.Blocks {
		if b.overlaps(existing) {
			return fmt.Errorf("%w: %q %s-%s", ErrBlockOverlap, existing.Label, existing.Start, existing.End)
		}
	}
	p.Blocks = append(p.Blocks, b)
	sort.SliceStable(p.Blocks, func(i, j int) bool { return p.Blocks[i].Start < p.Blocks[j].Start })
	return nil
}

func (p *Plan) Remove(i int) error {
	if i < 0 || i >= len(p.Blocks) {
		return ErrOutOfRange
	}
	p.Blocks = append(p.Blocks[:i], p.Blocks[i+1:]...)
	return nil
}

// Totals returns planned minutes per category.
func (p *Plan) Totals() map[Category]int {
	out := make(map[Category]int, len(AllCategories))
	for _, b := range p.Blocks {
		out[b.Category] += b.Minutes()
	}
	return out
}

// Gap is an unplanned interval inside the working day.
type Gap struct {
	Start Clock
	End   Clock
}

// Gaps lists free intervals between DayStart and DayEnd.
func (p *Plan) Gaps() []Gap {
	var gaps []Gap
	cursor := p.DayStart
	for _, b := range p.Blocks {
		if b.End <= cursor {
			continue
		}
		if b.Start >= p.DayEnd {
			break
		}
		if b.Start > cursor {
			gaps = append(gaps, Gap{Start: cursor, End: b.Start})
		}
		cursor = b.End
	}
	if cursor < p.DayEnd {
		gaps = append(gaps, Gap{Start: cursor, End: p.DayEnd})
	}
	return gaps
}

// Current returns the index of the block containing now, or -1.
func (p *Plan) Current(now Clock) int {
	for i, b := range p.Blocks {
		if now >= b.Start && now < b.End {
			return i
		}
	}
	return -1
}

// LoadPlan decodes a YAML plan and re-validates every block.
func LoadPlan(r io.Reader) (*Plan, error) {
	var raw Plan
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	p := &Plan{DayStart: raw.DayStart, DayEnd: raw.DayEnd}
	if p.DayEnd <= p.DayStart {
		p.DayStart, p.DayEnd = NewPlan().DayStart, NewPlan().DayEnd
	}
	for _, b := range raw.Blocks {
		if err := p.Add(b); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SavePlan encodes the plan as YAML.
func SavePlan(w io.Writer, p *Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}

func formatMinutes(m int) string {
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

// PlanReport renders the saved schedule.
func PlanReport(p *Plan, generated time.Time) string {
	var b strings.Builder
	b.WriteString("TIME BLOCKING PLAN\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", generated.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Working day: %s-%s\n\n", p.DayStart, p.DayEnd))
	b.WriteString("BLOCKS:\n")
	if len(p.Blocks) == 0 {
		b.WriteString("No blocks planned\n")
	}
	for _, blk := range p.Blocks {
		b.WriteString(fmt.Sprintf("%s-%s  [%s] %s\n", blk.Start, blk.End, blk.Category, blk.Label))
	}
	b.WriteString("\nTOTALS:\n")
	totals := p.Totals()
	for _, c := range AllCategories {
		if totals[c] > 0 {
			b.WriteString(fmt.Sprintf("- %s: %s\n", c, formatMinutes(totals[c])))
		}
	}
	if gaps := p.Gaps(); len(gaps) > 0 {
		b.WriteString("\nUNPLANNED:\n")
		for _, g := range gaps {
			b.WriteString(fmt.Sprintf("- %s-%s\n", g.Start, g.End))
		}
	}
	b.WriteString("\n" + reportFooter + "\n")
	return b.String()
}
