package engine

import (
	"fmt"
	"strings"
	"time"
)

// Quadrant is an urgent/important cell.
type Quadrant string

const (
	QuadrantDoNow    Quadrant = "do-now"
	QuadrantSchedule Quadrant = "schedule"
	QuadrantDelegate Quadrant = "delegate"
	QuadrantDrop     Quadrant = "drop"
)

// Quadrants in the order triage shows them.
var Quadrants = []Quadrant{QuadrantDoNow, QuadrantSchedule, QuadrantDelegate, QuadrantDrop}

func (q Quadrant) Title() string {
	switch q {
	case QuadrantDoNow:
		return "🔥 Do Now"
	case QuadrantSchedule:
		return "📅 Schedule"
	case QuadrantDelegate:
		return "🤝 Delegate"
	default:
		return "🗑️ Drop"
	}
}

func (q Quadrant) Action() string {
	switch q {
	case QuadrantDoNow:
		return "Urgent and important: handle these first, one at a time."
	case QuadrantSchedule:
		return "Important, not urgent: put them in a protected time block."
	case QuadrantDelegate:
		return "Urgent, not important: hand off or answer with a short reply."
	default:
		return "Neither: let them go and tell whoever is waiting."
	}
}

// TriageItem is a task sorted by urgency and importance.
type TriageItem struct {
	Task      string
	Urgent    bool
	Important bool
}

func (t TriageItem) Quadrant() Quadrant {
	switch {
	case t.Urgent && t.Important:
		return QuadrantDoNow
	case t.Important:
		return QuadrantSchedule
	case t.Urgent:
		return QuadrantDelegate
	default:
		return QuadrantDrop
	}
}

// ProtocolSteps is the overwhelm checklist, worked top to bottom.
var ProtocolSteps = []string{
	"🛑 Stop and take three slow breaths",
	"📝 Dump every open task onto the triage list",
	"🔥 Pick the single most urgent and important item",
	"📵 Close chat and email for the next 25 minutes",
	"📣 Tell one stakeholder what is slipping and when it will land",
	"🗑️ Drop or delegate everything outside Do Now for today",
}

// Triage holds the emergency tab's state.
type Triage struct {
	Items   []TriageItem
	checked []bool
}

func NewTriage() *Triage { return &Triage{checked: make([]bool, len(ProtocolSteps))} }

// Add records a task, urgent and important until toggled.
func (t *Triage) Add(task string, urgent, important bool) error {
	task = strings.TrimSpace(task)
	if task == "" {
		return ErrEmptyInput
	}
	t.Items = append(t.Items, TriageItem{Task: task, Urgent: urgent, Important: important})
	return nil
}

func (t *Triage) Remove(i int) error {
	if i < 0 || i >= len(t.Items) {
		return ErrOutOfRange
	}
	t.Items = append(t.Items[:i], t.Items[i+1:]...)
	return nil
}

func (t *Triage) ToggleUrgent(i int) error {
	if i < 0 || i >= len(t.Items) {
		return ErrOutOfRange
	}
	t.Items[i].Urgent = !t.Items[i].Urgent
	return nil
}

func (t *Triage) ToggleImportant(i int) error {
	if i < 0 || i >= len(t.Items) {
		return ErrOutOfRange
	}
	t.Items[i].Important = !t.Items[i].Important
	return nil
}

// Grouped returns tasks per quadrant, preserving insertion order.
func (t *Triage) Grouped() map[Quadrant][]string {
	out := make(map[Quadrant][]string, len(Quadrants))
	for _, it := range t.Items {
		q := it.Quadrant()
		out[q] = append(out[q], it.Task)
	}
	return out
}

// Check toggles a protocol step.
func (t *Triage) Check(i int) error {
	if len(t.checked) != len(ProtocolSteps) {
		t.checked = make([]bool, len(ProtocolSteps))
	}
	if i < 0 || i >= len(ProtocolSteps) {
		return ErrOutOfRange
	}
	t.checked[i] = !t.checked[i]
	return nil
}

func (t *Triage) Checked(i int) bool {
	return i >= 0 && i < len(t.checked) && t.checked[i]
}

// Progress returns completed and total protocol steps.
func (t *Triage) Progress() (int, int) {
	done := 0
	for _, c := range t.checked {
		if c {
			done++
		}
	}
	return done, len(ProtocolSteps)
}

// TriageReport renders the saved emergency plan.
func TriageReport(t *Triage, generated time.Time) string {
	var b strings.Builder
	b.WriteString("EMERGENCY TRIAGE\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", generated.Format("2006-01-02 15:04")))
	grouped := t.Grouped()
	for _, q := range Quadrants {
		b.WriteString(strings.ToUpper(string(q)) + ":\n")
		if len(grouped[q]) == 0 {
			b.WriteString("(none)\n\n")
			continue
		}
		for _, task := range grouped[q] {
			b.WriteString("- " + task + "\n")
		}
		b.WriteString("\n")
	}
	done, total := t.Progress()
	b.WriteString(fmt.Sprintf("PROTOCOL: %d/%d steps done\n", done, total))
	for i, step := range ProtocolSteps {
		mark := "[ ]"
		if t.Checked(i) {
			mark = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark, step))
	}
	b.WriteString("\n" + reportFooter + "\n")
	return b.String()
}
