package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/engine"
	"github.com/DaanHessen/timekit/internal/text"
)

// Saying no ------------------------------------------------------------------

type sayingNoState struct {
	tree   engine.DecisionTree
	phrase int
}

func (m model) sayingNoKey(k string) (tea.Model, tea.Cmd) {
	st := &m.sayNo
	switch k {
	case "y":
		st.tree.ChoosePriority(engine.AnswerYes)
	case "n":
		st.tree.ChoosePriority(engine.AnswerNo)
	case "u":
		st.tree.ChoosePriority(engine.AnswerMaybe)
	case "Y":
		st.tree.ChooseCapacity(engine.AnswerYes)
	case "N":
		st.tree.ChooseCapacity(engine.AnswerNo)
	case "r":
		st.tree.Reset()
	case "up", "k":
		st.phrase = m.move(st.phrase, len(engine.Phrases), -1)
	case "down", "j":
		st.phrase = m.move(st.phrase, len(engine.Phrases), 1)
	case "c", "enter":
		m.copy("Phrase", engine.Phrases[st.phrase].Text)
	}
	return m, nil
}

func (m model) renderSayingNo() string {
	st := m.sayNo
	s := m.styles
	var b strings.Builder
	b.WriteString(s.heading.Render("🤔 Should I Say Yes?") + "\n")
	b.WriteString(engine.QuestionPriority + "\n")
	for _, o := range engine.PriorityOptions {
		b.WriteString(m.option(o, st.tree.Priority, map[engine.Answer]string{engine.AnswerYes: "y", engine.AnswerNo: "n", engine.AnswerMaybe: "u"}) + "\n")
	}
	if st.tree.AsksCapacity() {
		b.WriteString("\n" + engine.QuestionCapacity + "\n")
		for _, o := range engine.CapacityOptions {
			b.WriteString(m.option(o, st.tree.Capacity, map[engine.Answer]string{engine.AnswerYes: "Y", engine.AnswerNo: "N"}) + "\n")
		}
	}
	v := st.tree.Verdict()
	if v.Tone != engine.TonePending {
		style := s.warning
		switch v.Tone {
		case engine.ToneGo:
			style = s.success
		case engine.ToneStop:
			style = s.danger
		}
		b.WriteString("\n" + style.Render(v.Headline) + "\n" + v.Advice + "\n")
	}
	if st.tree.Active() {
		b.WriteString(s.muted.Render("r to start over") + "\n")
	}

	b.WriteString("\n" + s.heading.Render("💬 Polite Ways to Say No") + "\n")
	for i, p := range engine.Phrases {
		prefix := "  "
		title := p.Title
		if i == st.phrase {
			prefix = "› "
			title = s.selected.Render(title)
		}
		b.WriteString(prefix + title + "\n")
		b.WriteString("    " + s.muted.Render(p.Text) + "\n")
	}
	b.WriteString("\n" + m.renderTip(text.TipSayingNo) + "\n")
	return b.String()
}

func (m model) option(o engine.Option, chosen engine.Answer, keys map[engine.Answer]string) string {
	line := fmt.Sprintf("  [%s] %s", keys[o.Answer], o.Label)
	if o.Answer == chosen {
		return m.styles.selected.Render(line)
	}
	return line
}

// Capacity -------------------------------------------------------------------

type capacityState struct {
	tracker *engine.Tracker
	cursor  int
}

func (m model) capacityKey(k string) (tea.Model, tea.Cmd) {
	st := &m.capacity
	switch k {
	case "a":
		cmd := m.focusInput(fieldCommitment, "📌 Commitment: ", "Quarterly report, 6", "")
		return m, cmd
	case "h":
		cmd := m.focusInput(fieldAvailable, "⏱️ Available hours/week: ", "40", strconv.FormatFloat(st.tracker.AvailableHours, 'f', -1, 64))
		return m, cmd
	case "x", "delete":
		if err := st.tracker.Remove(st.cursor); err == nil {
			st.cursor = m.move(st.cursor, len(st.tracker.Commitments), 0)
		}
	case "up", "k":
		st.cursor = m.move(st.cursor, len(st.tracker.Commitments), -1)
	case "down", "j":
		st.cursor = m.move(st.cursor, len(st.tracker.Commitments), 1)
	case "s":
		cmd := m.save("capacity", "capacity-report.txt", engine.CapacityReport(st.tracker, m.clock.Now()))
		return m, cmd
	}
	return m, nil
}

// parseCommitment reads "name, hours"; the last comma separates the hours.
func parseCommitment(value string) (string, float64, error) {
	i := strings.LastIndex(value, ",")
	if i < 0 {
		return "", 0, errors.New("use the form: name, hours")
	}
	hours, err := strconv.ParseFloat(strings.TrimSpace(value[i+1:]), 64)
	if err != nil {
		return "", 0, errors.New("hours must be a number")
	}
	return strings.TrimSpace(value[:i]), hours, nil
}

func (m *model) addCommitment(value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	name, hours, err := parseCommitment(value)
	if err == nil {
		err = m.capacity.tracker.Add(name, hours)
	}
	if err != nil {
		m.alert = err.Error()
		return
	}
	m.capacity.cursor = len(m.capacity.tracker.Commitments) - 1
}

func (m *model) setAvailable(value string) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err == nil {
		err = m.capacity.tracker.SetAvailable(hours)
	}
	if err != nil {
		m.alert = engine.ErrInvalidHours.Error()
	}
}

func (m model) renderCapacity() string {
	st := m.capacity
	s := m.styles
	t := st.tracker
	var b strings.Builder
	b.WriteString(s.heading.Render("📊 Weekly Capacity") + "\n")
	load := t.Load()
	b.WriteString(fmt.Sprintf("%s %.0f%%\n", s.bar(load, 30), load))
	b.WriteString(fmt.Sprintf("Committed %.1fh of %.1fh • %.1fh remaining\n", t.Committed(), t.AvailableHours, t.Remaining()))
	advice := t.Band().Advice()
	switch t.Band() {
	case engine.BandOverloaded:
		b.WriteString(s.danger.Render(advice) + "\n\n")
	case engine.BandStretched:
		b.WriteString(s.warning.Render(advice) + "\n\n")
	default:
		b.WriteString(s.success.Render(advice) + "\n\n")
	}
	if len(t.Commitments) == 0 {
		b.WriteString(s.muted.Render("No commitments yet. Press a to add one.") + "\n")
	}
	for i, c := range t.Commitments {
		line := fmt.Sprintf("%-30s %5.1fh", c.Name, c.Hours)
		if i == st.cursor {
			b.WriteString(s.selected.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + m.renderTip(text.TipCapacity) + "\n")
	return b.String()
}

// Time blocking --------------------------------------------------------------

const planFile = "plan.yaml"

type timeBlockState struct {
	plan     *engine.Plan
	cursor   int
	category engine.Category
}

func (m model) timeBlockKey(k string) (tea.Model, tea.Cmd) {
	st := &m.blocks
	switch k {
	case "a":
		cmd := m.focusInput(fieldBlock, fmt.Sprintf("🧱 Block [%s]: ", st.category), "09:00-10:30 Write proposal", "")
		return m, cmd
	case "c":
		st.category = engine.NextCategory(st.category)
	case "x", "delete":
		if err := st.plan.Remove(st.cursor); err == nil {
			st.cursor = m.move(st.cursor, len(st.plan.Blocks), 0)
		}
	case "up", "k":
		st.cursor = m.move(st.cursor, len(st.plan.Blocks), -1)
	case "down", "j":
		st.cursor = m.move(st.cursor, len(st.plan.Blocks), 1)
	case "w":
		var buf bytes.Buffer
		if err := engine.SavePlan(&buf, st.plan); err != nil {
			m.alert = err.Error()
			return m, nil
		}
		cmd := m.save("plan", planFile, buf.String())
		return m, cmd
	case "l":
		m.loadPlan()
	case "s":
		cmd := m.save("time-blocking", "time-blocking-plan.txt", engine.PlanReport(st.plan, m.clock.Now()))
		return m, cmd
	}
	return m, nil
}

// parseBlock reads "HH:MM-HH:MM label".
func parseBlock(value string, category engine.Category) (engine.Block, error) {
	value = strings.TrimSpace(value)
	span, label, _ := strings.Cut(value, " ")
	from, to, ok := strings.Cut(span, "-")
	if !ok {
		return engine.Block{}, fmt.Errorf("%w: use the form 09:00-10:30 label", engine.ErrInvalidTime)
	}
	start, err := engine.ParseClock(from)
	if err != nil {
		return engine.Block{}, err
	}
	end, err := engine.ParseClock(to)
	if err != nil {
		return engine.Block{}, err
	}
	return engine.Block{Label: strings.TrimSpace(label), Category: category, Start: start, End: end}, nil
}

func (m *model) addBlock(value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	blk, err := parseBlock(value, m.blocks.category)
	if err == nil {
		err = m.blocks.plan.Add(blk)
	}
	if err != nil {
		m.alert = err.Error()
		return
	}
	for i, b := range m.blocks.plan.Blocks {
		if b.Start == blk.Start {
			m.blocks.cursor = i
		}
	}
}

func (m *model) loadPlan() {
	path := filepath.Join(m.deps.Exports.Dir, planFile)
	f, err := os.Open(path)
	if err != nil {
		m.alert = "No saved plan at " + path
		return
	}
	defer f.Close()
	plan, err := engine.LoadPlan(f)
	if err != nil {
		m.log.Warn("plan load failed", zap.String("path", path), zap.Error(err))
		m.alert = "Failed to load plan: " + err.Error()
		return
	}
	m.blocks.plan = plan
	m.blocks.cursor = 0
	m.alert = fmt.Sprintf("📂 Loaded %d blocks", len(plan.Blocks))
}

func (m model) renderTimeBlocking() string {
	st := m.blocks
	s := m.styles
	var b strings.Builder
	b.WriteString(s.heading.Render(fmt.Sprintf("📅 Today %s-%s", st.plan.DayStart, st.plan.DayEnd)) + "\n")
	current := st.plan.Current(engine.ClockOf(m.clock.Now()))
	if len(st.plan.Blocks) == 0 {
		b.WriteString(s.muted.Render("No blocks yet. Press a to add one.") + "\n")
	}
	for i, blk := range st.plan.Blocks {
		line := fmt.Sprintf("%s-%s  %-10s %s", blk.Start, blk.End, blk.Category, blk.Label)
		if i == current {
			line += "  ◀ now"
		}
		if i == st.cursor {
			b.WriteString(s.selected.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	totals := st.plan.Totals()
	var parts []string
	for _, c := range engine.AllCategories {
		if totals[c] > 0 {
			parts = append(parts, fmt.Sprintf("%s %dm", c, totals[c]))
		}
	}
	if len(parts) > 0 {
		b.WriteString("\n" + s.muted.Render(strings.Join(parts, " • ")) + "\n")
	}
	if gaps := st.plan.Gaps(); len(gaps) > 0 {
		var free []string
		for _, g := range gaps {
			free = append(free, fmt.Sprintf("%s-%s", g.Start, g.End))
		}
		b.WriteString(s.muted.Render("Free: "+strings.Join(free, ", ")) + "\n")
	}
	b.WriteString(fmt.Sprintf("New blocks: %s (c to change)\n", s.selected.Render(string(st.category))))
	b.WriteString("\n" + m.renderTip(text.TipTimeBlocking) + "\n")
	return b.String()
}

// Emergency ------------------------------------------------------------------

type triageState struct {
	triage   *engine.Triage
	cursor   int
	protocol bool
	step     int
}

func (m model) triageKey(k string) (tea.Model, tea.Cmd) {
	st := &m.triage
	n := len(st.triage.Items)
	if st.protocol {
		n = len(engine.ProtocolSteps)
	}
	switch k {
	case "a":
		cmd := m.focusInput(fieldTriage, "🚨 Task: ", "Reply to the client escalation", "")
		return m, cmd
	case "p":
		st.protocol = !st.protocol
	case "up", "k":
		if st.protocol {
			st.step = m.move(st.step, n, -1)
		} else {
			st.cursor = m.move(st.cursor, n, -1)
		}
	case "down", "j":
		if st.protocol {
			st.step = m.move(st.step, n, 1)
		} else {
			st.cursor = m.move(st.cursor, n, 1)
		}
	case " ", "enter":
		if st.protocol {
			_ = st.triage.Check(st.step)
		}
	case "u":
		_ = st.triage.ToggleUrgent(st.cursor)
	case "i":
		_ = st.triage.ToggleImportant(st.cursor)
	case "x", "delete":
		if err := st.triage.Remove(st.cursor); err == nil {
			st.cursor = m.move(st.cursor, len(st.triage.Items), 0)
		}
	case "s":
		cmd := m.save("emergency", "emergency-plan.txt", engine.TriageReport(st.triage, m.clock.Now()))
		return m, cmd
	}
	return m, nil
}

// addTriageItem starts every task as urgent and important; toggles sort it.
func (m *model) addTriageItem(value string) {
	if err := m.triage.triage.Add(value, true, true); err != nil {
		return
	}
	m.triage.cursor = len(m.triage.triage.Items) - 1
}

func (m model) renderTriage() string {
	st := m.triage
	s := m.styles
	var b strings.Builder
	b.WriteString(s.heading.Render("🚨 Triage") + "\n")
	if len(st.triage.Items) == 0 {
		b.WriteString(s.muted.Render("Nothing listed. Press a to add what is on fire.") + "\n")
	}
	for i, it := range st.triage.Items {
		flags := fmt.Sprintf("[%s%s]", mark(it.Urgent, "U"), mark(it.Important, "I"))
		line := fmt.Sprintf("%s %-30s → %s", flags, it.Task, it.Quadrant().Title())
		if !st.protocol && i == st.cursor {
			b.WriteString(s.selected.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	grouped := st.triage.Grouped()
	for _, q := range engine.Quadrants {
		if len(grouped[q]) == 0 {
			continue
		}
		b.WriteString("\n" + s.heading.Render(q.Title()) + " " + s.muted.Render(q.Action()) + "\n")
		for _, task := range grouped[q] {
			b.WriteString("  • " + task + "\n")
		}
	}

	done, total := st.triage.Progress()
	b.WriteString("\n" + s.heading.Render(fmt.Sprintf("🧭 Overwhelm Protocol %d/%d", done, total)) + "\n")
	for i, step := range engine.ProtocolSteps {
		box := "[ ]"
		if st.triage.Checked(i) {
			box = "[x]"
		}
		line := box + " " + step
		if st.protocol && i == st.step {
			b.WriteString(s.selected.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + m.renderTip(text.TipEmergency) + "\n")
	return b.String()
}

func mark(on bool, label string) string {
	if on {
		return label
	}
	return "-"
}
