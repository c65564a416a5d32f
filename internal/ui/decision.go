package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/engine"
	"github.com/DaanHessen/timekit/internal/text"
)

type decisionState struct {
	question string
	answer   string
	shaking  bool
	shakeSeq int

	wheel    engine.Wheel
	cursor   int
	spinning bool
	spinSeq  int
	rotation float64
	result   string

	coin   string
	dice   string
	mantra string
}

func newDecisionState() decisionState {
	snap := engine.NewDecisionSnapshot()
	return decisionState{answer: snap.Answer, coin: snap.CoinResult, dice: snap.DiceResult, mantra: snap.MantraResult}
}

type shakeDoneMsg struct {
	seq    int
	answer string
}

type spinDoneMsg struct {
	seq    int
	result engine.SpinResult
}

// delayed delivers msg after d.
func delayed(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (m model) decisionKey(k string) (tea.Model, tea.Cmd) {
	d := &m.decision
	switch k {
	case "e":
		cmd := m.focusInput(fieldQuestion, "🎱 Question: ", "Should I start the report now?", d.question)
		return m, cmd
	case "b", "enter":
		return m.shake()
	case "a":
		cmd := m.focusInput(fieldTask, "🎡 Task: ", "Enter a task...", "")
		return m, cmd
	case "x", "delete":
		if d.spinning {
			return m, nil
		}
		if err := d.wheel.Remove(d.cursor); err == nil {
			d.result = ""
			d.cursor = m.move(d.cursor, d.wheel.Len(), 0)
		}
	case "up", "k":
		d.cursor = m.move(d.cursor, d.wheel.Len(), -1)
	case "down", "j":
		d.cursor = m.move(d.cursor, d.wheel.Len(), 1)
	case "w":
		return m.spin()
	case "c":
		d.coin = engine.CoinFlip(m.stream("coin"))
		return m, m.record("coin", "", d.coin)
	case "r":
		d.dice = engine.FormatRoll(engine.RollDice(m.stream("dice")))
		return m, m.record("dice", "", d.dice)
	case "m":
		d.mantra = engine.Mantra(m.stream("mantra"))
		return m, m.record("mantra", "", d.mantra)
	case "s":
		report := engine.DecisionReport(m.decisionSnapshot(), m.clock.Now())
		cmd := m.save("decision", "decision-magic-results.txt", report)
		return m, cmd
	}
	return m, nil
}

func (m model) decisionSnapshot() engine.DecisionSnapshot {
	d := m.decision
	return engine.DecisionSnapshot{
		Question:     d.question,
		Answer:       d.answer,
		Tasks:        d.wheel.Tasks(),
		WheelResult:  d.result,
		CoinResult:   d.coin,
		DiceResult:   d.dice,
		MantraResult: d.mantra,
	}
}

func (m model) shake() (tea.Model, tea.Cmd) {
	d := &m.decision
	if d.shaking {
		return m, nil
	}
	answer, err := engine.EightBall(m.stream("8ball"), d.question)
	if err != nil {
		m.alert = "Please enter a question first!"
		return m, nil
	}
	d.shaking = true
	d.shakeSeq++
	return m, tea.Batch(m.spinner.Tick, delayed(engine.ShakeDelay, shakeDoneMsg{seq: d.shakeSeq, answer: answer}))
}

func (m model) finishShake(msg shakeDoneMsg) (tea.Model, tea.Cmd) {
	d := &m.decision
	if msg.seq != d.shakeSeq {
		return m, nil
	}
	d.shaking = false
	d.answer = msg.answer
	return m, m.record("8ball", d.question, d.answer)
}

func (m model) addTask(value string) (tea.Model, tea.Cmd) {
	d := &m.decision
	if d.spinning {
		return m, nil
	}
	if err := d.wheel.Add(value); err != nil {
		return m, nil
	}
	d.result = ""
	d.cursor = d.wheel.Len() - 1
	return m, nil
}

func (m model) spin() (tea.Model, tea.Cmd) {
	d := &m.decision
	if d.spinning {
		return m, nil
	}
	res, err := d.wheel.Spin(m.stream("wheel"))
	if err != nil {
		m.alert = "Add at least 2 tasks to spin!"
		return m, nil
	}
	d.spinning = true
	d.spinSeq++
	d.result = ""
	d.rotation = res.TotalRotation
	m.log.Debug("wheel spin", zap.Int("rotations", res.Rotations), zap.Float64("final_angle", res.FinalAngle))
	return m, tea.Batch(m.spinner.Tick, delayed(engine.SpinDelay, spinDoneMsg{seq: d.spinSeq, result: res}))
}

func (m model) finishSpin(msg spinDoneMsg) (tea.Model, tea.Cmd) {
	d := &m.decision
	if msg.seq != d.spinSeq {
		return m, nil
	}
	d.spinning = false
	d.result = engine.FormatWinner(msg.result.Winner)
	return m, m.record("wheel", strings.Join(d.wheel.Tasks(), ", "), msg.result.Winner)
}

func (m model) renderDecision() string {
	d := m.decision
	s := m.styles
	var b strings.Builder

	b.WriteString(s.heading.Render("🎱 Magic 8-Ball") + "\n")
	q := d.question
	if q == "" {
		q = s.muted.Render("(press e to ask a question)")
	}
	b.WriteString("Question: " + q + "\n")
	if d.shaking {
		b.WriteString(m.spinner.View() + " shaking...\n\n")
	} else {
		b.WriteString(s.selected.Render(d.answer) + "\n\n")
	}

	b.WriteString(s.heading.Render("🎡 Task Roulette") + "\n")
	tasks := d.wheel.Tasks()
	if len(tasks) == 0 {
		b.WriteString(s.muted.Render("No tasks yet. Press a to add one.") + "\n")
	}
	for i, t := range tasks {
		line := fmt.Sprintf("%d. %s", i+1, t)
		if i == d.cursor {
			b.WriteString(s.selected.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	switch {
	case d.spinning:
		b.WriteString(m.spinner.View() + fmt.Sprintf(" spinning %.0f°...\n", d.rotation))
	case d.result != "":
		b.WriteString(s.success.Render(d.result) + "\n")
	case !d.wheel.CanSpin():
		b.WriteString(s.muted.Render("Spin needs at least 2 tasks") + "\n")
	default:
		b.WriteString(s.muted.Render("Press w to spin") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(s.heading.Render("🪙 Coin") + "  " + d.coin + "\n")
	b.WriteString(s.heading.Render("🎲 Dice") + "  " + d.dice + "\n")
	b.WriteString(s.heading.Render("🧘 Mantra") + "  " + d.mantra + "\n\n")
	b.WriteString(m.renderTip(text.TipDecision) + "\n")
	return b.String()
}
