package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/DaanHessen/timekit/internal/engine"
	"github.com/DaanHessen/timekit/internal/envcfg"
	"github.com/DaanHessen/timekit/internal/export"
	"github.com/DaanHessen/timekit/internal/store"
	"github.com/DaanHessen/timekit/internal/text"
	"github.com/DaanHessen/timekit/internal/util"
)

const (
	tabCapacity     = "capacity"
	tabSayingNo     = "saying-no"
	tabTimeBlocking = "time-blocking"
	tabDecision     = "decision-magic"
	tabEmergency    = "emergency"
	tabEnvironment  = "environment"
)

type tabInfo struct {
	id    string
	icon  string
	label string
}

var tabs = []tabInfo{
	{tabCapacity, "📊", "Capacity"},
	{tabSayingNo, "🛡️", "Saying No"},
	{tabTimeBlocking, "📅", "Time Blocking"},
	{tabDecision, "✨", "Decision Magic"},
	{tabEmergency, "⚠️", "Emergency"},
	{tabEnvironment, "⚙️", "Environment"},
}

// Fields the shared text input can be editing.
const (
	fieldNone       = ""
	fieldQuestion   = "question"
	fieldTask       = "task"
	fieldCommitment = "commitment"
	fieldAvailable  = "available"
	fieldBlock      = "block"
	fieldTriage     = "triage"
	fieldEnvValue   = "env-value"
	fieldEnvNew     = "env-new"
)

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
	Help key.Binding
	Up   key.Binding
	Down key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Prev: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	}
}

// Deps are the collaborators the model talks to.
type Deps struct {
	Log       *zap.Logger
	History   store.History
	ExportLog store.ExportLog
	Exports   *export.Writer
	Clipboard export.Clipboard
	Clock     clockwork.Clock
	Renderer  text.Renderer
	Env       *envcfg.Set
}

type model struct {
	ctx    context.Context
	deps   Deps
	log    *zap.Logger
	clock  clockwork.Clock
	seed   engine.SessionSeed
	draws  int
	keys   keyMap
	theme  string
	styles styles

	tab      int
	showHelp bool
	alert    string
	width    int
	height   int

	input    textinput.Model
	inputFor string
	spinner  spinner.Model

	decision decisionState
	sayNo    sayingNoState
	capacity capacityState
	blocks   timeBlockState
	triage   triageState
	env      envState
}

// initialModel builds the starting state from config; missing deps get defaults.
func initialModel(ctx context.Context, deps Deps, cfg util.Config) model {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.History == nil {
		deps.History = store.NewMemoryHistory(store.DefaultHistorySize, deps.Clock)
	}
	if deps.Exports == nil {
		deps.Exports = export.NewWriter(cfg.ExportDir)
	}
	if deps.Clipboard == nil {
		deps.Clipboard = export.SystemClipboard{}
	}
	if deps.Renderer == nil {
		deps.Renderer = text.WithFallback(text.NewGlamourRenderer(""), text.NewPlainRenderer())
	}
	if deps.Env == nil {
		deps.Env = envcfg.Defaults()
	}
	seedText := strings.TrimSpace(cfg.SeedText)
	if seedText == "" {
		if generated, err := engine.RandomSeedText(); err == nil {
			seedText = generated
		} else {
			seedText = "fallback-seed"
		}
	}
	seed, err := engine.NewSessionSeed(seedText)
	if err != nil {
		seed, _ = engine.NewSessionSeed("fallback-seed")
	}

	in := textinput.New()
	in.CharLimit = 200
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	hours := cfg.CapacityHours
	if hours <= 0 {
		hours = engine.DefaultAvailableHours
	}
	m := model{
		ctx:      ctx,
		deps:     deps,
		log:      deps.Log,
		clock:    deps.Clock,
		seed:     seed,
		keys:     defaultKeys(),
		theme:    cfg.Theme,
		input:    in,
		spinner:  sp,
		decision: newDecisionState(),
		capacity: capacityState{tracker: engine.NewTracker(hours)},
		blocks:   timeBlockState{plan: engine.NewPlan(), category: engine.CategoryDeepWork},
		triage:   triageState{triage: engine.NewTriage()},
		env:      envState{set: deps.Env},
	}
	m.styles = newStyles(paletteFor(m.theme))
	m.spinner.Style = m.styles.heading
	m.log.Info("session started", zap.String("seed", seed.Text))
	return m
}

// stream hands out a fresh deterministic stream per draw: the tool's stream,
// then a child keyed by the session draw counter.
func (m *model) stream(tool string) *engine.Stream {
	m.draws++
	return m.seed.Stream(tool).Child(strconv.Itoa(m.draws))
}

func (m model) activeTab() string { return tabs[m.tab].id }

func (m *model) setTab(i int) {
	n := len(tabs)
	m.tab = ((i % n) + n) % n
	m.blurInput()
}

func (m *model) focusInput(field, prompt, placeholder, value string) tea.Cmd {
	m.inputFor = field
	m.input.Prompt = prompt
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) blurInput() {
	m.inputFor = fieldNone
	m.input.Blur()
	m.input.SetValue("")
}

// tea.Model implementation ---------------------------------------------------
func (m model) Init() tea.Cmd { return textinput.Blink }

type recordedMsg struct {
	tool string
	err  error
}

type savedMsg struct {
	kind string
	err  error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(20, msg.Width-20)
		return m, nil
	case shakeDoneMsg:
		return m.finishShake(msg)
	case spinDoneMsg:
		return m.finishSpin(msg)
	case recordedMsg:
		if msg.err != nil {
			m.log.Warn("history record failed", zap.String("tool", msg.tool), zap.Error(msg.err))
		}
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.log.Warn("export log failed", zap.String("kind", msg.kind), zap.Error(msg.err))
		}
		return m, nil
	case spinner.TickMsg:
		if !m.decision.shaking && !m.decision.spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.inputFor != fieldNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	m.alert = ""
	k := msg.String()
	if m.inputFor != fieldNone {
		switch k {
		case "enter":
			value := m.input.Value()
			field := m.inputFor
			m.blurInput()
			return m.submit(field, value)
		case "esc":
			m.blurInput()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Next):
		m.setTab(m.tab + 1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.setTab(m.tab - 1)
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}
	if len(k) == 1 && k[0] >= '1' && k[0] <= byte('0'+len(tabs)) {
		m.setTab(int(k[0] - '1'))
		return m, nil
	}
	if k == "T" {
		m.theme = nextThemeName(m.theme, 1)
		m.styles = newStyles(paletteFor(m.theme))
		m.alert = "Theme: " + m.theme
		return m, nil
	}
	switch m.activeTab() {
	case tabDecision:
		return m.decisionKey(k)
	case tabSayingNo:
		return m.sayingNoKey(k)
	case tabCapacity:
		return m.capacityKey(k)
	case tabTimeBlocking:
		return m.timeBlockKey(k)
	case tabEmergency:
		return m.triageKey(k)
	case tabEnvironment:
		return m.envKey(k)
	}
	return m, nil
}

func (m model) submit(field, value string) (tea.Model, tea.Cmd) {
	switch field {
	case fieldQuestion:
		m.decision.question = strings.TrimSpace(value)
	case fieldTask:
		return m.addTask(value)
	case fieldCommitment:
		m.addCommitment(value)
	case fieldAvailable:
		m.setAvailable(value)
	case fieldBlock:
		m.addBlock(value)
	case fieldTriage:
		m.addTriageItem(value)
	case fieldEnvValue:
		m.updateEnvValue(value)
	case fieldEnvNew:
		m.addEnvVar(value)
	}
	return m, nil
}

// record stores a random result in the history without blocking the UI.
func (m model) record(tool, input, result string) tea.Cmd {
	h := m.deps.History
	ctx := m.ctx
	rec := store.Result{Tool: tool, Input: input, Result: result, Seed: m.seed.Text, CreatedAt: m.clock.Now().UTC()}
	return func() tea.Msg {
		_, err := h.Record(ctx, rec)
		return recordedMsg{tool: tool, err: err}
	}
}

// save writes a report into the export dir and reports the path in the alert line.
func (m *model) save(kind, name, content string) tea.Cmd {
	path, err := m.deps.Exports.Write(name, content)
	if err != nil {
		m.log.Error("export failed", zap.String("kind", kind), zap.Error(err))
		m.alert = "Failed to save: " + err.Error()
		return nil
	}
	m.log.Info("export written", zap.String("kind", kind), zap.String("path", path))
	m.alert = "💾 Saved to " + path
	if m.deps.ExportLog == nil {
		return nil
	}
	logger, ctx, size := m.deps.ExportLog, m.ctx, len(content)
	return func() tea.Msg {
		_, err := logger.Insert(ctx, kind, path, size)
		return savedMsg{kind: kind, err: err}
	}
}

func (m *model) copy(what, content string) {
	if err := m.deps.Clipboard.Copy(content); err != nil {
		m.log.Warn("clipboard copy failed", zap.String("what", what), zap.Error(err))
		m.alert = "Failed to copy to clipboard"
		return
	}
	m.alert = what + " copied to clipboard!"
}

func (m model) move(cursor, n, delta int) int {
	if n == 0 {
		return 0
	}
	cursor += delta
	if cursor < 0 {
		cursor = 0
	}
	if cursor >= n {
		cursor = n - 1
	}
	return cursor
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("🎯 Time Management Toolkit") + "\n")
	b.WriteString(m.styles.subtitle.Render("Master your workload and learn to say no with confidence") + "\n\n")
	b.WriteString(m.renderTabBar() + "\n\n")
	if m.showHelp {
		b.WriteString(m.renderHelp())
	} else {
		switch m.activeTab() {
		case tabDecision:
			b.WriteString(m.renderDecision())
		case tabSayingNo:
			b.WriteString(m.renderSayingNo())
		case tabCapacity:
			b.WriteString(m.renderCapacity())
		case tabTimeBlocking:
			b.WriteString(m.renderTimeBlocking())
		case tabEmergency:
			b.WriteString(m.renderTriage())
		case tabEnvironment:
			b.WriteString(m.renderEnv())
		}
	}
	b.WriteString("\n")
	if m.inputFor != fieldNone {
		b.WriteString(m.input.View() + "\n")
		b.WriteString(m.styles.muted.Render("enter to confirm • esc to cancel") + "\n")
	}
	if m.alert != "" {
		b.WriteString(m.styles.alert.Render(m.alert) + "\n")
	}
	b.WriteString(m.styles.muted.Render("tab/1-6 switch • ? help • T theme • ctrl+c quit"))
	return b.String()
}

func (m model) renderTabBar() string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s %s", i+1, t.icon, t.label)
		if i == m.tab {
			parts = append(parts, m.styles.activeTab.Render(label))
		} else {
			parts = append(parts, m.styles.tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m model) renderTip(key string) string {
	md := text.Tip(key)
	if md == "" {
		return ""
	}
	w := m.width
	if w <= 0 {
		w = 80
	}
	out, err := m.deps.Renderer.Render(md, w)
	if err != nil {
		return md
	}
	return out
}

var tabHelp = map[string][][2]string{
	tabDecision: {
		{"e", "edit the 8-ball question"}, {"b", "shake the 8-ball"}, {"a", "add a roulette task"},
		{"x", "remove selected task"}, {"w", "spin the wheel"}, {"c", "flip a coin"},
		{"r", "roll the dice"}, {"m", "focus mantra"}, {"s", "save results"},
	},
	tabSayingNo: {
		{"y/n/u", "answer the priority question"}, {"Y/N", "answer the capacity question"},
		{"r", "reset the tree"}, {"↑/↓", "select a phrase"}, {"c", "copy phrase"},
	},
	tabCapacity: {
		{"a", "add a commitment (name, hours)"}, {"h", "set available hours"},
		{"x", "remove selected"}, {"s", "save report"},
	},
	tabTimeBlocking: {
		{"a", "add a block (09:00-10:30 label)"}, {"c", "cycle category for new blocks"},
		{"x", "remove selected"}, {"w", "write plan file"}, {"l", "load plan file"}, {"s", "save report"},
	},
	tabEmergency: {
		{"a", "add a task"}, {"u", "toggle urgent"}, {"i", "toggle important"}, {"x", "remove selected"},
		{"p", "switch between tasks and protocol"}, {"space", "check protocol step"}, {"s", "save plan"},
	},
	tabEnvironment: {
		{"enter/e", "edit selected value"}, {"a", "add custom KEY=value"}, {"x", "remove selected"},
		{"g", "write .env.local"}, {"h", "copy Heroku commands"}, {"p", "toggle preview"},
	},
}

func (m model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.heading.Render("Keys") + "\n")
	for _, bind := range []key.Binding{m.keys.Next, m.keys.Prev, m.keys.Up, m.keys.Down, m.keys.Help, m.keys.Quit} {
		h := bind.Help()
		b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
	}
	b.WriteString(fmt.Sprintf("  %-10s %s\n", "1-6", "jump to tab"))
	b.WriteString(fmt.Sprintf("  %-10s %s\n\n", "T", "cycle theme"))
	b.WriteString(m.styles.heading.Render(tabs[m.tab].label) + "\n")
	for _, h := range tabHelp[m.activeTab()] {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", h[0], h[1]))
	}
	return b.String()
}
