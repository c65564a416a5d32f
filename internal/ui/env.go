package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/timekit/internal/envcfg"
	"github.com/DaanHessen/timekit/internal/text"
)

const envFile = ".env.local"

type envState struct {
	set     *envcfg.Set
	cursor  int
	preview bool
}

// envRow is one line of the editor: a category heading or a variable.
type envRow struct {
	heading string
	key     string
}

// rows lists present keys grouped by category, custom keys last.
func (st envState) rows() []envRow {
	var out []envRow
	for _, c := range envcfg.Categories {
		var keys []string
		for _, k := range c.Keys {
			if _, ok := st.set.Get(k); ok {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			continue
		}
		out = append(out, envRow{heading: c.Name})
		for _, k := range keys {
			out = append(out, envRow{key: k})
		}
	}
	if custom := st.set.CustomKeys(); len(custom) > 0 {
		out = append(out, envRow{heading: envcfg.CustomCategory})
		for _, k := range custom {
			out = append(out, envRow{key: k})
		}
	}
	return out
}

// keys is the selectable subset of rows.
func (st envState) keys() []string {
	var out []string
	for _, r := range st.rows() {
		if r.key != "" {
			out = append(out, r.key)
		}
	}
	return out
}

func (st envState) selected() string {
	keys := st.keys()
	if st.cursor < 0 || st.cursor >= len(keys) {
		return ""
	}
	return keys[st.cursor]
}

func (m model) envKey(k string) (tea.Model, tea.Cmd) {
	st := &m.env
	n := len(st.keys())
	switch k {
	case "up", "k":
		st.cursor = m.move(st.cursor, n, -1)
	case "down", "j":
		st.cursor = m.move(st.cursor, n, 1)
	case "e", "enter":
		key := st.selected()
		if key == "" {
			return m, nil
		}
		value, _ := st.set.Get(key)
		cmd := m.focusInput(fieldEnvValue, key+"=", "", value)
		return m, cmd
	case "a":
		cmd := m.focusInput(fieldEnvNew, "➕ ", "MY_VARIABLE=value", "")
		return m, cmd
	case "x", "delete":
		if key := st.selected(); key != "" {
			st.set.Remove(key)
			st.cursor = m.move(st.cursor, len(st.keys()), 0)
		}
	case "p":
		st.preview = !st.preview
	case "g":
		cmd := m.save("env", envFile, st.set.Generate(m.clock.Now()))
		return m, cmd
	case "h":
		cmds := st.set.HerokuCommands()
		if len(cmds) == 0 {
			m.alert = "No deployable variables"
			return m, nil
		}
		m.copy("Heroku commands", strings.Join(cmds, "\n"))
	}
	return m, nil
}

func (m *model) updateEnvValue(value string) {
	key := m.env.selected()
	if key == "" {
		return
	}
	if err := m.env.set.Update(key, value); err != nil {
		m.alert = err.Error()
	}
}

// addEnvVar reads "KEY=value"; both parts must be non-empty.
func (m *model) addEnvVar(value string) {
	key, val, ok := strings.Cut(strings.TrimSpace(value), "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || val == "" {
		m.alert = "Please enter both key and value"
		return
	}
	if err := m.env.set.Add(key, val); err != nil {
		m.alert = err.Error()
		return
	}
	for i, k := range m.env.keys() {
		if k == key {
			m.env.cursor = i
		}
	}
	if hint, ok := envcfg.Suggest(key); ok {
		m.alert = fmt.Sprintf("Added %s (did you mean %s?)", key, hint)
	}
}

func (m model) renderEnv() string {
	st := m.env
	s := m.styles
	var b strings.Builder
	b.WriteString(s.heading.Render("⚙️ Environment Variables") + "\n")
	selected := st.selected()
	for _, r := range st.rows() {
		if r.heading != "" {
			b.WriteString(s.muted.Render("# "+r.heading) + "\n")
			continue
		}
		value, _ := st.set.Get(r.key)
		line := fmt.Sprintf("%s=%s", r.key, value)
		if envcfg.Deployable(r.key) {
			line += " ⬆"
		}
		if r.key == selected {
			b.WriteString(s.selected.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if st.preview {
		b.WriteString("\n" + s.heading.Render(envFile+" Preview:") + "\n")
		b.WriteString(s.panel.Render(strings.TrimRight(st.set.Generate(m.clock.Now()), "\n")) + "\n")
	}
	b.WriteString("\n" + m.renderTip(text.TipEnvironment) + "\n")
	return b.String()
}
