// Package envcfg holds the deployable environment variable set: defaults,
// display categories, .env rendering and Heroku command generation.
package envcfg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/joho/godotenv"
)

var (
	// ErrInvalidKey rejects names that a shell could not export.
	ErrInvalidKey = errors.New("invalid variable name")
	// ErrEmptyValue rejects custom variables added without a value.
	ErrEmptyValue = errors.New("empty value")
	ErrUnknownKey = errors.New("unknown variable")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Category is a display group of keys.
type Category struct {
	Name string
	Keys []string
}

// Categories in display order. Keys outside them render as custom variables.
var Categories = []Category{
	{Name: "App Configuration", Keys: []string{"REACT_APP_NAME", "REACT_APP_VERSION", "REACT_APP_DESCRIPTION"}},
	{Name: "Build Settings", Keys: []string{"GENERATE_SOURCEMAP", "DISABLE_ESLINT_PLUGIN", "SKIP_PREFLIGHT_CHECK"}},
	{Name: "Development", Keys: []string{"FAST_REFRESH", "BROWSER"}},
	{Name: "Deployment", Keys: []string{"NODE_ENV", "NPM_CONFIG_PRODUCTION", "CI"}},
	{Name: "Features", Keys: []string{"REACT_APP_ENABLE_PWA", "REACT_APP_ENABLE_OFFLINE", "REACT_APP_ENABLE_NOTIFICATIONS"}},
	{Name: "Styling", Keys: []string{"REACT_APP_THEME_COLOR", "REACT_APP_BACKGROUND_COLOR"}},
}

const CustomCategory = "Custom Variables"

// Var is one key/value pair.
type Var struct {
	Key   string
	Value string
}

var editorDefaults = []Var{
	{"REACT_APP_NAME", "Time Management Toolkit"},
	{"REACT_APP_VERSION", "1.0.0"},
	{"REACT_APP_DESCRIPTION", "Master your workload and learn to say no with confidence"},
	{"GENERATE_SOURCEMAP", "false"},
	{"DISABLE_ESLINT_PLUGIN", "false"},
	{"SKIP_PREFLIGHT_CHECK", "true"},
	{"FAST_REFRESH", "true"},
	{"BROWSER", "none"},
	{"NODE_ENV", "production"},
	{"NPM_CONFIG_PRODUCTION", "false"},
	{"CI", "false"},
	{"REACT_APP_ENABLE_PWA", "true"},
	{"REACT_APP_ENABLE_OFFLINE", "false"},
	{"REACT_APP_ENABLE_NOTIFICATIONS", "false"},
	{"REACT_APP_THEME_COLOR", "#4facfe"},
	{"REACT_APP_BACKGROUND_COLOR", "#ffffff"},
}

var deployDefaults = []Var{
	{"REACT_APP_NAME", "Time Management Toolkit"},
	{"REACT_APP_VERSION", "1.0.0"},
	{"REACT_APP_DESCRIPTION", "Master your workload and learn to say no with confidence"},
	{"GENERATE_SOURCEMAP", "false"},
	{"SKIP_PREFLIGHT_CHECK", "true"},
	{"FAST_REFRESH", "true"},
	{"NODE_ENV", "production"},
	{"NPM_CONFIG_PRODUCTION", "false"},
	{"CI", "false"},
	{"REACT_APP_ENABLE_PWA", "true"},
	{"REACT_APP_THEME_COLOR", "#4facfe"},
	{"REACT_APP_BACKGROUND_COLOR", "#ffffff"},
}

// Set is an insertion-ordered key/value map.
type Set struct {
	order  []string
	values map[string]string
}

func NewSet(vars ...Var) *Set {
	s := &Set{values: make(map[string]string, len(vars))}
	for _, v := range vars {
		s.put(v.Key, v.Value)
	}
	return s
}

// Defaults returns the editor's starting set.
func Defaults() *Set { return NewSet(editorDefaults...) }

// DeployDefaults returns the set the Heroku routine pushes.
func DeployDefaults() *Set { return NewSet(deployDefaults...) }

func (s *Set) put(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = value
}

func (s *Set) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Set) Len() int { return len(s.order) }

// Keys returns keys in insertion order.
func (s *Set) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Vars returns pairs in insertion order.
func (s *Set) Vars() []Var {
	out := make([]Var, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, Var{Key: k, Value: s.values[k]})
	}
	return out
}

// Update edits an existing key. Empty values are allowed, as in the editor's inputs.
func (s *Set) Update(key, value string) error {
	if _, ok := s.values[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	s.values[key] = value
	return nil
}

// Add inserts or overwrites a variable. Both key and value must be non-empty.
func (s *Set) Add(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" || !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if value == "" {
		return ErrEmptyValue
	}
	s.put(key, value)
	return nil
}

// Remove deletes a key; missing keys are ignored.
func (s *Set) Remove(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func categorized() map[string]bool {
	out := map[string]bool{}
	for _, c := range Categories {
		for _, k := range c.Keys {
			out[k] = true
		}
	}
	return out
}

// CustomKeys returns keys outside every category, in insertion order.
func (s *Set) CustomKeys() []string {
	known := categorized()
	var out []string
	for _, k := range s.order {
		if !known[k] {
			out = append(out, k)
		}
	}
	return out
}

// Generate renders the .env.local file.
func (s *Set) Generate(now time.Time) string {
	var b strings.Builder
	b.WriteString("# Time Management Toolkit - Environment Variables\n")
	b.WriteString("# Generated on " + now.Format("2006-01-02 15:04:05") + "\n\n")
	for _, c := range Categories {
		b.WriteString("# " + c.Name + "\n")
		for _, k := range c.Keys {
			if v, ok := s.values[k]; ok {
				b.WriteString(k + "=" + v + "\n")
			}
		}
		b.WriteString("\n")
	}
	if custom := s.CustomKeys(); len(custom) > 0 {
		b.WriteString("# " + CustomCategory + "\n")
		for _, k := range custom {
			b.WriteString(k + "=" + s.values[k] + "\n")
		}
	}
	return b.String()
}

// Deployable reports whether a key is pushed to Heroku by the command list.
func Deployable(key string) bool {
	return strings.HasPrefix(key, "REACT_APP_") || key == "NODE_ENV" || key == "NPM_CONFIG_PRODUCTION"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// Quote wraps a value in double quotes with shell-active characters escaped.
func Quote(v string) string { return `"` + quoteEscaper.Replace(v) + `"` }

// HerokuCommands returns one config:set line per deployable key, in set order.
func (s *Set) HerokuCommands() []string {
	var out []string
	for _, k := range s.order {
		if Deployable(k) {
			out = append(out, fmt.Sprintf("heroku config:set %s=%s", k, Quote(s.values[k])))
		}
	}
	return out
}

// Parse reads dotenv content and returns its pairs sorted by key.
func Parse(r io.Reader) ([]Var, error) {
	m, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Var, 0, len(keys))
	for _, k := range keys {
		out = append(out, Var{Key: k, Value: m[k]})
	}
	return out, nil
}

// Import merges a dotenv file into the set. Existing keys keep their position.
func (s *Set) Import(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	vars, err := Parse(f)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, v := range vars {
		if !keyPattern.MatchString(v.Key) {
			continue
		}
		s.put(v.Key, v.Value)
		n++
	}
	return n, nil
}

// Suggest returns a known key within edit distance 2 of key, if key is not itself known.
func Suggest(key string) (string, bool) {
	key = strings.ToUpper(strings.TrimSpace(key))
	known := categorized()
	if key == "" || known[key] {
		return "", false
	}
	best, bestDist := "", 3
	for _, c := range Categories {
		for _, k := range c.Keys {
			if d := levenshtein.ComputeDistance(key, k); d < bestDist {
				best, bestDist = k, d
			}
		}
	}
	return best, best != ""
}
