package engine

import (
	"fmt"
	"math"
	"strings"
)

// Wheel is the task roulette: an ordered list of labels, one section each.
type Wheel struct {
	tasks []string
}

// SpinResult describes one spin. TotalRotation is what the wheel visibly turns.
type SpinResult struct {
	Rotations     int
	FinalAngle    float64
	TotalRotation float64
	Index         int
	Winner        string
}

// Add appends a trimmed label. Blank labels are ignored with ErrEmptyInput.
func (w *Wheel) Add(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyInput
	}
	w.tasks = append(w.tasks, label)
	return nil
}

// Remove deletes the label at i.
func (w *Wheel) Remove(i int) error {
	if i < 0 || i >= len(w.tasks) {
		return ErrOutOfRange
	}
	w.tasks = append(w.tasks[:i], w.tasks[i+1:]...)
	return nil
}

// Tasks returns a copy of the labels in wheel order.
func (w *Wheel) Tasks() []string {
	out := make([]string, len(w.tasks))
	copy(out, w.tasks)
	return out
}

func (w *Wheel) Len() int { return len(w.tasks) }

// CanSpin reports whether the wheel has enough sections.
func (w *Wheel) CanSpin() bool { return len(w.tasks) >= 2 }

// Spin turns the wheel 5 to 9 full rotations plus a random final angle.
func (w *Wheel) Spin(src Source) (SpinResult, error) {
	if !w.CanSpin() {
		return SpinResult{}, ErrTooFewTasks
	}
	rotations := src.Intn(5) + 5
	final := src.Float64() * 360
	idx := WinnerIndex(final, len(w.tasks))
	return SpinResult{
		Rotations:     rotations,
		FinalAngle:    final,
		TotalRotation: float64(rotations)*360 + final,
		Index:         idx,
		Winner:        w.tasks[idx],
	}, nil
}

// WinnerIndex maps the wheel's final angle to the section under the top pointer.
// The wheel turns clockwise, so the pointer reads the section at 360-angle.
func WinnerIndex(finalAngle float64, n int) int {
	if n < 1 {
		return -1
	}
	a := math.Mod(finalAngle, 360)
	if a < 0 {
		a += 360
	}
	normalized := math.Mod(360-a, 360)
	section := 360 / float64(n)
	idx := int(math.Floor(normalized / section))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// FormatWinner renders the result banner.
func FormatWinner(label string) string { return fmt.Sprintf("🎯 Winner: %s", label) }
