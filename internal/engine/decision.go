package engine

import (
	"fmt"
	"strings"
	"time"
)

// Initial labels shown before a tool has been used.
const (
	BallIdle   = "Ask a question..."
	CoinIdle   = "Click for yes/no decisions!"
	DiceIdle   = "Roll 1-6 for options!"
	MantraIdle = "Get motivated!"

	CoinHeads = "🪙 Heads - YES!"
	CoinTails = "🪙 Tails - NO!"

	// ShakeDelay and SpinDelay hold back the result while the animation plays.
	ShakeDelay = 600 * time.Millisecond
	SpinDelay  = 3 * time.Second

	reportFooter = "Generated by Time Management Toolkit"
)

// MagicResponses are the 8-ball answers.
var MagicResponses = []string{
	"✅ Definitely start with that!", "🎯 Focus on it now", "⏰ Perfect timing for this task",
	"🚀 Go for it immediately", "💪 You've got this - do it!", "❌ Maybe tackle something else first",
	"⏳ Wait for a better moment", "🤔 Consider your energy level first", "📱 Check your priorities again",
	"🔄 Come back to this later", "⚖️ Weigh your options more", "🎲 Try asking again in 5 minutes",
	"🌟 Your instincts are right", "📋 Break it into smaller steps first", "☕ Take a break, then decide",
}

// FocusMantras feed the mantra card.
var FocusMantras = []string{
	"🧘 I am focused and in control of my time", "⚡ I choose progress over perfection",
	"🎯 This task deserves my full attention", "💪 I have the skills to complete this well",
	"🌊 I flow with my work, not against it", "🔥 I am energized and ready to create",
	"🎪 I make work enjoyable and rewarding", "🚀 I am building momentum with every action",
	"💎 I value my time and use it wisely", "🌟 I trust my ability to make good decisions",
}

// EightBall answers a question. The question must not be blank.
func EightBall(src Source, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyInput
	}
	return MagicResponses[src.Intn(len(MagicResponses))], nil
}

// CoinFlip returns heads (yes) or tails (no) with equal odds.
func CoinFlip(src Source) string {
	if src.Float64() < 0.5 {
		return CoinHeads
	}
	return CoinTails
}

// RollDice returns a value in 1..6.
func RollDice(src Source) int { return src.Intn(6) + 1 }

// FormatRoll renders a dice value the way the dice card shows it.
func FormatRoll(n int) string { return fmt.Sprintf("🎲 Rolled: %d", n) }

// Mantra picks a focus mantra.
func Mantra(src Source) string { return FocusMantras[src.Intn(len(FocusMantras))] }

// DecisionSnapshot is everything the decision tab shows, captured for a report.
type DecisionSnapshot struct {
	Question     string
	Answer       string
	Tasks        []string
	WheelResult  string
	CoinResult   string
	DiceResult   string
	MantraResult string
}

// NewDecisionSnapshot returns a snapshot holding the idle labels.
func NewDecisionSnapshot() DecisionSnapshot {
	return DecisionSnapshot{Answer: BallIdle, CoinResult: CoinIdle, DiceResult: DiceIdle, MantraResult: MantraIdle}
}

// DecisionReport renders the saved results file.
func DecisionReport(s DecisionSnapshot, generated time.Time) string {
	var b strings.Builder
	b.WriteString("DECISION MAGIC RESULTS\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", generated.Format("2006-01-02")))
	b.WriteString("MAGIC 8-BALL:\n")
	b.WriteString(fmt.Sprintf("Question: \"%s\"\n", s.Question))
	b.WriteString(fmt.Sprintf("Answer: \"%s\"\n\n", s.Answer))
	b.WriteString("ROULETTE TASKS:\n")
	if len(s.Tasks) == 0 {
		b.WriteString("No tasks added\n")
	} else {
		for i, task := range s.Tasks {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, task))
		}
	}
	// The result line stays, empty, when the wheel has not been spun.
	if s.WheelResult != "" {
		b.WriteString("Result: " + s.WheelResult)
	}
	b.WriteString("\n\nQUICK DECISION RESULTS:\n")
	b.WriteString("- Coin Flip: " + s.CoinResult + "\n")
	b.WriteString("- Dice Roll: " + s.DiceResult + "  \n")
	b.WriteString("- Focus Mantra: " + s.MantraResult + "\n\n")
	b.WriteString(reportFooter)
	return b.String()
}
