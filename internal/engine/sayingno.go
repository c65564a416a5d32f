package engine

// Phrase is a ready-to-use way of declining.
type Phrase struct {
	Title string
	Text  string
}

var Phrases = []Phrase{
	{Title: "⏰ The Time Boundary", Text: "I wish I could help, but I'm at capacity right now. Could we revisit this in [timeframe]?"},
	{Title: "🎯 The Priority Redirect", Text: "This sounds great, but it doesn't align with my current priorities. I need to focus on [your priority] right now."},
	{Title: "🤝 The Helpful Alternative", Text: "I can't take this on, but have you considered [alternative solution/person who might help]?"},
	{Title: "📅 The Future Opening", Text: "My plate is full until [date]. If this is still relevant then, I'd be happy to discuss it."},
}

// Answer is a branch picked in the decision tree.
type Answer string

const (
	AnswerUnset Answer = ""
	AnswerYes   Answer = "yes"
	AnswerNo    Answer = "no"
	AnswerMaybe Answer = "maybe"
)

// Tone colours a verdict.
type Tone string

const (
	TonePending Tone = "pending"
	ToneGo      Tone = "go"
	ToneStop    Tone = "stop"
	TonePause   Tone = "pause"
)

const (
	QuestionPriority = "Does this align with my top 3 priorities?"
	QuestionCapacity = "Do I have the capacity right now?"
)

// Option is a selectable answer with its label.
type Option struct {
	Answer Answer
	Label  string
}

var PriorityOptions = []Option{
	{AnswerYes, "✅ Yes, it directly supports my goals"},
	{AnswerNo, "❌ No, it's not related to my priorities"},
	{AnswerMaybe, "❓ I'm not sure"},
}

var CapacityOptions = []Option{
	{AnswerYes, "✅ Yes, I'm under 70% capacity"},
	{AnswerNo, "❌ No, I'm already overloaded"},
}

// Verdict is what the tree tells the user at its current position.
type Verdict struct {
	Tone     Tone
	Headline string
	Advice   string
}

// DecisionTree is the "Should I say yes?" flow: priority first, then capacity.
type DecisionTree struct {
	Priority Answer
	Capacity Answer
}

// ChoosePriority sets the first branch. Any change drops the capacity answer.
func (d *DecisionTree) ChoosePriority(a Answer) {
	if a != d.Priority {
		d.Capacity = AnswerUnset
	}
	d.Priority = a
}

// ChooseCapacity sets the second branch; only reachable once priority is yes.
func (d *DecisionTree) ChooseCapacity(a Answer) bool {
	if d.Priority != AnswerYes || a == AnswerMaybe {
		return false
	}
	d.Capacity = a
	return true
}

// Reset clears both answers.
func (d *DecisionTree) Reset() { *d = DecisionTree{} }

// Active reports whether anything has been chosen, i.e. whether reset is offered.
func (d DecisionTree) Active() bool { return d.Priority != AnswerUnset || d.Capacity != AnswerUnset }

// AsksCapacity reports whether the capacity question is showing.
func (d DecisionTree) AsksCapacity() bool { return d.Priority == AnswerYes }

// Verdict returns the outcome for the current branch.
func (d DecisionTree) Verdict() Verdict {
	switch d.Priority {
	case AnswerNo:
		return Verdict{ToneStop, "🚫 Say No!", "If it doesn't align with your priorities, it's taking time away from what matters most."}
	case AnswerMaybe:
		return Verdict{TonePause, "⏸️ Pause and clarify your priorities first.", "Take time to define your top 3 goals before committing."}
	case AnswerYes:
		switch d.Capacity {
		case AnswerYes:
			return Verdict{ToneGo, "👍 You can consider saying yes!", "But set clear boundaries and timelines."}
		case AnswerNo:
			return Verdict{ToneStop, "🚫 Say No or Negotiate!", "Offer alternatives: \"I can't do this now, but I could help in [timeframe] or [different way].\""}
		}
		return Verdict{Tone: TonePending, Headline: QuestionCapacity}
	}
	return Verdict{Tone: TonePending, Headline: QuestionPriority}
}
