// Package faq implements the assistant's canned-answer engine: an ordered
// rule list matched by case-insensitive substring, first match wins, with an
// explicit fallback.
package faq

import (
	"context"
	"strings"
	"time"
)

// Greeting seeds every new chat session.
const Greeting = "Hi! I'm here to help you with TruthCheck. How can I assist you today?"

// Fallback is returned when no rule matches.
const Fallback = "I understand your question. Let me help you with that."

type Rule struct {
	Keywords []string
	Reply    string
}

func (r Rule) matches(lower string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DefaultRules is checked in order; earlier rules shadow later ones.
var DefaultRules = []Rule{
	{
		Keywords: []string{"detection", "work"},
		Reply:    "Our detection system uses advanced AI algorithms that analyze pixel-level inconsistencies, metadata patterns, and deep learning models trained on millions of samples to identify fake content with high accuracy.",
	},
	{
		Keywords: []string{"legal", "court"},
		Reply:    "Yes, our detailed reports include technical analysis and confidence scores that can be used as supporting evidence. However, we recommend consulting with legal experts for specific legal proceedings.",
	},
	{
		Keywords: []string{"file", "format"},
		Reply:    "We support JPG, PNG, GIF for images (up to 10MB), MP4, AVI, MOV for videos (up to 100MB), and plain text content for analysis.",
	},
	{
		Keywords: []string{"accurate", "accuracy"},
		Reply:    "Our AI models achieve over 95% accuracy in controlled tests. However, results may vary depending on content quality and manipulation sophistication.",
	},
}

// QuickQuestions are the preset shortcuts; each feeds Respond unchanged.
var QuickQuestions = []string{
	"How does this detection work?",
	"Can I use this report in legal cases?",
	"What file types are supported?",
	"How accurate is the detection?",
}

// Responder answers user text after a fixed simulated latency.
type Responder struct {
	rules   []Rule
	latency time.Duration
}

func NewResponder(rules []Rule, latency time.Duration) *Responder {
	if rules == nil {
		rules = DefaultRules
	}
	return &Responder{rules: rules, latency: latency}
}

// Match resolves userText against the rule list without waiting.
func (r *Responder) Match(userText string) string {
	lower := strings.ToLower(userText)
	for _, rule := range r.rules {
		if rule.matches(lower) {
			return rule.Reply
		}
	}
	return Fallback
}

// Respond waits the reply latency, then returns the matched reply. The wait
// is cut short when ctx is cancelled.
func (r *Responder) Respond(ctx context.Context, userText string) (string, error) {
	if r.latency > 0 {
		t := time.NewTimer(r.latency)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return r.Match(userText), nil
}
