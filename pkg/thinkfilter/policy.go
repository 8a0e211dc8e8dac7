package thinkfilter

import (
	"strings"

	"github.com/papercomputeco/bridge/pkg/llm"
)

// Predicate decides whether a conversation should have an effect applied to
// its completion.
type Predicate interface {
	Match(messages []llm.Message) bool
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(messages []llm.Message) bool

func (f PredicateFunc) Match(messages []llm.Message) bool { return f(messages) }

// Effect rewrites completion content.
type Effect func(content string) string

// Rule matches when any message content starts with one of Prefixes or ends
// with one of Suffixes.
type Rule struct {
	Prefixes []string
	Suffixes []string
}

func (r Rule) Match(messages []llm.Message) bool {
	for _, m := range messages {
		for _, p := range r.Prefixes {
			if p != "" && strings.HasPrefix(m.Content, p) {
				return true
			}
		}
		for _, s := range r.Suffixes {
			if s != "" && strings.HasSuffix(m.Content, s) {
				return true
			}
		}
	}
	return false
}

type entry struct {
	trigger Predicate
	effect  Effect
}

// Policy is an ordered trigger table. Every entry whose trigger matches the
// request conversation applies its effect, in insertion order.
// A Policy is immutable once built and safe for concurrent use.
type Policy struct {
	entries []entry
}

// NewPolicy returns an empty policy that leaves content untouched.
func NewPolicy() *Policy {
	return &Policy{}
}

// With returns a copy of the policy with one more trigger appended.
func (p *Policy) With(trigger Predicate, effect Effect) *Policy {
	entries := make([]entry, len(p.entries), len(p.entries)+1)
	copy(entries, p.entries)
	return &Policy{entries: append(entries, entry{trigger: trigger, effect: effect})}
}

// Apply runs every matching effect over content.
func (p *Policy) Apply(messages []llm.Message, content string) string {
	for _, e := range p.entries {
		if e.trigger.Match(messages) {
			content = e.effect(content)
		}
	}
	return content
}

// Matches reports whether any trigger matches the conversation.
func (p *Policy) Matches(messages []llm.Message) bool {
	for _, e := range p.entries {
		if e.trigger.Match(messages) {
			return true
		}
	}
	return false
}

// StripPolicy is the usual table: content is run through Strip when the rule
// matches. An empty rule yields a policy that never fires.
func StripPolicy(rule Rule) *Policy {
	if len(rule.Prefixes) == 0 && len(rule.Suffixes) == 0 {
		return NewPolicy()
	}
	return NewPolicy().With(rule, Strip)
}
