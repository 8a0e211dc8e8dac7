package thinkfilter_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/bridge/pkg/llm"
	"github.com/papercomputeco/bridge/pkg/thinkfilter"
)

func user(content string) llm.Message {
	return llm.Message{Role: llm.RoleUser, Content: content}
}

var _ = Describe("Rule", func() {
	rule := thinkfilter.Rule{
		Prefixes: []string{"Review the following code"},
		Suffixes: []string{"Suggest better names."},
	}

	It("matches on a prefix", func() {
		Expect(rule.Match([]llm.Message{user("Review the following code:\nfunc f() {}")})).To(BeTrue())
	})

	It("matches on a suffix", func() {
		Expect(rule.Match([]llm.Message{user("var x, y int. Suggest better names.")})).To(BeTrue())
	})

	It("matches when any message in the conversation matches", func() {
		msgs := []llm.Message{
			{Role: llm.RoleSystem, Content: "Review the following code carefully"},
			user("hello"),
		}
		Expect(rule.Match(msgs)).To(BeTrue())
	})

	It("does not match unrelated content", func() {
		Expect(rule.Match([]llm.Message{user("What is the capital of France?")})).To(BeFalse())
	})

	It("ignores empty patterns", func() {
		empty := thinkfilter.Rule{Prefixes: []string{""}, Suffixes: []string{""}}
		Expect(empty.Match([]llm.Message{user("anything")})).To(BeFalse())
	})
})

var _ = Describe("Policy", func() {
	const completion = "<think>\nreasoning\n</think>\nanswer"

	It("strips only when the trigger matches", func() {
		policy := thinkfilter.StripPolicy(thinkfilter.Rule{Prefixes: []string{"Review the following code"}})

		triggered := policy.Apply([]llm.Message{user("Review the following code: x := 1")}, completion)
		untouched := policy.Apply([]llm.Message{user("What does x := 1 do?")}, completion)

		Expect(triggered).To(Equal("answer"))
		Expect(untouched).To(Equal(completion))
	})

	It("never fires for an empty rule", func() {
		policy := thinkfilter.StripPolicy(thinkfilter.Rule{})

		Expect(policy.Matches([]llm.Message{user("anything")})).To(BeFalse())
		Expect(policy.Apply([]llm.Message{user("anything")}, completion)).To(Equal(completion))
	})

	It("applies every matching effect in order", func() {
		always := thinkfilter.PredicateFunc(func([]llm.Message) bool { return true })
		never := thinkfilter.PredicateFunc(func([]llm.Message) bool { return false })

		policy := thinkfilter.NewPolicy().
			With(always, thinkfilter.Strip).
			With(never, func(string) string { return "unreachable" }).
			With(always, strings.ToUpper)

		Expect(policy.Apply(nil, completion)).To(Equal("ANSWER"))
	})

	It("does not mutate the receiver when extended", func() {
		base := thinkfilter.NewPolicy()
		extended := base.With(thinkfilter.PredicateFunc(func([]llm.Message) bool { return true }), strings.ToUpper)

		Expect(base.Apply(nil, "x")).To(Equal("x"))
		Expect(extended.Apply(nil, "x")).To(Equal("X"))
	})
})
