package llm_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/bridge/pkg/llm"
)

func ptr[T any](v T) *T { return &v }

var _ = Describe("ChatRequest", func() {
	Describe("Sampling", func() {
		It("falls back to defaults when nothing is set", func() {
			req := &llm.ChatRequest{}
			s := req.Sampling()

			Expect(s.Temperature).To(Equal(0.7))
			Expect(s.MaxTokens).To(Equal(2048))
			Expect(s.TopP).To(Equal(1.0))
		})

		It("reads Ollama options when top-level fields are absent", func() {
			req := &llm.ChatRequest{
				Options: &llm.Options{
					Temperature: ptr(0.2),
					TopP:        ptr(0.9),
					NumPredict:  ptr(128),
				},
			}
			s := req.Sampling()

			Expect(s.Temperature).To(Equal(0.2))
			Expect(s.MaxTokens).To(Equal(128))
			Expect(s.TopP).To(Equal(0.9))
		})

		It("prefers top-level fields over options", func() {
			req := &llm.ChatRequest{
				Temperature: ptr(0.0),
				MaxTokens:   ptr(64),
				Options:     &llm.Options{Temperature: ptr(1.5), NumPredict: ptr(4096)},
			}
			s := req.Sampling()

			Expect(s.Temperature).To(Equal(0.0))
			Expect(s.MaxTokens).To(Equal(64))
			Expect(s.TopP).To(Equal(1.0))
		})
	})

	It("decodes an Ollama chat body", func() {
		body := `{"model":"gpt-4o","messages":[{"role":"user","content":"hi"}],"stream":false,"options":{"temperature":0.1}}`
		var req llm.ChatRequest
		Expect(json.Unmarshal([]byte(body), &req)).To(Succeed())

		Expect(req.Model).To(Equal("gpt-4o"))
		Expect(req.Messages).To(Equal([]llm.Message{{Role: "user", Content: "hi"}}))
		Expect(req.Sampling().Temperature).To(Equal(0.1))
	})
})

var _ = Describe("GenerateRequest", func() {
	It("builds a single user message from the prompt", func() {
		req := &llm.GenerateRequest{Prompt: "why is the sky blue?"}

		Expect(req.Messages()).To(Equal([]llm.Message{
			{Role: llm.RoleUser, Content: "why is the sky blue?"},
		}))
	})

	It("puts the system prompt first", func() {
		req := &llm.GenerateRequest{Prompt: "hello", System: "be brief"}

		msgs := req.Messages()
		Expect(msgs).To(HaveLen(2))
		Expect(msgs[0]).To(Equal(llm.Message{Role: llm.RoleSystem, Content: "be brief"}))
		Expect(msgs[1].Role).To(Equal(llm.RoleUser))
	})
})

var _ = Describe("Responses", func() {
	It("builds the fixed chat envelope", func() {
		now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		resp := llm.NewChatResponse("gpt-4o", "hello", now)

		Expect(resp.Message.Role).To(Equal("assistant"))
		Expect(resp.Message.Content).To(Equal("hello"))
		Expect(resp.DoneReason).To(Equal("stop"))
		Expect(resp.Done).To(BeTrue())
		Expect(resp.Stream).To(BeFalse())
	})

	It("always serializes the stream flag", func() {
		data, err := json.Marshal(llm.NewChatResponse("m", "x", time.Time{}))
		Expect(err).NotTo(HaveOccurred())

		Expect(string(data)).To(ContainSubstring(`"stream":false`))
		Expect(string(data)).To(ContainSubstring(`"done":true`))
	})
})

var _ = Describe("NewListModel", func() {
	It("uses placeholder size, digest and details", func() {
		created := time.Unix(1700000000, 0)
		m := llm.NewListModel("gpt-4o-mini", created)

		Expect(m.Name).To(Equal("gpt-4o-mini"))
		Expect(m.Model).To(Equal("gpt-4o-mini"))
		Expect(m.Size).To(BeZero())
		Expect(m.Digest).To(Equal("gpt-4o-mini"))
		Expect(m.Details).To(Equal(llm.ModelDetails{}))
		Expect(m.ModifiedAt).To(Equal("2023-11-14T22:13:20Z"))
	})

	It("serializes empty details as an empty object", func() {
		data, err := json.Marshal(llm.NewListModel("m", time.Unix(0, 0)))
		Expect(err).NotTo(HaveOccurred())

		Expect(string(data)).To(ContainSubstring(`"details":{}`))
	})
})
