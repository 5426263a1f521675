// Package aigen provides text generation clients for the platform's AI agents.
//
// A Generator turns a system instruction plus a user prompt into a single
// completion string. Two implementations are provided: OpenAI (chat
// completions, used for insight and report narratives) and Google Gemini
// (used for lead discovery, optionally with search grounding).
//
// # Usage
//
//	gen, err := aigen.NewOpenAI(apiKey, aigen.WithOpenAIModel(aigen.OpenAIGPT4oMini))
//	if err != nil {
//		return err
//	}
//
//	text, err := gen.Generate(ctx, aigen.Request{
//		System: "You are a concise business analyst.",
//		Prompt: "Summarize this week's funnel numbers: ...",
//	})
//
// Both implementations are safe for concurrent use.
package aigen
