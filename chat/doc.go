// Package chat provides a client for OpenAI-compatible chat-completion
// APIs.
//
// The client resolves an effective system prompt per call (per-call
// override > innermost active scope > client default), builds the wire
// request, and executes it through a retrying transport. Streaming calls
// return a single-pass pull iterator over response chunks.
//
//	api, err := chat.New(chat.Config{Model: "gpt-4o-mini", APIKey: key})
//	resp, err := api.Call(ctx, []string{"Hello"}, nil)
//	text, err := resp.First()
//
// Scoped overrides:
//
//	scope := api.OverrideSystemPrompt("You are a pirate.")
//	defer scope.Release()
package chat
