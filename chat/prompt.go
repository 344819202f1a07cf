package chat

import (
	"context"
	"sync"
)

// promptEntry is one pushed override. Entries are removed by identity so
// interleaved releases from concurrent scopes never pop a foreign entry.
type promptEntry struct {
	prompt string
}

// promptStack is the mutex-guarded stack of active system-prompt
// overrides. Resolution scans from the most recently pushed entry down.
type promptStack struct {
	mu      sync.Mutex
	entries []*promptEntry
}

func (s *promptStack) push(prompt string) *promptEntry {
	e := &promptEntry{prompt: prompt}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return e
}

func (s *promptStack) remove(e *promptEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i] == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// innermost returns the most recently pushed non-empty override.
func (s *promptStack) innermost() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].prompt != "" {
			return s.entries[i].prompt, true
		}
	}
	return "", false
}

func (s *promptStack) depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// PromptScope is the guard for one active override. Release pops exactly
// the entry this scope pushed; calling it more than once is a no-op.
type PromptScope struct {
	stack *promptStack
	entry *promptEntry
	once  sync.Once
}

// Release removes the scope's override from the stack.
func (p *PromptScope) Release() {
	p.once.Do(func() {
		p.stack.remove(p.entry)
	})
}

// OverrideSystemPrompt activates prompt for calls made until the returned
// scope is released. Scopes nest; the innermost non-empty override wins.
// Release the scope on every exit path, typically with defer:
//
//	scope := api.OverrideSystemPrompt("You are a dog.")
//	defer scope.Release()
func (c *Client) OverrideSystemPrompt(prompt string) *PromptScope {
	return &PromptScope{
		stack: &c.prompts,
		entry: c.prompts.push(prompt),
	}
}

// WithSystemPrompt wraps fn so that every invocation runs inside an
// override scope for prompt. The scope is released even when fn fails or
// panics.
func WithSystemPrompt[T any](c *Client, prompt string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		scope := c.OverrideSystemPrompt(prompt)
		defer scope.Release()
		return fn(ctx)
	}
}

// resolvePrompt computes the effective system prompt for one call:
// per-call override first, then the innermost non-empty scope, then the
// client default.
func (c *Client) resolvePrompt(callOverride string) string {
	if callOverride != "" {
		return callOverride
	}
	if prompt, ok := c.prompts.innermost(); ok {
		return prompt
	}
	return c.cfg.SystemPrompt
}
