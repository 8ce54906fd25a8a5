package llm

import "context"

// PromptHook observes pipeline LLM calls. The gateway uses it to feed the
// run-event stream; clients must tolerate a nil hook.
type PromptHook interface {
	Before(ctx context.Context, stage, prompt string)
	After(ctx context.Context, stage, output string, err error)
}

type ctxKeyHook struct{}
type ctxKeyStage struct{}

// WithHook attaches a PromptHook to the context used by GenerateText.
func WithHook(ctx context.Context, hook PromptHook) context.Context {
	return context.WithValue(ctx, ctxKeyHook{}, hook)
}

// WithStage labels the context with the current pipeline stage.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage{}, stage)
}

// HookFrom returns the hook stored in the context.
func HookFrom(ctx context.Context) PromptHook {
	if v := ctx.Value(ctxKeyHook{}); v != nil {
		if h, ok := v.(PromptHook); ok {
			return h
		}
	}
	return nil
}

// StageFrom returns the stage label stored in the context.
func StageFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStage{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}
