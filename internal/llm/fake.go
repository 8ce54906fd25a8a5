package llm

import (
	"context"
	"sync"
)

// FakeCall records one GenerateText invocation.
type FakeCall struct {
	Stage  string
	System string
	Prompt string
}

// FakeClient returns scripted responses in order and records every call.
// Used by pipeline and handler tests; never ships in a real wiring.
type FakeClient struct {
	mu        sync.Mutex
	calls     []FakeCall
	responses []string
	err       error
}

func NewFakeClient(responses ...string) *FakeClient {
	return &FakeClient{responses: responses}
}

// FailWith makes every subsequent call return err.
func (f *FakeClient) FailWith(err error) { f.mu.Lock(); f.err = err; f.mu.Unlock() }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeClient) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	stage := StageFrom(ctx)
	if hook := HookFrom(ctx); hook != nil {
		hook.Before(ctx, stage, prompt)
	}
	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Stage: stage, System: system, Prompt: prompt})
	var out string
	err := f.err
	if err == nil {
		if len(f.responses) == 0 {
			out = "resposta simulada (" + stage + ")"
		} else {
			out = f.responses[0]
			f.responses = f.responses[1:]
		}
	}
	f.mu.Unlock()
	if hook := HookFrom(ctx); hook != nil {
		hook.After(ctx, stage, out, err)
	}
	if err != nil {
		return "", err
	}
	return out, nil
}
