package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns a canned JSON payload for offline use and tests.
// It records the last prompt and input it saw.
type FakeClient struct {
	Response json.RawMessage
	Err      error

	LastPrompt string
	LastInput  any
	Calls      int
}

// NewFakeClient builds a fake with a plausible similarity verdict.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		Response: json.RawMessage(`{"strengths":["Go services","distributed systems"],"gaps":["Kubernetes operators"]}`),
	}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	f.Calls++
	f.LastPrompt = prompt
	f.LastInput = input
	if f.Err != nil {
		return nil, f.Err
	}
	if len(f.Response) == 0 {
		return json.RawMessage(`{}`), nil
	}
	return f.Response, nil
}
