package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response   string
	Err        error
	Embedding  []float32
	LastPrompt string
	Calls      int
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	return m.Response, m.Err
}

func (m *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	return m.Embedding, m.Err
}
