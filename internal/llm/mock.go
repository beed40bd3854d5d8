package llm

import "context"

// MockClient enables tests without a real provider. It records the last
// prompt it was handed.
type MockClient struct {
	Response string
	Err      error

	LastMessages []Message
	LastOptions  Options
	Calls        int
}

func (m *MockClient) Complete(_ context.Context, messages []Message, opts Options) (string, error) {
	m.Calls++
	m.LastMessages = messages
	m.LastOptions = opts
	return m.Response, m.Err
}
