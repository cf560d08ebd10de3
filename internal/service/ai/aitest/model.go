// Package aitest provides an in-memory chat model for tests.
package aitest

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// Model records every input and answers with canned output.
type Model struct {
	// Reply is returned by Generate and, when Chunks is empty, by Stream.
	Reply string
	// Chunks are streamed in order by Stream.
	Chunks []string
	// Err fails both Generate and Stream.
	Err error

	mu     sync.Mutex
	inputs [][]*schema.Message
}

var _ model.BaseChatModel = (*Model)(nil)

func (m *Model) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.record(input)
	if m.Err != nil {
		return nil, m.Err
	}
	return schema.AssistantMessage(m.Reply, nil), nil
}

func (m *Model) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.record(input)
	if m.Err != nil {
		return nil, m.Err
	}

	chunks := m.Chunks
	if len(chunks) == 0 {
		chunks = []string{m.Reply}
	}
	msgs := make([]*schema.Message, 0, len(chunks))
	for _, c := range chunks {
		msgs = append(msgs, schema.AssistantMessage(c, nil))
	}
	return schema.StreamReaderFromArray(msgs), nil
}

// Calls returns how many times the model was invoked.
func (m *Model) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}

// LastInput returns the messages of the most recent call.
func (m *Model) LastInput() []*schema.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.inputs) == 0 {
		return nil
	}
	return m.inputs[len(m.inputs)-1]
}

func (m *Model) record(input []*schema.Message) {
	copied := make([]*schema.Message, len(input))
	copy(copied, input)

	m.mu.Lock()
	m.inputs = append(m.inputs, copied)
	m.mu.Unlock()
}
