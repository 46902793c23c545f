package mocks

import (
	"sync"

	"github.com/seu-repo/voice-concierge/internal/adapter/queue"
)

// MockMessageQueue is a mock implementation of MessageQueue interface
type MockMessageQueue struct {
	mu                sync.Mutex
	PublishedMessages map[string][][]byte
	Subscribers       map[string][]queue.Handler
	PublishFunc       func(topic string, data []byte) error
	SubscribeFunc     func(topic string, handler queue.Handler) error
	CloseFunc         func() error
}

func NewMockMessageQueue() *MockMessageQueue {
	return &MockMessageQueue{
		PublishedMessages: make(map[string][][]byte),
		Subscribers:       make(map[string][]queue.Handler),
	}
}

func (m *MockMessageQueue) Publish(topic string, data []byte) error {
	if m == nil {
		return nil
	}
	if m.PublishFunc != nil {
		return m.PublishFunc(topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedMessages[topic] = append(m.PublishedMessages[topic], data)
	return nil
}

func (m *MockMessageQueue) Subscribe(topic string, handler queue.Handler) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(topic, handler)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subscribers[topic] = append(m.Subscribers[topic], handler)
	return nil
}

func (m *MockMessageQueue) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Deliver hands data to every handler registered for pattern, as if it arrived on subject.
func (m *MockMessageQueue) Deliver(pattern, subject string, data []byte) []error {
	m.mu.Lock()
	handlers := append([]queue.Handler(nil), m.Subscribers[pattern]...)
	m.mu.Unlock()

	var errs []error
	for _, h := range handlers {
		if err := h(subject, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// GetPublishedMessages returns all messages published to a topic
func (m *MockMessageQueue) GetPublishedMessages(topic string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PublishedMessages[topic]
}
