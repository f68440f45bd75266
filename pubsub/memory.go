package pubsub

import (
	"sync"
	"sync/atomic"
)

// Memory is a single process PubSub.
// Callbacks run on the publishing goroutine.
type Memory struct {
	mu     sync.RWMutex
	nextID atomic.Uint64
	topics map[string]map[uint64]func([]byte)
}

func NewMemory() *Memory {
	return &Memory{
		topics: map[string]map[uint64]func([]byte){},
	}
}

func (m *Memory) Pub(topic string, data []byte) error {
	m.mu.RLock()
	subs := make([]func([]byte), 0, len(m.topics[topic]))
	for _, cb := range m.topics[topic] {
		subs = append(subs, cb)
	}
	m.mu.RUnlock()

	for _, cb := range subs {
		cb(data)
	}

	return nil
}

func (m *Memory) Sub(topic string, cb func(data []byte)) (func() error, error) {
	id := m.nextID.Add(1)

	m.mu.Lock()
	subs, ok := m.topics[topic]
	if !ok {
		subs = map[uint64]func([]byte){}
		m.topics[topic] = subs
	}
	subs[id] = cb
	m.mu.Unlock()

	var once sync.Once
	return func() error {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()

			delete(m.topics[topic], id)
			if len(m.topics[topic]) == 0 {
				delete(m.topics, topic)
			}
		})
		return nil
	}, nil
}
