package pubsub

import "sync"

// Published is one message handed to the mock, already encoded the way the
// real client would put it on the wire.
type Published struct {
	Topic   EventType
	Data    any
	Payload []byte
}

// MockPubSubClient keeps the record feed in memory. Payloads go through the
// same MessagePack codec as the real client, so a record that cannot be
// encoded fails here too. It is safe for concurrent use.
type MockPubSubClient struct {
	mu sync.Mutex

	// Optional overrides.
	SendMessageFunc    func(topic EventType, data any) error
	ProcessMessageFunc func(data []byte, returnValue any) error

	published []Published
	decoded   int
	Closed    bool
}

var _ PubSubClient = (*MockPubSubClient)(nil)

func NewMock() *MockPubSubClient {
	return &MockPubSubClient{}
}

// Reset forgets everything published so far.
func (m *MockPubSubClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = nil
	m.decoded = 0
}

func (m *MockPubSubClient) SendMessage(topic EventType, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(topic, data); err != nil {
			return err
		}
	}
	payload, err := encode(data)
	if err != nil {
		return err
	}
	m.published = append(m.published, Published{Topic: topic, Data: data, Payload: payload})
	return nil
}

// ProcessMessage decodes a MessagePack payload unless ProcessMessageFunc is set.
func (m *MockPubSubClient) ProcessMessage(data []byte, returnValue any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decoded++
	if m.ProcessMessageFunc != nil {
		return m.ProcessMessageFunc(data, returnValue)
	}
	return decode(data, returnValue)
}

func (m *MockPubSubClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
}

// Sent returns a copy of everything published.
func (m *MockPubSubClient) Sent() []Published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Published(nil), m.published...)
}

// Decoded reports how many payloads were handed to ProcessMessage.
func (m *MockPubSubClient) Decoded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decoded
}

// RecordedMatches decodes every EventMatchRecorded payload back into records.
func (m *MockPubSubClient) RecordedMatches() ([]MatchRecorded, error) {
	var out []MatchRecorded
	for _, p := range m.Sent() {
		if p.Topic != EventMatchRecorded {
			continue
		}
		var rec MatchRecorded
		if err := decode(p.Payload, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// RecordedTeamMatches is RecordedMatches for EventTeamMatchRecorded.
func (m *MockPubSubClient) RecordedTeamMatches() ([]TeamMatchRecorded, error) {
	var out []TeamMatchRecorded
	for _, p := range m.Sent() {
		if p.Topic != EventTeamMatchRecorded {
			continue
		}
		var rec TeamMatchRecorded
		if err := decode(p.Payload, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
