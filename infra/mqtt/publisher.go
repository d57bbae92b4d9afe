package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/rescuesim/core/mqtt"
)

// SnapshotPublisher mirrors the core interface.
type SnapshotPublisher = coremqtt.SnapshotPublisher

// MockPublisher records published snapshots. It is used in tests and when
// no broker is configured.
type MockPublisher struct {
	mu       sync.Mutex
	Messages map[string][][]byte
	FailFor  map[string]bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Messages: make(map[string][][]byte),
		FailFor:  make(map[string]bool),
	}
}

// PublishSnapshot encodes the snapshot and stores it under the group.
func (m *MockPublisher) PublishSnapshot(group string, snapshot any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[group] {
		return fmt.Errorf("publish failed")
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	m.Messages[group] = append(m.Messages[group], payload)
	return nil
}

// Count returns the number of snapshots stored for group.
func (m *MockPublisher) Count(group string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages[group])
}
