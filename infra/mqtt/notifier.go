package mqtt

import (
	"fmt"
	"sync"
	"time"

	coremqtt "github.com/fieldops/leadrouter/core/mqtt"
	"github.com/fieldops/leadrouter/core/model"
)

// Client mirrors the core mqtt.Client interface.
type Client = coremqtt.Client

// MockNotifier is a simple notifier used in tests and when no broker is
// configured.
type MockNotifier struct {
	Notices    map[string]model.Assignment
	FailIDs    map[string]bool
	AckResults map[string]bool
	mu         sync.Mutex
}

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		Notices:    make(map[string]model.Assignment),
		FailIDs:    make(map[string]bool),
		AckResults: make(map[string]bool),
	}
}

// NotifyAssignment records the notice or returns an error if configured to fail.
func (m *MockNotifier) NotifyAssignment(repID string, asn model.Assignment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[repID] {
		return "", fmt.Errorf("publish failed")
	}
	m.Notices[repID] = asn
	noticeID := fmt.Sprintf("notice-%s", repID)
	m.AckResults[noticeID] = true
	return noticeID, nil
}

// WaitForAck simulates an immediate acknowledgment based on the stored result.
func (m *MockNotifier) WaitForAck(noticeID string, timeout time.Duration) (bool, error) {
	m.mu.Lock()
	ok, exists := m.AckResults[noticeID]
	m.mu.Unlock()
	if !exists {
		return false, fmt.Errorf("unknown notice")
	}
	return ok, nil
}
