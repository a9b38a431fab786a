// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/wdiw/internal/models"
)

// MockService is a scripted test double for [services.Service].
//
// CheckUser pops Statuses in order and keeps returning the last one once the script runs out.
// Every call is counted so tests can assert how many remote requests were issued.
type MockService struct {
	mu sync.Mutex

	Statuses   []models.Status
	StatusErr  error
	Exists     bool
	ExistsErr  error
	Batches    []models.Batch // returned in order by Recommendations; the last repeats
	BatchErr   error
	RegenErr   error
	RegenHook  func() // runs inside Regenerate, before it returns
	OnCheck    func(n int)
	checkCalls int
	existCalls int
	batchCalls int
	regenCalls int
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) CheckUser(ctx context.Context, id string) (models.Status, error) {
	m.mu.Lock()
	m.checkCalls++
	n := m.checkCalls
	hook := m.OnCheck
	var status models.Status
	if len(m.Statuses) > 0 {
		idx := min(n-1, len(m.Statuses)-1)
		status = m.Statuses[idx]
	}
	err := m.StatusErr
	m.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err != nil {
		return "", err
	}
	return status, nil
}

func (m *MockService) ProfileExists(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existCalls++
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.Exists, nil
}

func (m *MockService) Recommendations(ctx context.Context, id string) (models.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchCalls++
	if m.BatchErr != nil {
		return nil, m.BatchErr
	}
	if len(m.Batches) == 0 {
		return models.Batch{}, nil
	}
	return m.Batches[min(m.batchCalls-1, len(m.Batches)-1)], nil
}

func (m *MockService) Regenerate(ctx context.Context, id string) error {
	m.mu.Lock()
	m.regenCalls++
	hook, err := m.RegenHook, m.RegenErr
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

// Calls returns the number of CheckUser, ProfileExists, Recommendations and Regenerate calls.
func (m *MockService) Calls() (check, exists, batch, regen int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkCalls, m.existCalls, m.batchCalls, m.regenCalls
}

// TotalCalls returns the number of remote calls of any kind.
func (m *MockService) TotalCalls() int {
	c, e, b, r := m.Calls()
	return c + e + b + r
}

// MemoryIdentity is an in-memory [models.IdentityStore] that records writes.
type MemoryIdentity struct {
	mu     sync.Mutex
	id     string
	ok     bool
	Writes int
	GetErr error
	SetErr error
}

// NewMemoryIdentity returns a store pre-populated with id when id is non-empty.
func NewMemoryIdentity(id string) *MemoryIdentity {
	return &MemoryIdentity{id: id, ok: id != ""}
}

func (m *MemoryIdentity) Get(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	return m.id, m.ok, nil
}

func (m *MemoryIdentity) Set(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Writes++
	m.id, m.ok = id, true
	return nil
}

func (m *MemoryIdentity) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id, m.ok = "", false
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
