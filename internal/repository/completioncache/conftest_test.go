package completioncache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/revisor/internal/db"
)

type mockGenerator struct {
	text  string
	err   error
	calls int
	creds []string
}

func (m *mockGenerator) Generate(_ context.Context, credential, _ string) (string, error) {
	m.calls++
	m.creds = append(m.creds, credential)
	return m.text, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedGenerator(t *testing.T, inner *mockGenerator) (*CachedGenerator, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cg := New(inner, ms, Config{Namespace: "model-a", TTL: time.Hour}, nil, zap.NewNop())
	return cg, ms
}
