package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// wednesday is a fixed reference instant: Wednesday 2025-03-12 15:30 UTC.
var wednesday = time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)

func seedUser(t *testing.T, store *memory.Store, id, email string) {
	t.Helper()
	require.NoError(t, store.Users().Create(context.Background(), &model.User{
		ID:        id,
		Email:     email,
		Name:      id,
		CreatedAt: wednesday,
		UpdatedAt: wednesday,
	}))
}
