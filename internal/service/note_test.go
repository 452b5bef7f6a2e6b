package service

import (
	"context"
	"testing"
	"time"

	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNoteService(t *testing.T, limit int) (*NoteService, *memory.Store, *fakeClock) {
	t.Helper()
	store := memory.New()
	clock := newClock(wednesday)
	svc := NewNoteService(store.Notes(), store.Subjects(), limit)
	svc.now = clock.Now
	seedUser(t, store, "alice", "alice@example.com")
	seedUser(t, store, "bob", "bob@example.com")
	return svc, store, clock
}

func TestWindowBounds(t *testing.T) {
	tests := []struct {
		name     string
		window   Window
		now      time.Time
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "week from wednesday",
			window:   WindowWeek,
			now:      wednesday,
			wantFrom: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "week from sunday belongs to the week that started monday",
			window:   WindowWeek,
			now:      time.Date(2025, 3, 16, 23, 59, 0, 0, time.UTC),
			wantFrom: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "week across month boundary",
			window:   WindowWeek,
			now:      time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC),
			wantFrom: time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "month",
			window:   WindowMonth,
			now:      wednesday,
			wantFrom: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "december rolls into next year",
			window:   WindowMonth,
			now:      time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC),
			wantFrom: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year",
			window:   WindowYear,
			now:      wednesday,
			wantFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := tt.window.Bounds(tt.now)
			assert.True(t, from.Equal(tt.wantFrom), "from = %v, want %v", from, tt.wantFrom)
			assert.True(t, to.Equal(tt.wantTo), "to = %v, want %v", to, tt.wantTo)
		})
	}
}

func TestNoteCreate_Validation(t *testing.T) {
	svc, _, _ := newTestNoteService(t, 0)

	_, err := svc.Create(context.Background(), "alice", model.NoteRequest{Description: "d"})
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(context.Background(), "alice", model.NoteRequest{Title: "t"})
	assert.ErrorIs(t, err, ErrDescriptionRequired)

	_, err = svc.Create(context.Background(), "alice", model.NoteRequest{Title: "t", Description: "d", SubjectID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNoteCreate_ForeignSubject(t *testing.T) {
	svc, store, _ := newTestNoteService(t, 0)
	subjects := NewSubjectService(store.Subjects(), store.Notes())
	sub, err := subjects.Create(context.Background(), "bob", model.SubjectRequest{Title: "Bob's"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "alice", model.NoteRequest{Title: "t", Description: "d", SubjectID: sub.ID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNoteCreate_DailyLimit(t *testing.T) {
	svc, _, clock := newTestNoteService(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "alice", model.NoteRequest{Title: "t", Description: "d"})
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	_, err := svc.Create(ctx, "alice", model.NoteRequest{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, ErrTooManyRequests)

	_, err = svc.Create(ctx, "bob", model.NoteRequest{Title: "t", Description: "d"})
	assert.NoError(t, err, "limit is per user")

	clock.Advance(12 * time.Hour)
	_, err = svc.Create(ctx, "alice", model.NoteRequest{Title: "t", Description: "d"})
	assert.NoError(t, err, "limit resets at midnight")
}

func TestNoteUpdate(t *testing.T) {
	svc, _, clock := newTestNoteService(t, 0)
	ctx := context.Background()

	note, err := svc.Create(ctx, "alice", model.NoteRequest{Title: "Draft", Description: "body", ShortNote: "tl;dr"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	updated, err := svc.Update(ctx, "alice", model.NoteRequest{ID: note.ID, Title: "Final"})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "body", updated.Description)
	assert.Equal(t, "tl;dr", updated.ShortNote)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = svc.Update(ctx, "alice", model.NoteRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteOwnership(t *testing.T) {
	svc, store, _ := newTestNoteService(t, 0)
	ctx := context.Background()

	note, err := svc.Create(ctx, "alice", model.NoteRequest{Title: "Private", Description: "alice only"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "bob", model.NoteRequest{ID: note.ID, Title: "pwned"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "bob", note.ID), ErrNotFound)

	stored, err := store.Notes().GetByID(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", stored.Title, "foreign update must not mutate")

	require.NoError(t, svc.Delete(ctx, "alice", note.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "alice", note.ID), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "alice", ""), ErrValidation)
}

func TestNoteListWindow(t *testing.T) {
	svc, _, clock := newTestNoteService(t, 0)
	ctx := context.Background()

	create := func(at time.Time, title string) {
		clock.t = at
		_, err := svc.Create(ctx, "alice", model.NoteRequest{Title: title, Description: "d"})
		require.NoError(t, err)
	}
	create(time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC), "last year")
	create(time.Date(2025, 2, 20, 12, 0, 0, 0, time.UTC), "february")
	create(time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC), "earlier this month")
	create(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "monday")
	create(wednesday, "today")
	clock.t = wednesday

	titles := func(w Window) []string {
		notes, err := svc.ListWindow(ctx, "alice", w)
		require.NoError(t, err)
		out := make([]string, len(notes))
		for i, n := range notes {
			out[i] = n.Title
		}
		return out
	}

	assert.Equal(t, []string{"today", "monday"}, titles(WindowWeek))
	assert.Equal(t, []string{"today", "monday", "earlier this month"}, titles(WindowMonth))
	assert.Equal(t, []string{"today", "monday", "earlier this month", "february"}, titles(WindowYear))

	all, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, none)
}
