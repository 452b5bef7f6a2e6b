package handler

import (
	"net/http"
	"testing"

	"github.com/notevault/notevault-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteCRUD(t *testing.T) {
	h := newHarness(t, defaultOptions())
	token := h.login("gus@example.com")

	rec := h.do(http.MethodPost, "/api/note/createNote", map[string]string{"title": "Groceries", "description": "milk", "shortNote": "buy"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[model.NoteResponse](t, rec).Note
	require.NotNil(t, created)

	rec = h.do(http.MethodPut, "/api/note/updateNote", map[string]string{"id": created.ID, "description": "milk, eggs"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "milk, eggs", decode[model.NoteResponse](t, rec).Note.Description)

	for _, path := range []string{"/api/note/allNotes", "/api/note/weeklyNotes", "/api/note/monthlyNotes", "/api/note/yearlyNotes"} {
		rec = h.do(http.MethodGet, path, nil, token)
		require.Equal(t, http.StatusOK, rec.Code, path)
		notes := decode[[]model.Note](t, rec)
		require.Len(t, notes, 1, path)
		assert.Equal(t, created.ID, notes[0].ID)
	}

	rec = h.do(http.MethodDelete, "/api/note/deleteNote", map[string]string{"id": created.ID}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/note/allNotes", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestNoteValidationAndAuth(t *testing.T) {
	h := newHarness(t, defaultOptions())
	token := h.login("hal@example.com")

	rec := h.do(http.MethodPost, "/api/note/createNote", map[string]string{"description": "no title"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is required", errorMessage(t, rec))

	rec = h.do(http.MethodPost, "/api/note/createNote", map[string]string{"title": "t", "description": "d"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNoteDailyLimit(t *testing.T) {
	opts := defaultOptions()
	opts.dailyLimit = 1
	h := newHarness(t, opts)
	token := h.login("ivy@example.com")

	rec := h.do(http.MethodPost, "/api/note/createNote", map[string]string{"title": "t", "description": "d"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodPost, "/api/note/createNote", map[string]string{"title": "t", "description": "d"}, token)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestNoteOwnershipAcrossUsers(t *testing.T) {
	h := newHarness(t, defaultOptions())
	alice := h.login("alice@example.com")
	bob := h.login("bob@example.com")

	rec := h.do(http.MethodPost, "/api/note/createNote", map[string]string{"title": "mine", "description": "d"}, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	note := decode[model.NoteResponse](t, rec).Note

	rec = h.do(http.MethodDelete, "/api/note/deleteNote", map[string]string{"id": note.ID}, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPut, "/api/note/updateNote", map[string]string{"id": note.ID, "title": "stolen"}, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodPost, "/api/note/shareANote", map[string]string{"id": note.ID}, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodGet, "/api/note/allNotes", nil, bob)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = h.do(http.MethodGet, "/api/note/allNotes", nil, alice)
	notes := decode[[]model.Note](t, rec)
	require.Len(t, notes, 1)
	assert.Equal(t, "mine", notes[0].Title)
}
