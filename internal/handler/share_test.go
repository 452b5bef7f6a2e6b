package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/notevault/notevault-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareNewNote(t *testing.T, h *harness, token string) model.ShareLink {
	t.Helper()

	rec := h.do(http.MethodPost, "/api/note/createNote", map[string]string{"title": "Public", "description": "hello world"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	note := decode[model.NoteResponse](t, rec).Note

	rec = h.do(http.MethodPost, "/api/note/shareANote", map[string]string{"id": note.ID}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[model.ShareLink](t, rec)
}

func TestShareAndView(t *testing.T) {
	h := newHarness(t, defaultOptions())
	token := h.login("lu@example.com")

	link := shareNewNote(t, h, token)
	require.True(t, strings.HasPrefix(link.Link, testShareBase))
	slug := slugFromLink(link.Link)
	assert.Len(t, slug, 32)

	rec := h.do(http.MethodGet, "/api/note/viewNote/"+slug, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	view := decode[map[string]any](t, rec)
	assert.Equal(t, "Public", view["title"])
	assert.Equal(t, "hello world", view["description"])
	assert.NotContains(t, view, "userId")
	assert.NotContains(t, view, "id")

	rec = h.do(http.MethodGet, "/api/note/viewNote/unknown-slug", nil, "")
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestShareValidation(t *testing.T) {
	h := newHarness(t, defaultOptions())
	token := h.login("mo@example.com")

	rec := h.do(http.MethodPost, "/api/note/shareANote", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(http.MethodPost, "/api/note/shareANote", map[string]string{"id": "missing"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewExpiredShareIsGoneAndRevoked(t *testing.T) {
	opts := defaultOptions()
	opts.shareTTL = 0
	h := newHarness(t, opts)
	token := h.login("ned@example.com")

	slug := slugFromLink(shareNewNote(t, h, token).Link)

	for i := 0; i < 2; i++ {
		rec := h.do(http.MethodGet, "/api/note/viewNote/"+slug, nil, "")
		assert.Equal(t, http.StatusGone, rec.Code, "view %d", i)
	}

	rec := h.do(http.MethodGet, "/api/note/allNotes", nil, token)
	notes := decode[[]model.Note](t, rec)
	require.Len(t, notes, 1)
	assert.False(t, notes[0].IsShared)
	assert.Empty(t, notes[0].ShareSlug)
}
