// Package memory provides in-memory implementations of the repository stores
// with the same uniqueness and not-found semantics as the MySQL ones. It backs
// STORE_DRIVER=memory and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/repository"
)

// Store holds every table behind a single lock so cascades stay consistent.
type Store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	subjects map[string]model.Subject
	notes    map[string]model.Note
	vault    map[string]model.VaultEntry
	revoked  map[string]time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[string]model.User),
		subjects: make(map[string]model.Subject),
		notes:    make(map[string]model.Note),
		vault:    make(map[string]model.VaultEntry),
		revoked:  make(map[string]time.Time),
	}
}

// Users returns the user store view.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

// Subjects returns the subject store view.
func (s *Store) Subjects() *SubjectStore { return &SubjectStore{s: s} }

// Notes returns the note store view.
func (s *Store) Notes() *NoteStore { return &NoteStore{s: s} }

// Vault returns the password record store view.
func (s *Store) Vault() *VaultStore { return &VaultStore{s: s} }

// Tokens returns the revoked-token store view.
func (s *Store) Tokens() *TokenStore { return &TokenStore{s: s} }

// UserStore implements the user repository contract.
type UserStore struct{ s *Store }

func (u *UserStore) Create(ctx context.Context, user *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.s.users[user.ID] = *user
	return nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	for _, user := range u.s.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (u *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	user, ok := u.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

func (u *UserStore) Update(ctx context.Context, user *model.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	existing, ok := u.s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for id, other := range u.s.users {
		if id != user.ID && other.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	existing.Email = user.Email
	existing.Name = user.Name
	existing.UpdatedAt = user.UpdatedAt
	u.s.users[user.ID] = existing
	return nil
}

func (u *UserStore) Delete(ctx context.Context, id string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, ok := u.s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	for k, e := range u.s.vault {
		if e.UserID == id {
			delete(u.s.vault, k)
		}
	}
	for k, n := range u.s.notes {
		if n.UserID == id {
			delete(u.s.notes, k)
		}
	}
	for k, sub := range u.s.subjects {
		if sub.UserID == id {
			delete(u.s.subjects, k)
		}
	}
	delete(u.s.users, id)
	return nil
}

// SubjectStore implements the subject repository contract.
type SubjectStore struct{ s *Store }

func (ss *SubjectStore) titleTaken(userID, title, exceptID string) bool {
	for id, sub := range ss.s.subjects {
		if id != exceptID && sub.UserID == userID && sub.Title == title {
			return true
		}
	}
	return false
}

func (ss *SubjectStore) Create(ctx context.Context, sub *model.Subject) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	if ss.titleTaken(sub.UserID, sub.Title, "") {
		return repository.ErrDuplicateSubject
	}
	ss.s.subjects[sub.ID] = *sub
	return nil
}

func (ss *SubjectStore) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	sub, ok := ss.s.subjects[id]
	if !ok {
		return nil, repository.ErrSubjectNotFound
	}
	return &sub, nil
}

func (ss *SubjectStore) ListByUser(ctx context.Context, userID string) ([]model.Subject, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	subjects := []model.Subject{}
	for _, sub := range ss.s.subjects {
		if sub.UserID == userID {
			subjects = append(subjects, sub)
		}
	}
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].CreatedAt.After(subjects[j].CreatedAt) })
	return subjects, nil
}

func (ss *SubjectStore) Update(ctx context.Context, sub *model.Subject) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	existing, ok := ss.s.subjects[sub.ID]
	if !ok || existing.UserID != sub.UserID {
		return repository.ErrSubjectNotFound
	}
	if ss.titleTaken(sub.UserID, sub.Title, sub.ID) {
		return repository.ErrDuplicateSubject
	}
	existing.Title = sub.Title
	existing.UpdatedAt = sub.UpdatedAt
	ss.s.subjects[sub.ID] = existing
	return nil
}

func (ss *SubjectStore) Delete(ctx context.Context, userID, id string) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	sub, ok := ss.s.subjects[id]
	if !ok || sub.UserID != userID {
		return repository.ErrSubjectNotFound
	}
	for k, n := range ss.s.notes {
		if n.SubjectID == id {
			delete(ss.s.notes, k)
		}
	}
	delete(ss.s.subjects, id)
	return nil
}

// NoteStore implements the note repository contract, including share state.
type NoteStore struct{ s *Store }

func (ns *NoteStore) Create(ctx context.Context, n *model.Note) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	if n.ShareSlug != "" && ns.slugTaken(n.ShareSlug, "") {
		return repository.ErrDuplicateSlug
	}
	ns.s.notes[n.ID] = copyNote(*n)
	return nil
}

func (ns *NoteStore) GetByID(ctx context.Context, id string) (*model.Note, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	n, ok := ns.s.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	c := copyNote(n)
	return &c, nil
}

func (ns *NoteStore) GetBySlug(ctx context.Context, slug string) (*model.Note, error) {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	for _, n := range ns.s.notes {
		if n.ShareSlug != "" && n.ShareSlug == slug {
			c := copyNote(n)
			return &c, nil
		}
	}
	return nil, repository.ErrNoteNotFound
}

func (ns *NoteStore) Update(ctx context.Context, n *model.Note) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	existing, ok := ns.s.notes[n.ID]
	if !ok || existing.UserID != n.UserID {
		return repository.ErrNoteNotFound
	}
	existing.SubjectID = n.SubjectID
	existing.Title = n.Title
	existing.Description = n.Description
	existing.ShortNote = n.ShortNote
	existing.UpdatedAt = n.UpdatedAt
	ns.s.notes[n.ID] = existing
	return nil
}

func (ns *NoteStore) Delete(ctx context.Context, userID, id string) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	n, ok := ns.s.notes[id]
	if !ok || n.UserID != userID {
		return repository.ErrNoteNotFound
	}
	delete(ns.s.notes, id)
	return nil
}

func (ns *NoteStore) ListByUser(ctx context.Context, userID string) ([]model.Note, error) {
	return ns.filter(func(n model.Note) bool { return n.UserID == userID }), nil
}

func (ns *NoteStore) ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]model.Note, error) {
	return ns.filter(func(n model.Note) bool {
		return n.UserID == userID && !n.CreatedAt.Before(from) && n.CreatedAt.Before(to)
	}), nil
}

func (ns *NoteStore) ListBySubject(ctx context.Context, userID, subjectID string) ([]model.Note, error) {
	return ns.filter(func(n model.Note) bool { return n.UserID == userID && n.SubjectID == subjectID }), nil
}

func (ns *NoteStore) CountCreatedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return len(ns.filter(func(n model.Note) bool { return n.UserID == userID && !n.CreatedAt.Before(since) })), nil
}

func (ns *NoteStore) SetShare(ctx context.Context, userID, id, slug string, expiry time.Time) error {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	n, ok := ns.s.notes[id]
	if !ok || n.UserID != userID {
		return repository.ErrNoteNotFound
	}
	if ns.slugTaken(slug, id) {
		return repository.ErrDuplicateSlug
	}
	n.IsShared = true
	n.ShareSlug = slug
	n.ExpiryTime = &expiry
	ns.s.notes[id] = n
	return nil
}

func (ns *NoteStore) RevokeShare(ctx context.Context, id, slug string) (bool, error) {
	ns.s.mu.Lock()
	defer ns.s.mu.Unlock()

	n, ok := ns.s.notes[id]
	if !ok || n.ShareSlug == "" || n.ShareSlug != slug {
		return false, nil
	}
	n.IsShared = false
	n.ShareSlug = ""
	ns.s.notes[id] = n
	return true, nil
}

func (ns *NoteStore) slugTaken(slug, exceptID string) bool {
	for id, n := range ns.s.notes {
		if id != exceptID && n.ShareSlug == slug {
			return true
		}
	}
	return false
}

func (ns *NoteStore) filter(keep func(model.Note) bool) []model.Note {
	ns.s.mu.RLock()
	defer ns.s.mu.RUnlock()

	notes := []model.Note{}
	for _, n := range ns.s.notes {
		if keep(n) {
			notes = append(notes, copyNote(n))
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].CreatedAt.After(notes[j].CreatedAt) })
	return notes
}

func copyNote(n model.Note) model.Note {
	if n.ExpiryTime != nil {
		t := *n.ExpiryTime
		n.ExpiryTime = &t
	}
	return n
}

// VaultStore implements the password record repository contract.
type VaultStore struct{ s *Store }

func (vs *VaultStore) Create(ctx context.Context, entry *model.VaultEntry) error {
	vs.s.mu.Lock()
	defer vs.s.mu.Unlock()

	vs.s.vault[entry.ID] = *entry
	return nil
}

func (vs *VaultStore) ListByUser(ctx context.Context, userID string) ([]model.VaultEntry, error) {
	vs.s.mu.RLock()
	defer vs.s.mu.RUnlock()

	entries := []model.VaultEntry{}
	for _, e := range vs.s.vault {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

func (vs *VaultStore) Delete(ctx context.Context, userID, id, title string) error {
	vs.s.mu.Lock()
	defer vs.s.mu.Unlock()

	e, ok := vs.s.vault[id]
	if !ok || e.UserID != userID || e.Title != title {
		return repository.ErrEntryNotFound
	}
	delete(vs.s.vault, id)
	return nil
}

// Put stores a raw record as-is; tests use it to plant corrupted envelopes.
func (vs *VaultStore) Put(entry model.VaultEntry) {
	vs.s.mu.Lock()
	defer vs.s.mu.Unlock()
	vs.s.vault[entry.ID] = entry
}

// TokenStore implements the revoked-token repository contract.
type TokenStore struct{ s *Store }

func (ts *TokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	if _, ok := ts.s.revoked[jti]; !ok {
		ts.s.revoked[jti] = expiresAt
	}
	return nil
}

func (ts *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()

	_, ok := ts.s.revoked[jti]
	return ok, nil
}

func (ts *TokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	var n int64
	for jti, exp := range ts.s.revoked {
		if exp.Before(now) {
			delete(ts.s.revoked, jti)
			n++
		}
	}
	return n, nil
}
