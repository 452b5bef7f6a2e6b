package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/notevault/notevault-go/internal/crypto"
	"github.com/notevault/notevault-go/internal/middleware"
	"github.com/notevault/notevault-go/internal/ratelimit"
	"github.com/notevault/notevault-go/internal/repository/memory"
	"github.com/notevault/notevault-go/internal/service"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testShareBase = "http://app.test/note/viewNote/"

type harness struct {
	t       *testing.T
	router  http.Handler
	store   *memory.Store
	limiter *ratelimit.Limiter
}

type harnessOptions struct {
	shareTTL   time.Duration
	signupMax  int
	vaultMax   int
	identity   service.IdentityVerifier
	dailyLimit int
}

func defaultOptions() harnessOptions {
	return harnessOptions{shareTTL: 72 * time.Hour, signupMax: 100, vaultMax: 100, dailyLimit: 100}
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	store := memory.New()
	tokens := crypto.NewTokenService("handler-test-secret")
	cipher, err := crypto.NewVaultCipher("handler-test-encryption")
	require.NoError(t, err)

	authSvc := service.NewAuthService(store.Users(), store.Tokens(), crypto.NewPasswordHasher(bcrypt.MinCost), tokens, time.Hour)
	if opts.identity != nil {
		authSvc.EnableIdentityLogin(opts.identity)
	}

	limiter := ratelimit.New()
	routes := Routes{
		Auth:          NewAuthHandler(authSvc, false),
		Notes:         NewNoteHandler(service.NewNoteService(store.Notes(), store.Subjects(), opts.dailyLimit)),
		Subjects:      NewSubjectHandler(service.NewSubjectService(store.Subjects(), store.Notes())),
		Shares:        NewShareHandler(service.NewShareService(store.Notes(), testShareBase, opts.shareTTL)),
		Vault:         NewVaultHandler(service.NewVaultService(store.Vault(), cipher)),
		RequireAuth:   middleware.Auth(tokens, store.Tokens(), store.Users()),
		SignupLimit:   middleware.RateLimit(limiter, ratelimit.Rule{ID: "signup", Window: 15 * time.Minute, Max: opts.signupMax}),
		VaultLimit:    middleware.RateLimit(limiter, ratelimit.Rule{ID: "vault", Window: 15 * time.Minute, Max: opts.vaultMax}),
		IdentityLogin: opts.identity != nil,
	}

	r := chi.NewRouter()
	routes.Register(r)

	return &harness{t: t, router: r, store: store, limiter: limiter}
}

// do sends a request with an optional JSON body and session cookie.
func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	h.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.10:40000"
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// login creates an account and returns its session token.
func (h *harness) login(email string) string {
	h.t.Helper()

	rec := h.do(http.MethodPost, "/api/user/signup", map[string]string{"name": "N", "email": email, "password": "pw-" + email}, "")
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())

	rec = h.do(http.MethodPost, "/api/user/signin", map[string]string{"email": email, "password": "pw-" + email}, "")
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c.Value
		}
	}
	h.t.Fatalf("signin for %s set no session cookie", email)
	return ""
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func slugFromLink(link string) string {
	return strings.TrimPrefix(link, testShareBase)
}
