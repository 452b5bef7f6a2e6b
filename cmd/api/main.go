package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/notevault/notevault-go/internal/config"
	"github.com/notevault/notevault-go/internal/crypto"
	"github.com/notevault/notevault-go/internal/handler"
	"github.com/notevault/notevault-go/internal/identity"
	"github.com/notevault/notevault-go/internal/middleware"
	"github.com/notevault/notevault-go/internal/ratelimit"
	"github.com/notevault/notevault-go/internal/repository"
	"github.com/notevault/notevault-go/internal/repository/memory"
	"github.com/notevault/notevault-go/internal/service"
)

type noteStore interface {
	service.NoteStore
	service.ShareStore
}

type tokenStore interface {
	service.TokenRevoker
	middleware.RevocationChecker
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type stores struct {
	users    service.UserStore
	subjects service.SubjectStore
	notes    noteStore
	vault    service.VaultStore
	tokens   tokenStore
	close    func() error
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		m := memory.New()
		return &stores{
			users:    m.Users(),
			subjects: m.Subjects(),
			notes:    m.Notes(),
			vault:    m.Vault(),
			tokens:   m.Tokens(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		users:    repository.NewUserRepository(db),
		subjects: repository.NewSubjectRepository(db),
		notes:    repository.NewNoteRepository(db),
		vault:    repository.NewVaultRepository(db),
		tokens:   repository.NewTokenRepository(db),
		close:    db.Close,
	}, nil
}

func purgeRevokedTokens(ctx context.Context, tokens tokenStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.PurgeExpired(ctx, time.Now().UTC())
			if err != nil {
				slog.Error("purging revoked tokens failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("purged revoked tokens", "count", n)
			}
		}
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg))

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		slog.Error("opening store failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.close()

	cipher, err := crypto.NewVaultCipher(cfg.EncryptionSecret)
	if err != nil {
		slog.Error("vault cipher setup failed", "error", err)
		os.Exit(1)
	}
	tokens := crypto.NewTokenService(cfg.JWTSecret)
	hasher := crypto.NewPasswordHasher(cfg.BcryptCost)

	authService := service.NewAuthService(st.users, st.tokens, hasher, tokens, cfg.JWTExpiry)
	if cfg.GoogleClientID != "" {
		authService.EnableIdentityLogin(identity.NewGoogleVerifier(cfg.GoogleClientID))
	}
	noteService := service.NewNoteService(st.notes, st.subjects, cfg.DailyNoteLimit)
	subjectService := service.NewSubjectService(st.subjects, st.notes)
	shareService := service.NewShareService(st.notes, cfg.ShareBaseURL, cfg.ShareTTL)
	vaultService := service.NewVaultService(st.vault, cipher)

	limiter := ratelimit.New()
	go limiter.Run(ctx, time.Minute)
	go purgeRevokedTokens(ctx, st.tokens, time.Hour)

	routes := handler.Routes{
		Auth:        handler.NewAuthHandler(authService, cfg.IsProduction()),
		Notes:       handler.NewNoteHandler(noteService),
		Subjects:    handler.NewSubjectHandler(subjectService),
		Shares:      handler.NewShareHandler(shareService),
		Vault:       handler.NewVaultHandler(vaultService),
		RequireAuth: middleware.Auth(tokens, st.tokens, st.users),
		SignupLimit: middleware.RateLimit(limiter, ratelimit.Rule{
			ID:     "signup",
			Window: cfg.SignupRateWindow,
			Max:    cfg.SignupRateMax,
		}),
		VaultLimit: middleware.RateLimit(limiter, ratelimit.Rule{
			ID:     "vault",
			Window: cfg.VaultRateWindow,
			Max:    cfg.VaultRateMax,
		}),
		IdentityLogin: cfg.GoogleClientID != "",
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Throttle(ctx, cfg.APIRPS, cfg.APIBurst))
	routes.Register(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
