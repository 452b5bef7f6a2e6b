package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notevault/notevault-go/internal/service"
)

// Routes holds the handlers and guards of the HTTP API. Every guard must be
// set; RequireAuth rejects requests without a valid session.
type Routes struct {
	Auth     *AuthHandler
	Notes    *NoteHandler
	Subjects *SubjectHandler
	Shares   *ShareHandler
	Vault    *VaultHandler

	RequireAuth func(http.Handler) http.Handler
	SignupLimit func(http.Handler) http.Handler
	VaultLimit  func(http.Handler) http.Handler

	// IdentityLogin mounts POST /api/user/googleLogin.
	IdentityLogin bool
}

// Register mounts the health check and the /api tree on r.
func (rt Routes) Register(r chi.Router) {
	r.Get("/health", HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.With(rt.SignupLimit).Post("/signup", rt.Auth.HandleSignup)
			r.Post("/signin", rt.Auth.HandleSignin)
			if rt.IdentityLogin {
				r.Post("/googleLogin", rt.Auth.HandleIdentityLogin)
			}

			r.Group(func(r chi.Router) {
				r.Use(rt.RequireAuth)
				r.Post("/logout", rt.Auth.HandleLogout)
				r.Get("/me", rt.Auth.HandleMe)
				r.Put("/editUserDetails", rt.Auth.HandleUpdateProfile)
				r.Delete("/deleteAccount", rt.Auth.HandleDeleteAccount)
			})
		})

		r.Route("/note", func(r chi.Router) {
			r.Get("/viewNote/{slug}", rt.Shares.HandleView)

			r.Group(func(r chi.Router) {
				r.Use(rt.RequireAuth)
				r.Post("/createNote", rt.Notes.HandleCreate)
				r.Put("/updateNote", rt.Notes.HandleUpdate)
				r.Delete("/deleteNote", rt.Notes.HandleDelete)
				r.Get("/allNotes", rt.Notes.HandleList)
				r.Get("/weeklyNotes", rt.Notes.HandleListWindow(service.WindowWeek))
				r.Get("/monthlyNotes", rt.Notes.HandleListWindow(service.WindowMonth))
				r.Get("/yearlyNotes", rt.Notes.HandleListWindow(service.WindowYear))

				r.Post("/createSubject", rt.Subjects.HandleCreate)
				r.Put("/updateSubject", rt.Subjects.HandleUpdate)
				r.Delete("/deleteSubject", rt.Subjects.HandleDelete)
				r.Get("/allSubjects", rt.Subjects.HandleList)
				r.Get("/subject/{subjectId}/notes", rt.Subjects.HandleNotes)

				r.Post("/shareANote", rt.Shares.HandleShare)
			})
		})

		r.Route("/password", func(r chi.Router) {
			r.With(rt.VaultLimit, rt.RequireAuth).Post("/saveAPassword", rt.Vault.HandleCreate)
			r.With(rt.RequireAuth).Delete("/deleteAPassword", rt.Vault.HandleDelete)
			r.With(rt.RequireAuth).Get("/allPasswords", rt.Vault.HandleList)
		})
	})
}

// HandleHealth handles GET /health requests.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
