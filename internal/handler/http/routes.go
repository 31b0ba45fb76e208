package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(h.withThrottle)

	router.Route("/api/user", func(r chi.Router) {
		// routes without authorization
		r.Group(func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/verifyLoginOtp", h.verifyLoginOTP)
			r.Get("/token", h.refreshToken)
			r.Delete("/logout", h.logout)
		})

		// routes for authenticated users
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/profile", h.profile)
			r.Patch("/profile/password", h.updatePassword)
			r.Post("/profile/email", h.requestEmailChange)
			r.Post("/profile/verifyEmailOtp", h.verifyEmailOTP)
		})

		// admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(h.auth, h.adminOnly)
			r.Patch("/role/{userID}", h.updateRole)
			r.Get("/getAllUsers", h.getAllUsers)
			r.Get("/logs/{userID}", h.userLogs)
		})
	})

	return router
}
