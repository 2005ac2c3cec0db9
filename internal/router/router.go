package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/config"
	"github.com/yasminebennouis/app-reclamations/internal/handlers"
	"github.com/yasminebennouis/app-reclamations/internal/middleware"
	"github.com/yasminebennouis/app-reclamations/internal/service"
)

func New(log zerolog.Logger, auth *service.AuthService, recs *service.ReclamationService, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	// WithAuth runs first so the request logger can tag lines with the user.
	r.Use(middleware.WithAuth(log, cfg))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))

	r.Get("/healthz", handlers.Health())

	ah := handlers.NewAuthHTTP(auth)
	dh := handlers.NewDemandeurHTTP(recs)
	th := handlers.NewTechnicienHTTP(recs)
	adh := handlers.NewAdminHTTP(recs)

	r.Post("/api/auth/login", ah.Login())

	r.Route("/api/demandeur/reclamations", func(r chi.Router) {
		r.Post("/", dh.Create())
		r.Get("/", dh.History())
		r.Get("/{id}", dh.Detail())
	})

	r.Route("/api/technicien/reclamations", func(r chi.Router) {
		r.Get("/", th.List())
		r.Get("/replied", th.Replied())
		r.Get("/{id}", th.Detail())
		r.Post("/{id}/reponse", th.Reply())
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Get("/reclamations", adh.List())
		r.Get("/reclamations/{id}", adh.Detail())
		r.Get("/stats", adh.Stats())
	})

	// Uploaded photos referenced by photoPath.
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", fs.ServeHTTP)

	return r
}
