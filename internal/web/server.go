// Package web provides the JSON HTTP API for the listing backend.
package web

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/imobly/imobly/internal/activity"
	"github.com/imobly/imobly/internal/auth"
	"github.com/imobly/imobly/internal/imagestore"
	"github.com/imobly/imobly/internal/logging"
	"github.com/imobly/imobly/internal/property"
)

// Server is the API HTTP server.
type Server struct {
	store    *property.Store
	images   *imagestore.FileStore
	activity *activity.Repository
	users    *auth.UserStore
	tokens   *auth.Tokens
	handler  http.Handler
}

// Options configures a Server.
type Options struct {
	UploadDir   string
	JWTSecret   string
	CORSOrigins []string
}

// NewServer wires the API router over the given database.
func NewServer(db *sql.DB, opts Options) (*Server, error) {
	images, err := imagestore.NewFileStore(opts.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("creating image store: %w", err)
	}

	s := &Server{
		store:    property.NewStore(db, images),
		images:   images,
		activity: activity.NewRepository(db),
		users:    auth.NewUserStore(db),
		tokens:   auth.NewTokens(opts.JWTSecret),
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	r.HandleFunc("/properties", s.handleListProperties).Methods(http.MethodGet)
	r.HandleFunc("/properties/{id}", s.handleGetProperty).Methods(http.MethodGet)
	r.HandleFunc("/properties/{id}/view", s.handleRecordView).Methods(http.MethodPost)
	r.HandleFunc("/properties/{id}/lead", s.handleRecordLead).Methods(http.MethodPost)
	r.HandleFunc("/analytics/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/uploads/{filename}", s.handleUpload).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(s.tokens.RequireToken)
	protected.HandleFunc("/properties", s.handleCreateProperty).Methods(http.MethodPost)
	protected.HandleFunc("/properties/{id}", s.handleUpdateProperty).Methods(http.MethodPut)
	protected.HandleFunc("/properties/{id}", s.handleDeleteProperty).Methods(http.MethodDelete)
	protected.HandleFunc("/sales", s.handleRecordSale).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	s.handler = logging.RequestLogger(c.Handler(r))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe starts the HTTP server on the given port.
func (s *Server) ListenAndServe(port int) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s)
}
