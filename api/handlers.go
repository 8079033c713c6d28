package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type API struct {
	root     *mux.Router
	router   *mux.Router
	db       *sql.DB
	log      *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

type Option func(*API)

// WithClock replaces time.Now as the source of creation timestamps and
// report offsets.
func WithClock(now func() time.Time) Option {
	return func(a *API) { a.now = now }
}

func NewAPI(db *sql.DB, log *slog.Logger, opts ...Option) *API {
	root := mux.NewRouter()
	a := &API{
		root:     root,
		router:   root.PathPrefix("/api").Subrouter(),
		db:       db,
		log:      log,
		validate: newValidator(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router exposes the routes without the logging and CORS wrappers.
func (a *API) Router() *mux.Router {
	return a.root
}

// Use adds middleware that runs for every matched route.
func (a *API) Use(mw ...mux.MiddlewareFunc) {
	a.root.Use(mw...)
}

func (a *API) Handler(allowedOrigins []string) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	// Use Gorilla's built-in logging handler
	return handlers.LoggingHandler(os.Stdout, cors(a.root))
}

type Response struct {
	Status   int `json:"status"`
	Response any `json:"response"`
}

func (a *API) Response(w http.ResponseWriter, status int, data any) {
	respond(w, status, data)
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(Response{
		Status:   status,
		Response: data,
	})
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (a *API) RegisterRoutes() {
	a.router.HandleFunc("/health", a.health).Methods(http.MethodGet)

	a.router.HandleFunc("/users", a.createUser).Methods(http.MethodPost)
	a.router.HandleFunc("/users", a.getUsers).Methods(http.MethodGet)
	a.router.HandleFunc("/users/{id}", a.getUser).Methods(http.MethodGet)

	a.router.HandleFunc("/appointments", a.createAppointment).Methods(http.MethodPost)
	a.router.HandleFunc("/appointments", a.getAppointments).Methods(http.MethodGet)
	a.router.HandleFunc("/appointments/check", a.checkAppointment).Methods(http.MethodPost)
	a.router.HandleFunc("/appointments/{id}", a.getAppointment).Methods(http.MethodGet)
	a.router.HandleFunc("/appointments/{id}", a.deleteAppointment).Methods(http.MethodDelete)
}
