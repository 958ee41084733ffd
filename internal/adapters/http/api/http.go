// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/reqbind/internal/domain/model"
	"github.com/okian/reqbind/pkg/logger"
	"github.com/okian/reqbind/pkg/metrics"
)

const defaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SampleDependencies
	QuoteDependencies
	HealthDependencies
}

// Server wires HTTP routes for the walkthrough API.
type Server struct {
	logger       logger.Logger
	maxBodyBytes int64

	rootHandler    *RootHandler
	healthHandler  *HealthHandler
	itemsHandler   *ItemsHandler
	usersHandler   *UsersHandler
	modelsHandler  *ModelsHandler
	filesHandler   *FilesHandler
	queryHandler   *QueryHandler
	requestHandler *RequestHandler
	paramsHandler  *ParamsHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the logger used by middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps JSON request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		logger:       logger.Nop(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.rootHandler = NewRootHandler()
	s.healthHandler = NewHealthHandler(deps)
	s.itemsHandler = NewItemsHandler()
	s.usersHandler = NewUsersHandler()
	s.modelsHandler = NewModelsHandler()
	s.filesHandler = NewFilesHandler()
	s.queryHandler = NewQueryHandler(deps)
	s.requestHandler = NewRequestHandler(deps, s.maxBodyBytes)
	s.paramsHandler = NewParamsHandler()
	return s
}

// Router returns a chi router with middleware and every route registered.
func (s *Server) Router(ctx context.Context) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(s.logger))
	r.Use(Metrics)
	r.Use(Recoverer(s.logger))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r. chi matches static segments before
// parameters, so /users/me is never captured by /users/{user_id}.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/", s.rootHandler.HandleRoot)
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", s.healthHandler.MetricsHandler())

	// Path parameters
	r.Get("/items/{item_id}", s.itemsHandler.HandleGetItem)
	r.Get("/users/me", s.usersHandler.HandleGetCurrentUser)
	r.Get("/users/{user_id}", s.usersHandler.HandleGetUser)
	r.Get("/users/{user_id}/items/{item_id}", s.usersHandler.HandleGetUserItem)
	r.Get("/models/{model_name}", s.modelsHandler.HandleGetModel)
	r.Get("/files/*", s.filesHandler.HandleGetFile)

	// Query parameters
	r.Get("/query/", s.queryHandler.HandleListSamples)
	r.Get("/query/optional/{item_id}", s.queryHandler.HandleGetOptional)
	r.Get("/query/items/{item_id}", s.queryHandler.HandleGetRequired)
	r.Get("/query/{item_id}", s.queryHandler.HandleGetWithFlags)

	// Request bodies
	r.Post("/request/items/", s.requestHandler.HandleCreateItem)
	r.Put("/request/items/{item_id}", s.requestHandler.HandleUpdateItem)

	// Query validation
	r.Get("/params/items/", s.paramsHandler.HandleMaxLength)
	r.Get("/params/default/", s.paramsHandler.HandleDefault)
	r.Get("/params/required/", s.paramsHandler.HandleRequired)
	r.Get("/params/none/", s.paramsHandler.HandleRequiredNullable)
	r.Get("/params/multiple/", s.paramsHandler.HandleMultiple)
	r.Get("/params/multiple/defaults/", s.paramsHandler.HandleMultipleDefaults)
}

type errorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Detail  []FieldError `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeBindError answers a failed binder: 422 with per-field detail for
// validation errors, 413 for oversized bodies, 500 otherwise.
func writeBindError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		for _, fe := range ve.Errors {
			metrics.RecordValidationRejection(fe.Loc[0], fe.Type)
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "validation_error",
			Message: ErrValidation.Error(),
			Detail:  ve.Errors,
		})
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not_found", nil)
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

// featuredItems is the fixed list echoed by the /params routes.
func featuredItems() []model.ItemRef {
	return []model.ItemRef{{ItemID: "Foo"}, {ItemID: "Bar"}}
}
