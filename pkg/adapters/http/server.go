// Package http exposes a keyboard engine as a JSON API. Each call returns the
// replies the event produced, so a thin bot process can forward them to the
// chat platform.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"

	"github.com/anaradzetski/keyboard/internal/dto"
	"github.com/anaradzetski/keyboard/internal/logging"
	"github.com/anaradzetski/keyboard/internal/sanitize"
	"github.com/anaradzetski/keyboard/pkg/adapters/capture"
	"github.com/anaradzetski/keyboard/pkg/domain"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// Engine is the part of keyboard.Engine the server drives. Its gateway must
// honour capture collectors (capture.Gateway does) for replies to reach responses.
type Engine interface {
	Tree() *domain.Tree
	Start(ctx context.Context, sessionID string) (*domain.Transition, error)
	OnEvent(ctx context.Context, sessionID, raw string) (*domain.Transition, error)
	Back(ctx context.Context, sessionID string) (*domain.Transition, error)
	End(ctx context.Context, sessionID string) error
	Position(ctx context.Context, sessionID string) (domain.Address, error)
	Sessions(ctx context.Context) ([]string, error)
}

// Server serves one engine.
type Server struct {
	engine   Engine
	logger   *slog.Logger
	maxLabel int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxLabelSize bounds incoming labels in bytes.
func WithMaxLabelSize(n int) Option {
	return func(s *Server) {
		s.maxLabel = n
	}
}

// OpenAPI returns the embedded API description.
func OpenAPI() []byte {
	return openAPIDocument
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		engine:   engine,
		logger:   logging.NewNop(),
		maxLabel: sanitize.DefaultMaxLabelSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	validate, err := requestValidator(openAPIDocument)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openAPIDocument)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/tree", s.tree)
	r.Get("/sessions", s.sessions)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.position)
		r.Delete("/", s.end)
		r.Post("/start", s.start)
		r.Post("/events", s.event)
		r.Post("/back", s.back)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestValidator checks requests against the API description. Requests no
// operation matches fall through to chi, which answers 404 or 405.
func requestValidator(doc []byte) (func(http.Handler) http.Handler, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	router, err := legacy.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				var routeErr *routers.RouteError
				if !errors.As(err, &routeErr) {
					writeJSON(w, http.StatusInternalServerError, dto.Transition{Error: &dto.Error{Kind: "internal", Message: err.Error()}})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				writeJSON(w, http.StatusBadRequest, dto.Transition{
					SessionID: params["id"],
					Replies:   []domain.Reply{},
					Error:     &dto.Error{Kind: "invalid_request", Message: err.Error()},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

func (s *Server) tree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromTree(s.engine.Tree()))
}

func (s *Server) sessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.Sessions(r.Context())
	if err != nil {
		s.logger.Error("Failed to list sessions", "err", err)
		writeJSON(w, http.StatusInternalServerError, dto.Transition{Error: dto.FromError(err)})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

type position struct {
	SessionID string `json:"session_id"`
	Address   string `json:"address"`
}

func (s *Server) position(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	addr, err := s.engine.Position(r.Context(), id)
	if err != nil {
		writeJSON(w, s.status(err), dto.Transition{SessionID: id, Replies: []domain.Reply{}, Error: dto.FromError(err)})
		return
	}
	writeJSON(w, http.StatusOK, position{SessionID: id, Address: s.engine.Tree().Key(addr)})
}

func (s *Server) start(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respond(w, r, id, func(ctx context.Context) (*domain.Transition, error) {
		return s.engine.Start(ctx, id)
	})
}

type event struct {
	Label string `json:"label"`
}

func (s *Server) event(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body event
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("Invalid request body", "session_id", id, "err", err)
		writeJSON(w, http.StatusBadRequest, dto.Transition{SessionID: id, Replies: []domain.Reply{}, Error: &dto.Error{Kind: "invalid_request", Message: err.Error()}})
		return
	}
	label, err := sanitize.Label(body.Label, s.maxLabel)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.Transition{SessionID: id, Replies: []domain.Reply{}, Error: &dto.Error{Kind: "invalid_request", Message: err.Error()}})
		return
	}

	s.respond(w, r, id, func(ctx context.Context) (*domain.Transition, error) {
		return s.engine.OnEvent(ctx, id, label)
	})
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respond(w, r, id, func(ctx context.Context) (*domain.Transition, error) {
		return s.engine.Back(ctx, id)
	})
}

func (s *Server) end(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.respond(w, r, id, func(ctx context.Context) (*domain.Transition, error) {
		if err := s.engine.End(ctx, id); err != nil {
			return nil, err
		}
		return &domain.Transition{SessionID: id, Kind: domain.TransitionEnd}, nil
	})
}

// respond runs one engine call with a reply collector and writes its outcome.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, id string, call func(context.Context) (*domain.Transition, error)) {
	ctx, collected := capture.NewContext(r.Context())
	tr, err := call(ctx)

	out := dto.FromTransition(s.engine.Tree(), id, tr, collected.Replies())
	out.Error = dto.FromError(err)
	writeJSON(w, s.status(err), out)
}

func (s *Server) status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrUnknownSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotStarted), errors.Is(err, domain.ErrAlreadyAtRoot):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPayload):
		return http.StatusBadGateway
	default:
		s.logger.Error("Engine call failed", "err", err)
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
