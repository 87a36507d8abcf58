package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearbite/internal/domain"
	logpkg "github.com/kailas-cloud/nearbite/internal/logger"
	classifyuc "github.com/kailas-cloud/nearbite/internal/usecase/classify"
	healthuc "github.com/kailas-cloud/nearbite/internal/usecase/health"
)

// maxBodyBytes caps request bodies; a categorize body carries a few hundred detail records at most.
const maxBodyBytes = 8 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the nearbite JSON API.
type Server struct {
	discovery     Discoverer
	classifier    Classifier
	geocoder      Geocoder
	health        HealthReporter
	defaultRadius int
	maxRadius     int
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Option configures a Server.
type Option func(*Server)

// WithRadius sets the radius used when a request has none and the upper bound accepted.
func WithRadius(defaultRadius, maxRadius int) Option {
	return func(s *Server) {
		if defaultRadius > 0 {
			s.defaultRadius = defaultRadius
		}
		if maxRadius > 0 {
			s.maxRadius = maxRadius
		}
	}
}

// NewServer creates an HTTP API server.
func NewServer(
	discovery Discoverer,
	classifier Classifier,
	geocoder Geocoder,
	health HealthReporter,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		discovery:     discovery,
		classifier:    classifier,
		geocoder:      geocoder,
		health:        health,
		defaultRadius: 500,
		maxRadius:     50000,
		validate:      newValidator(),
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidCoordinates, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrPlacesProviderError, http.StatusBadGateway, ErrorCodeProviderError),
		sentinelHandler(domain.ErrGeneratorError, http.StatusBadGateway, ErrorCodeProviderError),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api", func(r chi.Router) {
		r.Post("/find_places", s.FindPlaces)
		r.Post("/categorize_places", s.CategorizePlaces)
		r.Get("/places/{placeID}", s.GetPlace)
		r.Get("/geocode", s.Geocode)
	})
}

// FindPlaces handles POST /api/find_places.
func (s *Server) FindPlaces(w http.ResponseWriter, r *http.Request) {
	var req FindPlacesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, validationMessage(err))
		return
	}

	radius := s.defaultRadius
	if req.Radius != nil {
		radius = *req.Radius
	}
	if radius > s.maxRadius {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("radius must be at most %d", s.maxRadius))
		return
	}
	center := domain.Coordinate{Lat: *req.Lat, Lon: *req.Lon}

	if req.Detailed {
		details, err := s.discovery.DiscoverDetailed(r.Context(), center, radius)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, details)
		return
	}

	candidates, err := s.discovery.Discover(r.Context(), center, radius)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// CategorizePlaces handles POST /api/categorize_places.
// The body is an array of records with a name, or an object keyed by name.
func (s *Server) CategorizePlaces(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	items, universe, err := decodeUniverse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cats := s.classifier.Classify(r.Context(), items)
	writeJSON(w, http.StatusOK, classifyuc.Reconcile(cats, universe))
}

// GetPlace handles GET /api/places/{placeID}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	d, err := s.discovery.PlaceDetails(r.Context(), placeID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Geocode handles GET /api/geocode?q=.
func (s *Server) Geocode(w http.ResponseWriter, r *http.Request) {
	hits, err := s.geocoder.Geocode(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeUniverse reads a categorize body into classifier items and the name → record universe.
// The first record wins when names repeat; records without a name are ignored.
func decodeUniverse(body []byte) ([]domain.ClassifyItem, map[string]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil, errors.New("empty body")
	}

	universe := make(map[string]json.RawMessage)
	var items []domain.ClassifyItem

	add := func(name string, raw json.RawMessage) {
		if name == "" {
			return
		}
		if _, seen := universe[name]; seen {
			return
		}
		var rec classifyRecord
		_ = json.Unmarshal(raw, &rec)
		types := rec.Types
		if types == nil {
			types = []string{}
		}
		universe[name] = raw
		items = append(items, domain.ClassifyItem{Name: name, Types: types})
	}

	switch body[0] {
	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, nil, fmt.Errorf("decode array: %w", err)
		}
		for _, raw := range list {
			var rec classifyRecord
			if err := json.Unmarshal(raw, &rec); err != nil {
				continue
			}
			add(rec.Name, raw)
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, nil, fmt.Errorf("decode object: %w", err)
		}
		names := make([]string, 0, len(obj))
		for name := range obj {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			add(name, obj[name])
		}
	default:
		return nil, nil, errors.New("expected a JSON array or object")
	}

	return items, universe, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err //nolint:wrapcheck // surfaced to the client as-is
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage renders validator errors with JSON field names.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param()))
		case "lte":
			parts = append(parts, fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidCoordinates,
		domain.ErrInvalidRequest,
		domain.ErrNotFound,
		domain.ErrRateLimited,
		domain.ErrPlacesProviderError,
		domain.ErrGeneratorError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
