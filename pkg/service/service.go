// Package service exposes dictionary validation over HTTP. The core
// transport is net/http; gin and fiber adapters live in subpackages.
package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/cache"
	"github.com/harriteja/dict-go-sdk/pkg/config"
	"github.com/harriteja/dict-go-sdk/pkg/metrics"
	"github.com/harriteja/dict-go-sdk/pkg/validator"
)

// ValidateRequest is the body of a validation call.
type ValidateRequest struct {
	// Value is the value to validate
	Value interface{} `json:"value"`
	// Descriptor is the descriptor term key; empty for object/bag modes
	Descriptor string `json:"descriptor,omitempty"`
	// Zip validates a list element-wise against Descriptor
	Zip bool `json:"zip,omitempty"`
	// Resolve rewrites almost-correct values into canonical form
	Resolve bool `json:"resolve,omitempty"`
	// ExpectTerms fails object keys that do not resolve to terms
	ExpectTerms bool `json:"expectTerms,omitempty"`
	// ExpectType fails scalar sections without a data type
	ExpectType bool `json:"expectType,omitempty"`
	// DefNamespace accepts an empty namespace key reference
	DefNamespace bool `json:"defNamespace,omitempty"`
	// UseCache consults the shared term cache
	UseCache bool `json:"useCache,omitempty"`
	// CacheMissing caches store misses
	CacheMissing bool `json:"cacheMissing,omitempty"`
	// Resolver is the code-section field probed during enum resolution
	Resolver string `json:"resolver,omitempty"`
	// Language selects the report message language
	Language string `json:"language,omitempty"`
}

// ValidateResponse is the body of a validation reply. Value carries the
// possibly resolved input back to the caller.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Value  interface{}     `json:"value"`
	Report json.RawMessage `json:"report"`
}

// Options represents service configuration options
type Options struct {
	// Cache is the shared term cache (required)
	Cache *cache.Cache
	// Config holds the dictionary and server settings
	Config *config.Config
	// Logger instance
	Logger *zap.Logger
}

// Service handles validation requests over HTTP.
type Service struct {
	cache  *cache.Cache
	cfg    *config.Config
	logger *zap.Logger

	server *http.Server
	mux    *http.ServeMux
	mu     sync.Mutex
}

// New creates a new Service
func New(opts Options) (*Service, error) {
	if opts.Cache == nil {
		return nil, errNoCache
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Service{
		cache:  opts.Cache,
		cfg:    opts.Config,
		logger: opts.Logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/validate", s.handleValidate)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.DefaultRegistry(), promhttp.HandlerOpts{}))
	s.mux = mux

	srv := opts.Config.Server
	s.server = &http.Server{
		Addr:         srv.Address,
		Handler:      mux,
		ReadTimeout:  srv.ReadTimeout,
		WriteTimeout: srv.WriteTimeout,
		IdleTimeout:  srv.IdleTimeout,
	}

	return s, nil
}

// Handler returns the service routes as an http.Handler, for embedding
// into an outer mux or framework adapter.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Use wraps the service handler with middleware, innermost first.
func (s *Service) Use(middleware ...func(http.Handler) http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	handler := http.Handler(s.mux)
	for _, m := range middleware {
		handler = m(handler)
	}
	s.server.Handler = handler
}

// Start starts the HTTP server
func (s *Service) Start() error {
	s.logger.Info("Starting validation service", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down validation service")
	return s.server.Shutdown(ctx)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Service) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	v, err := validator.New(validator.Options{
		Value:        req.Value,
		Descriptor:   req.Descriptor,
		Zip:          req.Zip,
		Resolve:      req.Resolve,
		ExpectTerms:  req.ExpectTerms,
		ExpectType:   req.ExpectType,
		DefNamespace: req.DefNamespace,
		UseCache:     req.UseCache,
		CacheMissing: req.CacheMissing,
		Resolver:     req.Resolver,
		Cache:        s.cache,
		Config:       s.cfg,
		Logger:       s.logger,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	valid, err := v.Validate(r.Context(), req.Language)
	if err != nil {
		s.logger.Error("Validation failed against the store",
			zap.String("descriptor", req.Descriptor),
			zap.Error(err))
		WriteError(w, http.StatusBadGateway, "dictionary store error")
		return
	}
	s.logger.Debug("Validation completed",
		zap.String("descriptor", req.Descriptor),
		zap.Bool("valid", valid),
		zap.Duration("duration", time.Since(start)))

	report, err := json.Marshal(v.Report)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to serialize report")
		return
	}

	WriteJSON(w, http.StatusOK, ValidateResponse{
		Valid:  valid,
		Value:  v.Value,
		Report: report,
	})
}
