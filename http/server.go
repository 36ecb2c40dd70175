package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/amzscrape"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ShutdownTimeout is the time given for in-flight requests to finish.
const ShutdownTimeout = 10 * time.Second

// Server exposes scraping and snapshot history over a JSON API.
type Server struct {
	router chi.Router

	Products  amzscrape.ProductService
	Search    amzscrape.SearchService[string]
	Snapshots amzscrape.SnapshotService
	Logger    *slog.Logger
}

// ProductResponse is the body returned for a scraped product. Warnings
// list fields that were present on the page but could not be parsed.
type ProductResponse struct {
	Product  *amzscrape.ProductRecord `json:"product"`
	Warnings []string                 `json:"warnings,omitempty"`
}

// NewServer returns a Server with its routes mounted. Services are
// assigned by the caller before serving.
func NewServer() *Server {
	s := &Server{
		router: chi.NewRouter(),
		Logger: slog.New(slog.DiscardHandler),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "https://localhost:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/products", s.handleProduct)
	s.router.Get("/products/{id}/snapshots", s.handleProductSnapshots)
	s.router.Get("/snapshots/{id}", s.handleSnapshot)
	s.router.Get("/search", s.handleSearch)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleProduct(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		s.respondError(w, r, amzscrape.Errorf(amzscrape.EINVALID, "url parameter required"))
		return
	}

	rec, err := s.Products.ScrapeProduct(r.Context(), rawURL)
	if !usable(rec != nil, err) {
		s.respondError(w, r, err)
		return
	}

	resp := ProductResponse{Product: rec}
	for _, fe := range amzscrape.FieldErrors(err) {
		resp.Warnings = append(resp.Warnings, fe.Error())
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, r, amzscrape.Errorf(amzscrape.EINVALID, "q parameter required"))
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, r, amzscrape.Errorf(amzscrape.EINVALID, "invalid page %q", v))
			return
		}
		page = n
	}

	result, err := s.Search.Search(r.Context(), query, page)
	if !usable(result != nil, err) {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleProductSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.Snapshots == nil {
		s.respondError(w, r, amzscrape.Errorf(amzscrape.ENOTFOUND, "snapshot history is disabled"))
		return
	}

	id := chi.URLParam(r, "id")
	filter := amzscrape.SnapshotFilter{ProductID: &id}

	var err error
	if filter.Limit, err = intParam(r, "limit"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if filter.Offset, err = intParam(r, "offset"); err != nil {
		s.respondError(w, r, err)
		return
	}

	snapshots, err := s.Snapshots.FindSnapshots(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if snapshots == nil {
		snapshots = []*amzscrape.Snapshot{}
	}
	s.respondJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.Snapshots == nil {
		s.respondError(w, r, amzscrape.Errorf(amzscrape.ENOTFOUND, "snapshot history is disabled"))
		return
	}

	snapshot, err := s.Snapshots.FindSnapshotByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, snapshot)
}

// usable reports whether a result may be served despite err. Results
// that only carry malformed-field errors are served.
func usable(ok bool, err error) bool {
	if !ok {
		return false
	}
	return err == nil || amzscrape.ErrorCode(err) == amzscrape.EMALFORMED
}

// intParam reads a non-negative integer query parameter. Missing
// parameters read as zero.
func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, amzscrape.Errorf(amzscrape.EINVALID, "invalid %s %q", name, v)
	}
	return n, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.Logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := amzscrape.ErrorCode(err)
	status := ErrorStatusCode(code)
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	s.respondJSON(w, status, map[string]string{
		"code":  code,
		"error": amzscrape.ErrorMessage(err),
	})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	amzscrape.EINVALID:    http.StatusBadRequest,
	amzscrape.ERESOLUTION: http.StatusBadRequest,
	amzscrape.ENOTFOUND:   http.StatusNotFound,
	amzscrape.ETRANSPORT:  http.StatusBadGateway,
	amzscrape.EINTERNAL:   http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}
