// Package devserver serves a canned stand-in for the analysis service so the
// CLI can be exercised locally and in tests.
package devserver

import (
	"context"
	"crypto/tls"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

//go:embed fixtures/analysis.json
var analysisFixture []byte

const maxUploadMemory = 32 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// Server holds the stub's handlers.
type Server struct {
	logger *slog.Logger
}

// New creates a stub server. A nil logger uses slog.Default.
func New(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger}
}

// Routes wires middlewares and endpoints.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/chat", s.handleChat)

	return r
}

// ListenAndServe serves plain HTTP on addr until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	return s.serve(ctx, addr, nil)
}

// ListenAndServeTLS is ListenAndServe over HTTPS with the given certificate.
func (s *Server) ListenAndServeTLS(ctx context.Context, addr string, cert tls.Certificate) error {
	return s.serve(ctx, addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
}

func (s *Server) serve(ctx context.Context, addr string, tlsConfig *tls.Config) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig:         tlsConfig,
	}

	errCh := make(chan error, 1)
	go func() {
		if tlsConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("Stub analysis service listening", "addr", addr, "tls", tlsConfig != nil)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to Carbon Credit Analyzer API",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"api_keys_loaded": map[string]bool{"stub": true},
	})
}

// handleAnalyze validates the upload and answers with the fixture, echoing
// the location fields when both were sent.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Field required: file")
		return
	}
	_ = file.Close()

	if !allowedUploadTypes[header.Header.Get("Content-Type")] {
		writeDetail(w, http.StatusBadRequest, "Invalid file format. Allowed: JPEG, PNG, WebP")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal(analysisFixture, &payload); err != nil {
		writeDetail(w, http.StatusInternalServerError, "fixture error")
		return
	}

	city := strings.TrimSpace(r.FormValue("city"))
	state := strings.TrimSpace(r.FormValue("state"))
	if city != "" && state != "" {
		if loc, ok := payload["location_data"].(map[string]any); ok {
			if place, ok := loc["location"].(map[string]any); ok {
				place["city"] = city
				place["state"] = state
			}
		}
	} else {
		delete(payload, "location_data")
	}

	if r.FormValue("include_report") != "true" {
		delete(payload, "reports")
	}

	s.logger.Info("Served stub analysis",
		"filename", header.Filename,
		"bytes", header.Size,
		"city", city,
		"state", state)

	writeJSON(w, http.StatusOK, payload)
}

type chatRequest struct {
	UserAnalysis *struct {
		Summary struct {
			Vegetation struct {
				Type string `json:"type"`
			} `json:"vegetation"`
			AnnualCO2 string `json:"annualCO2"`
		} `json:"summary"`
	} `json:"user_analysis"`
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeDetail(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	reply := "Carbon credits pay landowners for verified CO2 removal. " +
		"Run an analysis first for advice specific to your land."
	if req.UserAnalysis != nil {
		reply = fmt.Sprintf("Your %s land is estimated to sequester %s. "+
			"Boundary tree planting and no-till practices are the quickest ways to raise that figure.",
			req.UserAnalysis.Summary.Vegetation.Type, req.UserAnalysis.Summary.AnnualCO2)
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
