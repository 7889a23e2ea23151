// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"

	"github.com/Veraticus/agricarbon/internal/model"
)

// AnalyzeRequest is one image submission.
type AnalyzeRequest struct {
	Image    io.Reader
	Filename string
	City     string
	State    string
}

// HealthStatus is the analysis service's self-reported state.
type HealthStatus struct {
	APIKeysLoaded map[string]bool `json:"api_keys_loaded"`
	Status        string          `json:"status"`
}

// Analyzer submits images for analysis and returns the normalized result.
// Every failure is reported as a single error; nothing is retried.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*model.AnalysisResult, error)
}

// Chatter answers questions about an analysis. It never fails: errors are
// turned into a reply so the conversation can continue.
type Chatter interface {
	Chat(ctx context.Context, message string, analysis *model.AnalysisResult) string
}

// AnalysisService is the full remote surface.
type AnalysisService interface {
	Analyzer
	Chatter
	Health(ctx context.Context) (HealthStatus, error)
}
