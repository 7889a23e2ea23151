package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/agricarbon/internal/common"
	"github.com/Veraticus/agricarbon/internal/model"
	"gopkg.in/yaml.v3"
)

// Report download defaults.
const (
	ArtifactName      = "AgriCarbon_Insights_Report.md"
	ArtifactMediaType = "text/markdown;charset=utf-8"
)

// Output formats accepted by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Artifact is the downloadable professional report.
type Artifact struct {
	Name      string
	MediaType string
	Content   []byte
}

// NewArtifact packages the professional report for download. It fails when
// there is no report content.
func NewArtifact(result *model.AnalysisResult) (Artifact, error) {
	if result == nil || strings.TrimSpace(result.Report.ProfessionalReport) == "" {
		return Artifact{}, common.NewUserError("Report content is not available to download.",
			common.ErrReportUnavailable)
	}
	return Artifact{
		Name:      ArtifactName,
		MediaType: ArtifactMediaType,
		Content:   []byte(result.Report.ProfessionalReport),
	}, nil
}

// Export writes the artifact into dir, creating it if needed, and returns
// the written path.
func (a Artifact) Export(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, a.Name)
	if err := os.WriteFile(path, a.Content, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// Encode writes the result in a machine-readable format.
func Encode(w io.Writer, result *model.AnalysisResult, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: output format %q", common.ErrInvalidConfig, format)
	}
	return nil
}
