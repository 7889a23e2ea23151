package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/agricarbon/internal/cli"
	"github.com/Veraticus/agricarbon/internal/common"
	"github.com/Veraticus/agricarbon/internal/config"
	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/Veraticus/agricarbon/internal/progress"
	"github.com/Veraticus/agricarbon/internal/report"
	"github.com/Veraticus/agricarbon/internal/service"
	"github.com/Veraticus/agricarbon/internal/session"
	"github.com/Veraticus/agricarbon/internal/tui"
	"github.com/spf13/cobra"
)

// Output formats of the analyze command.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze IMAGE",
		Short: "Analyze a photo of your land for carbon credit potential",
		Long: `Upload a photo of farmland, forest or grassland to the analysis service and
show the estimated carbon sequestration, revenue projections and
recommendations.

Providing both --city and --state refines the estimate with local climate
data.

Examples:
  # Analyze a photo
  agricarbon analyze farm.jpg

  # Refine with location data
  agricarbon analyze farm.jpg --city Surat --state Gujarat

  # Save the professional report and ask follow-up questions
  agricarbon analyze farm.jpg --export ./reports --chat

  # Save the report to report.dir from the configuration
  agricarbon analyze farm.jpg --save

  # Machine-readable output
  agricarbon analyze farm.jpg --format json`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().String("city", "", "City where the land is located")
	cmd.Flags().String("state", "", "State where the land is located")
	cmd.Flags().String("format", formatText, "Output format (text, markdown, json, yaml)")
	cmd.Flags().String("export", "", "Directory to save the professional report to")
	cmd.Flags().Bool("save", false, "Save the professional report to the configured report.dir")
	cmd.Flags().Bool("chat", false, "Ask the expert about the result after the analysis")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	city, _ := cmd.Flags().GetString("city")
	state, _ := cmd.Flags().GetString("state")
	format, _ := cmd.Flags().GetString("format")
	exportDir, _ := cmd.Flags().GetString("export")
	save, _ := cmd.Flags().GetBool("save")
	chat, _ := cmd.Flags().GetBool("chat")

	format = strings.ToLower(format)
	switch format {
	case formatText, formatMarkdown, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, markdown, json, yaml)", format)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := newClient(cfg)
	if err != nil {
		return err
	}

	if exportDir == "" && save {
		exportDir = cfg.ReportDir
	}

	imagePath := config.ExpandPath(args[0])
	image, err := os.Open(imagePath) //nolint:gosec // user-provided image path
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Cannot open image %s", args[0]), err)
	}
	defer func() {
		if closeErr := image.Close(); closeErr != nil {
			slog.Warn("Failed to close image", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interruptHandler.HandleInterrupts(ctx, "Analysis")

	tracker := tui.NewTracker(cmd.ErrOrStderr())
	sess := session.New(svc,
		progress.WithInterval(cfg.ProgressInterval),
		progress.WithObserver(tracker.Update),
	)

	slog.Debug("Starting analysis", "session", sess.ID(), "image", imagePath, "api", cfg.APIBaseURL)

	analyzeCtx := tracker.Start(ctx)
	result, err := sess.Analyze(analyzeCtx, service.AnalyzeRequest{
		Image:    image,
		Filename: filepath.Base(imagePath),
		City:     city,
		State:    state,
	})
	tracker.Finish(err)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeResult(out, result, format); err != nil {
		return err
	}

	if exportDir != "" {
		if err := exportReport(cmd.ErrOrStderr(), result, exportDir); err != nil {
			return err
		}
	}

	if chat {
		return runChatLoop(ctx, cmd.InOrStdin(), out, sess)
	}
	return nil
}

func writeResult(w io.Writer, result *model.AnalysisResult, format string) error {
	width := terminalWidth(w)

	switch format {
	case report.FormatJSON, report.FormatYAML:
		return report.Encode(w, result, format)

	case formatMarkdown:
		rendered, err := report.RenderMarkdown(result.Report.ProfessionalReport, width)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, rendered)
		return err

	default:
		summary := report.NewCLIFormatter().WithWidth(width).FormatSummary(result)
		_, err := fmt.Fprintln(w, summary)
		return err
	}
}

func exportReport(w io.Writer, result *model.AnalysisResult, dir string) error {
	artifact, err := report.NewArtifact(result)
	if err != nil {
		return err
	}

	path, err := artifact.Export(config.ExpandPath(dir))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, cli.FormatSuccess("Report saved to "+path))
	return err
}
