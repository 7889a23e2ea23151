// Package report renders analysis results for the terminal and exports the
// professional report.
package report

import (
	"fmt"
	"strings"

	"github.com/Veraticus/agricarbon/internal/cli"
	"github.com/Veraticus/agricarbon/internal/model"
)

// horizonLabels orders the projection table.
var horizonLabels = []struct {
	key   string
	label string
}{
	{model.Horizon1Year, "1 Year"},
	{model.Horizon5Year, "5 Years"},
	{model.Horizon10Year, "10 Years"},
}

// CLIFormatter renders results for terminal display.
type CLIFormatter struct {
	styles *Styles
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
	}
}

// WithWidth returns a formatter sized for the terminal.
func (f *CLIFormatter) WithWidth(width int) *CLIFormatter {
	return &CLIFormatter{styles: f.styles.WithWidth(width)}
}

// FormatSummary renders every section of the result in display order.
func (f *CLIFormatter) FormatSummary(result *model.AnalysisResult) string {
	if result == nil {
		return f.styles.Error.Render("No analysis available")
	}

	sections := []string{
		cli.FormatTitle("Carbon Credit Analysis"),
		f.formatSummaryCards(result.Summary),
		f.styles.Normal.Render(result.Report.ExecutiveSummary),
		f.formatRevenue(result.Revenue),
	}

	if result.Location != nil {
		sections = append(sections, f.formatLocation(result.Location))
	}

	sections = append(sections, f.formatDetailedAnalysis(result.DetailedAnalysis))

	if len(result.Recommendations) > 0 {
		sections = append(sections, f.formatList("Recommendations", result.Recommendations))
	}
	if len(result.NextSteps) > 0 {
		sections = append(sections, f.formatNextSteps(result.NextSteps))
	}
	if len(result.Disclaimers) > 0 {
		sections = append(sections, f.styles.RenderBox(
			bulleted(result.Disclaimers), cli.WarningIcon+" Important Disclaimers", f.styles.DisclaimBox))
	}

	return strings.Join(sections, "\n\n")
}

func (f *CLIFormatter) formatSummaryCards(s model.Summary) string {
	confidence := f.styles.ForConfidence(s.Confidence).Render(string(s.Confidence))

	lines := []string{
		f.field("Vegetation", s.Vegetation.Type),
		f.styles.Subtle.Render(s.Vegetation.Description),
		f.field("Land Area", s.LandArea),
		f.field("Annual CO2", s.AnnualCO2),
		f.styles.Label.Render("Confidence: ") + confidence,
	}
	return f.styles.RenderBox(strings.Join(lines, "\n"), cli.LeafIcon+" Summary", f.styles.SummaryBox)
}

func (f *CLIFormatter) formatRevenue(r model.Revenue) string {
	estimate := fmt.Sprintf("%s %s",
		f.styles.Label.Render("Estimated annual revenue:"),
		f.styles.Money.Render(FormatINR(r.Estimate)))
	span := f.styles.Subtle.Render(fmt.Sprintf("Range: %s to %s per year",
		FormatINR(r.Conservative), FormatINR(r.Optimistic)))

	header := f.styles.TableHeader.Render(fmt.Sprintf("%-10s %14s %14s %14s",
		"Horizon", "Conservative", "Mid", "Optimistic"))
	peak := 0.0
	for _, p := range r.Projections {
		peak = max(peak, p.Optimistic)
	}

	rows := []string{header}
	for _, h := range horizonLabels {
		p := r.Projections[h.key]
		row := fmt.Sprintf("%-10s %14s %14s %14s", h.label,
			FormatLargeINR(p.Conservative), FormatLargeINR(p.Mid), FormatLargeINR(p.Optimistic))
		if peak > 0 {
			row += "  " + f.bar(p.Mid/peak)
		}
		rows = append(rows, row)
	}

	content := strings.Join([]string{estimate, span, "", strings.Join(rows, "\n")}, "\n")
	return f.styles.RenderBox(content, cli.MoneyIcon+" Revenue Projection", f.styles.RevenueBox)
}

func (f *CLIFormatter) formatLocation(l *model.Location) string {
	weather := fmt.Sprintf("%s, %.1f°C, %.0f%% humidity", l.Weather.Condition, l.Weather.Temp, l.Weather.Humidity)

	lines := []string{
		f.field("Location", l.City+", "+l.State),
		f.field("Climate Zone", l.ClimateZone),
		f.field("Climate Multiplier", l.Multiplier),
		f.field("Weather", weather),
	}
	if len(l.Notes) > 0 {
		lines = append(lines, "", f.styles.Label.Render("Favorable Conditions:"), bulleted(l.Notes))
	}
	lines = append(lines, "", f.styles.Label.Render("Refined Analysis:"), l.Analysis)

	return f.styles.RenderBox(strings.Join(lines, "\n"), cli.PinIcon+" Location Analysis", f.styles.LocationBox)
}

func (f *CLIFormatter) formatDetailedAnalysis(d model.DetailedAnalysis) string {
	vision := []string{
		f.styles.Subtitle.Render("Vision"),
		f.field("Vegetation Type", d.Vision.VegetationType),
		f.field("Density", d.Vision.Density),
		f.field("Condition", d.Vision.Condition),
		f.field("Visible Features", strings.Join(d.Vision.VisibleFeatures, ", ")),
		f.field("Image Quality", d.Vision.ImageQuality),
		f.field("Estimated Tree Count", d.Vision.TreeCount),
	}
	carbon := []string{
		f.styles.Subtitle.Render("Carbon Calculations"),
		f.field("Base Sequestration Rate", d.CarbonCalculations.BaseRate),
		f.field("Applied Multipliers", d.CarbonCalculations.Multipliers),
		f.field("Effective Rate", d.CarbonCalculations.EffectiveRate),
		f.field("Breakdown", d.CarbonCalculations.Breakdown),
	}
	method := []string{
		f.styles.Subtitle.Render("Methodology"),
		f.field("Area Estimation", d.Methodology.AreaEstimation),
		f.field("Climate Adjustments", d.Methodology.ClimateAdjustments),
		f.field("Confidence Scoring", d.Methodology.ConfidenceScoring),
	}

	content := strings.Join([]string{
		strings.Join(vision, "\n"),
		strings.Join(carbon, "\n"),
		strings.Join(method, "\n"),
	}, "\n\n")
	return f.styles.RenderBox(content, cli.ChartIcon+" Detailed Analysis", f.styles.Box)
}

func (f *CLIFormatter) formatList(title string, items []string) string {
	return f.styles.Title.Render(title) + "\n" + bulleted(items)
}

func (f *CLIFormatter) formatNextSteps(steps []model.NextStep) string {
	lines := make([]string, 0, len(steps))
	for i, step := range steps {
		box := "[ ]"
		if step.Completed {
			box = f.styles.Success.Render("[" + cli.SuccessIcon + "]")
		}
		lines = append(lines, fmt.Sprintf("%s %d. %s", box, i+1, step.Text))
	}
	return f.styles.Title.Render("Next Steps") + "\n" + strings.Join(lines, "\n")
}

// bar colors the filled and empty cells of a growth bar.
func (f *CLIFormatter) bar(fraction float64) string {
	const width = 12
	raw := []rune(f.styles.RenderBar(fraction, width))
	filled := strings.Count(string(raw), "█")
	return f.styles.ProgressFill.Render(string(raw[:filled])) + f.styles.ProgressRest.Render(string(raw[filled:]))
}

func (f *CLIFormatter) field(label, value string) string {
	return f.styles.Label.Render(label+": ") + value
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "• " + item
	}
	return strings.Join(lines, "\n")
}
