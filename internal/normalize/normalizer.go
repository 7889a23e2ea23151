// Package normalize maps the analysis service's loosely typed response into
// the canonical model.AnalysisResult.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Veraticus/agricarbon/internal/model"
)

var errNotScalar = errors.New("value is not a scalar")

// ordinalPrefix matches a leading "3. " style step number.
var ordinalPrefix = regexp.MustCompile(`^\s*\d+\.\s+`)

// NormalizeJSON decodes a response body and normalizes it. It fails only when
// the body is not valid JSON.
func NormalizeJSON(body []byte) (model.AnalysisResult, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return model.AnalysisResult{}, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return Normalize(raw), nil
}

// Normalize builds a fully populated result from an arbitrary decoded payload.
// It never panics; anything missing or malformed takes its documented
// fallback. Location is nil unless the payload carries location_data.
func Normalize(raw any) model.AnalysisResult {
	d := document{root: raw}

	return model.AnalysisResult{
		Summary: model.Summary{
			Vegetation: model.Vegetation{
				Type:        d.text(fields.vegetationType),
				Description: d.text(fields.reasoning),
			},
			LandArea:   d.text(fields.landArea) + " hectares",
			AnnualCO2:  d.text(fields.annualCO2) + " tons/year",
			Confidence: confidence(d),
		},
		Revenue:          revenue(d),
		Location:         location(d),
		DetailedAnalysis: detailedAnalysis(d),
		Report: model.Report{
			ProfessionalReport: d.text(fields.fullReportMarkdown),
			ExecutiveSummary:   d.text(fields.executiveSummary),
			TextSummary:        d.text(fields.textSummary),
		},
		Recommendations: d.list(fields.recommendations),
		NextSteps:       nextSteps(d.list(fields.nextSteps)),
		Disclaimers:     d.list(fields.disclaimers),
	}
}

// confidence takes the first tier the service sent, carbon analysis first.
// Unknown tiers fall back to MEDIUM.
func confidence(d document) model.ConfidenceLevel {
	for _, f := range []textField{fields.carbonConfidence, fields.visionConfidence} {
		s := d.text(f)
		if s == "" {
			continue
		}
		level := model.ConfidenceLevel(strings.ToUpper(s))
		if level.IsValid() {
			return level
		}
		break
	}
	return model.ConfidenceMedium
}

func revenue(d document) model.Revenue {
	projections := make(map[string]model.Projection, len(model.Horizons))
	for _, key := range model.Horizons {
		h := fields.horizons[key]
		projections[key] = model.Projection{
			Conservative: d.number(h.min),
			Mid:          d.number(h.mid),
			Optimistic:   d.number(h.max),
		}
	}

	first := projections[model.Horizon1Year]
	return model.Revenue{
		Estimate:     first.Mid,
		Conservative: first.Conservative,
		Optimistic:   first.Optimistic,
		Projections:  projections,
	}
}

func location(d document) *model.Location {
	if !d.has(locationDataPointer) {
		return nil
	}
	return &model.Location{
		City:        d.text(fields.locationCity),
		State:       d.text(fields.locationState),
		ClimateZone: d.text(fields.locationClimateZone),
		Weather: model.Weather{
			Temp:      d.number(fields.weatherTemperature),
			Humidity:  d.number(fields.weatherHumidity),
			Condition: d.text(fields.weatherCondition),
		},
		Multiplier: d.text(fields.locationMultiplier) + "x",
		Notes:      d.list(fields.locationAdjustments),
		Analysis:   d.text(fields.locationExplanation),
	}
}

func detailedAnalysis(d document) model.DetailedAnalysis {
	treeCount := NotAvailable
	if v := d.resolve(treeCountPointer); v != nil {
		if s, err := stringify(v); err == nil {
			treeCount = s
		}
	}

	return model.DetailedAnalysis{
		Vision: model.VisionDetails{
			VegetationType:  d.text(fields.vegetationType),
			Density:         fmt.Sprintf("%s (%s%%)", d.text(fields.density), d.text(fields.densityPercentage)),
			Condition:       d.text(fields.landCondition),
			VisibleFeatures: d.list(fields.visibleFeatures),
			ImageQuality:    d.text(fields.imageQuality),
			TreeCount:       treeCount,
		},
		CarbonCalculations: model.CarbonCalculations{
			BaseRate: d.text(fields.baseRate) + " tons/ha",
			Multipliers: fmt.Sprintf("Density: %sx, Condition: %sx, Climate: %sx",
				d.text(fields.densityMultiplier),
				d.text(fields.conditionMultiplier),
				d.text(fields.climateMultiplier)),
			EffectiveRate: d.text(fields.effectiveRate) + " tons/ha",
			Breakdown: fmt.Sprintf("(%s * %s * %s * %s) * %s ha",
				d.raw(fields.baseRate),
				d.raw(fields.densityMultiplier),
				d.raw(fields.conditionMultiplier),
				d.raw(fields.climateMultiplier),
				d.raw(fields.landArea)),
		},
		Methodology: model.Methodology{
			AreaEstimation:     d.text(fields.areaMethod),
			ClimateAdjustments: d.text(fields.locationAdjustment),
			ConfidenceScoring:  fmt.Sprintf(confidenceScoringText, d.raw(fields.imageQuality)),
		},
	}
}

func nextSteps(raw []string) []model.NextStep {
	steps := make([]model.NextStep, 0, len(raw))
	for _, s := range raw {
		steps = append(steps, model.NextStep{Text: StepText(s)})
	}
	return steps
}

// StepText strips a leading ordinal such as "1. " from a next-step line.
// Lines without that prefix are returned as sent.
func StepText(s string) string {
	return strings.TrimSpace(ordinalPrefix.ReplaceAllString(s, ""))
}
