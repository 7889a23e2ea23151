// Package model defines the core domain models used throughout the application.
package model

// ConfidenceLevel is the tier the analysis service assigns to an estimate.
type ConfidenceLevel string

// Confidence level constants.
const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// IsValid reports whether the level is one of the known tiers.
func (c ConfidenceLevel) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

// Horizon keys for revenue projections.
const (
	Horizon1Year  = "1"
	Horizon5Year  = "5"
	Horizon10Year = "10"
)

// Horizons lists the projection horizons in display order.
var Horizons = []string{Horizon1Year, Horizon5Year, Horizon10Year}

// AnalysisResult is the canonical, fallback-complete record built from a
// successful analysis response. Only Location may be absent.
type AnalysisResult struct {
	Location         *Location        `json:"location,omitempty" yaml:"location,omitempty"`
	Revenue          Revenue          `json:"revenue" yaml:"revenue"`
	Report           Report           `json:"report" yaml:"report"`
	Summary          Summary          `json:"summary" yaml:"summary"`
	DetailedAnalysis DetailedAnalysis `json:"detailedAnalysis" yaml:"detailedAnalysis"`
	Recommendations  []string         `json:"recommendations" yaml:"recommendations"`
	NextSteps        []NextStep       `json:"nextSteps" yaml:"nextSteps"`
	Disclaimers      []string         `json:"disclaimers" yaml:"disclaimers"`
}

// Summary holds the headline figures shown first.
type Summary struct {
	Vegetation Vegetation      `json:"vegetation" yaml:"vegetation"`
	LandArea   string          `json:"landArea" yaml:"landArea"`
	AnnualCO2  string          `json:"annualCO2" yaml:"annualCO2"`
	Confidence ConfidenceLevel `json:"confidence" yaml:"confidence"`
}

// Vegetation describes the dominant land cover.
type Vegetation struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
}

// Revenue holds the annual estimate and the per-horizon projections, in INR.
// Estimate, Conservative and Optimistic mirror the 1-year horizon.
type Revenue struct {
	Projections  map[string]Projection `json:"projections" yaml:"projections"`
	Estimate     float64               `json:"estimate" yaml:"estimate"`
	Conservative float64               `json:"conservative" yaml:"conservative"`
	Optimistic   float64               `json:"optimistic" yaml:"optimistic"`
}

// Projection is the revenue range for one horizon.
type Projection struct {
	Conservative float64 `json:"conservative" yaml:"conservative"`
	Mid          float64 `json:"mid" yaml:"mid"`
	Optimistic   float64 `json:"optimistic" yaml:"optimistic"`
}

// Location is the climate context for the analyzed land.
type Location struct {
	City        string   `json:"city" yaml:"city"`
	State       string   `json:"state" yaml:"state"`
	ClimateZone string   `json:"climateZone" yaml:"climateZone"`
	Multiplier  string   `json:"multiplier" yaml:"multiplier"`
	Analysis    string   `json:"analysis" yaml:"analysis"`
	Weather     Weather  `json:"weather" yaml:"weather"`
	Notes       []string `json:"notes" yaml:"notes"`
}

// Weather is the snapshot the service used for climate adjustments.
type Weather struct {
	Condition string  `json:"condition" yaml:"condition"`
	Temp      float64 `json:"temp" yaml:"temp"`
	Humidity  float64 `json:"humidity" yaml:"humidity"`
}

// DetailedAnalysis groups the vision, calculation and methodology details.
type DetailedAnalysis struct {
	Vision             VisionDetails      `json:"vision" yaml:"vision"`
	CarbonCalculations CarbonCalculations `json:"carbonCalculations" yaml:"carbonCalculations"`
	Methodology        Methodology        `json:"methodology" yaml:"methodology"`
}

// VisionDetails is what the image model observed.
type VisionDetails struct {
	VegetationType  string   `json:"vegetationType" yaml:"vegetationType"`
	Density         string   `json:"density" yaml:"density"`
	Condition       string   `json:"condition" yaml:"condition"`
	ImageQuality    string   `json:"imageQuality" yaml:"imageQuality"`
	TreeCount       string   `json:"treeCount" yaml:"treeCount"`
	VisibleFeatures []string `json:"visibleFeatures" yaml:"visibleFeatures"`
}

// CarbonCalculations renders the sequestration arithmetic as text.
type CarbonCalculations struct {
	BaseRate      string `json:"baseRate" yaml:"baseRate"`
	Multipliers   string `json:"multipliers" yaml:"multipliers"`
	EffectiveRate string `json:"effectiveRate" yaml:"effectiveRate"`
	Breakdown     string `json:"breakdown" yaml:"breakdown"`
}

// Methodology explains how the estimate was produced.
type Methodology struct {
	AreaEstimation     string `json:"areaEstimation" yaml:"areaEstimation"`
	ClimateAdjustments string `json:"climateAdjustments" yaml:"climateAdjustments"`
	ConfidenceScoring  string `json:"confidenceScoring" yaml:"confidenceScoring"`
}

// Report carries the generated report variants.
type Report struct {
	ProfessionalReport string `json:"professionalReport" yaml:"professionalReport"`
	ExecutiveSummary   string `json:"executiveSummary" yaml:"executiveSummary"`
	TextSummary        string `json:"textSummary" yaml:"textSummary"`
}

// NextStep is one actionable item; Completed always starts false.
type NextStep struct {
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
}
