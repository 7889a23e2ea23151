package normalize

import (
	"github.com/Veraticus/agricarbon/internal/model"
	"github.com/go-openapi/jsonpointer"
)

// Fallback values substituted for fields the service did not send.
const (
	NotAvailable          = "N/A"
	NoDescription         = "No description available."
	NoLocationAnalysis    = "No analysis available."
	NoProfessionalReport  = "# Report Not Available"
	NoExecutiveSummary    = "No executive summary available."
	NoTextSummary         = "No text summary available."
	confidenceScoringText = "Based on image quality (%s) and visibility of land features."
)

// textField resolves to the value's text, or fallback when absent.
type textField struct {
	pointer  jsonpointer.Pointer
	fallback string
}

// numberField resolves to the value as a float, or 0 when absent.
type numberField struct {
	pointer jsonpointer.Pointer
}

// listField resolves to the array's elements as text, or an empty list.
type listField struct {
	pointer jsonpointer.Pointer
}

func text(path, fallback string) textField {
	return textField{pointer: mustPointer(path), fallback: fallback}
}

func number(path string) numberField {
	return numberField{pointer: mustPointer(path)}
}

func list(path string) listField {
	return listField{pointer: mustPointer(path)}
}

func mustPointer(path string) jsonpointer.Pointer {
	p, err := jsonpointer.New(path)
	if err != nil {
		panic("normalize: invalid field path " + path + ": " + err.Error())
	}
	return p
}

// horizonFields are the raw revenue bounds for one projection horizon.
type horizonFields struct {
	min, mid, max numberField
}

func horizon(key string) horizonFields {
	base := "/carbon_analysis/carbon_estimate/potential_revenue_inr/" + key
	return horizonFields{
		min: number(base + "/min"),
		mid: number(base + "/mid"),
		max: number(base + "/max"),
	}
}

// fields is the mapping from raw payload paths to canonical values. Every
// lookup the normalizer performs goes through this table.
var fields = struct {
	horizons map[string]horizonFields

	vegetationType    textField
	reasoning         textField
	density           textField
	densityPercentage textField
	landCondition     textField
	imageQuality      textField
	visibleFeatures   listField
	visionConfidence  textField

	carbonConfidence textField
	landArea         textField
	annualCO2        textField
	areaMethod       textField
	recommendations  listField
	nextSteps        listField
	disclaimers      listField

	baseRate            textField
	densityMultiplier   textField
	conditionMultiplier textField
	climateMultiplier   textField
	effectiveRate       textField
	locationAdjustment  textField

	locationCity        textField
	locationState       textField
	locationClimateZone textField
	locationMultiplier  textField
	locationExplanation textField
	locationAdjustments listField
	weatherTemperature  numberField
	weatherHumidity     numberField
	weatherCondition    textField

	fullReportMarkdown textField
	executiveSummary   textField
	textSummary        textField
}{
	horizons: map[string]horizonFields{
		model.Horizon1Year:  horizon("1_year"),
		model.Horizon5Year:  horizon("5_year"),
		model.Horizon10Year: horizon("10_year"),
	},

	vegetationType:    text("/vision_analysis/vegetation_type", NotAvailable),
	reasoning:         text("/vision_analysis/reasoning", NoDescription),
	density:           text("/vision_analysis/vegetation_density", NotAvailable),
	densityPercentage: text("/vision_analysis/density_percentage", "0"),
	landCondition:     text("/vision_analysis/land_condition", NotAvailable),
	imageQuality:      text("/vision_analysis/image_quality", NotAvailable),
	visibleFeatures:   list("/vision_analysis/visible_features"),
	visionConfidence:  text("/vision_analysis/confidence", ""),

	carbonConfidence: text("/carbon_analysis/confidence_level", ""),
	landArea:         text("/carbon_analysis/carbon_estimate/estimated_land_area_hectares", NotAvailable),
	annualCO2:        text("/carbon_analysis/carbon_estimate/annual_sequestration_tons", NotAvailable),
	areaMethod:       text("/carbon_analysis/carbon_estimate/area_estimation_method", NotAvailable),
	recommendations:  list("/carbon_analysis/recommendations"),
	nextSteps:        list("/carbon_analysis/next_steps"),
	disclaimers:      list("/carbon_analysis/disclaimers"),

	baseRate:            text("/carbon_analysis/carbon_estimate/calculation_details/base_rate", NotAvailable),
	densityMultiplier:   text("/carbon_analysis/carbon_estimate/calculation_details/density_multiplier", NotAvailable),
	conditionMultiplier: text("/carbon_analysis/carbon_estimate/calculation_details/condition_multiplier", NotAvailable),
	climateMultiplier:   text("/carbon_analysis/carbon_estimate/calculation_details/climate_multiplier", NotAvailable),
	effectiveRate:       text("/carbon_analysis/carbon_estimate/calculation_details/effective_rate_per_hectare", NotAvailable),
	locationAdjustment:  text("/carbon_analysis/carbon_estimate/calculation_details/location_adjustment", NotAvailable),

	locationCity:        text("/location_data/location/city", NotAvailable),
	locationState:       text("/location_data/location/state", NotAvailable),
	locationClimateZone: text("/location_data/location/climate_zone", NotAvailable),
	locationMultiplier:  text("/location_data/climate_multiplier", NotAvailable),
	locationExplanation: text("/location_data/explanation", NoLocationAnalysis),
	locationAdjustments: list("/location_data/adjustments"),
	weatherTemperature:  number("/location_data/weather_data/temperature"),
	weatherHumidity:     number("/location_data/weather_data/humidity"),
	weatherCondition:    text("/location_data/weather_data/weather", NotAvailable),

	fullReportMarkdown: text("/reports/full_report_markdown", NoProfessionalReport),
	executiveSummary:   text("/reports/executive_summary", NoExecutiveSummary),
	textSummary:        text("/reports/text_summary", NoTextSummary),
}

// Pointers that are inspected for presence or rendered verbatim rather than
// through a fallback.
var (
	locationDataPointer = mustPointer("/location_data")
	treeCountPointer    = mustPointer("/vision_analysis/estimated_tree_count")
)
