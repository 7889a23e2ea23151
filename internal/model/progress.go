package model

// StepStatus is the display state of a progress step.
type StepStatus string

// Step status constants.
const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in-progress"
	StepComplete   StepStatus = "complete"
	StepError      StepStatus = "error"
)

// rank orders statuses along the sweep. Error sits outside the sweep.
func (s StepStatus) rank() int {
	switch s {
	case StepPending:
		return 0
	case StepInProgress:
		return 1
	case StepComplete:
		return 2
	default:
		return -1
	}
}

// Before reports whether s comes strictly earlier in the pending to complete
// sweep than other. Error is never before or after anything.
func (s StepStatus) Before(other StepStatus) bool {
	a, b := s.rank(), other.rank()
	if a < 0 || b < 0 {
		return false
	}
	return a < b
}

// ProgressStep is one named stage of the analysis progress list.
type ProgressStep struct {
	Name   string     `json:"name"`
	Status StepStatus `json:"status"`
}

// Progress step names in display order.
const (
	StepProcessingImage   = "Processing image"
	StepFetchingLocation  = "Fetching location data"
	StepRunningAI         = "Running AI analysis"
	StepCalculatingCarbon = "Calculating carbon potential"
	StepGeneratingReport  = "Generating report"
)
