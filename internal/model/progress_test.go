package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepStatus_Before(t *testing.T) {
	tests := []struct {
		name string
		a, b StepStatus
		want bool
	}{
		{"pending before in-progress", StepPending, StepInProgress, true},
		{"pending before complete", StepPending, StepComplete, true},
		{"in-progress before complete", StepInProgress, StepComplete, true},
		{"complete not before pending", StepComplete, StepPending, false},
		{"same status", StepInProgress, StepInProgress, false},
		{"error never ordered", StepError, StepComplete, false},
		{"nothing before error", StepPending, StepError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Before(tt.b))
		})
	}
}

func TestConfidenceLevel_IsValid(t *testing.T) {
	assert.True(t, ConfidenceHigh.IsValid())
	assert.True(t, ConfidenceMedium.IsValid())
	assert.True(t, ConfidenceLow.IsValid())
	assert.False(t, ConfidenceLevel("medium").IsValid())
	assert.False(t, ConfidenceLevel("").IsValid())
}
