package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionOf(t *testing.T) {
	assert.Equal(t, DirectionUp, DirectionOf(60, 75))
	assert.Equal(t, DirectionDown, DirectionOf(75, 60))
	assert.Equal(t, DirectionNone, DirectionOf(60, 60))
}

func TestNewlyCompletedFlags(t *testing.T) {
	tests := []struct {
		name     string
		past     *StageProgress
		current  *StageProgress
		expected StageProgress
	}{
		{
			name:     "no current progress yields no flags",
			past:     &StageProgress{Test: true},
			current:  nil,
			expected: StageProgress{},
		},
		{
			name:     "unknown past marks every set flag as new",
			past:     nil,
			current:  &StageProgress{Test: true, Quote: true},
			expected: StageProgress{Test: true, Quote: true},
		},
		{
			name:     "only newly set flags are marked",
			past:     &StageProgress{Test: true},
			current:  &StageProgress{Test: true, Quote: true, Approval: true},
			expected: StageProgress{Quote: true, Approval: true},
		},
		{
			name:     "no movement yields no flags",
			past:     &StageProgress{Test: true, Quote: true},
			current:  &StageProgress{Test: true, Quote: true},
			expected: StageProgress{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewlyCompletedFlags(tt.past, tt.current))
		})
	}
}

func TestCurrentStage(t *testing.T) {
	c := &Customer{
		TrustFormation: FunnelStage{CustomerResponse: ResponseMid},
	}
	assert.Equal(t, StageTrustFormation, c.CurrentStage())

	c.ValueRecognition.CustomerResponse = ResponseHigh
	assert.Equal(t, StageValueRecognition, c.CurrentStage())

	c.AdoptionDecision.CustomerResponse = ResponseLow
	assert.Equal(t, StageAdoptionDecision, c.CurrentStage())
}
