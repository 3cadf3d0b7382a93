package models

import "fmt"

// Stage is one of the four lifecycle stages a product moves through.
type Stage string

const (
	StageInsight   Stage = "insight"
	StagePlanning  Stage = "planning"
	StageColdStart Stage = "coldstart"
	StageScaleUp   Stage = "scaleup"
)

var allStages = []Stage{
	StageInsight,
	StagePlanning,
	StageColdStart,
	StageScaleUp,
}

// Stages returns every lifecycle stage in order.
func Stages() []Stage {
	stages := make([]Stage, len(allStages))
	copy(stages, allStages)
	return stages
}

// ParseStage validates a raw stage string.
func ParseStage(raw string) (Stage, error) {
	for _, stage := range allStages {
		if string(stage) == raw {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", raw)
}

func (s Stage) String() string {
	return string(s)
}
