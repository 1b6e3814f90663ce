package model

// Stage is one phase of the fixed six-step scoping flow. Progression is
// forward-only and payment is terminal.
type Stage string

const (
	StageInitial      Stage = "initial"
	StageRequirements Stage = "requirements"
	StageScope        Stage = "scope"
	StageTasks        Stage = "tasks"
	StageEstimate     Stage = "estimate"
	StagePayment      Stage = "payment"
)

// stageOrder defines the canonical progression.
var stageOrder = []Stage{
	StageInitial,
	StageRequirements,
	StageScope,
	StageTasks,
	StageEstimate,
	StagePayment,
}

// Index returns the position of s in the flow, or -1 for unknown stages.
func (s Stage) Index() int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Next returns the following stage. The terminal stage returns itself.
func (s Stage) Next() Stage {
	i := s.Index()
	if i < 0 || i == len(stageOrder)-1 {
		return s
	}
	return stageOrder[i+1]
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// Terminal reports whether the flow can advance no further.
func (s Stage) Terminal() bool {
	return s == StagePayment
}

// ParseStage maps a wire value to a Stage, defaulting to initial for
// anything unrecognized.
func ParseStage(v string) Stage {
	s := Stage(v)
	if !s.Valid() {
		return StageInitial
	}
	return s
}
