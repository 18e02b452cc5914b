package controller

// Phase is the position of the controller in the submit cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSuccess
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// TransitionHook observes phase changes.
type TransitionHook func(from, to Phase)
