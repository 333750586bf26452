package form

import "fmt"

// State is the lifecycle phase of a Form.
type State int

const (
	// StateForm is the initial state: inputs editable, nothing submitted yet.
	StateForm State = iota
	// StateSubmitting means a request is in flight and submit is disabled.
	StateSubmitting
	// StateSuccess means the last submission produced a result.
	StateSuccess
	// StateFailure means the last submission produced an error message.
	StateFailure
)

var stateNames = map[State]string{
	StateForm:       "form",
	StateSubmitting: "submitting",
	StateSuccess:    "success",
	StateFailure:    "failure",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether s is the outcome of a completed submission.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailure
}
