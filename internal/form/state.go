package form

// State is a step of the form lifecycle:
//
//	Idle -> Validating -> Valid   -> Submitted
//	                   -> Invalid
//
// Editing a field from any state returns the form to Idle.
type State int

// Form states.
const (
	StateIdle State = iota
	StateValidating
	StateValid
	StateInvalid
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}
