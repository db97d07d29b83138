package domain

// ShiftState represents the lifecycle state of a shift
type ShiftState string

const (
	StateIdle        ShiftState = "idle"
	StateCheckingIn  ShiftState = "checking_in"
	StateInShift     ShiftState = "in_shift"
	StateOnBreak     ShiftState = "on_break"
	StateCheckingOut ShiftState = "checking_out"
	StatePostShift   ShiftState = "post_shift"
	StateCompleted   ShiftState = "completed"
	StateCancelled   ShiftState = "cancelled"
)

// transitionTable maps each state to the set of states reachable from it.
// Completed and Cancelled are terminal and have no outgoing transitions.
var transitionTable = map[ShiftState][]ShiftState{
	StateIdle:        {StateCheckingIn, StateCancelled},
	StateCheckingIn:  {StateInShift, StateIdle, StateCancelled},
	StateInShift:     {StateOnBreak, StateCheckingOut, StateCancelled},
	StateOnBreak:     {StateInShift, StateCancelled},
	StateCheckingOut: {StatePostShift, StateInShift, StateCancelled},
	StatePostShift:   {StateCompleted, StateCancelled},
	StateCompleted:   {},
	StateCancelled:   {},
}

// IsValid reports whether the state is a known shift state
func (s ShiftState) IsValid() bool {
	_, ok := transitionTable[s]
	return ok
}

// IsTerminal reports whether the state has no outgoing transitions
func (s ShiftState) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// CanTransitionTo reports whether a transition from s to target is allowed
func (s ShiftState) CanTransitionTo(target ShiftState) bool {
	for _, allowed := range transitionTable[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidNextStates returns the states reachable from s
func (s ShiftState) ValidNextStates() []ShiftState {
	allowed := transitionTable[s]
	out := make([]ShiftState, len(allowed))
	copy(out, allowed)
	return out
}

// Actor identifies who or what triggered a transition
type Actor string

const (
	ActorUser     Actor = "user"
	ActorSystem   Actor = "system"
	ActorGeofence Actor = "geofence"
	ActorAdmin    Actor = "admin"
)
