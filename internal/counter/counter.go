// Package counter is the integer counter used by the stateiter CLI and tests:
// state starts at 0, Increment adds one, Decrement subtracts one, and any
// other action leaves the state unchanged.
package counter

import (
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/stateiter/store"
)

// Action is a counter action type.
type Action string

const (
	Increment Action = "Increment"
	Decrement Action = "Decrement"
)

// Reduce applies action to state.
func Reduce(state int, action Action) int {
	switch action {
	case Increment:
		return state + 1
	case Decrement:
		return state - 1
	default:
		return state
	}
}

// NewStore returns a counter store at 0.
func NewStore() *store.Reducer[int, Action] {
	return store.NewReducer(Reduce, 0)
}

// ParseAction accepts "inc", "increment", "dec", "decrement" and the
// canonical action names, case-insensitively.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inc", "increment", "+":
		return Increment, nil
	case "dec", "decrement", "-":
		return Decrement, nil
	default:
		return "", fmt.Errorf("unknown counter action: %q", s)
	}
}
