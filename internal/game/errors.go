package game

import "fmt"

// The engine error taxonomy. Every error the engine returns is one of:
//
//   - *IllegalCommandError: guardrail rejection, zero side effects
//   - *battle.IllegalTargetError: combat-local misuse, no mutation
//   - *battle.InsufficientEnergyError: combat-local misuse, no mutation
//   - *InsufficientGoldError: shop misuse, no mutation
//   - *InvariantViolationError: an engine postcondition failed; the command
//     was rolled back and the world is still in its previous valid state
//
// None of them abort the process; callers match with errors.As.

// IllegalCommandError reports a command rejected before any mutation.
type IllegalCommandError struct {
	Screen  Screen
	Command string
	Reason  string
}

func (e *IllegalCommandError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("illegal command %s on screen %s", e.Command, e.Screen)
	}
	return fmt.Sprintf("illegal command %s on screen %s: %s", e.Command, e.Screen, e.Reason)
}

// InsufficientGoldError reports a purchase the player cannot afford.
type InsufficientGoldError struct {
	Price int
	Gold  int
}

func (e *InsufficientGoldError) Error() string {
	return fmt.Sprintf("insufficient gold: need %d, have %d", e.Price, e.Gold)
}

// InvariantViolationError reports a broken engine postcondition. It marks an
// engine bug, not caller misuse; repeated violations for the same command
// and state mean the episode should be reset.
type InvariantViolationError struct {
	Check   string
	Command string
}

func (e *InvariantViolationError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("invariant violation: %s", e.Check)
	}
	return fmt.Sprintf("invariant violation applying %s: %s", e.Command, e.Check)
}
