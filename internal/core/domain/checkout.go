package domain

// CheckoutState is the state of one checkout workflow.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutSuccess    CheckoutState = "success"
	CheckoutFailed     CheckoutState = "failed"
)

// checkoutTransitions defines the allowed state machine transitions.
var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutIdle:       {CheckoutSubmitting},
	CheckoutSubmitting: {CheckoutSuccess, CheckoutFailed},
	CheckoutSuccess:    {CheckoutIdle},
	CheckoutFailed:     {CheckoutIdle},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
