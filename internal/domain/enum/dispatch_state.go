package enum

import (
	"encoding/json"
)

// DispatchState represents where a payment attempt stands in the
// dispatcher's state machine.
type DispatchState int

const (
	DispatchStateIdle           DispatchState = 0
	DispatchStateValidating     DispatchState = 1
	DispatchStateDirectSubmit   DispatchState = 2
	DispatchStateGatewayPending DispatchState = 3
	DispatchStateSettling       DispatchState = 4
	DispatchStateSucceeded      DispatchState = 5
	DispatchStateFailed         DispatchState = 6
)

func (s DispatchState) String() string {
	names := [...]string{
		"idle", "validating", "direct_submit", "gateway_pending",
		"settling", "succeeded", "failed",
	}
	if int(s) < 0 || int(s) >= len(names) {
		return "idle"
	}
	return names[s]
}

// Terminal reports whether the state machine has finished an attempt.
func (s DispatchState) Terminal() bool {
	return s == DispatchStateSucceeded || s == DispatchStateFailed
}

func (s DispatchState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
