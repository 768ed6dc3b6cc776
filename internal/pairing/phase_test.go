package pairing

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseIdle, PhaseArmed, true},
		{PhaseIdle, PhaseConnected, true},
		{PhaseIdle, PhaseWrongUser, true},
		{PhaseIdle, PhaseExpired, false},
		{PhaseArmed, PhaseConnected, true},
		{PhaseArmed, PhaseWrongUser, true},
		{PhaseArmed, PhaseExpired, true},
		{PhaseArmed, PhaseIdle, true},
		{PhaseConnected, PhaseIdle, true},
		{PhaseConnected, PhaseArmed, false},
		{PhaseWrongUser, PhaseIdle, true},
		{PhaseWrongUser, PhaseArmed, false},
		{PhaseExpired, PhaseArmed, true},
		{PhaseExpired, PhaseIdle, true},
		{PhaseExpired, PhaseConnected, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSettled(t *testing.T) {
	if PhaseArmed.Settled() {
		t.Error("armed is the only unsettled phase and must report false")
	}
	for _, p := range []Phase{PhaseIdle, PhaseConnected, PhaseWrongUser, PhaseExpired} {
		if !p.Settled() {
			t.Errorf("%s should be settled", p)
		}
	}
}
