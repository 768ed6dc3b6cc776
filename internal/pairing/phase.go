package pairing

// Phase is the current state of the pairing handshake
type Phase string

const (
	// PhaseIdle means no session. Entered at startup and whenever a
	// prior session ends.
	PhaseIdle Phase = "idle"

	// PhaseArmed means a handshake is in flight: the countdown and the
	// status poll loop are both running.
	PhaseArmed Phase = "armed"

	// PhaseConnected means the extension is paired to this user
	PhaseConnected Phase = "connected"

	// PhaseWrongUser means the extension is paired to a different
	// account. Cleared only by an explicit Disconnect.
	PhaseWrongUser Phase = "wrong-user"

	// PhaseExpired means the countdown ran out while still armed
	PhaseExpired Phase = "expired"
)

// ValidTransitions defines the allowed phase transitions. The manager
// never re-arms on its own from connected or wrong-user; only an
// explicit Disconnect followed by Connect can.
var ValidTransitions = map[Phase][]Phase{
	PhaseIdle:      {PhaseArmed, PhaseConnected, PhaseWrongUser},
	PhaseArmed:     {PhaseConnected, PhaseWrongUser, PhaseExpired, PhaseIdle},
	PhaseConnected: {PhaseIdle},
	PhaseWrongUser: {PhaseIdle},
	PhaseExpired:   {PhaseArmed, PhaseIdle},
}

// CanTransition checks whether from -> to is a valid transition
func CanTransition(from, to Phase) bool {
	for _, target := range ValidTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// Settled reports whether the phase ends the current handshake session.
// Entering any settled phase stops both the countdown and the poll loop.
func (p Phase) Settled() bool {
	switch p {
	case PhaseConnected, PhaseWrongUser, PhaseExpired, PhaseIdle:
		return true
	}
	return false
}
