package sequencer

// Phase is one stage of the falling-disc state machine.
type Phase int

const (
	Idle Phase = iota
	HumanFalling
	PauseBeforeOpponent
	OpponentFalling
	ReplayFalling
	ReplayPause
)

var phaseNames = [...]string{
	Idle:                "Idle",
	HumanFalling:        "HumanFalling",
	PauseBeforeOpponent: "PauseBeforeOpponent",
	OpponentFalling:     "OpponentFalling",
	ReplayFalling:       "ReplayFalling",
	ReplayPause:         "ReplayPause",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

func (p Phase) falling() bool {
	return p == HumanFalling || p == OpponentFalling || p == ReplayFalling
}
