package entity

// ComputerMark is the mark the computer plays in player-vs-computer mode.
const ComputerMark = PlayerO

// Session is the state behind one page view: the current game, the selected mode and the score.
// Round grows with every new game, so a delayed computer move can tell whether its game is still on.
type Session struct {
	ID    string `json:"id"`
	Mode  Mode   `json:"mode"`
	Game  *Game  `json:"game"`
	Score Score  `json:"score"`
	Round int    `json:"round"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:   id,
		Mode: ModePlayerVsPlayer,
		Game: NewGame(),
	}
}

// IsComputerTurn reports whether the computer owes a move.
func (that *Session) IsComputerTurn() bool {
	return that.Mode.WithComputer() && that.Game.IsOngoing() && that.Game.Turn == ComputerMark
}
