package entity

// Score counts wins per player. It outlives board resets within a session.
type Score struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
}

func (that *Score) RecordWin(player Mark) {
	switch player {
	case PlayerX:
		that.XWins++
	case PlayerO:
		that.OWins++
	}
}

func (that *Score) Reset() {
	that.XWins = 0
	that.OWins = 0
}
