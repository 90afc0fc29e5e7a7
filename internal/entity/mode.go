package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type Mode string

const (
	ModePlayerVsPlayer   Mode = "pvp"
	ModePlayerVsComputer Mode = "pvc"
)

func ParseMode(value string) (Mode, error) {
	mode := Mode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q", apperror.ErrInvalidMode, value)
	}
	return mode, nil
}

func (that Mode) IsValid() bool {
	return that == ModePlayerVsPlayer || that == ModePlayerVsComputer
}

func (that Mode) WithComputer() bool {
	return that == ModePlayerVsComputer
}
