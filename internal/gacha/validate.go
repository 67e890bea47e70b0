package gacha

import (
	"errors"
	"strings"
)

var (
	ErrInvalidWeight      = errors.New("invalid weight entry; rarity and weight must be >= 0 and finite")
	ErrEmptyName          = errors.New("character name must not be empty")
	ErrDuplicateCharacter = errors.New("duplicate character id")
)

func validateEntry(e WeightEntry) error {
	if e.Rarity < 0 {
		return ErrInvalidWeight
	}
	if !finite(e.Weight) || e.Weight < 0 {
		return ErrInvalidWeight
	}
	return nil
}

func validateCharacter(c Character) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
