package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty validates a preset name. An empty name means normal.
func ParseDifficulty(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// HPDelta returns how much the preset changes the player's max HP.
func (p DifficultyPreset) HPDelta() int {
	switch p {
	case DifficultyEasy:
		return 3
	case DifficultyHard:
		return -2
	default:
		return 0
	}
}

// PlayerHP applies the preset to a level's player HP. The result is never
// below 1.
func (p DifficultyPreset) PlayerHP(base int) int {
	hp := base + p.HPDelta()
	if hp < 1 {
		return 1
	}
	return hp
}
