package models

import "github.com/hyperjump/qanoon/pkg/utils"

// Percentage is a score on the 0–100 scale (search relevance).
type Percentage float64

// UnitScore is a score on the 0–1 scale (confidence inputs and outputs).
type UnitScore float64

// Unit converts a percentage to the unit scale, clamped to [0, 1].
func (p Percentage) Unit() UnitScore {
	return UnitScore(p / 100).Clamp()
}

// Clamp limits p to [0, 100].
func (p Percentage) Clamp() Percentage {
	return Percentage(utils.Clamp(float64(p), 0, 100))
}

// Clamp limits s to [0, 1].
func (s UnitScore) Clamp() UnitScore {
	return UnitScore(utils.Clamp01(float64(s)))
}

// Percentage converts a unit score to the 0–100 scale.
func (s UnitScore) Percentage() Percentage {
	return Percentage(s.Clamp() * 100)
}
