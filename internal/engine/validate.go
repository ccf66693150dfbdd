package engine

import (
	"math"
	"strings"
)

const (
	minAge = 3
	maxAge = 18

	maxNameLen = 50

	minReward = 1
	maxReward = 100
)

func validateKidInput(name string, age int) error {
	if strings.TrimSpace(name) == "" {
		return validationf("kid name is required")
	}
	if len(strings.TrimSpace(name)) > maxNameLen {
		return validationf("name must be %d characters or fewer", maxNameLen)
	}
	if age < minAge || age > maxAge {
		return validationf("age must be between %d and %d", minAge, maxAge)
	}
	return nil
}

func validateMissionInput(title string, rewardCoins int) error {
	if strings.TrimSpace(title) == "" {
		return validationf("mission title is required")
	}
	if rewardCoins < minReward || rewardCoins > maxReward {
		return validationf("reward must be between %d and %d coins", minReward, maxReward)
	}
	return nil
}

// validateAmount rejects non-positive and non-finite amounts. NaN compares
// false to everything, so the explicit check comes first.
func validateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return validationf("amount must be a finite number")
	}
	if amount <= 0 {
		return validationf("amount must be greater than 0")
	}
	return nil
}

func requireID(value, what string) error {
	if strings.TrimSpace(value) == "" {
		return validationf("%s is required", what)
	}
	return nil
}
