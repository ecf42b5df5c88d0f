package bug

import "strings"

const (
	maxTitleLen       = 100
	maxDescriptionLen = 1000
)

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" || len(title) > maxTitleLen {
		return ErrInvalidInput
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return ErrInvalidInput
	}
	return nil
}

func validateScore(score int) error {
	if score < ScoreMin || score > ScoreMax {
		return ErrInvalidInput
	}
	return nil
}
