package domain

import (
	"fmt"
	"strings"
)

// Condition describes the physical state of a listed item.
type Condition string

const (
	ConditionNew         Condition = "NEW"
	ConditionUsed        Condition = "USED"
	ConditionRefurbished Condition = "REFURBISHED"
)

// ParseCondition parses a case-insensitive condition token.
func ParseCondition(s string) (Condition, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ConditionNew):
		return ConditionNew, nil
	case string(ConditionUsed):
		return ConditionUsed, nil
	case string(ConditionRefurbished):
		return ConditionRefurbished, nil
	default:
		return "", fmt.Errorf("%w: unknown condition %q (allowed: NEW, USED, REFURBISHED)", ErrInvalidArgument, s)
	}
}
