package basics

import (
	"fmt"
	"strconv"
)

// RollConvention defines how schedule dates roll within a month.
// The empty value means no roll convention.
type RollConvention string

const (
	RollNone RollConvention = ""
	RollEOM  RollConvention = "EOM"
	RollIMM  RollConvention = "IMM"
)

var namedRollConventions = map[string]bool{
	"EOM":    true,
	"IMM":    true,
	"IMMCAD": true,
	"IMMAUD": true,
	"IMMNZD": true,
	"SFE":    true,
	"MON":    true,
	"TUE":    true,
	"WED":    true,
	"THU":    true,
	"FRI":    true,
	"SAT":    true,
	"SUN":    true,
}

// RollConventionOf converts an FpML rollConvention value. Numeric values map
// to a day-of-month roll ("Day17"), 'NONE' maps to no convention, named
// conventions are validated against a fixed table.
func RollConventionOf(name string) (RollConvention, error) {
	if name == "NONE" {
		return RollNone, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 1 || n > 31 {
			return "", fmt.Errorf("unknown roll convention '%s': day out of range", name)
		}
		return RollConvention("Day" + strconv.Itoa(n)), nil
	}
	if !namedRollConventions[name] {
		return "", fmt.Errorf("unknown roll convention '%s'", name)
	}
	return RollConvention(name), nil
}
