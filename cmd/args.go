package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/messmate/internal/model"
)

// parseDayArg accepts an ISO date or one of today, yesterday and tomorrow.
func parseDayArg(arg string, today model.Date) (model.Date, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	d, err := model.ParseDate(strings.TrimSpace(arg))
	if err != nil {
		return model.Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or today)", arg)
	}
	return d, nil
}

// parseMealArg is ParseMealType, case-insensitive.
func parseMealArg(arg string) (model.MealType, error) {
	return model.ParseMealType(strings.ToLower(strings.TrimSpace(arg)))
}

// parseRateArg parses a money amount, ignoring thousands separators.
func parseRateArg(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("amount must not be negative: %s", s)
	}
	return v, nil
}
