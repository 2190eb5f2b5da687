package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/messmate/internal/model"
	"github.com/theirongolddev/messmate/internal/tracker"

	"github.com/charmbracelet/huh"
)

// setupValues holds the raw strings bound to the first-run form.
type setupValues struct {
	Name        string
	MessName    string
	MonthlyRate string
	PerMealRate string
	StartDate   string
}

func newSetupValues(today model.Date) *setupValues {
	return &setupValues{StartDate: today.String()}
}

// newSetupForm builds the first-run huh form. Values are written through v.
func newSetupForm(v *setupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to messmate").
				Description("Track the meals you take at your mess, the ones you skip,\nand what that means for your bill.\n\nEvery cycle is 30 days long."),
			huh.NewInput().
				Title("Your name").
				Value(&v.Name).
				Validate(required("your name")),
			huh.NewInput().
				Title("Mess name").
				Value(&v.MessName).
				Validate(required("the mess name")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Monthly rate").
				Description("What the mess charges for a full cycle").
				Placeholder("2500").
				Value(&v.MonthlyRate).
				Validate(func(s string) error {
					_, err := parseRate(s)
					return err
				}),
			huh.NewInput().
				Title("Per-meal rate").
				Description(fmt.Sprintf("Leave blank to use monthly rate / %d", model.MealsPerMonth)).
				Value(&v.PerMealRate).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					_, err := parseRate(s)
					return err
				}),
			huh.NewInput().
				Title("Cycle start date").
				Description("YYYY-MM-DD").
				Value(&v.StartDate).
				Validate(func(s string) error {
					_, err := model.ParseDate(strings.TrimSpace(s))
					return err
				}),
		),
	)
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("please enter %s", what)
		}
		return nil
	}
}

// parseRate accepts amounts like "2500", "2,500" or "28.74".
func parseRate(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, errors.New("please enter an amount")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%q is not a valid amount", s)
	}
	return v, nil
}

// toInput converts the submitted form into tracker setup arguments.
func (v *setupValues) toInput() (tracker.ProfileInput, model.Date, error) {
	monthly, err := parseRate(v.MonthlyRate)
	if err != nil {
		return tracker.ProfileInput{}, model.Date{}, fmt.Errorf("monthly rate: %w", err)
	}
	var perMeal float64
	if strings.TrimSpace(v.PerMealRate) != "" {
		if perMeal, err = parseRate(v.PerMealRate); err != nil {
			return tracker.ProfileInput{}, model.Date{}, fmt.Errorf("per-meal rate: %w", err)
		}
	}
	start, err := model.ParseDate(strings.TrimSpace(v.StartDate))
	if err != nil {
		return tracker.ProfileInput{}, model.Date{}, fmt.Errorf("start date: %w", err)
	}

	return tracker.ProfileInput{
		Name:        v.Name,
		MessName:    v.MessName,
		MonthlyRate: monthly,
		PerMealRate: perMeal,
	}, start, nil
}

// ErrSetupAborted is returned by RunSetupForm when the user quits the form.
var ErrSetupAborted = errors.New("setup aborted")

// RunSetupForm shows the first-run form on its own, outside the dashboard,
// and returns the submitted setup arguments.
func RunSetupForm(today model.Date) (tracker.ProfileInput, model.Date, error) {
	v := newSetupValues(today)
	if err := newSetupForm(v).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return tracker.ProfileInput{}, model.Date{}, ErrSetupAborted
		}
		return tracker.ProfileInput{}, model.Date{}, err
	}
	return v.toInput()
}
