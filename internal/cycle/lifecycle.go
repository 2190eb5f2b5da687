package cycle

import (
	"errors"

	"github.com/theirongolddev/messmate/internal/model"
)

var (
	// ErrNoCurrentCycle is returned when closing without an active cycle.
	ErrNoCurrentCycle = errors.New("cycle: no current cycle")
	// ErrNoProfile is returned when closing before setup created a profile.
	ErrNoProfile = errors.New("cycle: no user profile")
)

// Close archives the current cycle into history, credits its extension days
// to the profile and starts the next cycle the day after it ended.
// Preconditions are checked before anything is touched, so on error state
// is unchanged.
func Close(state *model.AppState, gen Generator) (model.ArchivedCycle, model.Stats, error) {
	if state.Current == nil {
		return model.ArchivedCycle{}, model.Stats{}, ErrNoCurrentCycle
	}
	if state.Profile == nil {
		return model.ArchivedCycle{}, model.Stats{}, ErrNoProfile
	}

	closing := state.Current
	stats := ComputeStats(closing, state.Profile)

	archived := model.ArchivedCycle{
		Cycle:       *closing.Clone(),
		CompletedAt: gen.Clock.Now(),
	}
	next := gen.Generate(closing.EndDate.AddDays(1))

	state.History = append(state.History, archived)
	state.Profile.ExtensionDays += stats.ExtensionDays
	state.Current = next

	return archived, stats, nil
}
