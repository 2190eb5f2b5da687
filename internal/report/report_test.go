package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDs struct{ n int }

func (s *seqIDs) NewCycleID() string {
	s.n++
	return fmt.Sprintf("cycle-%d", s.n)
}

var generatedAt = time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)

// setUpState starts a cycle on Monday 2024-01-01 and marks a few meals.
func setUpState(t *testing.T) model.AppState {
	t.Helper()
	gen := cycle.Generator{Clock: fixedClock{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}, IDs: &seqIDs{}}
	st := model.NewAppState()
	st.Profile = &model.UserProfile{
		Name:        "Meera",
		MessName:    "Green Leaf",
		MonthlyRate: 2610,
		PerMealRate: 30,
		StartDate:   model.NewDate(2024, time.January, 1),
	}
	st.Current = gen.Generate(st.Profile.StartDate)

	now := generatedAt
	advance := func(day int, meal model.MealType, times int) {
		for i := 0; i < times; i++ {
			_, ok := cycle.Advance(st.Current, cycle.DayID(day), meal, now)
			require.True(t, ok)
		}
	}
	advance(0, model.Breakfast, 1) // taken
	advance(0, model.Lunch, 2)     // cancelled-user
	advance(0, model.Dinner, 3)    // cancelled-owner
	return st
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, SymbolAbsent, Symbol(nil))
	assert.Equal(t, SymbolTaken, Symbol(&model.MealSlot{Status: model.StatusTaken}))
	assert.Equal(t, SymbolCancelledUser, Symbol(&model.MealSlot{Status: model.StatusCancelledUser}))
	assert.Equal(t, SymbolCancelledOwner, Symbol(&model.MealSlot{Status: model.StatusCancelledOwner}))
	assert.Equal(t, SymbolPending, Symbol(&model.MealSlot{Status: model.StatusPending}))
}

func TestBuild(t *testing.T) {
	p, err := Build(setUpState(t), generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "Meera", p.Name)
	assert.Equal(t, "Green Leaf", p.MessName)
	assert.Equal(t, "2024-01-01", p.StartDate.String())
	assert.Equal(t, "2024-01-30", p.EndDate.String())
	require.Len(t, p.Rows, 30)

	first := p.Rows[0]
	assert.Equal(t, "Mon", first.Day)
	assert.Equal(t, []string{"✓", "✗", "⊘"}, []string{first.Breakfast, first.Lunch, first.Dinner})

	// 2024-01-07 is the first Sunday.
	sunday := p.Rows[6]
	assert.Equal(t, "Sun", sunday.Day)
	assert.Equal(t, SymbolAbsent, sunday.Breakfast)
	assert.Equal(t, SymbolPending, sunday.Lunch)
	assert.Equal(t, SymbolAbsent, sunday.Dinner)

	assert.Equal(t, 1, p.Stats.Taken)
	require.NotNil(t, p.Stats.MoneyOwed)
	assert.InDelta(t, -2580.0, *p.Stats.MoneyOwed, 1e-9)
	assert.Equal(t, "Savings: ₹2,580.00", p.BalanceLine())
}

func TestBuild_RequiresSetup(t *testing.T) {
	_, err := Build(model.NewAppState(), generatedAt)
	assert.ErrorIs(t, err, ErrNotSetUp)

	st := setUpState(t)
	st.Current = nil
	_, err = Build(st, generatedAt)
	assert.ErrorIs(t, err, ErrNotSetUp)
}

func TestFileNames(t *testing.T) {
	p, err := Build(setUpState(t), generatedAt)
	require.NoError(t, err)
	assert.Equal(t, "MessMate_Report_2024-01-01.xlsx", FileName(p, "xlsx"))
	assert.Equal(t, "messmate_backup_1704909600000.json", BackupFileName(generatedAt))
}

func TestWriteText(t *testing.T) {
	p, err := Build(setUpState(t), generatedAt)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, p))
	out := buf.String()

	assert.Contains(t, out, Title)
	assert.Contains(t, out, "Cycle: 2024-01-01 to 2024-01-30")
	assert.Contains(t, out, "Meals Taken:           1 (")
	assert.Contains(t, out, "Savings: ₹2,580.00")
	assert.Contains(t, out, "2024-01-07   Sun  —")
	assert.True(t, strings.HasSuffix(out, "Generated by messmate dev on 2024-01-10\n"))

	lines := strings.Split(out, "\n")
	logLines := 0
	for _, l := range lines {
		if strings.HasPrefix(l, "2024-") {
			logLines++
		}
	}
	assert.Equal(t, 30, logLines)
}

func TestWriteXLSX(t *testing.T) {
	p, err := Build(setUpState(t), generatedAt)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, p))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SummarySheet, DailySheet}, f.GetSheetList())

	daily, err := f.GetRows(DailySheet)
	require.NoError(t, err)
	require.Len(t, daily, 31)
	assert.Equal(t, []string{"Date", "Day", "Breakfast", "Lunch", "Dinner"}, daily[0])
	assert.Equal(t, []string{"2024-01-01", "Mon", "✓", "✗", "⊘"}, daily[1])
	assert.Equal(t, []string{"2024-01-07", "Sun", "—", "○", "—"}, daily[7])

	name, err := f.GetCellValue(SummarySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Meera", name)

	total, err := f.GetCellValue(SummarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "82", total)
}
