// Package report builds the monthly report of the current cycle and writes it
// as plain text or as an Excel workbook.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/theirongolddev/messmate/internal/cycle"
	"github.com/theirongolddev/messmate/internal/model"

	"github.com/dustin/go-humanize"
)

// ErrNotSetUp is returned when a report is requested before setup.
var ErrNotSetUp = errors.New("report: profile and current cycle required")

// Version is stamped into report footers.
var Version = "dev"

// Title heads every report.
const Title = "MessMate - Monthly Report"

// Status symbols used in the daily log.
const (
	SymbolTaken          = "✓"
	SymbolCancelledUser  = "✗"
	SymbolCancelledOwner = "⊘"
	SymbolPending        = "○"
	SymbolAbsent         = "—"
)

// Row is one day of the daily log.
type Row struct {
	Date      model.Date
	Day       string // three-letter weekday
	Breakfast string
	Lunch     string
	Dinner    string
}

// Payload is everything a report writer needs.
type Payload struct {
	Name        string
	MessName    string
	CycleID     string
	StartDate   model.Date
	EndDate     model.Date
	Stats       model.Stats
	Rows        []Row
	Currency    string // display symbol
	GeneratedAt time.Time
}

// Symbol maps a slot to its daily-log symbol. A nil slot is absent.
func Symbol(slot *model.MealSlot) string {
	if slot == nil {
		return SymbolAbsent
	}
	switch slot.Status {
	case model.StatusTaken:
		return SymbolTaken
	case model.StatusCancelledUser:
		return SymbolCancelledUser
	case model.StatusCancelledOwner:
		return SymbolCancelledOwner
	case model.StatusPending:
		return SymbolPending
	}
	return SymbolAbsent
}

// Build assembles the report of the current cycle.
func Build(state model.AppState, now time.Time) (Payload, error) {
	if !state.IsSetUp() {
		return Payload{}, ErrNotSetUp
	}
	c := state.Current
	p := Payload{
		Name:        state.Profile.Name,
		MessName:    state.Profile.MessName,
		CycleID:     c.ID,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Stats:       cycle.ComputeStats(c, state.Profile),
		Rows:        make([]Row, 0, len(c.Days)),
		Currency:    "₹",
		GeneratedAt: now,
	}
	for i := range c.Days {
		d := &c.Days[i]
		p.Rows = append(p.Rows, Row{
			Date:      d.Date,
			Day:       shortDay(d.DayName),
			Breakfast: Symbol(d.Breakfast),
			Lunch:     Symbol(d.Lunch),
			Dinner:    Symbol(d.Dinner),
		})
	}
	return p, nil
}

func shortDay(name string) string {
	if len(name) > 3 {
		return name[:3]
	}
	return name
}

// FileName is the default name of the exported workbook.
func FileName(p Payload, ext string) string {
	return fmt.Sprintf("MessMate_Report_%s.%s", p.StartDate, ext)
}

// BackupFileName is the default name of a snapshot taken at now.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("messmate_backup_%d.json", now.UnixMilli())
}

// Footer is the line printed at the bottom of every report.
func (p Payload) Footer() string {
	return fmt.Sprintf("Generated by messmate %s on %s", Version, p.GeneratedAt.Format(model.DateLayout))
}

// BalanceLine renders the money figure the way the summary shows it.
func (p Payload) BalanceLine() string {
	owed, amount, ok := p.Stats.Balance()
	if !ok {
		return "Amount Owed: n/a"
	}
	if owed {
		return "Amount Owed: " + p.Currency + money(amount)
	}
	return "Savings: " + p.Currency + money(amount)
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
