package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the exported workbook.
const (
	SummarySheet = "Summary"
	DailySheet   = "Daily Log"
)

// WriteXLSX writes p as an Excel workbook with a summary sheet and a daily
// log sheet.
func WriteXLSX(w io.Writer, p Payload) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SummarySheet); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	if _, err := f.NewSheet(DailySheet); err != nil {
		return fmt.Errorf("creating daily sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	if err := writeSummary(f, p, bold); err != nil {
		return err
	}
	if err := writeDaily(f, p, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, p Payload, bold int) error {
	st := p.Stats
	rows := [][]interface{}{
		{Title},
		{"Name", p.Name},
		{"Mess", p.MessName},
		{"Cycle", fmt.Sprintf("%s to %s", p.StartDate, p.EndDate)},
		{},
		{"Total Meals", st.TotalMeals},
		{"Meals Taken", st.Taken},
		{"Taken %", st.TakenPercentage},
		{"Meals Missed", st.MissedByUser},
		{"Missed %", st.MissedPercentage},
		{"Owner Cancelled", st.CancelledByOwner},
		{"Pending", st.Pending},
		{"Extension Days Earned", st.ExtensionDays},
	}
	if owed, amount, ok := st.Balance(); ok {
		label := "Savings"
		if owed {
			label = "Amount Owed"
		}
		rows = append(rows, []interface{}{label + " (" + p.Currency + ")", amount})
	}
	rows = append(rows, []interface{}{}, []interface{}{p.Footer()})

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A1", bold); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 24)
}

func writeDaily(f *excelize.File, p Payload, bold int) error {
	header := []interface{}{"Date", "Day", "Breakfast", "Lunch", "Dinner"}
	if err := f.SetSheetRow(DailySheet, "A1", &header); err != nil {
		return fmt.Errorf("writing daily header: %w", err)
	}
	if err := f.SetCellStyle(DailySheet, "A1", "E1", bold); err != nil {
		return err
	}

	for i, r := range p.Rows {
		row := []interface{}{r.Date.String(), r.Day, r.Breakfast, r.Lunch, r.Dinner}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DailySheet, cell, &row); err != nil {
			return fmt.Errorf("writing daily row %d: %w", i+2, err)
		}
	}
	return f.SetColWidth(DailySheet, "A", "A", 12)
}
