// Package export renders schedules and score records as Excel workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jigu1688/sporttools-sub000/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	ScheduleSheet = "赛程"
	ScoresSheet   = "体测成绩"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column is one header cell and its width.
type Column struct {
	Header string
	Width  float64
}

// ScheduleColumns is the header row of the schedule export.
var ScheduleColumns = []Column{ //nolint:gochecknoglobals // fixed layout
	{"日期", 12},
	{"开始时间", 10},
	{"结束时间", 10},
	{"项目", 16},
	{"年级", 10},
	{"性别", 6},
	{"组别", 20},
	{"场地", 14},
	{"裁判", 12},
	{"人数", 8},
	{"班级", 30},
	{"状态", 10},
}

// ScoreColumns is the header row of the score export.
var ScoreColumns = []Column{ //nolint:gochecknoglobals // fixed layout
	{"学号", 14},
	{"姓名", 12},
	{"班级", 14},
	{"年级", 10},
	{"性别", 6},
	{"测试日期", 12},
	{"标准分", 10},
	{"加分", 8},
	{"总分", 10},
	{"等级", 8},
}

// Schedule writes heats to a workbook, one row per heat in the given order.
func Schedule(heats []model.ScheduledHeat) ([]byte, error) {
	rows := make([][]any, 0, len(heats))
	for i := range heats {
		h := &heats[i]
		rows = append(rows, []any{
			h.Date, h.StartTime, h.EndTime, h.EventName, h.Grade, h.Gender, h.GroupName,
			h.Venue, h.Referee, h.GroupDetails.TotalAthletes,
			strings.Join(h.GroupDetails.Classes, "、"), h.Status,
		})
	}
	return workbook(ScheduleSheet, ScheduleColumns, rows)
}

// Scores writes score records to a workbook.
func Scores(records []model.ScoreRecord) ([]byte, error) {
	rows := make([][]any, 0, len(records))
	for i := range records {
		m := &records[i].Measurement
		r := &records[i].Result
		rows = append(rows, []any{
			m.StudentID, m.Name, m.ClassName, m.Grade, model.NormalizeGender(m.Gender), m.TestDate,
			r.StandardScore, r.BonusScore, r.CompositeScore, r.GradeLevel,
		})
	}
	return workbook(ScoresSheet, ScoreColumns, rows)
}

func workbook(sheet string, columns []Column, rows [][]any) (out []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, c := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, c.Header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, c.Width); err != nil {
			return nil, fmt.Errorf("set width of %s: %w", name, err)
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
