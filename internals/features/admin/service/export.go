package service

import (
	"io"
	"time"

	"canvassers_backend/internals/features/admin/dto"
	attendanceModel "canvassers_backend/internals/features/attendance/model"

	"github.com/xuri/excelize/v2"
)

const (
	SheetCheckIns = "Check-ins"
	SheetSales    = "Sales"
	exportTime    = "2006-01-02 15:04:05"
)

var (
	checkInHeader = []any{
		"Name", "Email", "Branch", "Check-in Time", "Distance (m)", "Within 400m",
		"Check-out Time", "Check-out Distance (m)", "Check-out Within 400m",
	}
	salesHeader = []any{
		"Canvasser", "Email", "Customer Name", "Customer Phone", "AXA Card Serial",
		"Remark", "Location", "Created At",
	}
)

func fmtTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc != nil {
		return t.In(loc).Format(exportTime)
	}
	return t.Format(exportTime)
}

func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}

func newWorkbook(sheet string, header []any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

// WriteCheckInsXLSX menulis workbook check-in ke w.
func WriteCheckInsXLSX(w io.Writer, rows []attendanceModel.CheckInModel, loc *time.Location) error {
	f, err := newWorkbook(SheetCheckIns, checkInHeader)
	if err != nil {
		return err
	}
	defer f.Close()

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		checkIn := r.CheckInTime
		data = append(data, []any{
			r.Name, r.Email, r.BranchAddress, fmtTime(&checkIn, loc),
			r.DistanceToBranch, r.Within400Meters,
			fmtTime(r.CheckOutTime, loc), deref(r.CheckOutDistanceToBranch), deref(r.IsWithin400m),
		})
	}
	if err := writeRows(f, SheetCheckIns, data); err != nil {
		return err
	}
	return f.Write(w)
}

// WriteSalesXLSX menulis workbook penjualan ke w.
func WriteSalesXLSX(w io.Writer, rows []dto.SaleRow, loc *time.Location) error {
	f, err := newWorkbook(SheetSales, salesHeader)
	if err != nil {
		return err
	}
	defer f.Close()

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		created := r.CreatedAt
		data = append(data, []any{
			r.UserName, r.UserEmail, r.CustomerName, r.CustomerPhone, r.AXAInsuranceCardSerial,
			deref(r.CustomerRemark), deref(r.Location), fmtTime(&created, loc),
		})
	}
	if err := writeRows(f, SheetSales, data); err != nil {
		return err
	}
	return f.Write(w)
}
