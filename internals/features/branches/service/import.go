package service

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"canvassers_backend/internals/constants"
	"canvassers_backend/internals/features/branches/dto"
	"canvassers_backend/internals/features/branches/model"
	"canvassers_backend/internals/features/geo"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const maxImportRows = 10000

// ReadSheetRows membaca sheet pertama dari file .xlsx atau .xls.
func ReadSheetRows(r io.Reader, filename string) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	switch constants.DetectSheetTypeFromExt(filename) {
	case constants.SheetXLS:
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, err
		}
		if wb.NumSheets() == 0 {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows := wb.ReadAllCells(maxImportRows)
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	case constants.SheetXLSX:
		f, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		sheet := f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("no worksheet found")
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("worksheet is empty")
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q, upload .xlsx or .xls", filename)
	}
}

// ParseBranchRows mengubah baris sheet (header: address, lat, long) menjadi model cabang.
// Baris invalid dilewati dan dilaporkan; address duplikat memakai baris terakhir.
func ParseBranchRows(rows [][]string) ([]model.BranchModel, []dto.ImportRowError, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("worksheet is empty")
	}

	idx := map[string]int{"address": -1, "lat": -1, "long": -1}
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "address", "branch", "name":
			if idx["address"] < 0 {
				idx["address"] = i
			}
		case "lat", "latitude":
			idx["lat"] = i
		case "long", "lng", "lon", "longitude":
			idx["long"] = i
		}
	}
	for k, v := range idx {
		if v < 0 {
			return nil, nil, fmt.Errorf("missing %q column in header row", k)
		}
	}

	var (
		out     []model.BranchModel
		skipped []dto.ImportRowError
		seen    = map[string]int{}
	)
	for i, row := range rows[1:] {
		line := i + 2
		address := cell(row, idx["address"])
		if address == "" {
			if isBlank(row) {
				continue
			}
			skipped = append(skipped, dto.ImportRowError{Row: line, Message: "address is empty"})
			continue
		}
		lat, errLat := strconv.ParseFloat(cell(row, idx["lat"]), 64)
		long, errLong := strconv.ParseFloat(cell(row, idx["long"]), 64)
		if errLat != nil || errLong != nil {
			skipped = append(skipped, dto.ImportRowError{Row: line, Message: "lat/long must be numbers"})
			continue
		}
		if err := (geo.Coordinate{Latitude: lat, Longitude: long}).Validate(); err != nil {
			skipped = append(skipped, dto.ImportRowError{Row: line, Message: err.Error()})
			continue
		}

		b := model.BranchModel{Address: address, Lat: lat, Long: long}
		key := normalizeAddress(address)
		if pos, ok := seen[key]; ok {
			out[pos] = b
			continue
		}
		seen[key] = len(out)
		out = append(out, b)
	}
	return out, skipped, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
