package constants

import (
	"path/filepath"
	"strings"
)

// Jenis file spreadsheet yang diterima untuk import cabang.
const (
	SheetUnknown = 0
	SheetXLSX    = 1
	SheetXLS     = 2
)

func DetectSheetTypeFromExt(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".xlsx", ".xlsm":
		return SheetXLSX
	case ".xls":
		return SheetXLS
	default:
		return SheetUnknown
	}
}
