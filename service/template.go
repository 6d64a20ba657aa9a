package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MKato2361/Report-maker-V3/model"
)

// SheetName is the report sheet in the .xlsm template; falls back to the
// active sheet when a template was renamed.
const SheetName = "緊急出動報告書（リンク付き）"

// FilenamePrefix and FileExtension shape generated download names.
const (
	FilenamePrefix = "緊急出動報告書"
	FileExtension  = ".xlsm"
	// ContentType is the macro-enabled workbook MIME type.
	ContentType = "application/vnd.ms-excel.sheet.macroEnabled.12"
)

// Fixed cell addresses on the report sheet.
var scalarCells = map[string]string{
	model.KeyManagementID: "C12",
	model.KeyMaker:        "J12",
	model.KeyControlType:  "M12",
	model.KeyCaller:       "C14",
	model.KeyResponder:    "L37",
}

// datetime blocks: one row each, components across fixed columns.
var datetimeBlocks = []struct {
	key string
	row int
}{
	{model.KeyReceivedAt, 13},
	{model.KeyArrivedAt, 19},
	{model.KeyCompletedAt, 36},
}

// multiline blocks: consecutive cells down column C.
var multilineBlocks = []struct {
	key      string
	startRow int
	maxLines int
}{
	{model.KeyReceivedContent, 15, 4},
	{model.KeyArrivalStatus, 20, 5},
	{model.KeyCause, 25, 5},
	{model.KeyActionTaken, 30, 5},
}

// FillTemplate writes rec into the template workbook and returns the new
// workbook bytes. The template is only touched at the designated cells; VBA
// and everything else pass through untouched.
func FillTemplate(templateBytes []byte, rec model.Record) ([]byte, error) {
	if len(templateBytes) == 0 {
		return nil, fmt.Errorf("%w: template bytes are empty", ErrTemplateMalformed)
	}

	f, err := excelize.OpenReader(bytes.NewReader(templateBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateMalformed, err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}

	for key, cell := range scalarCells {
		if v := rec[key]; v != "" {
			f.SetCellValue(sheet, cell, v)
		}
	}
	if v := strings.TrimSpace(rec[model.KeyPostRepairNote]); v != "" {
		f.SetCellValue(sheet, "C35", v)
	}
	if v := rec[model.KeyAffiliation]; v != "" {
		f.SetCellValue(sheet, "C37", v)
	}

	// Issue date is always today, regardless of the record.
	now := nowJST()
	f.SetCellValue(sheet, "B5", now.Year())
	f.SetCellValue(sheet, "D5", int(now.Month()))
	f.SetCellValue(sheet, "F5", now.Day())

	for _, blk := range datetimeBlocks {
		writeDateTimeBlock(f, sheet, blk.row, rec[blk.key])
	}

	for _, blk := range multilineBlocks {
		writeMultiline(f, sheet, "C", blk.startRow, rec[blk.key], blk.maxLines)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return buf.Bytes(), nil
}

// writeDateTimeBlock writes the parsed components of value across one row.
// Cells for components that did not parse are left as the template has them.
func writeDateTimeBlock(f *excelize.File, sheet string, row int, value string) {
	parts, ok := SplitComponents(ParseDateTime(value))
	if !ok {
		return
	}
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), parts.Year)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), parts.Month)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", row), parts.Day)
	f.SetCellValue(sheet, fmt.Sprintf("J%d", row), parts.Weekday)
	f.SetCellValue(sheet, fmt.Sprintf("M%d", row), fmt.Sprintf("%02d", parts.Hour))
	f.SetCellValue(sheet, fmt.Sprintf("O%d", row), fmt.Sprintf("%02d", parts.Minute))
}

// writeMultiline clears the candidate cells then writes the capped lines.
func writeMultiline(f *excelize.File, sheet, col string, startRow int, text string, maxLines int) {
	for i := 0; i < maxLines; i++ {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, startRow+i), "")
	}
	for i, line := range SplitLines(text, maxLines) {
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, startRow+i), line)
	}
}

// BuildFilename derives the download name from the record:
// 緊急出動報告書_<管理番号|UNKNOWN>[_<物件名>]_<YYYYMMDD>.xlsm. The date is the
// first parseable of arrival, completion and reception, else today.
func BuildFilename(rec model.Record) string {
	baseDay := FirstDateYYYYMMDD(
		rec[model.KeyArrivedAt],
		rec[model.KeyCompletedAt],
		rec[model.KeyReceivedAt],
	)

	manageNo := strings.TrimSpace(rec[model.KeyManagementID])
	if manageNo == "" {
		manageNo = "UNKNOWN"
	}
	manageNo = SanitizeFilename(manageNo)

	property := SanitizeFilename(strings.TrimSpace(rec[model.KeyPropertyName]))
	if property == "" {
		return fmt.Sprintf("%s_%s_%s%s", FilenamePrefix, manageNo, baseDay, FileExtension)
	}
	return fmt.Sprintf("%s_%s_%s_%s%s", FilenamePrefix, manageNo, property, baseDay, FileExtension)
}
