// Package importer reads bin catalog entries from CSV and Excel sheets.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/drawerfit/internal/model"
)

// defaultHeight is used when a row has no height column or value.
const defaultHeight = 2.0

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Bins     []model.BinSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID     int
	Name   int
	Width  int
	Length int
	Height int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":     {"id", "bin id", "sku", "code", "part number", "part no"},
	"name":   {"name", "label", "description", "desc", "bin", "item"},
	"width":  {"width", "w", "x"},
	"length": {"length", "len", "l", "depth", "d", "y"},
	"height": {"height", "h", "z"},
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Import dispatches on the file extension.
func Import(path string) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		return ImportExcel(path)
	default:
		return ImportCSV(path)
	}
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or a default
// positional mapping (Name, Width, Length, Height, ID) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Name: -1, Width: -1, Length: -1, Height: -1}
	slots := map[string]*int{
		"id":     &mapping.ID,
		"name":   &mapping.Name,
		"width":  &mapping.Width,
		"length": &mapping.Length,
		"height": &mapping.Height,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias {
					isHeader = true
					if slot := slots[role]; *slot == -1 {
						*slot = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Name: 0, Width: 1, Length: 2, Height: 3, ID: 4}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseInches parses a dimension, tolerating a trailing inch mark or "in".
func parseInches(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimSuffix(strings.TrimSpace(s), "in")
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// deriveID builds a catalog id from the name, or from the size when unnamed.
func deriveID(name string, width, length float64) string {
	slug := strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug != "" {
		return slug
	}
	return fmt.Sprintf("bin-%gx%g", width, length)
}

// parseRow extracts a BinSpec from a row using the given column mapping.
// Returns the spec, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, limits model.Limits) (model.BinSpec, string, string) {
	widthStr := getCell(row, mapping.Width)
	if widthStr == "" {
		return model.BinSpec{}, fmt.Sprintf("%s: Missing width value", rowLabel), ""
	}
	width, err := parseInches(widthStr)
	if err != nil {
		return model.BinSpec{}, fmt.Sprintf("%s: Invalid width '%s'", rowLabel, widthStr), ""
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.BinSpec{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, err := parseInches(lengthStr)
	if err != nil {
		return model.BinSpec{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}

	width, length = model.RoundQuarter(width), model.RoundQuarter(length)
	if width < limits.MinBinDim || width > limits.MaxBinDim || length < limits.MinBinDim || length > limits.MaxBinDim {
		return model.BinSpec{}, fmt.Sprintf("%s: Width and length must be between %g and %g inches", rowLabel, limits.MinBinDim, limits.MaxBinDim), ""
	}

	var warning string
	height := defaultHeight
	if heightStr := getCell(row, mapping.Height); heightStr != "" {
		h, err := parseInches(heightStr)
		if err != nil || h <= 0 {
			warning = fmt.Sprintf("%s: Invalid height '%s', defaulting to %g", rowLabel, heightStr, defaultHeight)
		} else {
			height = h
		}
	}

	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("%g\" x %g\" bin", width, length)
	}
	id := getCell(row, mapping.ID)
	if id == "" {
		id = deriveID(getCell(row, mapping.Name), width, length)
	}

	return model.BinSpec{ID: id, Name: name, Width: width, Length: length, Height: height}, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports bins from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports bins from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports bins from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		if _, err := parseInches(rows[0][1]); err != nil {
			// Unrecognized header; keep positional mapping for the data rows.
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	limits := model.DefaultLimits()
	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		bin, errMsg, warning := parseRow(row, mapping, rowLabel, limits)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		if seen[bin.ID] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: Duplicate id '%s', skipping", rowLabel, bin.ID))
			continue
		}
		seen[bin.ID] = true

		result.Bins = append(result.Bins, bin)
	}

	return result
}
