// Package ingest converts uploaded documents (JSON, XLSX, PDF) into the
// inventory and knowledge-base records that ground the chatbot's answers.
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFileType is returned for any extension other than
// .json, .xlsx, or .pdf.
var ErrUnsupportedFileType = errors.New("unsupported file type: please upload .json, .xlsx, or .pdf")

// Record is one inventory or knowledge-base row. Well-known fields
// (AppName, Error, Solution, ManagerContact, ...) are looked up by name;
// any extra column is allowed and carried along verbatim.
type Record map[string]any

// Field returns the named field as a string, or "" when absent.
func (r Record) Field(name string) string {
	if v, ok := r[name]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// AppData is the grounding dataset handed to the answer engine: structured
// inventory and knowledge-base records, or raw document text when no
// structure was detected. It is read-only once built.
type AppData struct {
	Inventory     []Record `json:"inventory"`
	KnowledgeBase []Record `json:"knowledgeBase"`
	RawText       string   `json:"rawText,omitempty"`
	IsDefault     bool     `json:"isDefault,omitempty"`
}

// Parse decodes an uploaded document into AppData, dispatching on the file
// extension.
func Parse(filename string, data []byte) (*AppData, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "json":
		return parseJSON(data)
	case "xlsx":
		return parseWorkbook(data)
	case "pdf":
		return parsePDF(data)
	default:
		return nil, ErrUnsupportedFileType
	}
}

// parseJSON expects the record sets directly: {"inventory": [...], "knowledgeBase": [...]}.
func parseJSON(data []byte) (*AppData, error) {
	var parsed AppData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON file: %w", err)
	}
	if parsed.Inventory == nil {
		parsed.Inventory = []Record{}
	}
	if parsed.KnowledgeBase == nil {
		parsed.KnowledgeBase = []Record{}
	}
	parsed.RawText = ""
	parsed.IsDefault = false
	return &parsed, nil
}

// parseWorkbook routes sheets by name keyword: a sheet whose name contains
// "inventory" feeds the inventory set, "knowledge" or "kb" the knowledge
// base. When no keyword matches, the first sheet falls back to inventory
// and the second to the knowledge base.
func parseWorkbook(data []byte) (*AppData, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			log.Printf("Error closing workbook: %v", err)
		}
	}()

	sheetNames := workbook.GetSheetList()

	var inventory, knowledgeBase []Record
	matched := false
	for _, sheetName := range sheetNames {
		lowerName := strings.ToLower(sheetName)

		switch {
		case strings.Contains(lowerName, "inventory"):
			inventory, err = sheetRecords(workbook, sheetName)
			matched = true
		case strings.Contains(lowerName, "knowledge") || strings.Contains(lowerName, "kb"):
			knowledgeBase, err = sheetRecords(workbook, sheetName)
			matched = true
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
	}

	// Positional fallback when no sheet name matched a keyword.
	if !matched {
		if len(sheetNames) > 0 {
			inventory, err = sheetRecords(workbook, sheetNames[0])
			if err != nil {
				return nil, fmt.Errorf("failed to read sheet %q: %w", sheetNames[0], err)
			}
		}
		if len(sheetNames) > 1 {
			knowledgeBase, err = sheetRecords(workbook, sheetNames[1])
			if err != nil {
				return nil, fmt.Errorf("failed to read sheet %q: %w", sheetNames[1], err)
			}
		}
	}

	if inventory == nil {
		inventory = []Record{}
	}
	if knowledgeBase == nil {
		knowledgeBase = []Record{}
	}
	return &AppData{Inventory: inventory, KnowledgeBase: knowledgeBase}, nil
}

// sheetRecords maps a sheet to records: first row = field names, each later
// row = one record. Cells beyond the header width are ignored; missing
// trailing cells are left out of the record.
func sheetRecords(workbook *excelize.File, sheetName string) ([]Record, error) {
	rows, err := workbook.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil // header only, or empty sheet
	}

	headers := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := Record{}
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			record[headers[i]] = cell
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	return records, nil
}

// parsePDF extracts the plain text of every page into RawText, leaving the
// record sets empty.
func parsePDF(data []byte) (*AppData, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var fullText strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("Failed to extract text from PDF page %d: %v. Skipping.", pageNum, err)
			continue
		}
		fmt.Fprintf(&fullText, "\n--- Page %d ---\n%s", pageNum, pageText)
	}

	return &AppData{
		Inventory:     []Record{},
		KnowledgeBase: []Record{},
		RawText:       fullText.String(),
	}, nil
}
