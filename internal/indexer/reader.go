package indexer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"hadees/internal/constants"
)

const (
	colHadithID  = "hadith_id"
	colText      = "text_en"
	colSource    = "source"
	colChapter   = "chapter"
	colChapterNo = "chapter_no"
	colHadithNo  = "hadith_no"
)

// RequiredColumns - Header names the source table must carry.
var RequiredColumns = []string{colHadithID, colText, colSource, colChapter, colChapterNo, colHadithNo}

// SchemaError - The source table lacks required columns.
type SchemaError struct {
	Path    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}

// Table - Rows that passed validation plus what was dropped on the way.
type Table struct {
	Records    []constants.Record
	Rows       int
	EmptyIDs   int
	Duplicates int
}

// LoadRecords - Read a .csv or .xlsx hadith table. Rows with an empty hadith_id are dropped, as are repeats of an id.
func LoadRecords(path string) (*Table, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Path: path, Missing: RequiredColumns}
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Path: path, Missing: missing}
	}

	table := &Table{Rows: len(rows) - 1}
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i := columns[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		id := cell(colHadithID)
		if id == "" {
			table.EmptyIDs++
			continue
		}
		if _, dup := seen[id]; dup {
			table.Duplicates++
			continue
		}
		seen[id] = struct{}{}
		table.Records = append(table.Records, constants.Record{
			HadithID:  id,
			Text:      cell(colText),
			Source:    cell(colSource),
			Chapter:   cell(colChapter),
			ChapterNo: cell(colChapterNo),
			HadithNo:  cell(colHadithNo),
		})
	}
	return table, nil
}

func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readExcelRows(path)
	default:
		return readCSVRows(path)
	}
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
}

// readExcelRows - First sheet only.
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open source table: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
