package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by column header. Cell values are kept as
// raw strings; typed interpretation (dates, numbers) happens downstream.
type Row map[string]string

// ErrUnsupportedFormat is returned for file extensions outside the
// recognized set (.csv, .xls, .xlsx).
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ReadRows loads every data row from the uploaded file, dispatching on the
// file extension. The whole batch is read eagerly; expected batches are tens
// to low hundreds of rows.
func ReadRows(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVRows(path)
	case ".xlsx":
		return readExcelRows(path)
	case ".xls":
		return readLegacyExcelRows(path)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readCSVRows(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, rowFromRecord(headers, record))
	}

	return rows, nil
}

func readExcelRows(path string) ([]Row, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in excel file")
	}

	cells, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read excel rows: %w", err)
	}

	return rowsFromCells(cells), nil
}

// readLegacyExcelRows handles the binary BIFF workbooks that predate the
// OOXML format; excelize cannot open those.
func readLegacyExcelRows(path string) ([]Row, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xls file: %w", err)
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, errors.New("no sheets found in excel file")
	}

	var cells [][]string
	for i := 0; i < sheet.GetNumberRows(); i++ {
		row, err := sheet.GetRow(i)
		if err != nil {
			return nil, fmt.Errorf("read xls row: %w", err)
		}
		var record []string
		for _, col := range row.GetCols() {
			record = append(record, col.GetString())
		}
		cells = append(cells, record)
	}

	return rowsFromCells(cells), nil
}

// rowsFromCells maps a header row plus data rows into keyed rows.
func rowsFromCells(cells [][]string) []Row {
	if len(cells) == 0 {
		return nil
	}

	headers := cells[0]
	var rows []Row
	for _, record := range cells[1:] {
		rows = append(rows, rowFromRecord(headers, record))
	}

	return rows
}

func rowFromRecord(headers, record []string) Row {
	row := Row{}
	for i, header := range headers {
		if header == "" {
			continue
		}
		if i < len(record) {
			row[header] = record[i]
		} else {
			// Trailing empty cells are dropped by some readers.
			row[header] = ""
		}
	}
	return row
}
