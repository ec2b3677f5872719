package importer

import (
	"fmt"
	"log"
	"os"
)

// Error preview returned to the caller is capped; the counters always
// reflect the full batch.
const errorPreviewLimit = 10

// Summary is the response shape consumed by the UI after a bulk import.
type Summary struct {
	Message       string   `json:"message"`
	SuccessCount  int      `json:"successCount"`
	ErrorCount    int      `json:"errorCount"`
	Errors        []string `json:"errors"`
	TotalRows     int      `json:"totalRows"`
	ProcessedRows int      `json:"processedRows"`
}

// RowFunc validates and persists one row. A non-nil error marks the row as
// failed; the batch continues with the next row.
type RowFunc func(row Row, line int) error

// Run reads the uploaded file and feeds every row through fn in source
// order. Rows are processed strictly sequentially so that an entity created
// by row N is visible to later rows referencing it. The temporary file is
// removed whether the import succeeds, partially fails, or aborts.
//
// Only an unreadable or unsupported source file aborts the whole import.
func Run(path, message string, fn RowFunc) (*Summary, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove uploaded file %s: %v", path, err)
		}
	}()

	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}

	return RunRows(rows, message, fn), nil
}

// RunRows drives an already-materialized batch, e.g. a manual JSON import.
func RunRows(rows []Row, message string, fn RowFunc) *Summary {
	var errs []string
	success := 0

	for i, row := range rows {
		if err := fn(row, i+1); err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		success++
	}

	preview := errs
	if len(preview) > errorPreviewLimit {
		preview = preview[:errorPreviewLimit]
	}
	if preview == nil {
		preview = []string{}
	}

	return &Summary{
		Message:       message,
		SuccessCount:  success,
		ErrorCount:    len(errs),
		Errors:        preview,
		TotalRows:     len(rows),
		ProcessedRows: len(rows),
	}
}
