// Package export serializes model results to CSV for offline analysis.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/iburimskiy/loomgen/internal/stimulus"
)

// Header returns the canonical column list for a model kind. The distance
// column only exists for constant-speed results; a diameter model has no
// physical approach distance to report.
func Header(kind stimulus.ModelKind) []string {
	if kind.HasDistance() {
		return []string{"frame", "time", "distance", "diameter_on_screen"}
	}
	return []string{"frame", "time", "diameter_on_screen"}
}

// Writer is a buffered, concurrency-safe CSV writer.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
	csv  *csv.Writer
	rows uint64
}

// NewWriter creates the file and writes the header row.
func NewWriter(path string, header []string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv create %s: %w", path, err)
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	cw := csv.NewWriter(bw)

	w := &Writer{file: f, buf: bw, csv: cw}
	if err := cw.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv write header: %w", err)
	}
	return w, nil
}

// WriteRow appends one data row.
func (w *Writer) WriteRow(row []string) {
	w.mu.Lock()
	_ = w.csv.Write(row) // error surfaces on Close
	w.rows++
	w.mu.Unlock()
}

// Rows returns the number of data rows written (excludes header).
func (w *Writer) Rows() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Close flushes buffers and closes the file, reporting any deferred write
// error.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("csv flush: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("csv flush: %w", err)
	}
	return w.file.Close()
}

// WriteResult writes a whole model result to path, one row per frame.
func WriteResult(path string, res *stimulus.Result) error {
	w, err := NewWriter(path, Header(res.Kind))
	if err != nil {
		return err
	}
	withDistance := res.Kind.HasDistance()
	for _, f := range res.Frames {
		row := make([]string, 0, 4)
		row = append(row, strconv.Itoa(f.Index), formatFloat(f.Time))
		if withDistance {
			row = append(row, formatFloat(f.Distance))
		}
		row = append(row, formatFloat(f.Diameter))
		w.WriteRow(row)
	}
	return w.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
