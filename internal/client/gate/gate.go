// Package gate decides whether a dataset may be sent for processing with the
// current token balance.
package gate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/hmpi/internal/logging"
	"github.com/dmitrijs2005/hmpi/internal/tokens"
	"github.com/xuri/excelize/v2"
)

// MaxFileSize is the largest dataset the backend accepts.
const MaxFileSize = 10 << 20

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// Candidate is a validated file waiting to be processed.
type Candidate struct {
	Path   string
	Name   string
	Format Format
	Size   int64

	// Rows is the number of data rows, header excluded. It is zero when
	// RowsKnown is false.
	Rows      int
	RowsKnown bool

	Required int
}

// Open returns a reader over the candidate's content.
func (c *Candidate) Open() (io.ReadCloser, error) {
	return os.Open(c.Path)
}

type Gate struct {
	log logging.Logger
}

func New(log logging.Logger) *Gate {
	return &Gate{log: log}
}

// Inspect validates the file at path and estimates its row count and cost.
func (g *Gate) Inspect(ctx context.Context, path string) (*Candidate, error) {
	name := filepath.Base(path)
	format, err := formatOf(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w (%s is %d bytes)", ErrFileTooLarge, name, info.Size())
	}

	c := &Candidate{Path: path, Name: name, Format: format, Size: info.Size()}

	switch format {
	case FormatCSV:
		c.Rows, err = countCSVRows(path)
		c.RowsKnown = true
	case FormatXLSX:
		c.Rows, err = countXLSXRows(path)
		c.RowsKnown = true
	default:
		g.log.Warn(ctx, "row count unknown, processing cost is checked by the backend", "file", name, "format", format)
	}
	if err != nil {
		return nil, fmt.Errorf("count rows of %s: %w", name, err)
	}

	c.Required = tokens.Required(c.Rows)
	return c, nil
}

func formatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return "", fmt.Errorf("%w (%s)", ErrInvalidFileType, name)
}

// countCSVRows counts non-blank lines minus the header. Quoted fields with
// embedded newlines are counted per physical line, as the backend does not
// see them either until it parses the file.
func countCSVRows(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), MaxFileSize+1)

	lines := 0
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			lines++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return max(0, lines-1), nil
}

// countXLSXRows counts non-empty rows of the first sheet minus the header.
func countXLSXRows(path string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, nil
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return 0, err
		}
		for _, v := range cols {
			if strings.TrimSpace(v) != "" {
				n++
				break
			}
		}
	}
	if err := rows.Error(); err != nil {
		return 0, err
	}
	return max(0, n-1), nil
}
