package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrSourceRead = errors.New("source read failed")

// Row maps a column header to the raw string value of one data line.
type Row map[string]string

func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// File is a handle on a delimited source file. Each call to Rows re-opens
// the file, so the row sequence is restartable.
type File struct {
	path string
}

func Open(path string) (*File, error) {
	cleaned := filepath.Clean(path)
	info, err := os.Stat(cleaned)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cleaned, ErrSourceRead)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", cleaned, ErrSourceRead)
	}
	return &File{path: cleaned}, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Rows() (*RowScanner, error) {
	handle, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.path, ErrSourceRead)
	}

	reader := csv.NewReader(handle)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		handle.Close()
		return nil, fmt.Errorf("reading header of %s: %w", f.path, ErrSourceRead)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &RowScanner{
		handle: handle,
		reader: reader,
		header: header,
	}, nil
}

// RowScanner iterates the data lines of a source file in order. A malformed
// line is skipped rather than terminating the scan.
type RowScanner struct {
	handle *os.File
	reader *csv.Reader
	header []string
	row    Row
	err    error
	done   bool
}

func (s *RowScanner) Next() bool {
	if s.done {
		return false
	}
	for {
		record, err := s.reader.Read()
		if err == io.EOF {
			s.close()
			return false
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			s.err = fmt.Errorf("reading %s: %w", s.handle.Name(), ErrSourceRead)
			s.close()
			return false
		}

		row := make(Row, len(s.header))
		for i, column := range s.header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		s.row = row
		return true
	}
}

func (s *RowScanner) Row() Row {
	return s.row
}

func (s *RowScanner) Err() error {
	return s.err
}

func (s *RowScanner) Close() error {
	return s.close()
}

func (s *RowScanner) close() error {
	if s.done {
		return nil
	}
	s.done = true
	return s.handle.Close()
}

// ReadAll drains the file into memory. Dedup decisions downstream need the
// whole row set before any write is issued.
func (f *File) ReadAll() ([]Row, error) {
	scanner, err := f.Rows()
	if err != nil {
		return nil, err
	}
	defer scanner.Close()

	var rows []Row
	for scanner.Next() {
		rows = append(rows, scanner.Row())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
