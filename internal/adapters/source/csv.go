package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/okian/podium/internal/domain/model"
)

// CSVSource reads a comma separated file with a header row.
type CSVSource struct {
	skipCounter
	path     string
	settings settings
}

// NewCSV creates a CSV source for path.
func NewCSV(path string, opts ...Option) *CSVSource {
	s := &CSVSource{path: path}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

func (s *CSVSource) Name() string { return DriverCSV }

// Load reads the whole file.
func (s *CSVSource) Load(ctx context.Context) ([]model.Athlete, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	records, skipped, err := s.read(ctx, f)
	s.n.Store(int64(skipped))
	return records, err
}

func (s *CSVSource) read(ctx context.Context, r io.Reader) ([]model.Athlete, int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	cols, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: header: %w", ErrRead, err)
	}
	h, err := parseHeader(cols)
	if err != nil {
		return nil, 0, err
	}

	c := &rowCollector{header: h, onSkip: s.settings.onSkip}
	for n := 1; ; n++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				c.skip(perr.Line, err)
				continue
			}
			return nil, c.skipped, fmt.Errorf("%w: %w", ErrRead, err)
		}
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, c.skipped, err
			}
		}
		line, _ := cr.FieldPos(0)
		c.add(line, row)
	}
	return c.records, c.skipped, nil
}
