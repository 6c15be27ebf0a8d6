// Package source loads athlete-event records from the input file.
package source

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/okian/podium/internal/domain/model"
)

// Supported drivers.
const (
	DriverCSV    = "csv"
	DriverDuckDB = "duckdb"
)

// Required columns. Any other column in the file is ignored.
const (
	ColName   = "Name"
	ColSex    = "Sex"
	ColAge    = "Age"
	ColSeason = "Season"
	ColYear   = "Year"
	ColNOC    = "NOC"
	ColMedal  = "Medal"
)

var requiredColumns = []string{ColName, ColSex, ColAge, ColSeason, ColYear, ColNOC, ColMedal}

// Source yields every athlete record of the input once per Load.
type Source interface {
	Load(ctx context.Context) ([]model.Athlete, error)
	// Skipped is the number of malformed rows dropped by the last Load.
	Skipped() int
	Name() string
}

// New selects a Source by driver name.
func New(driver, path string, opts ...Option) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverCSV:
		return NewCSV(path, opts...), nil
	case DriverDuckDB:
		return NewDuckDB(path, opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// header maps required column names to their position.
type header map[string]int

func parseHeader(cols []string) (header, error) {
	h := make(header, len(requiredColumns))
	for i, c := range cols {
		// strip a UTF-8 BOM on the first column
		c = strings.TrimSpace(strings.TrimPrefix(c, "\ufeff"))
		if _, seen := h[c]; !seen {
			h[c] = i
		}
	}
	missing := make([]string, 0)
	for _, c := range requiredColumns {
		if _, ok := h[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return h, nil
}

func (h header) get(row []string, col string) string {
	i := h[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseRow converts one raw row. Age and Medal may be NA or empty; every
// other field must be valid or the row is rejected.
func (h header) parseRow(row []string) (model.Athlete, error) {
	sex, err := model.ParseSex(h.get(row, ColSex))
	if err != nil {
		return model.Athlete{}, err
	}
	season, err := model.ParseSeason(h.get(row, ColSeason))
	if err != nil {
		return model.Athlete{}, err
	}
	year, err := strconv.Atoi(h.get(row, ColYear))
	if err != nil || year <= 0 {
		return model.Athlete{}, fmt.Errorf("invalid year %q", h.get(row, ColYear))
	}
	noc := strings.ToUpper(h.get(row, ColNOC))
	if noc == "" {
		return model.Athlete{}, fmt.Errorf("empty NOC")
	}

	return model.Athlete{
		Name:   h.get(row, ColName),
		Sex:    sex,
		Age:    parseAge(h.get(row, ColAge)),
		Season: season,
		Year:   year,
		NOC:    noc,
		Medal:  model.ParseMedal(h.get(row, ColMedal)),
	}, nil
}

// parseAge returns 0 for unknown ages.
func parseAge(s string) int {
	if s == "" || strings.EqualFold(s, "NA") {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

// rowCollector accumulates parsed rows and counts the rejected ones.
type rowCollector struct {
	header  header
	records []model.Athlete
	skipped int
	onSkip  func(line int, err error)
}

func (c *rowCollector) add(line int, row []string) {
	a, err := c.header.parseRow(row)
	if err != nil {
		c.skip(line, err)
		return
	}
	c.records = append(c.records, a)
}

func (c *rowCollector) skip(line int, err error) {
	c.skipped++
	if c.onSkip != nil {
		c.onSkip(line, err)
	}
}

type skipCounter struct {
	n atomic.Int64
}

func (s *skipCounter) Skipped() int { return int(s.n.Load()) }
