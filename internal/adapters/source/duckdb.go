package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/okian/podium/internal/domain/model"
)

// DuckDBSource reads the same file through DuckDB's CSV reader in an
// in-memory database. Every column is read as text so that row validation
// is shared with CSVSource.
type DuckDBSource struct {
	skipCounter
	path     string
	settings settings
}

// NewDuckDB creates a DuckDB backed source for path.
func NewDuckDB(path string, opts ...Option) *DuckDBSource {
	s := &DuckDBSource{path: path}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

func (s *DuckDBSource) Name() string { return DriverDuckDB }

// Load queries the file with read_csv.
func (s *DuckDBSource) Load(ctx context.Context) ([]model.Athlete, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("%w: open duckdb: %w", ErrOpen, err)
	}
	defer db.Close()

	query := fmt.Sprintf(
		`SELECT * FROM read_csv(%s, header = true, delim = ',', quote = '"', all_varchar = true, nullstr = ['NA', ''])`,
		quoteLiteral(s.path))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns: %w", ErrRead, err)
	}
	h, err := parseHeader(cols)
	if err != nil {
		return nil, err
	}

	c := &rowCollector{header: h, onSkip: s.settings.onSkip}
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	row := make([]string, len(cols))

	// line 1 is the header
	for line := 2; rows.Next(); line++ {
		if err := rows.Scan(dest...); err != nil {
			c.skip(line, err)
			continue
		}
		for i, v := range values {
			row[i] = v.String
		}
		c.add(line, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	s.n.Store(int64(c.skipped))
	return c.records, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
