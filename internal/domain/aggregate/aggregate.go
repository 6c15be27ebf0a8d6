// Package aggregate builds the read-only medal and age tables the dashboard
// filters on every interaction.
package aggregate

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/alitto/pond/v2"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

const defaultConcurrency = 3

// ErrUnknownLevel is returned for an aggregation level that does not exist.
var ErrUnknownLevel = errors.New("unknown aggregation level")

// Level names one of the three grouping granularities.
type Level string

const (
	LevelCountry Level = "country"
	LevelSeason  Level = "season"
	LevelYear    Level = "year"
)

// ParseLevel maps a query value to a Level; empty means country.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case "", LevelCountry:
		return LevelCountry, nil
	case LevelSeason:
		return LevelSeason, nil
	case LevelYear:
		return LevelYear, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Tables holds the aggregates built once at startup. Nothing mutates them
// after Build returns.
type Tables struct {
	ByCountry           []types.MedalRow
	ByCountrySeason     []types.MedalRow
	ByCountrySeasonYear []types.MedalRow

	// Ages holds records with a known age, sorted by year ascending.
	Ages []types.AgeRow

	// Years are the distinct years of Ages, ascending.
	Years []int
}

// Level returns the table of the given granularity.
func (t *Tables) Level(level Level) ([]types.MedalRow, error) {
	switch level {
	case LevelCountry:
		return t.ByCountry, nil
	case LevelSeason:
		return t.ByCountrySeason, nil
	case LevelYear:
		return t.ByCountrySeasonYear, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// Option configures Build.
type Option func(*options)

type options struct {
	concurrency int
}

// WithConcurrency bounds the pool building the medal tables.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

type groupKey struct {
	noc    string
	season model.Season
	year   int
}

// Build produces the three medal tables and the age table from raw records.
func Build(ctx context.Context, records []model.Athlete, opts ...Option) (*Tables, error) {
	o := options{concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(&o)
	}

	pool := pond.NewResultPool[[]types.MedalRow](o.concurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	group.Submit(
		func() []types.MedalRow {
			return groupBy(records, func(a model.Athlete) groupKey {
				return groupKey{noc: a.NOC}
			})
		},
		func() []types.MedalRow {
			return groupBy(records, func(a model.Athlete) groupKey {
				return groupKey{noc: a.NOC, season: a.Season}
			})
		},
		func() []types.MedalRow {
			return groupBy(records, func(a model.Athlete) groupKey {
				return groupKey{noc: a.NOC, season: a.Season, year: a.Year}
			})
		},
	)

	ages := ageTable(records)

	results, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("build aggregates: %w", err)
	}

	return &Tables{
		ByCountry:           results[0],
		ByCountrySeason:     results[1],
		ByCountrySeasonYear: results[2],
		Ages:                ages,
		Years:               distinctYears(ages),
	}, nil
}

// groupBy sums the medal indicators per key. Groups without medals are kept.
func groupBy(records []model.Athlete, keyOf func(model.Athlete) groupKey) []types.MedalRow {
	index := make(map[groupKey]int)
	rows := make([]types.MedalRow, 0)

	for _, r := range records {
		k := keyOf(r)
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, types.MedalRow{NOC: k.noc, Season: string(k.season), Year: k.year})
		}
		gold, silver, bronze := r.Indicators()
		rows[i].TotalGold += gold
		rows[i].TotalSilver += silver
		rows[i].TotalBronze += bronze
	}

	for i := range rows {
		rows[i].TotalMedals = rows[i].TotalGold + rows[i].TotalSilver + rows[i].TotalBronze
	}

	slices.SortFunc(rows, compareRows)
	return rows
}

func compareRows(a, b types.MedalRow) int {
	if c := cmp.Compare(a.NOC, b.NOC); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Season, b.Season); c != 0 {
		return c
	}
	return cmp.Compare(a.Year, b.Year)
}

func ageTable(records []model.Athlete) []types.AgeRow {
	ages := make([]types.AgeRow, 0, len(records))
	for _, r := range records {
		if r.Age <= 0 {
			continue
		}
		ages = append(ages, types.AgeRow{
			Name:   r.Name,
			Sex:    string(r.Sex),
			Age:    r.Age,
			Season: string(r.Season),
			Year:   r.Year,
		})
	}
	slices.SortStableFunc(ages, func(a, b types.AgeRow) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return ages
}

// distinctYears relies on ages being sorted by year.
func distinctYears(ages []types.AgeRow) []int {
	years := make([]int, 0)
	for _, a := range ages {
		if n := len(years); n == 0 || years[n-1] != a.Year {
			years = append(years, a.Year)
		}
	}
	return years
}
