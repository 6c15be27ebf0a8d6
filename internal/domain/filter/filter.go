// Package filter implements the per-interaction filter-and-select step: a
// pure function from the dashboard control values to the three datasets.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/podium/internal/domain/aggregate"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// ErrInvalidFilter wraps every control value that cannot be parsed.
var ErrInvalidFilter = errors.New("invalid filter")

// SeasonChoice is the season control value.
type SeasonChoice string

const (
	SeasonSummer SeasonChoice = "Summer"
	SeasonWinter SeasonChoice = "Winter"
	SeasonBoth   SeasonChoice = "Both"
)

// GenderChoice is the gender control value.
type GenderChoice string

const (
	GenderMale   GenderChoice = "M"
	GenderFemale GenderChoice = "F"
	GenderBoth   GenderChoice = "B"
)

// AllYears is the year control value that disables year filtering.
const AllYears = "All"

// State holds the five dashboard control values. Year is 0 for All. Medals
// keeps the selection order and is never empty after Parse.
type State struct {
	Season    SeasonChoice
	Gender    GenderChoice
	Year      int
	Threshold int
	Medals    []model.Medal
}

// DefaultState is the initial dashboard state.
func DefaultState() State {
	return State{
		Season:    SeasonBoth,
		Gender:    GenderBoth,
		Threshold: 0,
		Medals:    slices.Clone(model.AllMedals),
	}
}

// Parse builds a State from raw control values. Empty values take defaults;
// an empty medal list means all three.
func Parse(season, gender, year, threshold string, medals []string) (State, error) {
	st := DefaultState()

	switch strings.ToLower(strings.TrimSpace(season)) {
	case "", "both":
		st.Season = SeasonBoth
	case "summer":
		st.Season = SeasonSummer
	case "winter":
		st.Season = SeasonWinter
	default:
		return State{}, fmt.Errorf("%w: season %q", ErrInvalidFilter, season)
	}

	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "", "b", "both":
		st.Gender = GenderBoth
	case "m":
		st.Gender = GenderMale
	case "f":
		st.Gender = GenderFemale
	default:
		return State{}, fmt.Errorf("%w: gender %q", ErrInvalidFilter, gender)
	}

	if y := strings.TrimSpace(year); y != "" && !strings.EqualFold(y, AllYears) {
		v, err := strconv.Atoi(y)
		if err != nil || v <= 0 {
			return State{}, fmt.Errorf("%w: year %q", ErrInvalidFilter, year)
		}
		st.Year = v
	}

	if th := strings.TrimSpace(threshold); th != "" {
		v, err := strconv.Atoi(th)
		if err != nil {
			return State{}, fmt.Errorf("%w: threshold %q", ErrInvalidFilter, threshold)
		}
		st.Threshold = v
	}

	selected := make([]model.Medal, 0, len(model.AllMedals))
	for _, raw := range medals {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			m := model.ParseMedal(part)
			if !model.IsMedal(m) {
				return State{}, fmt.Errorf("%w: medal %q", ErrInvalidFilter, part)
			}
			if !slices.Contains(selected, m) {
				selected = append(selected, m)
			}
		}
	}
	if len(selected) > 0 {
		st.Medals = selected
	}

	return st, nil
}

// Key is a canonical identifier of the state, independent of medal order.
func (s State) Key() string {
	medals := make([]string, 0, len(s.Medals))
	for _, m := range model.AllMedals {
		if s.includes(m) {
			medals = append(medals, string(m))
		}
	}
	return fmt.Sprintf("season=%s|gender=%s|year=%d|threshold=%d|medals=%s",
		s.Season, s.Gender, s.Year, s.Threshold, strings.Join(medals, ","))
}

// MedalLabel joins the selected medals in selection order, e.g. "Gold, Silver".
func (s State) MedalLabel() string {
	medals := s.medals()
	parts := make([]string, len(medals))
	for i, m := range medals {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}

// YearLabel is the year as shown in titles: a number or All.
func (s State) YearLabel() string {
	if s.Year == 0 {
		return AllYears
	}
	return strconv.Itoa(s.Year)
}

func (s State) medals() []model.Medal {
	if len(s.Medals) == 0 {
		return model.AllMedals
	}
	return s.Medals
}

func (s State) includes(m model.Medal) bool {
	return slices.Contains(s.medals(), m)
}

// Result holds the three datasets handed to chart construction, in order.
type Result struct {
	Geo  []types.MedalRow `json:"geo"`
	Map  []types.MedalRow `json:"map"`
	Ages []types.AgeRow   `json:"ages"`
}

// Apply filters the read-only tables for one interaction. The tables are
// never modified; every returned medal row is a fresh copy.
func Apply(tables *aggregate.Tables, st State) Result {
	medals := SelectMedals(tables, st)
	return Result{
		Geo:  medals,
		Map:  medals,
		Ages: SelectAges(tables.Ages, st),
	}
}

// SelectMedals picks the base table by season and hands it to Select.
func SelectMedals(tables *aggregate.Tables, st State) []types.MedalRow {
	base := tables.ByCountry
	if st.Season != SeasonBoth && st.Season != "" {
		base = tables.ByCountrySeason
	}
	return Select(base, st)
}

// Select recomputes total_medals from the checked medal columns only and
// keeps rows strictly above the threshold. Rows carrying a season other than
// the chosen one are dropped; rows without a season always match.
func Select(rows []types.MedalRow, st State) []types.MedalRow {
	gold, silver, bronze := st.includes(model.MedalGold), st.includes(model.MedalSilver), st.includes(model.MedalBronze)
	bySeason := st.Season != SeasonBoth && st.Season != ""

	out := make([]types.MedalRow, 0, len(rows))
	for _, row := range rows {
		if bySeason && row.Season != "" && row.Season != string(st.Season) {
			continue
		}
		total := 0
		if gold {
			total += row.TotalGold
		}
		if silver {
			total += row.TotalSilver
		}
		if bronze {
			total += row.TotalBronze
		}
		if total <= st.Threshold {
			continue
		}
		r := row
		r.TotalMedals = total
		out = append(out, r)
	}
	return out
}

// SelectAges filters the age table by gender, season and year. The order of
// the input, ascending by year, is preserved.
func SelectAges(ages []types.AgeRow, st State) []types.AgeRow {
	out := make([]types.AgeRow, 0, len(ages))
	for _, a := range ages {
		if st.Gender != GenderBoth && st.Gender != "" && a.Sex != string(st.Gender) {
			continue
		}
		if st.Season != SeasonBoth && st.Season != "" && a.Season != string(st.Season) {
			continue
		}
		if st.Year != 0 && a.Year != st.Year {
			continue
		}
		out = append(out, a)
	}
	return out
}
