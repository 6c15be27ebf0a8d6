package probe

import (
	"fmt"
	"strconv"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/types"
)

// Verify checks one dataset response against the request that produced it
// and returns every broken property.
func Verify(req Request, res filter.Result) []Violation {
	st, err := filter.Parse(req.Season, req.Gender, req.Year, strconv.Itoa(req.Threshold), req.Medals)
	if err != nil {
		return []Violation{{Request: req, Row: -1, Reason: fmt.Sprintf("request not parseable: %v", err)}}
	}

	var out []Violation
	add := func(dataset string, row int, format string, args ...any) {
		out = append(out, Violation{Request: req, Dataset: dataset, Row: row, Reason: fmt.Sprintf(format, args...)})
	}

	if diff := cmp.Diff(res.Geo, res.Map, cmpopts.EquateEmpty()); diff != "" {
		add("map", -1, "map differs from geo (-geo +map):\n%s", diff)
	}

	for i, row := range res.Geo {
		if row.TotalMedals <= st.Threshold {
			add("geo", i, "%s has %d medals, not above threshold %d", row.NOC, row.TotalMedals, st.Threshold)
		}
		if want := checkedTotal(row, st); row.TotalMedals != want {
			add("geo", i, "%s total %d, checked medals sum to %d", row.NOC, row.TotalMedals, want)
		}
		if st.Season != filter.SeasonBoth && row.Season != "" && row.Season != string(st.Season) {
			add("geo", i, "%s has season %s, want %s", row.NOC, row.Season, st.Season)
		}
	}

	for i, a := range res.Ages {
		if a.Age <= 0 {
			add("ages", i, "%s has age %d", a.Name, a.Age)
		}
		if i > 0 && a.Year < res.Ages[i-1].Year {
			add("ages", i, "year %d follows %d", a.Year, res.Ages[i-1].Year)
		}
		if st.Gender != filter.GenderBoth && a.Sex != string(st.Gender) {
			add("ages", i, "%s has sex %s, want %s", a.Name, a.Sex, st.Gender)
		}
		if st.Season != filter.SeasonBoth && a.Season != string(st.Season) {
			add("ages", i, "%s has season %s, want %s", a.Name, a.Season, st.Season)
		}
		if st.Year != 0 && a.Year != st.Year {
			add("ages", i, "%s has year %d, want %d", a.Name, a.Year, st.Year)
		}
	}

	return out
}

func checkedTotal(row types.MedalRow, st filter.State) int {
	medals := st.Medals
	if len(medals) == 0 {
		medals = model.AllMedals
	}
	total := 0
	for _, m := range medals {
		switch m {
		case model.MedalGold:
			total += row.TotalGold
		case model.MedalSilver:
			total += row.TotalSilver
		case model.MedalBronze:
			total += row.TotalBronze
		}
	}
	return total
}
