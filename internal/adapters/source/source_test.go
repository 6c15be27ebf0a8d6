package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/adapters/source"
	"github.com/okian/podium/internal/domain/model"
)

const sampleCSV = `"ID","Name","Sex","Age","Height","Weight","Team","NOC","Games","Year","Season","City","Sport","Event","Medal"
"1","A Dijiang","M",24,180,80,"China","CHN","1992 Summer",1992,"Summer","Barcelona","Basketball","Basketball Men's Basketball",NA
"2","Christine Jacoba Aaftink","F",21,185,82,"Netherlands","NED","1988 Winter",1988,"Winter","Calgary","Speed Skating","Speed Skating Women's 500 metres",Gold
"3","Unknown Age","M",NA,NA,NA,"Norway","NOR","1924 Winter",1924,"Winter","Chamonix","Ski Jumping","Ski Jumping Men's Normal Hill",Bronze
"4","Bad Sex","X",30,NA,NA,"Norway","NOR","1924 Winter",1924,"Winter","Chamonix","Ski Jumping","Ski Jumping Men's Normal Hill",NA
"5","Bad Year","F",30,NA,NA,"Norway","NOR","19xx Winter",19xx,"Winter","Chamonix","Ski Jumping","Ski Jumping Men's Normal Hill",NA
"6","Bad Season","F",30,NA,NA,"Norway","NOR","1924 Autumn",1924,"Autumn","Chamonix","Ski Jumping","Ski Jumping Men's Normal Hill",NA
`

var want = []model.Athlete{
	{Name: "A Dijiang", Sex: model.SexMale, Age: 24, Season: model.SeasonSummer, Year: 1992, NOC: "CHN", Medal: model.MedalNone},
	{Name: "Christine Jacoba Aaftink", Sex: model.SexFemale, Age: 21, Season: model.SeasonWinter, Year: 1988, NOC: "NED", Medal: model.MedalGold},
	{Name: "Unknown Age", Sex: model.SexMale, Age: 0, Season: model.SeasonWinter, Year: 1924, NOC: "NOR", Medal: model.MedalBronze},
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "athlete_events.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCSVSource(t *testing.T) {
	Convey("Given a CSV file with valid and malformed rows", t, func() {
		path := writeFile(t, sampleCSV)
		var skippedLines []int
		src := source.NewCSV(path, source.WithSkipHook(func(line int, _ error) {
			skippedLines = append(skippedLines, line)
		}))

		Convey("When loading", func() {
			records, err := src.Load(context.Background())

			Convey("Then valid rows should be parsed and malformed rows skipped", func() {
				So(err, ShouldBeNil)
				So(cmp.Diff(want, records), ShouldBeEmpty)
				So(src.Skipped(), ShouldEqual, 3)
				So(skippedLines, ShouldResemble, []int{5, 6, 7})
				So(src.Name(), ShouldEqual, "csv")
			})
		})
	})

	Convey("Given a file with rows of the wrong width", t, func() {
		path := writeFile(t, "Name,Sex,Age,Season,Year,NOC,Medal\nA,M,20,Summer,2000,USA,Gold\nB,M,20\n")
		src := source.NewCSV(path)

		Convey("Then the short row should be skipped, not fatal", func() {
			records, err := src.Load(context.Background())
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(src.Skipped(), ShouldEqual, 1)
		})
	})

	Convey("Given a file missing required columns", t, func() {
		path := writeFile(t, "Name,Sex,Age,Year,NOC\nA,M,20,2000,USA\n")

		Convey("Then loading should fail naming the columns", func() {
			_, err := source.NewCSV(path).Load(context.Background())
			So(errors.Is(err, source.ErrMissingColumn), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Season, Medal")
		})
	})

	Convey("Given an empty file", t, func() {
		path := writeFile(t, "")

		Convey("Then loading should fail for the missing header", func() {
			_, err := source.NewCSV(path).Load(context.Background())
			So(errors.Is(err, source.ErrMissingColumn), ShouldBeTrue)
		})
	})

	Convey("Given a path that does not exist", t, func() {
		Convey("Then loading should fail with ErrOpen", func() {
			_, err := source.NewCSV(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
			So(errors.Is(err, source.ErrOpen), ShouldBeTrue)
		})
	})
}

func TestDuckDBSource(t *testing.T) {
	Convey("Given the same CSV file read through DuckDB", t, func() {
		path := writeFile(t, sampleCSV)
		src := source.NewDuckDB(path)

		Convey("When loading", func() {
			records, err := src.Load(context.Background())

			Convey("Then it should agree with the CSV driver", func() {
				So(err, ShouldBeNil)
				So(cmp.Diff(want, records), ShouldBeEmpty)
				So(src.Skipped(), ShouldEqual, 3)
				So(src.Name(), ShouldEqual, "duckdb")
			})
		})

		Convey("When the file does not exist", func() {
			_, err := source.NewDuckDB(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background())
			So(errors.Is(err, source.ErrOpen), ShouldBeTrue)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given driver names", t, func() {
		csvSrc, err := source.New("", "x.csv")
		So(err, ShouldBeNil)
		So(csvSrc.Name(), ShouldEqual, source.DriverCSV)

		duck, err := source.New("DuckDB", "x.csv")
		So(err, ShouldBeNil)
		So(duck.Name(), ShouldEqual, source.DriverDuckDB)

		_, err = source.New("parquet", "x.csv")
		So(errors.Is(err, source.ErrUnknownDriver), ShouldBeTrue)
	})
}
