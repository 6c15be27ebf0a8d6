package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/adapters/http/api"
	"github.com/okian/podium/internal/config"
	"github.com/okian/podium/pkg/logger"
)

const athleteEvents = `"ID","Name","Sex","Age","Height","Weight","Team","NOC","Games","Year","Season","City","Sport","Event","Medal"
"1","A Dijiang","M",24,180,80,"China","CHN","1992 Summer",1992,"Summer","Barcelona","Basketball","Basketball Men's Basketball",NA
"2","Christine Jacoba Aaftink","F",21,185,82,"Netherlands","NED","1988 Winter",1988,"Winter","Calgary","Speed Skating","Speed Skating Women's 500 metres",Gold
"3","Unknown Age","M",NA,NA,NA,"Norway","NOR","1924 Winter",1924,"Winter","Chamonix","Ski Jumping","Ski Jumping Men's Normal Hill",Bronze
"4","Per Example","M",27,NA,NA,"Norway","NOR","1994 Winter",1994,"Winter","Lillehammer","Biathlon","Biathlon Men's 20 kilometres",Gold
"5","Anna Example","F",19,NA,NA,"United States","USA","1996 Summer",1996,"Summer","Atlanta","Swimming","Swimming Women's 100 metres Butterfly",Silver
`

func writeEvents(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "athlete_events.csv")
	if err := os.WriteFile(path, []byte(athleteEvents), 0o600); err != nil {
		t.Fatalf("write events: %v", err)
	}
	return path
}

func execute(ctx context.Context, args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	convey.Convey("Given an athlete events file", t, func() {
		t.Setenv("PODIUM_CONFIG", "")
		t.Setenv("PODIUM_DATA_PATH", writeEvents(t))
		ctx := context.Background()

		convey.Convey("When reporting medals by country", func() {
			out, err := execute(ctx, "report", "--no-color")

			convey.Convey("Then countries without medals should be left out", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "NED")
				convey.So(out, convey.ShouldContainSubstring, "NOR")
				convey.So(out, convey.ShouldContainSubstring, "USA")
				convey.So(out, convey.ShouldNotContainSubstring, "CHN")
				convey.So(out, convey.ShouldContainSubstring, "3 rows")
			})
		})

		convey.Convey("When reporting Winter Gold by year", func() {
			out, err := execute(ctx, "report", "--no-color", "--by", "year", "--season", "Winter", "--medal", "Gold")

			convey.Convey("Then only winning Winter years should be listed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "1988")
				convey.So(out, convey.ShouldContainSubstring, "1994")
				convey.So(out, convey.ShouldNotContainSubstring, "1924")
				convey.So(out, convey.ShouldContainSubstring, "2 rows")
			})
		})

		convey.Convey("When asking for the top country", func() {
			out, err := execute(ctx, "report", "--no-color", "--top", "1", "--medal", "Gold,Bronze")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "NOR")
			convey.So(out, convey.ShouldContainSubstring, "1 rows")
		})

		convey.Convey("When the level is unknown", func() {
			_, err := execute(ctx, "report", "--by", "continent")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a config file that does not exist", t, func() {
		_, err := execute(context.Background(), "report", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestServerAndProbe(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler over a loaded service", t, func() {
		convey.So(logger.Init(logger.WithWriter(os.Stderr)), convey.ShouldBeNil)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cfg := config.New()
		cfg.DataPath = writeEvents(t)
		svc, err := newService(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		srv := httptest.NewServer(newHandler(ctx, svc))
		defer srv.Close()

		convey.Convey("When requesting the health endpoint", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it should be ready and carry a request ID", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When requesting the dashboard page and the API docs", func() {
			for _, path := range []string{"/", "/api-docs", "/openapi.yaml"} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				_ = resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("When probing the server", func() {
			t.Setenv("PODIUM_CONFIG", "")
			out, err := execute(ctx, "probe", "--no-color", "--url", srv.URL, "--requests", "40", "--workers", "4", "--seed", "11")

			convey.Convey("Then every response should be consistent", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "seed 11")
				convey.So(out, convey.ShouldContainSubstring, "all responses consistent")
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given an unknown subcommand flag", t, func() {
		code := run(context.Background(), []string{"report", "--bogus"})
		convey.So(code, convey.ShouldEqual, exitCodeError)
	})
}
