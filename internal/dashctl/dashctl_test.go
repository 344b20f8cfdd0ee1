package dashctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/crossdash/internal/adapters/http/api"
	"github.com/okian/crossdash/internal/adapters/source"
	service "github.com/okian/crossdash/internal/app"
	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/internal/domain/types"
	"github.com/okian/crossdash/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func genConfig() GenConfig {
	return GenConfig{Rows: 200, Countries: 5, YearFrom: 2000, YearTo: 2005, Seed: 7}
}

func TestGenerate(t *testing.T) {
	Convey("Given a dataset description", t, func() {
		cfg := genConfig()

		Convey("Then the output parses into the requested rows", func() {
			var buf bytes.Buffer
			invalid, err := Generate(&buf, cfg)
			So(err, ShouldBeNil)
			So(invalid, ShouldEqual, 0)

			records, report, err := source.Parse(&buf, source.PolicyDrop)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 200)
			So(report.Invalid, ShouldEqual, 0)
			for _, r := range records {
				So(r.Sex, ShouldBeIn, model.Sexes)
				So(r.Year, ShouldBeBetweenOrEqual, 2000, 2005)
				So(r.Suicides, ShouldBeBetweenOrEqual, 0, 10000)
				So(r.UID, ShouldBeIn, countryCodes[:5])
			}
		})

		Convey("Then the same seed gives the same bytes", func() {
			var a, b bytes.Buffer
			_, errA := Generate(&a, cfg)
			_, errB := Generate(&b, cfg)
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(a.String(), ShouldEqual, b.String())

			cfg.Seed = 8
			var c bytes.Buffer
			_, _ = Generate(&c, cfg)
			So(c.String(), ShouldNotEqual, a.String())
		})

		Convey("When every row is marked invalid", func() {
			cfg.Invalid = 1
			var buf bytes.Buffer
			invalid, err := Generate(&buf, cfg)
			So(err, ShouldBeNil)
			So(invalid, ShouldEqual, 200)

			Convey("Then the drop policy removes all of them", func() {
				records, report, err := source.Parse(&buf, source.PolicyDrop)
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)
				So(report.Dropped, ShouldEqual, 200)
			})
		})

		Convey("When the config is unusable", func() {
			for _, bad := range []GenConfig{
				{Rows: -1, Countries: 1},
				{Rows: 1, Countries: 0},
				{Rows: 1, Countries: 1, YearFrom: 2001, YearTo: 2000},
				{Rows: 1, Countries: 1, Invalid: 1.5},
			} {
				_, err := Generate(&bytes.Buffer{}, bad)
				So(errors.Is(err, ErrBadGenConfig), ShouldBeTrue)
			}
		})

		Convey("Then country codes extend past the fixed list", func() {
			So(countryCode(0), ShouldEqual, "ALB")
			So(countryCode(25), ShouldEqual, "C025")
		})
	})
}

// newDashboard starts a real dashboard over a generated dataset.
func newDashboard(ctx context.Context, t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}
	if _, err := Generate(f, genConfig()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	_ = f.Close()

	loader, err := source.New(path)
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	svc := service.New(service.WithLoader(loader))
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := svc.SubmitAndWait(ctx, model.SetCountry("")); err != nil {
		t.Fatalf("settle: %v", err)
	}

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return httptest.NewServer(mux), svc
}

func TestClient(t *testing.T) {
	Convey("Given a running dashboard", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv, svc := newDashboard(ctx, t)
		defer srv.Close()
		defer svc.Stop()

		c := NewClient(&Config{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})

		Convey("Then health and state answer", func() {
			So(c.Health(ctx), ShouldBeNil)
			st, err := c.State(ctx)
			So(err, ShouldBeNil)
			So(st.Status, ShouldEqual, types.StatusReady)
			So(st.Records, ShouldEqual, 200)
		})

		Convey("When a country is set", func() {
			resp, err := c.SetCountry(ctx, "ALB")
			So(err, ShouldBeNil)
			So(resp.State.Filter.Country, ShouldEqual, "ALB")
			So(resp.State.Filtered, ShouldBeLessThan, 200)
		})

		Convey("When a toggle is retried with the same key", func() {
			first, err := c.Toggle(ctx, model.SlotSelectedSex, model.SexMale, "same")
			So(err, ShouldBeNil)
			second, err := c.Toggle(ctx, model.SlotSelectedSex, model.SexMale, "same")
			So(err, ShouldBeNil)

			Convey("Then it is applied once", func() {
				So(first.Duplicate, ShouldBeFalse)
				So(second.Duplicate, ShouldBeTrue)
				So(second.State.SelectedSexLabel, ShouldEqual, model.SexMale)
			})
		})

		Convey("When the key is unknown", func() {
			_, err := c.Toggle(ctx, model.SlotSelectedSex, "other", "")
			So(errors.Is(err, ErrRequest), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "400")
		})

		Convey("When the bench runs with repeated keys", func() {
			stats, err := Bench(ctx, c, BenchConfig{Toggles: 20, Workers: 4, Reuse: 5})
			So(err, ShouldBeNil)
			So(stats.Sent, ShouldEqual, 20)
			So(stats.Failed, ShouldEqual, 0)
			So(stats.Applied+stats.Duplicate+stats.Backpressure, ShouldEqual, 20)
			So(stats.Duplicate, ShouldEqual, 3)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given the command line", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		var stdout, stderr bytes.Buffer

		Convey("When no command is given", func() {
			err := Run(ctx, nil, &stdout, &stderr)
			So(errors.Is(err, ErrUsage), ShouldBeTrue)
			So(stderr.String(), ShouldContainSubstring, "Usage:")
		})

		Convey("When the command is unknown", func() {
			So(errors.Is(Run(ctx, []string{"launch"}, &stdout, &stderr), ErrUsage), ShouldBeTrue)
		})

		Convey("When help is asked for", func() {
			So(Run(ctx, []string{"help"}, &stdout, &stderr), ShouldBeNil)
			So(stdout.String(), ShouldContainSubstring, "dashctl gen")
		})

		Convey("When gen writes to a file", func() {
			out := filepath.Join(t.TempDir(), "gen.csv")
			So(Run(ctx, []string{"gen", "-rows", "10", "-o", out}, &stdout, &stderr), ShouldBeNil)
			data, err := os.ReadFile(out)
			So(err, ShouldBeNil)
			So(strings.Count(string(data), "\n"), ShouldEqual, 11)
		})

		Convey("When gen writes to stdout", func() {
			So(Run(ctx, []string{"gen", "-rows", "3"}, &stdout, &stderr), ShouldBeNil)
			So(stdout.String(), ShouldStartWith, "uid,sex,year,suicides,population\n")
		})

		Convey("When a gen flag is malformed", func() {
			So(errors.Is(Run(ctx, []string{"gen", "-rows", "many"}, &stdout, &stderr), ErrUsage), ShouldBeTrue)
		})

		Convey("When driving a dashboard", func() {
			srv, svc := newDashboard(ctx, t)
			defer srv.Close()
			defer svc.Stop()

			So(Run(ctx, []string{"country", "-url", srv.URL, "all"}, &stdout, &stderr), ShouldBeNil)
			So(Run(ctx, []string{"toggle", "-url", srv.URL, "female"}, &stdout, &stderr), ShouldBeNil)
			stdout.Reset()
			So(Run(ctx, []string{"state", "-url", srv.URL}, &stdout, &stderr), ShouldBeNil)

			var st types.State
			So(json.Unmarshal(stdout.Bytes(), &st), ShouldBeNil)
			So(st.Filter.Country, ShouldEqual, "")
			So(st.Filter.SelectedSex, ShouldEqual, model.SexFemale)

			So(errors.Is(Run(ctx, []string{"toggle", "-url", srv.URL}, &stdout, &stderr), ErrUsage), ShouldBeTrue)
			So(errors.Is(Run(ctx, []string{"country", "-url", srv.URL}, &stdout, &stderr), ErrUsage), ShouldBeTrue)
		})
	})
}

func TestSetupLogging(t *testing.T) {
	Convey("Given a log writer", t, func() {
		defer func() { _ = logger.Init() }()

		So(SetupLogging(nil, false), ShouldNotBeNil)

		var buf bytes.Buffer
		So(SetupLogging(&buf, false), ShouldBeNil)
		logger.Get().Info(context.Background(), "quiet")
		So(buf.Len(), ShouldEqual, 0)

		So(SetupLogging(&buf, true), ShouldBeNil)
		logger.Get().Debug(context.Background(), "loud")
		So(buf.String(), ShouldContainSubstring, "loud")
	})
}
