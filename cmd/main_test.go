package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	app "github.com/okian/crossdash/internal/app"
	"github.com/okian/crossdash/internal/config"
	"github.com/okian/crossdash/internal/domain/model"
	"github.com/okian/crossdash/internal/domain/types"
	"github.com/okian/crossdash/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const dataset = `uid,sex,year,suicides,population
A,female,2000,50,1000
A,male,2000,200,2000
B,male,2001,10000,500
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(dataset), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		t.Setenv("CROSSDASH_ADDR", ":8080")
		t.Setenv("CROSSDASH_QUEUE_SIZE", "64")
		t.Setenv("CROSSDASH_INVALID_ROWS", "keep")

		convey.Convey("Then configuration should be loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.InvalidRows, convey.ShouldEqual, "keep")
		})
	})

	convey.Convey("Given an empty listen address", t, func() {
		t.Setenv("CROSSDASH_ADDR", "")

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainWiring(t *testing.T) {
	convey.Convey("Given a service built from config", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg := config.New(ctx)
		cfg.DataURL = writeDataset(t)

		svc, err := newService(cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		convey.So(svc.Load(ctx), convey.ShouldBeNil)
		// Wait for the data_loaded command to be applied.
		convey.So(svc.SubmitAndWait(ctx, model.SetCountry("")), convey.ShouldBeNil)

		mux := newMux(ctx, svc)

		convey.Convey("Then the state endpoint reports the loaded dataset", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/state", nil))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			var st types.State
			convey.So(json.Unmarshal(w.Body.Bytes(), &st), convey.ShouldBeNil)
			convey.So(st.Records, convey.ShouldEqual, 3)
			convey.So(st.Countries, convey.ShouldResemble, []string{"A", "B"})
		})

		convey.Convey("And the page, docs and charts are routed", func() {
			for _, p := range []string{"/", "/api-docs", "/openapi.yaml", "/api/charts/sex.svg", "/healthz", "/stats"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})

	convey.Convey("Given an unknown invalid-row policy", t, func() {
		cfg := config.New(context.Background())
		cfg.InvalidRows = "ignore"

		convey.Convey("Then the service is not built", func() {
			_, err := newService(cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := config.New(ctx)
		cfg.Addr = "127.0.0.1:0"
		cfg.DataURL = writeDataset(t)
		cancel()

		convey.Convey("Then run shuts down cleanly", func() {
			convey.So(run(ctx, cfg), convey.ShouldBeNil)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		svc := app.New()

		convey.Convey("Then single updates do not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})

		convey.Convey("And the loops return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})
	})
}
