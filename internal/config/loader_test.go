package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/crossdash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DataURL, convey.ShouldEqual, config.DefaultDataURL)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CROSSDASH_ADDR", ":8080")
			_ = os.Setenv("CROSSDASH_DATA_URL", "file:///tmp/data.csv")
			_ = os.Setenv("CROSSDASH_QUEUE_SIZE", "64")
			_ = os.Setenv("CROSSDASH_INVALID_ROWS", "zero")
			_ = os.Setenv("CROSSDASH_LOAD_TIMEOUT_MS", "1500")
			_ = os.Setenv("CROSSDASH_PALETTE", "#111111,#222222")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataURL, convey.ShouldEqual, "file:///tmp/data.csv")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.InvalidRows, convey.ShouldEqual, config.InvalidRowsZero)
				convey.So(cfg.LoadTimeoutMS, convey.ShouldEqual, 1500)
				convey.So(cfg.Palette, convey.ShouldResemble, []string{"#111111", "#222222"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_url: "./testdata/data.csv"
queue_size: 32
dedupe_size: 100
transition_ms: 0
palette:
  - "#aaaaaa"
  - "#bbbbbb"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CROSSDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataURL, convey.ShouldEqual, "./testdata/data.csv")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 32)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 100)
				convey.So(cfg.TransitionMS, convey.ShouldEqual, 0)
				convey.So(cfg.Palette, convey.ShouldResemble, []string{"#aaaaaa", "#bbbbbb"})
				convey.So(cfg.InvalidRows, convey.ShouldEqual, config.InvalidRowsDrop)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nqueue_size: 32\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CROSSDASH_CONFIG", tmpFile)
			_ = os.Setenv("CROSSDASH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("CROSSDASH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CROSSDASH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CROSSDASH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown invalid-row policy", func() {
			_ = os.Setenv("CROSSDASH_INVALID_ROWS", "skip")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CROSSDASH_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"CROSSDASH_CONFIG",
		"CROSSDASH_ADDR",
		"CROSSDASH_DATA_URL",
		"CROSSDASH_QUEUE_SIZE",
		"CROSSDASH_DEDUPE_SIZE",
		"CROSSDASH_INVALID_ROWS",
		"CROSSDASH_LOAD_TIMEOUT_MS",
		"CROSSDASH_TRANSITION_MS",
		"CROSSDASH_PALETTE",
		"CROSSDASH_LOG_LEVEL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "crossdash-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
