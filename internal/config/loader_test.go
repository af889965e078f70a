package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/oculo/internal/config"
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
				convey.So(cfg.BaselineSeconds, convey.ShouldEqual, 8)
				convey.So(cfg.FlickerSeconds, convey.ShouldEqual, 15)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 16)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("OCULO_ADDR", ":8080")
			_ = os.Setenv("OCULO_BASELINE_SECONDS", "4")
			_ = os.Setenv("OCULO_PURSUIT_TOLERANCE", "60")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BaselineSeconds, convey.ShouldEqual, 4)
				convey.So(cfg.PursuitTolerance, convey.ShouldEqual, 60)
				// Untouched fields keep their defaults.
				convey.So(cfg.FlickerSeconds, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "oculo.yaml")
			yaml := "addr: \":7070\"\nflicker_seconds: 20\npursuit_frequency: 0.5\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("OCULO_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should layer the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.FlickerSeconds, convey.ShouldEqual, 20)
				convey.So(cfg.PursuitFrequency, convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When the config is invalid", func() {
			_ = os.Setenv("OCULO_BASELINE_SECONDS", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"OCULO_CONFIG",
		"OCULO_ADDR",
		"OCULO_BASELINE_SECONDS",
		"OCULO_FLICKER_SECONDS",
		"OCULO_PURSUIT_TOLERANCE",
		"OCULO_PURSUIT_FREQUENCY",
	} {
		_ = os.Unsetenv(key)
	}
}
