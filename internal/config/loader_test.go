package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/okian/wodboard/internal/config"
	"github.com/okian/wodboard/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.DefaultAlgorithm, convey.ShouldEqual, "traditional")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then ScoringDefaults uses the default algorithm", func() {
			cfg.DefaultAlgorithm = "online"
			convey.So(cfg.ScoringDefaults().Algorithm, convey.ShouldEqual, scoring.AlgorithmOnline)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearEnv()
		convey.Reset(clearEnv)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("WODBOARD_ADDR", ":8080")
			_ = os.Setenv("WODBOARD_QUEUE_SIZE", "500")
			_ = os.Setenv("WODBOARD_WORKER_COUNT", "3")
			_ = os.Setenv("WODBOARD_DEFAULT_ALGORITHM", "winner_takes_more")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.DefaultAlgorithm, convey.ShouldEqual, "winner_takes_more")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			err := os.WriteFile(path, []byte("addr: \":7070\"\ndedupe_size: 99\nlog_format: json\n"), 0o600)
			convey.So(err, convey.ShouldBeNil)
			_ = os.Setenv("WODBOARD_CONFIG", path)

			convey.Convey("Then file values apply", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 99)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})

			convey.Convey("And env still wins over the file", func() {
				_ = os.Setenv("WODBOARD_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("WODBOARD_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the default algorithm is unknown", func() {
			_ = os.Setenv("WODBOARD_DEFAULT_ALGORITHM", "elo")
			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When watching without a fixtures path", func() {
			_ = os.Setenv("WODBOARD_WATCH_FIXTURES", "true")
			_, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearEnv() {
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, config.EnvPrefix) {
			_ = os.Unsetenv(k)
		}
	}
}
