package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/daviddao/pushups/pkg/config"
)

// isolate runs the test from an empty directory with no PUSHUPS_*
// variables, so a developer's own .env or shell cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PUSHUPS_CONFIG", "")
	t.Setenv("PUSHUPS_DB", "")
	t.Setenv("PUSHUPS_LOG_LEVEL", "")
	os.Unsetenv("PUSHUPS_CONFIG")
	os.Unsetenv("PUSHUPS_DB")
	os.Unsetenv("PUSHUPS_LOG_LEVEL")
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.Convey("Then it points at the local pushups.db", func() {
			convey.So(cfg.DBPath, convey.ShouldEqual, "./pushups.db")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	convey.Convey("Given no file and no environment", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then defaults are returned", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.DBPath, convey.ShouldEqual, "./pushups.db")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
		})
	})
}

func TestLoad_Layers(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "pushups.yaml")
	writeFile(t, cfgPath, "db: /data/from-file.db\nlog_level: info\n")
	t.Setenv("PUSHUPS_CONFIG", cfgPath)

	convey.Convey("Given a YAML config file", t, func() {
		convey.Convey("When only the file is set", func() {
			cfg, err := config.Load(context.Background())

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/data/from-file.db")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When the environment also sets db", func() {
			t.Setenv("PUSHUPS_DB", "/data/from-env.db")
			cfg, err := config.Load(context.Background())

			convey.Convey("Then the environment wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/data/from-env.db")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})
	})
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "PUSHUPS_DB=/data/from-dotenv.db\n")
	t.Cleanup(func() { os.Unsetenv("PUSHUPS_DB") })

	convey.Convey("Given a .env file in the working directory", t, func() {
		cfg, err := config.Load(context.Background())

		convey.Convey("Then its variables are picked up", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.DBPath, convey.ShouldEqual, "/data/from-dotenv.db")
		})
	})
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	convey.Convey("Given broken configuration", t, func() {
		convey.Convey("When the config file does not exist", func() {
			t.Setenv("PUSHUPS_CONFIG", filepath.Join(dir, "missing.yaml"))
			_, err := config.Load(context.Background())

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log level is unknown", func() {
			t.Setenv("PUSHUPS_CONFIG", "")
			t.Setenv("PUSHUPS_LOG_LEVEL", "chatty")
			_, err := config.Load(context.Background())

			convey.Convey("Then the config is invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValidate_EmptyDB(t *testing.T) {
	convey.Convey("Given a config with an empty db path", t, func() {
		cfg := config.New()
		cfg.DBPath = "  "

		convey.Convey("Then validation fails", func() {
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
