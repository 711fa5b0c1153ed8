package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/srcwatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.GameID, convey.ShouldEqual, "76rqjqd8")
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "https://www.speedrun.com/api/v1/")
				convey.So(cfg.PollIntervalS, convey.ShouldEqual, 30)
				convey.So(cfg.RetryAttempts, convey.ShouldEqual, 3)
				convey.So(cfg.PageSize, convey.ShouldEqual, 30)
				convey.So(cfg.SeenWindow, convey.ShouldEqual, 30)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "srcwatch.db")
				convey.So(cfg.WebhookURL, convey.ShouldEqual, "")
				convey.So(cfg.ToggleVariants, convey.ShouldResemble, []string{"amiibo"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SRCWATCH_ADDR", ":8080")
			_ = os.Setenv("SRCWATCH_GAME_ID", "abc123")
			_ = os.Setenv("SRCWATCH_POLL_INTERVAL_S", "60")
			_ = os.Setenv("SRCWATCH_QUEUE_SIZE", "2048")
			_ = os.Setenv("SRCWATCH_WEBHOOK_URL", "https://example.test/hook")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.GameID, convey.ShouldEqual, "abc123")
				convey.So(cfg.PollIntervalS, convey.ShouldEqual, 60)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 2048)
				convey.So(cfg.WebhookURL, convey.ShouldEqual, "https://example.test/hook")
				convey.So(cfg.RetryAttempts, convey.ShouldEqual, 3) // From defaults
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
game_id: "yaml-game"
poll_interval_s: 15
snapshot_path: "/tmp/records.db"
toggle_variants:
  - amiibo
  - dlc
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SRCWATCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.GameID, convey.ShouldEqual, "yaml-game")
				convey.So(cfg.PollIntervalS, convey.ShouldEqual, 15)
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "/tmp/records.db")
				convey.So(cfg.ToggleVariants, convey.ShouldResemble, []string{"amiibo", "dlc"})
				convey.So(cfg.PageSize, convey.ShouldEqual, 30) // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
game_id: "yaml-game"
page_size: 50
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SRCWATCH_CONFIG", tmpFile)
			_ = os.Setenv("SRCWATCH_ADDR", ":8080") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")      // Overridden by env
				convey.So(cfg.GameID, convey.ShouldEqual, "yaml-game") // From file
				convey.So(cfg.PageSize, convey.ShouldEqual, 50)        // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SRCWATCH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SRCWATCH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SRCWATCH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty game id", func() {
			_ = os.Setenv("SRCWATCH_GAME_ID", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "game_id must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive poll interval", func() {
			_ = os.Setenv("SRCWATCH_POLL_INTERVAL_S", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "poll_interval_s must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with zero retry attempts", func() {
			_ = os.Setenv("SRCWATCH_RETRY_ATTEMPTS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "retry_attempts must be positive")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SRCWATCH_QUEUE_SIZE", "not_a_number")
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
		"SRCWATCH_CONFIG",
		"SRCWATCH_ADDR",
		"SRCWATCH_GAME_ID",
		"SRCWATCH_POLL_INTERVAL_S",
		"SRCWATCH_RETRY_ATTEMPTS",
		"SRCWATCH_QUEUE_SIZE",
		"SRCWATCH_WEBHOOK_URL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "srcwatch-config-*.yaml")
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
