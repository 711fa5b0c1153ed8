package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/okian/srcwatch/internal/adapters/http/api"
	app "github.com/okian/srcwatch/internal/app"
	"github.com/okian/srcwatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("SRCWATCH_ADDR", ":8080")
			_ = os.Setenv("SRCWATCH_GAME_ID", "abc123")
			_ = os.Setenv("SRCWATCH_QUEUE_SIZE", "1000")
			defer func() {
				_ = os.Unsetenv("SRCWATCH_ADDR")
				_ = os.Unsetenv("SRCWATCH_GAME_ID")
				_ = os.Unsetenv("SRCWATCH_QUEUE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.GameID, convey.ShouldEqual, "abc123")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := app.New(
					app.WithGameID("abc123"),
					app.WithQueueSize(2000),
					app.WithPollInterval(5*time.Second),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			svc := app.New()
			mux := http.NewServeMux()
			apiServer := api.NewServer(svc, svc)
			apiServer.Register(context.Background(), mux)

			convey.Convey("Then the mux should serve registered routes", func() {
				convey.So(mux, convey.ShouldNotBeNil)
			})
		})
	})
}
