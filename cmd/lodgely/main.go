package main

import (
	"github.com/smallbiznis/lodgely/internal/clock"
	"github.com/smallbiznis/lodgely/internal/config"
	"github.com/smallbiznis/lodgely/internal/observability"
	"github.com/smallbiznis/lodgely/internal/rental"
	"github.com/smallbiznis/lodgely/internal/reporting"
	"github.com/smallbiznis/lodgely/internal/server"
	"github.com/smallbiznis/lodgely/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		db.Module,
		clock.Module,

		// Reporting
		rental.Module,
		reporting.Module,

		server.Module,

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}
