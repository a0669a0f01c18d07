package reporting

import (
	"github.com/smallbiznis/lodgely/internal/reporting/cache"
	"github.com/smallbiznis/lodgely/internal/reporting/export"
	"github.com/smallbiznis/lodgely/internal/reporting/service"
	"go.uber.org/fx"
)

var Module = fx.Module("reporting.service",
	fx.Provide(cache.NewReportCache),
	fx.Provide(service.NewService),
	fx.Provide(export.New),
)
