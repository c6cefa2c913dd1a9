package router

import (
	"github.com/ogw/sanity-backend/internal/interfaces/http/handler"
)

// Handlers bundles the handlers the API exposes.
type Handlers struct {
	Run    *handler.RunHandler
	Report *handler.ReportHandler
	System *handler.SystemHandler
}

// APIGroups builds the route groups for the sanity API.
func APIGroups(h Handlers) []RouteRegistrar {
	runs := NewDomainGroup("runs", "").
		POST("/runs", h.Run.Execute).
		GET("/scenarios", h.Run.ListScenarios)

	reports := NewDomainGroup("reports", "/reports").
		GET("", h.Report.List).
		GET("/recent", h.Report.Recent).
		GET("/:id", h.Report.Get).
		DELETE("/:id", h.Report.Delete)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	return []RouteRegistrar{runs, reports, system}
}
