package handler

import (
	"net/http"

	"github.com/0x13a/jobdash/internal/dashboard"
	"github.com/0x13a/jobdash/internal/server"
	"github.com/0x13a/jobdash/internal/store"
)

// Backend is the part of the job tracker API the handlers write to. Reads go
// through the store.Loader.
type Backend interface {
	dashboard.CompanyMutator
	refreshTrigger
}

func RegisterRoutes(svr server.Server, backend Backend, loader *store.Loader, refresher *dashboard.Refresher, confirmations *dashboard.Confirmations) {
	svr.RegisterRoute("/", IndexPageHandler(svr, loader, refresher), []string{http.MethodGet})

	svr.RegisterRoute("/x/jobs", FragmentHandler(svr, loader.Store(), "jobs-table", JobsFragment), []string{http.MethodGet})
	svr.RegisterRoute("/x/companies", FragmentHandler(svr, loader.Store(), "companies-grid", CompaniesFragment), []string{http.MethodGet})
	svr.RegisterRoute("/x/logs", FragmentHandler(svr, loader.Store(), "logs-table", LogsFragment), []string{http.MethodGet})
	svr.RegisterRoute("/x/metrics", FragmentHandler(svr, loader.Store(), "metrics", MetricsFragment), []string{http.MethodGet})
	svr.RegisterRoute("/x/chart", FragmentHandler(svr, loader.Store(), "company-chart", ChartFragment), []string{http.MethodGet})

	svr.RegisterRoute("/companies/new", NewCompanyPageHandler(svr, loader, refresher), []string{http.MethodGet})
	svr.RegisterRoute("/companies/{id:[0-9]+}/edit", EditCompanyPageHandler(svr, loader, refresher), []string{http.MethodGet})
	svr.RegisterRoute("/companies", SaveCompanyHandler(svr, backend, loader, refresher), []string{http.MethodPost})
	svr.RegisterRoute("/companies/{id:[0-9]+}/delete", ConfirmDeleteCompanyPageHandler(svr, loader, refresher, confirmations), []string{http.MethodGet})
	svr.RegisterRoute("/companies/{id:[0-9]+}/delete", DeleteCompanyHandler(svr, backend, loader, confirmations), []string{http.MethodPost})

	svr.RegisterRoute("/refresh", RefreshHandler(svr, backend, loader, refresher), []string{http.MethodPost})

	svr.RegisterRoute("/feed.rss", FeedHandler(svr, loader), []string{http.MethodGet})
	svr.RegisterRoute("/chart/companies.png", CompanyChartPNGHandler(svr, loader), []string{http.MethodGet})
	svr.RegisterRoute("/healthz", HealthHandler(svr, loader.Store()), []string{http.MethodGet})

	staticDir := svr.GetConfig().StaticDir
	if staticDir != "" {
		svr.RegisterPathPrefix("/s/", http.StripPrefix("/s/", http.FileServer(http.Dir(staticDir))), []string{http.MethodGet})
	}
}
