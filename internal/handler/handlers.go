package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/0x13a/jobdash/internal/api"
	"github.com/0x13a/jobdash/internal/chart"
	"github.com/0x13a/jobdash/internal/company"
	"github.com/0x13a/jobdash/internal/dashboard"
	"github.com/0x13a/jobdash/internal/job"
	"github.com/0x13a/jobdash/internal/server"
	"github.com/0x13a/jobdash/internal/store"
	"github.com/0x13a/jobdash/internal/view"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

type refreshTrigger interface {
	TriggerRefresh(ctx context.Context) error
}

// Fragment builds the view model of one page region from the stored snapshot.
type Fragment func(snap store.Snapshot, r *http.Request) interface{}

var (
	JobsFragment Fragment = func(snap store.Snapshot, r *http.Request) interface{} {
		return view.Jobs(snap.Jobs, r.URL.Query().Get("company"))
	}
	CompaniesFragment Fragment = func(snap store.Snapshot, _ *http.Request) interface{} {
		return view.Companies(snap.Companies)
	}
	LogsFragment Fragment = func(snap store.Snapshot, _ *http.Request) interface{} {
		return view.Logs(snap.Logs)
	}
	MetricsFragment Fragment = func(snap store.Snapshot, _ *http.Request) interface{} {
		return view.Metrics(snap.Metrics, snap.Jobs, snap.Logs)
	}
	ChartFragment Fragment = func(snap store.Snapshot, _ *http.Request) interface{} {
		return view.CompanyChart(snap.Jobs)
	}
)

func pageData(svr server.Server, w http.ResponseWriter, r *http.Request, snap store.Snapshot, tab, filter string, refresher *dashboard.Refresher, toasts ...server.Toast) map[string]interface{} {
	return map[string]interface{}{
		"LoadedAt":  snap.LoadedAt,
		"Tabs":      dashboard.DefaultTabs().Select(tab),
		"Refresh":   refresher.Button(),
		"Toasts":    append(svr.PopToasts(w, r), toasts...),
		"Jobs":      view.Jobs(snap.Jobs, filter),
		"Companies": view.Companies(snap.Companies),
		"Logs":      view.Logs(snap.Logs),
		"Metrics":   view.Metrics(snap.Metrics, snap.Jobs, snap.Logs),
		"Chart":     view.CompanyChart(snap.Jobs),
	}
}

// currentSnapshot returns the stored snapshot, loading it first when nothing
// has been loaded since startup.
func currentSnapshot(ctx context.Context, svr server.Server, loader *store.Loader) (store.Snapshot, []server.Toast) {
	snap := loader.Store().Snapshot()
	if !snap.LoadedAt.IsZero() {
		return snap, nil
	}
	snap, err := loader.Load(ctx)
	if err != nil {
		svr.Log(err, "unable to load dashboard data")
		return snap, []server.Toast{{Kind: server.ToastError, Message: "Failed to load data"}}
	}
	return snap, nil
}

func toastAndRedirect(svr server.Server, w http.ResponseWriter, r *http.Request, kind, message, dst string) {
	svr.AddToast(w, r, kind, message)
	svr.Redirect(w, r, http.StatusSeeOther, dst)
}

func companiesTabURL() string {
	return "/?tab=" + dashboard.TabCompanies
}

func IndexPageHandler(svr server.Server, loader *store.Loader, refresher *dashboard.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var toasts []server.Toast
		snap, err := loader.Load(r.Context())
		if err != nil {
			svr.Log(err, "unable to load dashboard data")
			toasts = append(toasts, server.Toast{Kind: server.ToastError, Message: "Failed to load data"})
		}
		q := r.URL.Query()
		svr.Render(w, http.StatusOK, "dashboard.html", pageData(svr, w, r, snap, q.Get("tab"), q.Get("company"), refresher, toasts...))
	}
}

// FragmentHandler renders a single region from the stored snapshot without
// calling the API.
func FragmentHandler(svr server.Server, s *store.Store, templateName string, build Fragment) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svr.Render(w, http.StatusOK, templateName, build(s.Snapshot(), r))
	}
}

func NewCompanyPageHandler(svr server.Server, loader *store.Loader, refresher *dashboard.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, toasts := currentSnapshot(r.Context(), svr, loader)
		modal, _ := dashboard.OpenCompanyModal(snap.Companies, "")
		data := pageData(svr, w, r, snap, dashboard.TabCompanies, job.AllCompanies, refresher, toasts...)
		data["Modal"] = modal
		svr.Render(w, http.StatusOK, "dashboard.html", data)
	}
}

func EditCompanyPageHandler(svr server.Server, loader *store.Loader, refresher *dashboard.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		snap, toasts := currentSnapshot(r.Context(), svr, loader)
		modal, err := dashboard.OpenCompanyModal(snap.Companies, id)
		if errors.Is(err, dashboard.ErrCompanyNotFound) {
			// the snapshot may predate the company, look again before giving up
			if companies, rerr := loader.ReloadCompanies(r.Context()); rerr == nil {
				snap.Companies = companies
				modal, err = dashboard.OpenCompanyModal(companies, id)
			}
		}
		if err != nil {
			toastAndRedirect(svr, w, r, server.ToastError, "Company not found", companiesTabURL())
			return
		}
		data := pageData(svr, w, r, snap, dashboard.TabCompanies, job.AllCompanies, refresher, toasts...)
		data["Modal"] = modal
		svr.Render(w, http.StatusOK, "dashboard.html", data)
	}
}

// SaveCompanyHandler creates the company when the form has no id and updates
// it otherwise. Rejected submissions re-open the modal with what was typed.
func SaveCompanyHandler(svr server.Server, mutator dashboard.CompanyMutator, loader *store.Loader, refresher *dashboard.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		form := company.FormFromValues(r.PostForm)
		mode, saved, err := dashboard.SubmitCompany(r.Context(), mutator, form)
		if err != nil {
			message := err.Error()
			status := http.StatusUnprocessableEntity
			if errors.Is(err, api.ErrFetchFailed) {
				svr.Log(err, "unable to save company")
				message = "Failed to save company"
				status = http.StatusBadGateway
			}
			data := pageData(svr, w, r, loader.Store().Snapshot(), dashboard.TabCompanies, job.AllCompanies, refresher,
				server.Toast{Kind: server.ToastError, Message: message})
			modal := dashboard.ReopenCompanyModal(form, err)
			modal.Error = message
			data["Modal"] = modal
			svr.Render(w, status, "dashboard.html", data)
			return
		}
		if _, err := loader.ReloadCompanies(r.Context()); err != nil {
			svr.Log(err, "unable to reload companies")
		}
		message := fmt.Sprintf("%s added", saved.Name)
		if mode == dashboard.ModeEdit {
			message = fmt.Sprintf("%s updated", saved.Name)
		}
		toastAndRedirect(svr, w, r, server.ToastSuccess, message, companiesTabURL())
	}
}

func ConfirmDeleteCompanyPageHandler(svr server.Server, loader *store.Loader, refresher *dashboard.Refresher, confirmations *dashboard.Confirmations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			toastAndRedirect(svr, w, r, server.ToastError, "Company not found", companiesTabURL())
			return
		}
		snap, toasts := currentSnapshot(r.Context(), svr, loader)
		c, ok := company.FindByID(snap.Companies, id)
		if !ok {
			toastAndRedirect(svr, w, r, server.ToastError, "Company not found", companiesTabURL())
			return
		}
		token, err := confirmations.Request(id)
		if err != nil {
			svr.Log(err, "unable to issue delete confirmation")
			toastAndRedirect(svr, w, r, server.ToastError, "Failed to delete company", companiesTabURL())
			return
		}
		data := pageData(svr, w, r, snap, dashboard.TabCompanies, job.AllCompanies, refresher, toasts...)
		data["Confirm"] = map[string]interface{}{
			"Company": c,
			"Token":   token,
			"Action":  fmt.Sprintf("/companies/%d/delete", id),
		}
		svr.Render(w, http.StatusOK, "dashboard.html", data)
	}
}

// DeleteCompanyHandler deletes only when the dialog was answered with yes and
// its token matches the company.
func DeleteCompanyHandler(svr server.Server, deleter dashboard.CompanyDeleter, loader *store.Loader, confirmations *dashboard.Confirmations) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			svr.TEXT(w, http.StatusNotFound, "company not found")
			return
		}
		if err := r.ParseForm(); err != nil {
			svr.TEXT(w, http.StatusBadRequest, "invalid form")
			return
		}
		confirmed := r.PostFormValue("confirm") == "yes"
		err = confirmations.Delete(r.Context(), deleter, id, r.PostFormValue("token"), confirmed)
		switch {
		case errors.Is(err, dashboard.ErrNotConfirmed) && !confirmed:
			svr.Redirect(w, r, http.StatusSeeOther, companiesTabURL())
		case errors.Is(err, dashboard.ErrNotConfirmed):
			toastAndRedirect(svr, w, r, server.ToastError, "Confirmation expired, please try again", companiesTabURL())
		case err != nil:
			svr.Log(err, fmt.Sprintf("unable to delete company %d", id))
			toastAndRedirect(svr, w, r, server.ToastError, "Failed to delete company", companiesTabURL())
		default:
			if _, err := loader.ReloadCompanies(r.Context()); err != nil {
				svr.Log(err, "unable to reload companies")
			}
			toastAndRedirect(svr, w, r, server.ToastSuccess, "Company deleted", companiesTabURL())
		}
	}
}

// RefreshHandler asks the API to check every company now, then reloads the
// whole snapshot and sends the user back to the tab they were on.
func RefreshHandler(svr server.Server, trigger refreshTrigger, loader *store.Loader, refresher *dashboard.Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dst := "/"
		if tab := r.FormValue("tab"); dashboard.DefaultTabs().Has(tab) {
			dst = "/?tab=" + tab
		}
		err := refresher.Run(r.Context(), trigger.TriggerRefresh, func(ctx context.Context) error {
			_, err := loader.Load(ctx)
			return err
		})
		switch {
		case errors.Is(err, dashboard.ErrBusy):
			toastAndRedirect(svr, w, r, server.ToastError, "A refresh is already running", dst)
		case errors.Is(err, dashboard.ErrCoolingDown):
			toastAndRedirect(svr, w, r, server.ToastError, "Please wait before refreshing again", dst)
		case err != nil:
			svr.Log(err, "unable to refresh jobs")
			toastAndRedirect(svr, w, r, server.ToastError, "Failed to refresh jobs", dst)
		default:
			toastAndRedirect(svr, w, r, server.ToastSuccess, "Jobs refreshed", dst)
		}
	}
}

func FeedHandler(svr server.Server, loader *store.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, _ := currentSnapshot(r.Context(), svr, loader)
		cfg := svr.GetConfig()
		rss, err := job.Feed(cfg.SiteName, cfg.SiteURL, snap.Jobs, time.Now())
		if err != nil {
			svr.Log(err, "unable to build rss feed")
			svr.TEXT(w, http.StatusInternalServerError, "unable to build feed")
			return
		}
		svr.XML(w, http.StatusOK, []byte(rss))
	}
}

func CompanyChartPNGHandler(svr server.Server, loader *store.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, _ := currentSnapshot(r.Context(), svr, loader)
		img, err := chart.CompanyBarsPNG(view.CompanyChart(snap.Jobs))
		if err != nil {
			svr.Log(err, "unable to draw company chart")
			svr.TEXT(w, http.StatusInternalServerError, "unable to draw chart")
			return
		}
		svr.MEDIA(w, http.StatusOK, img, "image/png")
	}
}

func HealthHandler(svr server.Server, s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := map[string]interface{}{"status": "ok"}
		if loadedAt := s.Snapshot().LoadedAt; !loadedAt.IsZero() {
			res["loaded_at"] = loadedAt.Format(time.RFC3339)
		}
		svr.JSON(w, http.StatusOK, res)
	}
}
