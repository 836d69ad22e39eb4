package server

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/0x13a/jobdash/internal/config"
	"github.com/0x13a/jobdash/internal/middleware"
	"github.com/0x13a/jobdash/internal/template"
	"github.com/getsentry/raven-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const sessionName = "____jd"

const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Toast{})
}

type Server struct {
	cfg          config.Config
	router       *mux.Router
	tmpl         *template.Template
	SessionStore *sessions.CookieStore
	logger       zerolog.Logger
}

func NewServer(
	cfg config.Config,
	r *mux.Router,
	t *template.Template,
	sessionStore *sessions.CookieStore,
	logger zerolog.Logger,
) Server {
	if cfg.SentryDSN != "" {
		if err := raven.SetDSN(cfg.SentryDSN); err != nil {
			logger.Error().Err(err).Msg("unable to set sentry dsn")
		}
	}
	return Server{
		cfg:          cfg,
		router:       r,
		tmpl:         t,
		SessionStore: sessionStore,
		logger:       logger,
	}
}

// NewLogger returns a console logger in dev and a JSON logger otherwise.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func NewSessionStore(cfg config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore(cfg.SessionKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		Secure:   cfg.Env != "dev",
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (s Server) RegisterRoute(path string, handler func(w http.ResponseWriter, r *http.Request), methods []string) {
	s.router.HandleFunc(path, handler).Methods(methods...)
}

func (s Server) RegisterPathPrefix(path string, handler http.Handler, methods []string) {
	s.router.PathPrefix(path).Handler(handler).Methods(methods...)
}

func (s Server) GetConfig() config.Config {
	return s.cfg
}

func (s Server) Logger() zerolog.Logger {
	return s.logger
}

// Render executes a named template. Map data gets the site name injected,
// anything else is passed through untouched so fragments can take view structs.
func (s Server) Render(w http.ResponseWriter, status int, htmlView string, data interface{}) error {
	switch d := data.(type) {
	case nil:
		data = map[string]interface{}{"SiteName": s.cfg.SiteName}
	case map[string]interface{}:
		d["SiteName"] = s.cfg.SiteName
	}
	if err := s.tmpl.Render(w, status, htmlView, data); err != nil {
		s.Log(err, fmt.Sprintf("unable to render %s", htmlView))
		return err
	}
	return nil
}

func (s Server) XML(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

func (s Server) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (s Server) TEXT(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(text))
}

// MEDIA serves generated images. They reflect the current snapshot so they are never cached.
func (s Server) MEDIA(w http.ResponseWriter, status int, media []byte, mediaType string) {
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(media)
}

func (s Server) Log(err error, msg string) {
	if s.cfg.SentryDSN != "" {
		raven.CaptureError(err, map[string]string{"ctx": msg})
	}
	s.logger.Error().Err(err).Msg(msg)
}

func (s Server) Redirect(w http.ResponseWriter, r *http.Request, status int, dst string) {
	http.Redirect(w, r, dst, status)
}

// AddToast stores a flash message in the session cookie. It must be called before
// anything is written to w.
func (s Server) AddToast(w http.ResponseWriter, r *http.Request, kind, message string) {
	sess, err := s.SessionStore.Get(r, sessionName)
	if err != nil {
		s.logger.Warn().Err(err).Msg("discarding unreadable session")
	}
	sess.AddFlash(Toast{Kind: kind, Message: message})
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to save toast")
	}
}

// PopToasts returns pending toasts and clears them from the session.
func (s Server) PopToasts(w http.ResponseWriter, r *http.Request) []Toast {
	sess, err := s.SessionStore.Get(r, sessionName)
	if err != nil {
		return nil
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	toasts := make([]Toast, 0, len(flashes))
	for _, f := range flashes {
		if t, ok := f.(Toast); ok {
			toasts = append(toasts, t)
		}
	}
	if err := sess.Save(r, w); err != nil {
		s.Log(err, "unable to clear toasts")
	}
	return toasts
}

func (s Server) Handler() http.Handler {
	return middleware.HTTPSMiddleware(
		middleware.LoggingMiddleware(middleware.HeadersMiddleware(s.router, s.cfg.Env), s.logger),
		s.cfg.Env,
	)
}

func (s Server) Run() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	if s.cfg.Env == "dev" {
		s.logger.Info().Msgf("local env http://localhost:%s", s.cfg.Port)
		addr = fmt.Sprintf("localhost:%s", s.cfg.Port)
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
