package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/omaradel/manaboard/apps/portal/echo/handlers"
	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/auth"
	"github.com/omaradel/manaboard/core/nav"
	"github.com/omaradel/manaboard/core/resource"
	"github.com/omaradel/manaboard/core/session"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool

		Store    *session.Store
		Gateway  *auth.Gateway
		Registry *nav.Registry
		Lister   resource.Lister
		Logger   core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Renderer = newRenderer()
	s.app.Debug = debug

	// public views: always rendered, session or not
	handlers.RegisterPublic(s.app, s.opts.Store, s.opts.Gateway)

	// protected subtree: every request re-evaluated by the guard
	dash := s.app.Group("/dashboard", guardMiddleware(s.opts.Registry, s.opts.Store))
	handlers.RegisterDashboard(dash, s.opts.Store, s.opts.Gateway, s.opts.Registry, s.opts.Lister, s.opts.Logger)
}

func (s *server) Start() {
	go func() {
		<-s.shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.Shutdown(ctx); err != nil {
			s.app.Logger.Error(err)
		}
	}()
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) signalShutdown() {
	close(s.shutdown)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
