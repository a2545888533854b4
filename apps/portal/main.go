package main

import (
	"context"
	"log"
	"os"

	echoapi "github.com/omaradel/manaboard/apps/portal/echo"
	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/auth"
	"github.com/omaradel/manaboard/core/nav"
	"github.com/omaradel/manaboard/core/resource"
	"github.com/omaradel/manaboard/core/session"
	logsvc "github.com/omaradel/manaboard/services/logger"
	"github.com/omaradel/manaboard/services/telemetry"
	"github.com/omaradel/manaboard/storage/tokenfile"
)

func main() {
	std := log.New(os.Stdout, "PORTAL : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	shutdownTracing := telemetry.Setup(core.Conf.AppName)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("shutting down tracing failed", err)
		}
	}()

	// the session read back here is the one persisted by the last login
	store := session.NewStore(tokenfile.NewRepository(core.Conf.TokenFile))
	store.Notify(func(sess session.Session) {
		if sess.Authenticated() {
			logger.Info("session established")
		} else {
			logger.Info("session cleared")
		}
	})
	gateway := auth.NewGateway(core.Conf, store)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:     core.Conf.Server.Addr,
		Store:    store,
		Gateway:  gateway,
		Registry: nav.Default(),
		Lister:   resource.NewClient(core.Conf, store),
		Logger:   logger,
	})
	logger.Info("starting portal on " + core.Conf.Server.Addr)
	app.Start()
}
