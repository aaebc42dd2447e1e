// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

// Command rdap-server serves RDAP responses out of a file-backed data
// directory (store.Store), dispatched by rdapsrv.Server.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/openrdap/rdap/bootstrap"
	"github.com/openrdap/rdap/internal/rdaplog"
	"github.com/openrdap/rdap/internal/rdapenv"
	"github.com/openrdap/rdap/jcard"
	"github.com/openrdap/rdap/rdapsrv"
	"github.com/openrdap/rdap/store"
)

func main() {
	os.Exit(run(os.Stderr))
}

func run(stderr io.Writer) int {
	env, err := rdapenv.Load(defaultEnvFilePath())
	if err != nil {
		fmt.Fprintf(stderr, "rdap-server: reading rdap.env: %s\n", err)
		return 1
	}

	log := rdaplog.New(stderr, rdaplog.ParseLevel(env.Get("RDAP_SRV_LOG", "info")))

	dataDir := env.Get("RDAP_SRV_DATA_DIR", "./data")
	log.Infof("loading data directory %s", dataDir)

	st, loadErrs, err := store.Load(dataDir)
	if err != nil {
		log.Errorf("loading data directory %s: %s", dataDir, err)
		return 1
	}
	for _, e := range loadErrs {
		log.Warnf("%s", e)
	}

	stop := make(chan struct{})
	defer close(stop)
	go st.Watch(5*time.Second, stop, func(err error) {
		log.Errorf("store reload/update: %s", err)
	})

	if env.GetBool("RDAP_SRV_BOOTSTRAP", false) {
		startBootstrapLoop(log, st, env, stop)
	}

	srv := &rdapsrv.Server{
		Store:                        st,
		JSContactConversion:          jcard.ParseConversionMode(env.Get("RDAP_SRV_JSCONTACT_CONVERSION", "none")),
		EnableDomainSearchByName:     env.GetBool("RDAP_SRV_DOMAIN_SEARCH_BY_NAME", false),
		EnableNameserverSearchByName: env.GetBool("RDAP_SRV_NAMESERVER_SEARCH_BY_NAME", false),
		EnableNameserverSearchByIP:   env.GetBool("RDAP_SRV_NAMESERVER_SEARCH_BY_IP", false),
		Log:                          log,
	}

	addr := net.JoinHostPort(env.Get("RDAP_SRV_LISTEN_ADDR", ""), env.Get("RDAP_SRV_LISTEN_PORT", "8080"))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("listen: %s", err)
			return 1
		}
	case <-ctx.Done():
		log.Infof("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %s", err)
			return 1
		}
	}

	return 0
}

// startBootstrapLoop runs an initial IANA bootstrap registry fetch before
// returning, then refreshes every 60 seconds in the background, per §5's
// "runs an initial fetch before accepting queries in server bootstrap
// mode". When RDAP_SRV_UPDATE_ON_BOOTSTRAP is set, each successful refresh
// also re-scans the data directory, treating a bootstrap tick as an
// additional trigger alongside the update/reload sentinel files.
func startBootstrapLoop(log *rdaplog.Logger, st *store.Store, env *rdapenv.Env, stop <-chan struct{}) {
	bs := bootstrap.NewClient()
	updateOnBootstrap := env.GetBool("RDAP_SRV_UPDATE_ON_BOOTSTRAP", false)

	if err := bs.DownloadAll(); err != nil {
		log.Warnf("initial bootstrap fetch: %s", err)
	} else {
		log.Infof("initial bootstrap fetch complete")

		if updateOnBootstrap {
			if _, err := st.Update(); err != nil {
				log.Warnf("store update after bootstrap fetch: %s", err)
			}
		}
	}

	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if err := bs.DownloadAll(); err != nil {
					log.Warnf("bootstrap refresh: %s", err)
					continue
				}
				if updateOnBootstrap {
					if _, err := st.Update(); err != nil {
						log.Warnf("store update after bootstrap refresh: %s", err)
					}
				}
			}
		}
	}()
}

func defaultEnvFilePath() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".openrdap", "rdap-server.env")
}
