/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/oogiri/games/oogiri"
	"github.com/Seednode/oogiri/store"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

const (
	timeout         time.Duration = 10 * time.Second
	shutdownTimeout time.Duration = 5 * time.Second
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	for _, header := range []string{"CF-Connecting-IP", "X-Real-IP"} {
		if ip := r.Header.Get(header); ip != "" {
			if net.ParseIP(ip) != nil {
				host = ip
			}
			break
		}
	}

	if port == "" {
		return host
	}
	return net.JoinHostPort(host, port)
}

func serveVersion(cfg *Config, logger *log.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("oogiri v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logger.Debug("SERVE: Version page",
			"size", humanReadableSize(int64(written)),
			"remote", realIP(r),
			"took", time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func openStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.store {
	case storePostgres:
		return store.NewPostgres(ctx, cfg.databaseURL)
	default:
		return store.NewMemory(), nil
	}
}

func loadVocabulary(cfg *Config) (oogiri.Pools, error) {
	if cfg.vocabulary == "" {
		return oogiri.DefaultPools(), nil
	}
	return oogiri.LoadPools(cfg.vocabulary)
}

// newRouter registers every route on a fresh router.
func newRouter(cfg *Config, svc *oogiri.Service, gm *GameManager, logger *log.Logger, errs chan<- error) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		logger.Error("SERVE: Panic", "path", r.URL.Path, "panic", i)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		io.WriteString(w, newPage("Server Error", "An error has occurred. Please try again."))
	}

	mux.GET(cfg.prefix+"/", serveHomePage(cfg, logger))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, logger, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	registerAPI(cfg, mux, &api{cfg: cfg, svc: svc, logger: logger, errs: errs})

	registerRoomFeeds(cfg, mux, gm)

	return mux
}

func ServePage(ctx context.Context, cfg *Config, args []string) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logger := newLogger(cfg, os.Stderr)

	logger.Info("START: oogiri v" + releaseVersion)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	pools, err := loadVocabulary(cfg)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("STOP: Closing store failed", "err", err)
		}
	}()

	logger.Info("START: Opened document store", "backend", cfg.store)

	g, gctx := errgroup.WithContext(ctx)

	clock := quartz.NewReal()

	gm := newGameManager(gctx, cfg.sessionTimeout, clock, logger)

	svc := oogiri.NewService(st,
		oogiri.WithClock(clock),
		oogiri.WithPools(pools),
		oogiri.WithRoundMax(cfg.roundMax),
		oogiri.WithNotifier(gm.publish),
		oogiri.WithLogger(logger),
	)
	gm.attach(svc)

	errs := make(chan error, 64)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, svc, gm, logger, errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
	}

	g.Go(func() error {
		logger.Info("SERVE: Listening on " + cfg.scheme() + "://" + srv.Addr + cfg.prefix + "/")

		var err error
		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return gm.reaperLoop(gctx)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case err := <-errs:
				logger.Error("SERVE: Write failed", "err", err)
			}
		}
	})

	return g.Wait()
}
