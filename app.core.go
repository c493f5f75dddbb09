package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve() func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger   *zap.Logger
	config   *Config
	server   *http.Server
	flash    FlashStore
	cleanups []func()
}

// NewApp provides an instance of App.
func NewApp() (AppProvider, error) {
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %w", err)
	}

	// ensure the logs folder exists and setup the logging module.
	if err = os.MkdirAll(config.LogFolder, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %w", err)
	}
	clock := NewClock(config.IsProduction)
	logWriter := NewRSyncWriter(config, clock)
	logger, flusher := SetupLogging(config, logWriter, NewTickClock(clock))

	flash, err := NewFlashStore(logger, config, clock)
	if err != nil {
		_ = logWriter.Close()
		return nil, fmt.Errorf("failed to setup flash store: %w", err)
	}

	views, err := NewViews()
	if err != nil {
		_ = flash.Close()
		_ = logWriter.Close()
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	webHandler := NewWebHandler(
		logger,
		config,
		&Statistics{
			version:   config.GitTag,
			container: IsAppRunningInDocker(),
			started:   clock.Now(),
			runtime:   runtime.Version(),
			platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		clock,
		NewIDsHandler(),
		NewBookBackend(logger, &config.Backend),
		flash,
		views,
	)

	// Use git commit in case the tag is not set.
	if config.GitTag == "" {
		webHandler.stats.version = config.GitCommit
	}

	// Build the map of middlewares stacks.
	middlewaresPublic, middlewaresOps := webHandler.MiddlewaresStacks()

	// Configure the endpoints with their handlers and middlewares.
	router := webHandler.SetupRoutes(httprouter.New(),
		&MiddlewareMap{
			public: middlewaresPublic.Chain,
			ops:    middlewaresOps.Chain,
		},
	)
	// Wrap the router with the default http timeout handler.
	routerWithTimeout := http.TimeoutHandler(
		router,
		config.Server.RequestTimeout,
		"Timeout. Processing taking too long. Please try again later.")

	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler:        routerWithTimeout,
		ReadTimeout:    config.Server.ReadTimeout,
		WriteTimeout:   config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // Max headers size : 1MB
	}

	return &App{
		logger: logger,
		config: config,
		server: srv,
		flash:  flash,
		cleanups: []func(){
			func() {
				if err := flusher(); err != nil {
					fmt.Println("error during flushing of logs: ", err)
				}
			},
			func() {
				if err := logWriter.Close(); err != nil {
					fmt.Println("error during closing of log file: ", err)
				}
			},
		},
	}, nil
}

// NewFlashStore connects the flash store selected by the configuration.
func NewFlashStore(logger *zap.Logger, config *Config, clock Clocker) (FlashStore, error) {
	switch config.Flash.Driver {
	case FlashDriverRedis:
		client, err := GetRedisClient(config)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis server: %w", err)
		}
		return NewRedisFlashStore(logger, client, config.Flash.TTL), nil
	case FlashDriverBolt:
		client, err := GetBoltDBClient(config)
		if err != nil {
			return nil, fmt.Errorf("failed to open boltdb database: %w", err)
		}
		return NewBoltFlashStore(logger, &config.BoltDB, client, clock, config.Flash.TTL), nil
	}
	return nil, fmt.Errorf("unsupported flash driver %q", config.Flash.Driver)
}

// Run starts the web server and a goroutine which is responsible to stop it.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.Serve())
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("web server stopped",
		zap.String("app.host", app.config.Server.Host),
		zap.String("app.port", app.config.Server.Port),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Serve starts the web server. Its returned error
// will be caught by the errorgroup.
func (app *App) Serve() func() error {
	return func() error {
		app.logger.Info("web server starting",
			zap.String("app.host", app.config.Server.Host),
			zap.String("app.port", app.config.Server.Port),
			zap.String("backend.url", app.config.Backend.BaseURL),
			zap.String("flash.driver", app.config.Flash.Driver),
		)
		err := app.server.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		return err
	}
}

// Stop listens for the group context and triggers the server graceful shutdown.
// It states the reason of its call. We proceed with a brutal shutdown if the
// the graceful did not complete successfully. We explicitly return `nil` to
// allow the errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("web server stopping. reason: requested to stop")
		} else {
			app.logger.Info("web server stopping. reason: errored at running")
		}

		sCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		err := app.server.Shutdown(sCtx)
		switch err {
		case nil, http.ErrServerClosed:
			app.logger.Info("web server graceful shutdown succeeded")
		case context.DeadlineExceeded:
			app.logger.Info("web server graceful shutdown timed out")
		default:
			app.logger.Info("web server graceful shutdown failed", zap.Error(err))
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Info("web server going to force shutdown", zap.Error(app.server.Close()))
		}
		if err := app.flash.Close(); err != nil {
			app.logger.Error("failed to close flash store", zap.String("flash.driver", app.config.Flash.Driver), zap.Error(err))
		}
		return nil
	}
}
