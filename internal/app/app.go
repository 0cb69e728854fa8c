package app

import (
	"context"
	"log/slog"
	"sync"

	grpcapp "github.com/IlianBuh/Blog-service/internal/app/grpc"
	httpapp "github.com/IlianBuh/Blog-service/internal/app/http"
	"github.com/IlianBuh/Blog-service/internal/config"
	"github.com/IlianBuh/Blog-service/internal/lib/logger/sl"
	"github.com/IlianBuh/Blog-service/internal/service/posts"
	extraresources "github.com/IlianBuh/Blog-service/internal/service/posts/interfaces/extra-resources"
	"github.com/IlianBuh/Blog-service/internal/storage/postgres"
	httpserver "github.com/IlianBuh/Blog-service/internal/transport/http-server"
	"github.com/IlianBuh/Blog-service/internal/transport/kafka"
	userprovider "github.com/IlianBuh/Blog-service/internal/transport/user-provider"
)

type App struct {
	log           *slog.Logger
	DB            *postgres.Storage
	HTTPApp       *httpapp.App
	GRPCApp       *grpcapp.App
	EventProducer *kafka.Producer
	UserProvider  *userprovider.UserProvider
}

// New builds all application components. User provider, event producer and
// grpc server are created only when configured
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	const op = "app.New"
	fail := func(err error) {
		panic(op + ": " + err.Error())
	}
	a := &App{log: log}

	repo, err := postgres.New(cfg.Storage)
	if err != nil {
		fail(err)
	}
	a.DB = repo

	var usrPrvdr extraresources.UserProvider
	if cfg.UserProvider.Host != "" {
		a.UserProvider, err = userprovider.New(
			log,
			cfg.UserProvider.Host,
			cfg.UserProvider.Port,
			cfg.UserProvider.Timeout.Duration,
		)
		if err != nil {
			fail(err)
		}
		usrPrvdr = a.UserProvider
	} else {
		log.Warn("user provider is not configured, identities are not checked")
	}

	var sender extraresources.EventSender
	if len(cfg.Kafka.Addrs) > 0 {
		a.EventProducer, err = kafka.NewProducer(
			ctx,
			log,
			cfg.Kafka.Addrs,
			cfg.Kafka.Topic,
			cfg.Kafka.Timeout,
			cfg.Kafka.Retries,
		)
		if err != nil {
			fail(err)
		}
		sender = a.EventProducer
	} else {
		log.Warn("kafka is not configured, events are not published")
	}

	postService := posts.New(
		log,
		repo, repo, repo,
		cfg.Blog,
		cfg.HTTP.Timeout.Duration,
		usrPrvdr,
		sender,
	)

	render, err := httpserver.NewTemplateRenderer(cfg.HTTP.Templates)
	if err != nil {
		fail(err)
	}

	server := httpserver.New(
		log,
		postService,
		render,
		httpserver.NewAuthenticator(log, cfg.Auth.Secret, cfg.Auth.Cookie),
		httpserver.NewMetrics(),
		cfg.HTTP.LoginURL,
	)
	a.HTTPApp = httpapp.New(log, cfg.HTTP.Port, server, cfg.HTTP.Timeout.Duration)

	if cfg.GRPC.Port != 0 {
		a.GRPCApp = grpcapp.New(log, cfg.GRPC.Port, postService, cfg.GRPC.Timeout.Duration)
	}

	return a
}

func (a *App) Start() {
	const op = "app.Start"
	log := a.log.With(slog.String("op", op))
	log.Info("starting application")

	go a.HTTPApp.MustRun()

	if a.GRPCApp != nil {
		go a.GRPCApp.MustRun()
	}

	log.Info("application started")
}

func (a *App) Stop() {
	const op = "app.Stop"
	log := a.log.With(slog.String("op", op))
	log.Info("stopping application")

	var wg sync.WaitGroup
	stop := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	// servers go first so no request touches closed resources
	stop(a.HTTPApp.Stop)
	if a.GRPCApp != nil {
		stop(a.GRPCApp.Stop)
	}
	wg.Wait()

	if a.EventProducer != nil {
		stop(a.EventProducer.Stop)
	}
	if a.UserProvider != nil {
		stop(a.UserProvider.Stop)
	}
	stop(func() {
		if err := a.DB.Stop(); err != nil {
			log.Error("failed to close storage", sl.Err(err))
		}
	})
	wg.Wait()

	log.Info("application is stopped")
}
