package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/actions"
	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/crons"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/monitor"
	"github.com/dhiraj-001/MLM-sub000/net/kafka"
	"github.com/dhiraj-001/MLM-sub000/queries"
	"github.com/dhiraj-001/MLM-sub000/service"
	"github.com/dhiraj-001/MLM-sub000/service/manage_token"
)

// Server interface
type Server interface {
	Listen()
}

type server struct {
	config        config.Config
	actions       *actions.Actions
	service       *service.Service
	repo          *queries.Repo
	producer      *kafka.Producer
	notifications chan *model.Notification
	ctx           context.Context
	close         context.CancelFunc
	wait          *sync.WaitGroup
	HTTP          *http.Server
}

// NewServer connects the data stores and wires the service and the http actions
func NewServer(cfg config.Config) Server {
	ctx, close := context.WithCancel(context.Background())

	repo, err := queries.NewRepo(cfg.DatabaseCluster)
	if err != nil {
		log.Fatal().Str("section", "server").Err(err).Msg("Unable to connect to the database")
	}

	if cfg.Redis.Enabled() {
		if err := manage_token.Start(cfg.Redis); err != nil {
			log.Fatal().Str("section", "server").Err(err).Msg("Unable to connect to the token store")
		}
	} else {
		log.Warn().Str("section", "server").Msg("Redis not configured, issued tokens are not tracked")
	}

	var publisher kafka.Publisher = kafka.NopPublisher{}
	var producer *kafka.Producer
	if cfg.Kafka.Enabled() {
		producer = kafka.NewProducer(cfg.Kafka)
		publisher = producer
	}

	notifications := make(chan *model.Notification, 1000)
	dataServices := service.NewService(ctx, cfg, repo, publisher, notifications)
	userActions := actions.NewActions(cfg, dataServices, cfg.Server.API.JWTTokenSecret, ctx)

	return &server{
		config:        cfg,
		actions:       userActions,
		service:       dataServices,
		repo:          repo,
		producer:      producer,
		notifications: notifications,
		ctx:           ctx,
		close:         close,
		wait:          &sync.WaitGroup{},
	}
}

// Listen starts the workers and the http server and blocks until a termination signal is received
func (srv *server) Listen() {
	srv.wait.Add(1)
	go srv.service.PushNotificationWorker(srv.notifications, srv.ctx, srv.wait)

	crons.Start(srv.config.Crons, srv.service)

	// start the http server
	srv.HTTP = srv.newHTTPServer()
	go srv.ListenToRequests()
	go monitor.LoopProfilingServer(srv.config.Server.Monitoring)

	srv.stopOnSignal()
}

func (srv *server) stopOnSignal() {
	// listen for termination signals
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc

	log.Info().Str("section", "server").Str("app_event", "terminate").Str("signal", sig.String()).Msg("Shutting down services")
	srv.closeApp(5 * time.Second)
}

func (srv *server) closeApp(timeout time.Duration) {
	// define a timeout in which the graceful shutdown procedure should happen before forcing the shutdown
	timeoutFunc := time.AfterFunc(timeout, func() {
		log.Printf("timeout %d ms has been elapsed, force exit", timeout.Milliseconds())
		os.Exit(0)
	})
	defer timeoutFunc.Stop()

	monitor.ShutdownServer(timeout)
	if srv.HTTP != nil {
		if err := srv.HTTP.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Str("section", "server").Str("action", "terminate").Msg("Unable to shutdown HTTP server")
		}
	}

	crons.Close()

	// stop the push worker and wait for it to finish
	srv.close()
	srv.wait.Wait()

	if srv.producer != nil {
		if err := srv.producer.Close(); err != nil {
			log.Error().Err(err).Str("section", "server").Str("action", "terminate").Msg("Unable to close kafka producer")
		}
	}
	manage_token.Close()
	// make sure database connection is closed on program exit
	srv.repo.Close()

	log.Info().Str("section", "server").Str("app_event", "terminate").Str("state", "complete").Msg("All workers terminated")
}
