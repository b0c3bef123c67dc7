package service

import (
	"context"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/lib/sendgrid"
	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/net/kafka"
	"github.com/dhiraj-001/MLM-sub000/queries"
	"github.com/dhiraj-001/MLM-sub000/service/commission"
	"github.com/dhiraj-001/MLM-sub000/service/ledger"
	"github.com/dhiraj-001/MLM-sub000/service/quiz"
	"github.com/dhiraj-001/MLM-sub000/service/rank"
	"github.com/dhiraj-001/MLM-sub000/service/referral"
)

// Service structure
type Service struct {
	ctx                  context.Context
	cfg                  config.Config
	apiConfig            config.APIConfig
	repo                 *queries.Repo
	sendgrid             sendgrid.Sendgrid
	publisher            kafka.Publisher
	pushNotificationChan chan<- *model.Notification

	Ledger     *ledger.Ledger
	Graph      *referral.Graph
	Commission *commission.Engine
	Rank       *rank.Engine
	Quiz       *quiz.Service
}

// NewService wires the engines on top of the repository.
// pushNotificationChan may be nil when push notifications are not delivered by this process.
func NewService(
	ctx context.Context,
	cfg config.Config,
	repo *queries.Repo,
	publisher kafka.Publisher,
	pushNotificationChan chan<- *model.Notification,
) *Service {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	l := ledger.New(repo, publisher)
	return &Service{
		ctx:                  ctx,
		cfg:                  cfg,
		apiConfig:            cfg.Server.API,
		repo:                 repo,
		sendgrid:             sendgrid.New(cfg.Sendgrid),
		publisher:            publisher,
		pushNotificationChan: pushNotificationChan,

		Ledger:     l,
		Graph:      referral.NewGraph(repo),
		Commission: commission.NewEngine(cfg.Referrals.CommissionStages(), cfg.Referrals.RecentReferrals),
		Rank:       rank.NewEngine(cfg.Ranks.StarRanks()),
		Quiz:       quiz.New(repo, quiz.NewLedgerCommitter(l), cfg.Quiz),
	}
}

// GetRepo is used by the crons and the http layer to reach the connections
func (service *Service) GetRepo() *queries.Repo {
	return service.repo
}

// GetConfig godoc
func (service *Service) GetConfig() config.Config {
	return service.cfg
}

// publish sends an event to kafka without failing the caller
func (service *Service) publish(eventType model.EventType, userID uint64, payload interface{}) {
	if err := service.publisher.Publish(service.ctx, model.NewEvent(eventType, userID, payload)); err != nil {
		logEventError(eventType, userID, err)
	}
}
