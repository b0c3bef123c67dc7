package actions

import (
	"context"

	"github.com/dhiraj-001/MLM-sub000/config"
	"github.com/dhiraj-001/MLM-sub000/service"
)

// Actions structure
type Actions struct {
	ctx            context.Context
	cfg            config.Config
	service        *service.Service
	jwtTokenSecret string
}

// NewActions constructor
func NewActions(cfg config.Config, srv *service.Service, jwtTokenSecret string, ctx context.Context) *Actions {
	return &Actions{
		ctx:            ctx,
		cfg:            cfg,
		service:        srv,
		jwtTokenSecret: jwtTokenSecret,
	}
}
