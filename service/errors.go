package service

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/dhiraj-001/MLM-sub000/model"
	"github.com/dhiraj-001/MLM-sub000/queries"
)

// notFound replaces gorm's record not found error with the domain one
func notFound(err error) error {
	if queries.IsNotFound(err) {
		return model.ErrNotFound
	}
	return err
}

func logEventError(eventType model.EventType, userID uint64, err error) {
	log.Warn().Err(err).
		Str("section", "service").
		Str("event", string(eventType)).
		Uint64("user_id", userID).
		Msg("Unable to publish event")
}

var errEmptyUserList = errors.New("no users to notify")
