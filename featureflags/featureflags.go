package featureflags

import (
	"net/http"
	"sync/atomic"

	"github.com/Unleash/unleash-client-go/v3"
	"github.com/rs/zerolog/log"
)

// Config for the unleash client
type Config struct {
	URL      string `mapstructure:"url"`
	AppName  string `mapstructure:"app_name"`
	Token    string `mapstructure:"token"`
	Instance string `mapstructure:"instance"`
}

// defaults used when unleash is not configured or a flag is unknown
var defaults = map[string]bool{
	"api.allow_register":          true,
	"api.maintenance-mode":        false,
	"api.disable_token_precheck":  false,
	"api.notifications.push":      true,
	"api.quiz.enabled":            true,
	"api.notifications.broadcast": true,
}

var initialized int32

type listener struct{}

func (listener) OnError(err error) {
	log.Warn().Err(err).Str("lib", "unleash").Msg("Feature flags client error")
}

func (listener) OnWarning(err error) {
	log.Debug().Err(err).Str("lib", "unleash").Msg("Feature flags client warning")
}

func (listener) OnReady() {
	log.Info().Str("lib", "unleash").Msg("Feature flags ready")
}

// Initialize the unleash client. An empty URL keeps the built in defaults.
func Initialize(cfg Config) error {
	if cfg.URL == "" {
		log.Info().Str("lib", "unleash").Msg("Feature flags server not configured, using defaults")
		return nil
	}
	appName := cfg.AppName
	if appName == "" {
		appName = "mlm_api"
	}
	err := unleash.Initialize(
		unleash.WithListener(listener{}),
		unleash.WithAppName(appName),
		unleash.WithInstanceId(cfg.Instance),
		unleash.WithUrl(cfg.URL),
		unleash.WithCustomHeaders(http.Header{"Authorization": {cfg.Token}}),
	)
	if err != nil {
		return err
	}
	atomic.StoreInt32(&initialized, 1)
	return nil
}

// IsEnabled checks a flag, falling back to the built in default for the flag
func IsEnabled(feature string, options ...unleash.FeatureOption) bool {
	fallback := defaults[feature]
	if atomic.LoadInt32(&initialized) == 0 {
		return fallback
	}
	options = append(options, unleash.WithFallback(fallback))
	return unleash.IsEnabled(feature, options...)
}

// SetDefault overrides the default of a flag. Used by tests and by the start command.
func SetDefault(feature string, enabled bool) {
	defaults[feature] = enabled
}
