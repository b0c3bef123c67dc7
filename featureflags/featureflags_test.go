package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEnabledDefaults(t *testing.T) {
	assert.True(t, IsEnabled("api.allow_register"))
	assert.False(t, IsEnabled("api.maintenance-mode"))
	assert.False(t, IsEnabled("api.unknown-flag"))
}

func TestSetDefault(t *testing.T) {
	SetDefault("api.quiz.enabled", false)
	defer SetDefault("api.quiz.enabled", true)
	assert.False(t, IsEnabled("api.quiz.enabled"))
}

func TestInitializeWithoutServer(t *testing.T) {
	assert.NoError(t, Initialize(Config{}))
	assert.True(t, IsEnabled("api.notifications.push"))
}
