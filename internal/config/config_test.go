package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "iqfieldbot", cfg.Mongo.Database)
	require.Equal(t, 2, cfg.Quiz.StreakThreshold)
	require.Equal(t, 1, cfg.Quiz.EasyWeight)
	require.Equal(t, 2, cfg.Quiz.MediumWeight)
	require.Equal(t, 3, cfg.Quiz.HardWeight)
	require.False(t, cfg.AI.IsEnabled())
}

func TestLoadConfig_PrefixedEnvOverrides(t *testing.T) {
	t.Setenv("IQFB_PORT", "9090")
	t.Setenv("IQFB_MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("IQFB_MONGO_DATABASE", "iqfieldbot_test")
	t.Setenv("IQFB_REDIS_ADDR", "cache.internal:6379")
	t.Setenv("IQFB_JWT_SECRET", "not-the-default")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
	require.Equal(t, "iqfieldbot_test", cfg.Mongo.Database)
	require.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
	require.Equal(t, "not-the-default", cfg.JWT.Secret)
}
