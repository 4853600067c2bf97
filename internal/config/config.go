package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	JWT    JWTConfig `mapstructure:"jwt"`
	AI     AIConfig  `mapstructure:"ai"`
	Quiz   QuizConfig
}

type ServerConfig struct {
	Port string
	Mode string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// AIConfig configures the external question-generation collaborator.
// An empty APIKey disables remote generation entirely.
type AIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	TimeoutMS int    `mapstructure:"timeout_ms"`
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Timeout returns the bound on a single generation call
func (c *AIConfig) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// QuizConfig tunes the question catalog and session engine
type QuizConfig struct {
	// QuestionQuota is the pool size per (field, difficulty)
	QuestionQuota int `mapstructure:"question_quota"`
	// StreakThreshold is the consecutive-correct count that escalates difficulty
	StreakThreshold int `mapstructure:"streak_threshold"`
	// Difficulty weights applied to the score on a correct answer
	EasyWeight   int `mapstructure:"easy_weight"`
	MediumWeight int `mapstructure:"medium_weight"`
	HardWeight   int `mapstructure:"hard_weight"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("IQFB")
	viper.AutomaticEnv()

	// Explicit BindEnv names bypass SetEnvPrefix, so the prefix is
	// spelled out here to keep every binary on the same IQFB_* vars.

	// Server
	viper.BindEnv("server.port", "IQFB_PORT")
	viper.BindEnv("server.mode", "IQFB_SERVER_MODE")

	// Mongo
	viper.BindEnv("mongo.uri", "IQFB_MONGO_URI")
	viper.BindEnv("mongo.database", "IQFB_MONGO_DATABASE")

	// Redis
	viper.BindEnv("redis.addr", "IQFB_REDIS_ADDR")
	viper.BindEnv("redis.password", "IQFB_REDIS_PASSWORD")

	// JWT
	viper.BindEnv("jwt.secret", "IQFB_JWT_SECRET")

	// AI
	viper.BindEnv("ai.base_url", "IQFB_AI_BASE_URL")
	viper.BindEnv("ai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("ai.model", "IQFB_AI_MODEL")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "iqfieldbot")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "demo-secret-key")
	viper.SetDefault("jwt.expire_hours", 24*time.Hour)
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.timeout_ms", 10000)
	viper.SetDefault("quiz.question_quota", 20)
	viper.SetDefault("quiz.streak_threshold", 2)
	viper.SetDefault("quiz.easy_weight", 1)
	viper.SetDefault("quiz.medium_weight", 2)
	viper.SetDefault("quiz.hard_weight", 3)

	if err := viper.ReadInConfig(); err != nil {
		// Missing file is fine, env and defaults carry the config
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in defaults without touching viper state.
// Used by tests and by the seed tool.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Mode: "release"},
		Mongo:  MongoConfig{URI: "mongodb://localhost:27017", Database: "iqfieldbot"},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		JWT:    JWTConfig{Secret: "demo-secret-key", ExpireTime: 24 * time.Hour},
		AI:     AIConfig{Model: "gpt-4o-mini", TimeoutMS: 10000},
		Quiz: QuizConfig{
			QuestionQuota:   20,
			StreakThreshold: 2,
			EasyWeight:      1,
			MediumWeight:    2,
			HardWeight:      3,
		},
	}
}
