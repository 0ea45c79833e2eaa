package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the timetable scheduling engine and its run store.
type SchedulerConfig struct {
	Enabled         bool
	DefaultStrategy string
	RunTimeout      time.Duration
	ResultTTL       time.Duration
	AsyncWorkers    int
	OverlapMode     string

	PopulationSize    int
	Generations       int
	MutationRate      float64
	TournamentSize    int
	PlacementAttempts int
	Workers           int
	Seed              int64

	WeightTeacherPreference float64
	WeightRoomAffinity      float64
	WeightBalance           float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("ENABLE_REDIS"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET"), Issuer: v.GetString("JWT_ISSUER")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:                 v.GetBool("ENABLE_SCHEDULER"),
		DefaultStrategy:         v.GetString("SCHEDULER_DEFAULT_STRATEGY"),
		RunTimeout:              parseDuration(v.GetString("SCHEDULER_RUN_TIMEOUT"), 2*time.Minute),
		ResultTTL:               parseDuration(v.GetString("SCHEDULER_RESULT_TTL"), 30*time.Minute),
		AsyncWorkers:            v.GetInt("SCHEDULER_ASYNC_WORKERS"),
		OverlapMode:             v.GetString("SCHEDULER_OVERLAP_MODE"),
		PopulationSize:          v.GetInt("SCHEDULER_GA_POPULATION_SIZE"),
		Generations:             v.GetInt("SCHEDULER_GA_GENERATIONS"),
		MutationRate:            v.GetFloat64("SCHEDULER_GA_MUTATION_RATE"),
		TournamentSize:          v.GetInt("SCHEDULER_GA_TOURNAMENT_SIZE"),
		PlacementAttempts:       v.GetInt("SCHEDULER_GA_PLACEMENT_ATTEMPTS"),
		Workers:                 v.GetInt("SCHEDULER_GA_WORKERS"),
		Seed:                    v.GetInt64("SCHEDULER_GA_SEED"),
		WeightTeacherPreference: v.GetFloat64("SCHEDULER_WEIGHT_TEACHER_PREFERENCE"),
		WeightRoomAffinity:      v.GetFloat64("SCHEDULER_WEIGHT_ROOM_AFFINITY"),
		WeightBalance:           v.GetFloat64("SCHEDULER_WEIGHT_BALANCE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "academic_scheduling")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("SCHEDULER_DEFAULT_STRATEGY", "teacher_priority")
	v.SetDefault("SCHEDULER_RUN_TIMEOUT", "2m")
	v.SetDefault("SCHEDULER_RESULT_TTL", "30m")
	v.SetDefault("SCHEDULER_ASYNC_WORKERS", 1)
	v.SetDefault("SCHEDULER_OVERLAP_MODE", "exact")
	v.SetDefault("SCHEDULER_GA_POPULATION_SIZE", 50)
	v.SetDefault("SCHEDULER_GA_GENERATIONS", 100)
	v.SetDefault("SCHEDULER_GA_MUTATION_RATE", 0.1)
	v.SetDefault("SCHEDULER_GA_TOURNAMENT_SIZE", 3)
	v.SetDefault("SCHEDULER_GA_PLACEMENT_ATTEMPTS", 50)
	v.SetDefault("SCHEDULER_GA_WORKERS", 4)
	v.SetDefault("SCHEDULER_GA_SEED", 0)
	v.SetDefault("SCHEDULER_WEIGHT_TEACHER_PREFERENCE", 0.3)
	v.SetDefault("SCHEDULER_WEIGHT_ROOM_AFFINITY", 0.4)
	v.SetDefault("SCHEDULER_WEIGHT_BALANCE", 0.2)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
