package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/sanctuarysound/api/internal/analysis"
	"github.com/sanctuarysound/api/internal/model"
	"github.com/sanctuarysound/api/internal/recommend"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	filePath := os.Getenv(envKey + "_FILE")
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	os.Setenv(envKey, strings.TrimSpace(string(data)))
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	R2        R2Config
	Zitadel   ZitadelConfig
	Gateway   GatewayConfig
	Engine    EngineConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	LogLevel  string
	ApiDomain string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	RecommendPerHour int
	AnalyzePerHour   int
	ImportPerHour    int
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

// Configured reports whether the snapshot archive can be enabled.
func (c R2Config) Configured() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

type ZitadelConfig struct {
	Domain   string
	ClientID string
	Issuer   string
}

type GatewayConfig struct {
	Enabled bool
}

// EngineConfig overrides engine constants. Zero values keep the defaults.
type EngineConfig struct {
	MaskingHalfWidthSemitones float64
	GainToleranceDB           float64
	HPFToleranceHz            float64
}

type WorkerConfig struct {
	Concurrency int
}

// Tuning returns the recommendation constants with overrides applied.
func (e EngineConfig) Tuning() recommend.Tuning {
	return recommend.DefaultTuning().WithMaskingHalfWidth(e.MaskingHalfWidthSemitones)
}

// Tolerances returns the analysis thresholds with overrides applied. A gain
// override sets the balanced tolerance and scales strict and relaxed with it.
func (e EngineConfig) Tolerances() analysis.Tolerances {
	t := analysis.DefaultTolerances()
	if e.GainToleranceDB > 0 {
		base := t.GainDB[model.SPLBalanced]
		scaled := make(map[model.SPLMode]float64, len(t.GainDB))
		for mode, v := range t.GainDB {
			scaled[mode] = v / base * e.GainToleranceDB
		}
		t.GainDB = scaled
	}
	if e.HPFToleranceHz > 0 {
		t.HPFHz = e.HPFToleranceHz
	}
	return t
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")
	readSecret("ZITADEL_CLIENT_ID")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("server.api_domain", "API_DOMAIN")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("ratelimit.recommend_per_hour", "RATELIMIT_RECOMMEND_PER_HOUR")
	_ = viper.BindEnv("ratelimit.analyze_per_hour", "RATELIMIT_ANALYZE_PER_HOUR")
	_ = viper.BindEnv("ratelimit.import_per_hour", "RATELIMIT_IMPORT_PER_HOUR")
	_ = viper.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = viper.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = viper.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = viper.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = viper.BindEnv("r2.public_url", "R2_PUBLIC_URL")
	_ = viper.BindEnv("zitadel.domain", "ZITADEL_DOMAIN")
	_ = viper.BindEnv("zitadel.client_id", "ZITADEL_CLIENT_ID")
	_ = viper.BindEnv("zitadel.issuer", "ZITADEL_ISSUER")
	_ = viper.BindEnv("gateway.enabled", "GATEWAY_ENABLED")
	_ = viper.BindEnv("engine.masking_half_width", "ENGINE_MASKING_HALF_WIDTH")
	_ = viper.BindEnv("engine.gain_tolerance_db", "ENGINE_GAIN_TOLERANCE_DB")
	_ = viper.BindEnv("engine.hpf_tolerance_hz", "ENGINE_HPF_TOLERANCE_HZ")
	_ = viper.BindEnv("worker.concurrency", "WORKER_CONCURRENCY")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.recommend_per_hour", 120)
	viper.SetDefault("ratelimit.analyze_per_hour", 240)
	viper.SetDefault("ratelimit.import_per_hour", 60)
	viper.SetDefault("gateway.enabled", false)
	viper.SetDefault("worker.concurrency", 4)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      viper.GetString("server.port"),
			Env:       viper.GetString("server.env"),
			LogLevel:  viper.GetString("server.log_level"),
			ApiDomain: viper.GetString("server.api_domain"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			RecommendPerHour: viper.GetInt("ratelimit.recommend_per_hour"),
			AnalyzePerHour:   viper.GetInt("ratelimit.analyze_per_hour"),
			ImportPerHour:    viper.GetInt("ratelimit.import_per_hour"),
		},
		R2: R2Config{
			AccountID:       viper.GetString("r2.account_id"),
			AccessKeyID:     viper.GetString("r2.access_key_id"),
			SecretAccessKey: viper.GetString("r2.secret_access_key"),
			BucketName:      viper.GetString("r2.bucket_name"),
			PublicURL:       viper.GetString("r2.public_url"),
		},
		Zitadel: ZitadelConfig{
			Domain:   viper.GetString("zitadel.domain"),
			ClientID: viper.GetString("zitadel.client_id"),
			Issuer:   viper.GetString("zitadel.issuer"),
		},
		Gateway: GatewayConfig{
			Enabled: viper.GetBool("gateway.enabled"),
		},
		Engine: EngineConfig{
			MaskingHalfWidthSemitones: viper.GetFloat64("engine.masking_half_width"),
			GainToleranceDB:           viper.GetFloat64("engine.gain_tolerance_db"),
			HPFToleranceHz:            viper.GetFloat64("engine.hpf_tolerance_hz"),
		},
		Worker: WorkerConfig{
			Concurrency: viper.GetInt("worker.concurrency"),
		},
	}

	return cfg, nil
}
