package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith reads configuration into v. Tests pass a fresh instance.
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.AddConfigPath("/app/configs")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("etheos.username", "ETHEOS_USERNAME", "APP_ETHEOS_USERNAME")
	v.BindEnv("etheos.password", "ETHEOS_PASSWORD", "APP_ETHEOS_PASSWORD")
	v.BindEnv("etheos.hotel_code", "ETHEOS_HOTEL_CODE", "APP_ETHEOS_HOTEL_CODE")
	v.BindEnv("etheos.default_room", "ETHEOS_ROOM_NUMBER", "APP_ETHEOS_DEFAULT_ROOM")
	v.BindEnv("google.api_key", "GOOGLE_API_KEY", "APP_GOOGLE_API_KEY")
	v.BindEnv("google.project_id", "DIALOGFLOW_PROJECT_ID", "APP_GOOGLE_PROJECT_ID")
	v.BindEnv("google.dialogflow_token", "DIALOGFLOW_TOKEN", "APP_GOOGLE_DIALOGFLOW_TOKEN")
	v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	v.BindEnv("nats.url", "NATS_URL", "APP_NATS_URL")
	v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	v.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "voice-concierge")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 3001)
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.read_timeout", 30*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.body_limit", 10*1024*1024)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("etheos.auth_url", "https://cs-auth.rc-onair.com/cs-auth/v2")
	v.SetDefault("etheos.api_url", "https://cs-api.rc-onair.com/cs-api/v1")
	v.SetDefault("etheos.hotel_code", "itprdapep00671")
	v.SetDefault("etheos.default_room", "101")
	v.SetDefault("etheos.timeout", 10*time.Second)
	v.SetDefault("etheos.simulator_latency", 100*time.Millisecond)

	v.SetDefault("google.speech_url", "https://speech.googleapis.com/v1/speech:recognize")
	v.SetDefault("google.translate_url", "https://translation.googleapis.com/language/translate/v2")
	v.SetDefault("google.tts_url", "https://texttospeech.googleapis.com/v1/text:synthesize")
	v.SetDefault("google.dialogflow_url", "https://dialogflow.googleapis.com/v2")
	v.SetDefault("google.sample_rate", 16000)
	v.SetDefault("google.timeout", 10*time.Second)

	v.SetDefault("polly.region", "us-east-1")
	v.SetDefault("polly.engine", "neural")
	v.SetDefault("polly.timeout", 15*time.Second)

	v.SetDefault("synthesis.provider", "google")

	v.SetDefault("pipeline.alternative_languages", []string{"zh-CN", "vi-VN", "it-IT"})
	v.SetDefault("pipeline.stage_timeout", 15*time.Second)
	v.SetDefault("pipeline.record_history", true)

	v.SetDefault("cache.translation_ttl", 24*time.Hour)
	v.SetDefault("cache.device_status_ttl", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", time.Minute)

	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.status_subject", "rooms.*.status")
	v.SetDefault("nats.scene_subject", "scenes.executed")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "concierge.db")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("jwt.issuer", "voice-concierge")
	v.SetDefault("jwt.ttl", 24*time.Hour)

	v.SetDefault("vault.gateway_path", "secret/data/etheos")

	v.SetDefault("opentelemetry.service_name", "voice-concierge")
	v.SetDefault("opentelemetry.endpoint", "http://jaeger:14268/api/traces")
	v.SetDefault("opentelemetry.sample_ratio", 1.0)

	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 5)
}
