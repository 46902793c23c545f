package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Etheos         EtheosConfig         `mapstructure:"etheos"`
	Google         GoogleConfig         `mapstructure:"google"`
	Polly          PollyConfig          `mapstructure:"polly"`
	Synthesis      SynthesisConfig      `mapstructure:"synthesis"`
	Pipeline       PipelineConfig       `mapstructure:"pipeline"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Cache          CacheConfig          `mapstructure:"cache"`
	NATS           NATSConfig           `mapstructure:"nats"`
	Database       DatabaseConfig       `mapstructure:"database"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Vault          VaultConfig          `mapstructure:"vault"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	Prometheus     PrometheusConfig     `mapstructure:"prometheus"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Scenes         ScenesConfig         `mapstructure:"scenes"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	BodyLimit      int           `mapstructure:"body_limit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EtheosConfig holds the device gateway endpoints and credentials.
type EtheosConfig struct {
	AuthURL     string        `mapstructure:"auth_url"`
	APIURL      string        `mapstructure:"api_url"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	HotelCode   string        `mapstructure:"hotel_code"`
	DefaultRoom string        `mapstructure:"default_room"`
	Timeout     time.Duration `mapstructure:"timeout"`

	// Artificial delay of /simulated/ devices.
	SimulatorLatency time.Duration `mapstructure:"simulator_latency"`
}

type GoogleConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	ProjectID       string        `mapstructure:"project_id"`
	DialogflowToken string        `mapstructure:"dialogflow_token"`
	SpeechURL       string        `mapstructure:"speech_url"`
	TranslateURL    string        `mapstructure:"translate_url"`
	TTSURL          string        `mapstructure:"tts_url"`
	DialogflowURL   string        `mapstructure:"dialogflow_url"`
	SampleRate      int           `mapstructure:"sample_rate"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type PollyConfig struct {
	Region  string        `mapstructure:"region"`
	Engine  string        `mapstructure:"engine"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SynthesisConfig struct {
	// Provider selects the synthesizer: "google" or "polly".
	Provider string `mapstructure:"provider"`
}

type PipelineConfig struct {
	AlternativeLanguages []string      `mapstructure:"alternative_languages"`
	StageTimeout         time.Duration `mapstructure:"stage_timeout"`
	RecordHistory        bool          `mapstructure:"record_history"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type CacheConfig struct {
	TranslationTTL  time.Duration `mapstructure:"translation_ttl"`
	DeviceStatusTTL time.Duration `mapstructure:"device_status_ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	StatusSubject string        `mapstructure:"status_subject"`
	SceneSubject  string        `mapstructure:"scene_subject"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	URL          string `mapstructure:"url"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// JWTConfig enables room tokens when Secret is set.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// VaultConfig enables reading gateway credentials from Vault instead of config.
type VaultConfig struct {
	Address     string `mapstructure:"address"`
	Token       string `mapstructure:"token"`
	GatewayPath string `mapstructure:"gateway_path"`
}

type OpenTelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

type ScenesConfig struct {
	// CatalogPath points to a JSON or YAML scene catalog; empty uses the built-in scenes.
	CatalogPath string `mapstructure:"catalog_path"`
}
