package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable pool_max_conns=10",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Cache struct {
	MemoryTTLMinutes     int   `mapstructure:"memory_ttl_minutes"`
	PersistentTTLMinutes int   `mapstructure:"persistent_ttl_minutes"`
	MaxItems             int64 `mapstructure:"max_items"`
}

type Compare struct {
	ProviderTimeoutSeconds int    `mapstructure:"provider_timeout_seconds"`
	OverallTimeoutSeconds  int    `mapstructure:"overall_timeout_seconds"`
	FallbackProvider       string `mapstructure:"fallback_provider"`
}

type RESTProvider struct {
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Sandbox      bool   `mapstructure:"sandbox"`
}

type ScriptProvider struct {
	ScriptPath     string `mapstructure:"script_path"`
	CountryCode    string `mapstructure:"country_code"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type Providers struct {
	Wise     RESTProvider   `mapstructure:"wise"`
	Revolut  RESTProvider   `mapstructure:"revolut"`
	InstaReM RESTProvider   `mapstructure:"instarem"`
	OFX      ScriptProvider `mapstructure:"ofx"`
	Remitly  ScriptProvider `mapstructure:"remitly"`
}

type RateLimit struct {
	RequestsPerMinute int64 `mapstructure:"requests_per_minute"`
}

type Sweeper struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

type AppConfig struct {
	HTTPServer HTTPServer `mapstructure:"http_server"`
	DbServer   DbServer   `mapstructure:"db_server"`
	HTTPClient HTTPClient `mapstructure:"http_client"`
	Logging    Logging    `mapstructure:"logging"`
	Cache      Cache      `mapstructure:"cache"`
	Compare    Compare    `mapstructure:"compare"`
	Providers  Providers  `mapstructure:"providers"`
	RateLimit  RateLimit  `mapstructure:"rate_limit"`
	Sweeper    Sweeper    `mapstructure:"sweeper"`
}

func Init() (*AppConfig, error) {
	var cfg AppConfig

	// .env is optional outside local development; env vars may come from
	// the environment directly.
	_ = godotenv.Load()

	viper.SetConfigFile("config.yaml")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	viper.SetDefault("db_server.max_conns", 10)
	viper.SetDefault("http_client.timeout_seconds", 10)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("cache.memory_ttl_minutes", 15)
	viper.SetDefault("cache.persistent_ttl_minutes", 60)
	viper.SetDefault("cache.max_items", 4096)
	viper.SetDefault("compare.provider_timeout_seconds", 12)
	viper.SetDefault("compare.overall_timeout_seconds", 25)
	viper.SetDefault("compare.fallback_provider", "wise")
	viper.SetDefault("providers.ofx.timeout_seconds", 20)
	viper.SetDefault("providers.remitly.timeout_seconds", 20)
	viper.SetDefault("rate_limit.requests_per_minute", 60)
	viper.SetDefault("sweeper.interval_minutes", 10)

	// db server env vars
	_ = viper.BindEnv("db_server.host", "DB_HOST")
	_ = viper.BindEnv("db_server.port", "DB_PORT")
	_ = viper.BindEnv("db_server.user", "DB_USER")
	_ = viper.BindEnv("db_server.pass", "DB_PASS")
	_ = viper.BindEnv("db_server.name", "DB_NAME")
	_ = viper.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = viper.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// provider credentials are never read from config.yaml
	_ = viper.BindEnv("providers.wise.api_key", "WISE_API_KEY")
	_ = viper.BindEnv("providers.wise.base_url", "WISE_BASE_URL")
	_ = viper.BindEnv("providers.wise.sandbox", "WISE_SANDBOX")
	_ = viper.BindEnv("providers.revolut.client_id", "REVOLUT_CLIENT_ID")
	_ = viper.BindEnv("providers.revolut.client_secret", "REVOLUT_CLIENT_SECRET")
	_ = viper.BindEnv("providers.revolut.base_url", "REVOLUT_BASE_URL")
	_ = viper.BindEnv("providers.instarem.client_id", "INSTAREM_CLIENT_ID")
	_ = viper.BindEnv("providers.instarem.client_secret", "INSTAREM_CLIENT_SECRET")
	_ = viper.BindEnv("providers.instarem.base_url", "INSTAREM_BASE_URL")
	_ = viper.BindEnv("providers.ofx.script_path", "OFX_SCRIPT_PATH")
	_ = viper.BindEnv("providers.remitly.script_path", "REMITLY_SCRIPT_PATH")

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}
