package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/travigo/metroplanner/pkg/util"
	"gopkg.in/yaml.v3"

	_ "time/tzdata"
)

const (
	defaultTimetableURL = "https://www.metrovalencia.es/wp-content/themes/metrovalencia/functions/ajax-no-wp.php"
	defaultArrivalsURL  = "https://www.metrovalencia.es/wp-admin/admin-ajax.php"
)

type Config struct {
	Listen       string `yaml:"listen" validate:"required"`
	Timezone     string `yaml:"timezone" validate:"required"`
	StationsFile string `yaml:"stationsFile" validate:"required"`

	HeartbeatInterval time.Duration `yaml:"heartbeatInterval" validate:"gt=0"`

	Upstream UpstreamConfig `yaml:"upstream"`
	Redis    RedisConfig    `yaml:"redis"`

	Location *time.Location `yaml:"-"`
}

type UpstreamConfig struct {
	TimetableURL     string        `yaml:"timetableURL" validate:"required,url"`
	TimetableReferer string        `yaml:"timetableReferer" validate:"omitempty,url"`
	ArrivalsURL      string        `yaml:"arrivalsURL" validate:"required,url"`
	ArrivalsReferer  string        `yaml:"arrivalsReferer" validate:"omitempty,url"`
	UserAgent        string        `yaml:"userAgent"`
	Timeout          time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxRetries       int           `yaml:"maxRetries" validate:"gte=0,lte=10"`
}

// RedisConfig enables the timetable cache when Address is set
type RedisConfig struct {
	Address         string        `yaml:"address" validate:"omitempty,hostname_port"`
	Password        string        `yaml:"password"`
	Database        int           `yaml:"database" validate:"gte=0"`
	CacheExpiration time.Duration `yaml:"cacheExpiration" validate:"gt=0"`
}

func Default() *Config {
	return &Config{
		Listen:            ":8080",
		Timezone:          "Europe/Madrid",
		StationsFile:      "stations.json",
		HeartbeatInterval: 5 * time.Second,
		Upstream: UpstreamConfig{
			TimetableURL:     defaultTimetableURL,
			TimetableReferer: "https://www.metrovalencia.es/ca/consulta-horaris-i-planificador/",
			ArrivalsURL:      defaultArrivalsURL,
			ArrivalsReferer:  "https://www.metrovalencia.es/ca/consulta-estaciones/",
			UserAgent:        "Mozilla/5.0",
			Timeout:          10 * time.Second,
			MaxRetries:       3,
		},
		Redis: RedisConfig{
			CacheExpiration: 90 * time.Minute,
		},
	}
}

// Load reads .env (if present), the optional YAML file named by TRAVIGO_CONFIG_FILE and
// then TRAVIGO_* environment variables, later sources overriding earlier ones
func Load() (*Config, error) {
	_ = godotenv.Load()

	return LoadFromEnvironment(util.GetEnvironmentVariables())
}

func LoadFromEnvironment(env map[string]string) (*Config, error) {
	cfg := Default()

	if path := env["TRAVIGO_CONFIG_FILE"]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvironment(env); err != nil {
		return nil, err
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TRAVIGO_TIMEZONE: %w", err)
	}
	cfg.Location = location

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	setString(env, "TRAVIGO_LISTEN", &c.Listen)
	setString(env, "TRAVIGO_TIMEZONE", &c.Timezone)
	setString(env, "TRAVIGO_STATIONS_FILE", &c.StationsFile)
	setString(env, "TRAVIGO_TIMETABLE_URL", &c.Upstream.TimetableURL)
	setString(env, "TRAVIGO_ARRIVALS_URL", &c.Upstream.ArrivalsURL)
	setString(env, "TRAVIGO_UPSTREAM_USER_AGENT", &c.Upstream.UserAgent)
	setString(env, "TRAVIGO_REDIS_ADDRESS", &c.Redis.Address)
	setString(env, "TRAVIGO_REDIS_PASSWORD", &c.Redis.Password)

	if err := setDuration(env, "TRAVIGO_HEARTBEAT_INTERVAL", &c.HeartbeatInterval); err != nil {
		return err
	}
	if err := setDuration(env, "TRAVIGO_UPSTREAM_TIMEOUT", &c.Upstream.Timeout); err != nil {
		return err
	}
	if err := setDuration(env, "TRAVIGO_CACHE_EXPIRATION", &c.Redis.CacheExpiration); err != nil {
		return err
	}
	if err := setInt(env, "TRAVIGO_UPSTREAM_RETRIES", &c.Upstream.MaxRetries); err != nil {
		return err
	}
	if err := setInt(env, "TRAVIGO_REDIS_DATABASE", &c.Redis.Database); err != nil {
		return err
	}

	return nil
}

func setString(env map[string]string, key string, target *string) {
	if value := env[key]; value != "" {
		*target = value
	}
}

func setDuration(env map[string]string, key string, target *time.Duration) error {
	value := env[key]
	if value == "" {
		return nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, value)
	}
	*target = duration

	return nil
}

func setInt(env map[string]string, key string, target *int) error {
	value := env[key]
	if value == "" {
		return nil
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, value)
	}
	*target = number

	return nil
}
