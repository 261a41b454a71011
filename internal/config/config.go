// Package config reads config required for the entire application
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/spf13/viper"
)

const (
	EnvLive        = "live"
	EnvDevelopment = "development"
	EnvCI          = "ci"
)

const (
	StorageBackendMongoDB = "mongodb"
	StorageBackendMemory  = "memory"
)

/*
Config holds all the configurations required for the application to function.
Most drivers like MongoDB etc. have an optional "client name" field. Make use of the
`cfg.AppFullname()` to set these. It helps us easily identify which version of the app is
communicating with the respective dependency. Especially when we have multiple versions
deployed, connected to the same dependencies. It would also help us forcefully remove
connections from dependencies if required.
*/
type Config struct {
	AppName      string `json:"appName,omitempty" env:"APP_NAME" envDefault:"catalog-go"`
	Version      string `json:"version,omitempty" env:"APP_VERSION" envDefault:"v0.0.0"`
	AppBuildDate string `json:"appBuild,omitempty" env:"APP_BUILT_AT" envDefault:"0000-00-00"`
	Environment  string `json:"environment,omitempty" env:"ENVIRONMENT" envDefault:""`

	HTTP struct {
		Host              string        `json:"host,omitempty" env:"APP_HTTP_HOST" envDefault:""`
		Port              int           `json:"port,omitempty" env:"APP_HTTP_PORT" envDefault:"5001"`
		ReadHeaderTimeout time.Duration `json:"readHeaderTimeout,omitempty" env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
		ReadTimeout       time.Duration `json:"readTimeout,omitempty" env:"HTTP_READ_TIMEOUT" envDefault:"60s"`
		WriteTimeout      time.Duration `json:"writeTimeout,omitempty" env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
		IdleTimeout       time.Duration `json:"idleTimeout,omitempty" env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
		EnableAccesslog   bool
	} `json:"http,omitempty"`

	Storage struct {
		// Backend selects the repository implementation at startup,
		// one of "mongodb" or "memory".
		Backend       string `json:"backend,omitempty" env:"STORAGE_BACKEND" envDefault:"mongodb"`
		SeedDemoItems bool   `json:"seedDemoItems,omitempty" env:"STORAGE_SEED_DEMO_ITEMS" envDefault:"false"`
	} `json:"storage,omitempty"`

	MongoDB struct {
		// URI takes precedence over the discrete host/auth fields when set
		URI        string   `json:"uri,omitempty" env:"MONGODB_URI"`
		Hosts      []string `json:"hosts,omitempty" env:"MONGODB_HOSTS" envDefault:"localhost"`
		Port       int      `json:"port,omitempty" env:"MONGODB_PORT"`
		Database   string   `json:"database,omitempty" env:"MONGODB_DATABASE" envDefault:"catalog"`
		Collection string   `json:"collection,omitempty" env:"MONGODB_COLLECTION" envDefault:"items"`
		Namespace  string   `json:"namespace,omitempty" env:"MONGODB_NAMESPACE"`
		Username   string   `json:"username,omitempty" env:"MONGODB_USERNAME"`
		Password   string   `json:"password,omitempty" env:"MONGODB_PASSWORD"`
		// AuthMechanism for MongoDB should be one of "SCRAM-SHA-256", "SCRAM-SHA-1", "MONGODB-CR", "PLAIN", "GSSAPI", "MONGODB-X509",
		AuthMechanism   string        `json:"authMechanism,omitempty" env:"MONGODB_AUTH_MECHANISM" envDefault:"SCRAM-SHA-1"`
		AuthDatabase    string        `json:"authDatabase,omitempty" env:"MONGODB_AUTH_DATABASE"`
		ReadTimeout     time.Duration `json:"readTimeout,omitempty" env:"MONGODB_READTIMEOUT" envDefault:"3m"`
		WriteTimeout    time.Duration `json:"writeTimeout,omitempty" env:"MONGODB_WRITETIMEOUT" envDefault:"3m"`
		MaxConnIdleTime time.Duration `json:"maxIdleTimeout,omitempty" env:"MONGODB_IDLE_TIMEOUT" envDefault:"4m"`
		PingTimeout     time.Duration `json:"pingTimeout,omitempty" env:"MONGODB_PING_TIMEOUT" envDefault:"3s"`
	} `json:"mongoDB,omitempty"`

	APM struct {
		Debug              bool    `json:"debug" env:"TRACES_DEBUG"`
		TracesSampleRate   float64 `json:"tracesSampleRate" env:"TRACES_SAMPLE_RATE"`
		TracesCollectorURL string  `json:"collectorUrl" env:"TRACES_COLLECTOR_URL"`
		MetricScrapePort   uint16  `json:"metricScrapePort" env:"METRIC_SCRAPE_PORT" envDefault:"2223"`
		EnableStdout       string
	} `json:"apm"`
}

func (cfg *Config) AppFullname() string {
	return fmt.Sprintf("%s%s", cfg.AppName, cfg.Version)
}

func Load(path, fileName string) (*Config, error) {
	configs := Config{}

	viper.AddConfigPath(path)
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			panic(err)
		} else if err = env.Parse(&configs); err != nil {
			panic(fmt.Sprintf("%+v\n", err))
		}
	}

	err := viper.Unmarshal(&configs)
	if err != nil {
		panic(fmt.Errorf("fatal error when unrmashaling config file: %w", err))
	}

	return &configs, nil
}
