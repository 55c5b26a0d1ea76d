package core

import (
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Backends
const (
	BackendFixture  = "fixture"
	BackendRemote   = "remote"
	BackendPostgres = "postgres"
)

type (
	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		Backend      string
		RollbarToken string
		Server       ServerConfig
		Fixture      FixtureConfig
		Remote       RemoteConfig
		Database     DatabaseConfig
	}

	ServerConfig struct {
		Address         string
		Host            string
		CORSOrigins     []string
		ShutdownTimeout time.Duration
	}

	FixtureConfig struct {
		Latency time.Duration
	}

	RemoteConfig struct {
		BaseURL   string
		ProjectID string
		PublicKey string
		Timeout   time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

// NewConfig loads the configuration of the current environment.
// Values are read, by order of precedence, from env vars prefixed by the environment name (eg. DEV_DATABASE_HOST),
// from `config/.env.<env>` (when it exists) and from defaults.
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Classbook")
	v.SetDefault("build", "dev")
	v.SetDefault("backend", BackendFixture)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("fixture.latency", 300*time.Millisecond)
	v.SetDefault("remote.baseURL", "")
	v.SetDefault("remote.projectID", "")
	v.SetDefault("remote.publicKey", "")
	v.SetDefault("remote.timeout", 15*time.Second)
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "classbook")
	v.SetDefault("database.user", "classbook")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("fixture.latency", time.Duration(0))
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
		}
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		Backend:      strings.ToLower(v.GetString("backend")),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			CORSOrigins:     v.GetStringSlice("server.corsOrigins"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Fixture: FixtureConfig{
			Latency: v.GetDuration("fixture.latency"),
		},
		Remote: RemoteConfig{
			BaseURL:   strings.TrimRight(v.GetString("remote.baseURL"), "/"),
			ProjectID: v.GetString("remote.projectID"),
			PublicKey: v.GetString("remote.publicKey"),
			Timeout:   v.GetDuration("remote.timeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (conf *Config) validate() error {
	switch conf.Backend {
	case BackendFixture, BackendPostgres:
	case BackendRemote:
		if conf.Remote.BaseURL == "" {
			return errors.New("config: remote.baseURL is required by the remote backend")
		}
	default:
		return errors.Errorf("config: unknown backend %q", conf.Backend)
	}
	return nil
}
