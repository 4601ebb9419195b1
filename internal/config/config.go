package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// EnvPrefix is prepended to every environment variable, e.g. SHRAMBA_DATABASE_HOST.
const EnvPrefix = "SHRAMBA"

type (
	Config struct {
		Database Database `mapstructure:"database"`
		Log      Log      `mapstructure:"log"`
		HTTP     HTTP     `mapstructure:"http"`
	}

	Database struct {
		Driver string `mapstructure:"driver"`
		Path   string `mapstructure:"path"` // SQLite file

		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		User        string `mapstructure:"user"`
		Password    string `mapstructure:"password"`
		Name        string `mapstructure:"name"`
		Maintenance string `mapstructure:"maintenance"` // database to connect to while creating Name
		SSLMode     string `mapstructure:"sslmode"`
		Create      bool   `mapstructure:"create"` // false connects to an existing database directly
	}

	Log struct {
		Path       string `mapstructure:"path"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
	}

	HTTP struct {
		Addr string `mapstructure:"addr"`
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "shramba.sqlite3")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "inventoryproject")
	v.SetDefault("database.maintenance", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.create", true)

	v.SetDefault("log.path", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("http.addr", ":8080")
}

// Load reads configuration from defaults, the optional file at path and
// SHRAMBA_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise only fail at connect time.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the %s driver", DriverSQLite)
		}
	case DriverPostgres:
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unsupported database driver %q (want %s or %s)", c.Database.Driver, DriverSQLite, DriverPostgres)
	}
	return nil
}
