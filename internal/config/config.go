package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"order-management/internal/connections/database"
	"order-management/internal/connections/rabbitmq"
)

type Server struct {
	Port int
}

// App is the full application configuration, read from a YAML file with
// ORDERS_-prefixed environment overrides (ORDERS_DATABASE_HOST and so on).
type App struct {
	Server   Server
	Database database.Config
	RabbitMQ rabbitmq.Config
}

func Load(path string) (*App, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ORDERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 3000)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.vhost", "/")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine as long as the environment supplies the rest.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &App{
		Server: Server{Port: v.GetInt("server.port")},
		Database: database.Config{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			Database: v.GetString("database.database"),
			SSLMode:  v.GetString("database.sslmode"),
			MaxConns: v.GetInt("database.max_conns"),
		},
		RabbitMQ: rabbitmq.Config{
			Enabled:  v.GetBool("rabbitmq.enabled"),
			Host:     v.GetString("rabbitmq.host"),
			Port:     v.GetInt("rabbitmq.port"),
			User:     v.GetString("rabbitmq.user"),
			Password: v.GetString("rabbitmq.password"),
			VHost:    v.GetString("rabbitmq.vhost"),
		},
	}

	if cfg.Database.Host == "" || cfg.Database.User == "" || cfg.Database.Database == "" {
		return nil, errors.New("database config incomplete: host, user and database are required")
	}
	if cfg.RabbitMQ.Enabled && cfg.RabbitMQ.Host == "" {
		return nil, errors.New("rabbitmq enabled but host is missing")
	}
	return cfg, nil
}
