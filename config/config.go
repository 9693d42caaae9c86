package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string

	Database           DatabaseConfigs
	ApiServer          APIServerConfigs
	NotificationServer ServerConfigs
	Auth               AuthConfigs
	Redis              RedisConfigs
	Kafka              KafkaConfigs
	Notification       NotificationConfigs
	Log                LogConfigs
	Metrics            MetricsConfigs
}

type DatabaseConfigs struct {
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d *DatabaseConfigs) ConnectionString() string {
	switch d.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			d.Host,
			d.Port,
			d.User,
			d.Password,
			d.Database,
		)
	case "sqlite":
		return d.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Database,
		)
	}
}

type ServerConfigs struct {
	Host      string
	Port      string
	AllowCORS []string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type APIServerConfigs struct {
	ServerConfigs

	DefaultLimit int
	MaxLimit     int
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

func (c KafkaConfigs) Enabled() bool {
	return c.Addr != ""
}

type NotificationConfigs struct {
	Topic   string
	GroupID string
	NodeID  int64
}

type LogConfigs struct {
	Level string
}

type MetricsConfigs struct {
	Enabled bool
	Path    string
}

// Default returns the configurations used when a field is absent from the
// config file.
func Default() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			Database: "agora",
			User:     "mysql",
			LogLevel: "error",
		},
		ApiServer: APIServerConfigs{
			ServerConfigs: ServerConfigs{Port: "8080", AllowCORS: []string{"*"}},
			DefaultLimit:  20,
			MaxLimit:      100,
		},
		NotificationServer: ServerConfigs{Port: "8081", AllowCORS: []string{"*"}},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Redis: RedisConfigs{Addr: "localhost:6379"},
		Notification: NotificationConfigs{
			Topic:   "notification",
			GroupID: "notification",
			NodeID:  1,
		},
		Log:     LogConfigs{Level: "info"},
		Metrics: MetricsConfigs{Path: "/metrics"},
	}
}

// Load decodes the TOML file at path over the default configurations. An
// empty path returns the defaults.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
