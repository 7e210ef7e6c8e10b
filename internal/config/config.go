package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the service.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
type AppConfig struct {
	// Environment specifies the runtime environment (development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the HTTP server listens.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`
	// StorageBackend selects the persistence backend: "mysql" or "memory".
	StorageBackend string `mapstructure:"STORAGE_BACKEND" default:"memory"`

	Database DatabaseConfig `mapstructure:",squash"`
	Payment  PaymentConfig  `mapstructure:",squash"`
	Returns  ReturnsConfig  `mapstructure:",squash"`
}

// DatabaseConfig holds MySQL connection details.
type DatabaseConfig struct {
	User     string `mapstructure:"MYSQL_USER" default:"shop"`
	Password string `mapstructure:"MYSQL_PASSWORD" default:"shop"`
	Host     string `mapstructure:"MYSQL_HOST" default:"127.0.0.1"`
	Port     int    `mapstructure:"MYSQL_PORT" default:"3306"`
	Database string `mapstructure:"MYSQL_DATABASE" default:"shop"`
	Params   string `mapstructure:"MYSQL_PARAMS" default:"charset=utf8mb4&parseTime=True&loc=UTC"`
}

// PaymentConfig tunes the payment verification poll loop.
type PaymentConfig struct {
	// PollInterval is the pause between verifier polls.
	PollInterval time.Duration `mapstructure:"PAYMENT_POLL_INTERVAL" default:"1s"`
	// PollAttempts caps how many times the verifier is polled per payment.
	PollAttempts int `mapstructure:"PAYMENT_POLL_ATTEMPTS" default:"10"`
	// HardTimeout bounds the whole payment operation.
	HardTimeout time.Duration `mapstructure:"PAYMENT_HARD_TIMEOUT" default:"65s"`
	// SimulatorSuccessRate drives the bundled gateway simulator.
	SimulatorSuccessRate float64 `mapstructure:"PAYMENT_SIM_SUCCESS_RATE" default:"0.7"`
}

// ReturnsConfig tunes return eligibility.
type ReturnsConfig struct {
	// WindowDays is how long after order creation a return stays eligible.
	WindowDays int `mapstructure:"RETURN_WINDOW_DAYS" default:"30"`
}

// Load loads configuration from a .env file in path and from environment
// variables, environment taking precedence.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig
	if err := processTags(v, &config); err != nil {
		return nil, err
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets
// default values in viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" && key != ",squash" {
			_ = v.BindEnv(key)
			if defaultValue != "" {
				v.SetDefault(key, defaultValue)
			}
		}
	}
	return nil
}

// DSN builds the MySQL data source name.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Params)
}
