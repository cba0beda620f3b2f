package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DriverJSON   = "json"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Client   ClientConfig   `mapstructure:"client"`
	Reminder ReminderConfig `mapstructure:"reminder"`
	Outputs  OutputsConfig  `mapstructure:"outputs"`
}

type ServerConfig struct {
	Port                     int        `mapstructure:"port" validate:"min=1,max=65535"`
	ReadHeaderTimeoutSeconds int        `mapstructure:"read_header_timeout_seconds" validate:"min=0"`
	CORS                     CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StorageConfig struct {
	Driver            string `mapstructure:"driver" validate:"oneof=json mysql sqlite"`
	DataDirectory     string `mapstructure:"data_directory" validate:"required"`
	MoodFile          string `mapstructure:"mood_file" validate:"required"`
	JournalFile       string `mapstructure:"journal_file" validate:"required"`
	NotificationsFile string `mapstructure:"notifications_file" validate:"required"`
}

// MoodPath returns the path of the mood records file.
func (c StorageConfig) MoodPath() string {
	return filepath.Join(c.DataDirectory, c.MoodFile)
}

// JournalPath returns the path of the journal entries file.
func (c StorageConfig) JournalPath() string {
	return filepath.Join(c.DataDirectory, c.JournalFile)
}

// NotificationsPath returns the path of the notification settings file.
func (c StorageConfig) NotificationsPath() string {
	return filepath.Join(c.DataDirectory, c.NotificationsFile)
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	SQLitePath      string            `mapstructure:"sqlite_path"`
}

type ClientConfig struct {
	BaseURL        string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=0"`
	RetryAttempts  uint   `mapstructure:"retry_attempts"`
}

type ReminderConfig struct {
	AppName             string `mapstructure:"app_name"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds" validate:"min=1"`
}

type OutputsConfig struct {
	ExportDirectory string `mapstructure:"export_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/moodlog")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_header_timeout_seconds", 10)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:5000"})
	v.SetDefault("storage.driver", DriverJSON)
	v.SetDefault("storage.data_directory", ".")
	v.SetDefault("storage.mood_file", "mood_data.json")
	v.SetDefault("storage.journal_file", "journal_data.json")
	v.SetDefault("storage.notifications_file", "notifications_settings.json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "moodlog")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.sqlite_path", "moodlog.db")
	v.SetDefault("client.base_url", "http://localhost:5000")
	v.SetDefault("client.timeout_seconds", 10)
	v.SetDefault("client.retry_attempts", 2)
	v.SetDefault("reminder.app_name", "Mood Tracker")
	v.SetDefault("reminder.poll_interval_seconds", 30)
	v.SetDefault("outputs.export_directory", filepath.Join("outputs", "export"))

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("client.base_url", "MOODLOG_SERVER_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind MOODLOG_SERVER_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
