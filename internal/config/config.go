package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host            string   `yaml:"host"`
		Port            int      `yaml:"port"`
		Env             string   `yaml:"env"`
		ShutdownTimeout int      `yaml:"shutdown_timeout"` // секунды
		CORSOrigins     []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver"` // postgres, mysql
		DSN             string `yaml:"url"`
		MaxOpenConns    int    `yaml:"max_open_conns"`
		MaxIdleConns    int    `yaml:"max_idle_conns"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // минуты
	} `yaml:"database"`

	JWT struct {
		Secret     string `yaml:"secret"`
		TTL        int    `yaml:"ttl"`         // минуты
		RefreshTTL int    `yaml:"refresh_ttl"` // часы
	} `yaml:"jwt"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`      // local, s3
		BasePath   string `yaml:"base_path"` // For local storage
		BaseURL    string `yaml:"base_url"`  // Public URL base
		Bucket     string `yaml:"bucket"`
		Region     string `yaml:"region"`
		AccessKey  string `yaml:"access_key"`
		SecretKey  string `yaml:"secret_key"`
		Endpoint   string `yaml:"endpoint"`    // S3-совместимые хранилища
		PresignTTL int    `yaml:"presign_ttl"` // секунды
		PublicRead bool   `yaml:"public_read"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize           int64    `yaml:"max_size"` // bytes
		AllowedImageTypes []string `yaml:"allowed_image_types"`
		AllowedVideoTypes []string `yaml:"allowed_video_types"`
	} `yaml:"upload"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`

	RabbitMQ struct {
		Enabled  bool   `yaml:"enabled"`
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"rabbitmq"`

	Calendar struct {
		Enabled         bool   `yaml:"enabled"`
		ClientID        string `yaml:"client_id"`
		ClientSecret    string `yaml:"client_secret"`
		RedirectURL     string `yaml:"redirect_url"`
		MeetingDuration int    `yaml:"meeting_duration"` // минуты
	} `yaml:"calendar"`

	Scheduling struct {
		DefaultTimezone string `yaml:"default_timezone"`
	} `yaml:"scheduling"`

	Media struct {
		StagingTTL       int `yaml:"staging_ttl"`       // часы
		EvictionInterval int `yaml:"eviction_interval"` // минуты
	} `yaml:"media"`

	Workers struct {
		InterviewInterval int `yaml:"interview_interval"` // минуты
	} `yaml:"workers"`

	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию и завершает процесс при ошибке
func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// Load читает .env, затем либо переменные окружения (если задан DATABASE_URL),
// либо YAML-файл из CONFIG_PATH (по умолчанию config/config.yaml).
func Load() (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	var cfg Config
	if os.Getenv("DATABASE_URL") == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}
		log.Println("Загрузка конфигурации из", configPath)

		if err := loadFile(configPath, &cfg); err != nil {
			return nil, err
		}
	} else {
		log.Println("✅ Загрузка конфигурации из ПЕРЕМЕННЫХ ОКРУЖЕНИЯ")
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// applyEnv переопределяет значения из переменных окружения
func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setInt(&cfg.JWT.TTL, "JWT_TTL")

	setString(&cfg.Email.SMTPHost, "SMTP_HOST")
	setInt(&cfg.Email.SMTPPort, "SMTP_PORT")
	setString(&cfg.Email.SMTPUsername, "SMTP_USER")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.Email.FromEmail, "SMTP_FROM")
	setBool(&cfg.Email.Enabled, "EMAIL_ENABLED")

	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.BasePath, "STORAGE_BASE_PATH")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.Region, "S3_REGION")
	setString(&cfg.Storage.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setBool(&cfg.RabbitMQ.Enabled, "RABBITMQ_ENABLED")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")

	setBool(&cfg.Calendar.Enabled, "GOOGLE_CALENDAR_ENABLED")
	setString(&cfg.Calendar.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Calendar.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Calendar.RedirectURL, "GOOGLE_REDIRECT_URL")

	setString(&cfg.Scheduling.DefaultTimezone, "DEFAULT_TIMEZONE")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")

	setString(&cfg.FirstAdminEmail, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 30
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.JWT.RefreshTTL == 0 {
		cfg.JWT.RefreshTTL = 24 * 30
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Findtern"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Storage.BaseURL == "" {
		cfg.Storage.BaseURL = "/uploads"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 50 * 1024 * 1024 // 50MB (intro video)
	}
	if len(cfg.Upload.AllowedImageTypes) == 0 {
		cfg.Upload.AllowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
	if len(cfg.Upload.AllowedVideoTypes) == 0 {
		cfg.Upload.AllowedVideoTypes = []string{"video/mp4", "video/webm", "video/quicktime"}
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "findtern"
	}
	if cfg.RabbitMQ.Exchange == "" {
		cfg.RabbitMQ.Exchange = "findtern.events"
	}
	if cfg.Calendar.MeetingDuration == 0 {
		cfg.Calendar.MeetingDuration = 30
	}
	if cfg.Scheduling.DefaultTimezone == "" {
		cfg.Scheduling.DefaultTimezone = "Asia/Kolkata"
	}
	if cfg.Media.StagingTTL == 0 {
		cfg.Media.StagingTTL = 168
	}
	if cfg.Media.EvictionInterval == 0 {
		cfg.Media.EvictionInterval = 60
	}
	if cfg.Workers.InterviewInterval == 0 {
		cfg.Workers.InterviewInterval = 15
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string
	if c.Database.DSN == "" {
		problems = append(problems, "database.url is required")
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "mysql" {
		problems = append(problems, "database.driver must be postgres or mysql")
	}
	if c.JWT.Secret == "" && c.Server.Env != "development" {
		problems = append(problems, "jwt.secret is required outside development")
	}
	if c.Storage.Type == "s3" && c.Storage.Bucket == "" {
		problems = append(problems, "storage.bucket is required for s3")
	}
	if c.Calendar.Enabled && (c.Calendar.ClientID == "" || c.Calendar.ClientSecret == "") {
		problems = append(problems, "calendar.client_id and calendar.client_secret are required when calendar is enabled")
	}
	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// IsDevelopment - удобный хелпер для условной логики
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
