/*
 * @module service/config
 * @description Application configuration loaded from environment variables,
 *              passed explicitly into services at construction time
 * @architecture Layered - configuration layer
 * @stateFlow Process start -> .env load -> Config value -> constructors
 * @rules No mutable package-level configuration; a Config is built once and handed down
 * @dependencies github.com/joho/godotenv
 * @refs service/init.go
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Schema   string
}

// DSN renders the GORM/pgx connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Schema)
}

// BDLConfig holds GUS BDL API client settings.
// SubgroupID P3961 is the housing maintenance cost subject.
type BDLConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
	RetryDelay time.Duration
	PageSize   int
	SubjectID  string
	SubgroupID string
}

// SMTPConfig holds email alert settings. Empty user/password disables sending.
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	Sender     string
	Recipients []string
}

// Enabled reports whether the channel is configured well enough to send.
func (c SMTPConfig) Enabled() bool {
	return c.User != "" && c.Password != "" && len(c.Recipients) > 0
}

// SchedulerConfig holds cron expressions for the periodic jobs.
type SchedulerConfig struct {
	DailyCheckCron string
	WeeklyJobCron  string
}

// Config is the root configuration value.
type Config struct {
	ListenPort  int
	BaseContext string
	DataDir     string
	OutputDir   string
	Database    DatabaseConfig
	BDL         BDLConfig
	SMTP        SMTPConfig
	Scheduler   SchedulerConfig
}

// Load builds a Config from the environment. A .env file in the working
// directory is honored when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenPort:  envInt("LISTEN_PORT", 80),
		BaseContext: os.Getenv("BASE_CONTEXT"),
		DataDir:     envString("DATA_DIR", "data"),
		OutputDir:   envString("OUTPUT_DIR", "output"),
		Database: DatabaseConfig{
			Host:     envString("DB_HOST", "localhost"),
			Port:     envInt("DB_PORT", 5432),
			User:     envString("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     envString("DB_NAME", "gus_analytics"),
			SSLMode:  envString("DB_SSLMODE", "disable"),
			Schema:   envString("DB_SCHEMA", "public"),
		},
		BDL: BDLConfig{
			BaseURL:    envString("GUS_API_BASE_URL", "https://bdl.stat.gov.pl/api/v1"),
			APIKey:     os.Getenv("GUS_API_KEY"),
			Timeout:    envDuration("GUS_API_TIMEOUT", 30*time.Second),
			RetryCount: envInt("GUS_API_RETRY_COUNT", 3),
			RetryDelay: envDuration("GUS_API_RETRY_DELAY", time.Second),
			PageSize:   envInt("GUS_API_PAGE_SIZE", 100),
			SubjectID:  envString("GUS_API_SUBJECT_ID", "K11"),
			SubgroupID: envString("GUS_API_SUBGROUP_ID", "P3961"),
		},
		SMTP: SMTPConfig{
			Host:       envString("SMTP_HOST", "smtp.gmail.com"),
			Port:       envInt("SMTP_PORT", 587),
			User:       os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			Sender:     os.Getenv("SENDER_EMAIL"),
			Recipients: envList("EMAIL_RECIPIENTS"),
		},
		Scheduler: SchedulerConfig{
			DailyCheckCron: envString("SCHEDULE_DAILY_CRON", "0 6 * * *"),
			WeeklyJobCron:  envString("SCHEDULE_WEEKLY_CRON", "0 8 * * 1"),
		},
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
