/*
 * @module service/config/config_test
 * @description Configuration loading tests: defaults and environment overrides
 * @architecture Unit tests - t.Setenv isolation
 * @stateFlow Set env -> load -> verify derived values
 * @rules Defaults must allow a local start with no configuration at all
 * @dependencies testing, testify
 * @refs config.go
 */

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "https://bdl.stat.gov.pl/api/v1", cfg.BDL.BaseURL)
	assert.Equal(t, "P3961", cfg.BDL.SubgroupID)
	assert.Equal(t, "0 6 * * *", cfg.Scheduler.DailyCheckCron)
	assert.Equal(t, "0 8 * * 1", cfg.Scheduler.WeeklyJobCron)
	assert.NotEmpty(t, cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("GUS_API_RETRY_DELAY", "2s")
	t.Setenv("EMAIL_RECIPIENTS", "a@example.com,b@example.com")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 2*time.Second, cfg.BDL.RetryDelay)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.SMTP.Recipients)
}

func TestSMTPConfig_Enabled(t *testing.T) {
	cfg := SMTPConfig{}
	assert.False(t, cfg.Enabled())

	cfg = SMTPConfig{
		User:       "bot@example.com",
		Password:   "secret",
		Recipients: []string{"ops@example.com"},
	}
	assert.True(t, cfg.Enabled())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "pw", Name: "gus", SSLMode: "disable", Schema: "public",
	}
	dsn := cfg.DSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=gus")
	assert.Contains(t, dsn, "search_path=public")
}
