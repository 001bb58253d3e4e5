package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 9, cfg.OpenHour)
	assert.Equal(t, 17, cfg.CloseHour)
	assert.Equal(t, 30, cfg.SlotMinutes)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}, cfg.WorkDays)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.EmailTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLINIC_OPEN_HOUR", "8")
	t.Setenv("CLINIC_CLOSE_HOUR", "18")
	t.Setenv("CLINIC_SLOT_MINUTES", "20")
	t.Setenv("CLINIC_WORK_DAYS", "1,3,5")
	t.Setenv("SESSION_TTL", "12h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://clinic.example, https://admin.clinic.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 8, cfg.OpenHour)
	assert.Equal(t, 18, cfg.CloseHour)
	assert.Equal(t, 20, cfg.SlotMinutes)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, cfg.WorkDays)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://clinic.example", "https://admin.clinic.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadMalformedWorkDaysFallsBack(t *testing.T) {
	t.Setenv("CLINIC_WORK_DAYS", "1,seven,5")

	cfg := Load()

	assert.Len(t, cfg.WorkDays, 6)
	assert.Equal(t, time.Monday, cfg.WorkDays[0])
}
