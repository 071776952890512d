package main

import (
	"time"
	"trackwrestling-backend/lib/notify"
	"trackwrestling-backend/lib/scrapers/trackwrestling/core"
	"trackwrestling-backend/services/matchwatch"
)

type WatchConfig struct {
	// Schedule is a cron spec, ex. "@every 30s" or "*/1 8-20 * * *".
	Schedule        string              `json:"schedule"`
	Tournaments     []matchwatch.Target `json:"tournaments"`
	Follow          []string            `json:"follow"`
	FollowThreshold float64             `json:"follow_threshold"`
	WebhookUrl      string              `json:"webhook_url"`
	Email           notify.EmailOptions `json:"email"`
}

type Config struct {
	BaseUrl               string  `json:"base_url"`
	Port                  int     `json:"port"`
	RequestsPerSecond     float64 `json:"requests_per_second"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds"`
	SessionTtlMinutes     int     `json:"session_ttl_minutes"`
	SessionCacheSize      int     `json:"session_cache_size"`
	// Timezone is the IANA name cron schedules are evaluated in.
	Timezone string `json:"timezone"`
	// DumpDir receives raw http exchanges when running with -v.
	DumpDir string      `json:"dump_dir"`
	Watch   WatchConfig `json:"watch"`
}

var defaultConfig = Config{
	BaseUrl:               core.DefaultBaseUrl,
	Port:                  8000,
	RequestsPerSecond:     2,
	RequestTimeoutSeconds: 30,
	SessionTtlMinutes:     15,
	SessionCacheSize:      256,
	Timezone:              "UTC",
	DumpDir:               ".dev_state/resty_telemetry/trackwrestling",
	Watch: WatchConfig{
		Schedule:        matchwatch.DefaultSchedule,
		FollowThreshold: matchwatch.DefaultFollowThreshold,
	},
}

func (c Config) requestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) sessionTtl() time.Duration {
	return time.Duration(c.SessionTtlMinutes) * time.Minute
}

func (c WatchConfig) notifier() notify.Multi {
	notifiers := notify.Multi{}
	if c.WebhookUrl != "" {
		notifiers = append(notifiers, notify.NewWebhook(c.WebhookUrl))
	}
	if c.Email.Enabled() {
		notifiers = append(notifiers, notify.NewEmail(c.Email))
	}
	return notifiers
}
