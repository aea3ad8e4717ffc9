package config

import "time"

// Config holds all application configuration settings. Credentials come
// from the same two environment variables the device tooling has always
// used; everything else is prefixed NVR_.
type Config struct {
	Username string `envconfig:"HIK_USERNAME"`
	Password string `envconfig:"HIK_PASSWORD"`

	ArchiveDir string `envconfig:"NVR_ARCHIVE_DIR" default:"./media_archive" validate:"required"`
	PageSize   int    `envconfig:"NVR_PAGE_SIZE" default:"40" validate:"gt=0"`

	FileDelay   time.Duration `envconfig:"NVR_FILE_DELAY" default:"2s" validate:"min=0"`
	RetryDelay  time.Duration `envconfig:"NVR_RETRY_DELAY" default:"10s" validate:"min=0"`
	MaxRetries  int           `envconfig:"NVR_MAX_RETRIES" default:"0" validate:"min=0"`
	HTTPTimeout time.Duration `envconfig:"NVR_HTTP_TIMEOUT" default:"30s" validate:"gt=0"`

	LogLevel  string `envconfig:"NVR_LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"NVR_LOG_FORMAT" default:"text" validate:"oneof=text json"`

	MetricsAddr string `envconfig:"NVR_METRICS_ADDR"`
}

// HasCredentials reports whether both credential variables are set.
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}
