package models

// Config is the on-disk configuration for postadmin.
type Config struct {
	// ServerURL points the admin screen and post commands at a remote
	// `postadmin serve` instance. Empty means the local database.
	ServerURL string `json:"server_url,omitempty"`
	Token     string `json:"token,omitempty"`

	// DateFormat is a Go time layout used for the Created At column.
	DateFormat string `json:"date_format,omitempty"`

	// TimeoutSeconds bounds each request to a remote server.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// DefaultDateFormat is used when Config.DateFormat is unset.
const DefaultDateFormat = "Jan 02, 2006"

// DefaultTimeoutSeconds is used when Config.TimeoutSeconds is unset.
const DefaultTimeoutSeconds = 10
