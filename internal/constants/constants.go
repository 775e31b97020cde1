package constants

import "time"

const (
	AppName = "habitlog"
	Version = "v0.1.0"

	// DateFormat is the calendar date format used on the wire and on the command line (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Defaults
	DefaultAPIURL       = "http://localhost:8000/api"
	DefaultConfigDir    = "~/.config/habitlog"
	DefaultDBName       = "habitlog.db"
	DefaultTokenBackend = TokenBackendKeyring
	DefaultTimeout      = 30 * time.Second
	DefaultTimezone     = "Local"

	// Environment variables
	EnvAPIURL       = "HABITLOG_API_URL"
	EnvConfigDir    = "HABITLOG_CONFIG_DIR"
	EnvTokenBackend = "HABITLOG_TOKEN_BACKEND"
	EnvTimezone     = "HABITLOG_TIMEZONE"
	EnvFileName     = ".env"

	// Token store keys. The keyring uses them as users under the AppName service,
	// the sqlite backend as primary keys of the credentials table.
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"

	// Token backends
	TokenBackendKeyring = "keyring"
	TokenBackendFile    = "file"
	TokenBackendMemory  = "memory"

	// Settings keys stored in the local database
	SettingAPIURL       = "api_url"
	SettingTimezone     = "timezone"
	SettingLastLogin    = "last_login_user"
	SettingTokenBackend = "token_backend"

	// HTTP
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"
	ContentTypeJSON     = "application/json"
)
