package api

import "time"

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SettingsView is the decoded, reconciled settings record as served to
// clients. Raw flag bits are included verbatim next to the effective
// states so callers can tell a set bit from an inferred one.
type SettingsView struct {
	VersionSignature  uint32 `json:"version_signature"`
	ChangeCounter     uint32 `json:"change_counter"`
	RawFlags          uint32 `json:"raw_flags"`
	DirectConnection  bool   `json:"direct_connection"`
	AutoDetect        bool   `json:"auto_detect"`
	ProxyServer       string `json:"proxy_server"`
	ProxyBypass       string `json:"proxy_bypass"`
	AutoConfigURL     string `json:"auto_config_url"`
	ProxyEnabled      bool   `json:"proxy_enabled"`
	AutoConfigEnabled bool   `json:"auto_config_enabled"`
	Layout            string `json:"layout"`
}

// SettingsUpdate is a partial update; nil fields are left unchanged.
// Boolean fields drive the corresponding raw flag bits; the server never
// infers bits from the string values.
type SettingsUpdate struct {
	ProxyServer      *string `json:"proxy_server,omitempty"`
	ProxyBypass      *string `json:"proxy_bypass,omitempty"`
	AutoConfigURL    *string `json:"auto_config_url,omitempty"`
	DirectConnection *bool   `json:"direct_connection,omitempty"`
	ProxyEnabled     *bool   `json:"proxy_enabled,omitempty"`
	AutoConfig       *bool   `json:"auto_config,omitempty"`
	AutoDetect       *bool   `json:"auto_detect,omitempty"`
}

// RawView is the hex dump of the stored blob
type RawView struct {
	Length int    `json:"length"`
	Hex    string `json:"hex"`
}

// BackupView describes one stored snapshot
type BackupView struct {
	ID      string    `json:"id"`
	Size    int       `json:"size"`
	Created time.Time `json:"created"`
}
