package config

import "time"

// ConnectorSettings holds the per-integration credentials and tuning knobs
// read from the [connectors.<code>] config sections.
type ConnectorSettings struct {
	Enabled          bool
	APIURL           string
	ClientID         string
	ClientSecret     string
	TimeoutSeconds   int
	WarehouseMapping string            // newline-separated "local=remote" pairs
	Extras           map[string]string // connector-specific fields (api_key, account id, ...)
}

// Timeout returns the request timeout as a duration.
func (s ConnectorSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Extra returns a connector-specific extra field, or "" when unset.
func (s ConnectorSettings) Extra(key string) string {
	if s.Extras == nil {
		return ""
	}
	return s.Extras[key]
}

// ConnectorSource resolves settings for a connector code. The application
// config is the canonical source; Overlay layers ad-hoc values on top of it
// for one-off connection tests without mutating the loaded config.
type ConnectorSource interface {
	ConnectorSettings(code string) (ConnectorSettings, bool)
}

// ConnectorSettings implements ConnectorSource on the loaded config.
func (c *Config) ConnectorSettings(code string) (ConnectorSettings, bool) {
	cs, ok := c.Connectors[code]
	return cs, ok
}

// Overlay is a ConnectorSource that overrides the settings of a single
// connector code and delegates every other lookup to its base. The override
// is applied field by field so callers can test a new secret without
// re-sending the rest of the stored settings.
type Overlay struct {
	base     ConnectorSource
	code     string
	override ConnectorSettings
}

// NewOverlay builds an overlay for one connector code on top of base.
func NewOverlay(base ConnectorSource, code string, override ConnectorSettings) *Overlay {
	return &Overlay{base: base, code: code, override: override}
}

func (o *Overlay) ConnectorSettings(code string) (ConnectorSettings, bool) {
	cs, ok := o.base.ConnectorSettings(code)
	if code != o.code {
		return cs, ok
	}
	if !ok {
		// Unknown to the base config, the override stands alone.
		merged := o.override
		merged.Enabled = true
		return merged, true
	}
	cs.Enabled = true
	if o.override.APIURL != "" {
		cs.APIURL = o.override.APIURL
	}
	if o.override.ClientID != "" {
		cs.ClientID = o.override.ClientID
	}
	if o.override.ClientSecret != "" {
		cs.ClientSecret = o.override.ClientSecret
	}
	if o.override.TimeoutSeconds != 0 {
		cs.TimeoutSeconds = o.override.TimeoutSeconds
	}
	if o.override.WarehouseMapping != "" {
		cs.WarehouseMapping = o.override.WarehouseMapping
	}
	if len(o.override.Extras) > 0 {
		extras := make(map[string]string, len(cs.Extras)+len(o.override.Extras))
		for k, v := range cs.Extras {
			extras[k] = v
		}
		for k, v := range o.override.Extras {
			extras[k] = v
		}
		cs.Extras = extras
	}
	return cs, true
}
