// Package model defines data structures for the agent dashboard.
package model

// Default connection parameters used when nothing has been stored yet.
const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultTenantID = "demo"
)

// ClientConfig holds the connection parameters for the remote agent API.
// JSON keys match what the browser dashboard kept in local storage.
type ClientConfig struct {
	BaseURL  string `json:"baseUrl"`
	APIKey   string `json:"apiKey"`
	TenantID string `json:"tenantId"`
}

// DefaultClientConfig returns the configuration used on first run.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:  DefaultBaseURL,
		APIKey:   "",
		TenantID: DefaultTenantID,
	}
}

// Masked returns a copy safe for display, with the API key hidden.
func (c ClientConfig) Masked() ClientConfig {
	if c.APIKey == "" {
		return c
	}
	keep := 4
	if len(c.APIKey) <= keep {
		c.APIKey = "****"
		return c
	}
	c.APIKey = "****" + c.APIKey[len(c.APIKey)-keep:]
	return c
}

// ConfigField names an editable field of ClientConfig.
type ConfigField string

const (
	FieldBaseURL  ConfigField = "base-url"
	FieldAPIKey   ConfigField = "api-key"
	FieldTenantID ConfigField = "tenant-id"
)

// ConfigFields lists the editable fields in display order.
var ConfigFields = []ConfigField{FieldBaseURL, FieldTenantID, FieldAPIKey}

// Set assigns value to the named field. It reports false for unknown fields.
func (c *ClientConfig) Set(field ConfigField, value string) bool {
	switch field {
	case FieldBaseURL:
		c.BaseURL = value
	case FieldAPIKey:
		c.APIKey = value
	case FieldTenantID:
		c.TenantID = value
	default:
		return false
	}
	return true
}
