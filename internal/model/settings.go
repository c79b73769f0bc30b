package model

// PersonaSettings describes how the agent presents itself.
type PersonaSettings struct {
	Persona     string `json:"persona"`
	StylePrompt string `json:"style_prompt"`
	Tone        string `json:"tone"`
	Language    string `json:"language"`
}

// SopStep is one step of the tenant's scripted sales flow.
type SopStep struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

// SalesSop is the ordered list of SOP steps.
type SalesSop struct {
	Steps []SopStep `json:"steps"`
}

// TenantSettings is the server-owned settings document of a tenant.
// The dashboard only ever transmits it whole.
type TenantSettings struct {
	TenantID                string          `json:"tenant_id"`
	APIKey                  *string         `json:"api_key,omitempty"`
	Persona                 PersonaSettings `json:"persona"`
	Sop                     SalesSop        `json:"sop"`
	WorkingHours            string          `json:"working_hours"`
	Timezone                string          `json:"timezone"`
	FollowupEnabled         bool            `json:"followup_enabled"`
	FollowupIntervalMinutes int             `json:"followup_interval_minutes"`
}

// Clone returns a deep copy of the settings document.
func (s *TenantSettings) Clone() *TenantSettings {
	if s == nil {
		return nil
	}
	out := *s
	if s.APIKey != nil {
		key := *s.APIKey
		out.APIKey = &key
	}
	if s.Sop.Steps != nil {
		out.Sop.Steps = make([]SopStep, len(s.Sop.Steps))
		copy(out.Sop.Steps, s.Sop.Steps)
	}
	return &out
}
