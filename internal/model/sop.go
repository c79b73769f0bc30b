package model

// SopSteps is the fixed list of step labels offered by the SOP widget.
// Any step may be set from any other.
var SopSteps = []string{"reach out", "keluhan", "konsultasi", "rekomendasi", "harga"}

// IsSopStep reports whether step is one of SopSteps.
func IsSopStep(step string) bool {
	for _, s := range SopSteps {
		if s == step {
			return true
		}
	}
	return false
}

// SopState records where a contact sits in the SOP flow.
type SopState struct {
	TenantID    string `json:"tenant_id"`
	ContactID   string `json:"contact_id,omitempty" validate:"required_without=UserID"`
	UserID      string `json:"user_id,omitempty" validate:"required_without=ContactID"`
	CurrentStep string `json:"current_step" validate:"required,sop_step"`
}
