package model

// Contact is a read-only snapshot of a tenant contact.
type Contact struct {
	ID     string  `json:"id"`
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Email  *string `json:"email,omitempty"`
	Status *string `json:"status,omitempty"`
}
