package service

import (
	"context"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

const widgetContacts = "contacts"

// MaxContactsLimit is the largest page the agent API accepts.
const MaxContactsLimit = 200

// ContactsService lists tenant contacts.
type ContactsService struct {
	conn *Connector
}

// NewContactsService creates the contacts widget.
func NewContactsService(conn *Connector) *ContactsService {
	return &ContactsService{conn: conn}
}

// List returns contacts, newest first as ordered by the server. A limit of
// zero uses the server default.
func (s *ContactsService) List(ctx context.Context, limit int) ([]model.Contact, error) {
	if limit < 0 || limit > MaxContactsLimit {
		return nil, invalid(widgetContacts, "limit must be between 0 and %d", MaxContactsLimit)
	}
	client, err := s.conn.Connect(ctx, widgetContacts)
	if err != nil {
		return nil, err
	}
	return client.ListContacts(ctx, limit)
}
