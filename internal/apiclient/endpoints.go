package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

// Health calls GET /health. Any 2xx is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, "health", http.MethodGet, "/health", nil, nil, nil)
}

// GetSettings fetches the tenant settings document.
func (c *Client) GetSettings(ctx context.Context) (*model.TenantSettings, error) {
	var out model.TenantSettings
	if err := c.doJSON(ctx, "get_settings", http.MethodGet, c.tenantPath("/settings"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PutSettings replaces the tenant settings document and returns the stored
// version.
func (c *Client) PutSettings(ctx context.Context, doc *model.TenantSettings) (*model.TenantSettings, error) {
	var out model.TenantSettings
	if err := c.doJSON(ctx, "put_settings", http.MethodPut, c.tenantPath("/settings"), nil, doc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertKB posts inline knowledge items.
func (c *Client) UpsertKB(ctx context.Context, req model.KnowledgeUpsertRequest) error {
	return c.doJSON(ctx, "kb_upsert", http.MethodPost, "/kb/upsert", nil, req, nil)
}

// UploadKB posts a file for ingestion as multipart form data with the
// fields tenant_id, tags and file.
func (c *Client) UploadKB(ctx context.Context, tenantID, tags, filename string, file io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("tenant_id", tenantID); err != nil {
		return fmt.Errorf("kb_upload: %w", err)
	}
	if err := mw.WriteField("tags", tags); err != nil {
		return fmt.Errorf("kb_upload: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("kb_upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("kb_upload: read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("kb_upload: %w", err)
	}

	return c.do(ctx, "kb_upload", http.MethodPost, "/kb/upload", nil, &buf, mw.FormDataContentType(), nil)
}

// ListFollowups lists follow-ups with the given status.
func (c *Client) ListFollowups(ctx context.Context, status model.FollowUpStatus) ([]model.FollowUpRow, error) {
	q := url.Values{}
	q.Set("status", string(status))

	var out []model.FollowUpRow
	if err := c.doJSON(ctx, "list_followups", http.MethodGet, "/followup", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.FollowUpRow{}
	}
	return out, nil
}

// ListContacts lists tenant contacts. A limit of zero leaves it to the
// server.
func (c *Client) ListContacts(ctx context.Context, limit int) ([]model.Contact, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{}
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []model.Contact
	if err := c.doJSON(ctx, "list_contacts", http.MethodGet, "/contacts", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Contact{}
	}
	return out, nil
}

// GetSopState reads the SOP step of a contact or user.
func (c *Client) GetSopState(ctx context.Context, contactID, userID string) (*model.SopState, error) {
	q := url.Values{}
	if contactID != "" {
		q.Set("contact_id", contactID)
	}
	if userID != "" {
		q.Set("user_id", userID)
	}

	var out model.SopState
	if err := c.doJSON(ctx, "get_sop_state", http.MethodGet, "/sop/state", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetSopState sets the SOP step of a contact or user.
func (c *Client) SetSopState(ctx context.Context, state model.SopState) error {
	return c.doJSON(ctx, "set_sop_state", http.MethodPut, "/sop/state", nil, state, nil)
}

// Chat sends a conversation to the agent and returns its reply.
func (c *Client) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	var out model.ChatResponse
	if err := c.doJSON(ctx, "chat", http.MethodPost, "/chat", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
