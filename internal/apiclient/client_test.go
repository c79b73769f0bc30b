package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(model.ClientConfig{BaseURL: srv.URL, APIKey: "k-1", TenantID: "toko abc"}, WithHTTPClient(srv.Client()))
}

func TestClient_SendsCredentialHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.Health(context.Background()))
	assert.Equal(t, "k-1", got.Get(HeaderAPIKey))
	assert.Equal(t, "toko abc", got.Get(HeaderTenantID))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get(HeaderRequestID))
}

func TestClient_GetSettingsEscapesTenant(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/tenants/toko%20abc/settings", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"tenant_id":"toko abc","timezone":"Asia/Jakarta","sop":{"steps":[{"name":"harga","order":1}]}}`))
	})

	doc, err := c.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", doc.Timezone)
	require.Len(t, doc.Sop.Steps, 1)
	assert.Equal(t, "harga", doc.Sop.Steps[0].Name)
}

func TestClient_StatusErrorCarriesBodyVerbatim(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("invalid timezone\n"))
	})

	_, err := c.PutSettings(context.Background(), &model.TenantSettings{TenantID: "toko abc"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "invalid timezone", err.Error())
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestStatusError_EmptyBody(t *testing.T) {
	t.Parallel()

	err := &StatusError{StatusCode: 503}
	assert.Equal(t, "status 503", err.Error())
}

func TestClient_DecodeFailure(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := c.Chat(context.Background(), model.ChatRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestClient_ListFollowupsQuery(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/followup", r.URL.Path)
		assert.Equal(t, "status=sent", r.URL.RawQuery)
		_, _ = w.Write([]byte(`[{"id":"f1","status":"pending","scheduled_at":"2024-05-01T10:00:00Z"}]`))
	})

	rows, err := c.ListFollowups(context.Background(), model.FollowUpSent)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.FollowUpPending, rows[0].Status)
}

func TestClient_ListContactsLimit(t *testing.T) {
	t.Parallel()

	var queries []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(`null`))
	})

	out, err := c.ListContacts(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, out)
	_, err = c.ListContacts(context.Background(), 25)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "limit=25"}, queries)
}

func TestClient_UploadKBMultipart(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "toko abc", r.FormValue("tenant_id"))
		assert.Equal(t, "produk,harga", r.FormValue("tags"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "faq.txt", hdr.Filename)
		assert.Equal(t, "isi", string(data))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.UploadKB(context.Background(), "toko abc", "produk,harga", "faq.txt", bytes.NewBufferString("isi"))
	require.NoError(t, err)
}

func TestClient_SopStateRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "harga", body["current_step"])
			assert.NotContains(t, body, "user_id")
			w.WriteHeader(http.StatusOK)
		case http.MethodGet:
			assert.Equal(t, "c1", r.URL.Query().Get("contact_id"))
			_, _ = w.Write([]byte(`{"tenant_id":"toko abc","contact_id":"c1","current_step":"harga"}`))
		}
	})

	require.NoError(t, c.SetSopState(context.Background(), model.SopState{TenantID: "toko abc", ContactID: "c1", CurrentStep: "harga"}))
	st, err := c.GetSopState(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "harga", st.CurrentStep)
}

func TestClient_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	c := New(model.ClientConfig{BaseURL: "localhost"})
	err := c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base url")
}
