package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
)

func TestActivitySubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tenant string
		typ    model.ActivityType
		want   string
	}{
		{"demo", model.ActivitySettingsSaved, "dash.demo.settings_saved"},
		{"toko_abc-1", model.ActivityKBUploaded, "dash.toko_abc-1.kb_uploaded"},
		{"toko.abc", model.ActivityKBUploaded, "dash.~746f6b6f2e616263.kb_uploaded"},
		{"a b*>", model.ActivityChatSent, "dash.~6120622a3e.chat_sent"},
		{"", model.ActivitySopStateSet, "dash.~.sop_state_set"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ActivitySubject(tt.tenant, tt.typ))
	}
}

func TestTenantFilter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dash.demo.>", TenantFilter("demo"))
	assert.Equal(t, "dash.~746f6b6f2e616263.>", TenantFilter("toko.abc"))
}

func TestSubjectToken_DistinctIDsNeverCollide(t *testing.T) {
	t.Parallel()

	ids := []string{"a.b", "a_b", "a b", "a*b", "a>b", "", "_", "~", "~612e62", "612e62"}
	seen := map[string]string{}
	for _, id := range ids {
		token := subjectToken(id)
		assert.NotContains(t, token, ".")
		assert.NotContains(t, token, "*")
		assert.NotContains(t, token, ">")
		assert.NotContains(t, token, " ")
		assert.NotEmpty(t, token)
		if prev, ok := seen[token]; ok {
			t.Errorf("ids %q and %q share token %q", prev, id, token)
		}
		seen[token] = id
	}
}
