package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/agent-dashboard/internal/apiclient"
	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

type staticConfig model.ClientConfig

func (c staticConfig) Load(context.Context) model.ClientConfig {
	return model.ClientConfig(c)
}

// fakeAPI is a scripted agent API that counts requests.
type fakeAPI struct {
	srv   *httptest.Server
	calls atomic.Int32
}

func newFakeAPI(t *testing.T, h http.HandlerFunc) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) connector(cfg model.ClientConfig) *Connector {
	if cfg.BaseURL == "use-fake" {
		cfg.BaseURL = f.srv.URL
	}
	return NewConnector(staticConfig(cfg), apiclient.WithHTTPClient(f.srv.Client()))
}

func fullConfig() model.ClientConfig {
	return model.ClientConfig{BaseURL: "use-fake", APIKey: "k-1", TenantID: "demo"}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.ActivityEvent
	err    error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, e *model.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func TestSettingsFetch_RequiresAllConfigFields(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, cfg := range []model.ClientConfig{
		{BaseURL: "", APIKey: "k", TenantID: "demo"},
		{BaseURL: "use-fake", APIKey: "", TenantID: "demo"},
		{BaseURL: "use-fake", APIKey: "k", TenantID: ""},
	} {
		svc := NewSettingsService(api.connector(cfg), nil, logger.NewNop())
		_, err := svc.Fetch(context.Background())
		require.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Equal(t, "set base URL, tenant ID and API key first", OperatorMessage("load settings", err))
	}
	assert.Zero(t, api.calls.Load())
}

func TestSettingsSave_FailureKeepsCopyAndShowsBody(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"tenant_id":"demo","timezone":"Asia/Jakarta","working_hours":"09-17"}`))
		case http.MethodPut:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("invalid timezone"))
		}
	})
	svc := NewSettingsService(api.connector(fullConfig()), nil, logger.NewNop())
	ctx := context.Background()

	_, err := svc.Fetch(ctx)
	require.NoError(t, err)
	_, err = svc.Edit(func(s *model.TenantSettings) { s.Timezone = "Mars/Olympus" })
	require.NoError(t, err)
	before, err := svc.Current()
	require.NoError(t, err)

	_, err = svc.Save(ctx)
	require.Error(t, err)
	assert.Contains(t, OperatorMessage("save settings", err), "invalid timezone")

	after, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSettingsSave_ReplacesCopyWithServerResponse(t *testing.T) {
	t.Parallel()

	var sent model.TenantSettings
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"tenant_id":"demo","timezone":"Asia/Jakarta","followup_interval_minutes":60}`))
		case http.MethodPut:
			assert.Equal(t, "/tenants/demo/settings", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
			_, _ = w.Write([]byte(`{"tenant_id":"demo","timezone":"Asia/Jakarta","working_hours":"08:00-17:00","followup_interval_minutes":30}`))
		}
	})
	pub := &recordingPublisher{}
	svc := NewSettingsService(api.connector(fullConfig()), NewActivity(pub, logger.NewNop()), logger.NewNop())
	ctx := context.Background()

	_, err := svc.Fetch(ctx)
	require.NoError(t, err)
	_, err = svc.Edit(func(s *model.TenantSettings) { s.WorkingHours = "8-5" })
	require.NoError(t, err)

	saved, err := svc.Save(ctx)
	require.NoError(t, err)

	assert.Equal(t, "8-5", sent.WorkingHours)
	assert.Equal(t, 60, sent.FollowupIntervalMinutes)
	assert.Equal(t, "08:00-17:00", saved.WorkingHours)

	cur, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, "08:00-17:00", cur.WorkingHours)
	assert.Equal(t, 30, cur.FollowupIntervalMinutes)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.ActivitySettingsSaved, pub.events[0].Type)
	assert.Equal(t, "demo", pub.events[0].TenantID)
}

func TestSettingsSave_WithoutFetchMakesNoRequest(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {})
	svc := NewSettingsService(api.connector(fullConfig()), nil, logger.NewNop())

	_, err := svc.Save(context.Background())
	require.ErrorIs(t, err, ErrSettingsNotLoaded)
	require.ErrorIs(t, svc.Replace(&model.TenantSettings{}), ErrSettingsNotLoaded)
	_, err = svc.Current()
	require.ErrorIs(t, err, ErrSettingsNotLoaded)
	assert.Zero(t, api.calls.Load())
}

func TestSettingsReplace_StoresIndependentCopy(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tenant_id":"demo"}`))
	})
	svc := NewSettingsService(api.connector(fullConfig()), nil, logger.NewNop())
	_, err := svc.Fetch(context.Background())
	require.NoError(t, err)

	doc := &model.TenantSettings{TenantID: "demo", Sop: model.SalesSop{Steps: []model.SopStep{{Name: "harga"}}}}
	require.NoError(t, svc.Replace(doc))
	doc.Sop.Steps[0].Name = "changed"

	cur, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, "harga", cur.Sop.Steps[0].Name)
	assert.True(t, IsValidation(svc.Replace(nil)))
}

func TestKBUpsert_ValidationAndTags(t *testing.T) {
	t.Parallel()

	var got model.KnowledgeUpsertRequest
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kb/upsert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})
	svc := NewKBService(api.connector(fullConfig()), nil, logger.NewNop())
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "", "isi", "a")
	require.True(t, IsValidation(err))
	_, err = svc.Upsert(ctx, "Judul", "", "a")
	require.True(t, IsValidation(err))
	assert.Zero(t, api.calls.Load())

	item, err := svc.Upsert(ctx, "Harga", "Mulai 10rb", "produk, harga,")
	require.NoError(t, err)
	assert.Equal(t, []string{"produk", "harga"}, item.Tags)
	assert.Equal(t, "demo", got.TenantID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, []string{"produk", "harga"}, got.Items[0].Tags)
}

func TestKBUpload(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "a,b", r.FormValue("tags"))
		assert.Equal(t, "demo", r.FormValue("tenant_id"))
		w.WriteHeader(http.StatusOK)
	})
	svc := NewKBService(api.connector(fullConfig()), nil, logger.NewNop())

	err := svc.Upload(context.Background(), "a, ,b", "", strings.NewReader("x"))
	require.True(t, IsValidation(err))
	assert.Zero(t, api.calls.Load())

	require.NoError(t, svc.Upload(context.Background(), "a, ,b", "faq.txt", strings.NewReader("x")))
}

func TestFollowupList_TrustsServer(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/followup", r.URL.Path)
		assert.Equal(t, "sent", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`[
			{"id":"1","status":"sent","scheduled_at":"2024-05-01T10:00:00Z"},
			{"id":"2","status":"failed","scheduled_at":"2024-05-01T11:00:00Z","last_error":"timeout"}
		]`))
	})
	svc := NewFollowupService(api.connector(fullConfig()), logger.NewNop())

	rows, err := svc.List(context.Background(), model.FollowUpSent)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.FollowUpFailed, rows[1].Status)
	require.NotNil(t, rows[1].LastError)
	assert.Equal(t, "timeout", *rows[1].LastError)

	_, err = svc.List(context.Background(), "queued")
	assert.True(t, IsValidation(err))
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestFollowupCounts_MatchListLengths(t *testing.T) {
	t.Parallel()

	sizes := map[string]int{"pending": 3, "sent": 1, "failed": 0}
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		n := sizes[r.URL.Query().Get("status")]
		rows := make([]model.FollowUpRow, n)
		_ = json.NewEncoder(w).Encode(rows)
	})
	svc := NewFollowupService(api.connector(fullConfig()), logger.NewNop())

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.FollowupCounts{Pending: 3, Sent: 1, Failed: 0}, counts)
	assert.Equal(t, int32(3), api.calls.Load())
}

func TestFollowupCounts_PropagatesFailure(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") == "failed" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	svc := NewFollowupService(api.connector(fullConfig()), logger.NewNop())

	_, err := svc.Counts(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, "failed to load follow-up counts: boom", OperatorMessage("load follow-up counts", err))
}

func TestContactsList(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`[{"id":"c1","name":"Budi","phone":"+62811"}]`))
	})
	svc := NewContactsService(api.connector(fullConfig()))

	_, err := svc.List(context.Background(), 500)
	assert.True(t, IsValidation(err))

	contacts, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "Budi", *contacts[0].Name)
	assert.Nil(t, contacts[0].Email)
}

func TestSopSetState_UnknownStepMakesNoRequest(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	svc := NewSopService(api.connector(fullConfig()), nil, logger.NewNop())
	ctx := context.Background()

	_, err := svc.SetState(ctx, "c1", "", "closing")
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), `unknown SOP step "closing"`)

	_, err = svc.SetState(ctx, "", "", "harga")
	require.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "contact_id or user_id is required")

	_, err = svc.GetState(ctx, "", "")
	require.True(t, IsValidation(err))
	assert.Zero(t, api.calls.Load())
}

func TestSopSetState_AnyStepFromAnyOther(t *testing.T) {
	t.Parallel()

	var steps []string
	var mu sync.Mutex
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var st model.SopState
		require.NoError(t, json.NewDecoder(r.Body).Decode(&st))
		assert.Equal(t, "demo", st.TenantID)
		mu.Lock()
		steps = append(steps, st.CurrentStep)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})
	svc := NewSopService(api.connector(fullConfig()), nil, logger.NewNop())

	order := []string{"harga", "reach out", "rekomendasi", "keluhan", "harga"}
	for _, step := range order {
		_, err := svc.SetState(context.Background(), "c1", "", step)
		require.NoError(t, err)
	}
	assert.Equal(t, order, steps)
	assert.Equal(t, model.SopSteps, svc.Steps())
}

func TestChatSend_SendsTranscriptAndAppendsReply(t *testing.T) {
	t.Parallel()

	var requests []model.ChatRequest
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		var req model.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)
		_, _ = w.Write([]byte(`{"full_text":"Halo kak","retrieved_context":["faq harga"]}`))
	})
	clock := func() time.Time { return time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC) }
	svc := NewChatService(api.connector(fullConfig()), nil, logger.NewNop(), WithClock(clock))
	ctx := context.Background()

	reply, err := svc.Send(ctx, "halo")
	require.NoError(t, err)
	assert.Equal(t, model.SenderAI, reply.Sender)
	assert.Equal(t, "09:05", reply.Time)
	assert.Equal(t, []string{"faq harga"}, reply.Context)

	_, err = svc.Send(ctx, "berapa harganya?")
	require.NoError(t, err)

	require.Len(t, requests, 2)
	last := requests[1]
	assert.Equal(t, "demo", last.TenantID)
	assert.Equal(t, DefaultChatUserID, last.UserID)
	assert.Equal(t, DefaultChatChannel, last.Channel)
	assert.Equal(t, []model.Message{
		{Role: model.RoleUser, Content: "halo"},
		{Role: model.RoleAssistant, Content: "Halo kak"},
		{Role: model.RoleUser, Content: "berapa harganya?"},
	}, last.Messages)

	assert.Len(t, svc.Transcript(), 4)
	svc.Reset()
	assert.Empty(t, svc.Transcript())
}

func TestChatSend_FailureKeepsUserMessageOnly(t *testing.T) {
	t.Parallel()

	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "llm unavailable", http.StatusBadGateway)
	})
	svc := NewChatService(api.connector(fullConfig()), nil, logger.NewNop())

	_, err := svc.Send(context.Background(), "halo")
	require.Error(t, err)
	assert.Equal(t, "failed to send message: llm unavailable", OperatorMessage("send message", err))

	transcript := svc.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, model.SenderUser, transcript[0].Sender)

	_, err = svc.Send(context.Background(), "   ")
	assert.True(t, IsValidation(err))
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	var healthy atomic.Bool
	api := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if healthy.Load() {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	svc := NewHealthService(api.connector(model.ClientConfig{BaseURL: "use-fake"}))

	status, err := svc.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "DOWN: status 503", status)

	healthy.Store(true)
	status, err = svc.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", status)

	_, err = NewHealthService(api.connector(model.ClientConfig{})).Check(context.Background())
	assert.True(t, IsValidation(err))
}

func TestOperatorMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, OperatorMessage("x", nil))
	assert.Equal(t, "failed to load contacts: dial refused", OperatorMessage("load contacts", errors.New("dial refused")))
	assert.Equal(t, ErrSettingsNotLoaded.Error(), OperatorMessage("save settings", ErrSettingsNotLoaded))
}

func TestActivity_PublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: io.ErrClosedPipe}
	a := NewActivity(pub, logger.NewNop())
	a.Record(context.Background(), "demo", model.ActivityChatSent, nil)
	require.Len(t, pub.events, 1)
	assert.NotEmpty(t, pub.events[0].ID)

	var nilActivity *Activity
	nilActivity.Record(context.Background(), "demo", model.ActivityChatSent, nil)
}

type feedPublisher struct {
	recordingPublisher
}

func (p *feedPublisher) RecentActivity(_ context.Context, tenantID string, after uint64, limit int) ([]model.ActivityEvent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []model.ActivityEvent{}
	for i, e := range p.events {
		if e.TenantID == tenantID && uint64(i+1) > after && (limit == 0 || len(out) < limit) {
			ev := *e
			ev.Sequence = uint64(i + 1)
			out = append(out, ev)
		}
	}
	return out, nil
}

func TestActivity_Recent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := NewActivity(nil, logger.NewNop()).Recent(ctx, "demo", 0, 10)
	require.ErrorIs(t, err, ErrActivityDisabled)
	_, err = NewActivity(&recordingPublisher{}, logger.NewNop()).Recent(ctx, "demo", 0, 10)
	require.ErrorIs(t, err, ErrActivityDisabled)

	feed := &feedPublisher{}
	a := NewActivity(feed, logger.NewNop())
	a.Record(ctx, "demo", model.ActivityKBUpserted, nil)
	a.Record(ctx, "other", model.ActivityKBUpserted, nil)
	a.Record(ctx, "demo", model.ActivityChatSent, nil)

	events, err := a.Recent(ctx, "demo", 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.ActivityChatSent, events[0].Type)

	_, err = a.Recent(ctx, "demo", 0, 1000)
	assert.True(t, IsValidation(err))
}
