package meta

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/infrastructure/integrator/meta/metaclient"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIntegrator(t *testing.T, handler http.Handler) *MetaIntegrator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Meta.URL = server.URL + "/v22.0"

	return New(metaclient.NewClient(cfg, server.Client()), "token-abc", "123")
}

func TestMetaIntegrator_GetCampaigns_FollowsPaging(t *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/v22.0/act_123/campaigns", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-abc", r.URL.Query().Get("access_token"))
		fmt.Fprintf(w, `{
			"data": [{"id": "1", "name": "First", "status": "ACTIVE", "daily_budget": "5000",
				"insights": {"data": [{"spend": "12.5", "impressions": "100", "clicks": "7"}]}}],
			"paging": {"next": "%s/v22.0/next-page"}
		}`, serverURL)
	})
	mux.HandleFunc("/v22.0/next-page", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "2", "name": "Second", "status": "PAUSED"}], "paging": {}}`))
	})

	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	cfg := &config.Config{}
	cfg.Meta.URL = server.URL + "/v22.0"
	integrator := New(metaclient.NewClient(cfg, server.Client()), "token-abc", "123")

	campaigns, err := integrator.GetCampaigns(context.Background(), "123")
	require.NoError(t, err)
	require.Len(t, campaigns, 2)

	assert.Equal(t, "1", campaigns[0].ExternalID)
	assert.Equal(t, 50.0, campaigns[0].Budget)
	assert.Equal(t, 12.5, campaigns[0].Spend)
	assert.Equal(t, int64(7), campaigns[0].Clicks)
	assert.Equal(t, domain.CampaignStatusPaused, campaigns[1].Status)
}

func TestMetaIntegrator_Mutations(t *testing.T) {
	tests := []struct {
		name         string
		run          func(m *MetaIntegrator) error
		expectedForm map[string]string
	}{
		{
			name:         "pause",
			run:          func(m *MetaIntegrator) error { return m.PauseCampaign(context.Background(), "999") },
			expectedForm: map[string]string{"status": "PAUSED"},
		},
		{
			name:         "resume",
			run:          func(m *MetaIntegrator) error { return m.ResumeCampaign(context.Background(), "999") },
			expectedForm: map[string]string{"status": "ACTIVE"},
		},
		{
			name:         "budget in cents",
			run:          func(m *MetaIntegrator) error { return m.UpdateBudget(context.Background(), "999", 75.5) },
			expectedForm: map[string]string{"daily_budget": "7550"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrator := newTestIntegrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v22.0/999", r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "token-abc", r.PostForm.Get("access_token"))
				for k, v := range tt.expectedForm {
					assert.Equal(t, v, r.PostForm.Get(k))
				}
				w.Write([]byte(`{"success": true}`))
			}))

			assert.NoError(t, tt.run(integrator))
		})
	}
}

func TestMetaIntegrator_GraphErrorSurfaces(t *testing.T) {
	integrator := newTestIntegrator(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Session has expired", "type": "OAuthException", "code": 190}}`))
	}))

	_, err := integrator.GetCampaigns(context.Background(), "123")

	var apiErr *connector.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestMetaIntegrator_PublishCreativeRequiresPage(t *testing.T) {
	integrator := newTestIntegrator(t, http.NotFoundHandler())

	_, err := integrator.PublishCreative(context.Background(), domain.Creative{Name: "no page"}, "999")
	assert.Error(t, err)
}
