package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scout-service/internal/domain/campaign"
	"scout-service/internal/domain/pricing"
	campaignHandler "scout-service/internal/handlers/campaign"
	quoteHandler "scout-service/internal/handlers/quote"
	rulesHandler "scout-service/internal/handlers/rules"
	wsHandler "scout-service/internal/handlers/websocket"
	"scout-service/internal/middleware"
	xerrors "scout-service/internal/pkg/errors"
	"scout-service/internal/pkg/jwt"
	"scout-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*jwt.Claims, error) {
	if token != "good" {
		return nil, xerrors.ErrUnauthorized
	}
	return &jwt.Claims{AgencyID: "agency-1"}, nil
}

type stubRules struct{}

func (stubRules) Get(ctx context.Context, agencyID string) (*pricing.RulesResponse, error) {
	return &pricing.RulesResponse{Source: pricing.RulesSourceDefault}, nil
}

func (stubRules) Upsert(ctx context.Context, agencyID string, req *pricing.UpdateRulesRequest) (*pricing.RulesResponse, error) {
	return nil, xerrors.ErrInvalidInput
}

func (stubRules) Reset(ctx context.Context, agencyID string) (*pricing.RulesResponse, error) {
	return &pricing.RulesResponse{Source: pricing.RulesSourceDefault}, nil
}

type stubCampaigns struct {
	campaignHandler.CampaignService
}

func (stubCampaigns) Get(ctx context.Context, agencyID string, id int64) (*campaign.Campaign, error) {
	return nil, xerrors.ErrNotFound
}

type stubPreviewer struct{}

func (stubPreviewer) Preview(ctx context.Context, agencyID string, req pricing.QuoteRequest) (*pricing.Result, error) {
	return &pricing.Result{Currency: "JPY"}, nil
}

func newTestRouter(limited *int) *gin.Engine {
	r := gin.New()
	SetupRouter(r, &Handlers{
		QuoteHandler:    quoteHandler.NewQuoteHandler(stubPreviewer{}),
		RulesHandler:    rulesHandler.NewRulesHandler(stubRules{}, nil),
		CampaignHandler: campaignHandler.NewCampaignHandler(stubCampaigns{}),
		WSHandler:       wsHandler.NewWebSocketHandler(websocket.NewHub(zap.NewNop()), []string{"*"}, zap.NewNop()),
		AuthMiddleware:  middleware.NewAuthMiddleware(stubVerifier{}),
		PreviewLimit: func(c *gin.Context) {
			*limited++
		},
	})
	return r
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		path    string
		token   string
		body    string
		want    int
		limited int
	}{
		{"health is public", http.MethodGet, "/health", "", "", http.StatusOK, 0},
		{"api requires token", http.MethodGet, "/api/v1/pricing-rules", "", "", http.StatusUnauthorized, 0},
		{"ws requires token", http.MethodGet, "/ws/preview", "", "", http.StatusUnauthorized, 0},
		{"rules", http.MethodGet, "/api/v1/pricing-rules", "good", "", http.StatusOK, 0},
		{"reset rules", http.MethodDelete, "/api/v1/pricing-rules", "good", "", http.StatusOK, 0},
		{"campaign lookup", http.MethodGet, "/api/v1/campaigns/5", "good", "", http.StatusNotFound, 0},
		{"preview is rate limited", http.MethodPost, "/api/v1/quotes/preview", "good", `{}`, http.StatusOK, 1},
		{"ws stats", http.MethodGet, "/api/v1/ws/stats", "good", "", http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limited := 0
			r := newTestRouter(&limited)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.limited, limited)
		})
	}
}
