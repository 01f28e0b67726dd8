package metaclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	metadomain "github.com/growzzy/growzzy-api/infrastructure/integrator/meta/domain"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	"github.com/growzzy/growzzy-api/pkg/log"
	jsoniter "github.com/json-iterator/go"
)

type Client interface {
	GetCampaignsByAccountID(ctx context.Context, accessToken, accountID string) ([]metadomain.Campaign, error)
	UpdateCampaign(ctx context.Context, accessToken, campaignID string, fields url.Values) error
	GetFirstAdSetID(ctx context.Context, accessToken, campaignID string) (string, error)
	CreateAdCreative(ctx context.Context, accessToken, accountID string, creative domain.Creative) (string, error)
	CreateAd(ctx context.Context, accessToken, accountID, adSetID, creativeID, name string) (string, error)
	GetAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error)
	GetMe(ctx context.Context, accessToken string) (*metadomain.Me, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (*TokenResponse, error)
	GetLongLivedToken(ctx context.Context, shortLivedToken string) (*TokenResponse, error)
}

type MetaClient struct {
	Cfg  *config.Config
	http *connector.Client
}

func NewClient(cfg *config.Config, doer connector.HTTPDoer) Client {
	return &MetaClient{
		Cfg:  cfg,
		http: connector.NewClient(domain.PlatformMeta, doer),
	}
}

func (c *MetaClient) endpoint(path string) string {
	return fmt.Sprintf("%s/%s", c.Cfg.Meta.URL, path)
}

// do runs a Graph call and flags token errors so they show up in the logs.
func (c *MetaClient) do(ctx context.Context, req connector.Request, out any) error {
	err := c.http.Do(ctx, req, out)
	HandleError(err)
	return err
}

// HandleError logs Graph errors that require the user to reconnect.
func HandleError(err error) {
	var apiErr *connector.APIError
	if !errors.As(err, &apiErr) {
		return
	}

	var errResp metadomain.ErrorResponse
	if jsoniter.Unmarshal([]byte(apiErr.Body), &errResp) != nil {
		return
	}

	if errResp.IsTokenExpired() {
		log.L.WithFields(log.Fields{
			"platform": domain.PlatformMeta,
			"code":     errResp.Error.Code,
			"subcode":  errResp.Error.ErrorSubcode,
		}).Warn("meta access token expired or revoked; the user must reconnect")
	}
}
