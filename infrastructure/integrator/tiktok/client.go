package tiktok

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	"github.com/growzzy/growzzy-api/internal/config"
	"github.com/growzzy/growzzy-api/internal/domain"
	jsoniter "github.com/json-iterator/go"
)

const pageSize = 100

// envelope wraps every Business API response. A non-zero code is an error
// even when the HTTP status is 200.
type envelope struct {
	Code      int                 `json:"code"`
	Message   string              `json:"message"`
	RequestID string              `json:"request_id"`
	Data      jsoniter.RawMessage `json:"data"`
}

type pageInfo struct {
	Page      int `json:"page"`
	TotalPage int `json:"total_page"`
}

type campaign struct {
	CampaignID      string  `json:"campaign_id"`
	CampaignName    string  `json:"campaign_name"`
	OperationStatus string  `json:"operation_status"`
	Budget          float64 `json:"budget"`
	BudgetMode      string  `json:"budget_mode"`
}

type campaignList struct {
	List     []campaign `json:"list"`
	PageInfo pageInfo   `json:"page_info"`
}

type reportRow struct {
	Dimensions struct {
		CampaignID string `json:"campaign_id"`
	} `json:"dimensions"`
	Metrics struct {
		Spend               string `json:"spend"`
		Impressions         string `json:"impressions"`
		Clicks              string `json:"clicks"`
		Conversion          string `json:"conversion"`
		CompletePaymentRoas string `json:"complete_payment_roas"`
	} `json:"metrics"`
}

type reportList struct {
	List     []reportRow `json:"list"`
	PageInfo pageInfo    `json:"page_info"`
}

type advertiser struct {
	AdvertiserID string `json:"advertiser_id"`
	Name         string `json:"name"`
}

type tokenData struct {
	AccessToken   string   `json:"access_token"`
	AdvertiserIDs []string `json:"advertiser_ids"`
	Scope         []int    `json:"scope"`
}

type Client struct {
	cfg  *config.Config
	http *connector.Client
	now  func() time.Time
}

func NewClient(cfg *config.Config, doer connector.HTTPDoer) *Client {
	return &Client{
		cfg:  cfg,
		http: connector.NewClient(domain.PlatformTikTok, doer),
		now:  time.Now,
	}
}

func (c *Client) call(ctx context.Context, req connector.Request, out any) error {
	req.URL = fmt.Sprintf("%s/%s", c.cfg.TikTok.APIBaseURL, req.URL)

	body, err := c.http.Raw(ctx, req)
	if err != nil {
		return err
	}

	var env envelope
	if err := jsoniter.Unmarshal(body, &env); err != nil {
		return connector.NewAPIError(domain.PlatformTikTok, http.StatusOK, body)
	}
	if env.Code != 0 {
		return connector.NewAPIError(domain.PlatformTikTok, http.StatusOK,
			[]byte(fmt.Sprintf("code %d: %s", env.Code, env.Message)))
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := jsoniter.Unmarshal(env.Data, out); err != nil {
		return connector.NewAPIError(domain.PlatformTikTok, http.StatusOK, env.Data)
	}
	return nil
}

func authHeader(accessToken string) map[string]string {
	return map[string]string{"Access-Token": accessToken}
}

func (c *Client) ExchangeCode(ctx context.Context, code string) (*tokenData, error) {
	var data tokenData
	err := c.call(ctx, connector.Request{
		Method: http.MethodPost,
		URL:    "oauth2/access_token/",
		JSON: map[string]string{
			"app_id":    c.cfg.TikTok.AppID,
			"secret":    c.cfg.TikTok.AppSecret,
			"auth_code": code,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) ListCampaigns(ctx context.Context, accessToken, advertiserID string) ([]campaign, error) {
	campaigns := make([]campaign, 0)
	for page := 1; ; page++ {
		var data campaignList
		err := c.call(ctx, connector.Request{
			URL: "campaign/get/",
			Query: url.Values{
				"advertiser_id": {advertiserID},
				"page":          {strconv.Itoa(page)},
				"page_size":     {strconv.Itoa(pageSize)},
			},
			Headers: authHeader(accessToken),
		}, &data)
		if err != nil {
			return nil, err
		}

		campaigns = append(campaigns, data.List...)
		if page >= data.PageInfo.TotalPage {
			return campaigns, nil
		}
	}
}

// Report returns last-7-day metrics per campaign id.
func (c *Client) Report(ctx context.Context, accessToken, advertiserID string) (map[string]reportRow, error) {
	end := c.now().UTC()
	start := end.AddDate(0, 0, -7)

	var data reportList
	err := c.call(ctx, connector.Request{
		URL: "report/integrated/get/",
		Query: url.Values{
			"advertiser_id": {advertiserID},
			"report_type":   {"BASIC"},
			"data_level":    {"AUCTION_CAMPAIGN"},
			"dimensions":    {`["campaign_id"]`},
			"metrics":       {`["spend","impressions","clicks","conversion","complete_payment_roas"]`},
			"start_date":    {start.Format(time.DateOnly)},
			"end_date":      {end.Format(time.DateOnly)},
			"page_size":     {"1000"},
		},
		Headers: authHeader(accessToken),
	}, &data)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]reportRow, len(data.List))
	for _, row := range data.List {
		rows[row.Dimensions.CampaignID] = row
	}
	return rows, nil
}

func (c *Client) UpdateStatus(ctx context.Context, accessToken, advertiserID, campaignID, status string) error {
	return c.call(ctx, connector.Request{
		Method: http.MethodPost,
		URL:    "campaign/status/update/",
		JSON: map[string]any{
			"advertiser_id":    advertiserID,
			"campaign_ids":     []string{campaignID},
			"operation_status": status,
		},
		Headers: authHeader(accessToken),
	}, nil)
}

func (c *Client) UpdateBudget(ctx context.Context, accessToken, advertiserID, campaignID string, budget float64) error {
	return c.call(ctx, connector.Request{
		Method: http.MethodPost,
		URL:    "campaign/update/",
		JSON: map[string]any{
			"advertiser_id": advertiserID,
			"campaign_id":   campaignID,
			"budget":        budget,
		},
		Headers: authHeader(accessToken),
	}, nil)
}

func (c *Client) GetAdvertiser(ctx context.Context, accessToken, advertiserID string) (*advertiser, error) {
	var data struct {
		List []advertiser `json:"list"`
	}
	err := c.call(ctx, connector.Request{
		URL: "advertiser/info/",
		Query: url.Values{
			"advertiser_ids": {fmt.Sprintf(`["%s"]`, advertiserID)},
		},
		Headers: authHeader(accessToken),
	}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.List) == 0 {
		return &advertiser{AdvertiserID: advertiserID}, nil
	}
	return &data.List[0], nil
}
