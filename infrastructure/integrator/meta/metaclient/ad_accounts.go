package metaclient

import (
	"context"
	"net/url"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	metadomain "github.com/growzzy/growzzy-api/infrastructure/integrator/meta/domain"
)

type ResponseAdAccount struct {
	Data []metadomain.AdAccount `json:"data"`
}

func (c *MetaClient) GetAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error) {
	params := url.Values{}
	params.Add("fields", "id,account_id,name")
	params.Add("limit", "25")
	params.Add("access_token", accessToken)

	var response ResponseAdAccount
	if err := c.do(ctx, connector.Request{URL: c.endpoint("me/adaccounts"), Query: params}, &response); err != nil {
		return nil, err
	}

	return response.Data, nil
}

func (c *MetaClient) GetMe(ctx context.Context, accessToken string) (*metadomain.Me, error) {
	params := url.Values{}
	params.Add("fields", "id,name")
	params.Add("access_token", accessToken)

	var me metadomain.Me
	if err := c.do(ctx, connector.Request{URL: c.endpoint("me"), Query: params}, &me); err != nil {
		return nil, err
	}

	return &me, nil
}
