package metaclient

import (
	"context"
	"errors"
	"net/url"

	"github.com/growzzy/growzzy-api/infrastructure/integrator/connector"
	metadomain "github.com/growzzy/growzzy-api/infrastructure/integrator/meta/domain"
	"github.com/growzzy/growzzy-api/internal/domain"
	jsoniter "github.com/json-iterator/go"
)

type createdNode struct {
	ID string `json:"id"`
}

type linkData struct {
	Link         string        `json:"link"`
	Message      string        `json:"message,omitempty"`
	Name         string        `json:"name,omitempty"`
	Picture      string        `json:"picture,omitempty"`
	CallToAction *callToAction `json:"call_to_action,omitempty"`
}

type callToAction struct {
	Type string `json:"type"`
}

type objectStorySpec struct {
	PageID   string   `json:"page_id"`
	LinkData linkData `json:"link_data"`
}

func (c *MetaClient) GetFirstAdSetID(ctx context.Context, accessToken, campaignID string) (string, error) {
	params := url.Values{}
	params.Add("fields", "id")
	params.Add("limit", "1")
	params.Add("access_token", accessToken)

	var response struct {
		Data []createdNode `json:"data"`
	}
	if err := c.do(ctx, connector.Request{URL: c.endpoint(campaignID + "/adsets"), Query: params}, &response); err != nil {
		return "", err
	}

	if len(response.Data) == 0 {
		return "", errors.New("campaign has no ad sets")
	}
	return response.Data[0].ID, nil
}

func (c *MetaClient) CreateAdCreative(ctx context.Context, accessToken, accountID string, creative domain.Creative) (string, error) {
	spec := objectStorySpec{
		PageID: creative.PageID,
		LinkData: linkData{
			Link:    creative.LinkURL,
			Message: creative.Body,
			Name:    creative.Headline,
			Picture: creative.ImageURL,
		},
	}
	if creative.CallToAction != "" {
		spec.LinkData.CallToAction = &callToAction{Type: creative.CallToAction}
	}

	encoded, err := jsoniter.MarshalToString(spec)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Add("name", creative.Name)
	form.Add("object_story_spec", encoded)
	form.Add("access_token", accessToken)

	var node createdNode
	err = c.do(ctx, connector.Request{
		Method: "POST",
		URL:    c.endpoint(metadomain.ActID(accountID) + "/adcreatives"),
		Form:   form,
	}, &node)
	if err != nil {
		return "", err
	}

	return node.ID, nil
}

// CreateAd attaches a creative to an ad set. New ads start paused.
func (c *MetaClient) CreateAd(ctx context.Context, accessToken, accountID, adSetID, creativeID, name string) (string, error) {
	creativeRef, err := jsoniter.MarshalToString(map[string]string{"creative_id": creativeID})
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Add("name", name)
	form.Add("adset_id", adSetID)
	form.Add("creative", creativeRef)
	form.Add("status", "PAUSED")
	form.Add("access_token", accessToken)

	var node createdNode
	err = c.do(ctx, connector.Request{
		Method: "POST",
		URL:    c.endpoint(metadomain.ActID(accountID) + "/ads"),
		Form:   form,
	}, &node)
	if err != nil {
		return "", err
	}

	return node.ID, nil
}
