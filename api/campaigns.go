package api

import (
	"context"
	"net/http"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

func (c *Client) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := c.getList(ctx, "/campaigns/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveCampaigns returns the campaigns running now, with their banners.
func (c *Client) ActiveCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := c.getList(ctx, "/campaigns/active/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.Do(ctx, http.MethodGet, idPath("/campaigns/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCampaign(ctx context.Context, campaign models.Campaign) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.Do(ctx, http.MethodPost, "/campaigns/", campaign, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCampaign(ctx context.Context, id string, fields map[string]any) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.Do(ctx, http.MethodPatch, idPath("/campaigns/", id), fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCampaign(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, idPath("/campaigns/", id), nil, nil)
}

func (c *Client) CreateBanner(ctx context.Context, banner models.CampaignBanner) (*models.CampaignBanner, error) {
	var out models.CampaignBanner
	if err := c.Do(ctx, http.MethodPost, "/campaigns/banners/", banner, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, idPath("/campaigns/banners/", id), nil, nil)
}
