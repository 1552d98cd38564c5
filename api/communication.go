package api

import (
	"context"
	"net/http"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

func (c *Client) SubscribeNewsletter(ctx context.Context, email string) error {
	return c.Do(ctx, http.MethodPost, "/communication/newsletter/subscribe/", models.NewsletterSubscription{Email: email}, nil)
}

func (c *Client) SendContactMessage(ctx context.Context, msg models.ContactMessage) error {
	return c.Do(ctx, http.MethodPost, "/communication/contact/", msg, nil)
}

func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	if err := c.getList(ctx, "/communication/notifications/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
