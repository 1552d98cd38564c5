package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BannerType string

const (
	BannerTopBar    BannerType = "top_bar"
	BannerHeroSlide BannerType = "hero_slide"
	BannerFlashSale BannerType = "flash_sale"
	BannerPopup     BannerType = "popup"
	BannerSidebar   BannerType = "sidebar"
)

type CampaignBanner struct {
	ID           string     `json:"id,omitempty"`
	Campaign     string     `json:"campaign,omitempty"`
	Type         BannerType `json:"type"`
	IsActive     bool       `json:"is_active"`
	Heading      string     `json:"heading"`
	Subheading   string     `json:"subheading"`
	Image        string     `json:"image"`
	Link         string     `json:"link"`
	ButtonText   string     `json:"button_text"`
	DisplayPages []string   `json:"display_pages"`
}

type Campaign struct {
	ID                   string           `json:"id,omitempty"`
	Title                string           `json:"title"`
	Slug                 string           `json:"slug"`
	Description          string           `json:"description"`
	StartTime            time.Time        `json:"start_time"`
	EndTime              time.Time        `json:"end_time"`
	IsActive             bool             `json:"is_active"`
	ThemeMode            string           `json:"theme_mode,omitempty"`
	PrimaryColor         string           `json:"primary_color,omitempty"`
	SecondaryColor       string           `json:"secondary_color,omitempty"`
	AccentColor          string           `json:"accent_color,omitempty"`
	ProductSelectionType string           `json:"product_selection_type"`
	TargetCategory       *string          `json:"target_category"`
	Products             []Product        `json:"products,omitempty"`
	Banners              []CampaignBanner `json:"banners,omitempty"`
}

// Running reports whether the campaign is active and inside its time window.
func (c Campaign) Running(now time.Time) bool {
	return c.IsActive && !now.Before(c.StartTime) && now.Before(c.EndTime)
}

// StoreSettings is the back office's shipping configuration singleton.
type StoreSettings struct {
	StoreName           string          `json:"store_name"`
	StoreAddress        string          `json:"store_address"`
	Latitude            float64         `json:"latitude"`
	Longitude           float64         `json:"longitude"`
	CostPerKM           decimal.Decimal `json:"cost_per_km"`
	BaseShippingCost    decimal.Decimal `json:"base_shipping_cost"`
	MaxDeliveryDistance float64         `json:"max_delivery_distance"`
	UpdatedAt           *time.Time      `json:"updated_at,omitempty"`
}

type NewsletterSubscription struct {
	Email string `json:"email"`
}

type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type Notification struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
