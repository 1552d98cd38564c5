package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/auth"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/catalog"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/config"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/geocode"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/mailer"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/realtime"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/session"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/uploads"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	Config   config.Config
	Logger   *slog.Logger
	Issuer   *auth.SessionIssuer
	Registry *session.Registry
	Public   *api.Client // no credentials
	Service  *api.Client // gateway service account
	Catalog  *catalog.Catalog
	Hub      *realtime.Hub
	Uploads  *uploads.Issuer
	Local    *uploads.LocalBackend // nil unless the local upload driver is on
	Google   *auth.GoogleVerifier  // nil when Google sign-in is not configured
	Mailer   mailer.Sender
	Geocoder *geocode.Client
}

func (d Deps) requireSession() gin.HandlerFunc {
	return middleware.RequireSession(d.Issuer, d.Registry)
}

func (d Deps) optionalSession() gin.HandlerFunc {
	return middleware.OptionalSession(d.Issuer, d.Registry)
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Gateway sessions and sign-in
	SetupAuthRoutes(r, d)

	// 2️⃣ Catalogue (public)
	SetupCatalogRoutes(r, d)

	// 3️⃣ Visitor state: cart, wishlist, checkout, profile
	SetupUserRoutes(r, d)

	// 4️⃣ Orders and receipts
	SetupOrderRoutes(r, d)

	// 5️⃣ Back office (API key or staff session)
	SetupAdminRoutes(r, d)

	// 6️⃣ Server routes: uploads, email, geocoding, payment webhook
	SetupServiceRoutes(r, d)
}
