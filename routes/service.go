package routes

import (
	"github.com/gin-gonic/gin"

	geoControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/geo"
	mailControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/mail"
	paymentControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/payment"
	uploadControllers "github.com/castledepotsmail-cyber/castle-depots-sub000/controllers/upload"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
)

// SetupServiceRoutes registers the small server endpoints the storefront and
// the back office call directly.
func SetupServiceRoutes(r *gin.Engine, d Deps) {
	admin := middleware.RequireAdmin(d.Config.AdminAPIKey)

	upload := r.Group("/api/upload")
	{
		upload.POST("", d.optionalSession(), admin, uploadControllers.IssueUploadToken(d.Uploads))
		if d.Local != nil {
			// The upload token is the credential here.
			upload.POST("/file", uploadControllers.UploadFile(d.Uploads, d.Local))
			upload.DELETE("", d.optionalSession(), admin, uploadControllers.DeleteUpload(d.Local))
		}
	}

	r.POST("/api/send-email",
		middleware.RequireBearerSecret(d.Config.Email.APISecret),
		mailControllers.SendEmail(d.Mailer),
	)

	geo := r.Group("/geocode")
	{
		geo.GET("/search", geoControllers.Search(d.Geocoder))
		geo.GET("/reverse", geoControllers.Reverse(d.Geocoder))
	}

	payment := r.Group("/payment")
	{
		// Webhook endpoint: middleware checks the Paystack signature
		payment.POST("/webhook",
			middleware.PaystackSignature(d.Config.Paystack.SecretKey, d.Logger),
			paymentControllers.PaystackWebhook(d.Service, d.Hub),
		)
	}
}
