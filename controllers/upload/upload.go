package uploadControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/uploads"
)

type IssueInput struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// POST /api/upload
func IssueUploadToken(issuer *uploads.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input IssueInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "filename and content_type are required"})
			return
		}

		grant, err := issuer.Issue(c.Request.Context(), input.Folder, input.Filename, input.ContentType)
		if err != nil {
			if errors.Is(err, uploads.ErrContentTypeNotAllowed) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "File type not allowed",
					"allowed": uploads.AllowedContentTypes,
				})
				return
			}
			log.Println("❌ Failed to issue upload token:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload"})
			return
		}
		c.JSON(http.StatusOK, grant)
	}
}

// POST /api/upload/file
// Authorization carries the upload token from /api/upload. The file lands
// at the pathname the token was issued for.
func UploadFile(issuer *uploads.Issuer, local *uploads.LocalBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		claims, err := issuer.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		if ct := file.Header.Get("Content-Type"); ct != "" && !strings.EqualFold(ct, claims.ContentType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Expected %s, got %s", claims.ContentType, ct)})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			return
		}
		defer src.Close()

		fileURL, err := local.Save(claims.Pathname, src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		log.Printf("📁 File uploaded: %s -> %s", file.Filename, fileURL)
		c.JSON(http.StatusOK, gin.H{
			"url":      fileURL,
			"pathname": claims.Pathname,
			"message":  "File uploaded successfully",
		})
	}
}

// DELETE /api/upload?pathname=...
func DeleteUpload(local *uploads.LocalBackend) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathname := c.Query("pathname")
		if pathname == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pathname is required"})
			return
		}

		filePath, err := local.Path(pathname)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := os.Remove(filePath); err != nil {
			if os.IsNotExist(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file from disk"})
			return
		}

		log.Printf("🗑️ File deleted: %s", pathname)
		c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
	}
}
