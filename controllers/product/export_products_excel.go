package productcontroller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

var productHeaders = []string{
	"ID", "Name", "SKU", "Description", "Price", "DiscountPrice",
	"StockQuantity", "Image", "CategoryID", "AllowPOD", "IsActive",
}

func boolCell(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// productSheet lays products out in the same columns the import reads.
func productSheet(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	headerRow := sheet.AddRow()
	for _, h := range productHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.SKU)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Price.StringFixed(2))
		if p.DiscountPrice != nil {
			row.AddCell().SetString(p.DiscountPrice.StringFixed(2))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetInt(p.StockQuantity)
		row.AddCell().SetString(p.Image)

		categoryID := p.CategoryID
		if categoryID == "" && p.Category != nil {
			categoryID = p.Category.ID
		}
		row.AddCell().SetString(categoryID)
		row.AddCell().SetString(boolCell(p.AllowPOD))
		row.AddCell().SetString(boolCell(p.IsActive))
	}
	return file, nil
}

func ExportProductsToExcel(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.Products(c.Request.Context(), models.ProductQuery{})
		if err != nil {
			controllers.RespondError(c, "Failed to fetch products", err)
			return
		}

		file, err := productSheet(products)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		// Set response headers for download
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
