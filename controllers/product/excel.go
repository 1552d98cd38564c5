package productcontroller

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// productRow is one parsed sheet row. ID empty means create.
type productRow struct {
	ID      string
	Product models.Product
	Fields  map[string]any
}

func parseBoolCell(s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// parseProductSheet reads rows in the export's column order. Rows without a
// name or with an unreadable price or stock are skipped.
func parseProductSheet(sheet *xlsx.Sheet) (rows []productRow, skipped int) {
	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if row == nil || len(row.Cells) < 7 {
			skipped++
			continue
		}

		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		name := get(1)
		price, err1 := decimal.NewFromString(get(4))
		stock, err2 := strconv.Atoi(get(6))
		if name == "" || err1 != nil || err2 != nil || stock < 0 {
			skipped++
			continue
		}

		p := models.Product{
			Name:          name,
			SKU:           get(2),
			Description:   get(3),
			Price:         price,
			StockQuantity: stock,
			Image:         get(7),
			CategoryID:    get(8),
			AllowPOD:      parseBoolCell(get(9)),
			IsActive:      parseBoolCell(get(10)),
		}
		fields := map[string]any{
			"name":           p.Name,
			"description":    p.Description,
			"price":          p.Price.String(),
			"stock_quantity": p.StockQuantity,
		}
		if v := get(5); v != "" {
			if d, err := decimal.NewFromString(v); err == nil {
				p.DiscountPrice = &d
				fields["discount_price"] = d.String()
			}
		} else {
			fields["discount_price"] = nil
		}
		if p.SKU != "" {
			fields["sku"] = p.SKU
		}
		if p.Image != "" {
			fields["image"] = p.Image
		}
		if p.CategoryID != "" {
			fields["category_id"] = p.CategoryID
		}
		if p.AllowPOD != nil {
			fields["allow_pod"] = *p.AllowPOD
		}
		if p.IsActive != nil {
			fields["is_active"] = *p.IsActive
		}

		rows = append(rows, productRow{ID: get(0), Product: p, Fields: fields})
	}
	return rows, skipped
}

func ImportProductsFromExcel(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		rows, skippedCount := parseProductSheet(xlFile.Sheets[0])
		client := middleware.AdminClient(c, service)
		ctx := c.Request.Context()
		createdCount, updatedCount := 0, 0

		for _, row := range rows {
			if row.ID != "" {
				if _, err := client.UpdateProduct(ctx, row.ID, row.Fields); err == nil {
					updatedCount++
					continue
				} else if !api.IsNotFound(err) {
					log.Printf("⚠️ Import: update of product %s failed: %v", row.ID, err)
					skippedCount++
					continue
				}
			}
			if _, err := client.CreateProduct(ctx, row.Product); err != nil {
				log.Printf("⚠️ Import: create of %q failed: %v", row.Product.Name, err)
				skippedCount++
				continue
			}
			createdCount++
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
