package productcontroller

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestProductSheetRoundTrip(t *testing.T) {
	discount := decimal.RequireFromString("850")
	pod := false
	products := []models.Product{
		{
			ID: "p1", Name: "Claw Hammer", SKU: "HM-01", Price: decimal.NewFromInt(1000),
			DiscountPrice: &discount, StockQuantity: 12, Image: "https://cdn/hammer.png",
			Category: &models.Category{ID: "tools"}, AllowPOD: &pod,
		},
		{ID: "p2", Name: "Tape Measure", Price: decimal.RequireFromString("450.50"), StockQuantity: 0},
	}

	file, err := productSheet(products)
	require.NoError(t, err)

	rows, skipped := parseProductSheet(file.Sheets[0])
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "p1", first.ID)
	assert.Equal(t, "Claw Hammer", first.Product.Name)
	assert.True(t, first.Product.Price.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, first.Product.DiscountPrice)
	assert.True(t, first.Product.DiscountPrice.Equal(discount))
	assert.Equal(t, 12, first.Product.StockQuantity)
	assert.Equal(t, "tools", first.Product.CategoryID)
	require.NotNil(t, first.Product.AllowPOD)
	assert.False(t, *first.Product.AllowPOD)
	assert.Nil(t, first.Product.IsActive)
	assert.Equal(t, "HM-01", first.Fields["sku"])

	second := rows[1]
	assert.Nil(t, second.Product.DiscountPrice)
	assert.Contains(t, second.Fields, "discount_price")
	assert.Nil(t, second.Fields["discount_price"])
	assert.Equal(t, "450.5", second.Fields["price"])
}

func TestParseProductSheetSkipsBadRows(t *testing.T) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)

	addRow := func(cells ...string) {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	addRow(productHeaders...)
	addRow("", "", "", "", "100", "", "3")
	addRow("", "Saw", "", "", "cheap", "", "3")
	addRow("", "Saw", "", "", "100", "", "-1")
	addRow("", "Saw", "", "")
	addRow("", "Level", "", "Spirit level", "300", "", "4")

	rows, skipped := parseProductSheet(sheet)
	assert.Equal(t, 4, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "Level", rows[0].Product.Name)
	assert.Empty(t, rows[0].ID)
}

func TestImportProductsFromExcel(t *testing.T) {
	var mu sync.Mutex
	var created []string
	var patched []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/api/products/gone/":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Not found."}`))
		case r.Method == http.MethodPatch:
			patched = append(patched, r.URL.Path)
			w.Write([]byte(`{"id":"p1","name":"Claw Hammer","price":"1000"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/products/":
			var p models.Product
			json.NewDecoder(r.Body).Decode(&p)
			created = append(created, p.Name)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"new","name":"x","price":"1"}`))
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	defer backend.Close()
	service := api.NewClient(backend.URL+"/api", backend.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	file, err := productSheet([]models.Product{
		{ID: "p1", Name: "Claw Hammer", Price: decimal.NewFromInt(1000), StockQuantity: 2},
		{ID: "gone", Name: "Old Chisel", Price: decimal.NewFromInt(300), StockQuantity: 1},
		{Name: "New Saw", Price: decimal.NewFromInt(700), StockQuantity: 5},
	})
	require.NoError(t, err)
	var sheetBytes bytes.Buffer
	require.NoError(t, file.Write(&sheetBytes))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	part.Write(sheetBytes.Bytes())
	require.NoError(t, mw.Close())

	router := gin.New()
	router.POST("/admin/products/import", ImportProductsFromExcel(service))

	req := httptest.NewRequest(http.MethodPost, "/admin/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Created int `json:"created_count"`
		Updated int `json:"updated_count"`
		Skipped int `json:"skipped_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 0, resp.Skipped)
	assert.Equal(t, []string{"/api/products/p1/"}, patched)
	assert.ElementsMatch(t, []string{"Old Chisel", "New Saw"}, created)
}

func TestImportRequiresFile(t *testing.T) {
	router := gin.New()
	router.POST("/import", ImportProductsFromExcel(nil))

	req := httptest.NewRequest(http.MethodPost, "/import", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
