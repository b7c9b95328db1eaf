package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-catalog/internal/catalog"
	"storefront-catalog/internal/handlers"
	"storefront-catalog/internal/logger"
)

func setupRouter(t *testing.T) (*gin.Engine, *memoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemoryStore()
	svc := catalog.NewService(store, logger.Nop())
	h := handlers.NewProductHandler(svc, logger.Nop())

	router := gin.New()
	router.GET("/", handlers.Home)
	api := router.Group("/api/products")
	{
		api.POST("", h.CreateProduct)
		api.GET("", h.ListProducts)
		api.GET("/stats", h.GetStatistics)
		api.GET("/category/:category", h.ListByCategory)
		api.GET("/:id", h.GetProduct)
		api.GET("/:id/variant/:sku", h.GetVariant)
		api.POST("/:id/variants", h.AddVariant)
		api.PUT("/:id/variants/:sku/stock", h.UpdateVariantStock)
		api.POST("/:id/reviews", h.AddReview)
	}
	router.NoRoute(handlers.NotFoundRoute)
	return router, store
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec, decoded
}

func headphones() map[string]any {
	return map[string]any{
		"name":        "Wireless Headphones",
		"description": "Noise cancelling over-ear headphones",
		"basePrice":   89.99,
		"category":    "Electronics",
		"brand":       "SoundMax",
		"mainImage":   "https://img.example.com/headphones.jpg",
		"tags":        []string{" Audio ", "audio", "Wireless"},
		"variants": []map[string]any{
			{"color": "Black", "size": "One Size", "stock": 10, "sku": "wh-blk-001"},
			{"color": "White", "size": "One Size", "stock": 0, "sku": "WH-WHT-001", "additionalPrice": 5},
		},
	}
}

func tshirt() map[string]any {
	return map[string]any{
		"name":        "Cotton T-Shirt",
		"description": "Soft cotton tee",
		"basePrice":   29.99,
		"category":    "Clothing",
		"brand":       "ComfortWear",
		"mainImage":   "https://img.example.com/tee.jpg",
		"discount":    map[string]any{"percentage": 10},
		"variants": []map[string]any{
			{"color": "Black", "size": "M", "stock": 0, "sku": "TSH-BLK-M-001"},
		},
	}
}

func createProduct(t *testing.T, router http.Handler, body map[string]any) map[string]any {
	t.Helper()
	rec, resp := doRequest(t, router, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp["data"].(map[string]any)
}

func TestCreateProduct(t *testing.T) {
	router, _ := setupRouter(t)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/products", headphones())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]any)
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Active", data["status"])
	assert.Equal(t, "USD", data["currency"])
	assert.Equal(t, 89.99, data["discountedPrice"])
	assert.Equal(t, float64(10), data["totalStock"])
	assert.Equal(t, true, data["isAvailable"])
	assert.Equal(t, []any{"audio", "wireless"}, data["tags"])

	variants := data["variants"].([]any)
	assert.Equal(t, "WH-BLK-001", variants[0].(map[string]any)["sku"])
}

func TestCreateProductWithoutStockIsOutOfStock(t *testing.T) {
	router, _ := setupRouter(t)

	data := createProduct(t, router, tshirt())
	assert.Equal(t, "Out of Stock", data["status"])
	assert.Equal(t, 26.99, data["discountedPrice"])
	assert.Equal(t, false, data["isAvailable"])
}

func TestCreateProductValidation(t *testing.T) {
	router, _ := setupRouter(t)

	body := headphones()
	body["variants"] = []map[string]any{}
	body["name"] = "ab"
	body["category"] = "Groceries"

	rec, resp := doRequest(t, router, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Validation failed", resp["message"])

	messages := resp["errors"].([]any)
	assert.Contains(t, messages, "Product must have at least one variant")
	assert.GreaterOrEqual(t, len(messages), 3)
}

func TestCreateProductMalformedBody(t *testing.T) {
	router, _ := setupRouter(t)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/products", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, resp["success"])
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	router, _ := setupRouter(t)
	createProduct(t, router, headphones())

	body := tshirt()
	body["variants"] = []map[string]any{{"color": "Black", "size": "M", "stock": 1, "sku": "WH-BLK-001"}}
	rec, resp := doRequest(t, router, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "SKU already exists", resp["message"])
	assert.NotEmpty(t, resp["errors"])
}

func TestGetProduct(t *testing.T) {
	router, _ := setupRouter(t)
	created := createProduct(t, router, headphones())

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products/"+created["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created["id"], resp["data"].(map[string]any)["id"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product ID", resp["message"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products/507f1f77bcf86cd799439011", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", resp["message"])
}

func TestGetProductInfrastructureFailure(t *testing.T) {
	router, store := setupRouter(t)
	store.failWith = errors.New("connection refused")

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products/507f1f77bcf86cd799439011", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "connection refused", resp["message"])
}

func TestListProductsFilters(t *testing.T) {
	router, _ := setupRouter(t)
	createProduct(t, router, headphones())
	createProduct(t, router, tshirt())

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), resp["total"])
	assert.Equal(t, float64(1), resp["page"])
	assert.Equal(t, float64(20), resp["limit"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products?category=Electronics&inStock=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, "Wireless Headphones", resp["data"].([]any)[0].(map[string]any)["name"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products?inStock=false", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, "Cotton T-Shirt", resp["data"].([]any)[0].(map[string]any)["name"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products?search=cotton%20nothing&maxPrice=50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products?color=white&size=One%20Size", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), resp["count"])
}

func TestListProductsRejectsBadQuery(t *testing.T) {
	router, _ := setupRouter(t)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products?minPrice=abc&featured=maybe&size=XXXL", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, resp["errors"], 3)
}

func TestListProductsRejectsOverflowingPage(t *testing.T) {
	router, _ := setupRouter(t)
	createProduct(t, router, tshirt())

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products?page=922337203685477580", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "Validation failed", resp["message"])
	assert.Equal(t, []any{"page is too large"}, resp["errors"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products?page=5000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), resp["count"])
}

func TestListByCategoryOnlyActive(t *testing.T) {
	router, _ := setupRouter(t)
	createProduct(t, router, tshirt())

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products/category/Clothing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), resp["count"])
	assert.Equal(t, "Clothing", resp["category"])

	rec, _ = doRequest(t, router, http.MethodGet, "/api/products/category/Groceries", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetVariant(t *testing.T) {
	router, _ := setupRouter(t)
	created := createProduct(t, router, headphones())
	id := created["id"].(string)

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products/"+id+"/variant/wh-wht-001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, 94.99, data["finalPrice"])
	assert.Equal(t, "WH-WHT-001", data["variant"].(map[string]any)["sku"])

	rec, resp = doRequest(t, router, http.MethodGet, "/api/products/"+id+"/variant/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Variant not found", resp["message"])
}

func TestAddVariant(t *testing.T) {
	router, _ := setupRouter(t)
	created := createProduct(t, router, tshirt())
	id := created["id"].(string)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/products/"+id+"/variants",
		map[string]any{"color": "Red", "size": "L", "stock": 4, "sku": "tsh-red-l-001"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := resp["data"].(map[string]any)
	assert.Len(t, data["variants"], 2)
	assert.Equal(t, float64(4), data["totalStock"])

	rec, _ = doRequest(t, router, http.MethodPost, "/api/products/"+id+"/variants",
		map[string]any{"color": "Red", "size": "L", "stock": 1, "sku": "TSH-RED-L-001"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp = doRequest(t, router, http.MethodPost, "/api/products/"+id+"/variants",
		map[string]any{"size": "HUGE", "stock": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.GreaterOrEqual(t, len(resp["errors"].([]any)), 4)
}

func TestAddReviewUpdatesAverage(t *testing.T) {
	router, _ := setupRouter(t)
	created := createProduct(t, router, headphones())
	id := created["id"].(string)

	rec, resp := doRequest(t, router, http.MethodPost, "/api/products/"+id+"/reviews",
		map[string]any{"username": "ana", "rating": 5, "comment": "Great"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(5), resp["data"].(map[string]any)["averageRating"])

	rec, resp = doRequest(t, router, http.MethodPost, "/api/products/"+id+"/reviews",
		map[string]any{"username": "bo", "rating": 4})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, 4.5, data["averageRating"])
	assert.Equal(t, float64(2), data["reviewCount"])

	rec, _ = doRequest(t, router, http.MethodPost, "/api/products/"+id+"/reviews",
		map[string]any{"username": "cy", "rating": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateVariantStock(t *testing.T) {
	router, _ := setupRouter(t)
	created := createProduct(t, router, headphones())
	id := created["id"].(string)

	rec, resp := doRequest(t, router, http.MethodPut, "/api/products/"+id+"/variants/wh-blk-001/stock",
		map[string]any{"stock": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(0), data["totalStock"])
	assert.Equal(t, "Out of Stock", data["status"])

	rec, resp = doRequest(t, router, http.MethodPut, "/api/products/"+id+"/variants/NOPE/stock",
		map[string]any{"stock": 3})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product or variant not found", resp["message"])

	rec, _ = doRequest(t, router, http.MethodPut, "/api/products/"+id+"/variants/WH-BLK-001/stock",
		map[string]any{"stock": -2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doRequest(t, router, http.MethodPut, "/api/products/"+id+"/variants/WH-BLK-001/stock",
		map[string]any{"stock": 2.5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatistics(t *testing.T) {
	router, _ := setupRouter(t)
	createProduct(t, router, headphones())
	createProduct(t, router, tshirt())

	rec, resp := doRequest(t, router, http.MethodGet, "/api/products/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(2), data["totalProducts"])
	assert.Equal(t, float64(1), data["activeProducts"])
	assert.Equal(t, 59.99, data["averagePrice"])
	assert.Equal(t, float64(10), data["totalStockAcrossCatalog"])
	assert.Len(t, data["categoryDistribution"], 2)
}

func TestHomeAndUnknownRoute(t *testing.T) {
	router, _ := setupRouter(t)

	rec, resp := doRequest(t, router, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp["categories"], 11)
	assert.Contains(t, resp["filters"], "inStock")

	rec, resp = doRequest(t, router, http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", resp["message"])
}
