package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/01moynul/storefront-golang/internal/auth"
	"github.com/01moynul/storefront-golang/internal/cache"
	"github.com/01moynul/storefront-golang/internal/database"
	"github.com/01moynul/storefront-golang/internal/handlers"
	"github.com/01moynul/storefront-golang/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

type testServer struct {
	router    *gin.Engine
	store     *store.Store
	uploadDir string
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenDB(database.SQLite, "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db, database.SQLite))

	st := store.New(db, database.SQLite)
	_, err = st.EnsureAdmin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	uploadDir := t.TempDir()
	h := &handlers.Handlers{
		Store:     st,
		Catalog:   cache.NewCatalog(st, cache.NoopCache{}),
		Tokens:    auth.NewTokenManager("test-secret", time.Hour, 72*time.Hour),
		UploadDir: uploadDir,
		BaseURL:   "http://shop.test",
	}
	return &testServer{router: SetupRouter(h, []string{"http://localhost:5173"}), store: st, uploadDir: uploadDir}
}

func (s *testServer) do(t *testing.T, req *http.Request, token string) *httptest.ResponseRecorder {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, token)
}

func (s *testServer) doForm(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req, token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type tokensResponse struct {
	Tokens auth.TokenPair `json:"tokens"`
}

func (s *testServer) login(t *testing.T, email, password string) auth.TokenPair {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[tokensResponse](t, w).Tokens
}

func (s *testServer) signup(t *testing.T, email string) auth.TokenPair {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/signup", "", map[string]string{
		"email":      email,
		"password":   "secret-password",
		"first_name": "Test",
		"last_name":  "User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[tokensResponse](t, w).Tokens
}

func (s *testServer) createProduct(t *testing.T, adminToken, name, price, category string) int64 {
	t.Helper()
	w := s.doJSON(t, http.MethodPost, "/products", adminToken, map[string]any{
		"name": name, "price": price, "category": category, "stock": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[productResponse](t, w).Product.ID
}

type productResponse struct {
	Product struct {
		ID    int64           `json:"id"`
		Slug  string          `json:"slug"`
		Price decimal.Decimal `json:"price"`
	} `json:"product"`
	Related []struct {
		Name string `json:"name"`
	} `json:"related"`
}

type cartResponse struct {
	Items []struct {
		ID         int64           `json:"id"`
		ProductID  int64           `json:"productId"`
		Quantity   int             `json:"quantity"`
		TotalPrice decimal.Decimal `json:"totalPrice"`
	} `json:"items"`
	Total      decimal.Decimal `json:"total"`
	TotalItems int             `json:"totalItems"`
}

func TestPing(t *testing.T) {
	s := setupServer(t)
	w := s.doJSON(t, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestShoppingFlow(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, adminEmail, adminPassword)
	a := s.createProduct(t, admin.Access, "Product A", "10.00", "Electronics")
	b := s.createProduct(t, admin.Access, "Product B", "5.50", "Electronics")

	user := s.signup(t, "alice@example.com")

	w := s.doJSON(t, http.MethodPost, fmt.Sprintf("/add-to-cart/%d", a), user.Access, map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.doJSON(t, http.MethodPost, fmt.Sprintf("/add-to-cart/%d", b), user.Access, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodGet, "/cart", user.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[cartResponse](t, w)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "25.50", cart.Total.StringFixed(2))
	assert.Equal(t, 3, cart.TotalItems)

	w = s.doJSON(t, http.MethodGet, "/checkout", user.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cash on Delivery")

	// Missing fields are all reported.
	w = s.doJSON(t, http.MethodPost, "/checkout", user.Access, map[string]string{"payment_method": "cod"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	missing := decode[struct {
		Fields map[string]string `json:"fields"`
	}](t, w)
	assert.Len(t, missing.Fields, 3)

	w = s.doJSON(t, http.MethodPost, "/checkout", user.Access, map[string]string{
		"payment_method":       "cod",
		"delivery_address":     "1 Main St",
		"delivery_postal_code": "00000",
		"delivery_country":     "US",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	placed := decode[struct {
		Message string `json:"message"`
		OrderID int64  `json:"order_id"`
	}](t, w)
	assert.NotZero(t, placed.OrderID)
	assert.NotEmpty(t, placed.Message)

	w = s.doJSON(t, http.MethodGet, "/cart", user.Access, nil)
	assert.Empty(t, decode[cartResponse](t, w).Items)

	w = s.doJSON(t, http.MethodGet, fmt.Sprintf("/orders/%d", placed.OrderID), user.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := decode[struct {
		Order struct {
			IsPaid bool `json:"isPaid"`
		} `json:"order"`
		Items    []struct{ Quantity int } `json:"items"`
		Subtotal decimal.Decimal          `json:"subtotal"`
	}](t, w)
	assert.False(t, order.Order.IsPaid)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "25.50", order.Subtotal.StringFixed(2))

	w = s.doJSON(t, http.MethodGet, "/orders", user.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"id":%d`, placed.OrderID))

	// The cart is empty now.
	w = s.doJSON(t, http.MethodPost, "/checkout", user.Access, map[string]string{
		"payment_method":       "cod",
		"delivery_address":     "1 Main St",
		"delivery_postal_code": "00000",
		"delivery_country":     "US",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "your cart is empty")
}

func TestCheckout_FormEncodedAndUnknownPaymentMethod(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, adminEmail, adminPassword)
	p := s.createProduct(t, admin.Access, "Lamp", "12.00", "Home & Living")
	user := s.signup(t, "alice@example.com")

	w := s.doForm(t, http.MethodPost, fmt.Sprintf("/add-to-cart/%d", p), user.Access, url.Values{"quantity": {"1"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	form := url.Values{
		"payment_method":       {"bitcoin"},
		"delivery_address":     {"1 Main St"},
		"delivery_postal_code": {"00000"},
		"delivery_country":     {"US"},
	}
	w = s.doForm(t, http.MethodPost, "/checkout", user.Access, form)
	assert.Equal(t, http.StatusNotFound, w.Code)

	form.Set("payment_method", "paypal")
	form.Set("delivery_service", "Standard")
	w = s.doForm(t, http.MethodPost, "/checkout", user.Access, form)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCartMutations(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, adminEmail, adminPassword)
	p := s.createProduct(t, admin.Access, "Lamp", "12.00", "Home & Living")
	user := s.signup(t, "alice@example.com")

	w := s.doJSON(t, http.MethodPost, fmt.Sprintf("/add-to-cart/%d", p), user.Access, map[string]int{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	item := decode[struct {
		Item struct {
			ID int64 `json:"id"`
		} `json:"item"`
	}](t, w).Item

	w = s.doJSON(t, http.MethodPost, "/add-to-cart/9999", user.Access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.doJSON(t, http.MethodPost, "/add-to-cart/abc", user.Access, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodPost, fmt.Sprintf("/update-cart-item/%d", item.ID), user.Access, map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodPost, fmt.Sprintf("/update-cart-item/%d", item.ID), user.Access, map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)

	// The original form contract of POST /cart.
	w = s.doForm(t, http.MethodPost, "/cart", user.Access, url.Values{
		"item_id": {fmt.Sprint(item.ID)}, "quantity": {"4"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := decode[cartResponse](t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, "48.00", cart.Total.StringFixed(2))

	w = s.doForm(t, http.MethodPost, "/cart", user.Access, url.Values{"remove_item_id": {fmt.Sprint(item.ID)}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[cartResponse](t, w).Items)

	w = s.doForm(t, http.MethodPost, "/cart", user.Access, url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Removing again is still a success.
	w = s.doJSON(t, http.MethodPost, fmt.Sprintf("/remove-from-cart/%d", item.ID), user.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticationBoundaries(t *testing.T) {
	s := setupServer(t)
	user := s.signup(t, "alice@example.com")

	w := s.doJSON(t, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(t, http.MethodGet, "/cart", user.Refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens are not bearer tokens")

	w = s.doJSON(t, http.MethodPost, "/payment-methods", user.Access, map[string]string{"name": "paypal"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.doJSON(t, http.MethodPost, "/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(t, http.MethodPost, "/signup", "", map[string]string{
		"email": "alice@example.com", "password": "secret-password", "first_name": "A", "last_name": "B",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate email")

	w = s.doJSON(t, http.MethodPost, "/signup", "", map[string]string{
		"email": "not-an-email", "password": "secret-password", "first_name": "A", "last_name": "B",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutAndRefresh(t *testing.T) {
	s := setupServer(t)
	first := s.signup(t, "alice@example.com")

	// Refresh rotates: the old refresh token is spent.
	w := s.doJSON(t, http.MethodPost, "/token/refresh", "", map[string]string{"refresh": first.Refresh})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decode[tokensResponse](t, w).Tokens
	assert.NotEqual(t, first.Access, second.Access)

	w = s.doJSON(t, http.MethodPost, "/token/refresh", "", map[string]string{"refresh": first.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(t, http.MethodPost, "/token/refresh", "", map[string]string{"refresh": second.Access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(t, http.MethodPost, "/logout", second.Access, map[string]string{"refresh": second.Refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.doJSON(t, http.MethodGet, "/profile", second.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(t, http.MethodPost, "/token/refresh", "", map[string]string{"refresh": second.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Other sessions are unaffected.
	third := s.login(t, "alice@example.com", "secret-password")
	w = s.doJSON(t, http.MethodGet, "/profile", third.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCatalogBrowse(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, adminEmail, adminPassword)
	phone := s.createProduct(t, admin.Access, "Smartphone", "499.00", "Electronics")
	s.createProduct(t, admin.Access, "Headphones", "59.00", "Electronics")
	s.createProduct(t, admin.Access, "Novel", "12.00", "Books & Stationery")

	type productList struct {
		Products []struct {
			Name string `json:"name"`
		} `json:"products"`
		Count int `json:"count"`
	}

	w := s.doJSON(t, http.MethodGet, "/products?search=PHONE", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[productList](t, w).Count)

	w = s.doJSON(t, http.MethodGet, "/products?search=phone&category=Books+%26+Stationery", "", nil)
	assert.Equal(t, 0, decode[productList](t, w).Count)

	w = s.doJSON(t, http.MethodGet, "/category/Books%20&%20Stationery", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[productList](t, w).Count)

	w = s.doJSON(t, http.MethodGet, fmt.Sprintf("/product/%d", phone), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[productResponse](t, w)
	assert.Equal(t, "smartphone", detail.Product.Slug)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "Headphones", detail.Related[0].Name)

	w = s.doJSON(t, http.MethodGet, "/product/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.doJSON(t, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"categories":["Books & Stationery","Electronics"]}`, w.Body.String())

	w = s.doJSON(t, http.MethodGet, "/categories/all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Categories []struct {
			Label string `json:"label"`
		} `json:"categories"`
	}](t, w).Categories
	require.Len(t, all, 11)
	assert.Equal(t, "Fashion & Apparel", all[0].Label)

	w = s.doJSON(t, http.MethodPost, "/products", admin.Access, map[string]any{"name": "X", "price": "1", "category": "Spaceships"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodPut, fmt.Sprintf("/products/%d/price", phone), admin.Access, map[string]string{"price": "450.00"})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.doJSON(t, http.MethodGet, fmt.Sprintf("/product/%d", phone), "", nil)
	assert.Equal(t, "450.00", decode[productResponse](t, w).Product.Price.StringFixed(2))
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField, fileName string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploads(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, adminEmail, adminPassword)

	req := multipartRequest(t, "/products", map[string]string{
		"name": "Throw Blanket", "price": "24.00", "stock": "2",
	}, "image", "blanket.JPG")
	w := s.do(t, req, admin.Access)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Product struct {
			Image    string `json:"image"`
			Category string `json:"category"`
		} `json:"product"`
		ImageURL string `json:"imageUrl"`
	}](t, w)
	assert.Equal(t, "Home & Living", created.Product.Category)
	assert.True(t, strings.HasPrefix(created.Product.Image, "product_images/"))
	assert.True(t, strings.HasSuffix(created.Product.Image, ".jpg"))
	assert.Equal(t, "http://shop.test/uploads/"+created.Product.Image, created.ImageURL)

	_, err := os.Stat(filepath.Join(s.uploadDir, created.Product.Image))
	require.NoError(t, err)

	w = s.doJSON(t, http.MethodGet, "/uploads/"+created.Product.Image, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	user := s.signup(t, "alice@example.com")
	w = s.do(t, multipartRequest(t, "/profile/image", nil, "image", "me.exe"), user.Access)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, multipartRequest(t, "/profile/image", nil, "", ""), user.Access)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, multipartRequest(t, "/profile/image", nil, "image", "me.png"), user.Access)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodGet, "/profile", user.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "profileImageUrl")
}

func TestProfileUpdate(t *testing.T) {
	s := setupServer(t)
	user := s.signup(t, "alice@example.com")

	w := s.doForm(t, http.MethodPost, "/profile", user.Access, url.Values{"first_name": {"Alice"}, "last_name": {"Smith"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Unchanged names are saved without complaint.
	w = s.doForm(t, http.MethodPost, "/profile", user.Access, url.Values{"first_name": {"Alice"}, "last_name": {"Smith"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	session := s.login(t, "alice@example.com", "secret-password")
	w = s.doJSON(t, http.MethodGet, "/profile", session.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[struct {
		User struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"user"`
		MemberID     string `json:"memberId"`
		RecentLogins []struct {
			FirstName string `json:"firstName"`
		} `json:"recentLogins"`
	}](t, w)
	assert.Equal(t, "Alice", profile.User.FirstName)
	assert.Equal(t, "Smith", profile.User.LastName)
	assert.NotEmpty(t, profile.MemberID)
	require.Len(t, profile.RecentLogins, 1)
	assert.Equal(t, "Alice", profile.RecentLogins[0].FirstName)

	w = s.doForm(t, http.MethodPost, "/profile", user.Access, url.Values{"first_name": {"Alice"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReferenceDataAdmin(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, adminEmail, adminPassword)

	w := s.doJSON(t, http.MethodGet, "/payment-methods", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	methods := decode[struct {
		PaymentMethods []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"payment_methods"`
	}](t, w).PaymentMethods
	require.Len(t, methods, 3)

	w = s.doJSON(t, http.MethodPost, "/payment-methods", admin.Access, map[string]string{"name": "bitcoin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodDelete, fmt.Sprintf("/payment-methods/%d", methods[0].ID), admin.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.doJSON(t, http.MethodDelete, fmt.Sprintf("/payment-methods/%d", methods[0].ID), admin.Access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.doJSON(t, http.MethodPost, "/payment-methods", admin.Access, map[string]string{"name": methods[0].Name})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = s.doJSON(t, http.MethodPost, "/delivery-services", admin.Access, map[string]string{
		"name": "Overnight", "price": "30.00", "estimated_delivery_time": "next day",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/delivery-services", admin.Access, map[string]string{
		"name": "Overnight", "price": "abc", "estimated_delivery_time": "next day",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.doJSON(t, http.MethodGet, "/delivery-services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Overnight")
}

func TestCORSPreflight(t *testing.T) {
	s := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := s.do(t, req, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDeactivatedUserIsLockedOut(t *testing.T) {
	s := setupServer(t)
	user := s.signup(t, "alice@example.com")

	w := s.doJSON(t, http.MethodGet, "/cart", user.Access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, err := s.store.DB().Exec("UPDATE users SET is_active = 0 WHERE email = ?", "alice@example.com")
	require.NoError(t, err)

	w = s.doJSON(t, http.MethodGet, "/cart", user.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.doJSON(t, http.MethodPost, "/token/refresh", "", map[string]string{"refresh": user.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPriceUpdate_SamePriceTwice(t *testing.T) {
	s := setupServer(t)
	admin := s.login(t, adminEmail, adminPassword)
	p := s.createProduct(t, admin.Access, "Lamp", "12.00", "Home & Living")

	for i := 0; i < 2; i++ {
		w := s.doJSON(t, http.MethodPut, fmt.Sprintf("/products/%d/price", p), admin.Access, map[string]string{"price": "15.00"})
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := s.doJSON(t, http.MethodPut, "/products/9999/price", admin.Access, map[string]string{"price": "15.00"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
