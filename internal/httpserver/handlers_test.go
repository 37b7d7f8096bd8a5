package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kakamalem/marketplace/internal/checkout"
	"github.com/kakamalem/marketplace/internal/models"
	"github.com/kakamalem/marketplace/internal/repo"
	"github.com/kakamalem/marketplace/internal/service"
	"github.com/kakamalem/marketplace/internal/tokens"
	"github.com/kakamalem/marketplace/internal/transport"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.RefreshToken{}, &models.Storefront{},
		&models.Category{}, &models.Product{}, &models.Order{},
		&models.OrderItem{}, &models.CartItem{}, &models.Address{},
	))

	e := echo.New()
	e.Validator = NewValidator()

	return &testEnv{
		T:         t,
		E:         e,
		Repo:      &repo.GormRepo{DB: db},
		JWTSecret: []byte("test-secret"),
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) accessCookie(user *models.User) *http.Cookie {
	token, err := tokens.NewAccessToken(user.ID.String(), user.Roles, time.Now().Add(15*time.Minute), env.JWTSecret)
	require.NoError(env.T, err)
	return &http.Cookie{Name: "accessToken", Value: token}
}

func (env *testEnv) seedSellerWithProduct(price float64) (*models.User, *models.Product) {
	seller := models.User{
		Email:        "seller@example.com",
		PasswordHash: "x",
		Roles:        []string{models.RoleCustomer, models.RoleSeller},
	}
	require.NoError(env.T, env.Repo.CreateUser(context.Background(), &seller))

	product := models.Product{
		Name:     "rug",
		Slug:     "rug-" + uuid.NewString()[:8],
		Price:    price,
		Stock:    10,
		SellerID: &seller.ID,
	}
	require.NoError(env.T, env.Repo.CreateProduct(context.Background(), &product))
	return &seller, &product
}

func guestOrderPayload(productID uuid.UUID) map[string]any {
	return map[string]any{
		"paymentMethod": "cash_on_delivery",
		"currency":      "AFN",
		"items": []map[string]any{
			{"productId": productID, "quantity": 2},
		},
		"shippingAddress": map[string]any{
			"firstName": "Ahmad",
			"lastName":  "Karimi",
			"email":     "a@b.com",
			"phone":     "+93 700 000 000",
			"line":      "Street 4",
			"city":      "Kabul",
			"latitude":  34.5,
			"longitude": 69.2,
		},
	}
}

func TestCreateOrderHandler_Guest(t *testing.T) {
	env := newTestEnv(t)
	_, product := env.seedSellerWithProduct(1200)

	h := &OrderHTTP{Svc: &service.OrderService{
		Repo:     env.Repo,
		Shipping: service.ShippingPolicy{Mode: checkout.ShippingAlwaysFree},
	}}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/create-order", guestOrderPayload(product.ID))
	require.NoError(t, h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp transport.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2400.0, resp.Order.Total)
	assert.Equal(t, models.OrderStatusPending, resp.Order.Status)
	require.NotNil(t, resp.Order.GuestEmail)
	assert.Equal(t, "a@b.com", *resp.Order.GuestEmail)
}

func TestCreateOrderHandler_BadPaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	_, product := env.seedSellerWithProduct(100)

	h := &OrderHTTP{Svc: &service.OrderService{Repo: env.Repo}}

	payload := guestOrderPayload(product.ID)
	payload["paymentMethod"] = "card"

	_, c := env.doJSONRequest(http.MethodPost, "/api/create-order", payload)
	err := h.CreateOrder(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestOrderConfirmationHandler_GuestEmailGate(t *testing.T) {
	env := newTestEnv(t)
	_, product := env.seedSellerWithProduct(500)

	svc := &service.OrderService{
		Repo:     env.Repo,
		Shipping: service.ShippingPolicy{Mode: checkout.ShippingAlwaysFree},
	}
	h := &OrderHTTP{Svc: svc}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/create-order", guestOrderPayload(product.ID))
	require.NoError(t, h.CreateOrder(c))
	var created transport.CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	orderID := created.Order.ID.String()

	rec, c = env.doJSONRequest(http.MethodGet, "/api/order-confirmation/"+orderID+"?email=a@b.com", nil)
	c.SetParamNames("id")
	c.SetParamValues(orderID)
	require.NoError(t, h.OrderConfirmation(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, c = env.doJSONRequest(http.MethodGet, "/api/order-confirmation/"+orderID+"?email=wrong@example.com", nil)
	c.SetParamNames("id")
	c.SetParamValues(orderID)
	err := h.OrderConfirmation(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestReorderProductsHandler_PartialFailure(t *testing.T) {
	env := newTestEnv(t)
	_, product := env.seedSellerWithProduct(100)

	h := &CatalogHTTP{Svc: &service.CatalogService{Repo: env.Repo}}

	missing := uuid.New()
	payload := map[string]any{
		"products": []map[string]any{
			{"id": product.ID, "displayOrder": 1},
			{"id": missing, "displayOrder": 2},
		},
	}

	rec, c := env.doJSONRequest(http.MethodPut, "/api/reorder-products", payload)
	require.NoError(t, h.ReorderProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp transport.ReorderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.Len(t, resp.Rows, 2)
	assert.True(t, resp.Rows[0].OK)
	assert.False(t, resp.Rows[1].OK)
	assert.Equal(t, missing, resp.Rows[1].ID)
	assert.Equal(t, "not found", resp.Rows[1].Error)
}

func TestAuthHandlers_CookieFlow(t *testing.T) {
	env := newTestEnv(t)

	h := &AuthHTTP{Svc: &service.AuthService{
		Repo:          env.Repo,
		JWTSecret:     env.JWTSecret,
		RefreshSecret: []byte("test-refresh-secret"),
	}}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/register", map[string]string{
		"email":     "new@example.com",
		"password":  "password123",
		"firstName": "New",
		"lastName":  "User",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, c = env.doJSONRequest(http.MethodPost, "/api/login", map[string]string{
		"email":    "new@example.com",
		"password": "password123",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var access, refresh *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		switch ck.Name {
		case "accessToken":
			access = ck
		case "refreshToken":
			refresh = ck
		}
	}
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.NotEmpty(t, access.Value)

	claims, err := tokens.AccessClaimsFromToken(access.Value, env.JWTSecret)
	require.NoError(t, err)
	assert.True(t, claims.HasRole(models.RoleCustomer))

	rec, c = env.doJSONRequest(http.MethodPost, "/api/login", map[string]string{
		"email":    "new@example.com",
		"password": "wrong",
	})
	err = h.Login(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAuthMiddleware_Roles(t *testing.T) {
	env := newTestEnv(t)

	customer := models.User{Email: "c@example.com", PasswordHash: "x", Roles: []string{models.RoleCustomer}}
	require.NoError(t, env.Repo.CreateUser(context.Background(), &customer))
	seller := models.User{Email: "s@example.com", PasswordHash: "x", Roles: []string{models.RoleCustomer, models.RoleSeller}}
	require.NoError(t, env.Repo.CreateUser(context.Background(), &seller))

	m := &AuthMiddleware{JWTSecret: env.JWTSecret}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("no cookie", func(t *testing.T) {
		_, c := env.doJSONRequest(http.MethodGet, "/api/dashboard", nil)
		err := m.RequireSeller(ok)(c)
		he, isHTTP := err.(*echo.HTTPError)
		require.True(t, isHTTP)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("customer token rejected", func(t *testing.T) {
		_, c := env.doJSONRequest(http.MethodGet, "/api/dashboard", nil, env.accessCookie(&customer))
		err := m.RequireSeller(ok)(c)
		he, isHTTP := err.(*echo.HTTPError)
		require.True(t, isHTTP)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})

	t.Run("seller token admitted", func(t *testing.T) {
		rec, c := env.doJSONRequest(http.MethodGet, "/api/dashboard", nil, env.accessCookie(&seller))
		require.NoError(t, m.RequireSeller(ok)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("optional auth passes guests through", func(t *testing.T) {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/create-order", nil)
		require.NoError(t, m.OptionalAuth(ok)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, userID(c))
	})
}

func TestServiceErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
	}{
		{service.ErrValidation, http.StatusBadRequest},
		{service.ErrUnauthorized, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrConflict, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range cases {
		he := serviceError(tt.err)
		assert.Equal(t, tt.code, he.Code)
	}

	// Internal detail never leaks to the client.
	assert.Equal(t, "internal error", serviceError(context.DeadlineExceeded).Message)
}
