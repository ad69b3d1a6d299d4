package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"oacmarket/internal/config"
	"oacmarket/internal/models"
	"oacmarket/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Store{}, &models.Product{}, &models.Comment{}))

	imageStore, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:    "test-secret-for-handler-tests",
		Port:         "0",
		Env:          "test",
		FeatureFlags: "curtidas=on,mensagens=on",
	}
	s, err := NewServerWithDeps(cfg, db, nil, imageStore)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(s.VisitorCookie())
	s.SetupRoutes(app)
	s.app = app

	return s, app, db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role, admin bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Name:     "Conta Teste",
		Email:    email,
		Password: string(hash),
		Role:     role,
		IsAdmin:  admin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createStore(t *testing.T, db *gorm.DB, sellerID uint) *models.Store {
	t.Helper()
	store := &models.Store{Name: "Loja Teste", Description: "desc", SellerID: sellerID}
	require.NoError(t, db.Create(store).Error)
	return store
}

func createProduct(t *testing.T, db *gorm.DB, storeID uint) *models.Product {
	t.Helper()
	product := &models.Product{Name: "Caneca", Description: "desc", Price: 10, StoreID: storeID}
	require.NoError(t, db.Create(product).Error)
	return product
}

func sessionToken(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Name)
	require.NoError(t, err)
	return token
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSignupAndLogin(t *testing.T) {
	s, app, _ := newTestServer(t)
	_ = s

	resp, err := app.Test(jsonRequest(http.MethodPost, "/cadastro", map[string]string{
		"nome": "Ana", "email": "ana@example.com", "senha": "segredo123", "tipo": "comprador",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "/produtos", body["redirect"])

	// Duplicate email goes back to the form with a friendly error.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/cadastro", map[string]string{
		"nome": "Outra Ana", "email": "ana@example.com", "senha": "segredo123", "tipo": "comprador",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// So do a malformed email and a short password, never a server error.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/cadastro", map[string]string{
		"nome": "Bia", "email": "nao-e-um-email", "senha": "segredo123", "tipo": "comprador",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/cadastro", map[string]string{
		"nome": "Bia", "email": "bia@example.com", "senha": "curta", "tipo": "comprador",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Wrong password and unknown email answer identically.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{
		"email": "ana@example.com", "senha": "errada9999",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	wrongPass := decodeBody(t, resp)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{
		"email": "ninguem@example.com", "senha": "segredo123",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	unknownEmail := decodeBody(t, resp)
	assert.Equal(t, wrongPass["error"], unknownEmail["error"])

	resp, err = app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{
		"email": "ana@example.com", "senha": "segredo123",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionSet bool
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie && ck.Value != "" {
			sessionSet = true
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, sessionSet, "login must set the session cookie")
}

func TestLoginRedirectTargets(t *testing.T) {
	s, app, db := newTestServer(t)
	_ = s

	admin := createUser(t, db, "admin@example.com", models.RoleBuyer, true)
	sellerNoStore := createUser(t, db, "semloja@example.com", models.RoleSeller, false)
	sellerWithStore := createUser(t, db, "comloja@example.com", models.RoleSeller, false)
	store := createStore(t, db, sellerWithStore.ID)

	tests := []struct {
		email    string
		redirect string
	}{
		{admin.Email, "/admin"},
		{sellerNoStore.Email, "/loja/criar"},
		{sellerWithStore.Email, fmt.Sprintf("/loja/%d", store.ID)},
	}

	for _, tt := range tests {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{
			"email": tt.email, "senha": "segredo123",
		}))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, tt.email)
		body := decodeBody(t, resp)
		assert.Equal(t, tt.redirect, body["redirect"], tt.email)
	}
}

func TestSellerGateRedirectsHome(t *testing.T) {
	s, app, db := newTestServer(t)

	// No session at all.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/loja/criar", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// A buyer session is equally turned away.
	buyer := createUser(t, db, "comprador@example.com", models.RoleBuyer, false)
	req := httptest.NewRequest(http.MethodGet, "/loja/criar", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, buyer))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestCreateStoreIsIdempotentPerSeller(t *testing.T) {
	s, app, db := newTestServer(t)

	seller := createUser(t, db, "vendedora@example.com", models.RoleSeller, false)
	token := sessionToken(t, s, seller)

	create := func() map[string]any {
		req := jsonRequest(http.MethodPost, "/loja/criar", map[string]string{
			"nome": "Loja da Ana", "descricao": "Artesanato",
		})
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return decodeBody(t, resp)
	}

	first := create()
	second := create()
	firstLoja := first["loja"].(map[string]any)
	secondLoja := second["loja"].(map[string]any)
	assert.Equal(t, firstLoja["id"], secondLoja["id"], "second create returns the existing store")

	var count int64
	require.NoError(t, db.Model(&models.Store{}).Where("vendedor_id = ?", seller.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStoreOwnershipGuard(t *testing.T) {
	s, app, db := newTestServer(t)

	owner := createUser(t, db, "dona@example.com", models.RoleSeller, false)
	intruder := createUser(t, db, "invasora@example.com", models.RoleSeller, false)
	store := createStore(t, db, owner.ID)

	req := jsonRequest(http.MethodPost, fmt.Sprintf("/loja/%d/editar", store.ID), map[string]string{
		"nome": "Tomada",
	})
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, intruder))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var unchanged models.Store
	require.NoError(t, db.First(&unchanged, store.ID).Error)
	assert.Equal(t, "Loja Teste", unchanged.Name, "no mutation on denied edit")

	// A private view of someone else's store is also turned away.
	viewReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/loja/%d", store.ID), nil)
	viewReq.Header.Set("Authorization", "Bearer "+sessionToken(t, s, intruder))
	resp, err = app.Test(viewReq)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	// The public variant stays open to everyone.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/loja/%d?public=1", store.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["publico"])
	assert.NotContains(t, body, "mensagens")
}

func TestAdminGateAndFeaturedToggle(t *testing.T) {
	s, app, db := newTestServer(t)

	seller := createUser(t, db, "vendedora@example.com", models.RoleSeller, false)
	admin := createUser(t, db, "admin@example.com", models.RoleBuyer, true)
	store := createStore(t, db, seller.ID)
	product := createProduct(t, db, store.ID)

	// Non-admin is redirected and the flag does not move.
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/produto/%d/destaque", product.ID), nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, seller))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var p models.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.False(t, p.Featured)

	// Admin features, lands on the dashboard.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/produto/%d/destaque", product.ID), nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, admin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	require.NoError(t, db.First(&p, product.ID).Error)
	assert.True(t, p.Featured)

	// Remove reverts the flag.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/produto/%d/remover-destaque", product.ID), nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, admin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	require.NoError(t, db.First(&p, product.ID).Error)
	assert.False(t, p.Featured)

	// A vanished product still lands on the dashboard.
	req = httptest.NewRequest(http.MethodPost, "/produto/9999/destaque", nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, admin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestLikeEndpoints(t *testing.T) {
	s, app, db := newTestServer(t)
	_ = s

	seller := createUser(t, db, "vendedora@example.com", models.RoleSeller, false)
	store := createStore(t, db, seller.ID)
	product := createProduct(t, db, store.ID)

	like := func(cookie *http.Cookie, path string) (*http.Response, map[string]any) {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp, decodeBody(t, resp)
	}

	// First request issues the visitor cookie and counts the like.
	resp, body := like(nil, fmt.Sprintf("/produto/%d/curtir", product.ID))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["curtidas"])

	var visitor *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == visitorCookie {
			visitor = ck
		}
	}
	require.NotNil(t, visitor, "first visit issues the likeId cookie")

	// Same visitor liking again changes nothing.
	_, body = like(visitor, fmt.Sprintf("/produto/%d/curtir", product.ID))
	assert.Equal(t, float64(1), body["curtidas"])

	// A different visitor adds a second like.
	_, body = like(nil, fmt.Sprintf("/produto/%d/curtir", product.ID))
	assert.Equal(t, float64(2), body["curtidas"])

	// Unlike restores the original visitor's contribution only.
	_, body = like(visitor, fmt.Sprintf("/produto/%d/descurtir", product.ID))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["curtidas"])

	// Unlike without a prior like is a no-op.
	_, body = like(visitor, fmt.Sprintf("/produto/%d/descurtir", product.ID))
	assert.Equal(t, float64(1), body["curtidas"])

	// Missing product answers ok:false.
	_, body = like(visitor, "/produto/9999/curtir")
	assert.Equal(t, false, body["ok"])

	// The derived counter is persisted on the product row.
	var p models.Product
	require.NoError(t, db.First(&p, product.ID).Error)
	assert.Equal(t, 1, p.Likes)
}

func TestCommentEndpoint(t *testing.T) {
	_, app, db := newTestServer(t)

	seller := createUser(t, db, "vendedora@example.com", models.RoleSeller, false)
	store := createStore(t, db, seller.ID)
	product := createProduct(t, db, store.ID)

	resp, err := app.Test(jsonRequest(http.MethodPost, fmt.Sprintf("/produto/%d/comentar", product.ID), map[string]string{
		"texto": "lindo trabalho!",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	var comment models.Comment
	require.NoError(t, db.Where("produto_id = ?", product.ID).First(&comment).Error)
	assert.Equal(t, models.AnonymousAuthor, comment.Author)
	assert.Equal(t, "lindo trabalho!", comment.Text)

	// A comment on a missing product goes home without persisting anything.
	resp, err = app.Test(jsonRequest(http.MethodPost, "/produto/9999/comentar", map[string]string{
		"texto": "oi",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestGuestMessages(t *testing.T) {
	s, app, db := newTestServer(t)

	seller := createUser(t, db, "vendedora@example.com", models.RoleSeller, false)
	store := createStore(t, db, seller.ID)

	resp, err := app.Test(jsonRequest(http.MethodPost, fmt.Sprintf("/loja/%d/mensagem", store.ID), map[string]string{
		"texto": "tem entrega?",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	msg := body["mensagem"].(map[string]any)
	assert.Equal(t, models.AnonymousAuthor, msg["autor"])

	// The owner sees the message on the private store view.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/loja/%d", store.ID), nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeBody(t, resp)
	assert.Len(t, view["mensagens"], 1)
}

func TestHomeAndStaticPages(t *testing.T) {
	_, app, db := newTestServer(t)

	seller := createUser(t, db, "vendedora@example.com", models.RoleSeller, false)
	store := createStore(t, db, seller.ID)
	createProduct(t, db, store.ID)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Len(t, body["produtos"], 1)

	for _, page := range staticPages {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+page, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, page)
		got := decodeBody(t, resp)
		assert.Equal(t, page, got["page"])
	}
}

func TestProductLifecycle(t *testing.T) {
	s, app, db := newTestServer(t)

	seller := createUser(t, db, "vendedora@example.com", models.RoleSeller, false)
	stranger := createUser(t, db, "outra@example.com", models.RoleSeller, false)
	store := createStore(t, db, seller.ID)

	req := jsonRequest(http.MethodPost, fmt.Sprintf("/loja/%d/produto/criar", store.ID), map[string]string{
		"nome": "Vaso", "descricao": "Cerâmica", "preco": "49.90",
	})
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, seller))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	produto := body["produto"].(map[string]any)
	assert.Equal(t, false, produto["destaque"], "new products start unfeatured")
	assert.Equal(t, float64(0), produto["curtidas"], "new products start with zero likes")

	var product models.Product
	require.NoError(t, db.Where("loja_id = ?", store.ID).First(&product).Error)

	// A stranger cannot delete it.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/produto/%d/excluir", product.ID), nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, stranger))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("loja_id = ?", store.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The owner can.
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/produto/%d/excluir", product.ID), nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, s, seller))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	require.NoError(t, db.Model(&models.Product{}).Where("loja_id = ?", store.ID).Count(&count).Error)
	assert.Zero(t, count)
}
