package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coderr/config"
	deliverycontext "coderr/internal/delivery/context"
	"coderr/internal/delivery/http/middleware"
	"coderr/internal/delivery/http/router"
	"coderr/internal/delivery/http/router/handler"
	"coderr/internal/infra/auth"
	"coderr/internal/infra/persistence/postgres"
	"coderr/internal/infra/persistence/sqlitetest"
	"coderr/internal/infra/storage"
	"coderr/internal/usecase/impl"
	"coderr/internal/usecase/view"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

const testBaseURL = "http://api.test"

type testApp struct {
	t *testing.T
	e *echo.Echo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.HTTP.MaxRequestBodySize = "8MB"
	cfg.Auth = &config.AuthConfig{BcryptCost: bcrypt.MinCost, TokenTTL: time.Hour}
	cfg.Marketplace = &config.MarketplaceConfig{BaseURL: testBaseURL, DefaultPageSize: 6, MaxPageSize: 100}
	cfg.Storage = &config.StorageConfig{BucketURL: "mem://", MaxImageBytes: 1 << 20}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	txManager := postgres.NewTransactionManager(sqlitetest.NewDB(t))

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	images := storage.NewBlobImageStore(bucket, cfg.Storage.MaxImageBytes, logger)

	presenter := view.NewPresenter(cfg.Marketplace.BaseURL)

	users := impl.NewUserService(impl.UserServiceParams{
		TxManager: txManager, Hasher: auth.NewBcryptHasher(cfg), TokenService: tokens, Logger: logger,
	})
	profiles := impl.NewProfileService(impl.ProfileServiceParams{TxManager: txManager, Logger: logger})
	offers := impl.NewOfferService(impl.OfferServiceParams{TxManager: txManager, Config: cfg, Logger: logger})
	orders := impl.NewOrderService(impl.OrderServiceParams{TxManager: txManager, Logger: logger})
	reviews := impl.NewReviewService(impl.ReviewServiceParams{TxManager: txManager, Logger: logger})
	platform := impl.NewPlatformService(impl.PlatformServiceParams{TxManager: txManager, Logger: logger})

	e := NewEcho(cfg, logger, router.RouterParams{
		AuthHandler:     handler.NewAuthHandler(users, presenter),
		ProfileHandler:  handler.NewProfileHandler(profiles, images, presenter),
		OfferHandler:    handler.NewOfferHandler(offers, images, presenter),
		OrderHandler:    handler.NewOrderHandler(orders, presenter),
		ReviewHandler:   handler.NewReviewHandler(reviews, presenter),
		PlatformHandler: handler.NewPlatformHandler(platform, presenter),
		MediaHandler:    handler.NewMediaHandler(images, logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(tokens),
	})

	return &testApp{t: t, e: e}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(a.t, err)
			raw = string(encoded)
		}
		reader = strings.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

func (a *testApp) upload(path, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	return rec
}

type authBody struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
}

func (a *testApp) register(username, userType string) authBody {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/registration/", "", map[string]string{
		"username":          username,
		"email":             username + "@example.com",
		"password":          "correct-horse",
		"repeated_password": "correct-horse",
		"type":              userType,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out authBody
	decode(a.t, rec, &out)
	require.NotEmpty(a.t, out.Token)

	return out
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	decode(t, rec, &out)

	return out
}

func offerPayload(title string, prices [3]int) string {
	return fmt.Sprintf(`{
		"title": %q,
		"description": "Logo and brand kit",
		"details": [
			{"title": "Basic", "offer_type": "basic", "price": %d, "delivery_time_in_days": 7, "revisions": 1, "features": ["Logo"]},
			{"title": "Standard", "offer_type": "standard", "price": %d, "delivery_time_in_days": 5, "revisions": 3, "features": ["Logo", "Card"]},
			{"title": "Premium", "offer_type": "premium", "price": %d, "delivery_time_in_days": 2, "revisions": -1, "features": ["Logo", "Card", "Flyer"]}
		]
	}`, title, prices[0], prices[1], prices[2])
}

type offerBody struct {
	ID       int64        `json:"id"`
	User     int64        `json:"user"`
	Image    *string      `json:"image"`
	MinPrice *json.Number `json:"min_price"`
	Details  []struct {
		ID        int64       `json:"id"`
		OfferType string      `json:"offer_type"`
		Price     json.Number `json:"price"`
	} `json:"details"`
}

func (a *testApp) createOffer(token, title string, prices [3]int) offerBody {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/api/offers", token, offerPayload(title, prices))
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out offerBody
	decode(a.t, rec, &out)
	require.Len(a.t, out.Details, 3)

	return out
}

func detailIDFor(offer offerBody, offerType string) int64 {
	for _, d := range offer.Details {
		if d.OfferType == offerType {
			return d.ID
		}
	}

	return 0
}

func TestServer_HealthAndTrailingSlash(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/health/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(deliverycontext.HeaderXRequestID))

	rec = app.do(http.MethodGet, "/api/base-info/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"review_count":0,"average_rating":0,"business_profile_count":0,"offer_count":0}`, rec.Body.String())
}

func TestServer_Authentication(t *testing.T) {
	app := newTestApp(t)

	t.Run("missing token", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/orders", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		assert.NotEmpty(t, body.Meta.RequestID)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/orders", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login", func(t *testing.T) {
		registered := app.register("logan", "customer")

		rec := app.do(http.MethodPost, "/api/login/", "", map[string]string{"username": "logan", "password": "correct-horse"})
		require.Equal(t, http.StatusOK, rec.Code)
		var out authBody
		decode(t, rec, &out)
		assert.Equal(t, registered.UserID, out.UserID)

		rec = app.do(http.MethodPost, "/api/login", "", map[string]string{"username": "logan", "password": "wrong-horse"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Error.Code)
	})

	t.Run("registration validation", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/registration", "", map[string]string{
			"username": "x", "email": "not-an-email", "password": "short", "repeated_password": "short", "type": "admin",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Contains(t, body.Error.Details, "email")
		assert.Contains(t, body.Error.Details, "password")
		assert.Contains(t, body.Error.Details, "type")
	})

	t.Run("duplicate username", func(t *testing.T) {
		app.register("dupe", "business")

		rec := app.do(http.MethodPost, "/api/registration", "", map[string]string{
			"username": "dupe", "email": "other@example.com", "password": "correct-horse",
			"repeated_password": "correct-horse", "type": "business",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestServer_OfferLifecycle(t *testing.T) {
	app := newTestApp(t)
	business := app.register("studio", "business")
	customer := app.register("client", "customer")

	offer := app.createOffer(business.Token, "Logo design", [3]int{30, 60, 90})
	require.NotNil(t, offer.MinPrice)
	assert.Equal(t, "30.00", offer.MinPrice.String())

	t.Run("customers cannot publish", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/offers", customer.Token, offerPayload("Nope", [3]int{1, 2, 3}))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("string price is a type error", func(t *testing.T) {
		payload := strings.Replace(offerPayload("Typed", [3]int{10, 20, 30}), `"price": 10`, `"price": "10"`, 1)
		rec := app.do(http.MethodPost, "/api/offers", business.Token, payload)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "TYPE_VALIDATION_FAILED", decodeError(t, rec).Error.Code)
	})

	t.Run("public listing filters and links", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/offers?min_price=50", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var page struct {
			Count   int64 `json:"count"`
			Results []struct {
				ID      int64 `json:"id"`
				Details []struct {
					URL string `json:"url"`
				} `json:"details"`
			} `json:"results"`
		}
		decode(t, rec, &page)
		require.EqualValues(t, 1, page.Count)
		require.Len(t, page.Results[0].Details, 3)
		assert.True(t, strings.HasPrefix(page.Results[0].Details[0].URL, testBaseURL+"/api/offerdetails/"))

		rec = app.do(http.MethodGet, "/api/offers?min_price=100", "", nil)
		decode(t, rec, &page)
		assert.EqualValues(t, 0, page.Count)
	})

	t.Run("bad filter is loud", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/offers?creator_id=abc", "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "creator_id")
	})

	t.Run("patch tier lowers min price", func(t *testing.T) {
		rec := app.do(http.MethodPatch, fmt.Sprintf("/api/offers/%d/", offer.ID), business.Token,
			`{"details": [{"offer_type": "premium", "price": 15}]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated offerBody
		decode(t, rec, &updated)
		require.NotNil(t, updated.MinPrice)
		assert.Equal(t, "15.00", updated.MinPrice.String())
	})

	t.Run("only the creator may patch", func(t *testing.T) {
		rec := app.do(http.MethodPatch, fmt.Sprintf("/api/offers/%d", offer.ID), customer.Token, `{"title": "Mine now"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("offer detail", func(t *testing.T) {
		rec := app.do(http.MethodGet, fmt.Sprintf("/api/offerdetails/%d/", detailIDFor(offer, "basic")), customer.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"offer_type":"basic"`)

		rec = app.do(http.MethodGet, "/api/offerdetails/999999", customer.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("image upload is served back", func(t *testing.T) {
		rec := app.upload(fmt.Sprintf("/api/offers/%d/image", offer.ID), business.Token, "image", "cover.png", []byte("\x89PNG fake"))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated offerBody
		decode(t, rec, &updated)
		require.NotNil(t, updated.Image)
		require.True(t, strings.HasPrefix(*updated.Image, testBaseURL+"/media/offers/"))

		media := app.do(http.MethodGet, strings.TrimPrefix(*updated.Image, testBaseURL), "", nil)
		require.Equal(t, http.StatusOK, media.Code)
		assert.Equal(t, "\x89PNG fake", media.Body.String())
		assert.Equal(t, "image/png", media.Header().Get(echo.HeaderContentType))

		rec = app.upload(fmt.Sprintf("/api/offers/%d/image", offer.ID), business.Token, "image", "notes.txt", []byte("hello"))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "image")
	})

	t.Run("delete", func(t *testing.T) {
		rec := app.do(http.MethodDelete, fmt.Sprintf("/api/offers/%d", offer.ID), business.Token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.do(http.MethodGet, fmt.Sprintf("/api/offers/%d", offer.ID), business.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

type orderBody struct {
	ID           int64   `json:"id"`
	BusinessUser *int64  `json:"business_user"`
	Title        *string `json:"title"`
	Status       string  `json:"status"`
	CompletedAt  *string `json:"completed_at"`
}

func TestServer_OrderLifecycle(t *testing.T) {
	app := newTestApp(t)
	business := app.register("studio", "business")
	customer := app.register("client", "customer")
	offer := app.createOffer(business.Token, "Website", [3]int{100, 200, 300})

	rec := app.do(http.MethodPost, "/api/orders", customer.Token, map[string]int64{"offer_detail_id": detailIDFor(offer, "standard")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order orderBody
	decode(t, rec, &order)
	assert.Equal(t, "pending", order.Status)
	require.NotNil(t, order.BusinessUser)
	assert.Equal(t, business.UserID, *order.BusinessUser)

	t.Run("missing detail id", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/orders", customer.Token, `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "offer_detail_id")
	})

	t.Run("customer cannot change status", func(t *testing.T) {
		rec := app.do(http.MethodPatch, fmt.Sprintf("/api/orders/%d", order.ID), customer.Token, map[string]string{"status": "completed"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("partner completes order", func(t *testing.T) {
		rec := app.do(http.MethodPatch, fmt.Sprintf("/api/orders/%d", order.ID), business.Token, map[string]string{"status": "completed"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated orderBody
		decode(t, rec, &updated)
		assert.Equal(t, "completed", updated.Status)
		assert.NotNil(t, updated.CompletedAt)

		rec = app.do(http.MethodGet, fmt.Sprintf("/api/completed-order-count/%d/", business.UserID), business.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"completed_order_count":1}`, rec.Body.String())

		rec = app.do(http.MethodGet, fmt.Sprintf("/api/order-count/%d", business.UserID), business.Token, nil)
		assert.JSONEq(t, `{"order_count":0}`, rec.Body.String())
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := app.do(http.MethodPatch, fmt.Sprintf("/api/orders/%d", order.ID), business.Token, map[string]string{"status": "shipped"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Error.Details, "status")
	})

	t.Run("delete is always forbidden", func(t *testing.T) {
		rec := app.do(http.MethodDelete, fmt.Sprintf("/api/orders/%d", order.ID), business.Token, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "FORBIDDEN_OPERATION", decodeError(t, rec).Error.Code)
	})

	t.Run("order survives offer deletion", func(t *testing.T) {
		rec := app.do(http.MethodDelete, fmt.Sprintf("/api/offers/%d", offer.ID), business.Token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.do(http.MethodGet, "/api/orders", customer.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var orders []orderBody
		decode(t, rec, &orders)
		require.Len(t, orders, 1)
		assert.Nil(t, orders[0].Title)
		assert.Nil(t, orders[0].BusinessUser)
	})
}

func TestServer_Reviews(t *testing.T) {
	app := newTestApp(t)
	business := app.register("studio", "business")
	customer := app.register("client", "customer")

	review := map[string]any{"business_user": business.UserID, "rating": 5, "description": "Great work"}

	rec := app.do(http.MethodPost, "/api/reviews", business.Token, review)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, rating := range []string{"0", "6", "4.5", `"5"`} {
		payload := fmt.Sprintf(`{"business_user": %d, "rating": %s, "description": ""}`, business.UserID, rating)
		rec := app.do(http.MethodPost, "/api/reviews", customer.Token, payload)
		require.Equal(t, http.StatusBadRequest, rec.Code, "rating %s", rating)
		assert.Contains(t, decodeError(t, rec).Error.Details, "rating")
	}

	rec = app.do(http.MethodPost, "/api/reviews", customer.Token, review)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID     int64 `json:"id"`
		Rating int   `json:"rating"`
	}
	decode(t, rec, &created)

	rec = app.do(http.MethodPost, "/api/reviews", customer.Token, review)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.do(http.MethodPatch, fmt.Sprintf("/api/reviews/%d", created.ID), customer.Token, map[string]any{"rating": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"rating":3`)

	rec = app.do(http.MethodGet, fmt.Sprintf("/api/reviews?business_user_id=%d&ordering=-rating", business.UserID), customer.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	decode(t, rec, &listed)
	assert.Len(t, listed, 1)

	rec = app.do(http.MethodGet, "/api/base-info", "", nil)
	assert.JSONEq(t, `{"review_count":1,"average_rating":3,"business_profile_count":1,"offer_count":0}`, rec.Body.String())

	rec = app.do(http.MethodDelete, fmt.Sprintf("/api/reviews/%d", created.ID), customer.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServer_Profiles(t *testing.T) {
	app := newTestApp(t)
	business := app.register("studio", "business")
	customer := app.register("client", "customer")

	rec := app.do(http.MethodPatch, fmt.Sprintf("/api/profile/%d", business.UserID), business.Token, map[string]string{
		"location": "Berlin", "tel": "0301234", "working_hours": "9-17",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile struct {
		Location     string  `json:"location"`
		Tel          string  `json:"tel"`
		WorkingHours string  `json:"working_hours"`
		File         *string `json:"file"`
		Type         string  `json:"type"`
	}
	decode(t, rec, &profile)
	assert.Equal(t, "Berlin", profile.Location)
	assert.Equal(t, "9-17", profile.WorkingHours)
	assert.Equal(t, "business", profile.Type)
	assert.Nil(t, profile.File)

	rec = app.do(http.MethodPatch, fmt.Sprintf("/api/profile/%d", business.UserID), customer.Token, map[string]string{"location": "Elsewhere"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPatch, fmt.Sprintf("/api/profile/%d", customer.UserID), customer.Token, map[string]string{"working_hours": "9-17"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.upload(fmt.Sprintf("/api/profile/%d/file", customer.UserID), customer.Token, "file", "me.jpg", []byte("jpeg"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &profile)
	require.NotNil(t, profile.File)
	assert.True(t, strings.HasPrefix(*profile.File, testBaseURL+"/media/profiles/"))

	rec = app.do(http.MethodGet, "/api/profiles/business/", customer.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var businesses []map[string]any
	decode(t, rec, &businesses)
	assert.Len(t, businesses, 1)

	rec = app.do(http.MethodGet, "/api/profile/abc", customer.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
