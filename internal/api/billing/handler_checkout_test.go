package billing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chartsense-app/config"
	"chartsense-app/internal/domain/plans"
	"chartsense-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
)

func TestCheckoutParamsEmbedsCorrelation(t *testing.T) {
	user := users.User{ID: 5, Email: "trader@example.com", Name: "Trader"}
	product := plans.Product{Key: plans.KeyYearly, PriceID: "price_yearly", Interval: "year"}

	params := checkoutParams(user, product, "https://app.example.com")

	// the user id must survive both as a direct reference and in metadata,
	// whichever one the webhook event surfaces
	require.Equal(t, "5", *params.ClientReferenceID)
	require.Equal(t, "5", params.Metadata["user_id"])
	require.Equal(t, "trader@example.com", params.Metadata["customer_email"])

	require.Equal(t, "https://app.example.com/home?success=true", *params.SuccessURL)
	require.Equal(t, "https://app.example.com/subscribe?canceled=true", *params.CancelURL)
	require.Equal(t, "price_yearly", *params.LineItems[0].Price)
	require.Equal(t, "subscription", *params.Mode)
}

func TestCreateCheckoutSessionReturnsURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.STRIPE_SECRET_KEY = "sk_test_123"
	t.Cleanup(func() { config.STRIPE_SECRET_KEY = "" })

	orig := createSession
	createSession = func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
		require.Equal(t, "1", *params.ClientReferenceID)
		require.Equal(t, "1", params.Metadata["user_id"])
		return &stripe.CheckoutSession{URL: "https://checkout.stripe.com/c/pay_123"}, nil
	}
	t.Cleanup(func() { createSession = orig })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("email", "trader@example.com")
	})
	r.POST("/create-checkout-session", CreateCheckoutSession)

	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(`{"plan":"yearly"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(t, out["url"])
}

func TestCreateCheckoutSessionUnknownPlan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", uint(1)) })
	r.POST("/create-checkout-session", CreateCheckoutSession)

	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(`{"plan":"monthly"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Unknown plan")
}

func TestCreateCheckoutSessionMissingPlan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", uint(1)) })
	r.POST("/create-checkout-session", CreateCheckoutSession)

	req := httptest.NewRequest(http.MethodPost, "/create-checkout-session", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
