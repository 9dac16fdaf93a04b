package billing

import (
	"fmt"
	"net/http"

	"chartsense-app/config"
	"chartsense-app/database"
	"chartsense-app/internal/domain/plans"
	"chartsense-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// Indirection so handler tests can exercise the success path without Stripe
// access.
var createSession = checkoutsession.New

// CreateCheckoutSession builds a Stripe-hosted subscription checkout for one
// of the two static plans and returns its URL. No local state changes here:
// entitlement only moves once the webhook reconciler sees the resulting
// checkout.session.completed event.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Plan == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plan"})
		return
	}

	product, ok := plans.ByKey(body.Plan)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	stripe.Key = config.STRIPE_SECRET_KEY
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	user := users.User{ID: userID, Email: c.GetString("email"), Name: c.GetString("name")}
	if database.DB != nil {
		if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
	}

	origin := c.GetHeader("Origin")
	if origin == "" {
		origin = config.APP_URL
	}

	params := checkoutParams(user, product, origin)

	s, err := createSession(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// checkoutParams embeds the internal user id both as ClientReferenceID and
// inside metadata: depending on event type Stripe surfaces only one of the
// two, and the webhook reconciler has no other link back to our user.
func checkoutParams(user users.User, product plans.Product, origin string) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(origin + "/home?success=true"),
		CancelURL:  stripe.String(origin + "/subscribe?canceled=true"),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(product.PriceID), Quantity: stripe.Int64(1)},
		},

		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),
		Metadata: map[string]string{
			"user_id":        fmt.Sprint(user.ID),
			"customer_email": user.Email,
			"customer_name":  user.Name,
		},

		AllowPromotionCodes: stripe.Bool(true),
	}
	if user.Email != "" {
		params.CustomerEmail = stripe.String(user.Email)
	}
	return params
}
