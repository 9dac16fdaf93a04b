// Package stripewebhooks reconciles asynchronous Stripe events onto local
// entitlement state. Stripe is the source of truth: after the signature
// passes, every event is acknowledged with 200 even when processing fails,
// so that a transient bug never triggers a provider retry storm. Drift left
// behind by a failed event is repaired by the next delivery.
package stripewebhooks

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"chartsense-app/config"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Synthetic events sent by Stripe's endpoint-verification tooling.
const testEventPrefix = "evt_test_"

func StripeWebhook(c *gin.Context) {
	// Needed for follow-up API calls (subscription.Get after checkout).
	stripe.Key = config.STRIPE_SECRET_KEY

	endpointSecret := config.STRIPE_WEBHOOK_SECRET
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Println("[Webhook] Signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	if strings.HasPrefix(event.ID, testEventPrefix) {
		c.JSON(http.StatusOK, gin.H{"verified": true})
		return
	}

	log.Printf("[Webhook] Received event: %s", event.Type)

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			log.Println("[Webhook] Failed to parse checkout session:", err)
			break
		}
		if err := handleCheckoutSessionCompleted(&session); err != nil {
			log.Println("[Webhook] checkout.session.completed failed:", err)
		}

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Println("[Webhook] Failed to parse subscription:", err)
			break
		}
		if err := handleSubscriptionUpdated(&sub); err != nil {
			log.Println("[Webhook] customer.subscription.updated failed:", err)
		}

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			log.Println("[Webhook] Failed to parse subscription:", err)
			break
		}
		if err := handleSubscriptionDeleted(&sub); err != nil {
			log.Println("[Webhook] customer.subscription.deleted failed:", err)
		}

	default:
		log.Printf("[Webhook] Unhandled event type: %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
