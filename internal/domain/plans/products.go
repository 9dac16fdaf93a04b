package plans

import "chartsense-app/config"

// Product is one entry of the static plan table. Exactly two plans exist:
// a short (weekly) and a long (yearly) billing interval.
type Product struct {
	Key      string
	Name     string
	PriceID  string
	Amount   int64 // cents
	Currency string
	Interval string // Stripe billing interval: "week" | "year"
}

const (
	KeyWeekly = "weekly"
	KeyYearly = "yearly"
)

func Products() []Product {
	return []Product{
		{
			Key:      KeyWeekly,
			Name:     "ChartSense Premium - Weekly",
			PriceID:  config.STRIPE_PRICE_WEEKLY,
			Amount:   799,
			Currency: "usd",
			Interval: "week",
		},
		{
			Key:      KeyYearly,
			Name:     "ChartSense Premium - Yearly",
			PriceID:  config.STRIPE_PRICE_YEARLY,
			Amount:   3999,
			Currency: "usd",
			Interval: "year",
		},
	}
}

func ByKey(key string) (Product, bool) {
	for _, p := range Products() {
		if p.Key == key {
			return p, true
		}
	}
	return Product{}, false
}
