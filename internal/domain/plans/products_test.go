package plans

import (
	"testing"

	"chartsense-app/config"

	"github.com/stretchr/testify/require"
)

func TestByKey(t *testing.T) {
	config.STRIPE_PRICE_WEEKLY = "price_w_123"
	config.STRIPE_PRICE_YEARLY = "price_y_456"

	weekly, ok := ByKey(KeyWeekly)
	require.True(t, ok)
	require.Equal(t, "price_w_123", weekly.PriceID)
	require.Equal(t, "week", weekly.Interval)
	require.EqualValues(t, 799, weekly.Amount)

	yearly, ok := ByKey(KeyYearly)
	require.True(t, ok)
	require.Equal(t, "price_y_456", yearly.PriceID)
	require.Equal(t, "year", yearly.Interval)

	_, ok = ByKey("monthly")
	require.False(t, ok)
}
