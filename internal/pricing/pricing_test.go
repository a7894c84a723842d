package pricing

import (
	"testing"

	"liwamenu-be/internal/catalog"
	"liwamenu-be/internal/restaurant"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestResolveUnitPrice(t *testing.T) {
	portion := catalog.Portion{
		ID:            "p1",
		Price:         dec("100"),
		CampaignPrice: decPtr("80"),
		SpecialPrice:  decPtr("60"),
	}

	t.Run("Special wins when active", func(t *testing.T) {
		up := ResolveUnitPrice(portion, true)
		assert.True(t, up.Price.Equal(dec("60")))
		assert.Equal(t, PriceSpecial, up.Kind)
		require.NotNil(t, up.OriginalPrice)
		assert.True(t, up.OriginalPrice.Equal(dec("100")))
	})

	t.Run("Campaign when special inactive", func(t *testing.T) {
		up := ResolveUnitPrice(portion, false)
		assert.True(t, up.Price.Equal(dec("80")))
		assert.Equal(t, PriceCampaign, up.Kind)
		require.NotNil(t, up.OriginalPrice)
		assert.True(t, up.OriginalPrice.Equal(dec("100")))
	})

	t.Run("Normal", func(t *testing.T) {
		up := ResolveUnitPrice(catalog.Portion{Price: dec("100")}, true)
		assert.True(t, up.Price.Equal(dec("100")))
		assert.Equal(t, PriceNormal, up.Kind)
		assert.Nil(t, up.OriginalPrice)
	})

	t.Run("Special without campaign", func(t *testing.T) {
		p := catalog.Portion{Price: dec("100"), SpecialPrice: decPtr("60")}
		assert.Equal(t, PriceNormal, ResolveUnitPrice(p, false).Kind)
		assert.Equal(t, PriceSpecial, ResolveUnitPrice(p, true).Kind)
	})
}

func TestLowestPortionPrice(t *testing.T) {
	p := catalog.Product{Portions: []catalog.Portion{
		{ID: "large", Price: dec("120")},
		{ID: "small", Price: dec("90"), CampaignPrice: decPtr("70")},
	}}

	up, ok := LowestPortionPrice(p, false)
	require.True(t, ok)
	assert.True(t, up.Price.Equal(dec("70")))

	_, ok = LowestPortionPrice(catalog.Product{}, false)
	assert.False(t, ok)
}

func TestComputeCheckout(t *testing.T) {
	s := restaurant.State{
		TableOrderDiscountRate:  dec("5"),
		OnlineOrderDiscountRate: dec("10"),
		MinOrderAmount:          dec("150"),
		DeliveryPrice:           dec("15"),
	}

	t.Run("Online", func(t *testing.T) {
		c := ComputeCheckout(dec("200"), OrderOnline, s)
		assert.True(t, c.DiscountAmount.Equal(dec("20")))
		assert.True(t, c.DeliveryFee.Equal(dec("15")))
		assert.True(t, c.Total.Equal(dec("195")))
		assert.True(t, c.MinOrderGap.IsZero())
	})

	t.Run("Online below minimum", func(t *testing.T) {
		c := ComputeCheckout(dec("120"), OrderOnline, s)
		assert.True(t, c.MinOrderGap.Equal(dec("30")))
		assert.True(t, c.Total.Equal(dec("123")))
	})

	t.Run("In person has no fee", func(t *testing.T) {
		c := ComputeCheckout(dec("100"), OrderInPerson, s)
		assert.True(t, c.DiscountRate.Equal(dec("5")))
		assert.True(t, c.DiscountAmount.Equal(dec("5")))
		assert.True(t, c.DeliveryFee.IsZero())
		assert.True(t, c.MinOrderGap.Equal(dec("50")))
		assert.True(t, c.Total.Equal(dec("95")))
	})

	t.Run("Unknown order type", func(t *testing.T) {
		c := ComputeCheckout(dec("100"), OrderType(""), s)
		assert.True(t, c.DiscountRate.IsZero())
		assert.True(t, c.DeliveryFee.IsZero())
		assert.True(t, c.Total.Equal(dec("100")))
	})

	t.Run("Zero rate", func(t *testing.T) {
		c := ComputeCheckout(dec("42.50"), OrderInPerson, restaurant.State{})
		assert.True(t, c.DiscountAmount.IsZero())
		assert.True(t, c.Total.Equal(dec("42.5")))
	})

	t.Run("Fractional discount is rounded to cents", func(t *testing.T) {
		c := ComputeCheckout(dec("33.33"), OrderInPerson, restaurant.State{TableOrderDiscountRate: dec("10")})
		assert.True(t, c.DiscountAmount.Equal(dec("3.33")))
		assert.True(t, c.Total.Equal(dec("30")))
		assert.True(t, c.Subtotal.Equal(c.DiscountAmount.Add(c.Total)))

		c = ComputeCheckout(dec("10.05"), OrderOnline, restaurant.State{OnlineOrderDiscountRate: dec("50"), DeliveryPrice: dec("2.5")})
		assert.True(t, c.DiscountAmount.Equal(dec("5.03")))
		assert.True(t, c.Total.Equal(dec("7.52")))
	})

	t.Run("Full discount online", func(t *testing.T) {
		c := ComputeCheckout(dec("200"), OrderOnline, restaurant.State{OnlineOrderDiscountRate: dec("100"), DeliveryPrice: dec("15")})
		assert.True(t, c.Total.Equal(dec("15")))
	})
}

func TestMinOrderProgress(t *testing.T) {
	assert.True(t, MinOrderProgress(dec("75"), dec("150")).Equal(dec("50")))
	assert.True(t, MinOrderProgress(dec("300"), dec("150")).Equal(dec("100")))
	assert.True(t, MinOrderProgress(dec("10"), decimal.Zero).Equal(dec("100")))
}

func TestOrderTypeValid(t *testing.T) {
	assert.True(t, OrderOnline.Valid())
	assert.True(t, OrderInPerson.Valid())
	assert.False(t, OrderType("delivery").Valid())
}
