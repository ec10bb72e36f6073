package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
)

func TestMoneyJSONKeepsTwoDigits(t *testing.T) {
	b, err := json.Marshal(struct {
		Price models.Money `json:"price"`
	}{models.MustMoney("10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"10.00"}`, string(b))

	var in struct {
		Price models.Money `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"19.99"}`), &in))
	assert.True(t, in.Price.Equal(models.MustMoney("19.99").Decimal))
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	total := models.MustMoney("10.00").Times(2).Plus(models.MustMoney("5.50").Times(3))
	assert.Equal(t, "36.50", total.String())

	sum := models.Money{}
	for i := 0; i < 10; i++ {
		sum = sum.Plus(models.MustMoney("0.10"))
	}
	assert.Equal(t, "1.00", sum.String())
}

func TestIsValidUnitPrice(t *testing.T) {
	cases := map[string]bool{
		"0.01":    true,
		"9999.99": true,
		"19.9":    true,
		"0":       false,
		"-1.00":   false,
		"10000":   false,
		"1.005":   false,
	}
	for in, want := range cases {
		assert.Equal(t, want, models.MustMoney(in).IsValidUnitPrice(), in)
	}
}

func TestOrderTotal(t *testing.T) {
	o := models.Order{Items: []models.OrderItem{
		{Quantity: 3, UnitPrice: models.MustMoney("19.99")},
		{Quantity: 1, UnitPrice: models.MustMoney("0.03")},
	}}
	assert.Equal(t, "60.00", o.Total().String())
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, models.OrderUnpaid.Valid())
	assert.True(t, models.OrderFailed.Valid())
	assert.False(t, models.OrderStatus("shipped").Valid())
}
