package service

import (
	"testing"

	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCart builds an open cart of unit-price/quantity pairs.
func testCart(pairs ...float64) *entity.Cart {
	cart := &entity.Cart{Status: entity.CartStatusOpen}
	for i := 0; i+1 < len(pairs); i += 2 {
		cart.Items = append(cart.Items, entity.CartItem{
			UnitPrice: pairs[i],
			Quantity:  int(pairs[i+1]),
		})
	}
	return cart
}

func TestPricingCompute(t *testing.T) {
	svc := NewPricingService(40)

	resp, err := svc.Compute(&dto.PricingRequest{
		GrossWeightG:  12,
		NetWeightG:    10,
		MetalRatePerG: 6000,
		MakingPerG:    500,
		MakingFlat:    1000,
		StoneCarat:    2,
		StonePerCarat: 15000,
		MarginPercent: 40,
	})
	require.NoError(t, err)

	assert.Equal(t, 60000.0, resp.MetalValue)
	assert.Equal(t, 6000.0, resp.MakingValue)
	assert.Equal(t, 12000.0, resp.WastageCost)
	assert.Equal(t, 30000.0, resp.StoneValue)
	assert.Equal(t, 108000.0, resp.FinalCost)
	assert.Equal(t, 151200.0, resp.RetailPrice)
}

func TestPricingComputeDefaultMargin(t *testing.T) {
	svc := NewPricingService(25)

	resp, err := svc.Compute(&dto.PricingRequest{
		GrossWeightG:  5,
		NetWeightG:    5,
		MetalRatePerG: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, 5000.0, resp.FinalCost)
	assert.Equal(t, 6250.0, resp.RetailPrice)
	assert.Zero(t, resp.WastageCost)
}

func TestPricingComputeRejectsNetAboveGross(t *testing.T) {
	svc := NewPricingService(40)

	_, err := svc.Compute(&dto.PricingRequest{
		GrossWeightG:  4,
		NetWeightG:    5,
		MetalRatePerG: 1000,
	})
	require.Error(t, err)
}

func TestCartRecalculate(t *testing.T) {
	cart := testCart(100, 2, 50, 1)
	cart.DiscountAmount = 50
	cart.TaxRatePercent = 3

	recalculate(cart)

	assert.Equal(t, 250.0, cart.Subtotal)
	assert.Equal(t, 6.0, cart.TaxAmount)
	assert.Equal(t, 206.0, cart.TotalAmount)
}

func TestCartRecalculateDiscountFloor(t *testing.T) {
	cart := testCart(10, 1)
	cart.DiscountAmount = 100
	cart.TaxRatePercent = 3

	recalculate(cart)

	assert.Zero(t, cart.TaxAmount)
	assert.Zero(t, cart.TotalAmount)
}

func TestBreakdownSplitsGSTInHalf(t *testing.T) {
	cart := testCart(1000, 1)
	cart.TaxRatePercent = 3
	recalculate(cart)

	b := breakdownOf(cart)

	assert.Equal(t, 30.0, b.TaxAmount)
	assert.Equal(t, 15.0, b.CGST)
	assert.Equal(t, 15.0, b.SGST)
	assert.Equal(t, b.TaxAmount, b.CGST+b.SGST)
	assert.Equal(t, 1030.0, b.TotalAmount)
}

func TestPaymentStatusFor(t *testing.T) {
	assert.Equal(t, "paid", string(paymentStatusFor(100, 100)))
	assert.Equal(t, "partial", string(paymentStatusFor(50, 100)))
	assert.Equal(t, "unpaid", string(paymentStatusFor(0, 100)))
}
