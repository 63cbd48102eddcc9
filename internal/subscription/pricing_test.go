package subscription

import (
	"testing"

	"dailydairy-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }

func TestResolveRatePicksLargestTier(t *testing.T) {
	v := &models.DepotProductVariant{
		SellingPrice: 60,
		Price3Day:    fptr(58),
		Price7Day:    fptr(56),
		Price15Day:   fptr(54),
		Price1Month:  fptr(52),
	}

	assert.Equal(t, 52.0, ResolveRate(v, 30))
	assert.Equal(t, 52.0, ResolveRate(v, 45))
	assert.Equal(t, 54.0, ResolveRate(v, 15))
	assert.Equal(t, 54.0, ResolveRate(v, 29))
	assert.Equal(t, 56.0, ResolveRate(v, 7))
	assert.Equal(t, 58.0, ResolveRate(v, 3))
}

func TestResolveRateSkipsMissingTiers(t *testing.T) {
	v := &models.DepotProductVariant{
		SellingPrice: 60,
		Price7Day:    fptr(56),
		Price1Month:  fptr(0), // configured but not offered
	}

	// month tier is non-positive, falls through to the 7-day tier
	assert.Equal(t, 56.0, ResolveRate(v, 30))
	assert.Equal(t, 56.0, ResolveRate(v, 7))
}

func TestResolveRateFallsBackToSellingPrice(t *testing.T) {
	v := &models.DepotProductVariant{SellingPrice: 60}

	assert.Equal(t, 60.0, ResolveRate(v, 30))
	assert.Equal(t, 60.0, ResolveRate(v, 1))

	withTiers := &models.DepotProductVariant{
		SellingPrice: 60,
		Price7Day:    fptr(56),
	}
	// below the smallest offered tier
	assert.Equal(t, 60.0, ResolveRate(withTiers, 5))
}
