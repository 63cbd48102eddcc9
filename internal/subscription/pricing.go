package subscription

import "dailydairy-backend/internal/models"

// ResolveRate picks the unit price for a subscription period from the
// variant's tier prices. The largest breakpoint <= period wins (30/15/7/3);
// a tier with a nil or non-positive price is skipped, and anything below the
// smallest offered tier falls back to the plain selling price.
func ResolveRate(v *models.DepotProductVariant, period int) float64 {
	type tier struct {
		days  int
		price *float64
	}
	tiers := []tier{
		{30, v.Price1Month},
		{15, v.Price15Day},
		{7, v.Price7Day},
		{3, v.Price3Day},
	}

	for _, t := range tiers {
		if period >= t.days && t.price != nil && *t.price > 0 {
			return *t.price
		}
	}
	return v.SellingPrice
}
