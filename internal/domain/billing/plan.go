package billing

// Plan ids stored in subscriptions.plan_id (single source of truth)
const (
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"

	// Every paid plan currently maps to the "pro" tier on the customer row.
	TierPro = "pro"
)

// PlanTypeFromInterval maps a Stripe recurring interval onto a plan id.
// Anything that is not yearly bills monthly.
func PlanTypeFromInterval(interval string) string {
	if interval == "year" {
		return PlanYearly
	}
	return PlanMonthly
}

// PlanDisplayName returns the human-readable plan label used in receipts.
func PlanDisplayName(planType string) string {
	if planType == PlanYearly {
		return "Pro (Yearly)"
	}
	return "Pro (Monthly)"
}
