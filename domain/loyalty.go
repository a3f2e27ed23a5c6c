package domain

// Tier is a loyalty level granted once a customer's lifetime spend reaches
// its threshold.
type Tier struct {
	Name      string  `json:"name"`
	Threshold float64 `json:"threshold"`
}

// tiers is ordered ascending by threshold; TierFor depends on that.
var tiers = []Tier{
	{Name: "bronze", Threshold: 0},
	{Name: "silver", Threshold: 1000},
	{Name: "gold", Threshold: 5000},
	{Name: "platinum", Threshold: 15000},
}

// DefaultPointsRate converts spend to loyalty points: one point per rate
// units of spend.
const DefaultPointsRate = 10.0

// TierFor returns the highest tier whose threshold does not exceed spend.
// It is total: negative spend still lands on the lowest tier.
func TierFor(spend float64) Tier {
	tier := tiers[0]
	for _, t := range tiers[1:] {
		if spend < t.Threshold {
			break
		}
		tier = t
	}
	return tier
}

// PointsFor derives loyalty points as floor(spend/rate). A non-positive rate
// yields zero points rather than dividing by it.
func PointsFor(spend, rate float64) int {
	if rate <= 0 || spend <= 0 {
		return 0
	}
	return int(spend / rate)
}
