package purchase

// Stats aggregates the inventory for the dashboard: per-status counts and
// cost totals, sold revenue, vehicles whose customs window closes within the
// next three months, and overall totals.
type Stats struct {
	CountByStatus map[Status]int64
	CostByStatus  map[Status]float64
	SoldRevenue   float64

	ExpiringSoonCount int64
	ExpiringSoonCost  float64

	TotalVehicles   int64
	TotalInvestment float64
	TotalRevenue    float64
}

// ActiveStatuses are the stages counted toward the expiring-soon window;
// sold, released and expired vehicles are no longer the yard's problem.
var ActiveStatuses = []Status{
	StatusPurchased,
	StatusLoadRequested,
	StatusLoaded,
	StatusAvailable,
}
