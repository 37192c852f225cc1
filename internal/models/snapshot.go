// internal/models/snapshot.go
package models

// Snapshot is the bounded, point-in-time aggregation of a user's business
// data used to ground the first turn of one conversation. It is built once,
// rendered into the prompt, and discarded.
//
// Every Total* field counts the items available before truncation; the item
// slices hold at most the dataset cap, in source order. A Snapshot is always
// producible: when every source fails it is simply empty, never nil fields.
type Snapshot struct {
	UserName string

	Leads      []Lead
	TotalLeads int

	Activities      []Activity
	TotalActivities int

	Partners      []Partner
	TotalPartners int

	Products      []Product
	TotalProducts int

	RecentOrders    []Order
	TotalOrders     int
	TotalOrderValue float64
}

// EmptySnapshot is the fail-closed result when nothing could be acquired.
func EmptySnapshot(userName string) *Snapshot {
	return &Snapshot{UserName: userName}
}

// OrderValueSum computes the best-effort monetary total over the full order
// set. Lenient decoding already turned junk amounts into zero.
func OrderValueSum(orders []Order) float64 {
	var sum float64
	for _, o := range orders {
		sum += o.VlrNota.Float64()
	}
	return sum
}
