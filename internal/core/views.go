package core

import (
	"strconv"
	"time"
)

// TableView is the tabular unit handed to the export adapter: a named sheet
// with a header row and pre-rendered cell text. Views are built from
// already-filtered record slices; the adapter performs no filtering of its
// own.
type TableView struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// OwnersView renders an owners slice as a table.
func OwnersView(owners []Owner) TableView {
	view := TableView{
		Name: "owners",
		Columns: []string{
			"owner_id", "name", "national_id", "phone", "email", "address",
			"plate_number", "vehicle_brand", "vehicle_model",
			"purchase_date", "insurance_expiry", "registered_at",
		},
		Rows: make([][]string, 0, len(owners)),
	}
	for _, o := range owners {
		view.Rows = append(view.Rows, []string{
			o.OwnerID, o.Name, o.NationalID, o.Phone, o.Email, o.Address,
			o.PlateNumber, o.VehicleBrand, o.VehicleModel,
			formatDay(o.PurchaseDate), formatDay(o.InsuranceExpiry),
			o.RegisteredAt.Format(time.RFC3339),
		})
	}
	return view
}

// ClaimsView renders a claims slice as a table.
func ClaimsView(claims []Claim) TableView {
	view := TableView{
		Name: "claims",
		Columns: []string{
			"claim_id", "owner_id", "claim_type", "accident_date", "filed_date",
			"claimed_amount", "approved_amount", "status", "description",
			"remarks", "handler", "created_at", "updated_at",
		},
		Rows: make([][]string, 0, len(claims)),
	}
	for _, c := range claims {
		view.Rows = append(view.Rows, []string{
			c.ClaimID, c.OwnerID, string(c.ClaimType),
			formatDay(c.AccidentDate), formatDay(c.FiledDate),
			formatAmount(c.ClaimedAmount), formatAmount(c.ApprovedAmount),
			string(c.Status), c.Description, c.Remarks, c.Handler,
			c.CreatedAt.Format(time.RFC3339), c.UpdatedAt.Format(time.RFC3339),
		})
	}
	return view
}

// GroupStatsView renders a group-by result as a table under the given name.
func GroupStatsView(name, groupColumn string, stats []GroupStats) TableView {
	view := TableView{
		Name:    name,
		Columns: []string{groupColumn, "count", "claimed_sum", "claimed_mean", "approval_rate"},
		Rows:    make([][]string, 0, len(stats)),
	}
	for _, s := range stats {
		view.Rows = append(view.Rows, []string{
			s.Group,
			strconv.Itoa(s.Count),
			formatAmount(s.ClaimedSum),
			formatAmount(s.ClaimedMean),
			strconv.FormatFloat(s.ApprovalRate, 'f', 1, 64),
		})
	}
	return view
}

// TrendView renders a time-bucketed trend as a table under the given name.
func TrendView(name string, points []TrendPoint) TableView {
	view := TableView{
		Name:    name,
		Columns: []string{"bucket", "count", "claimed_sum"},
		Rows:    make([][]string, 0, len(points)),
	}
	for _, p := range points {
		view.Rows = append(view.Rows, []string{
			p.Bucket, strconv.Itoa(p.Count), formatAmount(p.ClaimedSum),
		})
	}
	return view
}

// HistogramView renders the amount histogram as a table.
func HistogramView(buckets []HistogramBucket) TableView {
	view := TableView{
		Name:    "amount_histogram",
		Columns: []string{"band", "count"},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		view.Rows = append(view.Rows, []string{b.Label, strconv.Itoa(b.Count)})
	}
	return view
}

// ProcessingView renders per-type processing durations as a table.
func ProcessingView(stats []ProcessingStats) TableView {
	view := TableView{
		Name:    "processing_days",
		Columns: []string{"claim_type", "count", "mean_days"},
		Rows:    make([][]string, 0, len(stats)),
	}
	for _, s := range stats {
		view.Rows = append(view.Rows, []string{
			string(s.ClaimType), strconv.Itoa(s.Count),
			strconv.FormatFloat(s.MeanDays, 'f', 1, 64),
		})
	}
	return view
}
