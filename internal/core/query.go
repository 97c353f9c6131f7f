package core

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// The query engine produces filtered and sorted read views over record
// snapshots. Every function here is a pure function of its input slice and
// returns a fresh slice; the store's internal state is never aliased or
// mutated.

// SortDirection selects ordering for sort operations.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// ExactMatch requires the textual rendering of a field to equal a value.
type ExactMatch struct {
	Field string
	Value string
}

// NumberRange requires a numeric field to fall within [Min, Max], inclusive.
type NumberRange struct {
	Field string
	Min   float64
	Max   float64
}

// DateRange requires a date field to fall within [From, To], inclusive,
// compared as calendar dates ignoring time-of-day.
type DateRange struct {
	Field string
	From  time.Time
	To    time.Time
}

// Filter composes predicates with logical AND. An empty filter matches
// everything. A predicate naming an unknown field matches nothing.
type Filter struct {
	Exact   []ExactMatch
	Numbers []NumberRange
	Dates   []DateRange
}

// SearchOwners returns owners whose named field contains the pattern as a
// case-sensitive substring. Unknown fields yield an empty view.
func SearchOwners(owners []Owner, field, pattern string) []Owner {
	out := make([]Owner, 0)
	for _, o := range owners {
		text, ok := ownerFieldText(o, field)
		if ok && strings.Contains(text, pattern) {
			out = append(out, o)
		}
	}
	return out
}

// SearchClaims returns claims whose named field contains the pattern as a
// case-sensitive substring. Unknown fields yield an empty view.
func SearchClaims(claims []Claim, field, pattern string) []Claim {
	out := make([]Claim, 0)
	for _, c := range claims {
		text, ok := claimFieldText(c, field)
		if ok && strings.Contains(text, pattern) {
			out = append(out, c)
		}
	}
	return out
}

// FilterOwners returns owners satisfying every predicate in the filter.
func FilterOwners(owners []Owner, f Filter) []Owner {
	out := make([]Owner, 0)
	for _, o := range owners {
		if ownerMatches(o, f) {
			out = append(out, o)
		}
	}
	return out
}

// FilterClaims returns claims satisfying every predicate in the filter.
func FilterClaims(claims []Claim, f Filter) []Claim {
	out := make([]Claim, 0)
	for _, c := range claims {
		if claimMatches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

// SortOwners returns a copy of the owners ordered by the named field. The
// sort is stable; ties preserve the input order. Unknown fields leave the
// order unchanged.
func SortOwners(owners []Owner, field string, direction SortDirection) []Owner {
	out := make([]Owner, len(owners))
	copy(out, owners)
	sort.SliceStable(out, func(i, j int) bool {
		return ownerLess(out[i], out[j], field, direction)
	})
	return out
}

// SortClaims returns a copy of the claims ordered by the named field. The
// sort is stable; ties preserve the input order. Unknown fields leave the
// order unchanged.
func SortClaims(claims []Claim, field string, direction SortDirection) []Claim {
	out := make([]Claim, len(claims))
	copy(out, claims)
	sort.SliceStable(out, func(i, j int) bool {
		return claimLess(out[i], out[j], field, direction)
	})
	return out
}

func ownerMatches(o Owner, f Filter) bool {
	for _, p := range f.Exact {
		text, ok := ownerFieldText(o, p.Field)
		if !ok || text != p.Value {
			return false
		}
	}
	// Owners carry no numeric fields; any numeric predicate excludes them.
	if len(f.Numbers) > 0 {
		return false
	}
	for _, p := range f.Dates {
		day, ok := ownerFieldDate(o, p.Field)
		if !ok || !withinDays(day, p.From, p.To) {
			return false
		}
	}
	return true
}

func claimMatches(c Claim, f Filter) bool {
	for _, p := range f.Exact {
		text, ok := claimFieldText(c, p.Field)
		if !ok || text != p.Value {
			return false
		}
	}
	for _, p := range f.Numbers {
		value, ok := claimFieldNumber(c, p.Field)
		if !ok || value < p.Min || value > p.Max {
			return false
		}
	}
	for _, p := range f.Dates {
		day, ok := claimFieldDate(c, p.Field)
		if !ok || !withinDays(day, p.From, p.To) {
			return false
		}
	}
	return true
}

func ownerFieldText(o Owner, field string) (string, bool) {
	switch field {
	case "owner_id":
		return o.OwnerID, true
	case "name":
		return o.Name, true
	case "national_id":
		return o.NationalID, true
	case "phone":
		return o.Phone, true
	case "email":
		return o.Email, true
	case "address":
		return o.Address, true
	case "plate_number":
		return o.PlateNumber, true
	case "vehicle_brand":
		return o.VehicleBrand, true
	case "vehicle_model":
		return o.VehicleModel, true
	case "purchase_date":
		return formatDay(o.PurchaseDate), true
	case "insurance_expiry":
		return formatDay(o.InsuranceExpiry), true
	case "registered_at":
		return o.RegisteredAt.Format(time.RFC3339), true
	}
	return "", false
}

func ownerFieldDate(o Owner, field string) (time.Time, bool) {
	switch field {
	case "purchase_date":
		return o.PurchaseDate, true
	case "insurance_expiry":
		return o.InsuranceExpiry, true
	case "registered_at":
		return o.RegisteredAt, true
	}
	return time.Time{}, false
}

func claimFieldText(c Claim, field string) (string, bool) {
	switch field {
	case "claim_id":
		return c.ClaimID, true
	case "owner_id":
		return c.OwnerID, true
	case "claim_type":
		return string(c.ClaimType), true
	case "status":
		return string(c.Status), true
	case "description":
		return c.Description, true
	case "remarks":
		return c.Remarks, true
	case "handler":
		return c.Handler, true
	case "claimed_amount":
		return formatAmount(c.ClaimedAmount), true
	case "approved_amount":
		return formatAmount(c.ApprovedAmount), true
	case "accident_date":
		return formatDay(c.AccidentDate), true
	case "filed_date":
		return formatDay(c.FiledDate), true
	case "created_at":
		return c.CreatedAt.Format(time.RFC3339), true
	case "updated_at":
		return c.UpdatedAt.Format(time.RFC3339), true
	}
	return "", false
}

func claimFieldNumber(c Claim, field string) (float64, bool) {
	switch field {
	case "claimed_amount":
		return c.ClaimedAmount, true
	case "approved_amount":
		return c.ApprovedAmount, true
	}
	return 0, false
}

func claimFieldDate(c Claim, field string) (time.Time, bool) {
	switch field {
	case "accident_date":
		return c.AccidentDate, true
	case "filed_date":
		return c.FiledDate, true
	case "created_at":
		return c.CreatedAt, true
	case "updated_at":
		return c.UpdatedAt, true
	}
	return time.Time{}, false
}

func ownerLess(a, b Owner, field string, direction SortDirection) bool {
	if da, ok := ownerFieldDate(a, field); ok {
		db, _ := ownerFieldDate(b, field)
		return orderedTime(da, db, direction)
	}
	ta, ok := ownerFieldText(a, field)
	if !ok {
		return false
	}
	tb, _ := ownerFieldText(b, field)
	return orderedText(ta, tb, direction)
}

func claimLess(a, b Claim, field string, direction SortDirection) bool {
	if na, ok := claimFieldNumber(a, field); ok {
		nb, _ := claimFieldNumber(b, field)
		if direction == SortDescending {
			return na > nb
		}
		return na < nb
	}
	if da, ok := claimFieldDate(a, field); ok {
		db, _ := claimFieldDate(b, field)
		return orderedTime(da, db, direction)
	}
	ta, ok := claimFieldText(a, field)
	if !ok {
		return false
	}
	tb, _ := claimFieldText(b, field)
	return orderedText(ta, tb, direction)
}

func orderedText(a, b string, direction SortDirection) bool {
	if direction == SortDescending {
		return a > b
	}
	return a < b
}

func orderedTime(a, b time.Time, direction SortDirection) bool {
	if direction == SortDescending {
		return b.Before(a)
	}
	return a.Before(b)
}

// withinDays reports whether t falls within [from, to] compared as calendar
// dates. Zero bounds are open.
func withinDays(t, from, to time.Time) bool {
	day := calendarDay(t)
	if !from.IsZero() && day.Before(calendarDay(from)) {
		return false
	}
	if !to.IsZero() && day.After(calendarDay(to)) {
		return false
	}
	return true
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
