package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"claimcore/pkg/domain"
)

// The aggregation engine computes summary figures over claim views. Every
// function is pure: identical input views yield identical results, and the
// canonical collections are never written to during aggregation.

// Totals holds scalar aggregates over a claims view.
type Totals struct {
	Count       int
	ClaimedSum  float64
	ApprovedSum float64
	ClaimedMean float64
	ClaimedMax  float64
}

// GroupStats holds per-group aggregates for a group-by computation.
type GroupStats struct {
	Group        string
	Count        int
	ClaimedSum   float64
	ClaimedMean  float64
	ApprovalRate float64
}

// TrendPoint holds the count and claimed-amount sum for one calendar bucket.
type TrendPoint struct {
	Bucket     string
	Count      int
	ClaimedSum float64
}

// HistogramBucket holds the claim count for one fixed amount band.
type HistogramBucket struct {
	Label string
	Count int
}

// ProcessingStats holds the mean processing duration for one claim type.
type ProcessingStats struct {
	ClaimType ClaimType
	Count     int
	MeanDays  float64
}

// ClaimTotals computes count, sums, mean, and max over the view.
func ClaimTotals(claims []Claim) Totals {
	t := Totals{Count: len(claims)}
	for _, c := range claims {
		t.ClaimedSum += c.ClaimedAmount
		t.ApprovedSum += c.ApprovedAmount
		if c.ClaimedAmount > t.ClaimedMax {
			t.ClaimedMax = c.ClaimedAmount
		}
	}
	if t.Count > 0 {
		t.ClaimedMean = t.ClaimedSum / float64(t.Count)
	}
	return t
}

// StatsByType groups claims by claim type. Groups are returned in ascending
// type order; types absent from the view are omitted.
func StatsByType(claims []Claim) []GroupStats {
	return groupClaims(claims, func(c Claim) (string, bool) {
		return string(c.ClaimType), true
	})
}

// StatsByBrand groups claims by the vehicle brand of their owner, joining
// the two views on the owner identifier. Claims whose owner is missing from
// the owners view are skipped.
func StatsByBrand(claims []Claim, owners []Owner) []GroupStats {
	brands := make(map[string]string, len(owners))
	for _, o := range owners {
		brands[o.OwnerID] = o.VehicleBrand
	}
	return groupClaims(claims, func(c Claim) (string, bool) {
		brand, ok := brands[c.OwnerID]
		return brand, ok
	})
}

func groupClaims(claims []Claim, key func(Claim) (string, bool)) []GroupStats {
	type acc struct {
		count    int
		sum      float64
		approved int
	}
	groups := make(map[string]*acc)
	for _, c := range claims {
		k, ok := key(c)
		if !ok {
			continue
		}
		a := groups[k]
		if a == nil {
			a = &acc{}
			groups[k] = a
		}
		a.count++
		a.sum += c.ClaimedAmount
		if c.Status == ClaimStatusApproved {
			a.approved++
		}
	}
	out := make([]GroupStats, 0, len(groups))
	for k, a := range groups {
		stats := GroupStats{
			Group:        k,
			Count:        a.count,
			ClaimedSum:   a.sum,
			ApprovalRate: approvalRate(a.approved, a.count),
		}
		if a.count > 0 {
			stats.ClaimedMean = a.sum / float64(a.count)
		}
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// approvalRate returns approved/total as a percentage rounded to one
// decimal. An empty group yields 0 rather than a division error.
func approvalRate(approved, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(approved) / float64(total) * 100
	return math.Round(rate*10) / 10
}

// MonthlyTrend buckets claims by the calendar month of their filing date.
// Empty months are omitted; buckets are returned in chronological order.
func MonthlyTrend(claims []Claim) []TrendPoint {
	return trend(claims, func(c Claim) string {
		return c.FiledDate.Format("2006-01")
	})
}

// QuarterlyTrend buckets claims by the calendar quarter of their filing
// date. Empty quarters are omitted; buckets are returned in chronological
// order.
func QuarterlyTrend(claims []Claim) []TrendPoint {
	return trend(claims, func(c Claim) string {
		quarter := (int(c.FiledDate.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", c.FiledDate.Year(), quarter)
	})
}

func trend(claims []Claim, bucket func(Claim) string) []TrendPoint {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	for _, c := range claims {
		b := bucket(c)
		counts[b]++
		sums[b] += c.ClaimedAmount
	}
	out := make([]TrendPoint, 0, len(counts))
	for b, n := range counts {
		out = append(out, TrendPoint{Bucket: b, Count: n, ClaimedSum: sums[b]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}

// ProcessingDaysByType computes, per claim type, the mean number of calendar
// days between filing and the last update, considering only claims that have
// reached a terminal status. Types with no terminal claims are omitted.
func ProcessingDaysByType(claims []Claim) []ProcessingStats {
	type acc struct {
		count int
		days  int
	}
	groups := make(map[ClaimType]*acc)
	for _, c := range claims {
		if !domain.TerminalClaimStatus(c.Status) {
			continue
		}
		a := groups[c.ClaimType]
		if a == nil {
			a = &acc{}
			groups[c.ClaimType] = a
		}
		a.count++
		a.days += calendarDaysBetween(c.FiledDate, c.UpdatedAt)
	}
	out := make([]ProcessingStats, 0, len(groups))
	for t, a := range groups {
		out = append(out, ProcessingStats{
			ClaimType: t,
			Count:     a.count,
			MeanDays:  float64(a.days) / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClaimType < out[j].ClaimType })
	return out
}

var histogramEdges = []struct {
	label string
	upper float64
}{
	{"0-5K", 5000},
	{"5K-10K", 10000},
	{"10K-20K", 20000},
	{"20K-50K", 50000},
	{"50K+", math.Inf(1)},
}

// AmountHistogram counts claims per fixed claimed-amount band. A claim falls
// in the first band whose upper edge its amount does not exceed. All bands
// are present in the result, including empty ones.
func AmountHistogram(claims []Claim) []HistogramBucket {
	out := make([]HistogramBucket, len(histogramEdges))
	for i, e := range histogramEdges {
		out[i].Label = e.label
	}
	for _, c := range claims {
		for i, e := range histogramEdges {
			if c.ClaimedAmount <= e.upper {
				out[i].Count++
				break
			}
		}
	}
	return out
}

func calendarDaysBetween(from, to time.Time) int {
	return int(calendarDay(to).Sub(calendarDay(from)).Hours() / 24)
}
