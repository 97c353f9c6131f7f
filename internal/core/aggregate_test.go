package core

import (
	"testing"
	"time"

	"claimcore/pkg/domain"
)

func TestClaimTotals(t *testing.T) {
	claims := []Claim{
		{ClaimedAmount: 3000, ApprovedAmount: 2000},
		{ClaimedAmount: 5000, ApprovedAmount: 0},
		{ClaimedAmount: 1000, ApprovedAmount: 500},
	}
	totals := ClaimTotals(claims)
	if totals.Count != 3 {
		t.Fatalf("count = %d", totals.Count)
	}
	if totals.ClaimedSum != 9000 || totals.ApprovedSum != 2500 {
		t.Fatalf("sums = %v / %v", totals.ClaimedSum, totals.ApprovedSum)
	}
	if totals.ClaimedMean != 3000 {
		t.Fatalf("mean = %v", totals.ClaimedMean)
	}
	if totals.ClaimedMax != 5000 {
		t.Fatalf("max = %v", totals.ClaimedMax)
	}
}

func TestClaimTotalsEmpty(t *testing.T) {
	totals := ClaimTotals(nil)
	if totals.Count != 0 || totals.ClaimedMean != 0 || totals.ClaimedMax != 0 {
		t.Fatalf("empty totals = %+v", totals)
	}
}

func TestStatsByTypeApprovalRate(t *testing.T) {
	claims := []Claim{
		{ClaimType: domain.ClaimTypeCollision, ClaimedAmount: 1000, Status: domain.ClaimStatusApproved},
		{ClaimType: domain.ClaimTypeCollision, ClaimedAmount: 2000, Status: domain.ClaimStatusRejected},
		{ClaimType: domain.ClaimTypeCollision, ClaimedAmount: 3000, Status: domain.ClaimStatusApproved},
		{ClaimType: domain.ClaimTypeTheft, ClaimedAmount: 9000, Status: domain.ClaimStatusPending},
	}
	stats := StatsByType(claims)
	if len(stats) != 2 {
		t.Fatalf("groups = %d, want 2", len(stats))
	}
	collision := stats[0]
	if collision.Group != "collision" {
		t.Fatalf("first group = %s", collision.Group)
	}
	if collision.Count != 3 || collision.ClaimedSum != 6000 || collision.ClaimedMean != 2000 {
		t.Fatalf("collision stats = %+v", collision)
	}
	if collision.ApprovalRate != 66.7 {
		t.Fatalf("approval rate = %v, want 66.7", collision.ApprovalRate)
	}
	theft := stats[1]
	if theft.ApprovalRate != 0 {
		t.Fatalf("theft approval rate = %v, want 0", theft.ApprovalRate)
	}
}

func TestApprovalRateEmptyGroupIsZero(t *testing.T) {
	if got := approvalRate(0, 0); got != 0 {
		t.Fatalf("empty group rate = %v, want 0", got)
	}
}

func TestStatsByBrandJoinsOwners(t *testing.T) {
	owners := []Owner{
		{OwnerID: "OW000001", VehicleBrand: "Toyota"},
		{OwnerID: "OW000002", VehicleBrand: "Honda"},
	}
	claims := []Claim{
		{OwnerID: "OW000001", ClaimedAmount: 1000, Status: domain.ClaimStatusApproved},
		{OwnerID: "OW000001", ClaimedAmount: 3000, Status: domain.ClaimStatusPending},
		{OwnerID: "OW000002", ClaimedAmount: 2000, Status: domain.ClaimStatusPending},
		{OwnerID: "OW000099", ClaimedAmount: 7000, Status: domain.ClaimStatusPending}, // no owner in view
	}
	stats := StatsByBrand(claims, owners)
	if len(stats) != 2 {
		t.Fatalf("groups = %d, want 2", len(stats))
	}
	if stats[0].Group != "Honda" || stats[0].Count != 1 {
		t.Fatalf("honda stats = %+v", stats[0])
	}
	if stats[1].Group != "Toyota" || stats[1].Count != 2 || stats[1].ClaimedSum != 4000 {
		t.Fatalf("toyota stats = %+v", stats[1])
	}
	if stats[1].ApprovalRate != 50.0 {
		t.Fatalf("toyota approval rate = %v, want 50.0", stats[1].ApprovalRate)
	}
}

func TestMonthlyTrendOmitsEmptyBuckets(t *testing.T) {
	claims := []Claim{
		{FiledDate: day(2025, 1, 5), ClaimedAmount: 100},
		{FiledDate: day(2025, 1, 25), ClaimedAmount: 200},
		{FiledDate: day(2025, 3, 1), ClaimedAmount: 400},
	}
	trend := MonthlyTrend(claims)
	if len(trend) != 2 {
		t.Fatalf("buckets = %d, want 2 (no gap-filled february)", len(trend))
	}
	if trend[0].Bucket != "2025-01" || trend[0].Count != 2 || trend[0].ClaimedSum != 300 {
		t.Fatalf("january = %+v", trend[0])
	}
	if trend[1].Bucket != "2025-03" || trend[1].Count != 1 {
		t.Fatalf("march = %+v", trend[1])
	}
}

func TestQuarterlyTrend(t *testing.T) {
	claims := []Claim{
		{FiledDate: day(2025, 1, 5), ClaimedAmount: 100},
		{FiledDate: day(2025, 3, 31), ClaimedAmount: 200},
		{FiledDate: day(2025, 4, 1), ClaimedAmount: 400},
		{FiledDate: day(2025, 12, 20), ClaimedAmount: 800},
	}
	trend := QuarterlyTrend(claims)
	if len(trend) != 3 {
		t.Fatalf("buckets = %d, want 3", len(trend))
	}
	if trend[0].Bucket != "2025-Q1" || trend[0].Count != 2 || trend[0].ClaimedSum != 300 {
		t.Fatalf("q1 = %+v", trend[0])
	}
	if trend[1].Bucket != "2025-Q2" || trend[2].Bucket != "2025-Q4" {
		t.Fatalf("quarter ordering: %+v", trend)
	}
}

func TestProcessingDaysByType(t *testing.T) {
	claims := []Claim{
		{ClaimType: domain.ClaimTypeCollision, Status: domain.ClaimStatusApproved, FiledDate: day(2025, 1, 1), UpdatedAt: day(2025, 1, 11)},
		{ClaimType: domain.ClaimTypeCollision, Status: domain.ClaimStatusRejected, FiledDate: day(2025, 1, 1), UpdatedAt: day(2025, 1, 21)},
		{ClaimType: domain.ClaimTypeCollision, Status: domain.ClaimStatusPending, FiledDate: day(2025, 1, 1), UpdatedAt: day(2025, 2, 1)}, // active, excluded
		{ClaimType: domain.ClaimTypeTheft, Status: domain.ClaimStatusClosed, FiledDate: day(2025, 1, 1), UpdatedAt: day(2025, 1, 4)},
	}
	stats := ProcessingDaysByType(claims)
	if len(stats) != 2 {
		t.Fatalf("groups = %d, want 2", len(stats))
	}
	if stats[0].ClaimType != domain.ClaimTypeCollision || stats[0].Count != 2 || stats[0].MeanDays != 15 {
		t.Fatalf("collision processing = %+v", stats[0])
	}
	if stats[1].ClaimType != domain.ClaimTypeTheft || stats[1].MeanDays != 3 {
		t.Fatalf("theft processing = %+v", stats[1])
	}
}

func TestProcessingDaysIgnoresTimeOfDay(t *testing.T) {
	claims := []Claim{
		{ClaimType: domain.ClaimTypeFire, Status: domain.ClaimStatusClosed,
			FiledDate: time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 1, 2, 1, 0, 0, 0, time.UTC)},
	}
	stats := ProcessingDaysByType(claims)
	if len(stats) != 1 || stats[0].MeanDays != 1 {
		t.Fatalf("calendar-day duration = %+v", stats)
	}
}

func TestAmountHistogramScenario(t *testing.T) {
	claims := []Claim{
		{ClaimedAmount: 3000},
		{ClaimedAmount: 5000},
		{ClaimedAmount: 12000},
		{ClaimedAmount: 51000},
	}
	buckets := AmountHistogram(claims)
	want := map[string]int{"0-5K": 2, "5K-10K": 0, "10K-20K": 1, "20K-50K": 0, "50K+": 1}
	if len(buckets) != len(want) {
		t.Fatalf("bucket count = %d, want %d", len(buckets), len(want))
	}
	for _, b := range buckets {
		if want[b.Label] != b.Count {
			t.Fatalf("bucket %s = %d, want %d", b.Label, b.Count, want[b.Label])
		}
	}
}

func TestAmountHistogramAllBucketsPresentWhenEmpty(t *testing.T) {
	buckets := AmountHistogram(nil)
	if len(buckets) != 5 {
		t.Fatalf("bucket count = %d, want 5", len(buckets))
	}
	for _, b := range buckets {
		if b.Count != 0 {
			t.Fatalf("bucket %s = %d, want 0", b.Label, b.Count)
		}
	}
}

func TestAggregationIsPure(t *testing.T) {
	claims := []Claim{
		{ClaimType: domain.ClaimTypeCollision, ClaimedAmount: 1000, Status: domain.ClaimStatusApproved, FiledDate: day(2025, 1, 1)},
		{ClaimType: domain.ClaimTypeTheft, ClaimedAmount: 9000, Status: domain.ClaimStatusPending, FiledDate: day(2025, 2, 1)},
	}
	first := StatsByType(claims)
	second := StatsByType(claims)
	if len(first) != len(second) {
		t.Fatalf("repeated aggregation diverged")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated aggregation diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if claims[0].ClaimedAmount != 1000 || claims[1].ClaimedAmount != 9000 {
		t.Fatalf("aggregation mutated its input view")
	}
}
