package fixture

import (
	"context"
	"testing"

	"claimcore/internal/core"
	"claimcore/pkg/domain"
)

func seedService(t *testing.T, cfg Config) (*core.Service, Summary) {
	t.Helper()
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())
	summary, err := Seed(context.Background(), svc, cfg)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc, summary
}

func TestSeedDefaults(t *testing.T) {
	svc, summary := seedService(t, Config{})
	if summary.Owners != 50 || summary.Claims != 120 {
		t.Fatalf("summary = %+v", summary)
	}
	if got := len(svc.Owners()); got != 50 {
		t.Fatalf("owners = %d", got)
	}
	if got := len(svc.Claims()); got != 120 {
		t.Fatalf("claims = %d", got)
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	cfg := Config{Owners: 10, Claims: 25, Seed: 7}
	first, _ := seedService(t, cfg)
	second, _ := seedService(t, cfg)

	a, b := first.Claims(), second.Claims()
	if len(a) != len(b) {
		t.Fatalf("claim counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ClaimID != b[i].ClaimID ||
			a[i].OwnerID != b[i].OwnerID ||
			a[i].ClaimType != b[i].ClaimType ||
			a[i].ClaimedAmount != b[i].ClaimedAmount ||
			a[i].Status != b[i].Status ||
			a[i].ApprovedAmount != b[i].ApprovedAmount {
			t.Fatalf("claim %d differs:\n%+v\n%+v", i, a[i], b[i])
		}
	}
}

func TestSeedDifferentSeedsDiffer(t *testing.T) {
	first, _ := seedService(t, Config{Owners: 10, Claims: 25, Seed: 1})
	second, _ := seedService(t, Config{Owners: 10, Claims: 25, Seed: 2})

	a, b := first.Claims(), second.Claims()
	same := true
	for i := range a {
		if a[i].ClaimedAmount != b[i].ClaimedAmount || a[i].ClaimType != b[i].ClaimType {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical claims")
	}
}

func TestSeedReferentialIntegrity(t *testing.T) {
	svc, _ := seedService(t, Config{Owners: 8, Claims: 40, Seed: 3})
	owners := map[string]bool{}
	for _, owner := range svc.Owners() {
		owners[owner.OwnerID] = true
	}
	for _, claim := range svc.Claims() {
		if !owners[claim.OwnerID] {
			t.Fatalf("claim %s references unknown owner %s", claim.ClaimID, claim.OwnerID)
		}
	}
}

func TestSeedInvariantsHold(t *testing.T) {
	svc, summary := seedService(t, Config{Owners: 12, Claims: 60, Seed: 5})
	known := map[domain.ClaimStatus]bool{}
	for _, status := range domain.ClaimStatuses() {
		known[status] = true
	}
	statuses := map[domain.ClaimStatus]int{}
	for _, claim := range svc.Claims() {
		if !known[claim.Status] {
			t.Fatalf("claim %s has status %s", claim.ClaimID, claim.Status)
		}
		statuses[claim.Status]++
		if claim.ApprovedAmount > claim.ClaimedAmount {
			t.Fatalf("claim %s approved %f > claimed %f", claim.ClaimID, claim.ApprovedAmount, claim.ClaimedAmount)
		}
		if claim.ApprovedAmount > 0 && claim.Status != domain.ClaimStatusApproved && claim.Status != domain.ClaimStatusClosed {
			t.Fatalf("claim %s carries approved amount in status %s", claim.ClaimID, claim.Status)
		}
		if claim.Handler != "" && !domain.ValidHandler(claim.Handler) {
			t.Fatalf("claim %s has unknown handler %s", claim.ClaimID, claim.Handler)
		}
	}
	if summary.Processed == 0 {
		t.Fatalf("no claims were processed")
	}
	if len(statuses) < 3 {
		t.Fatalf("expected a spread of statuses, got %v", statuses)
	}
}
