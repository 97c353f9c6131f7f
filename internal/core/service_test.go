package core

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"claimcore/pkg/domain"
)

func newTestService() *Service {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewInMemoryService(NewDefaultRulesEngine(), WithClock(func() time.Time { return base }))
}

func seedOwner(t *testing.T, svc *Service) Owner {
	t.Helper()
	owner, _, err := svc.CreateOwner(context.Background(), OwnerInput{
		Name:         "Zhang Wei",
		NationalID:   "110101199001011234",
		Phone:        "13800000000",
		VehicleBrand: "Toyota",
		VehicleModel: "Sedan L",
	})
	if err != nil {
		t.Fatalf("seed owner: %v", err)
	}
	return owner
}

func seedClaim(t *testing.T, svc *Service, ownerID string, amount float64) Claim {
	t.Helper()
	claim, _, err := svc.CreateClaim(context.Background(), ClaimInput{
		OwnerID:       ownerID,
		ClaimType:     domain.ClaimTypeCollision,
		ClaimedAmount: amount,
		Description:   "rear-end collision",
	})
	if err != nil {
		t.Fatalf("seed claim: %v", err)
	}
	return claim
}

func TestCreateClaimAssignsSequentialID(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)

	claim := seedClaim(t, svc, owner.OwnerID, 5000)

	if matched := regexp.MustCompile(`^CL\d{6}$`).MatchString(claim.ClaimID); !matched {
		t.Fatalf("claim id %s does not match CL pattern", claim.ClaimID)
	}
	if claim.Status != ClaimStatusPending {
		t.Fatalf("status = %s, want pending", claim.Status)
	}
	if claim.ApprovedAmount != 0 {
		t.Fatalf("approved amount = %v, want 0", claim.ApprovedAmount)
	}
}

func TestCreateClaimUnknownOwnerLeavesCollectionUnchanged(t *testing.T) {
	svc := newTestService()
	seedOwner(t, svc)

	_, _, err := svc.CreateClaim(context.Background(), ClaimInput{
		OwnerID:       "OW999999",
		ClaimType:     domain.ClaimTypeCollision,
		ClaimedAmount: 5000,
		Description:   "rear-end collision",
	})
	var refErr ReferentialError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected ReferentialError, got %v", err)
	}
	if got := len(svc.Claims()); got != 0 {
		t.Fatalf("claims collection size = %d, want 0", got)
	}
}

func TestProcessClaimApprovedAmountCap(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)
	claim := seedClaim(t, svc, owner.OwnerID, 5000)

	status := ClaimStatusApproved
	amount := 6000.0
	_, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{
		Status:         &status,
		ApprovedAmount: &amount,
	})
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	stored, err := svc.Claim(claim.ClaimID)
	if err != nil {
		t.Fatalf("reload claim: %v", err)
	}
	if stored.Status != ClaimStatusPending {
		t.Fatalf("status mutated to %s", stored.Status)
	}
	if stored.ApprovedAmount != 0 {
		t.Fatalf("approved amount mutated to %v", stored.ApprovedAmount)
	}
}

func TestProcessClaimWorkflow(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)
	claim := seedClaim(t, svc, owner.OwnerID, 5000)

	review := ClaimStatusUnderReview
	if _, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Status: &review}); err != nil {
		t.Fatalf("pending -> under-review: %v", err)
	}

	approved := ClaimStatusApproved
	amount := 4500.0
	handler := domain.StaffRoster[0]
	updated, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{
		Status:         &approved,
		ApprovedAmount: &amount,
		Handler:        &handler,
	})
	if err != nil {
		t.Fatalf("under-review -> approved: %v", err)
	}
	if updated.Status != ClaimStatusApproved || updated.ApprovedAmount != 4500 || updated.Handler != handler {
		t.Fatalf("unexpected claim after approval: %+v", updated)
	}

	closed := ClaimStatusClosed
	if _, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Status: &closed}); err != nil {
		t.Fatalf("approved -> closed: %v", err)
	}

	reopened := ClaimStatusPending
	_, _, err = svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Status: &reopened})
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("closed is terminal, expected ValidationError, got %v", err)
	}
}

func TestProcessClaimRejectsIllegalTransition(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)
	claim := seedClaim(t, svc, owner.OwnerID, 5000)

	approved := ClaimStatusApproved
	_, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Status: &approved})
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("pending -> approved must fail, got %v", err)
	}
}

func TestProcessClaimSameStatusAllowed(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)
	claim := seedClaim(t, svc, owner.OwnerID, 5000)

	pending := ClaimStatusPending
	remarks := "awaiting documents"
	updated, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Status: &pending, Remarks: &remarks})
	if err != nil {
		t.Fatalf("same-status update: %v", err)
	}
	if updated.Remarks != remarks {
		t.Fatalf("remarks not applied: %q", updated.Remarks)
	}
}

func TestProcessClaimUnknownHandler(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)
	claim := seedClaim(t, svc, owner.OwnerID, 5000)

	handler := "Nobody"
	_, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Handler: &handler})
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for unknown handler, got %v", err)
	}
}

func TestProcessClaimNotFound(t *testing.T) {
	svc := newTestService()
	remarks := "x"
	_, _, err := svc.ProcessClaim(context.Background(), "CL000042", ClaimDecision{Remarks: &remarks})
	var nfErr NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateOwnerPartialPatch(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)

	phone := "13900000000"
	brand := "Honda"
	updated, _, err := svc.UpdateOwner(context.Background(), owner.OwnerID, OwnerPatch{
		Phone:        &phone,
		VehicleBrand: &brand,
	})
	if err != nil {
		t.Fatalf("update owner: %v", err)
	}
	if updated.Phone != phone || updated.VehicleBrand != brand {
		t.Fatalf("patched fields not applied: %+v", updated)
	}
	if updated.Name != owner.Name {
		t.Fatalf("unpatched field changed: %q", updated.Name)
	}
	if updated.OwnerID != owner.OwnerID || !updated.RegisteredAt.Equal(owner.RegisteredAt) {
		t.Fatalf("immutable fields changed: %+v", updated)
	}
}

func TestUpdateOwnerNotFound(t *testing.T) {
	svc := newTestService()
	name := "X"
	_, _, err := svc.UpdateOwner(context.Background(), "OW000042", OwnerPatch{Name: &name})
	var nfErr NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestApprovedAmountInvariantHoldsAfterMutations(t *testing.T) {
	svc := newTestService()
	owner := seedOwner(t, svc)
	claim := seedClaim(t, svc, owner.OwnerID, 5000)

	review := ClaimStatusUnderReview
	if _, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Status: &review}); err != nil {
		t.Fatalf("to under-review: %v", err)
	}
	approved := ClaimStatusApproved
	amount := 5000.0
	if _, _, err := svc.ProcessClaim(context.Background(), claim.ClaimID, ClaimDecision{Status: &approved, ApprovedAmount: &amount}); err != nil {
		t.Fatalf("approve at cap: %v", err)
	}
	for _, c := range svc.Claims() {
		if c.ApprovedAmount > c.ClaimedAmount {
			t.Fatalf("invariant violated: approved %v > claimed %v", c.ApprovedAmount, c.ClaimedAmount)
		}
	}
}
