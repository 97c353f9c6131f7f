package core

import (
	"context"
	"fmt"

	"claimcore/pkg/domain"
)

// NewClaimReferenceRule returns the in-transaction rule enforcing that every
// claim references an existing owner. The store supports no orphaned claims.
func NewClaimReferenceRule() domain.Rule {
	return claimReferenceRule{}
}

type claimReferenceRule struct{}

func (claimReferenceRule) Name() string { return "claim_reference" }

func (claimReferenceRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, claim := range view.ListClaims() {
		if _, ok := view.FindOwner(claim.OwnerID); ok {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "claim_reference",
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("claim %s references unknown owner %s", claim.ClaimID, claim.OwnerID),
			Entity:   domain.EntityClaim,
			EntityID: claim.ClaimID,
		})
	}
	return res, nil
}
