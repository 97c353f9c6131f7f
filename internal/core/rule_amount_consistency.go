package core

import (
	"context"
	"fmt"

	"claimcore/pkg/domain"
)

// NewAmountConsistencyRule returns the in-transaction rule enforcing
// 0 <= approvedAmount <= claimedAmount on every claim.
func NewAmountConsistencyRule() domain.Rule {
	return amountConsistencyRule{}
}

type amountConsistencyRule struct{}

func (amountConsistencyRule) Name() string { return "amount_consistency" }

func (amountConsistencyRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, claim := range view.ListClaims() {
		switch {
		case claim.ClaimedAmount < 0:
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "amount_consistency",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("claim %s has negative claimed amount %.2f", claim.ClaimID, claim.ClaimedAmount),
				Entity:   domain.EntityClaim,
				EntityID: claim.ClaimID,
			})
		case claim.ApprovedAmount < 0:
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "amount_consistency",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("claim %s has negative approved amount %.2f", claim.ClaimID, claim.ApprovedAmount),
				Entity:   domain.EntityClaim,
				EntityID: claim.ClaimID,
			})
		case claim.ApprovedAmount > claim.ClaimedAmount:
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "amount_consistency",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("claim %s approved amount %.2f exceeds claimed amount %.2f", claim.ClaimID, claim.ApprovedAmount, claim.ClaimedAmount),
				Entity:   domain.EntityClaim,
				EntityID: claim.ClaimID,
			})
		}
	}
	return res, nil
}
