package core

import (
	"context"
	"fmt"

	"claimcore/pkg/domain"
)

// NewStatusTransitionRule returns the in-transaction rule blocking illegal
// claim status transitions. The service validates decisions up front; this
// rule is the commit-time safety net for callers driving transactions
// directly.
func NewStatusTransitionRule() domain.Rule {
	return statusTransitionRule{}
}

type statusTransitionRule struct{}

func (statusTransitionRule) Name() string { return "status_transition" }

func (statusTransitionRule) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, change := range changes {
		if change.Entity != domain.EntityClaim || change.Action != domain.ActionUpdate {
			continue
		}
		before, ok := change.Before.(domain.Claim)
		if !ok {
			continue
		}
		after, ok := change.After.(domain.Claim)
		if !ok {
			continue
		}
		if domain.CanTransition(before.Status, after.Status) {
			continue
		}
		res.Violations = append(res.Violations, domain.Violation{
			Rule:     "status_transition",
			Severity: domain.SeverityBlock,
			Message:  fmt.Sprintf("claim %s cannot move from %s to %s", after.ClaimID, before.Status, after.Status),
			Entity:   domain.EntityClaim,
			EntityID: after.ClaimID,
		})
	}
	return res, nil
}
