package core

import "claimcore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewClaimReferenceRule())
	engine.Register(NewAmountConsistencyRule())
	engine.Register(NewStatusTransitionRule())
	return engine
}
