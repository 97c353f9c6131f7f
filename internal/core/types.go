package core

import "claimcore/pkg/domain"

type (
	EntityType         = domain.EntityType
	ClaimType          = domain.ClaimType
	ClaimStatus        = domain.ClaimStatus
	Severity           = domain.Severity
	Owner              = domain.Owner
	Claim              = domain.Claim
	Change             = domain.Change
	Action             = domain.Action
	Violation          = domain.Violation
	Result             = domain.Result
	RulesEngine        = domain.RulesEngine
	RuleViolationError = domain.RuleViolationError
	ValidationError    = domain.ValidationError
	NotFoundError      = domain.NotFoundError
	ReferentialError   = domain.ReferentialError
	PersistentStore    = domain.PersistentStore
	Transaction        = domain.Transaction
	TransactionView    = domain.TransactionView
)

const (
	EntityOwner = domain.EntityOwner
	EntityClaim = domain.EntityClaim
)

const (
	ClaimStatusPending     = domain.ClaimStatusPending
	ClaimStatusUnderReview = domain.ClaimStatusUnderReview
	ClaimStatusApproved    = domain.ClaimStatusApproved
	ClaimStatusRejected    = domain.ClaimStatusRejected
	ClaimStatusClosed      = domain.ClaimStatusClosed
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
)
