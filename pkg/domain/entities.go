// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by claimcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityOwner identifies a vehicle-owner record.
	EntityOwner EntityType = "owner"
	// EntityClaim identifies an insurance-claim record.
	EntityClaim EntityType = "claim"
)

// ClaimType enumerates the incident categories a claim can be filed under.
type ClaimType string

// Canonical claim types from the back-office claim catalogue.
const (
	ClaimTypeCollision       ClaimType = "collision"
	ClaimTypeNaturalDisaster ClaimType = "natural-disaster"
	ClaimTypeTheft           ClaimType = "theft"
	ClaimTypeFire            ClaimType = "fire"
	ClaimTypeFlood           ClaimType = "flood"
	ClaimTypeGlassDamage     ClaimType = "glass-damage"
	ClaimTypeTireDamage      ClaimType = "tire-damage"
	ClaimTypeScratch         ClaimType = "scratch"
)

// ClaimTypes lists every recognised claim type in catalogue order.
func ClaimTypes() []ClaimType {
	return []ClaimType{
		ClaimTypeCollision,
		ClaimTypeNaturalDisaster,
		ClaimTypeTheft,
		ClaimTypeFire,
		ClaimTypeFlood,
		ClaimTypeGlassDamage,
		ClaimTypeTireDamage,
		ClaimTypeScratch,
	}
}

// ValidClaimType reports whether t is one of the recognised claim types.
func ValidClaimType(t ClaimType) bool {
	for _, candidate := range ClaimTypes() {
		if candidate == t {
			return true
		}
	}
	return false
}

// ClaimStatus enumerates claim workflow states.
type ClaimStatus string

// Canonical claim statuses used for workflow and reporting.
const (
	ClaimStatusPending     ClaimStatus = "pending"
	ClaimStatusUnderReview ClaimStatus = "under-review"
	ClaimStatusApproved    ClaimStatus = "approved"
	ClaimStatusRejected    ClaimStatus = "rejected"
	ClaimStatusClosed      ClaimStatus = "closed"
)

// ClaimStatuses lists every workflow state in processing order.
func ClaimStatuses() []ClaimStatus {
	return []ClaimStatus{
		ClaimStatusPending,
		ClaimStatusUnderReview,
		ClaimStatusApproved,
		ClaimStatusRejected,
		ClaimStatusClosed,
	}
}

// claimTransitions is the explicit status workflow. A missing entry means the
// transition is rejected; re-asserting the current status is always allowed.
var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimStatusPending:     {ClaimStatusUnderReview, ClaimStatusRejected},
	ClaimStatusUnderReview: {ClaimStatusApproved, ClaimStatusRejected},
	ClaimStatusApproved:    {ClaimStatusClosed},
	ClaimStatusRejected:    {ClaimStatusClosed},
	ClaimStatusClosed:      nil,
}

// CanTransition reports whether a claim may move from one status to another.
func CanTransition(from, to ClaimStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range claimTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TerminalClaimStatus reports whether the status ends active processing.
// Terminal claims carry a processing duration for reporting purposes.
func TerminalClaimStatus(s ClaimStatus) bool {
	switch s {
	case ClaimStatusApproved, ClaimStatusRejected, ClaimStatusClosed:
		return true
	}
	return false
}

// StaffRoster is the fixed set of handlers claims may be assigned to.
var StaffRoster = []string{
	"A. Wang",
	"B. Li",
	"C. Zhang",
	"D. Zhao",
	"E. Qian",
}

// ValidHandler reports whether name is on the staff roster. The empty string
// is accepted so unassigned claims stay representable.
func ValidHandler(name string) bool {
	if name == "" {
		return true
	}
	for _, staff := range StaffRoster {
		if staff == name {
			return true
		}
	}
	return false
}

// Owner represents one vehicle-owning customer.
type Owner struct {
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	NationalID      string    `json:"national_id"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Address         string    `json:"address"`
	PlateNumber     string    `json:"plate_number"`
	VehicleBrand    string    `json:"vehicle_brand"`
	VehicleModel    string    `json:"vehicle_model"`
	PurchaseDate    time.Time `json:"purchase_date"`
	InsuranceExpiry time.Time `json:"insurance_expiry"`
	RegisteredAt    time.Time `json:"registered_at"`
}

// Claim represents one insurance claim filed against an owner's policy.
type Claim struct {
	ClaimID        string      `json:"claim_id"`
	OwnerID        string      `json:"owner_id"`
	ClaimType      ClaimType   `json:"claim_type"`
	AccidentDate   time.Time   `json:"accident_date"`
	FiledDate      time.Time   `json:"filed_date"`
	ClaimedAmount  float64     `json:"claimed_amount"`
	ApprovedAmount float64     `json:"approved_amount"`
	Status         ClaimStatus `json:"status"`
	Description    string      `json:"description"`
	Remarks        string      `json:"remarks"`
	Handler        string      `json:"handler"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate the supported mutations. The store is
// append/update only; there is deliberately no delete action.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
