package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Records are append/update only.
type Transaction interface {
	Snapshot() TransactionView
	CreateOwner(Owner) (Owner, error)
	UpdateOwner(id string, mutator func(*Owner) error) (Owner, error)
	CreateClaim(Claim) (Claim, error)
	UpdateClaim(id string, mutator func(*Claim) error) (Claim, error)
	FindOwner(id string) (Owner, bool)
	FindClaim(id string) (Claim, bool)
}

// TransactionView provides read-only access to snapshot data for rules and
// queries. Listings preserve insertion order.
type TransactionView interface {
	ListOwners() []Owner
	ListClaims() []Claim
	ClaimsByOwner(ownerID string) []Claim
	FindOwner(id string) (Owner, bool)
	FindClaim(id string) (Claim, bool)
}

// PersistentStore is a minimal abstraction over record-store backends. It
// mirrors the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetOwner(id string) (Owner, bool)
	GetClaim(id string) (Claim, bool)
	ListOwners() []Owner
	ListClaims() []Claim
	ClaimsByOwner(ownerID string) []Claim
	NextOwnerID() string
	NextClaimID() string
}
