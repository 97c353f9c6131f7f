// Package memory provides the canonical in-memory record store. Each session
// owns one Store instance; isolation between sessions is by construction.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"claimcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Owner aliases domain.Owner for in-memory persistence operations.
	Owner = domain.Owner
	// Claim aliases domain.Claim.
	Claim = domain.Claim
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
)

// memoryState holds both collections keyed by identifier plus the insertion
// order of each. No operation reorders or removes entries.
type memoryState struct {
	owners     map[string]Owner
	claims     map[string]Claim
	ownerOrder []string
	claimOrder []string
}

func newMemoryState() memoryState {
	return memoryState{
		owners: make(map[string]Owner),
		claims: make(map[string]Claim),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.owners {
		cloned.owners[k] = v
	}
	for k, v := range s.claims {
		cloned.claims[k] = v
	}
	cloned.ownerOrder = append([]string(nil), s.ownerOrder...)
	cloned.claimOrder = append([]string(nil), s.claimOrder...)
	return cloned
}

// Snapshot captures a point-in-time copy of the store state with insertion
// order preserved. It is the interchange format for durable backends.
type Snapshot struct {
	Owners []Owner `json:"owners"`
	Claims []Claim `json:"claims"`
}

func snapshotFromState(state memoryState) Snapshot {
	s := Snapshot{
		Owners: make([]Owner, 0, len(state.ownerOrder)),
		Claims: make([]Claim, 0, len(state.claimOrder)),
	}
	for _, id := range state.ownerOrder {
		s.Owners = append(s.Owners, state.owners[id])
	}
	for _, id := range state.claimOrder {
		s.Claims = append(s.Claims, state.claims[id])
	}
	return s
}

func stateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for _, owner := range s.Owners {
		if _, exists := state.owners[owner.OwnerID]; exists {
			continue
		}
		state.owners[owner.OwnerID] = owner
		state.ownerOrder = append(state.ownerOrder, owner.OwnerID)
	}
	for _, claim := range s.Claims {
		if _, exists := state.claims[claim.ClaimID]; exists {
			continue
		}
		// Orphaned claims are dropped on import; referential integrity must
		// hold from the very first population.
		if _, ok := state.owners[claim.OwnerID]; !ok {
			continue
		}
		state.claims[claim.ClaimID] = claim
		state.claimOrder = append(state.claimOrder, claim.ClaimID)
	}
	return state
}

// Store provides an in-memory transactional record store for owners and claims.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the store clock; intended for tests and fixtures.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.nowFn = fn
	s.mu.Unlock()
}

func ownerID(seq int) string { return fmt.Sprintf("OW%06d", seq) }
func claimID(seq int) string { return fmt.Sprintf("CL%06d", seq) }

// NextOwnerID returns the identifier the next created owner will receive.
// Deterministic given the current collection size; advances only on create.
func (s *Store) NextOwnerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ownerID(len(s.state.ownerOrder) + 1)
}

// NextClaimID returns the identifier the next created claim will receive.
func (s *Store) NextClaimID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return claimID(len(s.state.claimOrder) + 1)
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	state   memoryState
	changes []Change
	now     time.Time
}

var _ domain.Transaction = (*Transaction)(nil)

// transactionView exposes a read-only snapshot of transactional state.
type transactionView struct {
	state *memoryState
}

var _ domain.TransactionView = transactionView{}

// ListOwners returns all owners in insertion order.
func (v transactionView) ListOwners() []Owner {
	out := make([]Owner, 0, len(v.state.ownerOrder))
	for _, id := range v.state.ownerOrder {
		out = append(out, v.state.owners[id])
	}
	return out
}

// ListClaims returns all claims in insertion order.
func (v transactionView) ListClaims() []Claim {
	out := make([]Claim, 0, len(v.state.claimOrder))
	for _, id := range v.state.claimOrder {
		out = append(out, v.state.claims[id])
	}
	return out
}

// ClaimsByOwner returns the owner's claims in insertion order.
func (v transactionView) ClaimsByOwner(ownerID string) []Claim {
	var out []Claim
	for _, id := range v.state.claimOrder {
		if claim := v.state.claims[id]; claim.OwnerID == ownerID {
			out = append(out, claim)
		}
	}
	return out
}

// FindOwner retrieves an owner by ID from the snapshot.
func (v transactionView) FindOwner(id string) (Owner, bool) {
	o, ok := v.state.owners[id]
	return o, ok
}

// FindClaim retrieves a claim by ID from the snapshot.
func (v transactionView) FindClaim(id string) (Claim, bool) {
	c, ok := v.state.claims[id]
	return c, ok
}

// RunInTransaction executes fn within a transactional copy of the store
// state. The rules engine evaluates the resulting state plus the recorded
// change set; blocking violations abort the commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := transactionView{state: &tx.state}
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(ctx context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(transactionView{state: &snapshot})
}

// Snapshot returns a read-only view of the transactional state.
func (tx *Transaction) Snapshot() domain.TransactionView {
	return transactionView{state: &tx.state}
}

// FindOwner retrieves an owner by ID within the transaction.
func (tx *Transaction) FindOwner(id string) (Owner, bool) {
	o, ok := tx.state.owners[id]
	return o, ok
}

// FindClaim retrieves a claim by ID within the transaction.
func (tx *Transaction) FindClaim(id string) (Claim, bool) {
	c, ok := tx.state.claims[id]
	return c, ok
}

func (tx *Transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// CreateOwner validates and stores a new owner, assigning the next sequential
// identifier. OwnerID supplied by the caller is ignored.
func (tx *Transaction) CreateOwner(o Owner) (Owner, error) {
	if strings.TrimSpace(o.Name) == "" {
		return Owner{}, domain.ValidationError{Field: "name", Message: "required"}
	}
	if strings.TrimSpace(o.NationalID) == "" {
		return Owner{}, domain.ValidationError{Field: "national_id", Message: "required"}
	}
	if strings.TrimSpace(o.Phone) == "" {
		return Owner{}, domain.ValidationError{Field: "phone", Message: "required"}
	}
	o.OwnerID = ownerID(len(tx.state.ownerOrder) + 1)
	o.RegisteredAt = tx.now
	tx.state.owners[o.OwnerID] = o
	tx.state.ownerOrder = append(tx.state.ownerOrder, o.OwnerID)
	tx.recordChange(Change{Entity: domain.EntityOwner, Action: domain.ActionCreate, After: o})
	return o, nil
}

// UpdateOwner mutates an owner using the provided mutator. OwnerID and
// RegisteredAt are immutable and re-asserted after the mutator runs.
func (tx *Transaction) UpdateOwner(id string, mutator func(*Owner) error) (Owner, error) {
	current, ok := tx.state.owners[id]
	if !ok {
		return Owner{}, domain.NotFoundError{Entity: domain.EntityOwner, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Owner{}, err
	}
	current.OwnerID = id
	current.RegisteredAt = before.RegisteredAt
	tx.state.owners[id] = current
	tx.recordChange(Change{Entity: domain.EntityOwner, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// CreateClaim validates and stores a new claim. Claims always start pending
// with a zero approved amount regardless of caller input.
func (tx *Transaction) CreateClaim(c Claim) (Claim, error) {
	if _, ok := tx.state.owners[c.OwnerID]; !ok {
		return Claim{}, domain.ReferentialError{
			Entity:  domain.EntityClaim,
			ID:      c.ClaimID,
			RefType: domain.EntityOwner,
			RefID:   c.OwnerID,
		}
	}
	if !domain.ValidClaimType(c.ClaimType) {
		return Claim{}, domain.ValidationError{Field: "claim_type", Message: fmt.Sprintf("unknown claim type %q", c.ClaimType)}
	}
	if strings.TrimSpace(c.Description) == "" {
		return Claim{}, domain.ValidationError{Field: "description", Message: "required"}
	}
	if c.ClaimedAmount < 0 {
		return Claim{}, domain.ValidationError{Field: "claimed_amount", Message: "must be non-negative"}
	}
	if !domain.ValidHandler(c.Handler) {
		return Claim{}, domain.ValidationError{Field: "handler", Message: fmt.Sprintf("%q is not on the staff roster", c.Handler)}
	}
	c.ClaimID = claimID(len(tx.state.claimOrder) + 1)
	c.Status = domain.ClaimStatusPending
	c.ApprovedAmount = 0
	c.CreatedAt = tx.now
	c.UpdatedAt = tx.now
	tx.state.claims[c.ClaimID] = c
	tx.state.claimOrder = append(tx.state.claimOrder, c.ClaimID)
	tx.recordChange(Change{Entity: domain.EntityClaim, Action: domain.ActionCreate, After: c})
	return c, nil
}

// UpdateClaim mutates a claim using the provided mutator. Identity, owner
// reference, and creation bookkeeping are immutable; UpdatedAt is refreshed.
func (tx *Transaction) UpdateClaim(id string, mutator func(*Claim) error) (Claim, error) {
	current, ok := tx.state.claims[id]
	if !ok {
		return Claim{}, domain.NotFoundError{Entity: domain.EntityClaim, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Claim{}, err
	}
	current.ClaimID = id
	current.OwnerID = before.OwnerID
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.claims[id] = current
	tx.recordChange(Change{Entity: domain.EntityClaim, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// Read helpers ---------------------------------------------------------------

// GetOwner retrieves an owner by ID from committed state.
func (s *Store) GetOwner(id string) (Owner, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.state.owners[id]
	return o, ok
}

// GetClaim retrieves a claim by ID from committed state.
func (s *Store) GetClaim(id string) (Claim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.claims[id]
	return c, ok
}

// ListOwners returns all owners from committed state in insertion order.
func (s *Store) ListOwners() []Owner {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Owner, 0, len(s.state.ownerOrder))
	for _, id := range s.state.ownerOrder {
		out = append(out, s.state.owners[id])
	}
	return out
}

// ListClaims returns all claims from committed state in insertion order.
func (s *Store) ListClaims() []Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Claim, 0, len(s.state.claimOrder))
	for _, id := range s.state.claimOrder {
		out = append(out, s.state.claims[id])
	}
	return out
}

// ClaimsByOwner returns the owner's committed claims in insertion order.
func (s *Store) ClaimsByOwner(ownerID string) []Claim {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Claim
	for _, id := range s.state.claimOrder {
		if claim := s.state.claims[id]; claim.OwnerID == ownerID {
			out = append(out, claim)
		}
	}
	return out
}

// ExportState returns a snapshot of all committed records.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromState(s.state)
}

// ImportState replaces committed state with the supplied snapshot. Used by
// durable wrappers on startup and by explicit session reset.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateFromSnapshot(snapshot)
}
