package core

import (
	"context"
	"time"

	"claimcore/internal/infra/persistence/memory"
	"claimcore/pkg/domain"
)

// Service exposes the validated mutation operations for the record store:
// owner creation and update, claim filing, and status-driven claim
// processing. All reads used by the query and aggregation engines go through
// read-only views.
type Service struct {
	store   PersistentStore
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	nowFn   func() time.Time
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		nowFn: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService creates a service and in-memory store with the given rules engine.
func NewInMemoryService(engine *RulesEngine, opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// OwnerInput carries the caller-settable fields for owner creation.
// Identifier and registration timestamp are assigned by the store.
type OwnerInput struct {
	Name            string
	NationalID      string
	Phone           string
	Email           string
	Address         string
	PlateNumber     string
	VehicleBrand    string
	VehicleModel    string
	PurchaseDate    time.Time
	InsuranceExpiry time.Time
}

// OwnerPatch is a partial owner update; nil fields retain prior values.
// Identifier and registration timestamp are structurally absent and therefore
// immutable.
type OwnerPatch struct {
	Name            *string
	NationalID      *string
	Phone           *string
	Email           *string
	Address         *string
	PlateNumber     *string
	VehicleBrand    *string
	VehicleModel    *string
	PurchaseDate    *time.Time
	InsuranceExpiry *time.Time
}

// ClaimInput carries the caller-settable fields for filing a claim. Status
// and approved amount are forced by the store regardless of caller input.
type ClaimInput struct {
	OwnerID       string
	ClaimType     ClaimType
	AccidentDate  time.Time
	FiledDate     time.Time
	ClaimedAmount float64
	Description   string
	Remarks       string
	Handler       string
}

// ClaimDecision mutates the processing-facing fields of a claim; nil fields
// retain prior values.
type ClaimDecision struct {
	Status         *ClaimStatus
	ApprovedAmount *float64
	Handler        *string
	Remarks        *string
}

// CreateOwner validates and persists a new owner record.
func (s *Service) CreateOwner(ctx context.Context, input OwnerInput) (Owner, Result, error) {
	var created Owner
	var res Result
	err := s.instrument(ctx, "create_owner", EntityOwner, func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			created, txErr = tx.CreateOwner(Owner{
				Name:            input.Name,
				NationalID:      input.NationalID,
				Phone:           input.Phone,
				Email:           input.Email,
				Address:         input.Address,
				PlateNumber:     input.PlateNumber,
				VehicleBrand:    input.VehicleBrand,
				VehicleModel:    input.VehicleModel,
				PurchaseDate:    input.PurchaseDate,
				InsuranceExpiry: input.InsuranceExpiry,
			})
			return txErr
		})
		return created.OwnerID, err
	})
	return created, res, err
}

// UpdateOwner applies a partial update to an existing owner.
func (s *Service) UpdateOwner(ctx context.Context, id string, patch OwnerPatch) (Owner, Result, error) {
	var updated Owner
	var res Result
	err := s.instrument(ctx, "update_owner", EntityOwner, func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateOwner(id, func(o *Owner) error {
				applyOwnerPatch(o, patch)
				return nil
			})
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

func applyOwnerPatch(o *Owner, patch OwnerPatch) {
	if patch.Name != nil {
		o.Name = *patch.Name
	}
	if patch.NationalID != nil {
		o.NationalID = *patch.NationalID
	}
	if patch.Phone != nil {
		o.Phone = *patch.Phone
	}
	if patch.Email != nil {
		o.Email = *patch.Email
	}
	if patch.Address != nil {
		o.Address = *patch.Address
	}
	if patch.PlateNumber != nil {
		o.PlateNumber = *patch.PlateNumber
	}
	if patch.VehicleBrand != nil {
		o.VehicleBrand = *patch.VehicleBrand
	}
	if patch.VehicleModel != nil {
		o.VehicleModel = *patch.VehicleModel
	}
	if patch.PurchaseDate != nil {
		o.PurchaseDate = *patch.PurchaseDate
	}
	if patch.InsuranceExpiry != nil {
		o.InsuranceExpiry = *patch.InsuranceExpiry
	}
}

// CreateClaim validates and persists a new claim. The claim always starts
// pending with a zero approved amount.
func (s *Service) CreateClaim(ctx context.Context, input ClaimInput) (Claim, Result, error) {
	var created Claim
	var res Result
	err := s.instrument(ctx, "create_claim", EntityClaim, func(ctx context.Context) (string, error) {
		now := s.nowFn()
		filed := input.FiledDate
		if filed.IsZero() {
			filed = now
		}
		accident := input.AccidentDate
		if accident.IsZero() {
			accident = filed
		}
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			created, txErr = tx.CreateClaim(Claim{
				OwnerID:       input.OwnerID,
				ClaimType:     input.ClaimType,
				AccidentDate:  accident,
				FiledDate:     filed,
				ClaimedAmount: input.ClaimedAmount,
				Description:   input.Description,
				Remarks:       input.Remarks,
				Handler:       input.Handler,
			})
			return txErr
		})
		return created.ClaimID, err
	})
	return created, res, err
}

// ProcessClaim applies a processing decision to an existing claim. Approved
// amounts may never exceed the claimed amount, and status changes must follow
// the claim workflow; either violation rejects the decision and leaves the
// stored record unchanged.
func (s *Service) ProcessClaim(ctx context.Context, id string, decision ClaimDecision) (Claim, Result, error) {
	var updated Claim
	var res Result
	err := s.instrument(ctx, "process_claim", EntityClaim, func(ctx context.Context) (string, error) {
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var txErr error
			updated, txErr = tx.UpdateClaim(id, func(c *Claim) error {
				return applyClaimDecision(c, decision)
			})
			return txErr
		})
		return id, err
	})
	return updated, res, err
}

func applyClaimDecision(c *Claim, decision ClaimDecision) error {
	if decision.ApprovedAmount != nil {
		amount := *decision.ApprovedAmount
		if amount < 0 {
			return ValidationError{Field: "approved_amount", Message: "must be non-negative"}
		}
		if amount > c.ClaimedAmount {
			return ValidationError{Field: "approved_amount", Message: "exceeds claimed amount"}
		}
		c.ApprovedAmount = amount
	}
	if decision.Status != nil {
		if !domain.CanTransition(c.Status, *decision.Status) {
			return ValidationError{Field: "status", Message: string(c.Status) + " cannot transition to " + string(*decision.Status)}
		}
		c.Status = *decision.Status
	}
	if decision.Handler != nil {
		if !domain.ValidHandler(*decision.Handler) {
			return ValidationError{Field: "handler", Message: "not on the staff roster"}
		}
		c.Handler = *decision.Handler
	}
	if decision.Remarks != nil {
		c.Remarks = *decision.Remarks
	}
	return nil
}

// Owner retrieves a single owner record.
func (s *Service) Owner(id string) (Owner, error) {
	owner, ok := s.store.GetOwner(id)
	if !ok {
		return Owner{}, NotFoundError{Entity: EntityOwner, ID: id}
	}
	return owner, nil
}

// Claim retrieves a single claim record.
func (s *Service) Claim(id string) (Claim, error) {
	claim, ok := s.store.GetClaim(id)
	if !ok {
		return Claim{}, NotFoundError{Entity: EntityClaim, ID: id}
	}
	return claim, nil
}

// Owners returns a read view of all owners in insertion order.
func (s *Service) Owners() []Owner { return s.store.ListOwners() }

// Claims returns a read view of all claims in insertion order.
func (s *Service) Claims() []Claim { return s.store.ListClaims() }

// ClaimsByOwner returns a read view of the owner's claims.
func (s *Service) ClaimsByOwner(ownerID string) []Claim { return s.store.ClaimsByOwner(ownerID) }
