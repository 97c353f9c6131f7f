// Package fixture populates a claim service with synthetic but schema-valid
// sample data. Generation is seeded so test runs are reproducible; every
// claim references a generated owner and every non-pending status is reached
// through the regular processing workflow.
package fixture

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"claimcore/internal/core"
	"claimcore/pkg/domain"
)

// Config controls the size and determinism of the generated data set.
type Config struct {
	Owners int   // default 50
	Claims int   // default 120
	Seed   int64 // default 1
}

// Summary reports what was generated.
type Summary struct {
	Owners    int
	Claims    int
	Processed int
}

var (
	givenNames = []string{"Wei", "Fang", "Min", "Jun", "Li", "Na", "Lei", "Yan", "Tao", "Jing"}
	surnames   = []string{"Zhang", "Wang", "Li", "Zhao", "Chen", "Liu", "Yang", "Huang", "Wu", "Zhou"}
	brands     = []string{"Mercedes", "BMW", "Audi", "Volkswagen", "Toyota", "Honda", "Nissan", "Hyundai", "Kia", "Ford"}
	models     = []string{"Sedan L", "Sedan S", "SUV X", "SUV C", "Hatch R", "Coupe G", "Wagon T", "Crossover V"}
	cities     = []string{"Beijing", "Shanghai", "Guangzhou", "Shenzhen", "Hangzhou", "Nanjing", "Chengdu", "Wuhan"}
	streets    = []string{"Zhongshan", "Jianguo", "Changan", "Minzu", "Heping"}
	regions    = []string{"B", "S", "G", "Z", "N"}
)

// Seed populates the service with cfg.Owners owners and cfg.Claims claims and
// walks a deterministic subset of claims through the processing workflow.
func Seed(ctx context.Context, svc *core.Service, cfg Config) (Summary, error) {
	if cfg.Owners <= 0 {
		cfg.Owners = 50
	}
	if cfg.Claims <= 0 {
		cfg.Claims = 120
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	now := time.Now().UTC()

	var summary Summary
	ownerIDs := make([]string, 0, cfg.Owners)
	for i := 0; i < cfg.Owners; i++ {
		owner, _, err := svc.CreateOwner(ctx, ownerInput(rng, now))
		if err != nil {
			return summary, fmt.Errorf("seed owner %d: %w", i, err)
		}
		ownerIDs = append(ownerIDs, owner.OwnerID)
		summary.Owners++
	}

	for i := 0; i < cfg.Claims; i++ {
		input := claimInput(rng, now, ownerIDs)
		claim, _, err := svc.CreateClaim(ctx, input)
		if err != nil {
			return summary, fmt.Errorf("seed claim %d: %w", i, err)
		}
		summary.Claims++

		processed, err := advance(ctx, svc, rng, claim)
		if err != nil {
			return summary, fmt.Errorf("process claim %s: %w", claim.ClaimID, err)
		}
		if processed {
			summary.Processed++
		}
	}
	return summary, nil
}

func ownerInput(rng *rand.Rand, now time.Time) core.OwnerInput {
	name := surnames[rng.Intn(len(surnames))] + " " + givenNames[rng.Intn(len(givenNames))]
	city := cities[rng.Intn(len(cities))]
	return core.OwnerInput{
		Name:            name,
		NationalID:      fmt.Sprintf("%06d%04d%02d%02d%04d", 110000+rng.Intn(889999), 1950+rng.Intn(56), 1+rng.Intn(12), 1+rng.Intn(28), 1000+rng.Intn(9000)),
		Phone:           fmt.Sprintf("1%d%d%08d", 3+rng.Intn(7), rng.Intn(10), rng.Intn(100000000)),
		Email:           fmt.Sprintf("%s%d@example.com", surnames[rng.Intn(len(surnames))], rng.Intn(1000)),
		Address:         fmt.Sprintf("%s, %s Road %d", city, streets[rng.Intn(len(streets))], 1+rng.Intn(999)),
		PlateNumber:     fmt.Sprintf("%s%c%05d", regions[rng.Intn(len(regions))], 'A'+rune(rng.Intn(26)), 10000+rng.Intn(90000)),
		VehicleBrand:    brands[rng.Intn(len(brands))],
		VehicleModel:    models[rng.Intn(len(models))],
		PurchaseDate:    now.AddDate(0, 0, -(30 + rng.Intn(1795))),
		InsuranceExpiry: now.AddDate(0, 0, 30+rng.Intn(335)),
	}
}

func claimInput(rng *rand.Rand, now time.Time, ownerIDs []string) core.ClaimInput {
	claimType := domain.ClaimTypes()[rng.Intn(len(domain.ClaimTypes()))]
	filed := now.AddDate(0, 0, -(1 + rng.Intn(89)))
	accident := filed.AddDate(0, 0, -rng.Intn(30))
	city := cities[rng.Intn(len(cities))]
	return core.ClaimInput{
		OwnerID:       ownerIDs[rng.Intn(len(ownerIDs))],
		ClaimType:     claimType,
		AccidentDate:  accident,
		FiledDate:     filed,
		ClaimedAmount: float64(500 + rng.Intn(49500)),
		Description:   fmt.Sprintf("%s incident near %s with vehicle damage", claimType, city),
		Handler:       domain.StaffRoster[rng.Intn(len(domain.StaffRoster))],
	}
}

// advance walks a claim from pending toward a randomly chosen target status
// using only legal transitions. Roughly a quarter of claims stay pending.
func advance(ctx context.Context, svc *core.Service, rng *rand.Rand, claim core.Claim) (bool, error) {
	var path []pathStep
	switch rng.Intn(5) {
	case 0: // stays pending
		return false, nil
	case 1:
		path = []pathStep{{status: domain.ClaimStatusUnderReview}}
	case 2:
		approved := claim.ClaimedAmount * (0.5 + rng.Float64()*0.5)
		path = []pathStep{
			{status: domain.ClaimStatusUnderReview},
			{status: domain.ClaimStatusApproved, amount: &approved},
		}
	case 3:
		path = []pathStep{
			{status: domain.ClaimStatusUnderReview},
			{status: domain.ClaimStatusRejected, remarks: "insufficient documentation"},
		}
	default:
		approved := claim.ClaimedAmount * (0.5 + rng.Float64()*0.5)
		path = []pathStep{
			{status: domain.ClaimStatusUnderReview},
			{status: domain.ClaimStatusApproved, amount: &approved},
			{status: domain.ClaimStatusClosed, remarks: "payout settled"},
		}
	}
	for _, step := range path {
		status := step.status
		decision := core.ClaimDecision{Status: &status, ApprovedAmount: step.amount}
		if step.remarks != "" {
			remarks := step.remarks
			decision.Remarks = &remarks
		}
		if _, _, err := svc.ProcessClaim(ctx, claim.ClaimID, decision); err != nil {
			return false, err
		}
	}
	return true, nil
}

type pathStep struct {
	status  domain.ClaimStatus
	amount  *float64
	remarks string
}
