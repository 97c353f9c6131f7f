package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"claimcore/internal/blob"
	"claimcore/internal/core"
	"claimcore/internal/export"
	"claimcore/internal/fixture"
)

func main() {
	var (
		ownerCount   = flag.Int("owners", 50, "number of sample owners to seed")
		claimCount   = flag.Int("claims", 120, "number of sample claims to seed")
		seed         = flag.Int64("seed", 1, "seed for the sample-data generator")
		skipSeed     = flag.Bool("skip-seed", false, "skip seeding sample data")
		exportFormat = flag.String("export", "", "export views after reporting: csv|workbook|json")
	)
	flag.Parse()

	engine := core.NewDefaultRulesEngine()
	store, err := core.OpenPersistentStore(engine)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	svc := core.NewService(store,
		core.WithMetricsRecorder(core.NewExpvarMetricsRecorder("claimcore_cli")),
		core.WithAuditRecorder(core.NewMemoryAuditLog()),
	)

	ctx := context.Background()

	if !*skipSeed {
		start := time.Now()
		summary, err := fixture.Seed(ctx, svc, fixture.Config{
			Owners: *ownerCount,
			Claims: *claimCount,
			Seed:   *seed,
		})
		if err != nil {
			log.Fatalf("failed to seed sample data: %v", err)
		}
		log.Printf("seeded %d owners, %d claims (%d processed) in %s",
			summary.Owners, summary.Claims, summary.Processed, time.Since(start))
	} else {
		log.Printf("skip-seed enabled; reusing existing data")
	}

	owners := svc.Owners()
	claims := svc.Claims()
	printDashboard(owners, claims)

	if *exportFormat != "" {
		if err := runExport(ctx, export.Format(*exportFormat), owners, claims); err != nil {
			log.Fatalf("export failed: %v", err)
		}
	}
}

func printDashboard(owners []core.Owner, claims []core.Claim) {
	totals := core.ClaimTotals(claims)
	fmt.Printf("owners: %d  claims: %d  claimed: %.2f  approved: %.2f  mean: %.2f  max: %.2f\n",
		len(owners), totals.Count, totals.ClaimedSum, totals.ApprovedSum, totals.ClaimedMean, totals.ClaimedMax)

	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "claim type\tcount\tclaimed sum\tmean\tapproval rate")
	for _, s := range core.StatsByType(claims) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.1f%%\n", s.Group, s.Count, s.ClaimedSum, s.ClaimedMean, s.ApprovalRate)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "vehicle brand\tcount\tclaimed sum\tmean\tapproval rate")
	for _, s := range core.StatsByBrand(claims, owners) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.1f%%\n", s.Group, s.Count, s.ClaimedSum, s.ClaimedMean, s.ApprovalRate)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "month\tcount\tclaimed sum")
	for _, p := range core.MonthlyTrend(claims) {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\n", p.Bucket, p.Count, p.ClaimedSum)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "amount band\tcount")
	for _, b := range core.AmountHistogram(claims) {
		fmt.Fprintf(tw, "%s\t%d\n", b.Label, b.Count)
	}
	tw.Flush()
}

func runExport(ctx context.Context, format export.Format, owners []core.Owner, claims []core.Claim) error {
	store, err := blob.Open(ctx)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}
	worker := export.NewWorker(store, &export.MemoryAuditLog{})
	worker.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = worker.Stop(stopCtx)
	}()

	views := []core.TableView{
		core.OwnersView(owners),
		core.ClaimsView(claims),
		core.GroupStatsView("stats_by_type", "claim_type", core.StatsByType(claims)),
		core.GroupStatsView("stats_by_brand", "vehicle_brand", core.StatsByBrand(claims, owners)),
		core.TrendView("monthly_trend", core.MonthlyTrend(claims)),
		core.HistogramView(core.AmountHistogram(claims)),
		core.ProcessingView(core.ProcessingDaysByType(claims)),
	}
	record, err := worker.Enqueue(ctx, export.Input{
		Views:       views,
		Formats:     []export.Format{format},
		RequestedBy: "cli",
	})
	if err != nil {
		return err
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		current, ok := worker.Get(record.ID)
		if !ok {
			return fmt.Errorf("export record %s vanished", record.ID)
		}
		switch current.Status {
		case export.StatusSucceeded:
			for _, artifact := range current.Artifacts {
				log.Printf("exported %s (%s, %d bytes)", artifact.Filename, artifact.ContentType, artifact.SizeBytes)
			}
			return nil
		case export.StatusFailed:
			return fmt.Errorf("export failed: %s", current.Error)
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("export %s timed out", record.ID)
}
