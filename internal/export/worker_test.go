package export

import (
	"context"
	"strings"
	"testing"
	"time"

	"claimcore/internal/blob"
	"claimcore/internal/core"
)

func startWorker(t *testing.T, store blob.Store, audit AuditLogger) *Worker {
	t.Helper()
	worker := NewWorker(store, audit)
	worker.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := worker.Stop(ctx); err != nil {
			t.Errorf("stop worker: %v", err)
		}
	})
	return worker
}

func waitForTerminal(t *testing.T, worker *Worker, id string) Record {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		record, ok := worker.Get(id)
		if !ok {
			t.Fatalf("job %s disappeared", id)
		}
		if record.Status == StatusSucceeded || record.Status == StatusFailed {
			return record
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", id)
	return Record{}
}

func TestWorkerRendersAndStoresArtifacts(t *testing.T) {
	store := blob.NewMemory()
	audit := &MemoryAuditLog{}
	worker := startWorker(t, store, audit)

	record, err := worker.Enqueue(context.Background(), Input{
		Views:       []core.TableView{sampleView("claims")},
		Formats:     []Format{FormatCSV, FormatJSON},
		RequestedBy: "ops",
		Reason:      "monthly report",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if record.Status != StatusQueued || len(record.Formats) != 2 {
		t.Fatalf("queued record = %+v", record)
	}

	done := waitForTerminal(t, worker, record.ID)
	if done.Status != StatusSucceeded {
		t.Fatalf("status = %s, error = %s", done.Status, done.Error)
	}
	if len(done.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(done.Artifacts))
	}
	if done.CompletedAt == nil {
		t.Fatalf("completed timestamp missing")
	}

	infos, err := store.List(context.Background(), record.ID+"/")
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("stored blobs = %d, want 2", len(infos))
	}
	for _, info := range infos {
		if info.Metadata["views"] != "claims" {
			t.Fatalf("views metadata = %q", info.Metadata["views"])
		}
		if !strings.Contains(info.Key, record.ID) {
			t.Fatalf("key = %s", info.Key)
		}
	}
}

func TestWorkerAuditTrailSequence(t *testing.T) {
	audit := &MemoryAuditLog{}
	worker := startWorker(t, blob.NewMemory(), audit)

	record, err := worker.Enqueue(context.Background(), Input{
		Views:       []core.TableView{sampleView("claims")},
		RequestedBy: "ops",
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	waitForTerminal(t, worker, record.ID)

	var statuses []Status
	for _, entry := range audit.Entries() {
		if entry.ExportID != record.ID {
			continue
		}
		if entry.Action != "claims_export" || entry.Actor != "ops" {
			t.Fatalf("entry = %+v", entry)
		}
		statuses = append(statuses, entry.Status)
	}
	want := []Status{StatusQueued, StatusRunning, StatusSucceeded}
	if len(statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", statuses, want)
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("statuses = %v, want %v", statuses, want)
		}
	}
}

func TestWorkerDefaultsToCSV(t *testing.T) {
	worker := startWorker(t, blob.NewMemory(), nil)
	record, err := worker.Enqueue(context.Background(), Input{
		Views: []core.TableView{sampleView("claims")},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if len(record.Formats) != 1 || record.Formats[0] != FormatCSV {
		t.Fatalf("formats = %v", record.Formats)
	}
	done := waitForTerminal(t, worker, record.ID)
	if done.Status != StatusSucceeded {
		t.Fatalf("status = %s, error = %s", done.Status, done.Error)
	}
}

func TestWorkerEnqueueValidation(t *testing.T) {
	worker := NewWorker(blob.NewMemory(), nil)

	if _, err := worker.Enqueue(context.Background(), Input{}); err == nil {
		t.Fatalf("empty views should fail")
	}
	if _, err := worker.Enqueue(context.Background(), Input{
		Views: []core.TableView{{Columns: []string{"a"}}},
	}); err == nil {
		t.Fatalf("unnamed view should fail")
	}
	if _, err := worker.Enqueue(context.Background(), Input{
		Views:   []core.TableView{sampleView("claims")},
		Formats: []Format{"xlsx"},
	}); err == nil {
		t.Fatalf("unsupported format should fail")
	}
}

func TestWorkerDeduplicatesFormats(t *testing.T) {
	worker := NewWorker(blob.NewMemory(), nil)
	record, err := worker.Enqueue(context.Background(), Input{
		Views:   []core.TableView{sampleView("claims")},
		Formats: []Format{FormatCSV, FormatCSV, FormatJSON},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if len(record.Formats) != 2 {
		t.Fatalf("formats = %v", record.Formats)
	}
}

func TestWorkerGetUnknownID(t *testing.T) {
	worker := NewWorker(blob.NewMemory(), nil)
	if _, ok := worker.Get("missing"); ok {
		t.Fatalf("unknown id should not resolve")
	}
}
