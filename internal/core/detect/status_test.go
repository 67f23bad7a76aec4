package detect

import (
	"fmt"
	"testing"
	"time"
)

func TestStatusHistoryBounded(t *testing.T) {
	s := newStatusStore(20)
	s.reset(time.Now())

	for i := 0; i < 25; i++ {
		s.push(&Detection{ID: fmt.Sprintf("d%d", i), Category: CategoryGarbage})
	}

	snap := s.snapshot()
	if len(snap.History) != 20 {
		t.Fatalf("history len = %d, want 20", len(snap.History))
	}
	// 最新在前
	if snap.History[0].ID != "d24" || snap.History[19].ID != "d5" {
		t.Errorf("history order wrong: head=%s tail=%s", snap.History[0].ID, snap.History[19].ID)
	}
	if snap.Last.ID != "d24" {
		t.Errorf("last = %s, want d24", snap.Last.ID)
	}
	if snap.TotalBags != 25 {
		t.Errorf("total = %d, want 25", snap.TotalBags)
	}
}

func TestStatusResetClearsHistory(t *testing.T) {
	s := newStatusStore(20)
	s.reset(time.Now())
	s.push(&Detection{ID: "a"})
	s.setLastError("boom")

	s.reset(time.Now())
	snap := s.snapshot()
	if len(snap.History) != 0 || snap.Last != nil || snap.LastError != "" || snap.TotalBags != 0 {
		t.Errorf("reset did not clear state: %+v", snap)
	}
	if !snap.Running || snap.StartedAt == nil {
		t.Error("reset should mark running with a start time")
	}
}

func TestStatusErrorRecordSetsLastError(t *testing.T) {
	s := newStatusStore(20)
	s.reset(time.Now())
	s.push(errorDetection(fmt.Errorf("disk full")))

	snap := s.snapshot()
	if snap.LastError != "disk full" {
		t.Errorf("lastError = %q, want disk full", snap.LastError)
	}
	if snap.Last.Category != CategoryError || snap.Last.Confidence != 0 {
		t.Errorf("error record malformed: %+v", snap.Last)
	}
}

func TestStatusSnapshotIsolated(t *testing.T) {
	s := newStatusStore(20)
	s.reset(time.Now())
	s.push(&Detection{ID: "a"})

	snap := s.snapshot()
	s.push(&Detection{ID: "b"})
	if len(snap.History) != 1 {
		t.Error("snapshot should not observe later pushes")
	}
}
