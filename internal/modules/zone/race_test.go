// README: Concurrency tests for assignment mutations and snapshot reads (run with -race).
package zone

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"commute/internal/types"
)

func TestConcurrentRequestsSingleDriver(t *testing.T) {
	mgr, _ := testManager(t)

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan Assignment, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := mgr.Request("d1", "z-downtown")
			if err != nil {
				t.Errorf("Request: %v", err)
				return
			}
			results <- a
		}()
	}
	wg.Wait()
	close(results)

	ids := map[types.ID]bool{}
	for a := range results {
		ids[a.ID] = true
	}
	if len(ids) != 1 {
		t.Errorf("concurrent requests produced %d distinct assignments, want 1", len(ids))
	}
}

func TestConcurrentConfirmVsRelease(t *testing.T) {
	mgr, mon := testManager(t)

	if _, err := mgr.Request("d1", "z-downtown"); err != nil {
		t.Fatalf("Request: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = mgr.Confirm("d1")
	}()
	go func() {
		defer wg.Done()
		_ = mgr.Release("d1", "race")
	}()
	wg.Wait()

	// Whichever order won, the count and classification must agree.
	snap, err := mon.Get("z-downtown")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	list, err := mgr.ListActive("z-downtown")
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if snap.CurrentDrivers != len(list) {
		t.Errorf("snapshot says %d active, list says %d", snap.CurrentDrivers, len(list))
	}
}

func TestConcurrentDriversAcrossZones(t *testing.T) {
	mgr, mon := testManager(t)
	inc := NewIncentive(mon, DefaultIncentives())

	zones := []types.ID{"z-downtown", "z-station", "z-airport"}
	const driversPerZone = 20

	var wg sync.WaitGroup
	for zi, zoneID := range zones {
		for d := 0; d < driversPerZone; d++ {
			wg.Add(1)
			go func(zoneID types.ID, zi, d int) {
				defer wg.Done()
				driver := types.ID(fmt.Sprintf("d-%d-%d", zi, d))
				if _, err := mgr.Request(driver, zoneID); err != nil {
					t.Errorf("Request(%s): %v", driver, err)
					return
				}
				if _, err := mgr.Confirm(driver); err != nil {
					t.Errorf("Confirm(%s): %v", driver, err)
					return
				}
				if d%2 == 0 {
					if err := mgr.Release(driver, "shift_end"); err != nil {
						t.Errorf("Release(%s): %v", driver, err)
					}
				}
			}(zoneID, zi, d)
		}
	}

	// Concurrent snapshot readers must never block or tear.
	stop := make(chan struct{})
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, zoneID := range zones {
					snap, err := mon.Get(zoneID)
					if err != nil {
						t.Errorf("Get(%s): %v", zoneID, err)
						return
					}
					if snap.Level < 0 || snap.Level > 1 {
						t.Errorf("Level out of bounds: %f", snap.Level)
						return
					}
					if b := inc.BonusMultiplierFor(zoneID); b < 1.0 {
						t.Errorf("bonus below 1: %f", b)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(stop)
	readers.Wait()

	// Half of each zone's drivers released; counts must match exactly.
	for _, zoneID := range zones {
		snap, err := mon.Get(zoneID)
		if err != nil {
			t.Fatalf("Get(%s): %v", zoneID, err)
		}
		if snap.CurrentDrivers != driversPerZone/2 {
			t.Errorf("%s: CurrentDrivers = %d, want %d", zoneID, snap.CurrentDrivers, driversPerZone/2)
		}
		list, err := mgr.ListActive(zoneID)
		if err != nil {
			t.Fatalf("ListActive(%s): %v", zoneID, err)
		}
		if len(list) != snap.CurrentDrivers {
			t.Errorf("%s: list %d != snapshot %d", zoneID, len(list), snap.CurrentDrivers)
		}
	}
}

func TestSnapshotReadsDoNotBlockWriters(t *testing.T) {
	mgr, mon := testManager(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			driver := types.ID(fmt.Sprintf("d-%d", i))
			if _, err := mgr.Request(driver, "z-downtown"); err != nil {
				t.Errorf("Request: %v", err)
				return
			}
			if _, err := mgr.Confirm(driver); err != nil {
				t.Errorf("Confirm: %v", err)
				return
			}
			if err := mgr.Release(driver, "done"); err != nil {
				t.Errorf("Release: %v", err)
				return
			}
		}
	}()

	deadline := time.After(10 * time.Second)
	for {
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("writer starved by snapshot readers")
		default:
			if _, err := mon.Get("z-downtown"); err != nil {
				t.Fatalf("Get: %v", err)
			}
		}
	}
}
