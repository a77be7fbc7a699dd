package progress

import (
	"testing"
	"time"
)

func TestLastTracksUpdates(t *testing.T) {
	pr := NewProgressReporter()

	pr.Update(ScanProgress{Phase: PhaseHashing, FilesHashed: 1})
	pr.Update(ScanProgress{Phase: PhaseComplete, FilesHashed: 2})

	last := pr.Last()
	if last.Phase != PhaseComplete || last.FilesHashed != 2 {
		t.Errorf("Last() = %+v, want complete/2", last)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()

	pr.Update(ScanProgress{Phase: PhaseHashing, FilesHashed: 7})

	select {
	case sp := <-ch:
		if sp.FilesHashed != 7 {
			t.Errorf("FilesHashed = %d, want 7", sp.FilesHashed)
		}
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestUpdateNeverBlocksOnSlowListener(t *testing.T) {
	pr := NewProgressReporter()
	pr.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			pr.Update(ScanProgress{Phase: PhaseHashing, FilesHashed: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Update blocked on an undrained listener")
	}
}

func TestCloseClosesListeners(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()

	pr.Update(ScanProgress{Phase: PhaseComplete})
	pr.Close()

	// Drain the buffered snapshot, then expect a closed channel
	for {
		if _, ok := <-ch; !ok {
			return
		}
	}
}
