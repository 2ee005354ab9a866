package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-snake/internal/game"
)

func TestRegisterDuplicate(t *testing.T) {
	r := New()
	if err := r.Register("a", "ann", "local"); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := r.Register("a", "bob", "ssh"); err == nil {
		t.Error("duplicate ID must be rejected")
	}
}

func TestPublishAndGet(t *testing.T) {
	r := New()
	if err := r.Register("a", "ann", "local"); err != nil {
		t.Fatal(err)
	}
	r.Publish("a", game.Snapshot{Score: 3, Tick: 10})
	r.Publish("missing", game.Snapshot{Score: 99})

	info, ok := r.Get("a")
	if !ok {
		t.Fatal("Get() did not find the session")
	}
	if info.Snapshot.Score != 3 || info.Player != "ann" || info.Origin != "local" {
		t.Errorf("info = %+v", info)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("publishing must not create sessions")
	}
}

func TestListOrder(t *testing.T) {
	r := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	r.now = func() time.Time { return clock }

	for i, id := range []string{"c", "a", "b"} {
		clock = base.Add(time.Duration(i) * time.Second)
		if err := r.Register(id, id, "ssh"); err != nil {
			t.Fatal(err)
		}
	}

	list := r.List()
	if len(list) != 3 || list[0].ID != "c" || list[1].ID != "a" || list[2].ID != "b" {
		t.Errorf("List() order = %v", list)
	}
	r.Unregister("a")
	if r.Len() != 2 {
		t.Errorf("Len() = %d after Unregister, expected 2", r.Len())
	}
}

func TestSubscribeReceivesLatest(t *testing.T) {
	r := New()
	if err := r.Register("a", "ann", "local"); err != nil {
		t.Fatal(err)
	}
	r.Publish("a", game.Snapshot{Tick: 1})

	updates, cancel, err := r.Subscribe("a")
	if err != nil {
		t.Fatalf("Subscribe() failed: %v", err)
	}
	defer cancel()

	if snap := <-updates; snap.Tick != 1 {
		t.Errorf("first snapshot tick = %d, expected 1", snap.Tick)
	}

	// Nobody reads while these are published; only the newest survives.
	for tick := uint64(2); tick <= 5; tick++ {
		r.Publish("a", game.Snapshot{Tick: tick})
	}
	if snap := <-updates; snap.Tick != 5 {
		t.Errorf("snapshot tick = %d, expected 5", snap.Tick)
	}
}

func TestUnregisterClosesSubscribers(t *testing.T) {
	r := New()
	if err := r.Register("a", "ann", "local"); err != nil {
		t.Fatal(err)
	}
	updates, cancel, err := r.Subscribe("a")
	if err != nil {
		t.Fatal(err)
	}
	<-updates

	r.Unregister("a")
	if _, ok := <-updates; ok {
		t.Error("channel must be closed after Unregister")
	}
	cancel() // must not panic after the session is gone
}

func TestSubscribeUnknown(t *testing.T) {
	if _, _, err := New().Subscribe("nope"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestConcurrentPublish(t *testing.T) {
	r := New()
	if err := r.Register("a", "ann", "local"); err != nil {
		t.Fatal(err)
	}
	updates, cancel, err := r.Subscribe("a")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				r.Publish("a", game.Snapshot{Tick: uint64(i*100 + j)})
				r.List()
			}
		}()
	}
	go func() {
		for range updates {
		}
	}()
	wg.Wait()
	cancel()
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
