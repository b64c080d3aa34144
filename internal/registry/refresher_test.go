package registry

import (
	"testing"
	"time"
)

func TestRefresherReloads(t *testing.T) {
	src := populatedSource()
	reg := New(src, testLogger())

	f := NewRefresher(reg, testLogger(), 10*time.Millisecond)
	f.Start()
	defer f.Stop()

	deadline := time.After(2 * time.Second)
	for !reg.Ready() {
		select {
		case <-deadline:
			t.Fatal("registry never became ready")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRefresherStopIsIdempotentAfterStart(t *testing.T) {
	reg := New(populatedSource(), testLogger())
	f := NewRefresher(reg, testLogger(), time.Hour)

	f.Start()
	f.Stop()
}
