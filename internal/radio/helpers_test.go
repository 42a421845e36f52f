package radio

import (
	"testing"
	"time"
)

// Saturday; the ISO week started Monday 2024-05-27.
var testNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeStore, *recordingNotifier) {
	t.Helper()
	store := newFakeStore()
	rec := &recordingNotifier{}
	svc := NewService(store, WithNotifier(rec), WithClock(func() time.Time { return testNow }))
	return svc, store, rec
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }
