package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCandidatePendingIn(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 23, 30, 0, 0, time.FixedZone("x", 3600))
	id, slot, other := 9, 2, 3

	tests := []struct {
		name string
		c    Candidate
		b    Bucket
		want bool
	}{
		{name: "not pending", c: Candidate{SongID: 1}, b: NewBucket(day, slot)},
		{name: "same bucket", c: Candidate{PendingScheduleID: &id, PendingPlayDate: &late, PendingPlayTimeID: &slot}, b: NewBucket(day, slot), want: true},
		{name: "other play time", c: Candidate{PendingScheduleID: &id, PendingPlayDate: &day, PendingPlayTimeID: &other}, b: NewBucket(day, slot)},
		{name: "other date", c: Candidate{PendingScheduleID: &id, PendingPlayDate: &day, PendingPlayTimeID: &slot}, b: NewBucket(day.AddDate(0, 0, 1), slot)},
		{name: "no play time", c: Candidate{PendingScheduleID: &id, PendingPlayDate: &day}, b: NewBucket(day, slot)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.PendingIn(tt.b))
		})
	}
}
