package radio

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

func TestSubmitValidation(t *testing.T) {
	svc, store, _ := newTestService(t)
	u := store.addUser("alice")

	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{name: "blank title", req: SubmitRequest{RequesterID: u.ID, Title: "   ", Artist: "Band"}},
		{name: "blank artist", req: SubmitRequest{RequesterID: u.ID, Title: "Song"}},
		{name: "title too long", req: SubmitRequest{RequesterID: u.ID, Title: strings.Repeat("a", 201), Artist: "Band"}},
		{name: "unknown platform", req: SubmitRequest{RequesterID: u.ID, Title: "Song", Artist: "Band", Platform: strPtr("spotify")}},
		{name: "music id without platform", req: SubmitRequest{RequesterID: u.ID, Title: "Song", Artist: "Band", MusicID: strPtr("123")}},
		{name: "play time selection disabled", req: SubmitRequest{RequesterID: u.ID, Title: "Song", Artist: "Band", PreferredPlayTimeID: intPtr(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.req)
			assert.True(t, IsKind(err, KindValidation), "got %v", err)
		})
	}
}

func TestSubmitCreatesPendingSong(t *testing.T) {
	svc, store, rec := newTestService(t)
	u := store.addUser("alice")
	store.st.semester = &model.Semester{ID: 1, Name: "2024 Spring", IsActive: true}

	song, err := svc.Submit(context.Background(), SubmitRequest{
		RequesterID: u.ID,
		Title:       "  Yellow ",
		Artist:      "Coldplay",
		Platform:    strPtr("NetEase"),
		MusicID:     strPtr("1234"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Yellow", song.Title)
	assert.False(t, song.Played)
	assert.Nil(t, song.PlayedAt)
	require.NotNil(t, song.MusicPlatform)
	assert.Equal(t, "netease", *song.MusicPlatform)
	require.NotNil(t, song.Semester)
	assert.Equal(t, "2024 Spring", *song.Semester)
	assert.Equal(t, testNow, song.CreatedAt)

	events := rec.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventSongSubmitted, events[0].Type)
	assert.Equal(t, song.ID, events[0].SongID)
	assert.Equal(t, u.ID, events[0].RequesterID)
}

func TestSubmitPreferredPlayTime(t *testing.T) {
	svc, store, _ := newTestService(t)
	s := model.DefaultSystemSettings()
	s.EnablePlayTimeSelection = true
	store.setSettings(s)
	u := store.addUser("alice")
	morning := store.addPlayTime("morning", true)
	off := store.addPlayTime("off air", false)
	ctx := context.Background()

	song, err := svc.Submit(ctx, SubmitRequest{RequesterID: u.ID, Title: "Song", Artist: "Band", PreferredPlayTimeID: &morning.ID})
	require.NoError(t, err)
	assert.Equal(t, morning.ID, *song.PreferredPlayTimeID)

	_, err = svc.Submit(ctx, SubmitRequest{RequesterID: u.ID, Title: "Song", Artist: "Band", PreferredPlayTimeID: &off.ID})
	assert.True(t, IsKind(err, KindValidation), "got %v", err)

	_, err = svc.Submit(ctx, SubmitRequest{RequesterID: u.ID, Title: "Song", Artist: "Band", PreferredPlayTimeID: intPtr(999)})
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
}

func TestSubmitUnknownRequester(t *testing.T) {
	svc, _, rec := newTestService(t)

	_, err := svc.Submit(context.Background(), SubmitRequest{RequesterID: 42, Title: "Song", Artist: "Band"})

	require.True(t, IsKind(err, KindNotFound), "got %v", err)
	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "user", re.Entity)
	assert.Equal(t, 42, re.ID)
	assert.Empty(t, rec.all())
}

func TestSubmitThenMarkPlayed(t *testing.T) {
	svc, store, rec := newTestService(t)
	u := store.addUser("alice")
	slot := store.addPlayTime("noon", true)
	ctx := context.Background()

	song, err := svc.Submit(ctx, SubmitRequest{RequesterID: u.ID, Title: "Song", Artist: "Band"})
	require.NoError(t, err)
	rows, err := svc.AssignSlots(ctx, testNow, slot.ID, []int{song.ID})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	at := testNow.Add(3 * time.Hour)
	played, err := svc.MarkPlayed(ctx, song.ID, at)
	require.NoError(t, err)
	assert.True(t, played.Played)
	require.NotNil(t, played.PlayedAt)
	assert.Equal(t, at, *played.PlayedAt)

	stored := store.song(song.ID)
	assert.True(t, stored.Played)
	assert.NotNil(t, stored.PlayedAt)
	assert.True(t, store.schedule(rows[0].ID).Played)

	_, err = svc.MarkPlayed(ctx, song.ID, at)
	assert.True(t, IsKind(err, KindInvalidState), "got %v", err)

	events := rec.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventSongPlayed, events[1].Type)
}

func TestMarkPlayedNeedsScheduleForThatDay(t *testing.T) {
	svc, store, _ := newTestService(t)
	u := store.addUser("alice")
	slot := store.addPlayTime("noon", true)
	ctx := context.Background()

	song := store.addSong(u.ID, "Song", testNow)

	_, err := svc.MarkPlayed(ctx, song.ID, testNow)
	assert.True(t, IsKind(err, KindInvalidState), "unscheduled: got %v", err)

	tomorrow := testNow.AddDate(0, 0, 1)
	_, err = svc.AssignSlots(ctx, tomorrow, slot.ID, []int{song.ID})
	require.NoError(t, err)

	_, err = svc.MarkPlayed(ctx, song.ID, testNow)
	assert.True(t, IsKind(err, KindInvalidState), "wrong day: got %v", err)
	assert.False(t, store.song(song.ID).Played)

	_, err = svc.MarkPlayed(ctx, song.ID, tomorrow)
	assert.NoError(t, err)

	_, err = svc.MarkPlayed(ctx, 999, testNow)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
}

func TestDeleteSongCascades(t *testing.T) {
	svc, store, _ := newTestService(t)
	u := store.addUser("alice")
	voter := store.addUser("bob")
	slot := store.addPlayTime("noon", true)
	ctx := context.Background()

	song := store.addSong(u.ID, "Song", testNow)
	_, err := svc.CastVote(ctx, voter.ID, song.ID)
	require.NoError(t, err)
	rows, err := svc.AssignSlots(ctx, testNow, slot.ID, []int{song.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSong(ctx, song.ID))

	assert.Equal(t, 0, store.voteCount(song.ID))
	_, err = store.GetSchedule(ctx, rows[0].ID)
	assert.Error(t, err)

	err = svc.DeleteSong(ctx, song.ID)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
}

func TestGetSongStatus(t *testing.T) {
	svc, store, _ := newTestService(t)
	u := store.addUser("alice")
	slot := store.addPlayTime("noon", true)
	ctx := context.Background()

	song := store.addSong(u.ID, "Song", testNow)
	d, err := svc.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SongPending, d.Status())

	_, err = svc.AssignSlots(ctx, testNow, slot.ID, []int{song.ID})
	require.NoError(t, err)
	d, err = svc.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SongScheduled, d.Status())

	_, err = svc.MarkPlayed(ctx, song.ID, testNow)
	require.NoError(t, err)
	d, err = svc.GetSong(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SongPlayed, d.Status())

	_, err = svc.ListSongs(ctx, model.SongFilter{Limit: -1})
	assert.True(t, IsKind(err, KindValidation))
}
