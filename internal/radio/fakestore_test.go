package radio

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type fakeState struct {
	nextID    int
	users     map[int]model.User
	songs     map[int]model.Song
	votes     []model.Vote
	schedules map[int]model.Schedule
	blacklist []model.BlacklistEntry
	playTimes map[int]model.PlayTime
	settings  model.SystemSettings
	semester  *model.Semester
}

// fakeStore is an in-memory db.Store. Transactions run concurrently; only LockUser and
// LockBucket serialise them, and a failed transaction rolls back through its undo log.
// Methods the radio package never calls panic via the nil embed.
type fakeStore struct {
	db.Queries

	mu sync.Mutex
	st fakeState

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	// latency is slept after the reads a check-then-write depends on, widening race windows.
	latency time.Duration
	// scheduleConflicts makes the next n CreateSchedule calls fail with a sequence conflict.
	scheduleConflicts int
	// skipVoteCheck makes HasVote always report false so the unique index decides.
	skipVoteCheck bool
}

var _ db.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		st: fakeState{
			users:     map[int]model.User{},
			songs:     map[int]model.Song{},
			schedules: map[int]model.Schedule{},
			playTimes: map[int]model.PlayTime{},
			settings:  model.DefaultSystemSettings(),
		},
		locks: map[string]*sync.Mutex{},
	}
}

func (f *fakeStore) id() int {
	f.st.nextID++
	return f.st.nextID
}

func (f *fakeStore) pause() {
	if f.latency > 0 {
		time.Sleep(f.latency)
	}
}

func (f *fakeStore) keyLock(key string) *sync.Mutex {
	f.lockMu.Lock()
	defer f.lockMu.Unlock()
	m, ok := f.locks[key]
	if !ok {
		m = &sync.Mutex{}
		f.locks[key] = m
	}
	return m
}

func (f *fakeStore) InTx(ctx context.Context, fn func(q db.Queries) error) error {
	tx := &fakeTx{fakeStore: f, held: map[string]*sync.Mutex{}}
	defer tx.release()

	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// fakeTx mirrors a Postgres transaction: advisory locks are held until it ends and
// writes are undone on rollback.
type fakeTx struct {
	*fakeStore

	held map[string]*sync.Mutex
	undo []func(st *fakeState)
}

func (t *fakeTx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	m := t.keyLock(key)
	m.Lock()
	t.held[key] = m
}

func (t *fakeTx) release() {
	for _, m := range t.held {
		m.Unlock()
	}
}

func (t *fakeTx) rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i](&t.st)
	}
}

func (t *fakeTx) onRollback(fn func(st *fakeState)) {
	t.undo = append(t.undo, fn)
}

func (t *fakeTx) restoreSchedule(id int) func(st *fakeState) {
	prev := t.schedule(id)
	return func(st *fakeState) { st.schedules[id] = prev }
}

func (t *fakeTx) LockUser(ctx context.Context, id int) error {
	t.lock(fmt.Sprintf("user:%d", id))
	return nil
}

func (t *fakeTx) LockBucket(ctx context.Context, b model.Bucket) error {
	t.lock("bucket:" + b.String())
	return nil
}

func (t *fakeTx) CreateSong(ctx context.Context, s model.Song) (model.Song, error) {
	out, err := t.fakeStore.CreateSong(ctx, s)
	if err == nil {
		t.onRollback(func(st *fakeState) { delete(st.songs, out.ID) })
	}
	return out, err
}

func (t *fakeTx) MarkSongPlayed(ctx context.Context, id int, at time.Time) error {
	prev := t.song(id)
	if err := t.fakeStore.MarkSongPlayed(ctx, id, at); err != nil {
		return err
	}
	t.onRollback(func(st *fakeState) { st.songs[id] = prev })
	return nil
}

func (t *fakeTx) CreateVote(ctx context.Context, songID, userID int) (model.Vote, error) {
	v, err := t.fakeStore.CreateVote(ctx, songID, userID)
	if err == nil {
		t.onRollback(func(st *fakeState) {
			st.votes = slices.DeleteFunc(st.votes, func(o model.Vote) bool { return o.ID == v.ID })
		})
	}
	return v, err
}

func (t *fakeTx) DeleteVote(ctx context.Context, songID, userID int) (bool, error) {
	t.mu.Lock()
	var prev []model.Vote
	for _, v := range t.st.votes {
		if v.SongID == songID && v.UserID == userID {
			prev = append(prev, v)
		}
	}
	t.mu.Unlock()

	ok, err := t.fakeStore.DeleteVote(ctx, songID, userID)
	if ok {
		t.onRollback(func(st *fakeState) { st.votes = append(st.votes, prev...) })
	}
	return ok, err
}

func (t *fakeTx) CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error) {
	out, err := t.fakeStore.CreateSchedule(ctx, s)
	if err == nil {
		t.onRollback(func(st *fakeState) { delete(st.schedules, out.ID) })
	}
	return out, err
}

func (t *fakeTx) UpdateScheduleSequence(ctx context.Context, id, sequence int) error {
	undo := t.restoreSchedule(id)
	if err := t.fakeStore.UpdateScheduleSequence(ctx, id, sequence); err != nil {
		return err
	}
	t.onRollback(undo)
	return nil
}

func (t *fakeTx) MarkSchedulePlayed(ctx context.Context, id int) error {
	undo := t.restoreSchedule(id)
	if err := t.fakeStore.MarkSchedulePlayed(ctx, id); err != nil {
		return err
	}
	t.onRollback(undo)
	return nil
}

func (t *fakeTx) DeleteSchedule(ctx context.Context, id int) error {
	undo := t.restoreSchedule(id)
	if err := t.fakeStore.DeleteSchedule(ctx, id); err != nil {
		return err
	}
	t.onRollback(undo)
	return nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }

// seeding helpers

func (f *fakeStore) addUser(username string) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := model.User{ID: f.id(), Username: username, Role: model.RoleUser}
	f.st.users[u.ID] = u
	return u
}

func (f *fakeStore) addPlayTime(name string, enabled bool) model.PlayTime {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := model.PlayTime{ID: f.id(), Name: name, Enabled: enabled}
	f.st.playTimes[p.ID] = p
	return p
}

func (f *fakeStore) addSong(requesterID int, title string, createdAt time.Time) model.Song {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := model.Song{ID: f.id(), Title: title, Artist: "artist", RequesterID: requesterID, CreatedAt: createdAt}
	f.st.songs[s.ID] = s
	return s
}

func (f *fakeStore) addVotes(songID, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.st.votes = append(f.st.votes, model.Vote{ID: f.id(), SongID: songID, UserID: 100000 + f.st.nextID})
	}
}

func (f *fakeStore) addBlacklist(t model.BlacklistType, value string, active bool) model.BlacklistEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := model.BlacklistEntry{ID: f.id(), Type: t, Value: value, IsActive: active}
	f.st.blacklist = append(f.st.blacklist, e)
	return e
}

func (f *fakeStore) setSettings(s model.SystemSettings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.st.settings = s
}

func (f *fakeStore) voteCount(songID int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countVotes(songID)
}

func (f *fakeStore) song(id int) model.Song {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.songs[id]
}

func (f *fakeStore) schedule(id int) model.Schedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.schedules[id]
}

func (f *fakeStore) countVotes(songID int) int {
	n := 0
	for _, v := range f.st.votes {
		if v.SongID == songID {
			n++
		}
	}
	return n
}

func (f *fakeStore) pendingFor(songID int) (model.Schedule, bool) {
	for _, sc := range f.st.schedules {
		if sc.SongID == songID && !sc.Played {
			return sc, true
		}
	}
	return model.Schedule{}, false
}

func sameBucket(sc model.Schedule, b model.Bucket) bool {
	return sc.PlayTimeID != nil && *sc.PlayTimeID == b.PlayTimeID && model.DateOf(sc.PlayDate).Equal(b.PlayDate)
}

// db.Queries

func (f *fakeStore) GetUserByID(ctx context.Context, id int) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.st.users[id]
	if !ok {
		return model.User{}, db.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetSystemSettings(ctx context.Context) (model.SystemSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.st.settings, nil
}

func (f *fakeStore) GetActiveSemester(ctx context.Context) (model.Semester, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.st.semester == nil {
		return model.Semester{}, db.ErrNotFound
	}
	return *f.st.semester, nil
}

func (f *fakeStore) ListBlacklist(ctx context.Context, activeOnly bool) ([]model.BlacklistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.BlacklistEntry{}
	for _, e := range f.st.blacklist {
		if !activeOnly || e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetPlayTime(ctx context.Context, id int) (model.PlayTime, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.st.playTimes[id]
	if !ok {
		return model.PlayTime{}, db.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) CreateSong(ctx context.Context, s model.Song) (model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.id()
	s.UpdatedAt = s.CreatedAt
	f.st.songs[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetSong(ctx context.Context, id int) (model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st.songs[id]
	if !ok {
		return model.Song{}, db.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) GetSongForUpdate(ctx context.Context, id int) (model.Song, error) {
	return f.GetSong(ctx, id)
}

func (f *fakeStore) GetSongDetail(ctx context.Context, id int) (model.SongDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st.songs[id]
	if !ok {
		return model.SongDetail{}, db.ErrNotFound
	}
	return f.detail(s), nil
}

func (f *fakeStore) detail(s model.Song) model.SongDetail {
	d := model.SongDetail{Song: s, Tally: f.countVotes(s.ID), RequesterName: f.st.users[s.RequesterID].Username}
	if sc, ok := f.pendingFor(s.ID); ok {
		d.PendingScheduleID = &sc.ID
		d.PendingPlayDate = &sc.PlayDate
	}
	return d
}

func (f *fakeStore) ListSongDetails(ctx context.Context, filter model.SongFilter) ([]model.SongDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.SongDetail{}
	for _, s := range f.st.songs {
		if filter.RequesterID != nil && s.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.Played != nil && s.Played != *filter.Played {
			continue
		}
		out = append(out, f.detail(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) CountSongsByRequesterSince(ctx context.Context, requesterID int, since time.Time) (int, error) {
	defer f.pause()
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.st.songs {
		if s.RequesterID == requesterID && !s.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) MarkSongPlayed(ctx context.Context, id int, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st.songs[id]
	if !ok || s.Played {
		return db.ErrNotFound
	}
	s.Played = true
	s.PlayedAt = &at
	f.st.songs[id] = s
	return nil
}

func (f *fakeStore) UpdateSongCover(ctx context.Context, id int, cover string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.st.songs[id]
	if !ok {
		return db.ErrNotFound
	}
	s.Cover = &cover
	f.st.songs[id] = s
	return nil
}

func (f *fakeStore) DeleteSong(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.st.songs[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.st.songs, id)
	f.st.votes = slices.DeleteFunc(f.st.votes, func(v model.Vote) bool { return v.SongID == id })
	for sid, sc := range f.st.schedules {
		if sc.SongID == id {
			delete(f.st.schedules, sid)
		}
	}
	return nil
}

func (f *fakeStore) HasVote(ctx context.Context, songID, userID int) (bool, error) {
	defer f.pause()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.skipVoteCheck {
		return false, nil
	}
	return slices.ContainsFunc(f.st.votes, func(v model.Vote) bool {
		return v.SongID == songID && v.UserID == userID
	}), nil
}

func (f *fakeStore) CreateVote(ctx context.Context, songID, userID int) (model.Vote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.st.votes {
		if v.SongID == songID && v.UserID == userID {
			return model.Vote{}, &db.UniqueViolation{Constraint: db.ConstraintVoteUnique}
		}
	}
	v := model.Vote{ID: f.id(), SongID: songID, UserID: userID, CreatedAt: time.Now()}
	f.st.votes = append(f.st.votes, v)
	return v, nil
}

func (f *fakeStore) DeleteVote(ctx context.Context, songID, userID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	before := len(f.st.votes)
	f.st.votes = slices.DeleteFunc(f.st.votes, func(v model.Vote) bool {
		return v.SongID == songID && v.UserID == userID
	})
	return len(f.st.votes) < before, nil
}

func (f *fakeStore) CountVotes(ctx context.Context, songID int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countVotes(songID), nil
}

func (f *fakeStore) ListCandidates(ctx context.Context, songIDs []int) ([]model.Candidate, error) {
	defer f.pause()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Candidate{}
	for _, id := range songIDs {
		s, ok := f.st.songs[id]
		if !ok {
			continue
		}
		c := model.Candidate{SongID: s.ID, CreatedAt: s.CreatedAt, Played: s.Played, Tally: f.countVotes(s.ID)}
		if sc, ok := f.pendingFor(s.ID); ok {
			c.PendingScheduleID = &sc.ID
			c.PendingPlayDate = &sc.PlayDate
			c.PendingPlayTimeID = sc.PlayTimeID
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SongID < out[j].SongID })
	return out, nil
}

func (f *fakeStore) MaxBucketSequence(ctx context.Context, b model.Bucket) (int, error) {
	defer f.pause()
	f.mu.Lock()
	defer f.mu.Unlock()
	last := 0
	for _, sc := range f.st.schedules {
		if sameBucket(sc, b) && sc.Sequence > last {
			last = sc.Sequence
		}
	}
	return last, nil
}

func (f *fakeStore) CreateSchedule(ctx context.Context, s model.Schedule) (model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleConflicts > 0 {
		f.scheduleConflicts--
		return model.Schedule{}, &db.UniqueViolation{Constraint: db.ConstraintBucketSequence}
	}
	b := s.Bucket()
	for _, sc := range f.st.schedules {
		if sc.Played {
			continue
		}
		if sc.SongID == s.SongID {
			return model.Schedule{}, &db.UniqueViolation{Constraint: db.ConstraintPendingSongSchedule}
		}
		if sameBucket(sc, b) && sc.Sequence == s.Sequence {
			return model.Schedule{}, &db.UniqueViolation{Constraint: db.ConstraintBucketSequence}
		}
	}
	s.ID = f.id()
	f.st.schedules[s.ID] = s
	return s, nil
}

func (f *fakeStore) GetSchedule(ctx context.Context, id int) (model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sc, ok := f.st.schedules[id]
	if !ok {
		return model.Schedule{}, db.ErrNotFound
	}
	return sc, nil
}

func (f *fakeStore) GetScheduleForUpdate(ctx context.Context, id int) (model.Schedule, error) {
	return f.GetSchedule(ctx, id)
}

func (f *fakeStore) GetPendingScheduleForSong(ctx context.Context, songID int) (model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sc, ok := f.pendingFor(songID)
	if !ok {
		return model.Schedule{}, db.ErrNotFound
	}
	return sc, nil
}

func (f *fakeStore) ListPendingInBucket(ctx context.Context, b model.Bucket) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Schedule{}
	for _, sc := range f.st.schedules {
		if !sc.Played && sameBucket(sc, b) {
			out = append(out, sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (f *fakeStore) UpdateScheduleSequence(ctx context.Context, id, sequence int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sc, ok := f.st.schedules[id]
	if !ok {
		return db.ErrNotFound
	}
	sc.Sequence = sequence
	f.st.schedules[id] = sc
	return nil
}

func (f *fakeStore) MarkSchedulePlayed(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	sc, ok := f.st.schedules[id]
	if !ok || sc.Played {
		return db.ErrNotFound
	}
	sc.Played = true
	f.st.schedules[id] = sc
	return nil
}

func (f *fakeStore) DeleteSchedule(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.st.schedules[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.st.schedules, id)
	return nil
}

func (f *fakeStore) ListScheduleEntries(ctx context.Context, playDate time.Time, playTimeID *int) ([]model.ScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.ScheduleEntry{}
	for _, sc := range f.st.schedules {
		if !model.DateOf(sc.PlayDate).Equal(model.DateOf(playDate)) {
			continue
		}
		if playTimeID != nil && (sc.PlayTimeID == nil || *sc.PlayTimeID != *playTimeID) {
			continue
		}
		s := f.st.songs[sc.SongID]
		out = append(out, model.ScheduleEntry{Schedule: sc, SongTitle: s.Title, SongArtist: s.Artist, RequesterID: s.RequesterID})
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].PlayTimeID != *out[j].PlayTimeID {
			return *out[i].PlayTimeID < *out[j].PlayTimeID
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingNotifier) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}
