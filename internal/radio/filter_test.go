package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

func TestCheck(t *testing.T) {
	entries := []model.BlacklistEntry{
		{ID: 1, Type: model.BlacklistKeyword, Value: "explicit", IsActive: true},
		{ID: 2, Type: model.BlacklistSong, Value: "Hello   World - ADELE ", IsActive: true},
		{ID: 3, Type: model.BlacklistSong, Value: "Baby Shark", IsActive: true},
		{ID: 4, Type: model.BlacklistKeyword, Value: "banned", IsActive: false},
		{ID: 5, Type: model.BlacklistKeyword, Value: "   ", IsActive: true},
		{ID: 6, Type: model.BlacklistSong, Value: "Song - Remix - Artist", IsActive: true},
	}

	tests := []struct {
		name    string
		c       Candidate
		wantID  int
		allowed bool
	}{
		{name: "keyword in title", c: Candidate{Title: "My Explicit Mix", Artist: "X"}, wantID: 1},
		{name: "keyword in artist", c: Candidate{Title: "Song", Artist: "DJ EXPLICIT"}, wantID: 1},
		{name: "song normalised", c: Candidate{Title: " hello world ", Artist: "Adele"}, wantID: 2},
		{name: "song other artist", c: Candidate{Title: "Hello World", Artist: "Someone"}, allowed: true},
		{name: "song title only", c: Candidate{Title: "baby  shark", Artist: "Pinkfong"}, wantID: 3},
		{name: "separator inside title", c: Candidate{Title: "Song - Remix", Artist: "Artist"}, wantID: 6},
		{name: "not split at first separator", c: Candidate{Title: "Song", Artist: "Remix - Artist"}, allowed: true},
		{name: "inactive entry ignored", c: Candidate{Title: "banned tune", Artist: "X"}, allowed: true},
		{name: "clean", c: Candidate{Title: "Yellow", Artist: "Coldplay"}, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rej := Check(entries, tt.c)
			if tt.allowed {
				assert.Nil(t, rej)
				return
			}
			require.NotNil(t, rej)
			assert.Equal(t, KindBlacklisted, rej.Kind)
			require.NotNil(t, rej.Entry)
			assert.Equal(t, tt.wantID, rej.Entry.ID)
		})
	}
}

func TestCheckReportsMatchedKeyword(t *testing.T) {
	entries := []model.BlacklistEntry{{ID: 7, Type: model.BlacklistKeyword, Value: "explicit", IsActive: true}}

	rej := Check(entries, Candidate{Title: "My Explicit Mix", Artist: "X"})

	require.NotNil(t, rej)
	assert.Contains(t, rej.Message, `"explicit"`)
	assert.True(t, IsKind(rej, KindBlacklisted))
}

func TestCheckFirstMatchIsLowestID(t *testing.T) {
	entries := []model.BlacklistEntry{
		{ID: 9, Type: model.BlacklistKeyword, Value: "mix", IsActive: true},
		{ID: 4, Type: model.BlacklistKeyword, Value: "party", IsActive: true},
	}

	rej := Check(entries, Candidate{Title: "Party Mix", Artist: "X"})

	require.NotNil(t, rej)
	assert.Equal(t, 4, rej.Entry.ID)
	assert.Equal(t, 9, entries[0].ID, "input order must not change")
}
