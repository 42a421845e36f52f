package radio

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// Candidate is what the blacklist is evaluated against.
type Candidate struct {
	Title  string
	Artist string
}

// songSeparator splits a SONG entry value into title and artist.
const songSeparator = " - "

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Check evaluates the active entries in ascending id order and returns the first match,
// or nil when c is allowed.
func Check(entries []model.BlacklistEntry, c Candidate) *Error {
	active := lo.Filter(entries, func(e model.BlacklistEntry, _ int) bool { return e.IsActive })
	slices.SortFunc(active, func(a, b model.BlacklistEntry) int { return cmp.Compare(a.ID, b.ID) })

	title, artist := normalize(c.Title), normalize(c.Artist)
	for i := range active {
		e := active[i]
		if matches(e, title, artist) {
			return blacklisted(e)
		}
	}
	return nil
}

func matches(e model.BlacklistEntry, title, artist string) bool {
	value := normalize(e.Value)
	if value == "" {
		return false
	}
	switch e.Type {
	case model.BlacklistKeyword:
		return strings.Contains(title, value) || strings.Contains(artist, value)
	case model.BlacklistSong:
		// the artist follows the last separator
		i := strings.LastIndex(value, songSeparator)
		if i < 0 {
			return title == value
		}
		t, a := value[:i], value[i+len(songSeparator):]
		return title == strings.TrimSpace(t) && artist == strings.TrimSpace(a)
	}
	return false
}

func blacklisted(e model.BlacklistEntry) *Error {
	msg := fmt.Sprintf("song %q is blacklisted", e.Value)
	if e.Type == model.BlacklistKeyword {
		msg = fmt.Sprintf("song matches blacklisted keyword %q", e.Value)
	}
	return &Error{Kind: KindBlacklisted, Message: msg, Entry: &e}
}
