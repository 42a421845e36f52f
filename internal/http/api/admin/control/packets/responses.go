package packets

import "github.com/Nixie-Tech-LLC/campus-radio/internal/model"

type CoverResponse struct {
	SongID int    `json:"song_id"`
	Cover  string `json:"cover"`
}

// APIKeyCreatedResponse is the only place the plain key is ever shown.
type APIKeyCreatedResponse struct {
	model.APIKey
	Key string `json:"key"`
}
