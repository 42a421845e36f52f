package packets

type SubmitSongRequest struct {
	Title               string  `json:"title"                  binding:"required"`
	Artist              string  `json:"artist"                 binding:"required"`
	MusicPlatform       *string `json:"music_platform"`
	MusicID             *string `json:"music_id"`
	PreferredPlayTimeID *int    `json:"preferred_play_time_id"`
	Cover               *string `json:"cover"`
}
