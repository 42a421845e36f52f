package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/config"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/storage"
)

// uploadsRoute is where local covers are served from.
const uploadsRoute = "/uploads"

// InitStorage selects and returns the configured cover storage backend
func InitStorage(cfg *config.Config) storage.Storage {
	if cfg.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesKey,
			cfg.SpacesSecret,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Msg("using DigitalOcean Spaces storage")
		return spacesStorage
	}

	log.Info().Str("dir", cfg.UploadDir).Msg("using local file storage")
	return storage.NewLocalStorage(cfg.UploadDir, uploadsRoute)
}
