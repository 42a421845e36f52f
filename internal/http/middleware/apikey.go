package middleware

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const (
	APIKeyHeader    = "X-API-Key"
	apiKeyPrefix    = "crk_"
	apiKeyPrefixLen = 10
	apiLogTimeout   = 5 * time.Second
)

// APIKeyStore is what the open API needs to authenticate and audit callers.
type APIKeyStore interface {
	GetAPIKeyByHash(ctx context.Context, keyHash string) (model.APIKey, error)
	TouchAPIKey(ctx context.Context, id uuid.UUID, at time.Time) error
	CreateAPILog(ctx context.Context, l model.APILog) error
}

// NewAPIKey returns a fresh plaintext key with its stored hash and display prefix.
func NewAPIKey() (plain, hash, prefix string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", "", err
	}
	plain = apiKeyPrefix + hex.EncodeToString(buf)
	return plain, HashAPIKey(plain), plain[:apiKeyPrefixLen], nil
}

func HashAPIKey(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func GetAPIKey(c *gin.Context) (*model.APIKey, bool) {
	k, exists := c.Get("apiKey")
	if !exists {
		return nil, false
	}
	key, ok := k.(*model.APIKey)
	return key, ok
}

// APIKeyAuth authenticates X-API-Key and writes an api_logs row for every call,
// including rejected ones.
func APIKeyAuth(store APIKeyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		var keyID uuid.NullUUID

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), apiLogTimeout)
			defer cancel()

			entry := model.APILog{
				APIKeyID:       keyID,
				Endpoint:       c.Request.URL.Path,
				Method:         c.Request.Method,
				IPAddress:      c.ClientIP(),
				StatusCode:     c.Writer.Status(),
				ResponseTimeMs: int(time.Since(start).Milliseconds()),
			}
			if ua := c.Request.UserAgent(); ua != "" {
				entry.UserAgent = &ua
			}
			if msg := c.Errors.String(); msg != "" {
				entry.ErrorMessage = &msg
			}
			if err := store.CreateAPILog(ctx, entry); err != nil {
				log.Warn().Err(err).Str("endpoint", entry.Endpoint).Msg("api log write failed")
			}
			if keyID.Valid {
				if err := store.TouchAPIKey(ctx, keyID.UUID, time.Now()); err != nil {
					log.Warn().Err(err).Msg("api key usage update failed")
				}
			}
		}()

		plain := c.GetHeader(APIKeyHeader)
		if plain == "" {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing api key")
			return
		}
		key, err := store.GetAPIKeyByHash(c.Request.Context(), HashAPIKey(plain))
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid api key")
			return
		}
		keyID = uuid.NullUUID{UUID: key.ID, Valid: true}
		if !key.Usable(time.Now()) {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "api key is inactive or expired")
			return
		}

		c.Set("apiKey", &key)
		c.Next()
	}
}

// RequirePermission must run after APIKeyAuth.
func RequirePermission(p model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetAPIKey(c)
		if !ok || !key.Has(p) {
			abort(c, http.StatusForbidden, "FORBIDDEN", "api key lacks "+string(p))
			return
		}
		c.Next()
	}
}
