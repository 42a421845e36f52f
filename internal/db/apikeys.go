package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const apiKeyColumns = `
	id, name, description, key_hash, key_prefix, is_active, expires_at, created_at,
	updated_at, last_used_at, created_by_user_id, usage_count`

// CreateAPIKey stores the key and its permissions. Call it inside InTx so both land together.
func (q *queries) CreateAPIKey(ctx context.Context, k model.APIKey) (model.APIKey, error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	var out model.APIKey
	err := q.get(ctx, &out, `
	INSERT INTO api_keys (id, name, description, key_hash, key_prefix, is_active, expires_at, created_by_user_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, true, $6, $7, now(), now())
	RETURNING`+apiKeyColumns+`;`, k.ID, k.Name, k.Description, k.KeyHash, k.KeyPrefix, k.ExpiresAt, k.CreatedByUserID)
	if err != nil {
		log.Error().Err(err).Str("name", k.Name).Msg("CreateAPIKey failed")
		return model.APIKey{}, err
	}

	for _, p := range k.Permissions {
		if _, err := q.exec(ctx, "CreateAPIKeyPermission", `
		INSERT INTO api_key_permissions (id, api_key_id, permission, created_at)
		VALUES ($1, $2, $3, now());`, uuid.New(), out.ID, p); err != nil {
			return model.APIKey{}, err
		}
	}
	out.Permissions = k.Permissions
	return out, nil
}

func (q *queries) GetAPIKeyByHash(ctx context.Context, keyHash string) (model.APIKey, error) {
	var k model.APIKey
	if err := q.get(ctx, &k, `SELECT`+apiKeyColumns+` FROM api_keys WHERE key_hash = $1;`, keyHash); err != nil {
		logUnlessNotFound(err, "GetAPIKeyByHash failed", "key_hash", "<redacted>")
		return model.APIKey{}, err
	}
	perms, err := q.listPermissions(ctx, []uuid.UUID{k.ID})
	if err != nil {
		return model.APIKey{}, err
	}
	k.Permissions = perms[k.ID]
	return k, nil
}

func (q *queries) ListAPIKeys(ctx context.Context) ([]model.APIKey, error) {
	out := []model.APIKey{}
	if err := q.selectAll(ctx, &out, `SELECT`+apiKeyColumns+` FROM api_keys ORDER BY created_at DESC;`); err != nil {
		log.Error().Err(err).Msg("ListAPIKeys failed")
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(out))
	for _, k := range out {
		ids = append(ids, k.ID)
	}
	perms, err := q.listPermissions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Permissions = perms[out[i].ID]
	}
	return out, nil
}

func (q *queries) listPermissions(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.Permission, error) {
	rows := []model.APIKeyPermission{}
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}
	err := q.selectAll(ctx, &rows, `
	SELECT id, api_key_id, permission, created_at FROM api_key_permissions
	 WHERE api_key_id = ANY($1::uuid[])
	 ORDER BY permission;`, pq.Array(strIDs))
	if err != nil {
		log.Error().Err(err).Msg("list api key permissions failed")
		return nil, err
	}
	out := make(map[uuid.UUID][]model.Permission, len(ids))
	for _, r := range rows {
		out[r.APIKeyID] = append(out[r.APIKeyID], r.Permission)
	}
	return out, nil
}

func (q *queries) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	return q.execOne(ctx, "RevokeAPIKey", `
	UPDATE api_keys SET is_active = false, updated_at = now() WHERE id = $1;`, id)
}

// TouchAPIKey bumps usage_count; it never decreases.
func (q *queries) TouchAPIKey(ctx context.Context, id uuid.UUID, at time.Time) error {
	return q.execOne(ctx, "TouchAPIKey", `
	UPDATE api_keys SET usage_count = usage_count + 1, last_used_at = $2 WHERE id = $1;`, id, at)
}

func (q *queries) CreateAPILog(ctx context.Context, l model.APILog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	_, err := q.exec(ctx, "CreateAPILog", `
	INSERT INTO api_logs
	  (id, api_key_id, endpoint, method, ip_address, user_agent, status_code, response_time_ms,
	   request_body, response_body, created_at, error_message)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), $11);`,
		l.ID, l.APIKeyID, l.Endpoint, l.Method, l.IPAddress, l.UserAgent, l.StatusCode, l.ResponseTimeMs,
		l.RequestBody, l.ResponseBody, l.ErrorMessage,
	)
	return err
}
