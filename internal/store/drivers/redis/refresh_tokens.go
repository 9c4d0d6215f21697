// Package redis implements the refresh-token store contract on Redis.
// Token records live under their fingerprint with a TTL matching the
// token expiry, so Redis reaps expired records on its own. A per-user
// set indexes fingerprints for revoke-all.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/signetlabs/signet/internal/domain"
	"github.com/signetlabs/signet/internal/store"

	goredis "github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix = "refresh:token:"
	userKeyPrefix  = "refresh:user:"
)

type RefreshTokenStore struct {
	client goredis.UniversalClient
}

func NewRefreshTokenStore(client goredis.UniversalClient) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

func (r *RefreshTokenStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RefreshTokenStore) tokenKey(hash string) string  { return tokenKeyPrefix + hash }
func (r *RefreshTokenStore) userKey(userID string) string { return userKeyPrefix + userID }

// tokenRecord is the at-rest JSON shape. Timestamps are unix seconds.
type tokenRecord struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	TokenHash string `json:"token_hash"`
	ExpiresAt int64  `json:"expires_at"`
	CreatedAt int64  `json:"created_at"`
}

func (r *RefreshTokenStore) CreateRefreshToken(ctx context.Context, token domain.RefreshToken) error {
	ttl := time.Until(token.ExpiresAt)
	if ttl <= 0 {
		// Already expired, nothing to persist.
		return nil
	}

	data, err := json.Marshal(tokenRecord{
		ID:        token.ID,
		UserID:    token.UserID,
		TokenHash: token.TokenHash,
		ExpiresAt: token.ExpiresAt.Unix(),
		CreatedAt: token.CreatedAt.Unix(),
	})
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, r.tokenKey(token.TokenHash), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrAlreadyExists
	}

	return r.client.SAdd(ctx, r.userKey(token.UserID), token.TokenHash).Err()
}

func (r *RefreshTokenStore) GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error) {
	data, err := r.client.Get(ctx, r.tokenKey(hash)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return domain.RefreshToken{}, store.ErrNotFound
		}
		return domain.RefreshToken{}, err
	}

	var record tokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.RefreshToken{}, err
	}

	// TTL reaping lags the wall clock by up to a second, so re-check.
	if record.ExpiresAt <= time.Now().Unix() {
		return domain.RefreshToken{}, store.ErrNotFound
	}

	return domain.RefreshToken{
		ID:        record.ID,
		UserID:    record.UserID,
		TokenHash: record.TokenHash,
		ExpiresAt: time.Unix(record.ExpiresAt, 0).UTC(),
		CreatedAt: time.Unix(record.CreatedAt, 0).UTC(),
	}, nil
}

func (r *RefreshTokenStore) DeleteRefreshTokenByHash(ctx context.Context, hash string) (bool, error) {
	data, err := r.client.Get(ctx, r.tokenKey(hash)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}

	var record tokenRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return false, err
	}

	var del *goredis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		del = pipe.Del(ctx, r.tokenKey(hash))
		pipe.SRem(ctx, r.userKey(record.UserID), hash)
		return nil
	})
	if err != nil {
		return false, err
	}

	return del.Val() > 0, nil
}

func (r *RefreshTokenStore) DeleteUserRefreshTokens(ctx context.Context, userID string) (int64, error) {
	hashes, err := r.client.SMembers(ctx, r.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	keys := make([]string, 0, len(hashes))
	for _, hash := range hashes {
		keys = append(keys, r.tokenKey(hash))
	}

	var del *goredis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		if len(keys) > 0 {
			del = pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, r.userKey(userID))
		return nil
	})
	if err != nil {
		return 0, err
	}

	if del == nil {
		return 0, nil
	}
	return del.Val(), nil
}

// DeleteExpiredRefreshTokens prunes user-index entries whose token keys
// have already been reaped by their TTL. The returned count is the number
// of pruned index entries, not deleted tokens.
func (r *RefreshTokenStore) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	var (
		cursor uint64
		pruned int64
	)

	for {
		keys, next, err := r.client.Scan(ctx, cursor, userKeyPrefix+"*", 100).Result()
		if err != nil {
			return pruned, err
		}

		for _, userKey := range keys {
			hashes, err := r.client.SMembers(ctx, userKey).Result()
			if err != nil {
				return pruned, err
			}

			for _, hash := range hashes {
				exists, err := r.client.Exists(ctx, r.tokenKey(hash)).Result()
				if err != nil {
					return pruned, err
				}
				if exists == 0 {
					removed, err := r.client.SRem(ctx, userKey, hash).Result()
					if err != nil {
						return pruned, err
					}
					pruned += removed
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return pruned, nil
}
