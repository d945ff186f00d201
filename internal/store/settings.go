package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

const jwtSecretKey = "jwt_secret"

// GetSetting returns the value stored under key. ok is false if the key is
// not set.
func GetSetting(ctx context.Context, q Querier, key string) (value string, ok bool, err error) {
	query, args, err := dialect.From("settings").
		Select("value").
		Where(goqu.C("key").Eq(key)).
		Prepared(true).ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("building settings query: %w", err)
	}

	err = q.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// EnsureSetting stores candidate under key unless a value is already there,
// and returns whichever value ends up stored. Concurrent callers agree on
// one value.
func EnsureSetting(ctx context.Context, q Querier, key, candidate string) (string, error) {
	query, args, err := dialect.Insert("settings").
		Rows(goqu.Record{"key": key, "value": candidate}).
		OnConflict(goqu.DoNothing()).
		Prepared(true).ToSQL()
	if err != nil {
		return "", fmt.Errorf("building settings insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("storing setting %s: %w", key, err)
	}

	value, ok, err := GetSetting(ctx, q, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("setting %s missing after insert", key)
	}
	return value, nil
}

// GetJWTSecret returns the token signing secret, generating and storing a
// random one on first use.
func GetJWTSecret(ctx context.Context, q Querier) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return EnsureSetting(ctx, q, jwtSecretKey, hex.EncodeToString(buf))
}
