package store

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
)

// RevokeToken puts a token id on the deny list until expiresAt. Revoking the
// same token twice is not an error.
func RevokeToken(ctx context.Context, q Querier, jti string, expiresAt time.Time) error {
	query, args, err := dialect.Insert("revoked_tokens").
		Rows(goqu.Record{"jti": jti, "expires_at": expiresAt.UTC()}).
		OnConflict(goqu.DoNothing()).
		Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("building token revocation: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether the token id is on the deny list.
func IsTokenRevoked(ctx context.Context, q Querier, jti string) (bool, error) {
	query, args, err := dialect.From("revoked_tokens").
		Select(goqu.COUNT("*")).
		Where(goqu.C("jti").Eq(jti)).
		Prepared(true).ToSQL()
	if err != nil {
		return false, fmt.Errorf("building token lookup: %w", err)
	}

	var count int
	if err := q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return count > 0, nil
}

// PruneRevokedTokens drops deny list entries for tokens that have expired by
// now; such tokens fail validation on their own.
func PruneRevokedTokens(ctx context.Context, q Querier, now time.Time) (int, error) {
	query, args, err := dialect.Delete("revoked_tokens").
		Where(goqu.C("expires_at").Lt(now.UTC())).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("building token prune: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning revoked tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning revoked tokens: %w", err)
	}
	return int(n), nil
}
