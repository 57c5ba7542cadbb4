package referral

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abczzz13/referral-balance-api/internal/config"
)

// Only users with more than one first-level referral and a positive balance
// are reported. Debt is what has been earned but not yet withdrawn.
const balancesQuery = `
SELECT
    r.user_id,
    (r.referral_balance - r.withdrawn_balance) AS debt,
    r.referral_balance AS total_referral_balance
FROM referral r
WHERE r.referral_count1 > 1
    AND r.referral_balance > 0
ORDER BY r.user_id
`

const usernamesQuery = `
SELECT user_id, username
FROM client
WHERE user_id = ANY($1)
`

// NewPool creates the process-wide connection pool. The pool hands out at
// most MaxConns connections, queues callers when exhausted, and is closed on
// shutdown by the caller.
func NewPool(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Store executes the referral balance queries against a shared pool.
//
// Store is safe for concurrent use; every query acquires a pooled connection
// for its own scope and releases it on all paths.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on top of an initialized pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListBalances returns the referral debt figures for all qualifying users,
// ordered by user ID, with usernames resolved from the client table.
func (s *Store) ListBalances(ctx context.Context) ([]Balance, error) {
	rows, err := s.pool.Query(ctx, balancesQuery)
	if err != nil {
		return nil, fmt.Errorf("query referral balances: %w", err)
	}
	defer rows.Close()

	var balances []Balance
	var userIDs []int64
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.UserID, &b.Debt, &b.TotalReferralBalance); err != nil {
			return nil, fmt.Errorf("scan referral balance row: %w", err)
		}
		balances = append(balances, b)
		userIDs = append(userIDs, b.UserID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read referral balance rows: %w", err)
	}

	if len(userIDs) == 0 {
		return balances, nil
	}

	usernames, err := s.usernamesByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	for i := range balances {
		if username, ok := usernames[balances[i].UserID]; ok {
			balances[i].Username = username
		}
	}

	return balances, nil
}

func (s *Store) usernamesByID(ctx context.Context, userIDs []int64) (map[int64]*string, error) {
	rows, err := s.pool.Query(ctx, usernamesQuery, userIDs)
	if err != nil {
		return nil, fmt.Errorf("query usernames: %w", err)
	}
	defer rows.Close()

	usernames := make(map[int64]*string, len(userIDs))
	for rows.Next() {
		var userID int64
		var username *string
		if err := rows.Scan(&userID, &username); err != nil {
			return nil, fmt.Errorf("scan username row: %w", err)
		}
		usernames[userID] = username
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read username rows: %w", err)
	}

	return usernames, nil
}
