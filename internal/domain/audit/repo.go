package audit

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so events can be
// appended inside a caller's transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct{ db Querier }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{db: pool} }

// WithTx returns a repo bound to tx so an append commits or rolls back with
// the surrounding operation.
func (r *Repo) WithTx(tx pgx.Tx) *Repo { return &Repo{db: tx} }

func (r *Repo) Append(ctx context.Context, e Event) (*Event, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO asset_events (asset_id, event_type, description, created_by)
		VALUES ($1,$2,$3,$4)
		RETURNING id, asset_id, event_type, description, created_at, created_by
	`, e.AssetID, e.Type, e.Description, e.CreatedBy)
	var out Event
	if err := row.Scan(&out.ID, &out.AssetID, &out.Type, &out.Description, &out.CreatedAt, &out.CreatedBy); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByAsset returns the trail newest-first. Display ordering only; the log
// itself is append-only.
func (r *Repo) ListByAsset(ctx context.Context, assetID int64) ([]Event, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, asset_id, event_type, description, created_at, created_by
		FROM asset_events
		WHERE asset_id=$1
		ORDER BY created_at DESC, id DESC
	`, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.AssetID, &e.Type, &e.Description, &e.CreatedAt, &e.CreatedBy); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
