package sqlstore

import (
	"context"
	"database/sql"

	"github.com/Team-NaBang/Bang-Backend/pkg/core/domain"
)

// RecordVisit appends a row. Repeat visits on the same day are stored too;
// counting deduplicates.
func (r *Repository) RecordVisit(ctx context.Context, visit *domain.VisitLog) error {
	query := r.rebind(`INSERT INTO visit_logs (id, visitor_ip, visit_date, created_at) VALUES (?, ?, ?, ?)`)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, visit.ID, visit.VisitorIP, visit.VisitDate, r.timeArg(visit.CreatedAt))
		return err
	})
	return mutate("record visit", err)
}

func (r *Repository) CountDistinctVisitorsOn(ctx context.Context, date string) (int64, error) {
	query := r.rebind(`SELECT COUNT(DISTINCT visitor_ip) FROM visit_logs WHERE visit_date = ?`)
	var n int64
	if err := r.db.QueryRowContext(ctx, query, date).Scan(&n); err != nil {
		return 0, domain.NewPersistenceError("count today visitors", err)
	}
	return n, nil
}

func (r *Repository) CountDistinctVisitors(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT visitor_ip) FROM visit_logs`).Scan(&n); err != nil {
		return 0, domain.NewPersistenceError("count total visitors", err)
	}
	return n, nil
}
