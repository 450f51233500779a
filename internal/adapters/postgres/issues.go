package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"cookieaudit/internal/domain"
	"cookieaudit/internal/ports"
)

const issueColumns = `id, session_id, primary_key, code, kind, third_party, report, occurrences, first_seen_at, last_seen_at`

func scanIssue(row pgx.Row) (domain.IssueRecord, error) {
	var rec domain.IssueRecord
	var kind string
	err := row.Scan(&rec.ID, &rec.SessionID, &rec.PrimaryKey, &rec.Code, &kind, &rec.ThirdParty,
		&rec.Report, &rec.Occurrences, &rec.FirstSeenAt, &rec.LastSeenAt)
	rec.Kind = domain.Kind(kind)
	return rec, err
}

// Upsert relies on the (session_id, primary_key) unique constraint; xmax is
// zero only for rows created by this statement.
func (db *DB) Upsert(ctx context.Context, rec domain.IssueRecord) (domain.IssueRecord, bool, error) {
	var inserted bool
	row := db.Pool.QueryRow(ctx, `
		INSERT INTO cookie_issues (session_id, primary_key, code, kind, third_party, report, occurrences, first_seen_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
		ON CONFLICT (session_id, primary_key) DO UPDATE SET
			occurrences  = cookie_issues.occurrences + 1,
			third_party  = EXCLUDED.third_party,
			last_seen_at = EXCLUDED.last_seen_at
		RETURNING `+issueColumns+`, (xmax = 0)
	`, rec.SessionID, rec.PrimaryKey, rec.Code, string(rec.Kind), rec.ThirdParty, rec.Report, rec.LastSeenAt)

	var kind string
	var out domain.IssueRecord
	err := row.Scan(&out.ID, &out.SessionID, &out.PrimaryKey, &out.Code, &kind, &out.ThirdParty,
		&out.Report, &out.Occurrences, &out.FirstSeenAt, &out.LastSeenAt, &inserted)
	if err != nil {
		return domain.IssueRecord{}, false, fmt.Errorf("upsert cookie issue: %w", err)
	}
	out.Kind = domain.Kind(kind)
	return out, inserted, nil
}

func (db *DB) List(ctx context.Context, sessionID string, filter ports.IssueFilter) ([]domain.IssueRecord, error) {
	where := []string{"session_id = $1"}
	args := []any{sessionID}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if filter.Code != "" {
		args = append(args, filter.Code)
		where = append(where, fmt.Sprintf("code = $%d", len(args)))
	}
	if filter.ThirdParty != nil {
		args = append(args, *filter.ThirdParty)
		where = append(where, fmt.Sprintf("third_party = $%d", len(args)))
	}

	rows, err := db.Pool.Query(ctx, `SELECT `+issueColumns+` FROM cookie_issues WHERE `+
		strings.Join(where, " AND ")+` ORDER BY first_seen_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list cookie issues: %w", err)
	}
	defer rows.Close()

	var out []domain.IssueRecord
	for rows.Next() {
		rec, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
