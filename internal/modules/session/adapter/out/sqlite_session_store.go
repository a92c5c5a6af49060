package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"matchscout/internal/modules/session/domain"
	sessionout "matchscout/internal/modules/session/port/out"
	apperrors "matchscout/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// SQLiteSessionStore is the durable per-device session store, keyed by
// the composite identity. Put overwrites in place: last write wins.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ sessionout.Store = (*SQLiteSessionStore)(nil)

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  match_type TEXT NOT NULL,
  match_number INTEGER NOT NULL,
  team_number INTEGER NOT NULL,
  scouter TEXT NOT NULL,
  alliance TEXT,
  season TEXT,
  phase TEXT NOT NULL,
  status TEXT NOT NULL,
  payload TEXT,
  last_modified TEXT NOT NULL,
  PRIMARY KEY (match_type, match_number, team_number)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Put(ctx context.Context, session domain.Session) error {
	const stmt = `
INSERT INTO sessions (match_type, match_number, team_number, scouter, alliance, season, phase, status, payload, last_modified)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(match_type, match_number, team_number) DO UPDATE SET
  scouter=excluded.scouter,
  alliance=excluded.alliance,
  season=excluded.season,
  phase=excluded.phase,
  status=excluded.status,
  payload=excluded.payload,
  last_modified=excluded.last_modified;
`
	_, err := s.db.ExecContext(ctx, stmt,
		session.Identity.MatchType,
		session.Identity.MatchNumber,
		session.Identity.TeamNumber,
		session.Scouter,
		session.Alliance,
		session.Season,
		string(session.Phase),
		string(session.Status),
		string(session.Payload),
		session.LastModified.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("put session %s: %w", session.Identity, err)
	}
	return nil
}

func (s *SQLiteSessionStore) Get(ctx context.Context, identity domain.Identity) (domain.Session, error) {
	const query = `
SELECT match_type, match_number, team_number, scouter, alliance, season, phase, status, payload, last_modified
FROM sessions
WHERE match_type = ? AND match_number = ? AND team_number = ?;
`
	row := s.db.QueryRowContext(ctx, query, identity.MatchType, identity.MatchNumber, identity.TeamNumber)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return domain.Session{}, apperrors.ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session %s: %w", identity, err)
	}
	return session, nil
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, identity domain.Identity) error {
	const stmt = `DELETE FROM sessions WHERE match_type = ? AND match_number = ? AND team_number = ?;`
	if _, err := s.db.ExecContext(ctx, stmt, identity.MatchType, identity.MatchNumber, identity.TeamNumber); err != nil {
		return fmt.Errorf("delete session %s: %w", identity, err)
	}
	return nil
}

func (s *SQLiteSessionStore) ListNonTerminal(ctx context.Context) ([]domain.Session, error) {
	return s.list(ctx, `status != ?`, string(domain.StatusCompleted))
}

func (s *SQLiteSessionStore) ListCompleted(ctx context.Context) ([]domain.Session, error) {
	return s.list(ctx, `status = ?`, string(domain.StatusCompleted))
}

func (s *SQLiteSessionStore) list(ctx context.Context, where string, args ...any) ([]domain.Session, error) {
	query := `
SELECT match_type, match_number, team_number, scouter, alliance, season, phase, status, payload, last_modified
FROM sessions
WHERE ` + where + `
ORDER BY match_type, match_number, team_number;
`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session      domain.Session
		phase        string
		status       string
		payload      sql.NullString
		alliance     sql.NullString
		season       sql.NullString
		lastModified string
	)
	err := row.Scan(
		&session.Identity.MatchType,
		&session.Identity.MatchNumber,
		&session.Identity.TeamNumber,
		&session.Scouter,
		&alliance,
		&season,
		&phase,
		&status,
		&payload,
		&lastModified,
	)
	if err != nil {
		return domain.Session{}, err
	}
	session.Phase = domain.Phase(phase)
	session.Status = domain.Status(status)
	session.Alliance = alliance.String
	session.Season = season.String
	if payload.Valid && payload.String != "" {
		session.Payload = json.RawMessage(payload.String)
	}
	if ts, err := time.Parse(timeLayout, lastModified); err == nil {
		session.LastModified = ts
	}
	return session, nil
}
