package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/memory-gate/internal/model"
)

// SQLiteStore implements Backend using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		now:    func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.dbPath }

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memory_items (
		id          TEXT NOT NULL,
		owner_id    TEXT NOT NULL,
		text        TEXT NOT NULL,
		kind        TEXT NOT NULL,
		source_type TEXT NOT NULL,
		source_id   TEXT,
		source_note TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active',
		deleted_at  TEXT,
		PRIMARY KEY (owner_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_items_owner ON memory_items(owner_id, status);
	CREATE INDEX IF NOT EXISTS idx_items_created ON memory_items(created_at);

	CREATE TABLE IF NOT EXISTS memory_proposals (
		id               TEXT NOT NULL,
		owner_id         TEXT NOT NULL,
		proposed_text    TEXT NOT NULL,
		kind             TEXT NOT NULL,
		source_type      TEXT NOT NULL,
		source_id        TEXT,
		source_note      TEXT,
		created_at       TEXT NOT NULL,
		decision         TEXT NOT NULL DEFAULT 'pending',
		decided_at       TEXT,
		final_text       TEXT,
		result_memory_id TEXT,
		decline_reason   TEXT,
		PRIMARY KEY (owner_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_proposals_owner ON memory_proposals(owner_id, decision);
	`
	_, err := s.db.Exec(schema)
	return err
}

const itemColumns = `id, owner_id, text, kind, source_type, source_id, source_note,
	created_at, updated_at, status, deleted_at`

func (s *SQLiteStore) List(ctx context.Context, ownerID string) ([]model.MemoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM memory_items
		 WHERE owner_id = ? AND status = 'active'
		 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []model.MemoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, ownerID, id string, includeDeleted bool) (*model.MemoryItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM memory_items WHERE owner_id = ? AND id = ?`, ownerID, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !it.Active() && !includeDeleted {
		return nil, fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	return &it, nil
}

func (s *SQLiteStore) Create(ctx context.Context, item model.MemoryItem) (*model.MemoryItem, error) {
	rec := RecordFromItem(item)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memory_items (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerID, rec.Text, rec.Kind, rec.Source.SourceType,
		nullString(rec.Source.SourceID), nullString(rec.Source.Note),
		rec.CreatedAt, rec.UpdatedAt, rec.Status, rec.DeletedAt)
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	return &item, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, ownerID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM memory_items WHERE owner_id = ? AND id = ?`, ownerID, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("memory %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if status == string(model.StatusDeleted) {
		return nil
	}

	now := formatTime(s.now())
	if _, err := tx.ExecContext(ctx,
		`UPDATE memory_items SET status = 'deleted', deleted_at = ?, updated_at = ?
		 WHERE owner_id = ? AND id = ?`,
		now, now, ownerID, id); err != nil {
		return fmt.Errorf("soft delete: %w", err)
	}
	return tx.Commit()
}

const proposalColumns = `id, owner_id, proposed_text, kind, source_type, source_id, source_note,
	created_at, decision, decided_at, final_text, result_memory_id, decline_reason`

func (s *SQLiteStore) CreateProposal(ctx context.Context, p model.MemoryProposal) error {
	rec := RecordFromProposal(p)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO memory_proposals (`+proposalColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ProposalID, rec.OwnerID, rec.ProposedText, rec.Kind, rec.SourceType,
		nullString(rec.SourceID), nullString(rec.Note), rec.CreatedAt, rec.Decision,
		rec.DecidedAt, nullString(rec.FinalText), nullString(rec.ResultMemoryID),
		nullString(rec.DeclineReason))
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetProposal(ctx context.Context, ownerID, id string) (*model.MemoryProposal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+proposalColumns+` FROM memory_proposals WHERE owner_id = ? AND id = ?`, ownerID, id)
	p, err := scanProposal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("proposal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) SaveProposal(ctx context.Context, p model.MemoryProposal) error {
	rec := RecordFromProposal(p)
	res, err := s.db.ExecContext(ctx,
		`UPDATE memory_proposals
		 SET proposed_text = ?, decision = ?, decided_at = ?, final_text = ?,
		     result_memory_id = ?, decline_reason = ?
		 WHERE id = ? AND owner_id = ?`,
		rec.ProposedText, rec.Decision, rec.DecidedAt, nullString(rec.FinalText),
		nullString(rec.ResultMemoryID), nullString(rec.DeclineReason),
		rec.ProposalID, rec.OwnerID)
	if err != nil {
		return fmt.Errorf("update proposal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("proposal %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) ListProposals(ctx context.Context, ownerID string, decision model.Decision) ([]model.MemoryProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM memory_proposals WHERE owner_id = ?`
	args := []interface{}{ownerID}
	if decision != "" {
		query += ` AND decision = ?`
		args = append(args, string(decision))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MemoryProposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (model.MemoryItem, error) {
	var rec MemoryRecord
	var sourceID, sourceNote, deletedAt sql.NullString

	err := row.Scan(
		&rec.ID, &rec.OwnerID, &rec.Text, &rec.Kind, &rec.Source.SourceType,
		&sourceID, &sourceNote, &rec.CreatedAt, &rec.UpdatedAt, &rec.Status, &deletedAt,
	)
	if err != nil {
		return model.MemoryItem{}, err
	}
	rec.Source.SourceID = sourceID.String
	rec.Source.Note = sourceNote.String
	if deletedAt.Valid {
		rec.DeletedAt = &deletedAt.String
	}
	return ItemFromRecord(rec, time.Time{})
}

func scanProposal(row scanner) (model.MemoryProposal, error) {
	var rec ProposalRecord
	var sourceID, sourceNote, decidedAt, finalText, resultID, reason sql.NullString

	err := row.Scan(
		&rec.ProposalID, &rec.OwnerID, &rec.ProposedText, &rec.Kind, &rec.SourceType,
		&sourceID, &sourceNote, &rec.CreatedAt, &rec.Decision, &decidedAt,
		&finalText, &resultID, &reason,
	)
	if err != nil {
		return model.MemoryProposal{}, err
	}
	rec.SourceID = sourceID.String
	rec.Note = sourceNote.String
	rec.FinalText = finalText.String
	rec.ResultMemoryID = resultID.String
	rec.DeclineReason = reason.String
	if decidedAt.Valid {
		rec.DecidedAt = &decidedAt.String
	}
	return ProposalFromRecord(rec, time.Time{})
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
