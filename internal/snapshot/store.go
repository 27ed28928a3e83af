package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vgapview/internal/log"
)

const (
	turnsTable   = "turns"
	importsTable = "imports"
)

// StoredTurn describes one row of the turns table.
type StoredTurn struct {
	Turn       int
	GameName   string
	PlayerID   int
	ImportID   string
	ImportedAt time.Time
	Size       int
}

// SQLiteStore keeps raw turn files in a SQLite database so a scene can be
// rebuilt without the original directory of turn files.
type SQLiteStore struct {
	db       *sql.DB
	filename string

	// Prepared statements
	loadTurnStmt *sql.Stmt
}

// OpenStore opens or creates a snapshot database.
func OpenStore(filename string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", filename+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, filename: filename}

	if err = s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	query, _, err := sq.Select("raw").From(turnsTable).Where("turn = ?").ToSql()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build load query: %w", err)
	}
	if s.loadTurnStmt, err = db.Prepare(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) createSchema() error {
	importsDDL := `
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);`

	turnsDDL := `
	CREATE TABLE IF NOT EXISTS turns (
		turn INTEGER PRIMARY KEY,
		game_name TEXT NOT NULL DEFAULT '',
		player_id INTEGER NOT NULL,
		import_id TEXT NOT NULL REFERENCES imports(id),
		imported_at INTEGER NOT NULL,
		raw BLOB NOT NULL
	);`

	for _, ddl := range []string{importsDDL, turnsDDL} {
		if _, err := s.db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.loadTurnStmt != nil {
		s.loadTurnStmt.Close()
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Batch groups the turns written by one import run.
type Batch struct {
	ID    string
	store *SQLiteStore
	count int
}

// BeginImport registers a new import batch for source.
func (s *SQLiteStore) BeginImport(ctx context.Context, source string) (*Batch, error) {
	id := uuid.NewString()
	query, args, err := sq.Insert(importsTable).
		Columns("id", "source", "created_at").
		Values(id, source, time.Now().Unix()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build import query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to register import: %w", err)
	}
	return &Batch{ID: id, store: s}, nil
}

// Put validates raw as a turn file and stores it under its turn number.
// A turn already present is replaced. The stored key is the turn number the
// caller asked for, so a directory of files can be remapped onto a range.
func (b *Batch) Put(ctx context.Context, turn int, raw []byte) error {
	t, err := DecodeBytes(raw)
	if err != nil {
		return fmt.Errorf("turn %d: %w", turn, err)
	}

	query, args, err := sq.Insert(turnsTable).
		Columns("turn", "game_name", "player_id", "import_id", "imported_at", "raw").
		Values(turn, t.GameName, t.Player.ID, b.ID, time.Now().Unix(), raw).
		Suffix(`ON CONFLICT(turn) DO UPDATE SET
			game_name = excluded.game_name,
			player_id = excluded.player_id,
			import_id = excluded.import_id,
			imported_at = excluded.imported_at,
			raw = excluded.raw`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := b.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save turn %d: %w", turn, err)
	}

	b.count++
	log.Debug("stored turn", "turn", turn, "import", b.ID, "size", humanize.Bytes(uint64(len(raw))))
	return nil
}

// Count returns how many turns this batch has stored.
func (b *Batch) Count() int {
	return b.count
}

// Load implements Loader.
func (s *SQLiteStore) Load(ctx context.Context, turn int) (*Turn, error) {
	var raw []byte
	err := s.loadTurnStmt.QueryRowContext(ctx, turn).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: turn %d not in %s", ErrNotFound, turn, s.filename)
	} else if err != nil {
		return nil, fmt.Errorf("failed to load turn %d: %w", turn, err)
	}
	return DecodeBytes(raw)
}

// Turns lists the stored turns in ascending order.
func (s *SQLiteStore) Turns(ctx context.Context) ([]StoredTurn, error) {
	query, args, err := sq.Select("turn", "game_name", "player_id", "import_id", "imported_at", "length(raw)").
		From(turnsTable).
		OrderBy("turn").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}
	defer rows.Close()

	var turns []StoredTurn
	for rows.Next() {
		var st StoredTurn
		var importedAt int64
		if err := rows.Scan(&st.Turn, &st.GameName, &st.PlayerID, &st.ImportID, &importedAt, &st.Size); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		st.ImportedAt = time.Unix(importedAt, 0)
		turns = append(turns, st)
	}
	return turns, rows.Err()
}
