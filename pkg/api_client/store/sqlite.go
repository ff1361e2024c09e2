package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"

	_ "modernc.org/sqlite"
)

const createBlocksTable = `
CREATE TABLE IF NOT EXISTS blocks (
	id TEXT PRIMARY KEY,
	endpoint TEXT NOT NULL,
	unidades TEXT NOT NULL DEFAULT '[]',
	modalidades TEXT NOT NULL DEFAULT '[]',
	niveis TEXT NOT NULL DEFAULT '[]',
	updated_at TEXT NOT NULL
)`

const upsertBlock = `
INSERT INTO blocks (id, endpoint, unidades, modalidades, niveis, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	endpoint = excluded.endpoint,
	unidades = excluded.unidades,
	modalidades = excluded.modalidades,
	niveis = excluded.niveis,
	updated_at = excluded.updated_at`

const selectBlocks = `SELECT id, endpoint, unidades, modalidades, niveis, updated_at FROM blocks`

// SQLiteStore keeps blocks in a SQLite database, one row per block
type SQLiteStore struct {
	conn *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(createBlocksTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create blocks schema: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.Block, error) {
	row := s.conn.QueryRowContext(ctx, selectBlocks+` WHERE id = ?`, id)
	b, err := scanBlock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Block{}, ErrBlockNotFound
	}
	return b, err
}

// Save inserts or replaces the block with the same id
func (s *SQLiteStore) Save(ctx context.Context, block models.Block) error {
	if block.ID == "" {
		return ErrBlockIDRequired
	}
	units, err := encodeIDs(block.Filters.Units)
	if err != nil {
		return err
	}
	modalities, err := encodeIDs(block.Filters.Modalities)
	if err != nil {
		return err
	}
	levels, err := encodeIDs(block.Filters.Levels)
	if err != nil {
		return err
	}

	_, err = s.conn.ExecContext(ctx, upsertBlock,
		block.ID,
		block.Endpoint,
		units,
		modalities,
		levels,
		block.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save block %s: %w", block.ID, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.Block, error) {
	rows, err := s.conn.QueryContext(ctx, selectBlocks+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	blocks := []models.Block{}
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlock(row scanner) (models.Block, error) {
	var (
		b                         models.Block
		units, modalities, levels string
		updated                   string
	)
	if err := row.Scan(&b.ID, &b.Endpoint, &units, &modalities, &levels, &updated); err != nil {
		return models.Block{}, err
	}
	var err error
	if b.Filters.Units, err = decodeIDs(units); err != nil {
		return models.Block{}, err
	}
	if b.Filters.Modalities, err = decodeIDs(modalities); err != nil {
		return models.Block{}, err
	}
	if b.Filters.Levels, err = decodeIDs(levels); err != nil {
		return models.Block{}, err
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return models.Block{}, fmt.Errorf("block %s: invalid updated_at: %w", b.ID, err)
	}
	return b, nil
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode ids: %w", err)
	}
	return string(data), nil
}

// decodeIDs returns nil for an empty set so unfiltered taxonomies stay omitted
func decodeIDs(raw string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}
