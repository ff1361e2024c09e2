package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
	"github.com/invopop/yaml"
)

type blockFile struct {
	Blocks []models.Block `json:"blocks"`
}

// FileStore keeps all blocks in a single YAML document
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(_ context.Context, id string) (models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks, err := s.read()
	if err != nil {
		return models.Block{}, err
	}
	for _, b := range blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Block{}, ErrBlockNotFound
}

// Save inserts or replaces the block with the same id
func (s *FileStore) Save(_ context.Context, block models.Block) error {
	if block.ID == "" {
		return ErrBlockIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks, err := s.read()
	if err != nil {
		return err
	}
	replaced := false
	for i := range blocks {
		if blocks[i].ID == block.ID {
			blocks[i] = block
			replaced = true
		}
	}
	if !replaced {
		blocks = append(blocks, block)
	}
	return s.write(blocks)
}

func (s *FileStore) List(_ context.Context) ([]models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() ([]models.Block, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Block{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	var doc blockFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	if doc.Blocks == nil {
		doc.Blocks = []models.Block{}
	}
	return doc.Blocks, nil
}

// write replaces the file atomically via a temp file in the same directory
func (s *FileStore) write(blocks []models.Block) error {
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].ID < blocks[j].ID })
	data, err := yaml.Marshal(blockFile{Blocks: blocks})
	if err != nil {
		return fmt.Errorf("failed to encode blocks: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}
