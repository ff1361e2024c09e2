package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/ifrs/cursos-estude-api/pkg/api_client/models"
)

var (
	// ErrBlockNotFound is returned for block ids that were never saved
	ErrBlockNotFound = errors.New("bloco não encontrado")
	// ErrBlockIDRequired is returned when saving a block without id
	ErrBlockIDRequired = errors.New("bloco sem id")
)

// BlockStore persists the attributes of configured course blocks
type BlockStore interface {
	Get(ctx context.Context, id string) (models.Block, error)
	Save(ctx context.Context, block models.Block) error
	List(ctx context.Context) ([]models.Block, error)
	Close() error
}

// Open returns the store for kind ("yaml" or "sqlite") at path
func Open(kind, path string) (BlockStore, error) {
	switch kind {
	case "yaml":
		return NewFileStore(path)
	case "sqlite":
		return NewSQLiteStore(path)
	}
	return nil, fmt.Errorf("block store %q não suportado", kind)
}
