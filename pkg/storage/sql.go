package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQL stores blobs as rows of the client_state table.
type SQL struct {
	conn *gorm.DB
	now  func() time.Time
}

func NewSQL(conn *gorm.DB) (*SQL, error) {
	if conn == nil {
		return nil, fmt.Errorf("db connection is required")
	}
	return &SQL{conn: conn, now: time.Now}, nil
}

func (s *SQL) Load(ctx context.Context, key string) ([]byte, error) {
	var row models.ClientState
	err := s.conn.WithContext(ctx).
		Where("state_key = ?", key).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load client state: %w", err)
	}
	return []byte(row.Payload), nil
}

func (s *SQL) Save(ctx context.Context, key string, value []byte) error {
	row := models.ClientState{
		Key:       key,
		Payload:   string(value),
		UpdatedAt: s.now().UTC(),
	}
	err := s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "state_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save client state: %w", err)
	}
	return nil
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	err := s.conn.WithContext(ctx).
		Where("state_key = ?", key).
		Delete(&models.ClientState{}).Error
	if err != nil {
		return fmt.Errorf("remove client state: %w", err)
	}
	return nil
}
