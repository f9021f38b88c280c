package deferred

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// waitingDraftRecord is the waiting_drafts table row.
type waitingDraftRecord struct {
	Container   string    `gorm:"primaryKey;size:191"`
	Key         string    `gorm:"primaryKey;size:191"`
	Draft       string    `gorm:"type:text;not null"`
	MissingKeys string    `gorm:"type:text;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`
}

func (waitingDraftRecord) TableName() string {
	return "waiting_drafts"
}

func (r waitingDraftRecord) entry() (Entry, error) {
	var missing []string
	if err := json.Unmarshal([]byte(r.MissingKeys), &missing); err != nil {
		return Entry{}, fmt.Errorf("failed to decode missing keys of %s: %w", ComposeID(r.Container, r.Key), err)
	}
	return Entry{
		WaitingDraft: WaitingDraft{
			Key:         r.Key,
			Draft:       json.RawMessage(r.Draft),
			MissingKeys: missing,
		},
		ID:           ComposeID(r.Container, r.Key),
		Container:    r.Container,
		LastModified: r.UpdatedAt,
	}, nil
}

// GormStore stores waiting drafts in a relational table.
type GormStore struct {
	db       *gorm.DB
	pageSize int
}

// NewGormStore creates the waiting_drafts table if needed and returns a store on db.
func NewGormStore(db *gorm.DB, pageSize int) (*GormStore, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if err := db.AutoMigrate(&waitingDraftRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate waiting drafts table: %w", err)
	}
	return &GormStore{db: db, pageSize: pageSize}, nil
}

func (s *GormStore) Save(ctx context.Context, container string, draft WaitingDraft) (string, error) {
	if err := validate(container, draft); err != nil {
		return "", err
	}

	missing, err := json.Marshal(draft.MissingKeys)
	if err != nil {
		return "", fmt.Errorf("failed to encode missing keys: %w", err)
	}

	rec := waitingDraftRecord{
		Container:   container,
		Key:         draft.Key,
		Draft:       string(draft.Draft),
		MissingKeys: string(missing),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "container"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"draft", "missing_keys", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return "", fmt.Errorf("failed to save waiting draft %s: %w", draft.Key, err)
	}

	return ComposeID(container, draft.Key), nil
}

// Find pages through the container ordered by key.
func (s *GormStore) Find(ctx context.Context, container string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		last := ""
		for {
			var page []waitingDraftRecord
			err := s.db.WithContext(ctx).
				Where(map[string]any{"container": container}).
				Where(clause.Gt{Column: clause.Column{Name: "key"}, Value: last}).
				Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
				Limit(s.pageSize).
				Find(&page).Error
			if err != nil {
				yield(Entry{}, fmt.Errorf("failed to list waiting drafts of %s: %w", container, err))
				return
			}

			for _, rec := range page {
				if !yield(rec.entry()) {
					return
				}
			}

			if len(page) < s.pageSize {
				return
			}
			last = page[len(page)-1].Key
		}
	}
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	container, key, err := SplitID(id)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where(map[string]any{"container": container, "key": key}).
		Delete(&waitingDraftRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete waiting draft %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Containers(ctx context.Context) ([]string, error) {
	var containers []string
	err := s.db.WithContext(ctx).
		Model(&waitingDraftRecord{}).
		Distinct("container").
		Order("container").
		Pluck("container", &containers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return containers, nil
}
