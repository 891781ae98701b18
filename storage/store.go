package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourusername/invoice-builder/metrics"
	"github.com/yourusername/invoice-builder/models"
	"go.uber.org/zap"
)

// Storage keys. They match the names used by earlier releases so existing
// data keeps loading.
const (
	BusinessesKey       = "invoice_businesses"
	SelectedBusinessKey = "invoice_selected_business_id"
)

// Store reads and writes business records. Every method fails soft: errors
// are logged and counted, never returned.
type Store struct {
	kv  KeyValue
	log *zap.Logger
}

// NewStore wraps kv. A nil kv yields a store whose every operation fails
// soft, which leaves callers running on in-memory state only.
func NewStore(kv KeyValue, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log.Named("storage")}
}

// LoadBusinesses returns the persisted businesses in stored order, or an
// empty slice when storage is unavailable, corrupt or empty.
func (s *Store) LoadBusinesses(ctx context.Context) []models.Business {
	raw, ok, err := s.get(ctx, BusinessesKey)
	if err != nil {
		s.fail("load_businesses", BusinessesKey, err)
		return []models.Business{}
	}
	if !ok || raw == "" {
		return []models.Business{}
	}
	var list []models.Business
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.fail("load_businesses", BusinessesKey, fmt.Errorf("corrupt business list: %w", err))
		return []models.Business{}
	}
	out := make([]models.Business, 0, len(list))
	for _, b := range list {
		out = append(out, b.Normalize())
	}
	return out
}

// SaveBusinesses overwrites the whole persisted collection.
func (s *Store) SaveBusinesses(ctx context.Context, list []models.Business) {
	if list == nil {
		list = []models.Business{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		s.fail("save_businesses", BusinessesKey, err)
		return
	}
	if err := s.set(ctx, BusinessesKey, string(raw)); err != nil {
		s.fail("save_businesses", BusinessesKey, err)
	}
}

// LoadSelectedBusinessID returns the persisted selection, if any.
func (s *Store) LoadSelectedBusinessID(ctx context.Context) (string, bool) {
	id, ok, err := s.get(ctx, SelectedBusinessKey)
	if err != nil {
		s.fail("load_selected_business", SelectedBusinessKey, err)
		return "", false
	}
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func (s *Store) SaveSelectedBusinessID(ctx context.Context, id string) {
	if err := s.set(ctx, SelectedBusinessKey, id); err != nil {
		s.fail("save_selected_business", SelectedBusinessKey, err)
	}
}

// AddBusiness appends b to the persisted list. Read-append-write is not
// atomic; concurrent writers are last-writer-wins.
func (s *Store) AddBusiness(ctx context.Context, b models.Business) {
	list := s.LoadBusinesses(ctx)
	list = append(list, b)
	s.SaveBusinesses(ctx, list)
}

// UpdateBusiness replaces the persisted record with b's id. Unknown ids are ignored.
func (s *Store) UpdateBusiness(ctx context.Context, b models.Business) {
	list := s.LoadBusinesses(ctx)
	for i := range list {
		if list[i].ID == b.ID {
			list[i] = b
			s.SaveBusinesses(ctx, list)
			return
		}
	}
}

func (s *Store) DeleteBusiness(ctx context.Context, id string) {
	list := s.LoadBusinesses(ctx)
	kept := make([]models.Business, 0, len(list))
	for _, b := range list {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	s.SaveBusinesses(ctx, kept)
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	if s.kv == nil {
		return "", false, ErrUnavailable
	}
	return s.kv.Get(ctx, key)
}

func (s *Store) set(ctx context.Context, key, value string) error {
	if s.kv == nil {
		return ErrUnavailable
	}
	return s.kv.Set(ctx, key, value)
}

func (s *Store) fail(op, key string, err error) {
	metrics.StorageFailures.WithLabelValues(op).Inc()
	s.log.Warn("storage operation failed",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
