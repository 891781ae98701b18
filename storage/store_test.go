package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/invoice-builder/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every pooled connection to :memory: would get its own empty database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.StorageEntry{}))
	return db
}

type failingKeyValue struct {
	getErr error
	setErr error
	raw    map[string]string
}

func (f *failingKeyValue) Get(_ context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.raw[key]
	return v, ok, nil
}

func (f *failingKeyValue) Set(_ context.Context, key, value string) error {
	return f.setErr
}

func sampleBusinesses() []models.Business {
	return []models.Business{
		{ID: "b1", Name: "Acme", Address: "1 Road Runner Way", Phone: "555-0100", Currency: "USD"},
		{ID: "b2", Name: "Globex", Address: "Cypress Creek", Email: "hank@globex.test", Currency: "EUR"},
		{ID: "b3", Name: "", Address: "", Currency: "JPY"},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) KeyValue{
		"Memory": func(t *testing.T) KeyValue { return NewMemoryKeyValue() },
		"Gorm":   func(t *testing.T) KeyValue { return NewGormKeyValue(setupTestDB(t)) },
	}

	for name, newKV := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := NewStore(newKV(t), zap.NewNop())

			assert.Empty(t, store.LoadBusinesses(ctx))
			_, ok := store.LoadSelectedBusinessID(ctx)
			assert.False(t, ok)

			store.SaveBusinesses(ctx, sampleBusinesses())
			assert.Equal(t, sampleBusinesses(), store.LoadBusinesses(ctx))

			store.SaveSelectedBusinessID(ctx, "b2")
			store.SaveSelectedBusinessID(ctx, "b3")
			id, ok := store.LoadSelectedBusinessID(ctx)
			assert.True(t, ok)
			assert.Equal(t, "b3", id)
		})
	}
}

func TestStoreAddUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewGormKeyValue(setupTestDB(t)), zap.NewNop())
	store.SaveBusinesses(ctx, sampleBusinesses()[:2])

	added := models.Business{ID: "b9", Name: "Initech", Currency: "USD"}
	store.AddBusiness(ctx, added)
	list := store.LoadBusinesses(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, added, list[2])

	renamed := list[0]
	renamed.Name = "Acme Corp"
	store.UpdateBusiness(ctx, renamed)
	list = store.LoadBusinesses(ctx)
	assert.Equal(t, "Acme Corp", list[0].Name)
	assert.Equal(t, "b1", list[0].ID)

	store.UpdateBusiness(ctx, models.Business{ID: "missing", Name: "Ghost", Currency: "USD"})
	assert.Len(t, store.LoadBusinesses(ctx), 3)

	store.DeleteBusiness(ctx, "b2")
	list = store.LoadBusinesses(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"b1", "b9"}, []string{list[0].ID, list[1].ID})
}

func TestStoreFailsSoft(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)
	boom := errors.New("quota exceeded")

	store := NewStore(&failingKeyValue{getErr: boom, setErr: boom}, zap.New(core))

	assert.NotPanics(t, func() {
		store.SaveBusinesses(ctx, sampleBusinesses())
		store.SaveSelectedBusinessID(ctx, "b1")
		store.AddBusiness(ctx, sampleBusinesses()[0])
	})
	assert.Empty(t, store.LoadBusinesses(ctx))
	_, ok := store.LoadSelectedBusinessID(ctx)
	assert.False(t, ok)

	assert.NotZero(t, logs.FilterMessage("storage operation failed").Len())
	entry := logs.All()[0]
	assert.Equal(t, "save_businesses", entry.ContextMap()["op"])
}

func TestStoreCorruptAndLegacyData(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.WarnLevel)

	corrupt := NewStore(&failingKeyValue{raw: map[string]string{BusinessesKey: "{not json"}}, zap.New(core))
	assert.Empty(t, corrupt.LoadBusinesses(ctx))
	assert.Equal(t, 1, logs.Len())

	legacy := NewStore(&failingKeyValue{raw: map[string]string{
		BusinessesKey: `[{"id":"old","name":"Old Shop","address":"Main St","email":"x@y.z","logo":"ignored"}]`,
	}}, zap.NewNop())
	list := legacy.LoadBusinesses(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, models.DefaultCurrency, list[0].Currency)
	assert.Equal(t, "Old Shop", list[0].Name)
}

func TestStoreWithoutBackend(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil, nil)
	store.SaveBusinesses(ctx, sampleBusinesses())
	assert.Empty(t, store.LoadBusinesses(ctx))
}

func TestGormKeyValueUpsert(t *testing.T) {
	ctx := context.Background()
	kv := NewGormKeyValue(setupTestDB(t))

	require.NoError(t, kv.Set(ctx, "k", "one"))
	require.NoError(t, kv.Set(ctx, "k", "two"))
	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok, err = kv.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}
