package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/spacefit/spacefit/internal/db"
	"github.com/spacefit/spacefit/internal/domain"
)

type mockStore struct {
	hsetMultiItems []db.HashSetItem
	hsetMultiErr   error
	searchResult   *db.SearchResult
	searchErr      error
	lastKNNQuery   *db.KNNQuery
	indexExists    bool
	createdIndex   *db.IndexDefinition
	delKeys        []string
}

func (m *mockStore) HSet(_ context.Context, _ string, _ map[string]string) error { return nil }

func (m *mockStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	m.hsetMultiItems = items
	return m.hsetMultiErr
}

func (m *mockStore) Del(_ context.Context, key string) error {
	m.delKeys = append(m.delKeys, key)
	return nil
}

func (m *mockStore) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastKNNQuery = q
	return m.searchResult, m.searchErr
}

func (m *mockStore) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	m.createdIndex = def
	return nil
}

func (m *mockStore) IndexExists(_ context.Context, _ string) (bool, error) {
	return m.indexExists, nil
}

func testConfig() domain.IndexConfig {
	return domain.IndexConfig{Name: "properties", Dimensions: 4}
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	repo := New(&mockStore{}, testConfig())

	err := repo.Upsert(context.Background(), "property", []domain.IndexRecord{
		{ID: "p1", Vector: []float32{0.1, 0.2}},
	})
	if err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
	if !errors.Is(err, domain.ErrIndex) {
		t.Errorf("expected ErrIndex, got %v", err)
	}
}

func TestUpsert_WritesVectorAndMetadata(t *testing.T) {
	store := &mockStore{}
	repo := New(store, testConfig())

	rec := domain.IndexRecord{
		ID:       "p1",
		Vector:   []float32{0.1, 0.2, 0.3, 0.4},
		Metadata: domain.PropertyMetadata("Austin", "TX", 42.5),
	}
	if err := repo.Upsert(context.Background(), "property", []domain.IndexRecord{rec}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if len(store.hsetMultiItems) != 1 {
		t.Fatalf("expected 1 pipelined item, got %d", len(store.hsetMultiItems))
	}
	item := store.hsetMultiItems[0]
	if item.Key != domain.KeyPrefix+"vec:property:p1" {
		t.Errorf("unexpected key %q", item.Key)
	}
	if item.Fields["city"] != "Austin" || item.Fields["state"] != "TX" || item.Fields["rent"] != "42.5" {
		t.Errorf("unexpected metadata fields: %v", item.Fields)
	}
	if len(item.Fields["vector"]) != 16 {
		t.Errorf("vector field should be 16 bytes, got %d", len(item.Fields["vector"]))
	}
}

func TestUpsert_EmptyIsNoop(t *testing.T) {
	store := &mockStore{}
	repo := New(store, testConfig())

	if err := repo.Upsert(context.Background(), "property", nil); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if store.hsetMultiItems != nil {
		t.Error("expected no store call for empty record set")
	}
}

func TestQuery_DimensionMismatch(t *testing.T) {
	repo := New(&mockStore{}, testConfig())

	_, err := repo.Query(context.Background(), "property", []float32{0.1}, 10)
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Errorf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestQuery_ReturnsHitsInOrder(t *testing.T) {
	store := &mockStore{
		searchResult: &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: domain.KeyPrefix + "vec:property:b", Score: 0.95},
				{Key: domain.KeyPrefix + "vec:property:a", Score: 0.80},
			},
		},
	}
	repo := New(store, testConfig())

	hits, err := repo.Query(context.Background(), "property", []float32{0.1, 0.2, 0.3, 0.4}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].ID != "b" || hits[1].ID != "a" {
		t.Errorf("hit order not preserved: %v", hits)
	}
	if hits[0].Similarity != 0.95 {
		t.Errorf("similarity = %f", hits[0].Similarity)
	}
	if store.lastKNNQuery.K != 10 {
		t.Errorf("topK = %d", store.lastKNNQuery.K)
	}
}

func TestQuery_IndexErrorWrapped(t *testing.T) {
	store := &mockStore{searchErr: errors.New("connection refused")}
	repo := New(store, testConfig())

	_, err := repo.Query(context.Background(), "property", []float32{0.1, 0.2, 0.3, 0.4}, 10)
	if !errors.Is(err, domain.ErrIndex) {
		t.Errorf("expected ErrIndex, got %v", err)
	}
}

func TestEnsureIndex_SkipsExisting(t *testing.T) {
	store := &mockStore{indexExists: true}
	repo := New(store, testConfig())

	if err := repo.EnsureIndex(context.Background(), "property"); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if store.createdIndex != nil {
		t.Error("should not create an existing index")
	}
}

func TestEnsureIndex_CreatesWithVectorField(t *testing.T) {
	store := &mockStore{}
	repo := New(store, testConfig()).WithHNSW(HNSWConfig{M: 32, EFConstruct: 400})

	if err := repo.EnsureIndex(context.Background(), "property"); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	if store.createdIndex == nil {
		t.Fatal("expected index creation")
	}

	var vecField *db.IndexField
	for i := range store.createdIndex.Fields {
		if store.createdIndex.Fields[i].Type == db.IndexFieldVector {
			vecField = &store.createdIndex.Fields[i]
		}
	}
	if vecField == nil {
		t.Fatal("expected a vector field in the index definition")
	}
	if vecField.VectorDim != 4 {
		t.Errorf("vector dim = %d, want 4", vecField.VectorDim)
	}
	if vecField.VectorM != 32 || vecField.VectorEFConstruct != 400 {
		t.Errorf("hnsw params not applied: M=%d EF=%d", vecField.VectorM, vecField.VectorEFConstruct)
	}
}
