package spacefit

import (
	"context"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
	healthuc "github.com/spacefit/spacefit/internal/usecase/health"
)

// --- matcherUseCase mock ---

type mockMatcherUC struct {
	matchFn func(ctx context.Context, query string) ([]domain.MatchedProperty, error)
}

func (m *mockMatcherUC) Match(ctx context.Context, query string) ([]domain.MatchedProperty, error) {
	return m.matchFn(ctx, query)
}

// --- indexerUseCase mock ---

type mockIndexerUC struct {
	ensureFn      func(ctx context.Context) error
	indexFn       func(ctx context.Context, p property.Property) error
	indexBatchFn  func(ctx context.Context, props []property.Property) error
	removeFn      func(ctx context.Context, id string) error
	getPropertyFn func(ctx context.Context, id string) (property.Property, error)
}

func (m *mockIndexerUC) EnsureIndex(ctx context.Context) error {
	if m.ensureFn != nil {
		return m.ensureFn(ctx)
	}
	return nil
}

func (m *mockIndexerUC) IndexProperty(ctx context.Context, p property.Property) error {
	return m.indexFn(ctx, p)
}

func (m *mockIndexerUC) IndexProperties(ctx context.Context, props []property.Property) error {
	return m.indexBatchFn(ctx, props)
}

func (m *mockIndexerUC) RemoveProperty(ctx context.Context, id string) error {
	return m.removeFn(ctx, id)
}

func (m *mockIndexerUC) GetProperty(ctx context.Context, id string) (property.Property, error) {
	return m.getPropertyFn(ctx, id)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}
