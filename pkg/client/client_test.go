package spacefit

import (
	"context"
	"errors"
	"testing"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
	healthuc "github.com/spacefit/spacefit/internal/usecase/health"
)

func TestNew_RequiresAddress(t *testing.T) {
	_, err := New(context.Background(), WithOpenAI("sk-test"))
	if err == nil {
		t.Fatal("New() without address should fail")
	}
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), WithRedis("localhost:6379", ""))
	if err == nil {
		t.Fatal("New() without credentials should fail")
	}
}

func TestMatch_ConvertsResults(t *testing.T) {
	dp := property.Reconstruct("p1", "Austin", "TX", "retail",
		42.5, property.LeaseTripleNet, "Corner storefront",
		[]string{"patio"}, "East Side", []string{"cafe"})

	c := &Client{matcher: &mockMatcherUC{
		matchFn: func(_ context.Context, query string) ([]domain.MatchedProperty, error) {
			if query != "coffee shop" {
				t.Errorf("query = %q, want %q", query, "coffee shop")
			}
			return []domain.MatchedProperty{
				{Property: dp, Score: 8.5, Reason: "great fit"},
			}, nil
		},
	}}

	matches, err := c.Match(context.Background(), "coffee shop")
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Match() returned %d matches, want 1", len(matches))
	}
	m := matches[0]
	if m.Property.ID != "p1" || m.Property.City != "Austin" || m.Property.LeaseType != "triple_net" {
		t.Errorf("match property = %+v", m.Property)
	}
	if m.Score != 8.5 || m.Reason != "great fit" {
		t.Errorf("match = {%g %q}, want {8.5 \"great fit\"}", m.Score, m.Reason)
	}
}

func TestMatch_EmptyQuery(t *testing.T) {
	c := &Client{matcher: &mockMatcherUC{
		matchFn: func(_ context.Context, _ string) ([]domain.MatchedProperty, error) {
			t.Fatal("Match should not reach the pipeline for empty query")
			return nil, nil
		},
	}}
	if _, err := c.Match(context.Background(), ""); err == nil {
		t.Fatal("Match(\"\") should fail")
	}
}

func TestMatch_PropagatesSentinels(t *testing.T) {
	c := &Client{matcher: &mockMatcherUC{
		matchFn: func(_ context.Context, _ string) ([]domain.MatchedProperty, error) {
			return nil, domain.NewStaleIndex([]string{"gone"})
		},
	}}
	_, err := c.Match(context.Background(), "gym")
	if !errors.Is(err, ErrStaleIndex) {
		t.Fatalf("Match() error = %v, want ErrStaleIndex", err)
	}
}

func TestIndexProperty_ValidatesInput(t *testing.T) {
	c := &Client{indexer: &mockIndexerUC{
		indexFn: func(_ context.Context, _ property.Property) error {
			t.Fatal("invalid property should not reach the indexer")
			return nil
		},
	}}
	err := c.IndexProperty(context.Background(), Property{ID: "p1"}) // no description
	if err == nil {
		t.Fatal("IndexProperty() with empty description should fail")
	}
}

func TestIndexProperty_Delegates(t *testing.T) {
	var indexed property.Property
	c := &Client{indexer: &mockIndexerUC{
		indexFn: func(_ context.Context, p property.Property) error {
			indexed = p
			return nil
		},
	}}
	err := c.IndexProperty(context.Background(), Property{
		ID: "p1", City: "Austin", State: "TX",
		RentPerSqft: 40, Description: "Storefront",
	})
	if err != nil {
		t.Fatalf("IndexProperty() error = %v", err)
	}
	if indexed.ID() != "p1" || indexed.Description() != "Storefront" {
		t.Errorf("indexed property = %+v", indexed)
	}
}

func TestGetProperty_NotFound(t *testing.T) {
	c := &Client{indexer: &mockIndexerUC{
		getPropertyFn: func(_ context.Context, _ string) (property.Property, error) {
			return property.Property{}, domain.ErrPropertyNotFound
		},
	}}
	_, err := c.GetProperty(context.Background(), "nope")
	if !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("GetProperty() error = %v, want ErrPropertyNotFound", err)
	}
}

func TestHealth_MapsReport(t *testing.T) {
	c := &Client{health: &mockHealthUC{
		checkFn: func(_ context.Context) healthuc.Report {
			return healthuc.Report{
				Status: healthuc.Degraded,
				Checks: map[string]healthuc.CheckResult{
					"database":  healthuc.CheckOK,
					"embedding": healthuc.CheckError,
				},
			}
		},
	}}
	r := c.Health(context.Background())
	if r.Status != "degraded" {
		t.Errorf("status = %q, want degraded", r.Status)
	}
	if r.Checks["database"] != "ok" || r.Checks["embedding"] != "error" {
		t.Errorf("checks = %v", r.Checks)
	}
}
