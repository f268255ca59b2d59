// Package catalog is the system-of-record adapter for property listings.
// The matching pipeline only reads it; writes come from the indexing path.
package catalog

import (
	"context"
	"fmt"

	"github.com/spacefit/spacefit/internal/domain"
	"github.com/spacefit/spacefit/internal/domain/property"
)

// store is the consumer interface for the catalog (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Repo implements property catalog storage over hashes.
type Repo struct {
	store store
}

// New creates a catalog repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Put creates or overwrites a property record.
func (r *Repo) Put(ctx context.Context, p property.Property) error {
	fields, err := toFields(p)
	if err != nil {
		return fmt.Errorf("encode property %s: %w", p.ID(), err)
	}
	if err := r.store.HSet(ctx, propertyKey(p.ID()), fields); err != nil {
		return fmt.Errorf("put property %s: %w", p.ID(), err)
	}
	return nil
}

// Get returns a property by id.
func (r *Repo) Get(ctx context.Context, id string) (property.Property, error) {
	fields, err := r.store.HGetAll(ctx, propertyKey(id))
	if err != nil {
		return property.Property{}, fmt.Errorf("get property %s: %w", id, err)
	}
	if len(fields) == 0 {
		return property.Property{}, fmt.Errorf("property %s: %w", id, domain.ErrPropertyNotFound)
	}
	return fromFields(id, fields)
}

// GetMulti resolves ids to full property records, preserving input order.
// An id the index knows but the catalog does not is index/record drift and
// surfaces as a stale index error, never as a silently shortened list.
func (r *Repo) GetMulti(ctx context.Context, ids []string) ([]property.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = propertyKey(id)
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get %d properties: %w", len(ids), err)
	}

	props := make([]property.Property, 0, len(ids))
	var missing []string
	for i, fields := range results {
		if len(fields) == 0 {
			missing = append(missing, ids[i])
			continue
		}
		p, err := fromFields(ids[i], fields)
		if err != nil {
			return nil, fmt.Errorf("decode property %s: %w", ids[i], err)
		}
		props = append(props, p)
	}

	if len(missing) > 0 {
		return nil, domain.NewStaleIndex(missing)
	}
	return props, nil
}

// Delete removes a property record.
func (r *Repo) Delete(ctx context.Context, id string) error {
	if err := r.store.Del(ctx, propertyKey(id)); err != nil {
		return fmt.Errorf("delete property %s: %w", id, err)
	}
	return nil
}

func propertyKey(id string) string {
	return domain.KeyPrefix + "catalog:property:" + id
}
