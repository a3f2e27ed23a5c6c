package storage

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"backstage-api/domain"
)

type artistEntity struct {
	aztables.Entity
	Name    string  `json:"Name"`
	Genre   string  `json:"Genre"`
	Agent   string  `json:"Agent"`
	Contact string  `json:"Contact"`
	Fee     float64 `json:"Fee"`
}

func artistToEntity(tenant string, a domain.Artist) artistEntity {
	return artistEntity{
		Entity:  aztables.Entity{PartitionKey: tenant, RowKey: a.ID},
		Name:    a.Name,
		Genre:   a.Genre,
		Agent:   a.Agent,
		Contact: a.Contact,
		Fee:     a.Fee,
	}
}

// FetchArtists retrieves the artist roster for the tenant.
func (s *Storage) FetchArtists(ctx context.Context, tenant string) ([]domain.Artist, error) {
	ents, err := listAll[artistEntity](ctx, s.artists, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Artist, len(ents))
	for i, ent := range ents {
		out[i] = domain.Artist{
			ID:      ent.RowKey,
			Name:    ent.Name,
			Genre:   ent.Genre,
			Agent:   ent.Agent,
			Contact: ent.Contact,
			Fee:     ent.Fee,
		}
	}
	return out, nil
}

// InsertArtist persists a new roster entry.
func (s *Storage) InsertArtist(ctx context.Context, tenant string, a domain.Artist) error {
	return addEntity(ctx, s.artists, artistToEntity(tenant, a))
}

// UpdateArtist replaces the stored entry with the given one.
func (s *Storage) UpdateArtist(ctx context.Context, tenant string, a domain.Artist) error {
	return replaceEntity(ctx, s.artists, artistToEntity(tenant, a))
}

// DeleteArtist removes a roster entry.
func (s *Storage) DeleteArtist(ctx context.Context, tenant, id string) error {
	return deleteEntity(ctx, s.artists, tenant, id)
}
