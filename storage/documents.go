package storage

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"backstage-api/domain"
)

type documentEntity struct {
	aztables.Entity
	Name       string `json:"Name"`
	Kind       string `json:"Kind"`
	URL        string `json:"URL"`
	UploadedAt string `json:"UploadedAt"`
	Tags       string `json:"Tags"`
}

func documentToEntity(tenant string, d domain.Document) documentEntity {
	return documentEntity{
		Entity:     aztables.Entity{PartitionKey: tenant, RowKey: d.ID},
		Name:       d.Name,
		Kind:       d.Kind,
		URL:        d.URL,
		UploadedAt: d.UploadedAt,
		Tags:       encodeTags(d.Tags),
	}
}

// FetchDocuments retrieves every document record for the tenant.
func (s *Storage) FetchDocuments(ctx context.Context, tenant string) ([]domain.Document, error) {
	ents, err := listAll[documentEntity](ctx, s.documents, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Document, len(ents))
	for i, ent := range ents {
		doc := domain.Document{
			ID:         ent.RowKey,
			Name:       ent.Name,
			Kind:       ent.Kind,
			URL:        ent.URL,
			UploadedAt: ent.UploadedAt,
		}
		if ent.Tags != "" {
			_ = json.Unmarshal([]byte(ent.Tags), &doc.Tags)
		}
		out[i] = doc
	}
	return out, nil
}

// InsertDocument persists a new document record.
func (s *Storage) InsertDocument(ctx context.Context, tenant string, d domain.Document) error {
	return addEntity(ctx, s.documents, documentToEntity(tenant, d))
}

// UpdateDocument replaces the stored record with the given one.
func (s *Storage) UpdateDocument(ctx context.Context, tenant string, d domain.Document) error {
	return replaceEntity(ctx, s.documents, documentToEntity(tenant, d))
}

// DeleteDocument removes a document record.
func (s *Storage) DeleteDocument(ctx context.Context, tenant, id string) error {
	return deleteEntity(ctx, s.documents, tenant, id)
}
