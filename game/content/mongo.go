package content

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoSource reads packs from a MongoDB collection, one document per pack
// keyed by the pack id. It satisfies Source so deployments can serve packs
// from a shared database instead of local files.
type MongoSource struct {
	collection *mongo.Collection
}

// NewMongoSource creates a pack source backed by the given collection.
func NewMongoSource(collection *mongo.Collection) *MongoSource {
	return &MongoSource{collection: collection}
}

// LoadPack fetches the pack document, applies defaults, and validates.
func (s *MongoSource) LoadPack(ctx context.Context, id string) (*Pack, error) {
	var pack Pack
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pack)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("pack %q: %w", id, ErrPackNotFound)
		}
		return nil, fmt.Errorf("fetch pack %q: %w", id, err)
	}

	pack.ApplyDefaults()
	if err := pack.Validate(); err != nil {
		return nil, err
	}

	return &pack, nil
}

// ListPacks returns summaries for every pack document in the collection.
// Documents that fail validation are skipped, matching FSSource behavior.
func (s *MongoSource) ListPacks(ctx context.Context) ([]PackInfo, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	defer cursor.Close(ctx)

	var infos []PackInfo
	for cursor.Next(ctx) {
		var pack Pack
		if err := cursor.Decode(&pack); err != nil {
			continue
		}
		pack.ApplyDefaults()
		if err := pack.Validate(); err != nil {
			continue
		}
		infos = append(infos, pack.Info())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate packs: %w", err)
	}

	return infos, nil
}
