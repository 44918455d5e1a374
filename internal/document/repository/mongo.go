package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/gogotex/gogotex/backend/doc-revisions/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores one MongoDB document per DocumentRevision. A unique index
// on (key, order) turns concurrent appends to the same chain into conflicts.
// Persist needs a deployment that supports transactions (replica set).
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(ctx context.Context, col *mongo.Collection) (*MongoRepo, error) {
	idx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "key", Value: 1}, {Key: "order", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sections.key", Value: 1}, {Key: "sections.revision", Value: 1}}},
	}
	if _, err := col.Indexes().CreateMany(ctx, idx); err != nil {
		return nil, fmt.Errorf("create revision indexes: %w", err)
	}
	return &MongoRepo{col: col}, nil
}

func (m *MongoRepo) LoadChain(ctx context.Context, documentKey string) ([]document.DocumentRevision, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cur, err := m.col.Find(ctx, bson.M{"key": documentKey}, opts)
	if err != nil {
		return nil, fmt.Errorf("load chain %s: %w", documentKey, err)
	}
	defer cur.Close(ctx)
	out := []document.DocumentRevision{}
	for cur.Next(ctx) {
		var rev document.DocumentRevision
		if err := cur.Decode(&rev); err != nil {
			return nil, fmt.Errorf("decode revision: %w", err)
		}
		out = append(out, rev)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) Persist(ctx context.Context, revisions []document.DocumentRevision) error {
	if len(revisions) == 0 {
		return nil
	}
	sess, err := m.col.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, rev := range revisions {
			opts := options.Replace().SetUpsert(true)
			if _, err := m.col.ReplaceOne(sc, bson.M{"_id": rev.ID}, rev, opts); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", document.ErrConflict, err)
		}
		return fmt.Errorf("persist revisions: %w", err)
	}
	return nil
}

func (m *MongoRepo) ListDocumentKeys(ctx context.Context) ([]string, error) {
	vals, err := m.col.Distinct(ctx, "key", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list document keys: %w", err)
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}
