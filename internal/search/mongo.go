package search

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIndex implements Index on a MongoDB text index. Each searchable kind
// maps to one collection; documents carry the row id as _id plus the
// searchable fields.
type MongoIndex struct {
	db *mongo.Database
}

// NewMongoIndex creates a MongoIndex on the named database.
func NewMongoIndex(client *mongo.Client, database string) *MongoIndex {
	return &MongoIndex{db: client.Database(database)}
}

// EnsureIndexes creates the text index on each collection. Safe to call on
// every startup; Mongo treats an existing identical index as a no-op.
func (m *MongoIndex) EnsureIndexes(ctx context.Context, collections ...string) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "title", Value: "text"}, {Key: "body", Value: "text"}},
	}
	for _, name := range collections {
		if _, err := m.db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return err
		}
	}
	return nil
}

// Upsert writes the document for docID, replacing any previous version.
func (m *MongoIndex) Upsert(ctx context.Context, collection string, docID uint, fields map[string]interface{}) error {
	doc := bson.M{"_id": docID}
	for k, v := range fields {
		doc[k] = v
	}
	opts := options.Replace().SetUpsert(true)
	_, err := m.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": docID}, doc, opts)
	return err
}

// Remove deletes the document for docID. Removing a missing document is not
// an error.
func (m *MongoIndex) Remove(ctx context.Context, collection string, docID uint) error {
	_, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": docID})
	return err
}

// Prune deletes every document whose id is not in keep. An empty keep clears
// the collection.
func (m *MongoIndex) Prune(ctx context.Context, collection string, keep []uint) error {
	// A nil slice marshals $nin as BSON null, which Mongo rejects; always
	// send a real array.
	ids := make(bson.A, len(keep))
	for i, id := range keep {
		ids[i] = id
	}
	_, err := m.db.Collection(collection).DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}})
	return err
}

// Query runs a text search and returns the matching row ids in relevance
// order plus the total match count.
func (m *MongoIndex) Query(ctx context.Context, collection, text string, page, pageSize int) ([]uint, int64, error) {
	coll := m.db.Collection(collection)
	filter := bson.M{"$text": bson.M{"$search": text}}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	findOptions := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := coll.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID uint `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, total, nil
}
