package cache

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCache stores entries as documents in a MongoDB collection, one per
// key. Expired documents are hidden on read and reaped by a TTL index.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

type mongoEntry struct {
	Key       string     `bson:"_id"`
	Data      []byte     `bson:"data"`
	ExpiresAt *time.Time `bson:"expires_at,omitempty"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// NewMongoCache wraps an existing collection. Close does not disconnect the
// collection's client.
func NewMongoCache(coll *mongo.Collection) *MongoCache {
	return &MongoCache{coll: coll, now: time.Now}
}

// DialMongo connects to uri, ensures the TTL index on database.collection
// and returns a store that owns the connection.
func DialMongo(ctx context.Context, uri, database, collection string) (*MongoCache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, networkError("mongo connect", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, networkError("mongo ping", err)
	}
	c := NewMongoCache(client.Database(database).Collection(collection))
	c.client = client
	if err := c.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return c, nil
}

// EnsureIndexes creates the TTL index on expires_at.
func (c *MongoCache) EnsureIndexes(ctx context.Context) error {
	_, err := c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return networkError("mongo create index", err)
	}
	return nil
}

// Get implements Cache.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, networkError("mongo find", err)
	}
	if e.ExpiresAt != nil && c.now().After(*e.ExpiresAt) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set implements Cache.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := c.now().UTC()
	e := mongoEntry{Key: key, Data: data, UpdatedAt: now}
	if ttl > 0 {
		exp := now.Add(ttl)
		e.ExpiresAt = &exp
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return networkError("mongo replace", err)
	}
	return nil
}

// Delete implements Cache.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return networkError("mongo delete", err)
	}
	return nil
}

// List implements Lister.
func (c *MongoCache) List(ctx context.Context, prefix string) ([]string, error) {
	filter := listFilter(prefix, c.now().UTC())
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, networkError("mongo find", err)
	}
	var docs []struct {
		Key string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, networkError("mongo cursor", err)
	}
	keys := make([]string, len(docs))
	for i, d := range docs {
		keys[i] = d.Key
	}
	return keys, nil
}

// listFilter matches live documents whose key starts with prefix.
func listFilter(prefix string, now time.Time) bson.M {
	return bson.M{
		"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)},
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}
}

// Close disconnects the client if the store opened it.
func (c *MongoCache) Close() error {
	if c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

var (
	_ Cache  = (*MongoCache)(nil)
	_ Lister = (*MongoCache)(nil)
)
