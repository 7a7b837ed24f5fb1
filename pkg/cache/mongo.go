package cache

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCache stores entries in a MongoDB collection, one document per key.
// Expiration is checked on read, mirroring the file backend, so no TTL
// index setup is required on the collection.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoOptions configures the MongoDB backend.
type MongoOptions struct {
	URI        string // connection string, e.g. "mongodb://localhost:27017"
	Database   string // database name
	Collection string // collection name, e.g. "reports"
}

// mongoEntry is the document schema for cached values.
type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to MongoDB and verifies the connection with a ping.
func NewMongoCache(ctx context.Context, opts MongoOptions) (Cache, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoCache{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

// Get retrieves a value. Expired entries are removed and reported as misses.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set stores a value, replacing any existing document for the key.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, entry, options.Replace().SetUpsert(true))
	return err
}

// Delete removes a value. Deleting a missing key is not an error.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	_, err := c.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Close disconnects the underlying MongoDB client.
func (c *MongoCache) Close() error {
	return c.client.Disconnect(context.Background())
}

// Ensure MongoCache implements Cache.
var _ Cache = (*MongoCache)(nil)
