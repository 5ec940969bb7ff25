package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "ledger_buckets"

// BucketCollection - MongoBackend'in kullandığı koleksiyon işlemleri.
// Testlerde sahte implementasyonla değiştirilir.
type BucketCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

type bucketDocument struct {
	Key       string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBackend her kovayı tek bir doküman olarak tutar (_id = kova adı).
type MongoBackend struct {
	coll BucketCollection
}

func NewMongoBackend(coll BucketCollection) *MongoBackend {
	return &MongoBackend{coll: coll}
}

// OpenMongo bağlanır, ping atar ve backend ile kapatma fonksiyonunu döner.
func OpenMongo(ctx context.Context, uri, database string) (*MongoBackend, func(context.Context) error, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	coll := client.Database(database).Collection(mongoCollection)
	return NewMongoBackend(coll), client.Disconnect, nil
}

func (b *MongoBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc bucketDocument
	err := b.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", err)
	}
	return []byte(doc.Payload), true, nil
}

func (b *MongoBackend) Set(ctx context.Context, key string, payload []byte) error {
	doc := bucketDocument{Key: key, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	_, err := b.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}
