package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mockCollection struct {
	docs       map[string]bucketDocument
	replaceErr error
	upserts    []bool
}

func (m *mockCollection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	key := filter.(bson.M)["_id"].(string)
	doc, ok := m.docs[key]
	if !ok {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(doc, nil, nil)
}

func (m *mockCollection) ReplaceOne(_ context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	upsert := false
	for _, o := range opts {
		if o.Upsert != nil {
			upsert = *o.Upsert
		}
	}
	m.upserts = append(m.upserts, upsert)
	key := filter.(bson.M)["_id"].(string)
	m.docs[key] = replacement.(bucketDocument)
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func TestMongoBackend_GetMissing(t *testing.T) {
	b := NewMongoBackend(&mockCollection{docs: map[string]bucketDocument{}})
	payload, found, err := b.Get(context.Background(), "daily_closings")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, payload)
}

func TestMongoBackend_SetThenGet(t *testing.T) {
	coll := &mockCollection{docs: map[string]bucketDocument{}}
	b := NewMongoBackend(coll)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "daily_closings", []byte(`{"version":1,"records":[]}`)))
	assert.Equal(t, []bool{true}, coll.upserts)

	payload, found, err := b.Get(ctx, "daily_closings")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"version":1,"records":[]}`, string(payload))
}

func TestMongoBackend_ReplaceError(t *testing.T) {
	b := NewMongoBackend(&mockCollection{docs: map[string]bucketDocument{}, replaceErr: errors.New("timeout")})
	err := b.Set(context.Background(), "k", []byte("[]"))
	assert.ErrorContains(t, err, "mongo replace")
}

func TestMongoBackend_WithStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMongoBackend(&mockCollection{docs: map[string]bucketDocument{}}), "", nil)

	require.NoError(t, store.Save(ctx, record("A", 10, 2)))
	records := store.List(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, 8.0, records[0].Balance)
}
