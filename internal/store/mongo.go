package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implementation
type MongoKV struct {
	col *mongo.Collection
}

type kvDocument struct {
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongoKV(db *mongo.Database) *MongoKV {
	return &MongoKV{col: db.Collection("workflow_kv")}
}

func (m *MongoKV) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var doc kvDocument
	err := m.col.FindOne(ctx, bson.M{"namespace": namespace, "key": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

func (m *MongoKV) Set(ctx context.Context, namespace, key, value string) error {
	filter := bson.M{"namespace": namespace, "key": key}
	update := bson.M{"$set": kvDocument{
		Namespace: namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoKV) List(ctx context.Context, namespace string) (map[string]string, error) {
	cur, err := m.col.Find(ctx, bson.M{"namespace": namespace})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]string{}
	for cur.Next(ctx) {
		var doc kvDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out[doc.Key] = doc.Value
	}
	return out, cur.Err()
}
