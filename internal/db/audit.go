package db

import (
	"context"
	"fmt"
	"os"
	"time"

	model "github.com/glkeru/rewear/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Журнал аудита расчетов: только добавление, пишется после фиксации транзакции
type AuditDB struct {
	mgo  *mongo.Client
	coll *mongo.Collection
}

func NewAuditDB() (*AuditDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mng := os.Getenv("REWEAR_MONGO")
	if mng == "" {
		return nil, fmt.Errorf("env REWEAR_MONGO is not set")
	}

	opts := options.Client().ApplyURI("mongodb://" + mng)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		return nil, err
	}
	coll := client.Database("rewearDB").Collection("settlements")

	return &AuditDB{client, coll}, nil
}

func (a *AuditDB) Append(ctx context.Context, event model.SettlementEvent) error {
	_, err := a.coll.InsertOne(ctx, event)
	return err
}

func (a *AuditDB) Events(ctx context.Context, swap uuid.UUID) ([]model.SettlementEvent, error) {
	var events []model.SettlementEvent
	filter := bson.M{"swap": swap}
	opts := options.Find().SetSort(bson.M{"at": 1})
	result, err := a.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	for result.Next(ctx) {
		var event model.SettlementEvent
		err := result.Decode(&event)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
