package mongo

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/repository"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const checkInCollectionName = "checkIns"

// mongoCheckInRepository implements repository.CheckInRepository
type mongoCheckInRepository struct {
	collection *mongo.Collection
}

// NewMongoCheckInRepository creates a new CheckIn repository backed by MongoDB.
func NewMongoCheckInRepository(db *mongo.Database) repository.CheckInRepository {
	return &mongoCheckInRepository{
		collection: db.Collection(checkInCollectionName),
	}
}

// Find retrieves check-ins matching filter, oldest first.
func (r *mongoCheckInRepository) Find(ctx context.Context, filter repository.CheckInFilter) ([]domain.CheckIn, error) {
	base := bson.M{}
	if filter.CompanyID != "" {
		base["companyId"] = filter.CompanyID
	}
	if filter.CoachID != "" {
		base["coachId"] = filter.CoachID
	}
	if filter.Status != "" {
		base["status"] = filter.Status
	}
	if cond := rangeFilter(filter.Range); cond != nil {
		base["timestamp"] = cond
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	var (
		checkIns []domain.CheckIn
		err      error
	)
	if len(filter.ClientIDs) == 0 {
		checkIns, err = findAll[domain.CheckIn](ctx, r.collection, base, findOptions)
	} else {
		checkIns, err = repository.FetchInBatches(ctx, filter.ClientIDs, func(ctx context.Context, chunk []string) ([]domain.CheckIn, error) {
			q := bson.M{"clientId": bson.M{"$in": chunk}}
			for k, v := range base {
				q[k] = v
			}
			return findAll[domain.CheckIn](ctx, r.collection, q, findOptions)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find check-ins: %w", err)
	}
	for i := range checkIns {
		normalizeAnswers(checkIns[i].Answers)
	}
	return checkIns, nil
}

// EnsureCheckInIndexes creates necessary indexes for the checkIns collection.
func EnsureCheckInIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Range scans per client
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
