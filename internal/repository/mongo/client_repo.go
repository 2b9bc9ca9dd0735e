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

const clientCollectionName = "clients"

// mongoClientRepository implements the repository.ClientRepository interface using MongoDB.
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new instance of mongoClientRepository.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Find retrieves the clients matching filter. Id lists are read in chunks of
// repository.MaxInClause.
func (r *mongoClientRepository) Find(ctx context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
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

	var (
		clients []domain.Client
		err     error
	)
	if len(filter.IDs) == 0 {
		clients, err = findAll[domain.Client](ctx, r.collection, base)
	} else {
		clients, err = repository.FetchInBatches(ctx, filter.IDs, func(ctx context.Context, chunk []string) ([]domain.Client, error) {
			q := bson.M{"_id": bson.M{"$in": chunk}}
			for k, v := range base {
				q[k] = v
			}
			return findAll[domain.Client](ctx, r.collection, q)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	return clients, nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "companyId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
