package mongo

import (
	"alcyxob/coach-analytics/internal/domain"
	"alcyxob/coach-analytics/internal/repository"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const coachCollectionName = "coaches"

// mongoCoachRepository implements repository.CoachRepository
type mongoCoachRepository struct {
	collection *mongo.Collection
}

// NewMongoCoachRepository creates a new Coach repository backed by MongoDB.
func NewMongoCoachRepository(db *mongo.Database) repository.CoachRepository {
	return &mongoCoachRepository{
		collection: db.Collection(coachCollectionName),
	}
}

// Find retrieves the coaches matching filter.
func (r *mongoCoachRepository) Find(ctx context.Context, filter repository.CoachFilter) ([]domain.Coach, error) {
	base := bson.M{}
	if filter.CompanyID != "" {
		base["companyId"] = filter.CompanyID
	}
	if filter.Status != "" {
		base["status"] = filter.Status
	}

	var (
		coaches []domain.Coach
		err     error
	)
	if len(filter.IDs) == 0 {
		coaches, err = findAll[domain.Coach](ctx, r.collection, base)
	} else {
		coaches, err = repository.FetchInBatches(ctx, filter.IDs, func(ctx context.Context, chunk []string) ([]domain.Coach, error) {
			q := bson.M{"_id": bson.M{"$in": chunk}}
			for k, v := range base {
				q[k] = v
			}
			return findAll[domain.Coach](ctx, r.collection, q)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find coaches: %w", err)
	}
	return coaches, nil
}
