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

const (
	formCollectionName       = "checkInForms"
	submissionCollectionName = "formSubmissions"
)

// mongoFormRepository implements repository.FormRepository
type mongoFormRepository struct {
	collection *mongo.Collection
}

// NewMongoFormRepository creates a new form repository backed by MongoDB.
func NewMongoFormRepository(db *mongo.Database) repository.FormRepository {
	return &mongoFormRepository{
		collection: db.Collection(formCollectionName),
	}
}

// Find retrieves the check-in forms of a company, optionally of one coach.
func (r *mongoFormRepository) Find(ctx context.Context, filter repository.FormFilter) ([]domain.CheckInForm, error) {
	q := bson.M{}
	if filter.CompanyID != "" {
		q["companyId"] = filter.CompanyID
	}
	if filter.CoachID != "" {
		q["coachId"] = filter.CoachID
	}
	forms, err := findAll[domain.CheckInForm](ctx, r.collection, q)
	if err != nil {
		return nil, fmt.Errorf("find forms: %w", err)
	}
	return forms, nil
}

// mongoSubmissionRepository implements repository.SubmissionRepository
type mongoSubmissionRepository struct {
	collection *mongo.Collection
}

// NewMongoSubmissionRepository creates a new submission repository backed by MongoDB.
func NewMongoSubmissionRepository(db *mongo.Database) repository.SubmissionRepository {
	return &mongoSubmissionRepository{
		collection: db.Collection(submissionCollectionName),
	}
}

// Find retrieves submissions of the given forms, oldest first.
func (r *mongoSubmissionRepository) Find(ctx context.Context, filter repository.SubmissionFilter) ([]domain.FormSubmission, error) {
	base := bson.M{}
	if filter.CompanyID != "" {
		base["companyId"] = filter.CompanyID
	}
	if filter.Status != "" {
		base["status"] = filter.Status
	}
	if cond := rangeFilter(filter.Range); cond != nil {
		base["submittedAt"] = cond
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})

	var (
		subs []domain.FormSubmission
		err  error
	)
	if len(filter.FormIDs) == 0 {
		subs, err = findAll[domain.FormSubmission](ctx, r.collection, base, findOptions)
	} else {
		subs, err = repository.FetchInBatches(ctx, filter.FormIDs, func(ctx context.Context, chunk []string) ([]domain.FormSubmission, error) {
			q := bson.M{"formId": bson.M{"$in": chunk}}
			for k, v := range base {
				q[k] = v
			}
			return findAll[domain.FormSubmission](ctx, r.collection, q, findOptions)
		})
	}
	if err != nil {
		return nil, fmt.Errorf("find submissions: %w", err)
	}
	for i := range subs {
		normalizeAnswers(subs[i].Answers)
	}
	return subs, nil
}

// EnsureSubmissionIndexes creates necessary indexes for the submissions collection.
func EnsureSubmissionIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: 1}},
		Options: options.Index(),
	})
	return err
}
