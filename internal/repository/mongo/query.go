package mongo

import (
	"alcyxob/coach-analytics/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// findAll runs filter against collection and decodes every document.
func findAll[T any](ctx context.Context, collection *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx) // Ensure cursor is closed

	docs := []T{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// rangeFilter builds an inclusive {$gte, $lte} condition, or nil when the
// range is unset.
func rangeFilter(r domain.DateRange) bson.M {
	if r.IsZero() {
		return nil
	}
	cond := bson.M{}
	if !r.Start.IsZero() {
		cond["$gte"] = r.Start
	}
	if !r.End.IsZero() {
		cond["$lte"] = r.End
	}
	return cond
}

// normalizeAnswers converts driver-specific array values into plain []any so
// the classifier never sees bson types.
func normalizeAnswers(answers map[string]any) {
	for k, v := range answers {
		if arr, ok := v.(primitive.A); ok {
			answers[k] = []any(arr)
		}
	}
}
