package mongo

import (
	"alcyxob/coach-analytics/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRangeFilterIsInclusive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.M{"$gte": start, "$lte": end}, rangeFilter(domain.DateRange{Start: start, End: end}))
	assert.Equal(t, bson.M{"$gte": start}, rangeFilter(domain.DateRange{Start: start}))
	assert.Nil(t, rangeFilter(domain.DateRange{}))
}

func TestNormalizeAnswersUnwrapsBSONArrays(t *testing.T) {
	answers := map[string]any{
		"q1": primitive.A{"sleep", "stress"},
		"q2": int32(7),
		"q3": "felt great",
	}
	normalizeAnswers(answers)

	assert.Equal(t, []any{"sleep", "stress"}, answers["q1"])
	assert.Equal(t, int32(7), answers["q2"])
	assert.Equal(t, "felt great", answers["q3"])
}
