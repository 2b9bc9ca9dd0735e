package firestore

import (
	"alcyxob/coach-analytics/internal/domain"
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	pb "cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

// newOfflineClient returns a client pointed at an emulator address. Nothing
// is dialled until a query runs, so building and serializing queries works
// without a server.
func newOfflineClient(t *testing.T) *firestore.Client {
	t.Helper()
	t.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:8681")
	client, err := firestore.NewClient(context.Background(), "test-project")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// fieldFilters flattens the where clause of q into its field filters.
func fieldFilters(t *testing.T, q firestore.Query) []*pb.StructuredQuery_FieldFilter {
	t.Helper()
	raw, err := q.Serialize()
	require.NoError(t, err)
	var req pb.RunQueryRequest
	require.NoError(t, proto.Unmarshal(raw, &req))

	where := req.GetStructuredQuery().GetWhere()
	if where == nil {
		return nil
	}
	if cf := where.GetCompositeFilter(); cf != nil {
		var out []*pb.StructuredQuery_FieldFilter
		for _, f := range cf.GetFilters() {
			out = append(out, f.GetFieldFilter())
		}
		return out
	}
	return []*pb.StructuredQuery_FieldFilter{where.GetFieldFilter()}
}

func TestWithRangeAppliesOnlySetBounds(t *testing.T) {
	client := newOfflineClient(t)
	base := client.Collection(checkInCollection).Query
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	assert.Empty(t, fieldFilters(t, withRange(base, "timestamp", domain.DateRange{})))

	startOnly := fieldFilters(t, withRange(base, "timestamp", domain.DateRange{Start: start}))
	require.Len(t, startOnly, 1)
	assert.Equal(t, "timestamp", startOnly[0].GetField().GetFieldPath())
	assert.Equal(t, pb.StructuredQuery_FieldFilter_GREATER_THAN_OR_EQUAL, startOnly[0].GetOp())
	assert.True(t, start.Equal(startOnly[0].GetValue().GetTimestampValue().AsTime()))

	closed := fieldFilters(t, withRange(base, "submittedAt", domain.DateRange{Start: start, End: end}))
	require.Len(t, closed, 2)
	assert.Equal(t, pb.StructuredQuery_FieldFilter_GREATER_THAN_OR_EQUAL, closed[0].GetOp())
	assert.Equal(t, "submittedAt", closed[1].GetField().GetFieldPath())
	assert.Equal(t, pb.StructuredQuery_FieldFilter_LESS_THAN_OR_EQUAL, closed[1].GetOp())
	assert.True(t, end.Equal(closed[1].GetValue().GetTimestampValue().AsTime()))
}

func TestDocRefsMatchDocumentIDs(t *testing.T) {
	client := newOfflineClient(t)
	ids := []string{"client-01", "client-02", "client-03"}

	refs := docRefs(client, clientCollection, ids)
	require.Len(t, refs, len(ids))
	for i, ref := range refs {
		assert.Equal(t, ids[i], ref.ID)
		assert.Equal(t, clientCollection, ref.Parent.ID)
	}

	q := client.Collection(clientCollection).Query.Where(firestore.DocumentID, "in", refs)
	filters := fieldFilters(t, q)
	require.Len(t, filters, 1)
	assert.Equal(t, firestore.DocumentID, filters[0].GetField().GetFieldPath())
	assert.Equal(t, pb.StructuredQuery_FieldFilter_IN, filters[0].GetOp())

	values := filters[0].GetValue().GetArrayValue().GetValues()
	require.Len(t, values, len(ids))
	for i, v := range values {
		assert.Equal(t, refs[i].Path, v.GetReferenceValue())
	}
}

func TestDocRefsEmpty(t *testing.T) {
	assert.Empty(t, docRefs(newOfflineClient(t), coachCollection, nil))
}
