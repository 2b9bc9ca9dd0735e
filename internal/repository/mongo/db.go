package mongo

import (
	"alcyxob/coach-analytics/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection. The initial connect can
	// succeed against an unresponsive server.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every Mongo repository against db.
func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Clients:     NewMongoClientRepository(db),
		Coaches:     NewMongoCoachRepository(db),
		CheckIns:    NewMongoCheckInRepository(db),
		Forms:       NewMongoFormRepository(db),
		Submissions: NewMongoSubmissionRepository(db),
		Reports:     NewMongoReportRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection the service reads.
// Call this once during application startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := EnsureClientIndexes(ctx, db.Collection(clientCollectionName)); err != nil {
		return err
	}
	if err := EnsureCheckInIndexes(ctx, db.Collection(checkInCollectionName)); err != nil {
		return err
	}
	if err := EnsureSubmissionIndexes(ctx, db.Collection(submissionCollectionName)); err != nil {
		return err
	}
	return EnsureReportIndexes(ctx, db.Collection(reportCollectionName))
}
