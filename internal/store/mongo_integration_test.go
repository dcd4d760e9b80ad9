package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStoreSuite runs the store contract against a MongoDB container.
type MongoStoreSuite struct {
	storeContractSuite
	container *mongodb.MongoDBContainer
	client    *mongo.Client
	coll      *mongo.Collection
	logger    *slog.Logger
}

func (s *MongoStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.container, err = mongodb.Run(s.ctx, "mongo:7.0")
	require.NoError(s.T(), err, "Failed to run MongoDB container")

	uri, err := s.container.ConnectionString(s.ctx)
	require.NoError(s.T(), err, "Failed to get connection string from container")

	connectCtx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()
	s.client, err = mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	require.NoError(s.T(), err, "Failed to connect to MongoDB")

	s.coll = s.client.Database("catalog_test").Collection("shoes")
	s.logger.Info("Initialization complete for MongoStoreSuite")
}

func (s *MongoStoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(s.ctx)
	}
	if s.container != nil {
		if err := s.container.Terminate(s.ctx); err != nil {
			s.T().Logf("failed to terminate MongoDB container: %v", err)
		}
	}
}

// SetupTest drops the collection and recreates the unique sku index.
func (s *MongoStoreSuite) SetupTest() {
	require.NoError(s.T(), s.coll.Drop(s.ctx))
	mongoStore := NewMongoStore(s.coll)
	require.NoError(s.T(), mongoStore.EnsureIndexes(s.ctx))
	s.store = mongoStore
}

func (s *MongoStoreSuite) TestEnsureIndexesIsIdempotent() {
	s.NoError(NewMongoStore(s.coll).EnsureIndexes(s.ctx))
}

func (s *MongoStoreSuite) TestDocumentsHaveNoExtraFields() {
	s.seed()
	var raw map[string]any
	require.NoError(s.T(), s.coll.FindOne(s.ctx, map[string]any{"sku": 4}).Decode(&raw))
	delete(raw, "_id")
	s.ElementsMatch([]string{"sku", "name", "price", "available", "description"}, keys(raw))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestMongoStoreIntegration(t *testing.T) {
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	suite.Run(t, new(MongoStoreSuite))
}
