package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	perrors "github.com/artztall/product_service/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const skipIntegrationTests = "PRODUCT_SVC_SKIP_INTEGRATION_TESTS"

// MongoStoreSuite is a test suite for the MongoDB-backed ProductStore.
type MongoStoreSuite struct {
	suite.Suite                               // Embedding testify suite for structured testing
	container testcontainers.Container        // MongoDB container for integration tests
	client    *mongo.Client                   // MongoDB client connected to the container
	db        *mongo.Database                 // Database used by the store under test
	store     ProductStore                    //
	logger    *slog.Logger                    // Logger for the test suite
	ctx       context.Context                 // Context for the test suite, used for cancellation and timeouts
}

// SetupSuite starts a MongoDB container and connects the store to it.
func (s *MongoStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	var err error
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// 1. Start a MongoDB container and wait for it to accept connections.
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(5 * time.Minute),
	}
	s.container, err = testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err, "Failed to run MongoDB container")

	// 2. Build the connection URI from the mapped port
	host, err := s.container.Host(s.ctx)
	require.NoError(s.T(), err, "Failed to get container host")
	port, err := s.container.MappedPort(s.ctx, "27017/tcp")
	require.NoError(s.T(), err, "Failed to get mapped port")
	uri := fmt.Sprintf("mongodb://%s:%s", host, port.Port())

	// 3. Connect the MongoDB client
	s.client, err = mongo.Connect(s.ctx, options.Client().ApplyURI(uri))
	require.NoError(s.T(), err, "Failed to create MongoDB client")

	// 3.1 Ping the database to ensure the connection is established
	for i := range 10 {
		s.logger.Info("Pinging MongoDB database", "attempt", i+1)
		err = s.client.Ping(s.ctx, readpref.Primary())
		if err == nil {
			break
		}
		time.Sleep(time.Second * 2)
	}
	require.NoError(s.T(), err, "Failed to connect to MongoDB after retries")

	s.db = s.client.Database("products_test")
	s.store = NewMongoStore(s.db)
	s.logger.Info("Initialization complete for MongoStoreSuite")
}

// TearDownSuite cleans up resources after all tests in the suite have run.
func (s *MongoStoreSuite) TearDownSuite() {
	s.logger.Info("Tearing down suite...")
	if s.client != nil {
		if err := s.client.Disconnect(s.ctx); err != nil {
			s.logger.Warn("failed to disconnect MongoDB client", "error", err)
		}
	}
	if s.container != nil {
		s.logger.Info("Terminating MongoDB container...")
		if err := s.container.Terminate(s.ctx); err != nil {
			s.logger.Warn("failed to terminate MongoDB container", "error", err)
		} else {
			s.logger.Info("MongoDB container terminated.")
		}
	}
}

// SetupTest isolates each test by dropping the products collection.
func (s *MongoStoreSuite) SetupTest() {
	err := s.db.Collection(productsCollection).Drop(s.ctx)
	require.NoError(s.T(), err, "Failed to drop products collection")
}

// TestMongoStoreIntegration runs the MongoDB store integration tests.
func TestMongoStoreIntegration(t *testing.T) {
	// Skip integration tests if the environment variable is set
	if os.Getenv(skipIntegrationTests) == "1" {
		t.Skip("Skipping integration tests based on " + skipIntegrationTests + " env var")
	}
	// Run the test suite
	suite.Run(t, new(MongoStoreSuite))
}

// newProduct builds a record with sensible defaults for the integration tests.
func newProduct(name string) *Product {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &Product{
		Name:        name,
		Description: "integration test record",
		Price:       100,
		ArtistID:    "artist-it",
		Category:    "Painting",
		Tags:        []string{"oil"},
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *MongoStoreSuite) TestSaveAssignsIDAndFindByID() {
	// when
	saved, err := s.store.Save(s.ctx, newProduct("Sunset"))
	// then
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), saved.ID)

	found, err := s.store.FindByID(s.ctx, saved.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Sunset", found.Name)
	assert.True(s.T(), saved.CreatedAt.Equal(found.CreatedAt), "creation time should survive the round trip")
}

func (s *MongoStoreSuite) TestSaveReplacesExisting() {
	// given
	saved, err := s.store.Save(s.ctx, newProduct("Before"))
	require.NoError(s.T(), err)
	// when
	saved.Name = "After"
	saved.IsAvailable = false
	_, err = s.store.Save(s.ctx, saved)
	// then
	require.NoError(s.T(), err)
	found, err := s.store.FindByID(s.ctx, saved.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "After", found.Name)
	assert.False(s.T(), found.IsAvailable)
}

func (s *MongoStoreSuite) TestFindByIDNotFound() {
	found, err := s.store.FindByID(s.ctx, "64f000000000000000000000")
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
	assert.Nil(s.T(), found)
}

func (s *MongoStoreSuite) TestDeleteByID() {
	// given
	saved, err := s.store.Save(s.ctx, newProduct("Doomed"))
	require.NoError(s.T(), err)
	// when
	require.NoError(s.T(), s.store.DeleteByID(s.ctx, saved.ID))
	// then
	_, err = s.store.FindByID(s.ctx, saved.ID)
	assert.ErrorIs(s.T(), err, perrors.ErrProductNotFound)

	// deleting an unknown ID is not an error
	assert.NoError(s.T(), s.store.DeleteByID(s.ctx, saved.ID))
}

func (s *MongoStoreSuite) TestFindAllPagination() {
	// given
	for i := 0; i < 5; i++ {
		_, err := s.store.Save(s.ctx, newProduct(fmt.Sprintf("Work %d", i)))
		require.NoError(s.T(), err)
	}
	// when
	firstPage, total, err := s.store.FindAll(s.ctx, 0, 2)
	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(5), total)
	assert.Len(s.T(), firstPage, 2)

	lastPage, total, err := s.store.FindAll(s.ctx, 2, 2)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(5), total)
	assert.Len(s.T(), lastPage, 1)

	beyond, _, err := s.store.FindAll(s.ctx, 5, 2)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), beyond)
}

func (s *MongoStoreSuite) TestFindByArtistID() {
	// given
	mine := newProduct("Mine")
	_, err := s.store.Save(s.ctx, mine)
	require.NoError(s.T(), err)
	other := newProduct("Theirs")
	other.ArtistID = "artist-other"
	_, err = s.store.Save(s.ctx, other)
	require.NoError(s.T(), err)
	// when
	list, err := s.store.FindByArtistID(s.ctx, "artist-it")
	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "Mine", list[0].Name)
}

func (s *MongoStoreSuite) TestFindByCategory() {
	// given
	sculpture := newProduct("Bronze")
	sculpture.Category = "Sculpture"
	_, err := s.store.Save(s.ctx, sculpture)
	require.NoError(s.T(), err)
	_, err = s.store.Save(s.ctx, newProduct("Canvas"))
	require.NoError(s.T(), err)
	// when
	list, err := s.store.FindByCategory(s.ctx, "Sculpture")
	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "Bronze", list[0].Name)
}

func (s *MongoStoreSuite) TestFindByPriceRange() {
	// given
	for _, price := range []float64{50, 100, 200, 300} {
		p := newProduct(fmt.Sprintf("Priced %v", price))
		p.Price = price
		_, err := s.store.Save(s.ctx, p)
		require.NoError(s.T(), err)
	}
	// when: bounds are inclusive
	list, err := s.store.FindByPriceRange(s.ctx, 100, 200)
	// then
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 2)

	// inverted range yields an empty result
	empty, err := s.store.FindByPriceRange(s.ctx, 200, 100)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), empty)
}

func (s *MongoStoreSuite) TestFindByTag() {
	// given
	tagged := newProduct("Tagged")
	tagged.Tags = []string{"abstract", "oil"}
	_, err := s.store.Save(s.ctx, tagged)
	require.NoError(s.T(), err)
	untagged := newProduct("Untagged")
	untagged.Tags = nil
	_, err = s.store.Save(s.ctx, untagged)
	require.NoError(s.T(), err)
	// when
	list, err := s.store.FindByTag(s.ctx, "abstract")
	// then
	require.NoError(s.T(), err)
	require.Len(s.T(), list, 1)
	assert.Equal(s.T(), "Tagged", list[0].Name)
}
