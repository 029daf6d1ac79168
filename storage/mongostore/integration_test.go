//go:build integration

package mongostore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/model"
	"github.com/ayush9goyal/graphql-k8s-demo/storage"
)

func startMongoContainer(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	return container, fmt.Sprintf("mongodb://%s:%s/storefront_it", host, port.Port())
}

func TestIntegration_Store(t *testing.T) {
	ctx := context.Background()

	container, uri := startMongoContainer(ctx, t)
	defer container.Terminate(ctx)

	store, err := Connect(ctx, Config{URI: uri, ConnectTimeout: 20 * time.Second}, nil)
	require.NoError(t, err)
	defer store.Close(ctx)

	assert.Equal(t, "storefront_it", store.Database().Name())
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.EnsureIndexes(ctx))

	t.Run("create and find", func(t *testing.T) {
		user := &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "pw"}
		require.NoError(t, store.Users().Create(ctx, user))
		require.False(t, user.ID.IsZero())
		require.False(t, user.CreatedAt.IsZero())

		found, err := store.Users().FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Ada", found.Name)
		assert.Equal(t, user.CreatedAt.UnixMilli(), found.CreatedAt.UnixMilli())
	})

	t.Run("missing id yields nil", func(t *testing.T) {
		found, err := store.Categories().FindByID(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("filter and populate", func(t *testing.T) {
		books := &model.Category{Name: "Books"}
		toys := &model.Category{Name: "Toys"}
		require.NoError(t, store.Categories().Create(ctx, books))
		require.NoError(t, store.Categories().Create(ctx, toys))

		for i, cat := range []*model.Category{books, books, toys} {
			id := cat.ID
			p := &model.Product{Name: fmt.Sprintf("p%d", i), Price: 1.5, Category: &id}
			require.NoError(t, store.Products().Create(ctx, p))
		}

		products, err := store.Products().FindMany(ctx, storage.Eq(model.FieldCategory, books.ID))
		require.NoError(t, err)
		require.Len(t, products, 2)

		require.NoError(t, storage.PopulateCategories(ctx, store.Categories(), products))
		for _, p := range products {
			require.NotNil(t, p.CategoryDoc)
			assert.Equal(t, "Books", p.CategoryDoc.Name)
		}

		all, err := store.Products().FindMany(ctx, storage.All())
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("order with empty items", func(t *testing.T) {
		order := &model.Order{User: primitive.NewObjectID(), Total: 0}
		require.NoError(t, store.Orders().Create(ctx, order))

		found, err := store.Orders().FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.NotNil(t, found.Items)
		assert.Empty(t, found.Items)
	})
}

func TestIntegration_ConnectFailure(t *testing.T) {
	ctx := context.Background()

	_, err := Connect(ctx, Config{URI: "mongodb://127.0.0.1:1", ConnectTimeout: 500 * time.Millisecond}, nil)
	require.Error(t, err)
}
