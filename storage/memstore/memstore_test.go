package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
	"github.com/ayush9goyal/graphql-k8s-demo/model"
	"github.com/ayush9goyal/graphql-k8s-demo/storage"
)

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	ctx := context.Background()
	store := New()

	before := time.Now().Add(-time.Millisecond)
	u := &model.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "secret"}
	require.NoError(t, store.Users().Create(ctx, u))
	after := time.Now()

	assert.False(t, u.ID.IsZero())
	assert.True(t, !u.CreatedAt.Before(before) && !u.CreatedAt.After(after), "createdAt %v", u.CreatedAt)

	got, err := store.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, got)
}

func TestFindByIDMissingIsNil(t *testing.T) {
	got, err := New().Products().FindByID(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := New()

	c := &model.Category{Name: "Books"}
	require.NoError(t, store.Categories().Create(ctx, c))
	c.Name = "changed after create"

	got, err := store.Categories().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", got.Name)

	got.Name = "changed after read"
	again, err := store.Categories().FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", again.Name)
}

func TestFindManyFilter(t *testing.T) {
	ctx := context.Background()
	store := New()

	books := primitive.NewObjectID()
	games := primitive.NewObjectID()
	for _, p := range []*model.Product{
		{Name: "Dune", Price: 9.99, Category: &books},
		{Name: "Chess", Price: 25, Category: &games},
		{Name: "Emma", Price: 4.5, Category: &books},
		{Name: "Loose", Price: 1},
	} {
		require.NoError(t, store.Products().Create(ctx, p))
	}

	all, err := store.Products().FindMany(ctx, storage.All())
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"Dune", "Chess", "Emma", "Loose"}, names(all), "insertion order")

	inBooks, err := store.Products().FindMany(ctx, storage.Eq(model.FieldCategory, books))
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune", "Emma"}, names(inBooks))

	none, err := store.Products().FindMany(ctx, storage.Eq(model.FieldCategory, primitive.NewObjectID()))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByIDs(t *testing.T) {
	ctx := context.Background()
	store := New()

	a := &model.Category{Name: "A"}
	b := &model.Category{Name: "B"}
	require.NoError(t, store.Categories().Create(ctx, a))
	require.NoError(t, store.Categories().Create(ctx, b))

	got, err := store.Categories().FindByIDs(ctx, []primitive.ObjectID{b.ID, primitive.NewObjectID(), a.ID})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestOrderItemsStoredAsEmptyArray(t *testing.T) {
	ctx := context.Background()
	store := New()

	o := &model.Order{User: primitive.NewObjectID(), Total: 0}
	require.NoError(t, store.Orders().Create(ctx, o))

	got, err := store.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.Items)
	assert.Empty(t, got.Items)
	assert.False(t, got.PlacedAt.IsZero())
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	ctx := context.Background()
	store := New()
	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Close(ctx))

	assert.True(t, errors.IsTransient(store.Ping(ctx)))

	err := store.Reviews().Create(ctx, &model.Review{Rating: 3})
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)

	_, err = store.Users().FindMany(ctx, storage.All())
	assert.ErrorIs(t, err, errors.ErrStorageUnavailable)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Users().FindByID(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	store := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Reviews().Create(ctx, &model.Review{Rating: i}))
		}()
	}
	wg.Wait()

	all, err := store.Reviews().FindMany(ctx, storage.All())
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func names(products []*model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
