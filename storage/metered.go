package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/metric"
	"github.com/ayush9goyal/graphql-k8s-demo/model"
)

// Metered wraps a Store and records every collection call
type Metered struct {
	Store
	users      Collection[*model.User]
	categories Collection[*model.Category]
	products   Collection[*model.Product]
	orders     Collection[*model.Order]
	reviews    Collection[*model.Review]
}

// NewMetered wraps store so each call increments storefront_store_operations_total
func NewMetered(store Store, metrics *metric.Metrics) *Metered {
	return &Metered{
		Store:      store,
		users:      meter(store.Users(), metrics),
		categories: meter(store.Categories(), metrics),
		products:   meter(store.Products(), metrics),
		orders:     meter(store.Orders(), metrics),
		reviews:    meter(store.Reviews(), metrics),
	}
}

func (m *Metered) Users() Collection[*model.User]          { return m.users }
func (m *Metered) Categories() Collection[*model.Category] { return m.categories }
func (m *Metered) Products() Collection[*model.Product]    { return m.products }
func (m *Metered) Orders() Collection[*model.Order]        { return m.orders }
func (m *Metered) Reviews() Collection[*model.Review]      { return m.reviews }

type meteredCollection[T model.Document] struct {
	next    Collection[T]
	metrics *metric.Metrics
}

func meter[T model.Document](next Collection[T], metrics *metric.Metrics) Collection[T] {
	return &meteredCollection[T]{next: next, metrics: metrics}
}

func (c *meteredCollection[T]) Name() string {
	return c.next.Name()
}

func (c *meteredCollection[T]) Create(ctx context.Context, doc T) error {
	err := c.next.Create(ctx, doc)
	c.metrics.RecordStoreOperation(c.next.Name(), "create", err)
	return err
}

func (c *meteredCollection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	doc, err := c.next.FindByID(ctx, id)
	c.metrics.RecordStoreOperation(c.next.Name(), "find_by_id", err)
	return doc, err
}

func (c *meteredCollection[T]) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	docs, err := c.next.FindByIDs(ctx, ids)
	c.metrics.RecordStoreOperation(c.next.Name(), "find_by_ids", err)
	return docs, err
}

func (c *meteredCollection[T]) FindMany(ctx context.Context, filter Filter) ([]T, error) {
	docs, err := c.next.FindMany(ctx, filter)
	c.metrics.RecordStoreOperation(c.next.Name(), "find_many", err)
	return docs, err
}
