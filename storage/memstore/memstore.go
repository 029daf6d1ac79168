// Package memstore is an in-process implementation of storage.Store.
//
// Documents are kept as BSON-encoded copies, so callers can never mutate
// stored state through a returned pointer, and everything that round-trips
// through MongoDB (bson tags, millisecond time precision, omitted fields)
// behaves the same way here.
package memstore

import (
	"context"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
	"github.com/ayush9goyal/graphql-k8s-demo/model"
	"github.com/ayush9goyal/graphql-k8s-demo/pkg/timestamp"
	"github.com/ayush9goyal/graphql-k8s-demo/storage"
)

// Store is an in-memory storage.Store
type Store struct {
	closed atomic.Bool

	users      *collection[*model.User]
	categories *collection[*model.Category]
	products   *collection[*model.Product]
	orders     *collection[*model.Order]
	reviews    *collection[*model.Review]
}

// New creates an empty store
func New() *Store {
	s := &Store{}
	s.users = newCollection(s, model.CollectionUsers, func() *model.User { return new(model.User) })
	s.categories = newCollection(s, model.CollectionCategories, func() *model.Category { return new(model.Category) })
	s.products = newCollection(s, model.CollectionProducts, func() *model.Product { return new(model.Product) })
	s.orders = newCollection(s, model.CollectionOrders, func() *model.Order { return new(model.Order) })
	s.reviews = newCollection(s, model.CollectionReviews, func() *model.Review { return new(model.Review) })
	return s
}

func (s *Store) Users() storage.Collection[*model.User]          { return s.users }
func (s *Store) Categories() storage.Collection[*model.Category] { return s.categories }
func (s *Store) Products() storage.Collection[*model.Product]    { return s.products }
func (s *Store) Orders() storage.Collection[*model.Order]        { return s.orders }
func (s *Store) Reviews() storage.Collection[*model.Review]      { return s.reviews }

// Ping fails once the store is closed
func (s *Store) Ping(context.Context) error {
	if s.closed.Load() {
		return errors.WrapTransient(errors.ErrStorageUnavailable, "MemStore", "Ping", "check store")
	}
	return nil
}

// Close makes every later call fail as unavailable
func (s *Store) Close(context.Context) error {
	s.closed.Store(true)
	return nil
}

var _ storage.Store = (*Store)(nil)

type collection[T model.Document] struct {
	store  *Store
	name   string
	newDoc func() T

	mu    sync.RWMutex
	docs  [][]byte
	index map[primitive.ObjectID]int
}

func newCollection[T model.Document](store *Store, name string, newDoc func() T) *collection[T] {
	return &collection[T]{
		store:  store,
		name:   name,
		newDoc: newDoc,
		index:  make(map[primitive.ObjectID]int),
	}
}

func (c *collection[T]) Name() string {
	return c.name
}

func (c *collection[T]) check(ctx context.Context, method string) error {
	if err := ctx.Err(); err != nil {
		return errors.WrapTransient(err, "MemStore", method, c.name)
	}
	if c.store.closed.Load() {
		return errors.WrapTransient(errors.ErrStorageUnavailable, "MemStore", method, c.name)
	}
	return nil
}

func (c *collection[T]) Create(ctx context.Context, doc T) error {
	if err := c.check(ctx, "Create"); err != nil {
		return err
	}

	doc.SetDocumentID(primitive.NewObjectID())
	doc.Prepare(timestamp.Now())

	data, err := bson.Marshal(doc)
	if err != nil {
		return errors.WrapInvalid(err, "MemStore", "Create", "encode "+c.name)
	}

	// hand back the stored form, exactly as a later read would see it
	if err := bson.Unmarshal(data, doc); err != nil {
		return errors.Wrap(err, "MemStore", "Create", "decode "+c.name)
	}

	c.mu.Lock()
	c.index[doc.DocumentID()] = len(c.docs)
	c.docs = append(c.docs, data)
	c.mu.Unlock()

	return nil
}

func (c *collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	var zero T
	if err := c.check(ctx, "FindByID"); err != nil {
		return zero, err
	}

	c.mu.RLock()
	pos, ok := c.index[id]
	var data []byte
	if ok {
		data = c.docs[pos]
	}
	c.mu.RUnlock()

	if !ok {
		return zero, nil
	}
	return c.decode(data)
}

func (c *collection[T]) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if err := c.check(ctx, "FindByIDs"); err != nil {
		return nil, err
	}

	c.mu.RLock()
	raw := make([][]byte, 0, len(ids))
	for _, id := range ids {
		if pos, ok := c.index[id]; ok {
			raw = append(raw, c.docs[pos])
		}
	}
	c.mu.RUnlock()

	return c.decodeAll(raw)
}

func (c *collection[T]) FindMany(ctx context.Context, filter storage.Filter) ([]T, error) {
	if err := c.check(ctx, "FindMany"); err != nil {
		return nil, err
	}

	c.mu.RLock()
	raw := make([][]byte, len(c.docs))
	copy(raw, c.docs)
	c.mu.RUnlock()

	docs, err := c.decodeAll(raw)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		if filter.Matches(doc) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (c *collection[T]) decode(data []byte) (T, error) {
	doc := c.newDoc()
	if err := bson.Unmarshal(data, doc); err != nil {
		var zero T
		return zero, errors.Wrap(err, "MemStore", "decode", c.name)
	}
	return doc, nil
}

func (c *collection[T]) decodeAll(raw [][]byte) ([]T, error) {
	out := make([]T, 0, len(raw))
	for _, data := range raw {
		doc, err := c.decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}
