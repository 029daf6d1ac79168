// Package mongostore implements storage.Store on MongoDB.
//
// One mongo.Client is created at startup and shared by every collection for
// the life of the process. The driver's connection pool handles concurrent
// requests; this package adds no retries, sessions or transactions.
//
// Collections: users, categories, products, orders, reviews. EnsureIndexes
// adds non-unique indexes on the reference fields used by filters
// (products.category, orders.user, reviews.product).
package mongostore

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
	"github.com/ayush9goyal/graphql-k8s-demo/model"
	"github.com/ayush9goyal/graphql-k8s-demo/pkg/timestamp"
	"github.com/ayush9goyal/graphql-k8s-demo/storage"
)

// DefaultDatabase is used when neither the config nor the URI names a database
const DefaultDatabase = "test"

// Config holds MongoDB connection settings
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store is a MongoDB backed storage.Store
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger

	users      *collection[*model.User]
	categories *collection[*model.Category]
	products   *collection[*model.Product]
	orders     *collection[*model.Order]
	reviews    *collection[*model.Review]
}

// Connect dials MongoDB and verifies the connection with a ping against the primary.
// The returned error is transient when the server cannot be reached.
func Connect(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.WrapFatal(errors.ErrMissingConfig, "MongoStore", "Connect", "connection string")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("storefront").
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.WrapInvalid(err, "MongoStore", "Connect", "configure client")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.WrapTransient(err, "MongoStore", "Connect", "ping primary")
	}

	database := cfg.Database
	if database == "" {
		database = databaseFromURI(cfg.URI)
	}

	s := New(client, database, logger)
	logger.Info("MongoDB connection established", "database", database)
	return s, nil
}

// New builds a Store on an already connected client
func New(client *mongo.Client, database string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	db := client.Database(database)
	return &Store{
		client:     client,
		db:         db,
		logger:     logger.With("component", "mongostore"),
		users:      newCollection(db, model.CollectionUsers, func() *model.User { return new(model.User) }),
		categories: newCollection(db, model.CollectionCategories, func() *model.Category { return new(model.Category) }),
		products:   newCollection(db, model.CollectionProducts, func() *model.Product { return new(model.Product) }),
		orders:     newCollection(db, model.CollectionOrders, func() *model.Order { return new(model.Order) }),
		reviews:    newCollection(db, model.CollectionReviews, func() *model.Review { return new(model.Review) }),
	}
}

func (s *Store) Users() storage.Collection[*model.User]          { return s.users }
func (s *Store) Categories() storage.Collection[*model.Category] { return s.categories }
func (s *Store) Products() storage.Collection[*model.Product]    { return s.products }
func (s *Store) Orders() storage.Collection[*model.Order]        { return s.orders }
func (s *Store) Reviews() storage.Collection[*model.Review]      { return s.reviews }

// Database returns the underlying database handle
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Ping checks the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return classify(err, "Ping", "ping primary")
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.WrapTransient(err, "MongoStore", "Close", "disconnect")
	}
	s.logger.Info("MongoDB connection closed")
	return nil
}

// EnsureIndexes creates the secondary indexes behind the reference filters.
// Indexes are not unique: they only speed up lookups.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		collection string
		field      string
	}{
		{model.CollectionProducts, model.FieldCategory},
		{model.CollectionOrders, model.FieldUser},
		{model.CollectionReviews, model.FieldProduct},
	}

	for _, idx := range indexes {
		name, err := s.db.Collection(idx.collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: idx.field, Value: 1}},
		})
		if err != nil {
			return classify(err, "EnsureIndexes", fmt.Sprintf("index %s.%s", idx.collection, idx.field))
		}
		s.logger.Debug("Index ensured", "collection", idx.collection, "index", name)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)

type collection[T model.Document] struct {
	coll   *mongo.Collection
	newDoc func() T
}

func newCollection[T model.Document](db *mongo.Database, name string, newDoc func() T) *collection[T] {
	return &collection[T]{coll: db.Collection(name), newDoc: newDoc}
}

func (c *collection[T]) Name() string {
	return c.coll.Name()
}

func (c *collection[T]) Create(ctx context.Context, doc T) error {
	doc.SetDocumentID(primitive.NewObjectID())
	doc.Prepare(timestamp.Now())

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return classify(err, "Create", "insert into "+c.Name())
	}
	return nil
}

func (c *collection[T]) FindByID(ctx context.Context, id primitive.ObjectID) (T, error) {
	var zero T

	doc := c.newDoc()
	err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return zero, nil
	}
	if err != nil {
		return zero, classify(err, "FindByID", "find in "+c.Name())
	}
	return doc, nil
}

func (c *collection[T]) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	filter := bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}
	return c.find(ctx, filter, "FindByIDs")
}

func (c *collection[T]) FindMany(ctx context.Context, f storage.Filter) ([]T, error) {
	filter := bson.D{}
	if !f.IsEmpty() {
		filter = bson.D{{Key: f.Field, Value: f.Value}}
	}
	return c.find(ctx, filter, "FindMany")
}

func (c *collection[T]) find(ctx context.Context, filter bson.D, method string) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter)
	if err != nil {
		return nil, classify(err, method, "find in "+c.Name())
	}
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		doc := c.newDoc()
		if err := cursor.Decode(doc); err != nil {
			return nil, errors.Wrap(err, "MongoStore", method, "decode "+c.Name())
		}
		out = append(out, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, classify(err, method, "iterate "+c.Name())
	}
	return out, nil
}

// classify maps driver failures onto the error classes. Anything that means the
// server could not be reached is transient.
func classify(err error, method, action string) error {
	switch {
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		stderrors.Is(err, mongo.ErrClientDisconnected),
		stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(err, context.Canceled):
		return errors.WrapTransient(fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err), "MongoStore", method, action)
	default:
		return errors.Wrap(err, "MongoStore", method, action)
	}
}

// databaseFromURI extracts the database named in the path of a connection
// string, falling back to DefaultDatabase.
func databaseFromURI(uri string) string {
	rest := uri
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	i := strings.Index(rest, "/")
	if i < 0 {
		return DefaultDatabase
	}
	name := rest[i+1:]
	if j := strings.IndexAny(name, "?#"); j >= 0 {
		name = name[:j]
	}
	if name == "" {
		return DefaultDatabase
	}
	return name
}
