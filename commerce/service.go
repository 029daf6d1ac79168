package commerce

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
	"github.com/ayush9goyal/graphql-k8s-demo/events"
	"github.com/ayush9goyal/graphql-k8s-demo/model"
	"github.com/ayush9goyal/graphql-k8s-demo/storage"
)

// DefaultQuantity applies to order lines that do not state a quantity
const DefaultQuantity = 1

// ErrProductNotFound reports an order line whose product does not exist
var ErrProductNotFound = stderrors.New("product not found")

// NewUser is the input of AddUser
type NewUser struct {
	Name     string
	Email    string
	Password string
}

// NewProduct is the input of AddProduct
type NewProduct struct {
	Name        string
	Description *string
	Price       float64
	CategoryID  string
}

// OrderItemInput is one requested order line. A nil Quantity means DefaultQuantity.
type OrderItemInput struct {
	ProductID string
	Quantity  *int
}

// NewReview is the input of AddReview
type NewReview struct {
	ProductID string
	UserID    string
	Rating    int
	Comment   *string
}

// Service implements the storefront operations
type Service struct {
	store     storage.Store
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService creates a Service. A nil publisher disables change events.
func NewService(store storage.Store, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger.With("component", "commerce"),
	}
}

// Users returns every user
func (s *Service) Users(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.Users().FindMany(ctx, storage.All())
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Users", "list users")
	}
	return users, nil
}

// Products returns every product, or those in categoryID, with categories attached
func (s *Service) Products(ctx context.Context, categoryID *string) ([]*model.Product, error) {
	id, err := model.ParseOptionalID(categoryID)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Products", "parse categoryId")
	}

	products, err := s.store.Products().FindMany(ctx, storage.EqOptional(model.FieldCategory, id))
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Products", "list products")
	}
	if err := storage.PopulateCategories(ctx, s.store.Categories(), products); err != nil {
		return nil, errors.Wrap(err, "Service", "Products", "populate categories")
	}
	return products, nil
}

// Orders returns every order, or those placed by userID, with line products attached
func (s *Service) Orders(ctx context.Context, userID *string) ([]*model.Order, error) {
	id, err := model.ParseOptionalID(userID)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Orders", "parse userId")
	}

	orders, err := s.store.Orders().FindMany(ctx, storage.EqOptional(model.FieldUser, id))
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Orders", "list orders")
	}
	if err := storage.PopulateOrderProducts(ctx, s.store.Products(), orders); err != nil {
		return nil, errors.Wrap(err, "Service", "Orders", "populate products")
	}
	return orders, nil
}

// Reviews returns every review, or those of productID
func (s *Service) Reviews(ctx context.Context, productID *string) ([]*model.Review, error) {
	id, err := model.ParseOptionalID(productID)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Reviews", "parse productId")
	}

	reviews, err := s.store.Reviews().FindMany(ctx, storage.EqOptional(model.FieldProduct, id))
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Reviews", "list reviews")
	}
	return reviews, nil
}

// ProductReviews returns the reviews of one product
func (s *Service) ProductReviews(ctx context.Context, productID primitive.ObjectID) ([]*model.Review, error) {
	reviews, err := s.store.Reviews().FindMany(ctx, storage.Eq(model.FieldProduct, productID))
	if err != nil {
		return nil, errors.Wrap(err, "Service", "ProductReviews", "list reviews")
	}
	return reviews, nil
}

// User returns the user with id, or nil
func (s *Service) User(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "User", "find user")
	}
	return user, nil
}

// Product returns the product with id, or nil
func (s *Service) Product(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Product", "find product")
	}
	return product, nil
}

// Category returns the category with id, or nil
func (s *Service) Category(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	category, err := s.store.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "Category", "find category")
	}
	return category, nil
}

// AddUser creates a user. The password is stored as given.
func (s *Service) AddUser(ctx context.Context, in NewUser) (*model.User, error) {
	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.Password,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, errors.Wrap(err, "Service", "AddUser", "create user")
	}

	s.publish(ctx, events.EntityUser, user.ID, user)
	return user, nil
}

// AddCategory creates a category
func (s *Service) AddCategory(ctx context.Context, name string) (*model.Category, error) {
	category := &model.Category{Name: name}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, errors.Wrap(err, "Service", "AddCategory", "create category")
	}

	s.publish(ctx, events.EntityCategory, category.ID, category)
	return category, nil
}

// AddProduct creates a product. The category is not checked for existence.
func (s *Service) AddProduct(ctx context.Context, in NewProduct) (*model.Product, error) {
	categoryID, err := model.ParseID(in.CategoryID)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "AddProduct", "parse categoryId")
	}

	product := &model.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    &categoryID,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, errors.Wrap(err, "Service", "AddProduct", "create product")
	}

	s.publish(ctx, events.EntityProduct, product.ID, product)
	return product, nil
}

// CreateOrder prices and stores an order. Every line's product is looked up
// concurrently; once all lookups have returned, the total is the sum of
// price × quantity. If any product is missing the order is not written.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []OrderItemInput) (*model.Order, error) {
	user, err := model.ParseID(userID)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "CreateOrder", "parse userId")
	}

	lines := make([]model.OrderLine, len(items))
	for i, item := range items {
		productID, err := model.ParseID(item.ProductID)
		if err != nil {
			return nil, errors.Wrap(err, "Service", "CreateOrder", fmt.Sprintf("parse items[%d].productId", i))
		}
		quantity := DefaultQuantity
		if item.Quantity != nil {
			quantity = *item.Quantity
		}
		lines[i] = model.OrderLine{Product: productID, Quantity: quantity}
	}

	prices := make([]decimal.Decimal, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	for i := range lines {
		g.Go(func() error {
			product, err := s.store.Products().FindByID(gctx, lines[i].Product)
			if err != nil {
				return errors.Wrap(err, "Service", "CreateOrder", "lookup product")
			}
			if product == nil {
				return errors.WrapNotFound(
					fmt.Errorf("%w: %s", ErrProductNotFound, lines[i].Product.Hex()),
					"Service", "CreateOrder", "lookup product")
			}
			prices[i] = decimal.NewFromFloat(product.Price)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	order := &model.Order{
		User:  user,
		Items: lines,
		Total: orderTotal(prices, lines),
	}
	if err := s.store.Orders().Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "Service", "CreateOrder", "create order")
	}

	s.logger.Debug("Order created", "order", order.ID.Hex(), "lines", len(lines), "total", order.Total)
	s.publish(ctx, events.EntityOrder, order.ID, order)
	return order, nil
}

func orderTotal(prices []decimal.Decimal, lines []model.OrderLine) float64 {
	total := decimal.Zero
	for i, price := range prices {
		total = total.Add(price.Mul(decimal.NewFromInt(int64(lines[i].Quantity))))
	}
	return total.InexactFloat64()
}

// AddReview creates a review. Neither reference nor the rating is checked.
func (s *Service) AddReview(ctx context.Context, in NewReview) (*model.Review, error) {
	productID, err := model.ParseID(in.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "AddReview", "parse productId")
	}
	userID, err := model.ParseID(in.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "Service", "AddReview", "parse userId")
	}

	review := &model.Review{
		Product: productID,
		User:    userID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	if err := s.store.Reviews().Create(ctx, review); err != nil {
		return nil, errors.Wrap(err, "Service", "AddReview", "create review")
	}

	s.publish(ctx, events.EntityReview, review.ID, review)
	return review, nil
}

// publish emits a created event. Failures are logged and never returned.
func (s *Service) publish(ctx context.Context, entity string, id primitive.ObjectID, doc any) {
	if err := s.publisher.Publish(ctx, events.Created(entity, id.Hex(), doc)); err != nil {
		s.logger.Warn("Failed to publish change event", "entity", entity, "id", id.Hex(), "error", err)
	}
}
