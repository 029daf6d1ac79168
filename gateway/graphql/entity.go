package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/ayush9goyal/graphql-k8s-demo/model"
)

// thunk is a deferred field value; graphql-go calls it after sibling fields
// have been started
type thunk = func() (interface{}, error)

// async starts fn on its own goroutine and returns a thunk waiting for it
func async(operation string, fn func() (interface{}, error)) thunk {
	type result struct {
		value interface{}
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: mapError(fmt.Errorf("panic: %v", r), operation)}
			}
		}()
		value, err := fn()
		ch <- result{value: value, err: mapError(err, operation)}
	}()

	return func() (interface{}, error) {
		r := <-ch
		return r.value, r.err
	}
}

func resolveProductCategory(backend Backend) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		product, ok := p.Source.(*model.Product)
		if !ok {
			return nil, nil
		}
		if product.CategoryDoc != nil {
			return product.CategoryDoc, nil
		}
		if product.Category == nil {
			return nil, nil
		}

		id := *product.Category
		return async("Product.category", func() (interface{}, error) {
			category, err := backend.Category(p.Context, id)
			if err != nil || category == nil {
				return nil, err
			}
			return category, nil
		}), nil
	}
}

func resolveProductReviews(backend Backend) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		product, ok := p.Source.(*model.Product)
		if !ok {
			return nil, nil
		}

		return async("Product.reviews", func() (interface{}, error) {
			reviews, err := backend.ProductReviews(p.Context, product.ID)
			if err != nil {
				return nil, err
			}
			return reviews, nil
		}), nil
	}
}

func resolveOrderUser(backend Backend) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		order, ok := p.Source.(*model.Order)
		if !ok {
			return nil, nil
		}

		return async("Order.user", func() (interface{}, error) {
			user, err := backend.User(p.Context, order.User)
			if err != nil || user == nil {
				return nil, err
			}
			return user, nil
		}), nil
	}
}

func resolveOrderItemProduct(backend Backend) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		var line model.OrderLine
		switch src := p.Source.(type) {
		case model.OrderLine:
			line = src
		case *model.OrderLine:
			line = *src
		default:
			return nil, nil
		}
		if line.ProductDoc != nil {
			return line.ProductDoc, nil
		}

		return async("OrderItem.product", func() (interface{}, error) {
			product, err := backend.Product(p.Context, line.Product)
			if err != nil || product == nil {
				return nil, err
			}
			return product, nil
		}), nil
	}
}

func resolveReviewUser(backend Backend) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		review, ok := p.Source.(*model.Review)
		if !ok {
			return nil, nil
		}

		return async("Review.user", func() (interface{}, error) {
			user, err := backend.User(p.Context, review.User)
			if err != nil || user == nil {
				return nil, err
			}
			return user, nil
		}), nil
	}
}

func resolveReviewProduct(backend Backend) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		review, ok := p.Source.(*model.Review)
		if !ok {
			return nil, nil
		}

		return async("Review.product", func() (interface{}, error) {
			product, err := backend.Product(p.Context, review.Product)
			if err != nil || product == nil {
				return nil, err
			}
			return product, nil
		}), nil
	}
}
