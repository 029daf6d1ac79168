package storage

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
	"github.com/ayush9goyal/graphql-k8s-demo/model"
)

// PopulateCategories attaches each product's category document (one hop).
// Products without a category, or whose category no longer exists, keep a nil
// CategoryDoc. All categories are loaded with a single FindByIDs call.
func PopulateCategories(ctx context.Context, categories Collection[*model.Category], products []*model.Product) error {
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		if ref, ok := p.Reference(model.FieldCategory); ok {
			ids = append(ids, ref)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := loadByID(ctx, categories, ids)
	if err != nil {
		return errors.Wrap(err, "storage", "PopulateCategories", "load categories")
	}

	for _, p := range products {
		if ref, ok := p.Reference(model.FieldCategory); ok {
			p.CategoryDoc = byID[ref]
		}
	}
	return nil
}

// PopulateOrderProducts attaches the product document of every order line (one hop).
// All products are loaded with a single FindByIDs call.
func PopulateOrderProducts(ctx context.Context, products Collection[*model.Product], orders []*model.Order) error {
	var ids []primitive.ObjectID
	for _, o := range orders {
		for _, line := range o.Items {
			ids = append(ids, line.Product)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := loadByID(ctx, products, ids)
	if err != nil {
		return errors.Wrap(err, "storage", "PopulateOrderProducts", "load products")
	}

	for _, o := range orders {
		for i := range o.Items {
			o.Items[i].ProductDoc = byID[o.Items[i].Product]
		}
	}
	return nil
}

func loadByID[T model.Document](ctx context.Context, coll Collection[T], ids []primitive.ObjectID) (map[primitive.ObjectID]T, error) {
	docs, err := coll.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]T, len(docs))
	for _, doc := range docs {
		byID[doc.DocumentID()] = doc
	}
	return byID, nil
}

func dedupe(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
