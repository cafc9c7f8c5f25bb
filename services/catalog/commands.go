package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MarcGrol/shopcore/lib/myerrors"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mystore"
)

func (s *service) listProducts(c context.Context, searchTerm string, category string) ([]Product, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch products (search:%q, category:%q)", searchTerm, category)

	var products []Product
	var err error
	if category != "" {
		products, err = s.productStore.Query(c, []mystore.Filter{
			{Field: "Category", Compare: "=", Value: category},
		}, "Name")
	} else {
		products, err = s.productStore.List(c)
	}
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	if searchTerm != "" {
		products = filterOnName(products, searchTerm)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

func filterOnName(products []Product, searchTerm string) []Product {
	matches := []Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(searchTerm)) {
			matches = append(matches, p)
		}
	}
	return matches
}

func (s *service) getProduct(c context.Context, productUID string) (Product, error) {
	s.logger.Log(c, productUID, mylog.SeverityInfo, "Fetch details of product %s", productUID)

	product, found, err := s.productStore.Get(c, productUID)
	if err != nil {
		return Product{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
	}

	return product, nil
}

func (s *service) upsertProduct(c context.Context, productUID string, product Product) (Product, error) {
	if productUID == "" {
		productUID = s.uuider.Create()
	}
	now := s.nower.Now()

	s.logger.Log(c, productUID, mylog.SeverityInfo, "Upsert product %s (%s)", productUID, product.Name)

	if product.Name == "" {
		return Product{}, myerrors.NewInvalidInputErrorf("missing product name")
	}
	if product.PriceInCents < 0 {
		return Product{}, myerrors.NewInvalidInputErrorf("product price must not be negative")
	}

	err := s.productStore.RunInTransaction(c, func(c context.Context) error {
		existing, found, err := s.productStore.Get(c, productUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		product.UID = productUID
		if found {
			product.CreatedAt = existing.CreatedAt
			product.LastModified = &now
		} else {
			product.CreatedAt = now
		}

		err = s.productStore.Put(c, productUID, product)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Product{}, err
	}

	return product, nil
}

func (s *service) deleteProduct(c context.Context, productUID string) error {
	s.logger.Log(c, productUID, mylog.SeverityInfo, "Delete product %s", productUID)

	err := s.productStore.Delete(c, productUID)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}
