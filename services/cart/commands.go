package cart

import (
	"context"
	"fmt"
	"sort"

	"github.com/MarcGrol/shopcore/lib/myerrors"
	"github.com/MarcGrol/shopcore/lib/mylog"
	"github.com/MarcGrol/shopcore/lib/mystore"
)

func (s *service) getCart(c context.Context, userUID string) ([]Item, error) {
	s.logger.Log(c, userUID, mylog.SeverityInfo, "Fetch cart of user %s", userUID)

	items, err := s.cartStore.Query(c, []mystore.Filter{
		{Field: "UserUID", Compare: "=", Value: userUID},
	}, "CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

func (s *service) addItem(c context.Context, userUID string, productUID string, quantity int) (Item, error) {
	s.logger.Log(c, userUID, mylog.SeverityInfo, "Add %d x product %s to cart of user %s", quantity, productUID, userUID)

	if quantity < 1 {
		return Item{}, myerrors.NewInvalidInputErrorf("quantity must be at least 1")
	}

	_, found, err := s.productStore.Get(c, productUID)
	if err != nil {
		return Item{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Item{}, myerrors.NewNotFoundError(fmt.Errorf("product with uid %s not found", productUID))
	}

	itemUID := ComposeItemUID(userUID, productUID)
	now := s.nower.Now()

	var item Item
	err = s.cartStore.RunInTransaction(c, func(c context.Context) error {
		// repeat adds of the same product increment the existing line
		existing, found, err := s.cartStore.Get(c, itemUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		if found {
			existing.Quantity += quantity
			existing.LastModified = &now
			item = existing
		} else {
			item = Item{
				UID:        itemUID,
				UserUID:    userUID,
				ProductUID: productUID,
				Quantity:   quantity,
				CreatedAt:  now,
			}
		}

		err = s.cartStore.Put(c, itemUID, item)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return Item{}, err
	}

	return item, nil
}

func (s *service) removeItem(c context.Context, userUID string, productUID string) error {
	s.logger.Log(c, userUID, mylog.SeverityInfo, "Remove product %s from cart of user %s", productUID, userUID)

	err := s.cartStore.Delete(c, ComposeItemUID(userUID, productUID))
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

func (s *service) clearCart(c context.Context, userUID string) error {
	s.logger.Log(c, userUID, mylog.SeverityInfo, "Clear cart of user %s", userUID)

	err := s.cartStore.RunInTransaction(c, func(c context.Context) error {
		items, err := s.cartStore.Query(c, []mystore.Filter{
			{Field: "UserUID", Compare: "=", Value: userUID},
		}, "")
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		for _, item := range items {
			err = s.cartStore.Delete(c, item.UID)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}
