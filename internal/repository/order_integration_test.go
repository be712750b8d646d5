//go:build integration

package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/repository"
)

func fakeOrder(lines int) *model.Order {
	o := &model.Order{OrderNumber: gofakeit.UUID()}
	for i := 0; i < lines; i++ {
		o.LineItems = append(o.LineItems, model.OrderLineItem{
			SKUCode:  gofakeit.LetterN(8),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 5000)).Round(2),
			Quantity: int32(gofakeit.Number(1, 5)),
		})
	}
	return o
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOrderRepository(startPostgres(t))

	t.Run("save assigns ids", func(t *testing.T) {
		o := fakeOrder(2)
		require.NoError(t, repo.Save(ctx, o))

		assert.NotZero(t, o.ID)
		assert.False(t, o.CreatedAt.IsZero())
		for _, item := range o.LineItems {
			assert.NotZero(t, item.ID)
		}

		got, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, got.OrderNumber)
		require.Len(t, got.LineItems, 2)
		assert.Equal(t, o.LineItems[0].SKUCode, got.LineItems[0].SKUCode)
		assert.True(t, o.LineItems[1].Price.Equal(got.LineItems[1].Price))
	})

	t.Run("find missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("update replaces line items", func(t *testing.T) {
		o := fakeOrder(3)
		require.NoError(t, repo.Save(ctx, o))

		o.LineItems = o.LineItems[:1]
		o.LineItems[0].Quantity = 42
		require.NoError(t, repo.Update(ctx, o))

		got, err := repo.FindByID(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, got.LineItems, 1)
		assert.Equal(t, int32(42), got.LineItems[0].Quantity)

		missing := fakeOrder(0)
		missing.ID = 999999
		assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrNotFound)
	})

	t.Run("count, find all and delete", func(t *testing.T) {
		before, err := repo.Count(ctx)
		require.NoError(t, err)

		o := fakeOrder(1)
		require.NoError(t, repo.Save(ctx, o))

		after, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, int(after))

		require.NoError(t, repo.DeleteByID(ctx, o.ID))
		_, err = repo.FindByID(ctx, o.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteByID(ctx, o.ID), repository.ErrNotFound)
	})
}
