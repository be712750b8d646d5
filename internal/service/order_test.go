package service

import (
	"context"
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/shop-microservices/internal/metrics"
	"github.com/deppfellow/shop-microservices/internal/model"
	"github.com/deppfellow/shop-microservices/internal/repository/mocks"
)

type fakeScheduler struct {
	enqueued []string
	err      error
}

func (f *fakeScheduler) EnqueueOrderPlaced(_ context.Context, orderNumber string) error {
	f.enqueued = append(f.enqueued, orderNumber)
	return f.err
}

func fakePlaceOrderRequest(lines int) *model.PlaceOrderRequest {
	req := &model.PlaceOrderRequest{}
	for i := 0; i < lines; i++ {
		req.LineItems = append(req.LineItems, model.OrderLineItemRequest{
			SKUCode:  gofakeit.LetterN(6) + "_" + gofakeit.DigitN(2),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 2000)).Round(2),
			Quantity: int32(gofakeit.Number(1, 10)),
		})
	}
	return req
}

func TestPlaceOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	scheduler := &fakeScheduler{}

	req := fakePlaceOrderRequest(2)

	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *model.Order) error {
			o.ID = 42
			return nil
		})

	svc := NewOrderService(repo, scheduler, metrics.New("order-service"))

	order, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(42), order.ID)
	_, err = uuid.Parse(order.OrderNumber)
	assert.NoError(t, err, "order number must be a UUID")

	require.Len(t, order.LineItems, 2)
	for i, item := range order.LineItems {
		assert.Equal(t, req.LineItems[i].SKUCode, item.SKUCode)
		assert.True(t, req.LineItems[i].Price.Equal(item.Price))
		assert.Equal(t, req.LineItems[i].Quantity, item.Quantity)
	}

	assert.Equal(t, []string{order.OrderNumber}, scheduler.enqueued)
}

func TestPlaceOrderNumbersAreUnique(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	svc := NewOrderService(repo, nil, nil)

	req := fakePlaceOrderRequest(1)
	first, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
}

func TestPlaceOrderSaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	scheduler := &fakeScheduler{}

	saveErr := errors.New("connection refused")
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)

	svc := NewOrderService(repo, scheduler, nil)

	order, err := svc.PlaceOrder(context.Background(), fakePlaceOrderRequest(1))
	require.ErrorIs(t, err, saveErr)
	assert.Nil(t, order)
	assert.Empty(t, scheduler.enqueued)
}

func TestPlaceOrderEnqueueErrorIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)
	scheduler := &fakeScheduler{err: errors.New("redis down")}

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	svc := NewOrderService(repo, scheduler, nil)

	order, err := svc.PlaceOrder(context.Background(), fakePlaceOrderRequest(1))
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, scheduler.enqueued, 1)
}

func TestPlaceOrderEmptyLineItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockOrderRepository(ctrl)

	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *model.Order) error {
			assert.Empty(t, o.LineItems)
			return nil
		})

	svc := NewOrderService(repo, nil, nil)

	_, err := svc.PlaceOrder(context.Background(), &model.PlaceOrderRequest{})
	require.NoError(t, err)
}
