package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"samovar/internal/domain"
	"samovar/internal/dto"
	apperrors "samovar/internal/errors"
)

type fakePlaceOrder struct {
	order *domain.Order
	err   error
}

func (f *fakePlaceOrder) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*domain.Order, error) {
	return f.order, f.err
}

type fakeOrderReader struct {
	order  *domain.Order
	orders []domain.Order
	err    error
}

func (f *fakeOrderReader) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return f.order, f.err
}

func (f *fakeOrderReader) ListUserOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return f.orders, f.err
}

type fakeStatusChanger struct {
	order *domain.Order
	err   error
	to    domain.Status
}

func (f *fakeStatusChanger) ChangeStatus(ctx context.Context, id string, to domain.Status) (*domain.Order, error) {
	f.to = to
	return f.order, f.err
}

func newOrderRouter(place PlaceOrderUseCase, reader OrderReader, status StatusChanger) http.Handler {
	ctrl := NewOrderController(place, reader, status, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/orders", ctrl.Create)
	r.Get("/orders", ctrl.List)
	r.Get("/orders/{orderID}", ctrl.Get)
	r.Patch("/orders/{orderID}/status", ctrl.UpdateStatus)
	return r
}

func sampleOrder() *domain.Order {
	now := time.Date(2025, 3, 6, 12, 0, 0, 0, time.UTC)
	name := "Alice"
	return &domain.Order{
		ID:              "o1",
		Status:          domain.StatusPending,
		TotalAmount:     45000,
		DeliveryType:    domain.DeliveryPickup,
		CustomerName:    &name,
		CreatedAt:       now,
		UpdatedAt:       now,
		StatusChangedAt: now,
		Items: []domain.OrderItem{
			{ID: "i1", ProductID: "p1", Quantity: 2, UnitPrice: 15000, TotalPrice: 30000},
		},
	}
}

func TestOrderController_Create(t *testing.T) {
	router := newOrderRouter(&fakePlaceOrder{order: sampleOrder()}, &fakeOrderReader{}, &fakeStatusChanger{})

	body := `{"user_id":"u1","customer_name":"Alice","phone":"+1-555-0101","delivery_type":"pickup","items":[{"product_id":"p1","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "o1", resp.ID)
	assert.Equal(t, "pending", resp.Status)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, int64(15000), resp.Items[0].UnitPrice)
}

func TestOrderController_Create_InvalidJSON(t *testing.T) {
	router := newOrderRouter(&fakePlaceOrder{}, &fakeOrderReader{}, &fakeStatusChanger{})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestOrderController_Create_ValidationError(t *testing.T) {
	place := &fakePlaceOrder{
		err: apperrors.NewValidationError("validation failed",
			apperrors.ValidationDetail{Field: "phone", Message: "phone is required"}),
	}
	router := newOrderRouter(place, &fakeOrderReader{}, &fakeStatusChanger{})

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"phone"`)
}

func TestOrderController_Get_NotFound(t *testing.T) {
	reader := &fakeOrderReader{err: apperrors.NewNotFoundError("order with id o9 not found")}
	router := newOrderRouter(&fakePlaceOrder{}, reader, &fakeStatusChanger{})

	req := httptest.NewRequest(http.MethodGet, "/orders/o9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderController_List(t *testing.T) {
	reader := &fakeOrderReader{orders: []domain.Order{*sampleOrder()}}
	router := newOrderRouter(&fakePlaceOrder{}, reader, &fakeStatusChanger{})

	req := httptest.NewRequest(http.MethodGet, "/orders?user_id=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []dto.OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "o1", resp[0].ID)
}

func TestOrderController_List_MissingUserID(t *testing.T) {
	router := newOrderRouter(&fakePlaceOrder{}, &fakeOrderReader{}, &fakeStatusChanger{})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_id")
}

func TestOrderController_UpdateStatus(t *testing.T) {
	order := sampleOrder()
	order.Status = domain.StatusConfirmed
	status := &fakeStatusChanger{order: order}
	router := newOrderRouter(&fakePlaceOrder{}, &fakeOrderReader{}, status)

	req := httptest.NewRequest(http.MethodPatch, "/orders/o1/status", strings.NewReader(`{"status":"confirmed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusConfirmed, status.to)

	var resp dto.OrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "confirmed", resp.Status)
}

func TestOrderController_UpdateStatus_InvalidTransition(t *testing.T) {
	status := &fakeStatusChanger{err: apperrors.NewInvalidTransitionError("confirmed", "pending")}
	router := newOrderRouter(&fakePlaceOrder{}, &fakeOrderReader{}, status)

	req := httptest.NewRequest(http.MethodPatch, "/orders/o1/status", strings.NewReader(`{"status":"pending"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOrderController_UpdateStatus_DeletedConflicts(t *testing.T) {
	status := &fakeStatusChanger{err: apperrors.NewConflictError("order is deleted")}
	router := newOrderRouter(&fakePlaceOrder{}, &fakeOrderReader{}, status)

	req := httptest.NewRequest(http.MethodPatch, "/orders/o1/status", strings.NewReader(`{"status":"confirmed"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
