package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) UpdateImage(ctx context.Context, id int64, req *model.ProductImageRequest) (*model.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func liquidsProduct() model.Product {
	category := "liquids"
	categoryName := "Жидкости"
	categoryID := int64(1)
	return model.Product{
		ID:           1,
		Name:         "Mango Ice",
		Price:        decimal.RequireFromString("450.00"),
		CategoryID:   &categoryID,
		CategoryName: &categoryName,
		Stock:        5,
		Active:       true,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:     &category,
		Flavors:      model.Flavors{"Mango": 5},
	}
}

func TestProductHandler_List(t *testing.T) {
	logger := zerolog.Nop()
	products := []model.Product{liquidsProduct(), {ID: 2, Name: "Unknown", Flavors: model.Flavors{}}}

	categoryID := int64(3)
	active := true

	tests := []struct {
		name           string
		queryParams    string
		expectedFilter *model.ProductFilter
		mockError      error
		expectedStatus int
	}{
		{
			name:           "No parameters",
			queryParams:    "",
			expectedFilter: &model.ProductFilter{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "All filters",
			queryParams:    "?category_id=3&active=true&limit=20&offset=40",
			expectedFilter: &model.ProductFilter{CategoryID: &categoryID, Active: &active, Limit: 20, Offset: 40},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid category",
			queryParams:    "?category_id=liquids",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid active flag",
			queryParams:    "?active=maybe",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid offset",
			queryParams:    "?offset=xyz",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service error",
			queryParams:    "",
			expectedFilter: &model.ProductFilter{},
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectedFilter != nil {
				var ret any = products
				if tt.mockError != nil {
					ret = nil
				}
				mockService.On("List", mock.Anything, *tt.expectedFilter).Return(ret, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			handler.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var body []map[string]any
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				require.Len(t, body, 2)
				assert.Equal(t, "liquids", body[0]["category"])
				assert.Equal(t, map[string]any{"Mango": float64(5)}, body[0]["flavors"])
				// uncategorized products carry an explicit null and an empty object
				assert.Contains(t, body[1], "category")
				assert.Nil(t, body[1]["category"])
				assert.Equal(t, map[string]any{}, body[1]["flavors"])
			}

			if tt.expectedFilter == nil {
				mockService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
			} else {
				mockService.AssertExpectations(t)
			}
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	product := liquidsProduct()

	tests := []struct {
		name           string
		productID      string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{name: "Success", productID: "1", mockReturn: &product, expectedStatus: http.StatusOK, expectService: true},
		{name: "Product not found", productID: "999", mockError: model.ErrProductNotFound, expectedStatus: http.StatusNotFound, expectService: true},
		{name: "Invalid ID", productID: "P001", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)

			if tt.expectService {
				mockService.On("GetByID", mock.Anything, mock.AnythingOfType("int64")).Return(tt.mockReturn, tt.mockError)
			}

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/products/"+tt.productID, nil), "id", tt.productID)
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNotFound {
				assert.Equal(t, "Product not found", decodeError(t, w).Error)
			}
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	product := liquidsProduct()

	t.Run("Created with object flavors", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req *model.ProductRequest) bool {
			return req.Name != nil && *req.Name == "Mango Ice" &&
				req.Flavors.Kind == model.VariantsObject
		})).Return(&product, nil)

		body := `{"name":"Mango Ice","price":450,"category_id":1,"flavors":{"Mango":5}}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Created with string flavors", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)

		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req *model.ProductRequest) bool {
			return req.Flavors.Kind == model.VariantsText && req.Flavors.Text == `{"Mango":5}`
		})).Return(&product, nil)

		body := `{"name":"Mango Ice","price":450,"flavors":"{\"Mango\":5}"}`
		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Validation failure", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)
		mockService.On("Create", mock.Anything, mock.Anything).Return(nil, model.NewValidationError("price", "is required"))

		req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"x"}`))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "price is required", decodeError(t, w).Error)
	})
}

func TestProductHandler_Update(t *testing.T) {
	logger := zerolog.Nop()
	product := liquidsProduct()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)
		mockService.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(req *model.ProductRequest) bool {
			return req.Stock != nil && *req.Stock == 9 && req.Name == nil
		})).Return(&product, nil)

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/products/1", strings.NewReader(`{"stock":9}`)), "id", "1")
		w := httptest.NewRecorder()

		handler.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Not found", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, logger)
		mockService.On("Update", mock.Anything, int64(8), mock.Anything).Return(nil, model.ErrProductNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/products/8", strings.NewReader(`{"stock":9}`)), "id", "8")
		w := httptest.NewRecorder()

		handler.Update(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductHandler_UpdateImage(t *testing.T) {
	logger := zerolog.Nop()
	product := liquidsProduct()

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, logger)
	mockService.On("UpdateImage", mock.Anything, int64(1), &model.ProductImageRequest{Image: "data:image/png;base64,AAAA"}).
		Return(&product, nil)
	mockService.On("UpdateImage", mock.Anything, int64(2), mock.Anything).
		Return(nil, model.NewValidationError("image", "must be an image, got text/plain"))

	req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/products/1/image",
		strings.NewReader(`{"image":"data:image/png;base64,AAAA"}`)), "id", "1")
	w := httptest.NewRecorder()
	handler.UpdateImage(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = withURLParam(httptest.NewRequest(http.MethodPut, "/api/products/2/image",
		strings.NewReader(`{"image":"data:image/png;base64,aGVsbG8="}`)), "id", "2")
	w = httptest.NewRecorder()
	handler.UpdateImage(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "image must be an image, got text/plain", decodeError(t, w).Error)
}

func TestProductHandler_Delete(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		productID      string
		mockError      error
		expectedStatus int
	}{
		{name: "Deleted", productID: "3", expectedStatus: http.StatusNoContent},
		{name: "Missing", productID: "4", mockError: model.ErrProductNotFound, expectedStatus: http.StatusNotFound},
		{name: "Storage failure", productID: "5", mockError: &model.PersistenceError{Op: "delete product", Kind: model.PersistenceConstraint, Err: errors.New("fk")}, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, logger)
			mockService.On("Delete", mock.Anything, mock.AnythingOfType("int64")).Return(tt.mockError)

			req := withURLParam(httptest.NewRequest(http.MethodDelete, "/api/products/"+tt.productID, nil), "id", tt.productID)
			w := httptest.NewRecorder()

			handler.Delete(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNoContent {
				assert.Empty(t, w.Body.String())
			}
		})
	}
}
