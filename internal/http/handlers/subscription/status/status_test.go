package status

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-registry/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-registry/internal/models"
	services "github.com/magabrotheeeer/subscription-registry/internal/services/subscription"
)

// MockService реализует интерфейс status.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Status(ctx context.Context, email string) (*models.SubscriptionStatus, error) {
	args := m.Called(ctx, email)
	if res := args.Get(0); res != nil {
		return res.(*models.SubscriptionStatus), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	tests := []struct {
		name           string
		param          string
		hideInternal   bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "подписка найдена",
			param: "ann@example.com",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "ann@example.com").Return(&models.SubscriptionStatus{
					Name:             "Ann",
					Email:            "ann@example.com",
					SubscriptionPlan: "pro",
					IsActive:         true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"name":"Ann","email":"ann@example.com","subscription_plan":"pro","is_active":true}`,
		},
		{
			name:  "email в URL экранирован",
			param: "ann%40example.com",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "ann@example.com").Return(&models.SubscriptionStatus{
					Name: "Ann", Email: "ann@example.com", SubscriptionPlan: "pro", IsActive: true,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"name":"Ann","email":"ann@example.com","subscription_plan":"pro","is_active":true}`,
		},
		{
			name:  "формат email не проверяется",
			param: "not-an-email",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "not-an-email").Return(nil, services.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Subscription not found"}`,
		},
		{
			name:  "ошибка сервиса",
			param: "ann@example.com",
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "ann@example.com").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"db error"}`,
		},
		{
			name:         "ошибка сервиса скрыта",
			param:        "ann@example.com",
			hideInternal: true,
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, "ann@example.com").Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(sl.NewDiscardLogger(), mockService, tt.hideInternal)

			req := httptest.NewRequest(http.MethodGet, "/subscription-status/"+tt.param, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("email", tt.param)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

func TestStatusHandler_EmailNotLoggedAtInfo(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Status", mock.Anything, "ann@example.com").Return(&models.SubscriptionStatus{
		Name: "Ann", Email: "ann@example.com", SubscriptionPlan: "pro", IsActive: true,
	}, nil)
	mockService.On("Status", mock.Anything, "bob@example.com").Return(nil, services.ErrNotFound)

	var buf bytes.Buffer
	handler := New(sl.New(&buf, false), mockService, false)

	for _, email := range []string{"ann@example.com", "bob@example.com"} {
		req := httptest.NewRequest(http.MethodGet, "/subscription-status/"+email, nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("email", email)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.NotContains(t, buf.String(), "@example.com")
	mockService.AssertExpectations(t)
}
