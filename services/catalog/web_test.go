package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/shopcore/lib/mystore"
	"github.com/MarcGrol/shopcore/lib/mytime"
	"github.com/MarcGrol/shopcore/lib/myuuid"
)

var (
	racket = Product{UID: "prod_1", Name: "Tennis racket", PriceInCents: 10000, Category: "tennis", Stock: 5, CreatedAt: mytime.ExampleTime}
	balls  = Product{UID: "prod_2", Name: "Tennis balls", PriceInCents: 1000, Category: "tennis", Stock: 50, CreatedAt: mytime.ExampleTime}
	hoodie = Product{UID: "prod_3", Name: "Hoodie", PriceInCents: 2500, Category: "clothing", Stock: 10, CreatedAt: mytime.ExampleTime}
)

func TestCatalogService(t *testing.T) {

	t.Run("List products", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, racket.UID, racket)
		_ = storer.Put(ctx, balls.UID, balls)
		_ = storer.Put(ctx, hoodie.UID, hoodie)

		// when
		request, err := http.NewRequest(http.MethodGet, "/product", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		got := []Product{}
		_ = json.Unmarshal(response.Body.Bytes(), &got)
		assert.Len(t, got, 3)
		assert.Equal(t, "Hoodie", got[0].Name)
	})

	t.Run("List products filters on category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ctx, router, storer, _, _ := setup(t, ctrl)

		_ = storer.Put(ctx, racket.UID, racket)
		_ = storer.Put(ctx, hoodie.UID, hoodie)

		request, _ := http.NewRequest(http.MethodGet, "/product?category=tennis", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 200, response.Code)
		got := []Product{}
		_ = json.Unmarshal(response.Body.Bytes(), &got)
		assert.Len(t, got, 1)
		assert.Equal(t, "Tennis racket", got[0].Name)
	})

	t.Run("List products searches on name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ctx, router, storer, _, _ := setup(t, ctrl)

		_ = storer.Put(ctx, racket.UID, racket)
		_ = storer.Put(ctx, balls.UID, balls)
		_ = storer.Put(ctx, hoodie.UID, hoodie)

		request, _ := http.NewRequest(http.MethodGet, "/product?q=balls", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 200, response.Code)
		got := []Product{}
		_ = json.Unmarshal(response.Body.Bytes(), &got)
		assert.Len(t, got, 1)
		assert.Equal(t, "Tennis balls", got[0].Name)
	})

	t.Run("Get product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ctx, router, storer, _, _ := setup(t, ctrl)

		_ = storer.Put(ctx, racket.UID, racket)

		request, _ := http.NewRequest(http.MethodGet, "/product/prod_1", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 200, response.Code)
		got := Product{}
		_ = json.Unmarshal(response.Body.Bytes(), &got)
		assert.Equal(t, "Tennis racket", got.Name)
		assert.Equal(t, int64(10000), got.PriceInCents)
	})

	t.Run("Get product not exists", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, router, _, _, _ := setup(t, ctrl)

		request, _ := http.NewRequest(http.MethodGet, "/product/prod_42", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 404, response.Code)
	})

	t.Run("Upsert new product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ctx, router, storer, nower, _ := setup(t, ctrl)

		// given
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		request, err := http.NewRequest(http.MethodPut, "/product/prod_9",
			strings.NewReader(`name=Sweatband&priceInCents=500&category=tennis&stock=25`))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		stored, exists, _ := storer.Get(ctx, "prod_9")
		assert.True(t, exists)
		assert.Equal(t, "Sweatband", stored.Name)
		assert.Equal(t, int64(500), stored.PriceInCents)
		assert.Equal(t, mytime.ExampleTime, stored.CreatedAt)
	})

	t.Run("Upsert product without name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		_, router, _, nower, _ := setup(t, ctrl)

		nower.EXPECT().Now().Return(mytime.ExampleTime)

		request, _ := http.NewRequest(http.MethodPut, "/product/prod_9",
			strings.NewReader(`priceInCents=500`))
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 400, response.Code)
	})

	t.Run("Delete product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		ctx, router, storer, _, _ := setup(t, ctrl)

		_ = storer.Put(ctx, racket.UID, racket)

		request, _ := http.NewRequest(http.MethodDelete, "/product/prod_1", nil)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		assert.Equal(t, 200, response.Code)
		_, exists, _ := storer.Get(ctx, "prod_1")
		assert.False(t, exists)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[Product], *mytime.MockNower, *myuuid.MockUUIDer) {
	c := context.TODO()
	storer, _, _ := mystore.NewInMemoryStore[Product](c)
	nower := mytime.NewMockNower(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)

	sut := NewWebService(storer, nower, uuider)
	router := mux.NewRouter()
	sut.RegisterEndpoints(c, router)

	return c, router, storer, nower, uuider
}
