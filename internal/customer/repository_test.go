package customer_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todocrm/internal/customer"
	"github.com/idilsaglam/todocrm/internal/model"
)

func TestGetCustomersDecodesWrappedList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/customer", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"customer":[{"id":1,"firstName":"A","lastName":"B","email":"a@b.com"}]}`)
	}))
	defer srv.Close()

	repo := customer.New(srv.URL+"/", nil, time.Second)
	got, err := repo.GetCustomers(context.Background())
	require.NoError(t, err)

	require.Len(t, got.Customer, 1)
	assert.Equal(t, model.Customer{ID: 1, FirstName: "A", LastName: "B", Email: "a@b.com"}, got.Customer[0])
}

func TestGetCustomersEmptyWrapper(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	got, err := customer.New(srv.URL, nil, time.Second).GetCustomers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got.Customer)
	assert.Empty(t, got.Customer)
}

func TestGetCustomersPropagatesFailures(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := customer.New(srv.URL, nil, time.Second).GetCustomers(context.Background())
		var se *customer.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusInternalServerError, se.Code)
		assert.Equal(t, "boom", se.Body)
		assert.ErrorIs(t, err, customer.ErrStatus)
	})

	t.Run("decode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"customer": "nope"}`)
		}))
		defer srv.Close()

		_, err := customer.New(srv.URL, nil, time.Second).GetCustomers(context.Background())
		assert.Error(t, err)
	})

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := customer.New(url, nil, time.Second).GetCustomers(context.Background())
		assert.Error(t, err)
	})
}

func TestAddCustomerPostsJSON(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := customer.New(srv.URL, nil, time.Second).AddCustomer(context.Background(),
		model.Customer{ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"id":        float64(7),
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
	}, got)
}
