//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/minimart-io/minimart/internal/testutil"
	"github.com/stretchr/testify/require"
)

// registerTestUser registers a fresh account and returns its username,
// email and token.
func registerTestUser(t *testing.T, client *testutil.Client, role string) (username, email, token string) {
	t.Helper()

	username = testutil.RandomUsername("shopper")
	email = testutil.RandomEmail("shopper")

	payload := map[string]string{
		"username": username,
		"email":    email,
		"password": "secret-password-123",
	}
	if role != "" {
		payload["role"] = role
	}

	resp, err := client.POST("/api/v1/auth/register", payload)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	require.NotEmpty(t, result.Data.Token)

	return username, email, result.Data.Token
}

// createTestCustomer creates a customer and returns its ID and email.
// The client must be authenticated.
func createTestCustomer(t *testing.T, client *testutil.Client) (id, email string) {
	t.Helper()

	email = testutil.RandomEmail("customer")
	resp, err := client.POST("/api/v1/customers", map[string]string{
		"name":  "Customer " + testutil.RandomSuffix(),
		"email": email,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID, email
}

// createTestProduct creates a product and returns its ID. The client
// must be authenticated as an admin.
func createTestProduct(t *testing.T, client *testutil.Client, price float64, stock int) string {
	t.Helper()

	resp, err := client.POST("/api/v1/products", map[string]interface{}{
		"name":           "Product " + testutil.RandomSuffix(),
		"description":    "Integration test product",
		"price":          price,
		"stock_quantity": stock,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID
}

// createTestOrder places an order for the given customer and products.
func createTestOrder(t *testing.T, client *testutil.Client, customerID string, items []map[string]interface{}) string {
	t.Helper()

	resp, err := client.POST("/api/v1/orders", map[string]interface{}{
		"customer_id": customerID,
		"items":       items,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	return result.Data.ID
}

func orderItem(productID string, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"product_id": productID,
		"quantity":   quantity,
	}
}
