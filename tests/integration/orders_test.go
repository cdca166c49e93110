//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/minimart-io/minimart/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLifecycle(t *testing.T) {
	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	customerID, _ := createTestCustomer(t, admin)
	productA := createTestProduct(t, admin, 10.00, 100)
	productB := createTestProduct(t, admin, 2.50, 100)

	orderID := createTestOrder(t, admin, customerID, []map[string]interface{}{
		orderItem(productA, 2),
		orderItem(productB, 4),
	})

	resp, err := admin.GET("/api/v1/orders/" + orderID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order struct {
		Data struct {
			ID     string `json:"id"`
			Number string `json:"number"`
			Status string `json:"status"`
			Items  []struct {
				ID        string `json:"id"`
				ProductID string `json:"product_id"`
				Quantity  int    `json:"quantity"`
			} `json:"items"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &order)
	assert.Equal(t, "pending", order.Data.Status)
	assert.NotEmpty(t, order.Data.Number)
	require.Len(t, order.Data.Items, 2)

	resp, err = admin.GET("/api/v1/orders/" + orderID + "/total")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var total struct {
		Data struct {
			Total float64 `json:"total"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &total)
	assert.InDelta(t, 30.00, total.Data.Total, 0.001)

	resp, err = admin.PATCH("/api/v1/orders/"+orderID+"/status", map[string]string{
		"status": "confirmed",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &order)
	assert.Equal(t, "confirmed", order.Data.Status)

	raw := newTestClientWithoutValidation()
	raw.Token = admin.Token
	resp, err = raw.PATCH("/api/v1/orders/"+orderID+"/status", map[string]string{
		"status": "teleported",
	})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = admin.DELETE("/api/v1/orders/" + orderID)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestOrderItems(t *testing.T) {
	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	customerID, _ := createTestCustomer(t, admin)
	productA := createTestProduct(t, admin, 10.00, 100)
	productB := createTestProduct(t, admin, 5.00, 100)

	orderID := createTestOrder(t, admin, customerID, []map[string]interface{}{
		orderItem(productA, 1),
	})

	resp, err := admin.POST("/api/v1/orders/"+orderID+"/items", orderItem(productB, 3))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var order struct {
		Data struct {
			Items []struct {
				ID       string `json:"id"`
				Quantity int    `json:"quantity"`
			} `json:"items"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &order)
	require.Len(t, order.Data.Items, 2)

	itemID := order.Data.Items[1].ID
	resp, err = admin.PATCH("/api/v1/orders/"+orderID+"/items/"+itemID, map[string]int{
		"quantity": 7,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &order)
	assert.Equal(t, 7, order.Data.Items[1].Quantity)

	resp, err = admin.DELETE("/api/v1/orders/" + orderID + "/items/" + itemID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &order)
	require.Len(t, order.Data.Items, 1)
}

func TestOrderCounts(t *testing.T) {
	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	customerID, _ := createTestCustomer(t, admin)
	productID := createTestProduct(t, admin, 3.00, 100)

	for i := 0; i < 2; i++ {
		createTestOrder(t, admin, customerID, []map[string]interface{}{
			orderItem(productID, 2),
		})
	}

	resp, err := admin.GET("/api/v1/customers/" + customerID + "/orders/count")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count struct {
		Data struct {
			Count int `json:"count"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &count)
	assert.Equal(t, 2, count.Data.Count)

	resp, err = admin.GET("/api/v1/products/" + productID + "/orders/count")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &count)
	assert.Equal(t, 2, count.Data.Count)

	resp, err = admin.GET("/api/v1/customers/" + customerID + "/orders/purchases")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &count)
	assert.Equal(t, 2, count.Data.Count)

	resp, err = admin.GET("/api/v1/customers/" + customerID + "/orders/purchases?from=2100-01-01T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &count)
	assert.Equal(t, 0, count.Data.Count)
}

func TestListOrdersByCustomer(t *testing.T) {
	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	customerID, _ := createTestCustomer(t, admin)
	productID := createTestProduct(t, admin, 3.00, 100)
	orderID := createTestOrder(t, admin, customerID, []map[string]interface{}{
		orderItem(productID, 1),
	})

	resp, err := admin.GET("/api/v1/orders?customer_id=" + customerID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var orders struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &orders)
	require.Len(t, orders.Data, 1)
	assert.Equal(t, orderID, orders.Data[0].ID)
}
