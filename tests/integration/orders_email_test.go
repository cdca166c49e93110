//go:build integration

package integration

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises real SMTP delivery through Mailpit: placing an order sends a
// confirmation email, changing its status sends an update email.
func TestOrderEmails(t *testing.T) {
	require.NoError(t, mailpitClient.DeleteAllMessages())

	admin := newTestClient(t)
	admin.LoginAsAdmin(t)

	customerID, customerEmail := createTestCustomer(t, admin)
	productID := createTestProduct(t, admin, 19.99, 100)

	orderID := createTestOrder(t, admin, customerID, []map[string]interface{}{
		orderItem(productID, 2),
	})

	messages, err := mailpitClient.WaitForMessages(1, 10*time.Second)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	confirmation, err := mailpitClient.GetMessageByID(messages[0].ID)
	require.NoError(t, err)

	assert.Contains(t, confirmation.Subject, "confirmed")
	require.NotEmpty(t, confirmation.To)
	assert.Equal(t, customerEmail, confirmation.To[0].Address)
	assert.Contains(t, confirmation.Text, "$39.98")

	resp, err := admin.PATCH("/api/v1/orders/"+orderID+"/status", map[string]string{
		"status": "shipped",
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	messages, err = mailpitClient.WaitForMessages(2, 10*time.Second)
	require.NoError(t, err)

	var statusMail string
	for _, msg := range messages {
		if strings.Contains(msg.Subject, "shipped") {
			statusMail = msg.ID
		}
	}
	require.NotEmpty(t, statusMail, "status update email should arrive")

	update, err := mailpitClient.GetMessageByID(statusMail)
	require.NoError(t, err)
	assert.Contains(t, update.Text, "SHIPPED")
}
