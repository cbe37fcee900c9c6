package repositories_test

import (
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// createDeliveredOrder seeds one delivered order and returns it with
// its items loaded.
func createDeliveredOrder(t *testing.T, db *gorm.DB, userID string) *models.Order {
	t.Helper()
	repo := repositories.NewGORMOrderRepository(db, nil)
	order := sampleOrder(userID)
	assert.NoError(t, repo.Create(order))
	for _, status := range []models.OrderStatus{models.StatusConfirmed, models.StatusShipped, models.StatusDelivered} {
		assert.NoError(t, repo.UpdateStatus(order.ID, status, "", nil))
	}
	got, err := repo.GetByID(order.ID)
	assert.NoError(t, err)
	return got
}

func TestReturnRepository_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", "asha", "asha@example.com")
	order := createDeliveredOrder(t, db, "user-1")
	repo := repositories.NewGORMReturnRepository(db)

	request := &models.ReturnExchangeRequest{
		OrderID:     order.ID,
		OrderItemID: order.Items[0].ID,
		UserID:      "user-1",
		RequestType: models.RequestTypeReturn,
		Reason:      "wrong size",
		Description: "ordered M, need L",
		Images:      models.StringList{"https://cdn.example.com/r/1.jpg", "https://cdn.example.com/r/2.jpg"},
	}
	assert.NoError(t, repo.Create(request))
	assert.NotEmpty(t, request.ID)
	assert.Equal(t, models.ReturnStatusPending, request.Status)

	// The stored image list round-trips back into a slice
	got, err := repo.GetByID(request.ID)
	assert.NoError(t, err)
	assert.Equal(t, request.Images, got.Images)

	// List joins order number, item snapshot and requester details, and
	// carries the request's own fields with images back in slice form
	summaries, err := repo.List("", "")
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, order.OrderNumber, summaries[0].OrderNumber)
	assert.Equal(t, order.Items[0].ProductName, summaries[0].ProductName)
	assert.Equal(t, "asha", summaries[0].CustomerName)
	assert.Equal(t, "asha@example.com", summaries[0].CustomerEmail)
	assert.Equal(t, "wrong size", summaries[0].Reason)
	assert.Equal(t, "ordered M, need L", summaries[0].Description)
	assert.Equal(t, request.Images, summaries[0].Images)

	// Filters
	summaries, err = repo.List("user-1", "pending")
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	summaries, err = repo.List("someone-else", "")
	assert.NoError(t, err)
	assert.Empty(t, summaries)
	summaries, err = repo.List("", "approved")
	assert.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestReturnRepository_Dispose(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "user-1", "asha", "asha@example.com")
	order := createDeliveredOrder(t, db, "user-1")
	repo := repositories.NewGORMReturnRepository(db)

	request := &models.ReturnExchangeRequest{
		OrderID:     order.ID,
		OrderItemID: order.Items[0].ID,
		UserID:      "user-1",
		RequestType: models.RequestTypeReturn,
		Reason:      "damaged on arrival",
	}
	assert.NoError(t, repo.Create(request))
	createdAt := request.CreatedAt

	time.Sleep(5 * time.Millisecond)
	refund := 200.0
	err := repo.Dispose(request.ID, repositories.Disposition{
		Status:       models.ReturnStatusApproved,
		AdminComment: "photos verified",
		ProcessedBy:  "admin-1",
		RefundAmount: &refund,
	})
	assert.NoError(t, err)

	// All disposition fields land together
	got, err := repo.GetByID(request.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ReturnStatusApproved, got.Status)
	assert.Equal(t, "photos verified", got.AdminComment)
	assert.Equal(t, "admin-1", *got.ProcessedBy)
	assert.Equal(t, refund, *got.RefundAmount)
	assert.True(t, got.UpdatedAt.After(createdAt))

	// The list view carries the disposition fields too
	summaries, err := repo.List("", "approved")
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "photos verified", summaries[0].AdminComment)
	assert.Equal(t, "admin-1", *summaries[0].ProcessedBy)
	assert.Equal(t, refund, *summaries[0].RefundAmount)

	// Unknown id: zero rows affected maps to not-found
	err = repo.Dispose("no-such-request", repositories.Disposition{Status: models.ReturnStatusRejected})
	assert.ErrorIs(t, err, repositories.ErrRequestNotFound)
}
