package models

import (
	"fmt"
	"time"
)

// RequestType distinguishes a return from an exchange.
type RequestType string

const (
	RequestTypeReturn   RequestType = "return"
	RequestTypeExchange RequestType = "exchange"
)

// ParseRequestType validates a raw request type string.
func ParseRequestType(s string) (RequestType, error) {
	switch RequestType(s) {
	case RequestTypeReturn, RequestTypeExchange:
		return RequestType(s), nil
	}
	return "", fmt.Errorf("invalid request type: %s", s)
}

// ReturnStatus is the two-outcome state of a return/exchange request.
type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
)

// ParseReturnStatus validates a raw disposition status string.
func ParseReturnStatus(s string) (ReturnStatus, error) {
	switch ReturnStatus(s) {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected:
		return ReturnStatus(s), nil
	}
	return "", fmt.Errorf("invalid return status: %s", s)
}

// ReturnExchangeRequest is a customer request against one order line.
// It is created once in state "pending" and mutated exactly once by an
// admin disposition; it is never deleted.
type ReturnExchangeRequest struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string       `json:"order_id" gorm:"index;type:varchar(36)" validate:"required"`
	OrderItemID  string       `json:"order_item_id" gorm:"index;type:varchar(36)" validate:"required"`
	UserID       string       `json:"user_id" gorm:"index;type:varchar(36)" validate:"required"`
	RequestType  RequestType  `json:"request_type" gorm:"type:varchar(20)" validate:"required,oneof=return exchange"`
	Reason       string       `json:"reason" gorm:"type:varchar(255)" validate:"required"`
	Description  string       `json:"description" gorm:"type:text"`
	Images       StringList   `json:"images" gorm:"type:text"`
	Status       ReturnStatus `json:"status" gorm:"type:varchar(20);index"`
	AdminComment string       `json:"admin_comment" gorm:"type:text"`
	ProcessedBy  *string      `json:"processed_by,omitempty" gorm:"type:varchar(36)"`
	RefundAmount *float64     `json:"refund_amount,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
