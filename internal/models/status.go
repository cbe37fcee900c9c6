package models

import "fmt"

// OrderStatus is the closed set of states an order can be in.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
)

// AllOrderStatuses lists every valid status, in happy-path order followed
// by the side exits. Used for stats bucketing and input validation.
var AllOrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
	StatusReturned,
}

// orderTransitions maps each status to the statuses it may move to.
// Forward moves may skip intermediate steps (a warehouse can dispatch
// a pending order directly); backwards moves are never legal. Delivered
// admits only the returned side-exit (driven by the return workflow);
// cancelled and returned admit nothing.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusReturned},
	StatusCancelled:  {},
	StatusReturned:   {},
}

// ParseOrderStatus validates a raw string against the status whitelist.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, status := range AllOrderStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid order status: %s", s)
}

// IsTerminal reports whether no further normal transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusReturned
}

// CanTransitionTo reports whether moving from s to target is a legal
// transition per the lifecycle table.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}
