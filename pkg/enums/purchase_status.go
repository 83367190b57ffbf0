package enums

import "fmt"

// PurchaseStatus tracks the fixed purchase lifecycle. The short codes are the
// persisted values; purchases only ever move forward through the first six.
type PurchaseStatus string

const (
	PurchaseStatusPendingPayment PurchaseStatus = "PP"
	PurchaseStatusOrdered        PurchaseStatus = "O"
	PurchaseStatusOrderConfirmed PurchaseStatus = "OC"
	PurchaseStatusOnDelivery     PurchaseStatus = "OD"
	PurchaseStatusDelivered      PurchaseStatus = "D"
	PurchaseStatusReceived       PurchaseStatus = "R"
	PurchaseStatusInDispute      PurchaseStatus = "ID"
	PurchaseStatusCancelled      PurchaseStatus = "C"
)

var purchaseStatusNames = map[PurchaseStatus]string{
	PurchaseStatusPendingPayment: "Pending Payment",
	PurchaseStatusOrdered:        "Ordered",
	PurchaseStatusOrderConfirmed: "Order Confirmed",
	PurchaseStatusOnDelivery:     "On Delivery",
	PurchaseStatusDelivered:      "Delivered",
	PurchaseStatusReceived:       "Received",
	PurchaseStatusInDispute:      "In Dispute",
	PurchaseStatusCancelled:      "Cancelled",
}

var validPurchaseStatuses = []PurchaseStatus{
	PurchaseStatusPendingPayment,
	PurchaseStatusOrdered,
	PurchaseStatusOrderConfirmed,
	PurchaseStatusOnDelivery,
	PurchaseStatusDelivered,
	PurchaseStatusReceived,
	PurchaseStatusInDispute,
	PurchaseStatusCancelled,
}

// String implements fmt.Stringer.
func (p PurchaseStatus) String() string {
	return string(p)
}

// DisplayName returns the human-readable status name.
func (p PurchaseStatus) DisplayName() string {
	if name, ok := purchaseStatusNames[p]; ok {
		return name
	}
	return string(p)
}

// IsValid reports whether the value is a known PurchaseStatus.
func (p PurchaseStatus) IsValid() bool {
	for _, candidate := range validPurchaseStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePurchaseStatus converts raw input into a PurchaseStatus.
func ParsePurchaseStatus(value string) (PurchaseStatus, error) {
	for _, candidate := range validPurchaseStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid purchase status %q", value)
}
