package purchase

import "github.com/loosihong/RAiD-Backend/pkg/enums"

// Actor identifies who is allowed to drive a transition.
type Actor string

const (
	// ActorCustomer scopes the transition to purchases the caller placed.
	ActorCustomer Actor = "customer"
	// ActorStoreOwner scopes the transition to purchases placed against the
	// caller's store.
	ActorStoreOwner Actor = "store_owner"
)

// Transition is one forward step of the purchase lifecycle. The lifecycle is
// strictly forward; Cancelled and InDispute are administrative end states no
// transition here ever produces.
type Transition struct {
	Name string
	From enums.PurchaseStatus
	To   enums.PurchaseStatus
	Actor Actor

	// RecomputeDelivery refreshes estimatedDeliveryDate from the store's
	// current lead time when the transition applies.
	RecomputeDelivery bool
	// StampDelivered records the delivery timestamp when the transition
	// applies.
	StampDelivered bool
}

var (
	transitionPay = Transition{
		Name:  "pay",
		From:  enums.PurchaseStatusPendingPayment,
		To:    enums.PurchaseStatusOrdered,
		Actor: ActorCustomer,
	}
	transitionConfirm = Transition{
		Name:              "confirm",
		From:              enums.PurchaseStatusOrdered,
		To:                enums.PurchaseStatusOrderConfirmed,
		Actor:             ActorStoreOwner,
		RecomputeDelivery: true,
	}
	transitionSend = Transition{
		Name:  "send",
		From:  enums.PurchaseStatusOrderConfirmed,
		To:    enums.PurchaseStatusOnDelivery,
		Actor: ActorStoreOwner,
	}
	transitionDelivered = Transition{
		Name:           "delivered",
		From:           enums.PurchaseStatusOnDelivery,
		To:             enums.PurchaseStatusDelivered,
		Actor:          ActorStoreOwner,
		StampDelivered: true,
	}
	transitionReceive = Transition{
		Name:  "receive",
		From:  enums.PurchaseStatusDelivered,
		To:    enums.PurchaseStatusReceived,
		Actor: ActorCustomer,
	}
)

// endStates are statuses a purchase never leaves through modeled transitions.
var endStates = []enums.PurchaseStatus{
	enums.PurchaseStatusReceived,
	enums.PurchaseStatusInDispute,
	enums.PurchaseStatusCancelled,
}
