package services

import (
	"github.com/google/uuid"

	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type OrderAction string

const (
	OrderActionView           OrderAction = "view"
	OrderActionUpdateStatus   OrderAction = "update_status"
	OrderActionUpdatePayment  OrderAction = "update_payment"
	OrderActionUpdateShipping OrderAction = "update_shipping"
	OrderActionCancel         OrderAction = "cancel"
)

// Actor is the fully resolved caller identity handed to the policy: the user
// row with roles plus the ids of stores the user owns. The workflow service
// loads both inside the same transaction as the order.
type Actor struct {
	User     *types.User
	StoreIDs []uuid.UUID
}

func (a Actor) OwnsStore(storeID uuid.UUID) bool {
	for _, id := range a.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

// OrderPolicy decides whether an actor may perform an order mutation. It is a
// pure identity/role check; whether the order's current status permits the
// operation is the aggregate's concern and reported separately as
// invalid_state, so callers can tell "never allowed" from "not right now".
type OrderPolicy struct{}

func NewOrderPolicy() *OrderPolicy {
	return &OrderPolicy{}
}

func (p *OrderPolicy) Authorize(action OrderAction, actor Actor, order *types.Order) error {
	if actor.User == nil {
		return apierr.Unauthorized("no authenticated actor")
	}
	if actor.User.IsAdmin() {
		return nil
	}
	isOwner := order.UserID == actor.User.ID
	switch action {
	case OrderActionView:
		if isOwner || p.sellsOnOrder(actor, order) {
			return nil
		}
	case OrderActionUpdateStatus, OrderActionCancel:
		if isOwner {
			return nil
		}
	case OrderActionUpdatePayment, OrderActionUpdateShipping:
		if actor.User.IsSeller() {
			return nil
		}
	}
	return apierr.Unauthorized("user %s may not %s order %s", actor.User.ID, action, order.OrderNumber)
}

// sellsOnOrder reports whether the actor owns the store behind at least one
// of the order's line items.
func (p *OrderPolicy) sellsOnOrder(actor Actor, order *types.Order) bool {
	if !actor.User.IsSeller() {
		return false
	}
	for _, item := range order.Items {
		if actor.OwnsStore(item.StoreID) {
			return true
		}
	}
	return false
}
