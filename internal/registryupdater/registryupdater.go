// Package registryupdater folds generated messages into the order
// registry, grounded on registry_updater.cpp.
package registryupdater

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordergen/internal/domain"
	"ordergen/internal/registry"
)

// Updater keeps one instrument's registry in sync with the messages its
// generators and the historical record applier emit.
type Updater struct {
	registry *registry.Registry
	logger   *zap.Logger
}

// New builds an Updater bound to one registry.
func New(reg *registry.Registry, logger *zap.Logger) *Updater {
	return &Updater{registry: reg, logger: logger}
}

// Update dispatches a message by MessageType. Unrecognized types (e.g.
// Reject, which no known matching engine emits for synthetic orders)
// are logged and otherwise ignored.
func (u *Updater) Update(message domain.GeneratedMessage) {
	switch message.MessageType {
	case domain.MessageTypeNewOrderSingle:
		u.handleNewOrder(message)
	case domain.MessageTypeOrderCancelReplaceRequest:
		u.handleModification(message)
	case domain.MessageTypeOrderCancelRequest:
		u.handleCancellation(message)
	case domain.MessageTypeExecutionReport:
		u.handleExecution(message)
	default:
		u.logger.Debug("registry updater received an order message that will not update the registry",
			zap.String("message_type", message.MessageType.String()))
	}
}

func (u *Updater) handleNewOrder(message domain.GeneratedMessage) {
	if !u.containsRestingOrder(message) {
		return
	}
	validateNewOrder(message)

	price := decimalOrZero(message.Price)
	qty := decimalOrZero(message.Quantity)

	order := domain.GeneratedOrderData{
		OwnerID:  *message.PartyID,
		OrderID:  *message.ClientOrderID,
		Side:     *message.Side,
		Price:    price,
		Quantity: qty,
	}

	if !u.registry.Add(order) {
		u.logger.Warn("registry updater failed to register a new generated order: owner or identifier already taken",
			zap.String("owner_id", order.OwnerID),
			zap.String("order_id", order.OrderID))
	}
}

func (u *Updater) handleModification(message domain.GeneratedMessage) {
	if !u.containsRestingOrder(message) {
		return
	}
	validateModification(message)

	ownerID := *message.PartyID
	orderID := *message.ClientOrderID

	patch := domain.Patch{NewOrderID: &orderID}
	if message.Price != nil {
		patch.NewPrice = message.Price
	}
	if message.Quantity != nil {
		patch.NewQty = message.Quantity
	}

	if !u.registry.UpdateByOwner(ownerID, patch) {
		u.logger.Warn("registry updater failed to update an order: no active order found for counterparty",
			zap.String("owner_id", ownerID),
			zap.String("new_order_id", orderID))
	}
}

func (u *Updater) handleCancellation(message domain.GeneratedMessage) {
	if !u.containsRestingOrder(message) {
		return
	}
	validateCancellation(message)

	ownerID := *message.PartyID
	if !u.registry.RemoveByOwner(ownerID) {
		u.logger.Warn("registry updater failed to remove an order: no active order found for counterparty",
			zap.String("owner_id", ownerID))
	}
}

func (u *Updater) handleExecution(message domain.GeneratedMessage) {
	validateExecution(message)
	orderID := *message.ClientOrderID

	switch *message.OrderStatus {
	case domain.OrderStatusPartiallyFilled:
		if message.Quantity != nil {
			u.registry.UpdateByIdentifier(orderID, domain.Patch{NewQty: message.Quantity})
		}
	case domain.OrderStatusFilled, domain.OrderStatusCancelled, domain.OrderStatusRejected:
		u.registry.RemoveByIdentifier(orderID)
	case domain.OrderStatusNew, domain.OrderStatusModified:
	}
}

// containsRestingOrder reports whether message carries a resting-order
// shape the registry cares about, logging and returning false otherwise.
func (u *Updater) containsRestingOrder(message domain.GeneratedMessage) bool {
	if message.IsRestingOrder() {
		return true
	}
	u.logger.Warn("registry updater ignores a message that does not contain a resting order",
		zap.String("message_type", message.MessageType.String()))
	return false
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func validateNewOrder(message domain.GeneratedMessage) {
	requireClientOrderID(message)
	requirePartyID(message)
	requireSide(message)
}

func validateModification(message domain.GeneratedMessage) {
	requireClientOrderID(message)
	requirePartyID(message)
}

func validateCancellation(message domain.GeneratedMessage) {
	requirePartyID(message)
}

func validateExecution(message domain.GeneratedMessage) {
	requireClientOrderID(message)
	requireOrderStatus(message)
}

func requireClientOrderID(message domain.GeneratedMessage) {
	if message.ClientOrderID == nil || *message.ClientOrderID == "" {
		panic(fmt.Sprintf("registry updater expects a %q message to have a non-empty ClOrdID", message.MessageType))
	}
}

func requirePartyID(message domain.GeneratedMessage) {
	if message.PartyID == nil || *message.PartyID == "" {
		panic(fmt.Sprintf("registry updater expects a %q message to have a non-empty counterparty", message.MessageType))
	}
}

func requireSide(message domain.GeneratedMessage) {
	if message.Side == nil {
		panic(fmt.Sprintf("registry updater expects a %q message to have a Side", message.MessageType))
	}
}

func requireOrderStatus(message domain.GeneratedMessage) {
	if message.OrderStatus == nil {
		panic(fmt.Sprintf("registry updater expects a %q message to have an OrderStatus", message.MessageType))
	}
}
