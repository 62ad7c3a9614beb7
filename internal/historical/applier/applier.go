// Package applier folds one historical depth-snapshot record into an
// instrument's generated-orders registry, producing the
// NewOrderSingle/OrderCancelReplaceRequest/OrderCancelRequest messages
// needed to make the registry match the record. Grounded on
// record_applier.cpp.
package applier

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordergen/internal/domain"
	"ordergen/internal/historicaldomain"
	"ordergen/internal/registry"
	"ordergen/internal/registryupdater"
)

// defaultCounterpartyPattern names synthetic counterparties the
// applier invents for a level side that carries no counterparty of
// its own, sharing the random generator's "CP<n>" prefix.
const defaultCounterpartyPattern = "CP%d"

// Context supplies the registry and identifier generator one
// instrument's applier runs need.
type Context interface {
	Registry() *registry.Registry
	GenerateIdentifier() string
}

// order is one side's worth of a level, resolved to a concrete price,
// quantity, side, and counterparty.
type order struct {
	counterpartyID string
	price          decimal.Decimal
	quantity       decimal.Decimal
	side           domain.Side
}

type recordApplier struct {
	context      Context
	updater      *registryupdater.Updater
	logger       *zap.Logger
	messages     []domain.GeneratedMessage
	partyCounter uint64
}

// Apply processes one historical record against context's registry
// and returns the messages it generated. A panic anywhere during
// processing (malformed record, registry invariant violation) is
// recovered: the record's messages are discarded and the attempt is
// logged, since the registry's state for this instrument may be
// inconsistent and must not be trusted for this tick's output.
func Apply(record historicaldomain.Record, context Context, logger *zap.Logger) (messages []domain.GeneratedMessage) {
	a := &recordApplier{
		context: context,
		updater: registryupdater.New(context.Registry(), logger),
		logger:  logger,
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("error occurred while processing a historical record; discarding all generated historical messages, registry may be corrupted",
				zap.Uint64("source_row", record.SourceRow),
				zap.Any("source_name", record.SourceName),
				zap.Any("panic", r))
			messages = nil
			return
		}
		messages = a.messages
		logger.Debug("messages generated from historical record",
			zap.Int("count", len(messages)),
			zap.Uint64("source_row", record.SourceRow))
	}()

	a.process(record)
	return
}

func (a *recordApplier) process(record historicaldomain.Record) {
	if !record.HasLevels() {
		a.cancelBidPart()
		a.cancelOfferPart()
		return
	}

	a.cancelOtherParties(record)

	levelsApplied := 0
	for idx, level := range record.Levels {
		if a.processLevel(level, idx) {
			levelsApplied++
		}
	}
}

func (a *recordApplier) processLevel(level historicaldomain.Level, idx int) bool {
	if !level.Processable() {
		return false
	}

	if !a.placeBid(level) {
		a.logger.Warn("no bid data found at historical level; bid part ignored", zap.Int("level_index", idx))
	}
	if !a.placeOffer(level) {
		a.logger.Warn("no offer data found at historical level; offer part ignored", zap.Int("level_index", idx))
	}
	return true
}

func (a *recordApplier) placeBid(level historicaldomain.Level) bool {
	if !level.HasBidPart() {
		return false
	}

	party := a.nextPartyID()
	if level.Bid.Counterparty != nil {
		party = *level.Bid.Counterparty
	}

	a.place(order{
		price:          *level.Bid.Price,
		quantity:       *level.Bid.Quantity,
		side:           domain.Buy,
		counterpartyID: party,
	})
	return true
}

func (a *recordApplier) placeOffer(level historicaldomain.Level) bool {
	if !level.HasOfferPart() {
		return false
	}

	party := a.nextPartyID()
	if level.Offer.Counterparty != nil {
		party = *level.Offer.Counterparty
	}

	a.place(order{
		price:          *level.Offer.Price,
		quantity:       *level.Offer.Quantity,
		side:           domain.Sell,
		counterpartyID: party,
	})
	return true
}

func (a *recordApplier) place(o order) {
	reg := a.context.Registry()
	existing, existingOK := reg.FindByOwner(o.counterpartyID)

	msg := domain.GeneratedMessage{
		Side:     &o.side,
		Price:    &o.price,
		Quantity: &o.quantity,
		PartyID:  &o.counterpartyID,
	}
	setRestingAttributes(&msg)

	if existingOK && existing.Side == o.side {
		orderID := existing.OrderID
		origID := existing.OrigOrderID
		msg.MessageType = domain.MessageTypeOrderCancelReplaceRequest
		msg.ClientOrderID = &orderID
		msg.OrigClOrdID = &origID
	} else {
		if existingOK {
			targetID := existing.OrderID
			a.cancel(func(candidate domain.GeneratedOrderData) bool {
				return candidate.OrderID == targetID
			})
		}
		id := a.context.GenerateIdentifier()
		msg.MessageType = domain.MessageTypeNewOrderSingle
		msg.ClientOrderID = &id
	}

	a.updater.Update(msg)
	a.messages = append(a.messages, msg)
}

func (a *recordApplier) cancel(criteria registry.Predicate) {
	orders := a.context.Registry().SelectBy(criteria)
	if len(orders) == 0 {
		return
	}

	cancelRequests := make([]domain.GeneratedMessage, 0, len(orders))
	for _, stored := range orders {
		orderID := stored.OrderID
		origID := stored.OrigOrderID
		side := stored.Side
		price := stored.Price
		qty := stored.Quantity
		ownerID := stored.OwnerID

		msg := domain.GeneratedMessage{
			MessageType:   domain.MessageTypeOrderCancelRequest,
			ClientOrderID: &orderID,
			OrigClOrdID:   &origID,
			Side:          &side,
			Price:         &price,
			Quantity:      &qty,
			PartyID:       &ownerID,
		}
		setRestingAttributes(&msg)
		cancelRequests = append(cancelRequests, msg)
	}

	for _, req := range cancelRequests {
		a.updater.Update(req)
	}
	a.messages = append(a.messages, cancelRequests...)
}

func (a *recordApplier) cancelBidPart() {
	a.cancel(func(order domain.GeneratedOrderData) bool { return order.Side == domain.Buy })
}

func (a *recordApplier) cancelOfferPart() {
	a.cancel(func(order domain.GeneratedOrderData) bool { return order.Side == domain.Sell })
}

func (a *recordApplier) cancelOtherParties(record historicaldomain.Record) {
	parties := make(map[string]struct{})
	for _, level := range record.Levels {
		if level.Bid.Counterparty != nil {
			parties[*level.Bid.Counterparty] = struct{}{}
		}
		if level.Offer.Counterparty != nil {
			parties[*level.Offer.Counterparty] = struct{}{}
		}
	}

	a.cancel(func(order domain.GeneratedOrderData) bool {
		_, known := parties[order.OwnerID]
		return !known
	})
}

func (a *recordApplier) nextPartyID() string {
	a.partyCounter++
	return fmt.Sprintf(defaultCounterpartyPattern, a.partyCounter)
}

func setRestingAttributes(msg *domain.GeneratedMessage) {
	orderType := domain.OrderTypeLimit
	tif := domain.TIFDay
	msg.OrderType = &orderType
	msg.TimeInForce = &tif
}
