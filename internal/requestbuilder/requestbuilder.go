// Package requestbuilder converts a neutral domain.GeneratedMessage
// (the random algorithm's and the historical applier's shared output
// shape) into the wire-level tradeio.Request the trading channel
// expects, grounded on spec.md §6's trading request channel shapes.
package requestbuilder

import (
	"fmt"

	"ordergen/internal/domain"
	"ordergen/internal/tradeio"
)

// InstrumentDescriptorOf projects an instrument's security identifiers
// into the wire descriptor carried on every trading request.
func InstrumentDescriptorOf(instrument domain.Instrument) tradeio.InstrumentDescriptor {
	return tradeio.InstrumentDescriptor{
		Symbol:            instrument.Symbol,
		SecurityType:      instrument.SecurityType,
		Currency:          instrument.Currency,
		Exchange:          instrument.Exchange,
		CUSIP:             instrument.CUSIP,
		ISIN:              instrument.ISIN,
		SEDOL:             instrument.SEDOL,
		RIC:               instrument.RIC,
		ExchangeSymbol:    instrument.ExchangeSymbol,
		BloombergSymbolID: instrument.BloombergSymbolID,
	}
}

// Build converts message into the matching tradeio.Request for
// requesterInstrumentID/instrument, or returns an error if message
// does not carry one of the three order-ish message types the channel
// accepts (ExecutionReport never originates a request) or is missing a
// field its request shape requires.
func Build(message domain.GeneratedMessage, requesterInstrumentID string, instrument tradeio.InstrumentDescriptor) (tradeio.Request, error) {
	switch message.MessageType {
	case domain.MessageTypeNewOrderSingle:
		return buildPlacement(message, requesterInstrumentID, instrument)
	case domain.MessageTypeOrderCancelReplaceRequest:
		return buildModification(message, requesterInstrumentID, instrument)
	case domain.MessageTypeOrderCancelRequest:
		return buildCancellation(message, requesterInstrumentID, instrument)
	default:
		return nil, fmt.Errorf("requestbuilder: message type %s cannot originate a trading request", message.MessageType)
	}
}

func buildPlacement(message domain.GeneratedMessage, requesterInstrumentID string, instrument tradeio.InstrumentDescriptor) (tradeio.Request, error) {
	if message.ClientOrderID == nil || message.PartyID == nil || message.Side == nil ||
		message.OrderType == nil || message.TimeInForce == nil || message.Price == nil || message.Quantity == nil {
		return nil, fmt.Errorf("requestbuilder: NewOrderSingle message missing required field(s)")
	}
	return tradeio.NewOrderPlacementRequest(
		requesterInstrumentID, instrument,
		*message.ClientOrderID, *message.PartyID, *message.Side,
		*message.OrderType, *message.TimeInForce, *message.Price, *message.Quantity,
	), nil
}

func buildModification(message domain.GeneratedMessage, requesterInstrumentID string, instrument tradeio.InstrumentDescriptor) (tradeio.Request, error) {
	if message.ClientOrderID == nil || message.OrigClOrdID == nil || message.PartyID == nil ||
		message.Side == nil || message.Price == nil || message.Quantity == nil {
		return nil, fmt.Errorf("requestbuilder: OrderCancelReplaceRequest message missing required field(s)")
	}
	return tradeio.NewOrderModificationRequest(
		requesterInstrumentID, instrument,
		*message.ClientOrderID, *message.OrigClOrdID, *message.PartyID, *message.Side,
		*message.Price, *message.Quantity,
	), nil
}

func buildCancellation(message domain.GeneratedMessage, requesterInstrumentID string, instrument tradeio.InstrumentDescriptor) (tradeio.Request, error) {
	if message.ClientOrderID == nil || message.OrigClOrdID == nil || message.PartyID == nil || message.Side == nil {
		return nil, fmt.Errorf("requestbuilder: OrderCancelRequest message missing required field(s)")
	}
	return tradeio.NewOrderCancellationRequest(
		requesterInstrumentID, instrument,
		*message.ClientOrderID, *message.OrigClOrdID, *message.PartyID, *message.Side,
	), nil
}
