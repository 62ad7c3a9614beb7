package engine

import (
	"ordergen/internal/domain"
	"ordergen/internal/marketdata"
	"ordergen/internal/registryupdater"
	"ordergen/internal/tradeio"
)

// instrumentReplyHandler is the single tradeio.ReplyHandler registered
// per instrument: it forwards InstrumentState replies to the
// marketdata.Provider blocked awaiting one, and folds every
// ExecutionReport back into the registry through the same Updater the
// random algorithm uses, keeping the registry in sync with what the
// matching engine actually did to a resting order.
type instrumentReplyHandler struct {
	marketData *marketdata.Provider
	updater    *registryupdater.Updater
}

func newInstrumentReplyHandler(marketData *marketdata.Provider, updater *registryupdater.Updater) *instrumentReplyHandler {
	return &instrumentReplyHandler{marketData: marketData, updater: updater}
}

func (h *instrumentReplyHandler) HandleReply(reply tradeio.Reply) {
	h.marketData.HandleReply(reply)

	report, ok := reply.(tradeio.ExecutionReport)
	if !ok {
		return
	}

	clientOrderID := report.ClientOrderID
	status := report.OrderStatus
	h.updater.Update(domain.GeneratedMessage{
		MessageType:   domain.MessageTypeExecutionReport,
		ClientOrderID: &clientOrderID,
		OrderStatus:   &status,
		Quantity:      report.Quantity,
	})
}

var _ tradeio.ReplyHandler = (*instrumentReplyHandler)(nil)
