// internal/websocket/handler/quote.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"scout-service/internal/domain/pricing"
	wstypes "scout-service/internal/domain/websocket"
	xerrors "scout-service/internal/pkg/errors"
	ws "scout-service/internal/websocket"
)

type Previewer interface {
	Preview(ctx context.Context, agencyID string, req pricing.QuoteRequest) (*pricing.Result, error)
}

// QuoteHandler prices each "quote" frame for the client's agency.
type QuoteHandler struct {
	previewer Previewer
}

func NewQuoteHandler(previewer Previewer) *QuoteHandler {
	return &QuoteHandler{previewer: previewer}
}

func (h *QuoteHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeQuote}
}

// HandleMessage replies with a quote frame, or an error frame naming the
// field for invalid input. Only unexpected failures are returned.
func (h *QuoteHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.InboundMessage) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%w: quote frame has no data", ws.ErrInvalidMessage)
	}

	var req pricing.QuoteRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		return fmt.Errorf("%w: %v", ws.ErrInvalidMessage, err)
	}

	result, err := h.previewer.Preview(ctx, client.AgencyID(), req)
	if err != nil {
		if !xerrors.IsValidation(err) {
			return err
		}
		field, _ := xerrors.FieldOf(err)
		client.SendMessage(wstypes.NewError(msg.RequestID, field, err.Error()))
		return nil
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeQuote, msg.RequestID, result))
	return nil
}
