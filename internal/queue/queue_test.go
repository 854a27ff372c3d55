package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-service/internal/domain"
)

func TestDecodeWorkItemRoundTrip(t *testing.T) {
	raw, err := json.Marshal(WorkItem{
		Action:   ActionNewTicket,
		TicketID: "tk-1",
		Priority: domain.TicketPriorityHigh,
		Category: domain.CategoryBilling,
	})
	require.NoError(t, err)

	item, err := DecodeWorkItem(raw)
	require.NoError(t, err)
	assert.Equal(t, ActionNewTicket, item.Action)
	assert.Equal(t, "tk-1", item.TicketID)
	assert.Equal(t, domain.TicketPriorityHigh, item.Priority)
	assert.Equal(t, domain.CategoryBilling, item.Category)
}

func TestDecodeWorkItemWireFormat(t *testing.T) {
	item, err := DecodeWorkItem([]byte(`{"action":"check_sla","ticketId":"tk-2"}`))
	require.NoError(t, err)
	assert.Equal(t, ActionCheckSLA, item.Action)
	assert.Equal(t, "tk-2", item.TicketID)
}

func TestDecodeWorkItemRejectsGarbage(t *testing.T) {
	_, err := DecodeWorkItem([]byte("not json"))
	assert.ErrorIs(t, err, ErrMalformedItem)
}

func TestDecodeWorkItemRequiresTicketID(t *testing.T) {
	_, err := DecodeWorkItem([]byte(`{"action":"new_ticket"}`))
	assert.ErrorIs(t, err, ErrMalformedItem)
}

func TestDecodeWorkItemRejectsUnknownAction(t *testing.T) {
	_, err := DecodeWorkItem([]byte(`{"action":"reboot","ticketId":"tk-3"}`))
	assert.ErrorIs(t, err, ErrMalformedItem)
}
