package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func requestedTransfer() *entity.Transfer {
	return &entity.Transfer{
		ID:             "tr-1",
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		Lines:          []entity.TransferLine{{ItemID: "item-1", Quantity: 3}},
		Status:         entity.TransferRequested,
		RequestedAt:    time.Now(),
	}
}

func TestTransferLifecycle(t *testing.T) {
	tr := requestedTransfer()
	now := time.Now()

	require.NoError(t, tr.Ship(now))
	assert.Equal(t, entity.TransferInTransit, tr.Status)
	require.NotNil(t, tr.ShippedAt)

	require.NoError(t, tr.Receive(now))
	assert.Equal(t, entity.TransferReceived, tr.Status)
	require.NotNil(t, tr.ReceivedAt)
}

func TestTransferInvalidTransitions(t *testing.T) {
	now := time.Now()

	// Recibir sin embarcar.
	tr := requestedTransfer()
	assert.ErrorIs(t, tr.Receive(now), domain.ErrTransferState)

	// Embarcar dos veces.
	require.NoError(t, tr.Ship(now))
	assert.ErrorIs(t, tr.Ship(now), domain.ErrTransferState)

	// Cancelar tras el embarque: el stock ya salió de origen.
	assert.ErrorIs(t, tr.Cancel(), domain.ErrTransferState)
}

func TestTransferCancel(t *testing.T) {
	tr := requestedTransfer()
	require.NoError(t, tr.Cancel())
	assert.Equal(t, entity.TransferCancelled, tr.Status)

	assert.ErrorIs(t, tr.Cancel(), domain.ErrTransferState)
}

func TestTransferStatusValid(t *testing.T) {
	for _, st := range []entity.TransferStatus{
		entity.TransferRequested, entity.TransferInTransit,
		entity.TransferReceived, entity.TransferCancelled,
	} {
		assert.True(t, st.Valid(), string(st))
	}
	assert.False(t, entity.TransferStatus("LOST").Valid())
}
