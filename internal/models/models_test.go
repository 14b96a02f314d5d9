package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractTransition(t *testing.T) {
	t.Run("active can complete, default or cancel", func(t *testing.T) {
		for _, to := range []string{ContractStatusCompleted, ContractStatusDefaulted, ContractStatusCancelled} {
			c := HirePurchaseContract{ContractNumber: "HP-test", Status: ContractStatusActive}
			require.NoError(t, c.Transition(to))
			assert.Equal(t, to, c.Status)
		}
	})

	t.Run("terminal states reject every move", func(t *testing.T) {
		for _, from := range []string{ContractStatusCompleted, ContractStatusDefaulted, ContractStatusCancelled} {
			c := HirePurchaseContract{ContractNumber: "HP-test", Status: from}
			assert.Error(t, c.Transition(ContractStatusActive))
			assert.Error(t, c.Transition(ContractStatusCompleted))
			assert.Equal(t, from, c.Status)
		}
	})
}

func TestTransferTransitions(t *testing.T) {
	now := time.Now()

	t.Run("pending completes once", func(t *testing.T) {
		tr := ProductTransfer{Status: TransferStatusPending}
		require.NoError(t, tr.MarkCompleted(7, now))
		assert.Equal(t, TransferStatusCompleted, tr.Status)
		require.NotNil(t, tr.CompletedBy)
		assert.Equal(t, uint(7), *tr.CompletedBy)

		assert.Error(t, tr.MarkCompleted(7, now))
		assert.Error(t, tr.MarkCancelled())
	})

	t.Run("pending cancels once", func(t *testing.T) {
		tr := ProductTransfer{Status: TransferStatusPending}
		require.NoError(t, tr.MarkCancelled())
		assert.Equal(t, TransferStatusCancelled, tr.Status)

		assert.Error(t, tr.MarkCompleted(7, now))
	})
}

func TestInstallmentApplyPayment(t *testing.T) {
	now := time.Now()

	newRow := func() InstallmentPayment {
		return InstallmentPayment{
			InstallmentNumber: 1,
			AmountDue:         decimal.NewFromInt(140),
			AmountPaid:        decimal.Zero,
			Status:            InstallmentStatusPending,
		}
	}

	t.Run("exact payment flips to paid", func(t *testing.T) {
		row := newRow()
		require.NoError(t, row.ApplyPayment(decimal.NewFromInt(140), "cash", now))
		assert.Equal(t, InstallmentStatusPaid, row.Status)
		assert.True(t, row.AmountPaid.Equal(decimal.NewFromInt(140)))
		require.NotNil(t, row.PaymentDate)
	})

	t.Run("short payment flips to partial", func(t *testing.T) {
		row := newRow()
		require.NoError(t, row.ApplyPayment(decimal.NewFromInt(100), "cash", now))
		assert.Equal(t, InstallmentStatusPartial, row.Status)
		assert.True(t, row.AmountPaid.Equal(decimal.NewFromInt(100)))
	})

	t.Run("payments accumulate across calls", func(t *testing.T) {
		row := newRow()
		require.NoError(t, row.ApplyPayment(decimal.NewFromInt(100), "cash", now))
		require.NoError(t, row.ApplyPayment(decimal.NewFromInt(40), "cash", now))
		assert.Equal(t, InstallmentStatusPaid, row.Status)
		assert.True(t, row.AmountPaid.Equal(decimal.NewFromInt(140)))
	})

	t.Run("overpayment is kept without proration", func(t *testing.T) {
		row := newRow()
		require.NoError(t, row.ApplyPayment(decimal.NewFromInt(200), "cash", now))
		assert.Equal(t, InstallmentStatusPaid, row.Status)
		assert.True(t, row.AmountPaid.Equal(decimal.NewFromInt(200)))
	})

	t.Run("rejects zero, negative and repeat payments", func(t *testing.T) {
		row := newRow()
		assert.Error(t, row.ApplyPayment(decimal.Zero, "cash", now))
		assert.Error(t, row.ApplyPayment(decimal.NewFromInt(-10), "cash", now))

		require.NoError(t, row.ApplyPayment(decimal.NewFromInt(140), "cash", now))
		assert.Error(t, row.ApplyPayment(decimal.NewFromInt(10), "cash", now))
	})
}
