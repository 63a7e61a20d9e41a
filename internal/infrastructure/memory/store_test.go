package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
	"github.com/ppmalta/AgroIPA/internal/infrastructure/memory"
)

var errAbort = errors.New("abortar transação")

// Escritas de uma transação abortada não podem sobreviver: o buffer inteiro
// é descartado no rollback.
func TestTx_RollbackDescartaTodasAsEscritas(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	lot := entity.Lot{ID: "lot-1", LotNumber: "L-001", Status: entity.LotStatusAtivo}

	err := runner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		lotRepo repository.LotRepository,
	) error {
		if err := lotRepo.Create(ctx, &lot); err != nil {
			return err
		}
		entry, err := stockRepo.GetForUpdate(ctx, "wh-1", lot.ID)
		if err != nil {
			return err
		}
		entry.Quantity = decimal.NewFromInt(100)
		if err := stockRepo.Upsert(ctx, entry); err != nil {
			return err
		}
		dest := "wh-1"
		if err := movRepo.Create(ctx, &entity.Movement{
			ID: "mov-1", LotID: lot.ID, Type: entity.MovementTypeEntrada,
			Quantity: decimal.NewFromInt(100), WarehouseDestinationID: &dest,
		}); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	lotRepo := memory.NewLotRepo(store)
	got, err := lotRepo.GetByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "lote da transação abortada não existe")

	stockRepo := memory.NewStockRepo(store)
	entry, err := stockRepo.Get(ctx, "wh-1", lot.ID)
	require.NoError(t, err)
	assert.True(t, entry.Quantity.IsZero())

	movRepo := memory.NewMovementRepo(store)
	movements, err := movRepo.ListByLot(ctx, lot.ID)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

// Leitores fora da transação não observam escritas pendentes; dentro dela a
// própria transação enxerga o que escreveu.
func TestTx_IsolamentoDeLeitura(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()
	outside := memory.NewStockRepo(store)

	err := runner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.LotRepository,
	) error {
		entry, err := stockRepo.GetForUpdate(ctx, "wh-1", "lot-1")
		if err != nil {
			return err
		}
		entry.Quantity = decimal.NewFromInt(42)
		if err := stockRepo.Upsert(ctx, entry); err != nil {
			return err
		}

		// A própria transação lê o valor pendente.
		inTx, err := stockRepo.Get(ctx, "wh-1", "lot-1")
		if err != nil {
			return err
		}
		assert.True(t, inTx.Quantity.Equal(decimal.NewFromInt(42)))

		// Um leitor de fora ainda vê zero.
		committed, err := outside.Get(ctx, "wh-1", "lot-1")
		if err != nil {
			return err
		}
		assert.True(t, committed.Quantity.IsZero(), "escrita pendente é invisível fora da tx")
		return nil
	})
	require.NoError(t, err)

	// Depois do commit o valor aparece.
	committed, err := outside.Get(ctx, "wh-1", "lot-1")
	require.NoError(t, err)
	assert.True(t, committed.Quantity.Equal(decimal.NewFromInt(42)))
}

// Operações de escrita exigem transação: os repositórios atados ao "pool"
// recusam lock e upsert.
func TestRepositoriosSomenteLeitura_RecusamEscrita(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	stockRepo := memory.NewStockRepo(store)
	_, err := stockRepo.GetForUpdate(ctx, "wh-1", "lot-1")
	assert.Error(t, err)
	err = stockRepo.Upsert(ctx, &entity.StockEntry{WarehouseID: "wh-1", LotID: "lot-1"})
	assert.Error(t, err)

	deliveryRepo := memory.NewDeliveryRepo(store)
	err = deliveryRepo.Create(ctx, &entity.Delivery{ID: "d-1"})
	assert.Error(t, err)
}

// Dois locks da mesma linha na mesma transação não deadlockam (aquisição
// idempotente por tx).
func TestTx_LockDaMesmaLinhaEIdempotente(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx, func(
			_ repository.MovementRepository,
			stockRepo repository.StockRepository,
			_ repository.LotRepository,
		) error {
			if _, err := stockRepo.GetForUpdate(ctx, "wh-1", "lot-1"); err != nil {
				return err
			}
			_, err := stockRepo.GetForUpdate(ctx, "wh-1", "lot-1")
			return err
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock repetido da mesma linha travou a transação")
	}
}

// O lock de linha serializa transações concorrentes sobre o mesmo par.
func TestTx_LockDeLinhaSerializaEscritas(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	const workers = 20
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			done <- runner.Run(ctx, func(
				_ repository.MovementRepository,
				stockRepo repository.StockRepository,
				_ repository.LotRepository,
			) error {
				entry, err := stockRepo.GetForUpdate(ctx, "wh-1", "lot-1")
				if err != nil {
					return err
				}
				entry.Quantity = entry.Quantity.Add(decimal.NewFromInt(1))
				return stockRepo.Upsert(ctx, entry)
			})
		}()
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, <-done)
	}

	entry, err := memory.NewStockRepo(store).Get(ctx, "wh-1", "lot-1")
	require.NoError(t, err)
	assert.True(t, entry.Quantity.Equal(decimal.NewFromInt(workers)), "incrementos não se perdem sob concorrência")
}

// Número de lote é único mesmo quando a duplicata ainda está pendente em
// outra escrita da mesma transação.
func TestLotRepo_NumeroDuplicadoDentroDaTx(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	err := runner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		lotRepo repository.LotRepository,
	) error {
		if err := lotRepo.Create(ctx, &entity.Lot{ID: "lot-1", LotNumber: "L-001"}); err != nil {
			return err
		}
		return lotRepo.Create(ctx, &entity.Lot{ID: "lot-2", LotNumber: "L-001"})
	})
	assert.Error(t, err, "duplicata pendente também é rejeitada")
}

// Pânico dentro de fn atravessa o runner, mas não pode vazar os locks de
// linha nem deixar escritas pendentes vivas.
func TestTx_PanicoLiberaLocksEDescartaEscritas(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	ctx := context.Background()

	func() {
		defer func() {
			require.NotNil(t, recover(), "o pânico propaga para o chamador")
		}()
		_ = runner.Run(ctx, func(
			_ repository.MovementRepository,
			stockRepo repository.StockRepository,
			_ repository.LotRepository,
		) error {
			entry, err := stockRepo.GetForUpdate(ctx, "wh-1", "lot-1")
			if err != nil {
				return err
			}
			entry.Quantity = decimal.NewFromInt(99)
			if err := stockRepo.Upsert(ctx, entry); err != nil {
				return err
			}
			panic("falha no meio da transação")
		})
	}()

	// A linha ficou destravada: outra transação sobre a mesma chave prossegue.
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, func(
			_ repository.MovementRepository,
			stockRepo repository.StockRepository,
			_ repository.LotRepository,
		) error {
			_, err := stockRepo.GetForUpdate(ctx, "wh-1", "lot-1")
			return err
		})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lock de linha vazou após o pânico")
	}

	entry, err := memory.NewStockRepo(store).Get(ctx, "wh-1", "lot-1")
	require.NoError(t, err)
	assert.True(t, entry.Quantity.IsZero(), "escrita da transação em pânico foi descartada")
}
