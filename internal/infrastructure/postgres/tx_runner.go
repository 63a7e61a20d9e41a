package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ppmalta/AgroIPA/internal/application/inventory"
	"github.com/ppmalta/AgroIPA/internal/application/logistics"
	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
	"github.com/ppmalta/AgroIPA/pkg/metrics"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ logistics.TxRunner = (*TxRunner)(nil)

// maxTxAttempts limita as reexecuções de transações que falham por
// serialização ou deadlock detectado pelo servidor.
const maxTxAttempts = 3

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia uma transação, executa fn com repositórios atados a ela e faz
// Commit ou Rollback. Falhas transitórias (40001/40P01) são reexecutadas até
// maxTxAttempts; depois disso sai ErrTransientStorage para o chamador decidir.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	lotRepo repository.LotRepository,
) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		movRepo := NewMovementRepository(tx)
		stockRepo := NewStockRepository(tx)
		lotRepo := NewLotRepository(tx)

		if err := fn(movRepo, stockRepo, lotRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// RunLogistics inicia uma transação com os repositórios de logística e de
// estoque (o embarque precisa dos dois lados na mesma unidade atômica).
func (r *TxRunner) RunLogistics(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	lotRepo repository.LotRepository,
	expRepo repository.ExpeditionRepository,
	deliveryRepo repository.DeliveryRepository,
	requestRepo repository.SeedRequestRepository,
) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		movRepo := NewMovementRepository(tx)
		stockRepo := NewStockRepository(tx)
		lotRepo := NewLotRepository(tx)
		expRepo := NewExpeditionRepository(tx)
		deliveryRepo := NewDeliveryRepository(tx)
		requestRepo := NewSeedRequestRepository(tx)

		if err := fn(movRepo, stockRepo, lotRepo, expRepo, deliveryRepo, requestRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

func (r *TxRunner) withRetry(ctx context.Context, attempt func() error) error {
	var err error
	for i := 0; i < maxTxAttempts; i++ {
		err = attempt()
		if err == nil || !isRetryableTxError(err) {
			return err
		}
		metrics.TxRetriesTotal.Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTransientStorage, err)
}
