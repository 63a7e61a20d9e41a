package memory

import (
	"context"
	"errors"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// errNoTx sai quando um repositório atado ao pool recebe uma operação que só
// faz sentido dentro de transação (lock de linha, escrita de ledger).
var errNoTx = errors.New("memory: operação exige transação")

// TxRunner implementa os contratos transacionais do núcleo e da logística
// sobre o Store em processo.
type TxRunner struct {
	store *Store
}

// NewTxRunner constrói o runner sobre o store dado.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run executa fn com os repositórios de estoque atados a uma transação nova.
// Erro em fn descarta tudo; sucesso aplica as escritas atomicamente.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	lotRepo repository.LotRepository,
) error) error {
	tx := newTx(r.store)
	committed := false
	// O rollback precisa rodar em qualquer saída: um pânico dentro de fn não
	// pode deixar locks de linha presos.
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()
	if err := fn(
		&MovementRepo{store: r.store, tx: tx},
		&StockRepo{store: r.store, tx: tx},
		&LotRepo{store: r.store, tx: tx},
	); err != nil {
		return err
	}
	tx.commit()
	committed = true
	return nil
}

// RunLogistics executa fn com os repositórios de logística e de estoque
// atados à mesma transação.
func (r *TxRunner) RunLogistics(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	lotRepo repository.LotRepository,
	expRepo repository.ExpeditionRepository,
	deliveryRepo repository.DeliveryRepository,
	requestRepo repository.SeedRequestRepository,
) error) error {
	tx := newTx(r.store)
	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
	}()
	if err := fn(
		&MovementRepo{store: r.store, tx: tx},
		&StockRepo{store: r.store, tx: tx},
		&LotRepo{store: r.store, tx: tx},
		&ExpeditionRepo{store: r.store, tx: tx},
		&DeliveryRepo{store: r.store, tx: tx},
		&SeedRequestRepo{store: r.store, tx: tx},
	); err != nil {
		return err
	}
	tx.commit()
	committed = true
	return nil
}

// lockStock adquire (uma única vez por transação) o lock da linha de estoque.
func (tx *Tx) lockStock(key entity.StockKey) {
	if _, held := tx.stockHeld[key]; held {
		return
	}
	rl := tx.store.stockLock(key)
	rl.mu.Lock()
	tx.stockHeld[key] = rl
}

func (tx *Tx) lockExpedition(id string) {
	if _, held := tx.expHeld[id]; held {
		return
	}
	rl := tx.store.expLock(id)
	rl.mu.Lock()
	tx.expHeld[id] = rl
}

func (tx *Tx) lockRequest(id string) {
	if _, held := tx.reqHeld[id]; held {
		return
	}
	rl := tx.store.reqLock(id)
	rl.mu.Lock()
	tx.reqHeld[id] = rl
}
