package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// StockRepo implementa repository.StockRepository sobre o Store. Com tx nula
// fica em modo somente leitura (atado ao "pool").
type StockRepo struct {
	store *Store
	tx    *Tx
}

// NewStockRepo constrói um repositório somente leitura.
func NewStockRepo(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

var _ repository.StockRepository = (*StockRepo)(nil)

// readEntry devolve a linha vista por esta transação: escrita pendente se
// houver, senão o valor confirmado.
func (r *StockRepo) readEntry(key entity.StockKey) (entity.StockEntry, bool) {
	if r.tx != nil {
		if entry, ok := r.tx.stockWrites[key]; ok {
			return entry, true
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.stocks[key]
	return entry, ok
}

func (r *StockRepo) Get(ctx context.Context, warehouseID, lotID string) (*entity.StockEntry, error) {
	key := entity.StockKey{WarehouseID: warehouseID, LotID: lotID}
	entry, ok := r.readEntry(key)
	if !ok {
		// Par ausente vale zero.
		entry = entity.StockEntry{WarehouseID: warehouseID, LotID: lotID, Quantity: decimal.Zero}
	}
	return &entry, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, warehouseID, lotID string) (*entity.StockEntry, error) {
	if r.tx == nil {
		return nil, errNoTx
	}
	key := entity.StockKey{WarehouseID: warehouseID, LotID: lotID}
	r.tx.lockStock(key)
	return r.Get(ctx, warehouseID, lotID)
}

func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockEntry) error {
	if r.tx == nil {
		return errNoTx
	}
	key := entity.StockKey{WarehouseID: stock.WarehouseID, LotID: stock.LotID}
	r.tx.lockStock(key)
	r.tx.stockWrites[key] = *stock
	return nil
}

// snapshot devolve todas as linhas visíveis (confirmadas + pendentes da tx).
func (r *StockRepo) snapshot() []entity.StockEntry {
	r.store.mu.Lock()
	merged := make(map[entity.StockKey]entity.StockEntry, len(r.store.stocks))
	for key, entry := range r.store.stocks {
		merged[key] = entry
	}
	r.store.mu.Unlock()
	if r.tx != nil {
		for key, entry := range r.tx.stockWrites {
			merged[key] = entry
		}
	}
	out := make([]entity.StockEntry, 0, len(merged))
	for _, entry := range merged {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		ki := entity.StockKey{WarehouseID: out[i].WarehouseID, LotID: out[i].LotID}
		kj := entity.StockKey{WarehouseID: out[j].WarehouseID, LotID: out[j].LotID}
		return ki.Less(kj)
	})
	return out
}

func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, entry := range r.snapshot() {
		if entry.WarehouseID == warehouseID {
			e := entry
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *StockRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	for _, entry := range r.snapshot() {
		if entry.LotID == lotID {
			e := entry
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *StockRepo) TotalByLot(ctx context.Context, lotID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range r.snapshot() {
		if entry.LotID == lotID {
			total = total.Add(entry.Quantity)
		}
	}
	return total, nil
}

func (r *StockRepo) TotalByWarehouse(ctx context.Context, warehouseID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, entry := range r.snapshot() {
		if entry.WarehouseID == warehouseID {
			total = total.Add(entry.Quantity)
		}
	}
	return total, nil
}
