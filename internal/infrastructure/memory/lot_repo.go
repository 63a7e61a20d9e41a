package memory

import (
	"context"
	"sort"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// LotRepo implementa repository.LotRepository sobre o Store.
type LotRepo struct {
	store *Store
	tx    *Tx
}

// NewLotRepo constrói um repositório somente leitura.
func NewLotRepo(store *Store) *LotRepo {
	return &LotRepo{store: store}
}

var _ repository.LotRepository = (*LotRepo)(nil)

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	if r.tx == nil {
		return errNoTx
	}
	if existing, _ := r.GetByNumber(ctx, lot.LotNumber); existing != nil {
		return &domain.DuplicateKeyError{Entity: "lote", Key: lot.LotNumber}
	}
	r.tx.lotCreates = append(r.tx.lotCreates, *lot)
	return nil
}

// readLot devolve o lote visível pela transação: criação pendente, status
// pendente sobreposto ao confirmado, ou só o confirmado.
func (r *LotRepo) readLot(id string) (entity.Lot, bool) {
	if r.tx != nil {
		for _, lot := range r.tx.lotCreates {
			if lot.ID == id {
				return r.overlayStatus(lot), true
			}
		}
	}
	r.store.mu.Lock()
	lot, ok := r.store.lots[id]
	r.store.mu.Unlock()
	if !ok {
		return entity.Lot{}, false
	}
	return r.overlayStatus(lot), true
}

func (r *LotRepo) overlayStatus(lot entity.Lot) entity.Lot {
	if r.tx != nil {
		if status, ok := r.tx.lotStatus[lot.ID]; ok {
			lot.Status = status
		}
	}
	return lot
}

func (r *LotRepo) GetByID(ctx context.Context, id string) (*entity.Lot, error) {
	lot, ok := r.readLot(id)
	if !ok {
		return nil, nil
	}
	return &lot, nil
}

func (r *LotRepo) GetByNumber(ctx context.Context, lotNumber string) (*entity.Lot, error) {
	if r.tx != nil {
		for _, lot := range r.tx.lotCreates {
			if lot.LotNumber == lotNumber {
				overlaid := r.overlayStatus(lot)
				return &overlaid, nil
			}
		}
	}
	r.store.mu.Lock()
	id, ok := r.store.lotsByNumber[lotNumber]
	r.store.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *LotRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.lotStatus[id] = status
	return nil
}

func (r *LotRepo) List(ctx context.Context, speciesID, status string, limit, offset int) ([]*entity.Lot, error) {
	r.store.mu.Lock()
	all := make([]entity.Lot, 0, len(r.store.lots))
	for _, lot := range r.store.lots {
		all = append(all, lot)
	}
	r.store.mu.Unlock()
	if r.tx != nil {
		all = append(all, r.tx.lotCreates...)
	}

	var out []*entity.Lot
	for _, lot := range all {
		lot = r.overlayStatus(lot)
		if speciesID != "" && lot.SpeciesID != speciesID {
			continue
		}
		if status != "" && lot.Status != status {
			continue
		}
		l := lot
		out = append(out, &l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].LotNumber < out[j].LotNumber
	})
	return paginate(out, limit, offset), nil
}
