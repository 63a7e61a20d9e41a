package memory

import (
	"context"
	"sort"
	"time"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// MovementRepo implementa repository.MovementRepository sobre o Store.
// Histórico append-only: só existem Create e leituras.
type MovementRepo struct {
	store *Store
	tx    *Tx
}

// NewMovementRepo constrói um repositório somente leitura.
func NewMovementRepo(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.movementWrites = append(r.tx.movementWrites, cloneMovement(*movement))
	return nil
}

// all devolve o histórico visível (confirmado + pendente da tx).
func (r *MovementRepo) all() []entity.Movement {
	r.store.mu.Lock()
	out := append([]entity.Movement(nil), r.store.movements...)
	r.store.mu.Unlock()
	if r.tx != nil {
		out = append(out, r.tx.movementWrites...)
	}
	return out
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.all() {
		if m.ID == id {
			out := cloneMovement(m)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.all() {
		if m.LotID == lotID {
			mc := cloneMovement(m)
			out = append(out, &mc)
		}
	}
	// Linha do tempo em ordem cronológica; empates mantêm a ordem de gravação.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MovementRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var matched []*entity.Movement
	for _, m := range r.all() {
		touches := (m.WarehouseOriginID != nil && *m.WarehouseOriginID == warehouseID) ||
			(m.WarehouseDestinationID != nil && *m.WarehouseDestinationID == warehouseID)
		if !touches {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		mc := cloneMovement(m)
		matched = append(matched, &mc)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

// paginate aplica limit/offset no estilo SQL; limit <= 0 significa sem limite.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
