package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// ExpeditionRepo implementa repository.ExpeditionRepository sobre o Store.
type ExpeditionRepo struct {
	store *Store
	tx    *Tx
}

// NewExpeditionRepo constrói um repositório somente leitura.
func NewExpeditionRepo(store *Store) *ExpeditionRepo {
	return &ExpeditionRepo{store: store}
}

var _ repository.ExpeditionRepository = (*ExpeditionRepo)(nil)

func (r *ExpeditionRepo) Create(ctx context.Context, exp *entity.Expedition) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.expCreates = append(r.tx.expCreates, cloneExpedition(*exp))
	return nil
}

func (r *ExpeditionRepo) readExpedition(id string) (entity.Expedition, bool) {
	if r.tx != nil {
		if exp, ok := r.tx.expUpdates[id]; ok {
			return cloneExpedition(exp), true
		}
		for _, exp := range r.tx.expCreates {
			if exp.ID == id {
				return cloneExpedition(exp), true
			}
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	exp, ok := r.store.expeditions[id]
	if !ok {
		return entity.Expedition{}, false
	}
	return cloneExpedition(exp), true
}

func (r *ExpeditionRepo) GetByID(ctx context.Context, id string) (*entity.Expedition, error) {
	exp, ok := r.readExpedition(id)
	if !ok {
		return nil, nil
	}
	return &exp, nil
}

func (r *ExpeditionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Expedition, error) {
	if r.tx == nil {
		return nil, errNoTx
	}
	r.tx.lockExpedition(id)
	return r.GetByID(ctx, id)
}

func (r *ExpeditionRepo) UpdateStatus(ctx context.Context, exp *entity.Expedition) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.lockExpedition(exp.ID)
	r.tx.expUpdates[exp.ID] = cloneExpedition(*exp)
	return nil
}

func (r *ExpeditionRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Expedition, error) {
	r.store.mu.Lock()
	all := make([]entity.Expedition, 0, len(r.store.expeditions))
	for _, exp := range r.store.expeditions {
		all = append(all, cloneExpedition(exp))
	}
	r.store.mu.Unlock()

	var out []*entity.Expedition
	for i := range all {
		if status != "" && all[i].Status != status {
			continue
		}
		out = append(out, &all[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ExpeditionNumber > out[j].ExpeditionNumber
	})
	return paginate(out, limit, offset), nil
}

func (r *ExpeditionRepo) CountByYear(ctx context.Context, year int) (int, error) {
	prefix := fmt.Sprintf("EXP-%d-", year)
	count := 0
	r.store.mu.Lock()
	for _, exp := range r.store.expeditions {
		if strings.HasPrefix(exp.ExpeditionNumber, prefix) {
			count++
		}
	}
	r.store.mu.Unlock()
	if r.tx != nil {
		for _, exp := range r.tx.expCreates {
			if strings.HasPrefix(exp.ExpeditionNumber, prefix) {
				count++
			}
		}
	}
	return count, nil
}
