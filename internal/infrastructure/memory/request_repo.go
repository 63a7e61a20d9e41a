package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// SeedRequestRepo implementa repository.SeedRequestRepository sobre o Store.
type SeedRequestRepo struct {
	store *Store
	tx    *Tx
}

// NewSeedRequestRepo constrói um repositório somente leitura.
func NewSeedRequestRepo(store *Store) *SeedRequestRepo {
	return &SeedRequestRepo{store: store}
}

var _ repository.SeedRequestRepository = (*SeedRequestRepo)(nil)

func (r *SeedRequestRepo) Create(ctx context.Context, req *entity.SeedRequest) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.reqCreates = append(r.tx.reqCreates, cloneRequest(*req))
	return nil
}

func (r *SeedRequestRepo) readRequest(id string) (entity.SeedRequest, bool) {
	if r.tx != nil {
		if req, ok := r.tx.reqUpdates[id]; ok {
			return cloneRequest(req), true
		}
		for _, req := range r.tx.reqCreates {
			if req.ID == id {
				return cloneRequest(req), true
			}
		}
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	req, ok := r.store.requests[id]
	if !ok {
		return entity.SeedRequest{}, false
	}
	return cloneRequest(req), true
}

func (r *SeedRequestRepo) GetByID(ctx context.Context, id string) (*entity.SeedRequest, error) {
	req, ok := r.readRequest(id)
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r *SeedRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.SeedRequest, error) {
	if r.tx == nil {
		return nil, errNoTx
	}
	r.tx.lockRequest(id)
	return r.GetByID(ctx, id)
}

func (r *SeedRequestRepo) UpdateReview(ctx context.Context, req *entity.SeedRequest) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.lockRequest(req.ID)
	r.tx.reqUpdates[req.ID] = cloneRequest(*req)
	return nil
}

func (r *SeedRequestRepo) UpdateItemApproval(ctx context.Context, item *entity.SeedRequestItem) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.lockRequest(item.RequestID)
	clone := *item
	clone.QuantityApproved = cloneDecimalPtr(item.QuantityApproved)
	r.tx.itemApprovals = append(r.tx.itemApprovals, clone)
	return nil
}

func (r *SeedRequestRepo) List(ctx context.Context, status, requesterID string, limit, offset int) ([]*entity.SeedRequest, error) {
	r.store.mu.Lock()
	all := make([]entity.SeedRequest, 0, len(r.store.requests))
	for _, req := range r.store.requests {
		all = append(all, cloneRequest(req))
	}
	r.store.mu.Unlock()

	var out []*entity.SeedRequest
	for i := range all {
		if status != "" && all[i].Status != status {
			continue
		}
		if requesterID != "" && all[i].RequesterID != requesterID {
			continue
		}
		out = append(out, &all[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].RequestNumber > out[j].RequestNumber
	})
	return paginate(out, limit, offset), nil
}

func (r *SeedRequestRepo) CountByYear(ctx context.Context, year int) (int, error) {
	prefix := fmt.Sprintf("SOL-%d-", year)
	count := 0
	r.store.mu.Lock()
	for _, req := range r.store.requests {
		if strings.HasPrefix(req.RequestNumber, prefix) {
			count++
		}
	}
	r.store.mu.Unlock()
	if r.tx != nil {
		for _, req := range r.tx.reqCreates {
			if strings.HasPrefix(req.RequestNumber, prefix) {
				count++
			}
		}
	}
	return count, nil
}
