package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// DeliveryRepo implementa repository.DeliveryRepository sobre o Store.
type DeliveryRepo struct {
	store *Store
	tx    *Tx
}

// NewDeliveryRepo constrói um repositório somente leitura.
func NewDeliveryRepo(store *Store) *DeliveryRepo {
	return &DeliveryRepo{store: store}
}

var _ repository.DeliveryRepository = (*DeliveryRepo)(nil)

func (r *DeliveryRepo) Create(ctx context.Context, delivery *entity.Delivery) error {
	if r.tx == nil {
		return errNoTx
	}
	r.tx.deliveryWrites = append(r.tx.deliveryWrites, *delivery)
	return nil
}

func (r *DeliveryRepo) all() []entity.Delivery {
	r.store.mu.Lock()
	out := append([]entity.Delivery(nil), r.store.deliveries...)
	r.store.mu.Unlock()
	if r.tx != nil {
		out = append(out, r.tx.deliveryWrites...)
	}
	return out
}

func (r *DeliveryRepo) ListByExpedition(ctx context.Context, expeditionID string) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	for _, d := range r.all() {
		if d.ExpeditionID == expeditionID {
			dc := d
			out = append(out, &dc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeliveredAt.Before(out[j].DeliveredAt)
	})
	return out, nil
}

func (r *DeliveryRepo) ListByLot(ctx context.Context, lotID string) ([]*entity.Delivery, error) {
	var out []*entity.Delivery
	for _, d := range r.all() {
		if d.LotID == lotID {
			dc := d
			out = append(out, &dc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeliveredAt.Before(out[j].DeliveredAt)
	})
	return out, nil
}

func (r *DeliveryRepo) SumByExpeditionItem(ctx context.Context, expeditionID, lotID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, d := range r.all() {
		if d.ExpeditionID == expeditionID && d.LotID == lotID {
			total = total.Add(d.Quantity)
		}
	}
	return total, nil
}

func (r *DeliveryRepo) Stats(ctx context.Context, from, to *time.Time) (*repository.DeliveryStats, error) {
	stats := &repository.DeliveryStats{TotalQuantity: decimal.Zero}
	farmers := map[string]bool{}
	for _, d := range r.all() {
		if from != nil && d.DeliveredAt.Before(*from) {
			continue
		}
		if to != nil && d.DeliveredAt.After(*to) {
			continue
		}
		stats.TotalQuantity = stats.TotalQuantity.Add(d.Quantity)
		stats.TotalDeliveries++
		farmers[d.FarmerID] = true
	}
	stats.TotalFarmers = len(farmers)
	return stats, nil
}
