package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// Clones profundos: o estado confirmado nunca compartilha ponteiros nem
// slices com as structs dos chamadores.

func cloneStrPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDecimalPtr(p *decimal.Decimal) *decimal.Decimal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneExpedition(exp entity.Expedition) entity.Expedition {
	out := exp
	out.SeedRequestID = cloneStrPtr(exp.SeedRequestID)
	out.ShippedAt = cloneTimePtr(exp.ShippedAt)
	out.DeliveredAt = cloneTimePtr(exp.DeliveredAt)
	out.Items = append([]entity.ExpeditionItem(nil), exp.Items...)
	return out
}

func cloneRequest(req entity.SeedRequest) entity.SeedRequest {
	out := req
	out.OrganizationID = cloneStrPtr(req.OrganizationID)
	out.ReviewerID = cloneStrPtr(req.ReviewerID)
	out.ReviewedAt = cloneTimePtr(req.ReviewedAt)
	out.Items = make([]entity.SeedRequestItem, len(req.Items))
	for i, item := range req.Items {
		out.Items[i] = item
		out.Items[i].QuantityApproved = cloneDecimalPtr(item.QuantityApproved)
	}
	return out
}

func cloneMovement(m entity.Movement) entity.Movement {
	out := m
	out.WarehouseOriginID = cloneStrPtr(m.WarehouseOriginID)
	out.WarehouseDestinationID = cloneStrPtr(m.WarehouseDestinationID)
	return out
}

func cloneWarehouse(w entity.Warehouse) entity.Warehouse {
	out := w
	out.ManagerID = cloneStrPtr(w.ManagerID)
	return out
}

func cloneFarmer(f entity.Farmer) entity.Farmer {
	out := f
	out.OrganizationID = cloneStrPtr(f.OrganizationID)
	return out
}
