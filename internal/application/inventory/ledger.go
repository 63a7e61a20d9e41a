package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// Helpers do ledger compartilhados pelos casos de uso de estoque e de
// logística (o embarque de expedição debita estoque pelo mesmo caminho).
// Toda mutação segue o mesmo ciclo: travar linha(s), verificar, escrever,
// registrar movimento — dentro de uma única transação.

// LockEntries trava as linhas de estoque das chaves pedidas SEMPRE em ordem
// global (armazém, lote), independentemente da ordem de chamada. Isso evita
// deadlock entre transferências cruzadas A->B e B->A.
func LockEntries(ctx context.Context, stockRepo repository.StockRepository, keys []entity.StockKey) (map[entity.StockKey]*entity.StockEntry, error) {
	sorted := make([]entity.StockKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	entries := make(map[entity.StockKey]*entity.StockEntry, len(sorted))
	for _, k := range sorted {
		if _, ok := entries[k]; ok {
			continue
		}
		entry, err := stockRepo.GetForUpdate(ctx, k.WarehouseID, k.LotID)
		if err != nil {
			return nil, err
		}
		entries[k] = entry
	}
	return entries, nil
}

// Debit subtrai qty de uma linha já travada, preservando a não-negatividade.
func Debit(entry *entity.StockEntry, qty decimal.Decimal, now time.Time) error {
	if entry.Quantity.LessThan(qty) {
		return &domain.InsufficientStockError{
			WarehouseID: entry.WarehouseID,
			LotID:       entry.LotID,
			Available:   entry.Quantity,
			Requested:   qty,
		}
	}
	entry.Quantity = entry.Quantity.Sub(qty)
	entry.UpdatedAt = now
	return nil
}

// Credit soma qty a uma linha já travada (cria a linha se era ausente:
// GetForUpdate devolve a linha zerada nesse caso e o Upsert a materializa).
func Credit(entry *entity.StockEntry, qty decimal.Decimal, now time.Time) {
	entry.Quantity = entry.Quantity.Add(qty)
	entry.UpdatedAt = now
}

// RefreshLotStatus recalcula o status derivado do lote depois de uma mutação
// de ledger (ativo/baixo/esgotado/vencido). Bloqueio manual é preservado.
func RefreshLotStatus(ctx context.Context, stockRepo repository.StockRepository, lotRepo repository.LotRepository, lot *entity.Lot, now time.Time, lowPct int64) error {
	total, err := stockRepo.TotalByLot(ctx, lot.ID)
	if err != nil {
		return err
	}
	status := entity.ComputeLotStatus(lot, total, now, lowPct)
	if status == lot.Status {
		return nil
	}
	lot.Status = status
	return lotRepo.UpdateStatus(ctx, lot.ID, status)
}

func strPtr(s string) *string { return &s }
