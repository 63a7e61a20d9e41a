package logistics

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação do substrato, com os
// repositórios de logística e de estoque atados a ela. O embarque de
// expedição precisa dos dois lados: transição de status e baixa do ledger
// entram na mesma unidade atômica.
type TxRunner interface {
	RunLogistics(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		lotRepo repository.LotRepository,
		expRepo repository.ExpeditionRepository,
		deliveryRepo repository.DeliveryRepository,
		requestRepo repository.SeedRequestRepository,
	) error) error
}
