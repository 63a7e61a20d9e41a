package inventory

import (
	"context"

	"github.com/ppmalta/AgroIPA/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação do substrato de
// armazenamento, passando repositórios atados a essa transação. Commit no
// sucesso, rollback em qualquer caminho de erro. É o contrato de atomicidade
// do motor de estoque: mutação de ledger e registro de movimento entram
// juntos ou não entram.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		lotRepo repository.LotRepository,
	) error) error
}
