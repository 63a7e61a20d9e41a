package logistics

import (
	"errors"

	"github.com/ppmalta/AgroIPA/internal/domain"
)

// numberAttempts limita as tentativas quando duas criações concorrentes
// contam o mesmo ano e geram o mesmo número sequencial.
const numberAttempts = 3

// numberCollision identifica a colisão de numeração: violação de unicidade
// exatamente sobre o número recém-gerado. A recontagem da próxima tentativa
// já enxerga o vencedor.
func numberCollision(err error, number string) bool {
	var dup *domain.DuplicateKeyError
	return errors.As(err, &dup) && dup.Key == number
}
