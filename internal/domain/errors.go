package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Erros de domínio (sem dependências de infraestrutura).
// Os erros que carregam dados são structs; usar errors.As nos handlers.
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("não autorizado")
	ErrForbidden    = errors.New("acesso negado")

	// ErrTransientStorage é devolvido quando a camada de persistência esgota
	// as tentativas de retry por contenção (serialization failure / deadlock).
	ErrTransientStorage = errors.New("falha transitória de armazenamento")
)

// InsufficientStockError indica que um débito deixaria o estoque negativo.
// Available carrega a quantidade disponível para a mensagem ao chamador.
type InsufficientStockError struct {
	WarehouseID string
	LotID       string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("estoque insuficiente: disponível %s, solicitado %s", e.Available, e.Requested)
}

// InvalidTransitionError indica uma transição de estado não permitida
// (expedição ou solicitação).
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transição inválida de %s: %s -> %s", e.Entity, e.From, e.To)
}

// NotFoundError indica que uma entidade referenciada não existe.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s não encontrado: %s", e.Entity, e.ID)
}

// DuplicateKeyError indica violação de unicidade (ex.: lot_number repetido,
// segunda linha de estoque para o mesmo par armazém+lote).
type DuplicateKeyError struct {
	Entity string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s duplicado: %s", e.Entity, e.Key)
}

// ValidationError indica um campo inválido na entrada.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %s: %s", e.Field, e.Reason)
}
