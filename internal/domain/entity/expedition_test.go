package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// O ciclo de vida da expedição é monotônico; nenhum status volta atrás e
// entregue/cancelada são terminais.
func TestExpedition_MatrizDeTransicoes(t *testing.T) {
	all := []string{
		entity.ExpeditionStatusPendente,
		entity.ExpeditionStatusPreparando,
		entity.ExpeditionStatusTransito,
		entity.ExpeditionStatusEntregue,
		entity.ExpeditionStatusCancelada,
	}
	allowed := map[string][]string{
		entity.ExpeditionStatusPendente:   {entity.ExpeditionStatusPreparando, entity.ExpeditionStatusTransito, entity.ExpeditionStatusCancelada},
		entity.ExpeditionStatusPreparando: {entity.ExpeditionStatusTransito, entity.ExpeditionStatusCancelada},
		entity.ExpeditionStatusTransito:   {entity.ExpeditionStatusEntregue},
		entity.ExpeditionStatusEntregue:   {},
		entity.ExpeditionStatusCancelada:  {},
	}

	for from, targets := range allowed {
		ok := map[string]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			exp := &entity.Expedition{Status: from}
			err := exp.Transition(to)
			if ok[to] {
				assert.NoError(t, err, "%s -> %s deve ser permitido", from, to)
				assert.Equal(t, to, exp.Status)
			} else {
				require.Error(t, err, "%s -> %s deve ser rejeitado", from, to)
				var transErr *domain.InvalidTransitionError
				require.ErrorAs(t, err, &transErr)
				assert.Equal(t, from, transErr.From)
				assert.Equal(t, to, transErr.To)
				assert.Equal(t, from, exp.Status, "status não muda em transição inválida")
			}
		}
	}
}

// Cancelar depois do embarque é proibido: o estoque já saiu e não há
// compensação automática.
func TestExpedition_CancelarAposEmbarqueFalha(t *testing.T) {
	exp := &entity.Expedition{Status: entity.ExpeditionStatusTransito}
	err := exp.Transition(entity.ExpeditionStatusCancelada)
	assert.Error(t, err)
	assert.Equal(t, entity.ExpeditionStatusTransito, exp.Status)
}

func TestExpedition_TotalQuantity(t *testing.T) {
	exp := &entity.Expedition{
		Items: []entity.ExpeditionItem{
			{LotID: "a", Quantity: decimal.NewFromFloat(300.5)},
			{LotID: "b", Quantity: decimal.NewFromFloat(199.5)},
		},
	}
	assert.True(t, exp.TotalQuantity().Equal(decimal.NewFromInt(500)))

	empty := &entity.Expedition{}
	assert.True(t, empty.TotalQuantity().IsZero())
}
