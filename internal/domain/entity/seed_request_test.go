package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

func TestSeedRequest_CancelarSomentePendenteOuAnalise(t *testing.T) {
	for _, status := range []string{entity.RequestStatusPendente, entity.RequestStatusAnalise} {
		req := &entity.SeedRequest{Status: status}
		require.NoError(t, req.Cancel(), status)
		assert.Equal(t, entity.RequestStatusCancelada, req.Status)
	}

	for _, status := range []string{
		entity.RequestStatusAprovada, entity.RequestStatusParcial,
		entity.RequestStatusRejeitada, entity.RequestStatusAtendida,
		entity.RequestStatusCancelada,
	} {
		req := &entity.SeedRequest{Status: status}
		err := req.Cancel()
		require.Error(t, err, status)
		var transErr *domain.InvalidTransitionError
		assert.ErrorAs(t, err, &transErr)
		assert.Equal(t, status, req.Status, "status não muda em cancelamento inválido")
	}
}

// Decisões já tomadas continuam reanalisáveis (sobrescrita); cancelada e
// atendida são terminais.
func TestSeedRequest_Reviewable(t *testing.T) {
	reviewable := []string{
		entity.RequestStatusPendente, entity.RequestStatusAnalise,
		entity.RequestStatusAprovada, entity.RequestStatusParcial, entity.RequestStatusRejeitada,
	}
	for _, status := range reviewable {
		assert.True(t, (&entity.SeedRequest{Status: status}).Reviewable(), status)
	}
	for _, status := range []string{entity.RequestStatusAtendida, entity.RequestStatusCancelada} {
		assert.False(t, (&entity.SeedRequest{Status: status}).Reviewable(), status)
	}
}

func TestSeedRequest_Approvable(t *testing.T) {
	assert.True(t, (&entity.SeedRequest{Status: entity.RequestStatusAprovada}).Approvable())
	assert.True(t, (&entity.SeedRequest{Status: entity.RequestStatusParcial}).Approvable())
	assert.False(t, (&entity.SeedRequest{Status: entity.RequestStatusPendente}).Approvable())
	assert.False(t, (&entity.SeedRequest{Status: entity.RequestStatusRejeitada}).Approvable())
	assert.False(t, (&entity.SeedRequest{Status: entity.RequestStatusCancelada}).Approvable())
}

func TestValidReviewDecision(t *testing.T) {
	assert.True(t, entity.ValidReviewDecision(entity.RequestStatusAprovada))
	assert.True(t, entity.ValidReviewDecision(entity.RequestStatusParcial))
	assert.True(t, entity.ValidReviewDecision(entity.RequestStatusRejeitada))
	assert.False(t, entity.ValidReviewDecision(entity.RequestStatusPendente))
	assert.False(t, entity.ValidReviewDecision(entity.RequestStatusAtendida))
	assert.False(t, entity.ValidReviewDecision(""))
}
