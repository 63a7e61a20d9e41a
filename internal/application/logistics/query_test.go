package logistics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/internal/application/logistics"
	"github.com/ppmalta/AgroIPA/internal/domain"
	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

func TestExpeditionQuery_ListaComFiltroDeStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	lot := e.seedLot(t, "FEIJAO-2026-001", 1000)

	exp1 := e.newExpedition(t, logistics.ExpeditionItemInput{LotID: lot.ID, Quantity: decimal.NewFromInt(100)})
	e.newExpedition(t, logistics.ExpeditionItemInput{LotID: lot.ID, Quantity: decimal.NewFromInt(50)})
	_, err := e.shipExp.Ship(ctx, exp1.ID, "agente-1")
	require.NoError(t, err)

	all, err := e.expQuery.List(ctx, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	transit, err := e.expQuery.List(ctx, entity.ExpeditionStatusTransito, 50, 0)
	require.NoError(t, err)
	require.Len(t, transit, 1)
	assert.Equal(t, exp1.ID, transit[0].ID)

	var valErr *domain.ValidationError
	_, err = e.expQuery.List(ctx, "extraviada", 50, 0)
	assert.ErrorAs(t, err, &valErr)

	var nfErr *domain.NotFoundError
	_, err = e.expQuery.GetByID(ctx, "inexistente")
	assert.ErrorAs(t, err, &nfErr)
}

func TestSeedRequest_ListaComFiltros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.newRequest(t, 100)
	req2, err := e.requests.Create(ctx, logistics.CreateRequestInput{
		RequesterID:        "solicitante-2",
		Justification:      "reposição pós-estiagem",
		BeneficiariesCount: 3,
		Items: []logistics.RequestItemInput{
			{SpeciesID: e.speciesID, QuantityRequested: decimal.NewFromInt(80)},
		},
	})
	require.NoError(t, err)
	_, err = e.review.Review(ctx, logistics.ReviewInput{
		RequestID: req2.ID, Decision: entity.RequestStatusAprovada, ReviewerID: "gestor-1",
	})
	require.NoError(t, err)

	all, err := e.requests.List(ctx, "", "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	approved, err := e.requests.List(ctx, entity.RequestStatusAprovada, "", 50, 0)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, req2.ID, approved[0].ID)

	mine, err := e.requests.List(ctx, "", "solicitante-2", 50, 0)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, req2.ID, mine[0].ID)

	var nfErr *domain.NotFoundError
	_, err = e.requests.GetByID(ctx, "inexistente")
	assert.ErrorAs(t, err, &nfErr)

	got, err := e.requests.GetByID(ctx, req2.ID)
	require.NoError(t, err)
	assert.Equal(t, req2.RequestNumber, got.RequestNumber)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
}
