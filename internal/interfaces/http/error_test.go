package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppmalta/AgroIPA/internal/application/dto"
	"github.com/ppmalta/AgroIPA/internal/domain"
)

// dispara writeDomainError com o erro dado e devolve status + corpo.
func mapError(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return writeDomainError(c, err)
	})
	resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, reqErr)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteDomainError_TraduzErrosTipados(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			"validação vira 400",
			&domain.ValidationError{Field: "quantity", Reason: "deve ser positiva"},
			http.StatusBadRequest, "VALIDATION",
		},
		{
			"não encontrado vira 404",
			&domain.NotFoundError{Entity: "lote", ID: "x"},
			http.StatusNotFound, "NOT_FOUND",
		},
		{
			"duplicidade vira 409",
			&domain.DuplicateKeyError{Entity: "lote", Key: "L-001"},
			http.StatusConflict, "DUPLICATE",
		},
		{
			"estoque insuficiente vira 409",
			&domain.InsufficientStockError{Available: decimal.NewFromInt(5), Requested: decimal.NewFromInt(10)},
			http.StatusConflict, "INSUFFICIENT_STOCK",
		},
		{
			"transição inválida vira 409",
			&domain.InvalidTransitionError{Entity: "expedição", From: "entregue", To: "transito"},
			http.StatusConflict, "INVALID_TRANSITION",
		},
		{
			"não autorizado vira 401",
			domain.ErrUnauthorized,
			http.StatusUnauthorized, "UNAUTHORIZED",
		},
		{
			"acesso negado vira 403",
			domain.ErrForbidden,
			http.StatusForbidden, "FORBIDDEN",
		},
		{
			"falha transitória vira 503",
			fmt.Errorf("%w: deadlock detected", domain.ErrTransientStorage),
			http.StatusServiceUnavailable, "TRANSIENT",
		},
		{
			"erro desconhecido vira 500",
			errors.New("algo inesperado"),
			http.StatusInternalServerError, "INTERNAL",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := mapError(t, tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

// Erros tipados embrulhados continuam sendo traduzidos (errors.As).
func TestWriteDomainError_ErroEmbrulhado(t *testing.T) {
	wrapped := fmt.Errorf("transferir estoque: %w",
		&domain.InsufficientStockError{Available: decimal.Zero, Requested: decimal.NewFromInt(1)})
	status, body := mapError(t, wrapped)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
}

func TestLabelFor_StatusConhecidoEDesconhecido(t *testing.T) {
	assert.Equal(t, "Ativo", labelFor(lotStatusLabels, "ativo"))
	assert.Equal(t, "Em Trânsito", labelFor(expeditionStatusLabels, "transito"))
	assert.Equal(t, "qualquer", labelFor(lotStatusLabels, "qualquer"),
		"status desconhecido ecoa o valor bruto")
}
