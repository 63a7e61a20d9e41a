package http

import "github.com/ppmalta/AgroIPA/internal/domain/entity"

// Rótulos humanos dos status, só para apresentação. O domínio e o banco
// trabalham com os valores canônicos em minúsculas.

var lotStatusLabels = map[string]string{
	entity.LotStatusAtivo:     "Ativo",
	entity.LotStatusBaixo:     "Estoque Baixo",
	entity.LotStatusEsgotado:  "Esgotado",
	entity.LotStatusVencido:   "Vencido",
	entity.LotStatusBloqueado: "Bloqueado",
}

var expeditionStatusLabels = map[string]string{
	entity.ExpeditionStatusPendente:   "Pendente",
	entity.ExpeditionStatusPreparando: "Em Preparação",
	entity.ExpeditionStatusTransito:   "Em Trânsito",
	entity.ExpeditionStatusEntregue:   "Entregue",
	entity.ExpeditionStatusCancelada:  "Cancelada",
}

var requestStatusLabels = map[string]string{
	entity.RequestStatusPendente:  "Pendente",
	entity.RequestStatusAnalise:   "Em Análise",
	entity.RequestStatusAprovada:  "Aprovada",
	entity.RequestStatusParcial:   "Aprovada Parcialmente",
	entity.RequestStatusRejeitada: "Rejeitada",
	entity.RequestStatusAtendida:  "Atendida",
	entity.RequestStatusCancelada: "Cancelada",
}

func labelFor(table map[string]string, status string) string {
	if label, ok := table[status]; ok {
		return label
	}
	return status
}
