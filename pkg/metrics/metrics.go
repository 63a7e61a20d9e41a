// Package metrics expõe os contadores Prometheus do motor de estoque.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MovementsTotal conta movimentações confirmadas, por tipo.
	MovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroipa_stock_movements_total",
			Help: "Movimentações de estoque confirmadas, por tipo",
		},
		[]string{"type"},
	)

	// InsufficientStockTotal conta débitos rejeitados por estoque insuficiente.
	InsufficientStockTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agroipa_insufficient_stock_total",
			Help: "Operações rejeitadas por estoque insuficiente",
		},
	)

	// ExpeditionTransitionsTotal conta transições de status de expedição.
	ExpeditionTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agroipa_expedition_transitions_total",
			Help: "Transições de status de expedições",
		},
		[]string{"to"},
	)

	// TxRetriesTotal conta retries de transação por contenção no substrato.
	TxRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agroipa_tx_retries_total",
			Help: "Retries de transação por contenção (serialization/deadlock)",
		},
	)
)
