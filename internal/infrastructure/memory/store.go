// Package memory implementa os portos de persistência em processo: locks por
// linha de estoque, escritas em buffer e commit/rollback explícitos. Serve de
// substrato para os testes do motor e para desenvolvimento local sem
// PostgreSQL, com as mesmas garantias transacionais exigidas pelo núcleo.
package memory

import (
	"sync"

	"github.com/ppmalta/AgroIPA/internal/domain/entity"
)

// rowLock é o lock de exclusão mútua de uma linha (estoque, expedição,
// solicitação). A linha de estoque (armazém, lote) é a unidade de
// serialização do ledger.
type rowLock struct {
	mu sync.Mutex
}

// Store guarda o estado confirmado. Mutações passam por uma Tx: escritas
// ficam em buffer e são aplicadas todas juntas no commit, sob s.mu — um
// leitor nunca observa uma transação pela metade.
type Store struct {
	mu sync.Mutex

	stocks    map[entity.StockKey]entity.StockEntry
	movements []entity.Movement

	lots         map[string]entity.Lot
	lotsByNumber map[string]string // lot_number -> id

	expeditions map[string]entity.Expedition
	deliveries  []entity.Delivery
	requests    map[string]entity.SeedRequest

	warehouses     map[string]entity.Warehouse
	species        map[string]entity.Species
	suppliers      map[string]entity.Supplier
	municipalities map[string]entity.Municipality
	farmers        map[string]entity.Farmer

	stockLocks map[entity.StockKey]*rowLock
	expLocks   map[string]*rowLock
	reqLocks   map[string]*rowLock
}

// NewStore cria um armazenamento vazio.
func NewStore() *Store {
	return &Store{
		stocks:         map[entity.StockKey]entity.StockEntry{},
		lots:           map[string]entity.Lot{},
		lotsByNumber:   map[string]string{},
		expeditions:    map[string]entity.Expedition{},
		requests:       map[string]entity.SeedRequest{},
		warehouses:     map[string]entity.Warehouse{},
		species:        map[string]entity.Species{},
		suppliers:      map[string]entity.Supplier{},
		municipalities: map[string]entity.Municipality{},
		farmers:        map[string]entity.Farmer{},
		stockLocks:     map[entity.StockKey]*rowLock{},
		expLocks:       map[string]*rowLock{},
		reqLocks:       map[string]*rowLock{},
	}
}

// stockLock devolve (criando se preciso) o lock da linha de estoque.
func (s *Store) stockLock(key entity.StockKey) *rowLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	rl, ok := s.stockLocks[key]
	if !ok {
		rl = &rowLock{}
		s.stockLocks[key] = rl
	}
	return rl
}

func (s *Store) expLock(id string) *rowLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	rl, ok := s.expLocks[id]
	if !ok {
		rl = &rowLock{}
		s.expLocks[id] = rl
	}
	return rl
}

func (s *Store) reqLock(id string) *rowLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	rl, ok := s.reqLocks[id]
	if !ok {
		rl = &rowLock{}
		s.reqLocks[id] = rl
	}
	return rl
}

// Tx acumula escritas em buffer e os locks de linha adquiridos. Nada toca o
// estado confirmado antes do commit; rollback é simplesmente descartar o
// buffer e soltar os locks.
type Tx struct {
	store *Store

	stockHeld map[entity.StockKey]*rowLock
	expHeld   map[string]*rowLock
	reqHeld   map[string]*rowLock

	stockWrites    map[entity.StockKey]entity.StockEntry
	movementWrites []entity.Movement
	lotCreates     []entity.Lot
	lotStatus      map[string]string
	expCreates     []entity.Expedition
	expUpdates     map[string]entity.Expedition
	deliveryWrites []entity.Delivery
	reqCreates     []entity.SeedRequest
	reqUpdates     map[string]entity.SeedRequest
	itemApprovals  []entity.SeedRequestItem
}

func newTx(s *Store) *Tx {
	return &Tx{
		store:       s,
		stockHeld:   map[entity.StockKey]*rowLock{},
		expHeld:     map[string]*rowLock{},
		reqHeld:     map[string]*rowLock{},
		stockWrites: map[entity.StockKey]entity.StockEntry{},
		lotStatus:   map[string]string{},
		expUpdates:  map[string]entity.Expedition{},
		reqUpdates:  map[string]entity.SeedRequest{},
	}
}

// commit aplica todas as escritas sob s.mu e solta os locks de linha.
func (tx *Tx) commit() {
	s := tx.store
	s.mu.Lock()
	for _, lot := range tx.lotCreates {
		s.lots[lot.ID] = lot
		s.lotsByNumber[lot.LotNumber] = lot.ID
	}
	for id, status := range tx.lotStatus {
		if lot, ok := s.lots[id]; ok {
			lot.Status = status
			s.lots[id] = lot
		}
	}
	for key, entry := range tx.stockWrites {
		s.stocks[key] = entry
	}
	s.movements = append(s.movements, tx.movementWrites...)
	for _, exp := range tx.expCreates {
		s.expeditions[exp.ID] = cloneExpedition(exp)
	}
	for id, exp := range tx.expUpdates {
		s.expeditions[id] = cloneExpedition(exp)
	}
	s.deliveries = append(s.deliveries, tx.deliveryWrites...)
	for _, req := range tx.reqCreates {
		s.requests[req.ID] = cloneRequest(req)
	}
	for id, req := range tx.reqUpdates {
		s.requests[id] = cloneRequest(req)
	}
	for _, item := range tx.itemApprovals {
		if req, ok := s.requests[item.RequestID]; ok {
			for i := range req.Items {
				if req.Items[i].SpeciesID == item.SpeciesID {
					req.Items[i].QuantityApproved = cloneDecimalPtr(item.QuantityApproved)
				}
			}
			s.requests[item.RequestID] = req
		}
	}
	s.mu.Unlock()
	tx.releaseLocks()
}

// rollback descarta o buffer e solta os locks; o estado confirmado não muda.
func (tx *Tx) rollback() {
	tx.releaseLocks()
}

func (tx *Tx) releaseLocks() {
	for _, rl := range tx.stockHeld {
		rl.mu.Unlock()
	}
	for _, rl := range tx.expHeld {
		rl.mu.Unlock()
	}
	for _, rl := range tx.reqHeld {
		rl.mu.Unlock()
	}
	tx.stockHeld = map[entity.StockKey]*rowLock{}
	tx.expHeld = map[string]*rowLock{}
	tx.reqHeld = map[string]*rowLock{}
}
