// Package ledger is C1: the in-memory, mutex-guarded record of every bet,
// every player's balance, and the ordering needed to serve recent-bets
// queries. Balance mutators lock only the address they touch (after a brief
// lookup under the balance table's map lock); bet records are guarded by
// one lock per collection.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/common/constant"
	"github.com/reecen9696/casino-rollup/internal/domain"
)

// Store holds bets, per-player ordered bet-id lists, and balances. Balance
// mutations for a given address are serializable: balances is guarded by a
// striped mutex keyed by address so that concurrent bets on different
// players never contend, while two concurrent operations on the same
// address are strictly ordered.
type Store struct {
	betsMu sync.RWMutex
	bets   map[string]domain.Bet

	playerBetsMu sync.RWMutex
	playerBets   map[string][]string // address -> bet ids, insertion order

	allBetsMu sync.RWMutex
	allBets   []string // every bet id, insertion order

	balances *balanceTable
}

// NewStore builds an empty ledger.
func NewStore() *Store {
	return &Store{
		bets:       make(map[string]domain.Bet),
		playerBets: make(map[string][]string),
		balances:   newBalanceTable(),
	}
}

// SaveBet is idempotent on bet.ID: a repeat save is a silent no-op. It
// never touches balances.
func (s *Store) SaveBet(bet domain.Bet) {
	s.betsMu.Lock()
	if _, exists := s.bets[bet.ID]; exists {
		s.betsMu.Unlock()
		return
	}

	s.bets[bet.ID] = bet
	s.betsMu.Unlock()

	s.playerBetsMu.Lock()
	s.playerBets[bet.PlayerAddress] = append(s.playerBets[bet.PlayerAddress], bet.ID)
	s.playerBetsMu.Unlock()

	s.allBetsMu.Lock()
	s.allBets = append(s.allBets, bet.ID)
	s.allBetsMu.Unlock()
}

// GetBet returns the bet recorded under id, if any.
func (s *Store) GetBet(id string) (domain.Bet, bool) {
	s.betsMu.RLock()
	defer s.betsMu.RUnlock()

	b, ok := s.bets[id]

	return b, ok
}

// GetPlayerBets returns up to limit bets for address, timestamp-descending,
// ties broken by insertion order (later insertion first).
func (s *Store) GetPlayerBets(address string, limit int) []domain.Bet {
	s.playerBetsMu.RLock()
	ids := append([]string(nil), s.playerBets[address]...)
	s.playerBetsMu.RUnlock()

	return s.resolveOrdered(ids, limit)
}

// GetRecentBets returns up to limit bets across all players,
// timestamp-descending, ties broken by insertion order.
func (s *Store) GetRecentBets(limit int) []domain.Bet {
	s.allBetsMu.RLock()
	ids := append([]string(nil), s.allBets...)
	s.allBetsMu.RUnlock()

	return s.resolveOrdered(ids, limit)
}

// resolveOrdered looks up ids (already in insertion order) and stable-sorts
// them by timestamp descending, so ties keep their insertion order reversed
// - i.e. the most recently inserted of equal-timestamp bets comes first.
func (s *Store) resolveOrdered(ids []string, limit int) []domain.Bet {
	s.betsMu.RLock()
	out := make([]domain.Bet, 0, len(ids))

	for i := len(ids) - 1; i >= 0; i-- {
		if b, ok := s.bets[ids[i]]; ok {
			out = append(out, b)
		}
	}
	s.betsMu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// GetPlayerBalance returns the current balance row for address.
func (s *Store) GetPlayerBalance(address string) (domain.PlayerBalance, bool) {
	return s.balances.get(address)
}

// CreatePlayerBalance creates a new zeroed-with-initial row for address.
// Fails with common.EntityConflictError if the row already exists.
func (s *Store) CreatePlayerBalance(address string, initial uint64) (domain.PlayerBalance, error) {
	return s.balances.create(address, initial)
}

// Deposit creates-or-updates the balance row for address, crediting amount.
// amount must be > 0; this is enforced by the HTTP layer's request
// validation, not repeated here.
func (s *Store) Deposit(address string, amount uint64) domain.PlayerBalance {
	return s.balances.deposit(address, amount)
}

// Withdraw debits amount from address's balance. Fails PlayerNotFound if
// absent, InsufficientBalance if balance < amount.
func (s *Store) Withdraw(address string, amount uint64) (domain.PlayerBalance, error) {
	return s.balances.withdraw(address, amount)
}

// UpdateBalanceAfterBet atomically subtracts betAmount and adds payout,
// incrementing total_wagered and total_won accordingly. Fails PlayerNotFound
// if absent, InsufficientBalance if balance < betAmount (checked before any
// mutation is applied). The returned preBalance is the address's balance
// immediately before this mutation, captured under the same per-address
// lock, so a caller batching this bet with others can recover the exact
// balance the bet was settled against even after concurrent later bets on
// the same address have moved the live balance on.
func (s *Store) UpdateBalanceAfterBet(address string, betAmount, payout uint64) (balance domain.PlayerBalance, preBalance uint64, err error) {
	return s.balances.updateAfterBet(address, betAmount, payout)
}

// balanceTable is the per-address striped-lock map backing balances. Each
// row owns its own mutex so that operations on distinct addresses never
// contend, while operations on the same address are strictly serialized.
type balanceTable struct {
	mu   sync.Mutex // guards the map itself, not individual rows
	rows map[string]*balanceRow
}

type balanceRow struct {
	mu      sync.Mutex
	balance domain.PlayerBalance
}

func newBalanceTable() *balanceTable {
	return &balanceTable{rows: make(map[string]*balanceRow)}
}

func (t *balanceTable) rowFor(address string) *balanceRow {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[address]
	if !ok {
		row = &balanceRow{}
		t.rows[address] = row
	}

	return row
}

func (t *balanceTable) get(address string) (domain.PlayerBalance, bool) {
	t.mu.Lock()
	row, ok := t.rows[address]
	t.mu.Unlock()

	if !ok {
		return domain.PlayerBalance{}, false
	}

	row.mu.Lock()
	defer row.mu.Unlock()

	return row.balance, !row.balance.CreatedAt.IsZero()
}

func (t *balanceTable) create(address string, initial uint64) (domain.PlayerBalance, error) {
	t.mu.Lock()
	_, exists := t.rows[address]
	t.mu.Unlock()

	if exists {
		if existing, ok := t.get(address); ok && !existing.CreatedAt.IsZero() {
			return domain.PlayerBalance{}, common.EntityConflictError{
				EntityType: "player_balance",
				Code:       constant.ErrAlreadyExists.Error(),
				Title:      "Balance Already Exists",
				Message:    "A balance row already exists for this address",
			}
		}
	}

	row := t.rowFor(address)

	row.mu.Lock()
	defer row.mu.Unlock()

	if !row.balance.CreatedAt.IsZero() {
		return domain.PlayerBalance{}, common.EntityConflictError{
			EntityType: "player_balance",
			Code:       constant.ErrAlreadyExists.Error(),
			Title:      "Balance Already Exists",
			Message:    "A balance row already exists for this address",
		}
	}

	now := time.Now().UTC()
	row.balance = domain.PlayerBalance{
		Address:        address,
		Balance:        initial,
		TotalDeposited: initial,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	return row.balance, nil
}

func (t *balanceTable) deposit(address string, amount uint64) domain.PlayerBalance {
	row := t.rowFor(address)

	row.mu.Lock()
	defer row.mu.Unlock()

	if row.balance.CreatedAt.IsZero() {
		now := time.Now().UTC()
		row.balance = domain.PlayerBalance{Address: address, CreatedAt: now}
	}

	row.balance.Balance += amount
	row.balance.TotalDeposited += amount
	row.balance.UpdatedAt = time.Now().UTC()

	return row.balance
}

func (t *balanceTable) withdraw(address string, amount uint64) (domain.PlayerBalance, error) {
	row := t.rowForExisting(address)
	if row == nil {
		return domain.PlayerBalance{}, common.EntityNotFoundError{
			EntityType: "player_balance",
			Code:       constant.ErrPlayerNotFound.Error(),
			Title:      "Player Not Found",
			Message:    "No player balance exists for address " + address,
		}
	}

	row.mu.Lock()
	defer row.mu.Unlock()

	if row.balance.Balance < amount {
		return domain.PlayerBalance{}, common.NewInsufficientBalanceError("player_balance", amount, row.balance.Balance)
	}

	row.balance.Balance -= amount
	row.balance.TotalWithdrawn += amount
	row.balance.UpdatedAt = time.Now().UTC()

	return row.balance, nil
}

func (t *balanceTable) updateAfterBet(address string, betAmount, payout uint64) (domain.PlayerBalance, uint64, error) {
	row := t.rowForExisting(address)
	if row == nil {
		return domain.PlayerBalance{}, 0, common.EntityNotFoundError{
			EntityType: "player_balance",
			Code:       constant.ErrPlayerNotFound.Error(),
			Title:      "Player Not Found",
			Message:    "No player balance exists for address " + address,
		}
	}

	row.mu.Lock()
	defer row.mu.Unlock()

	pre := row.balance.Balance

	if pre < betAmount {
		return domain.PlayerBalance{}, 0, common.NewInsufficientBalanceError("player_balance", betAmount, pre)
	}

	row.balance.Balance -= betAmount
	row.balance.Balance += payout
	row.balance.TotalWagered += betAmount
	row.balance.TotalWon += payout
	row.balance.UpdatedAt = time.Now().UTC()

	return row.balance, pre, nil
}

func (t *balanceTable) rowForExisting(address string) *balanceRow {
	t.mu.Lock()
	row, ok := t.rows[address]
	t.mu.Unlock()

	if !ok {
		return nil
	}

	row.mu.Lock()
	zero := row.balance.CreatedAt.IsZero()
	row.mu.Unlock()

	if zero {
		return nil
	}

	return row
}
