// Package api is C8 plus the read-only endpoints: the HTTP surface clients
// and operators talk to. Every handler either answers from in-memory state
// immediately or schedules durable follow-up work; none blocks on C6/C7.
package api

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/common/constant"
	chttp "github.com/reecen9696/casino-rollup/common/net/http"
	"github.com/reecen9696/casino-rollup/internal/coordinator"
	"github.com/reecen9696/casino-rollup/internal/domain"
	"github.com/reecen9696/casino-rollup/internal/ledger"
	"github.com/reecen9696/casino-rollup/internal/ledgerclient"
	"github.com/reecen9696/casino-rollup/internal/settlement"
	"github.com/reecen9696/casino-rollup/internal/vrf"
)

// Server wires the ledger store, the VRF engine (optional), and the
// settlement coordinator behind the sequencer's HTTP surface.
type Server struct {
	ledger      *ledger.Store
	vrfEngine   *vrf.Engine // nil when VRF is disabled: CSPRNG fallback is used
	coordinator *coordinator.Coordinator
	settlement  *settlement.Store
	ledgerCli   *ledgerclient.Client // nil when ENABLE_SOLANA is false
}

// NewServer builds a Server. vrfEngine and ledgerCli may be nil.
func NewServer(ledgerStore *ledger.Store, vrfEngine *vrf.Engine, coord *coordinator.Coordinator, settlementStore *settlement.Store, ledgerCli *ledgerclient.Client) *Server {
	return &Server{
		ledger:      ledgerStore,
		vrfEngine:   vrfEngine,
		coordinator: coord,
		settlement:  settlementStore,
		ledgerCli:   ledgerCli,
	}
}

// Mount registers every route onto app.
func (s *Server) Mount(app *fiber.App) {
	app.Get("/health", chttp.Ping)

	v1 := app.Group("/v1")
	v1.Post("/bet", chttp.WithBody(func() any { return &BetRequest{} }, s.handleBet))
	v1.Post("/deposit", chttp.WithBody(func() any { return &DepositRequest{} }, s.handleDeposit))
	v1.Post("/withdraw", chttp.WithBody(func() any { return &WithdrawRequest{} }, s.handleWithdraw))
	v1.Get("/balance/:address", s.handleGetBalance)
	v1.Get("/bets/:address", s.handleGetPlayerBets)
	v1.Get("/recent-bets", s.handleRecentBets)
	v1.Get("/settlement-stats", s.handleSettlementStats)
	v1.Get("/reconciliation", s.handleReconciliation)
}

const recentBetsLimit = 50

// BetResponse is returned synchronously, before any durable state
// referring to the bet exists.
type BetResponse struct {
	BetID     string `json:"bet_id"`
	Amount    uint64 `json:"amount"`
	Guess     bool   `json:"guess"`
	Outcome   bool   `json:"outcome"`
	Won       bool   `json:"won"`
	Payout    uint64 `json:"payout"`
	Timestamp int64  `json:"timestamp"`
}

func (s *Server) handleBet(p any, c *fiber.Ctx) error {
	req := p.(*BetRequest)

	if req.Amount < constant.DefaultBetMinimumAmount {
		return chttp.WithError(c, common.ValidateBusinessError(constant.ErrInvalidAmount, "bet"))
	}

	betID := uuid.NewString()
	nonce := s.coordinator.NextNonce()

	outcome, err := s.resolveOutcome(c.Context(), betID, req.PlayerAddress, nonce)
	if err != nil {
		return chttp.WithError(c, err)
	}

	now := time.Now().UTC()
	bet := domain.NewBet(betID, req.PlayerAddress, req.Amount, req.Guess, outcome, now)

	resp := BetResponse{
		BetID:     bet.ID,
		Amount:    bet.Amount,
		Guess:     bet.Guess,
		Outcome:   bet.Result,
		Won:       bet.Won,
		Payout:    bet.Payout,
		Timestamp: now.Unix(),
	}

	// Schedule the follow-up work on its own goroutine; the response does
	// not wait for it. A crash here loses the bet, never corrupts a balance,
	// since the balance update is the only balance mutation and it's atomic.
	go s.settleBet(bet)

	return chttp.OK(c, resp)
}

// resolveOutcome derives the coin flip via the VRF engine when enabled,
// else a CSPRNG executed inline (bet handling already runs off the
// fiber event loop goroutine pool, so no separate blocking dispatch is
// needed for the fallback path).
func (s *Server) resolveOutcome(ctx context.Context, betID, address string, nonce uint64) (bool, error) {
	if s.vrfEngine == nil {
		return csprngOutcome()
	}

	var user [32]byte
	copy(user[:], address)

	proof, err := s.vrfEngine.Resolve(ctx, betID, user, nonce)
	if err != nil {
		return false, common.TimeoutError{
			Code:    constant.ErrRequestTimeout.Error(),
			Title:   "Request Timeout",
			Message: "VRF signing did not complete within the allotted time.",
			Err:     err,
		}
	}

	return proof.Outcome, nil
}

func csprngOutcome() (bool, error) {
	var b [1]byte
	if _, err := rand.Read(b[:]); err != nil {
		return false, common.ValidateInternalError(err, "bet")
	}

	return b[0]&1 == 0, nil
}

// settleBet persists the bet, updates the player's balance, and enqueues a
// settlement item. If the balance update fails (unknown player or
// insufficient balance), the bet stays recorded but is not enqueued, and
// the error is not logged. Nothing here is surfaced to the client that
// already received its response.
func (s *Server) settleBet(bet domain.Bet) {
	s.ledger.SaveBet(bet)

	_, preBalance, err := s.ledger.UpdateBalanceAfterBet(bet.PlayerAddress, bet.Amount, bet.Payout)
	if err != nil {
		return
	}

	s.coordinator.Enqueue(domain.SettlementItemFromBet(bet, preBalance))
}

func (s *Server) handleDeposit(p any, c *fiber.Ctx) error {
	req := p.(*DepositRequest)

	balance := s.ledger.Deposit(req.PlayerAddress, req.Amount)

	return chttp.OK(c, balance)
}

func (s *Server) handleWithdraw(p any, c *fiber.Ctx) error {
	req := p.(*WithdrawRequest)

	balance, err := s.ledger.Withdraw(req.PlayerAddress, req.Amount)
	if err != nil {
		return chttp.WithError(c, err)
	}

	return chttp.OK(c, balance)
}

func (s *Server) handleGetBalance(c *fiber.Ctx) error {
	address := c.Params("address")

	balance, ok := s.ledger.GetPlayerBalance(address)
	if !ok {
		return chttp.WithError(c, common.ValidateBusinessError(constant.ErrPlayerNotFound, "balance", address))
	}

	bets := s.ledger.GetPlayerBets(address, 0)

	return chttp.OK(c, domain.NewPlayerProfile(balance, bets))
}

func (s *Server) handleGetPlayerBets(c *fiber.Ctx) error {
	address := c.Params("address")

	bets := s.ledger.GetPlayerBets(address, recentBetsLimit)

	return chttp.OK(c, bets)
}

func (s *Server) handleRecentBets(c *fiber.Ctx) error {
	bets := s.ledger.GetRecentBets(recentBetsLimit)

	return chttp.OK(c, bets)
}

func (s *Server) handleSettlementStats(c *fiber.Ctx) error {
	return chttp.OK(c, s.coordinator.StatsSnapshot())
}

func (s *Server) handleReconciliation(c *fiber.Ctx) error {
	if s.ledgerCli == nil {
		return chttp.OK(c, domain.ReconciliationReport{Discrepancies: []domain.ReconciliationEntry{}})
	}

	batches := s.settlement.GetBatchesWithTransaction()
	report := s.ledgerCli.Reconcile(c.Context(), batches)

	return chttp.OK(c, report)
}
