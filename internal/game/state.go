package game

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type Phase int

const (
	PhaseBetting Phase = iota
	PhaseDealing
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseRoundOver
)

func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhaseDealing:
		return "dealing"
	case PhasePlayerTurn:
		return "player"
	case PhaseDealerTurn:
		return "dealer"
	case PhaseRoundOver:
		return "round_over"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeBlackjack
	OutcomeLose
	OutcomePush
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeBlackjack:
		return "blackjack"
	case OutcomeLose:
		return "lose"
	case OutcomePush:
		return "push"
	}
	return "none"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

const (
	MsgPlaceBet        = "Place your bet and press Deal"
	MsgAdjustBet       = "Adjust bet within your bank."
	MsgDealing         = "Dealing..."
	MsgYourMove        = "Your move. Hit, Stand, or Double."
	MsgDealerPlays     = "Dealer plays."
	MsgBothBlackjack   = "Push! Both have Blackjack."
	MsgBlackjack       = "Blackjack! You win 3:2"
	MsgDealerBlackjack = "Dealer has Blackjack. You lose."
	MsgBust            = "Bust! You lose."
	MsgDealerBusts     = "Dealer busts! You win."
	MsgWin             = "You win!"
	MsgDealerWins      = "Dealer wins."
	MsgPush            = "Push. Bet returned."
	MsgBankReset       = "Bank reset. Place your bet."
)

const dealerStands = 17

// Rules are the table limits.
type Rules struct {
	StartBank  int `yaml:"startBank" envconfig:"start_bank"`
	DefaultBet int `yaml:"defaultBet" envconfig:"default_bet"`
	MinBet     int `yaml:"minBet" envconfig:"min_bet"`
	MaxBet     int `yaml:"maxBet" envconfig:"max_bet"`
	BetStep    int `yaml:"betStep" envconfig:"bet_step"`
}

func DefaultRules() Rules {
	return Rules{
		StartBank:  1000,
		DefaultBet: 50,
		MinBet:     10,
		MaxBet:     500,
		BetStep:    10,
	}
}

// Pacing holds the presentation delays between automatic steps.
type Pacing struct {
	FirstDeal  time.Duration `yaml:"firstDeal" envconfig:"first_deal"`
	Deal       time.Duration `yaml:"deal" envconfig:"deal"`
	DealerDraw time.Duration `yaml:"dealerDraw" envconfig:"dealer_draw"`
}

func DefaultPacing() Pacing {
	return Pacing{
		FirstDeal:  50 * time.Millisecond,
		Deal:       100 * time.Millisecond,
		DealerDraw: 500 * time.Millisecond,
	}
}

// Result describes one settled round.
type Result struct {
	Outcome     Outcome `json:"outcome"`
	Bet         int     `json:"bet"`
	Doubled     bool    `json:"doubled"`
	Payout      int     `json:"payout"`
	Net         int     `json:"net"`
	PlayerTotal int     `json:"player_total"`
	DealerTotal int     `json:"dealer_total"`
}

// View is a copy of the table state plus values derived from it.
type View struct {
	PlayerHand   []Card  `json:"player_hand"`
	DealerHand   []Card  `json:"dealer_hand"`
	Bank         int     `json:"bank"`
	Bet          int     `json:"bet"`
	Phase        Phase   `json:"phase"`
	Message      string  `json:"message"`
	RevealDealer bool    `json:"reveal_dealer"`
	CanDouble    bool    `json:"can_double"`
	HasDoubled   bool    `json:"has_doubled"`
	PlayerTotal  Total   `json:"player_total"`
	DealerTotal  Total   `json:"dealer_total"`
	Advice       Action  `json:"advice"`
	Outcome      Outcome `json:"outcome"`
	Payout       int     `json:"payout"`
}

type Option func(*Table)

func WithRules(r Rules) Option {
	return func(t *Table) { t.rules = r }
}

func WithPacing(p Pacing) Option {
	return func(t *Table) { t.pacing = p }
}

func WithLogger(l *log.Logger) Option {
	return func(t *Table) { t.logger = l }
}

func WithDeck(d *Deck) Option {
	return func(t *Table) { t.deck = d }
}

// WithSettleHook registers fn to run once per settled round. It runs after
// the table lock is released, so it may read the table.
func WithSettleHook(fn func(Result)) Option {
	return func(t *Table) { t.onSettle = fn }
}

// Table is the round state machine for a single seat. The phase gates every
// command; a command outside its phase is a no-op that returns false.
type Table struct {
	mu       sync.Mutex
	rules    Rules
	pacing   Pacing
	deck     *Deck
	logger   *log.Logger
	onSettle func(Result)

	player      []Card
	dealer      []Card
	bank        int
	bet         int
	phase       Phase
	message     string
	reveal      bool
	doubled     bool
	dealerSteps int
	outcome     Outcome
	payout      int

	settled *Result
}

func NewTable(src Source, opts ...Option) *Table {
	t := &Table{
		rules:  DefaultRules(),
		pacing: DefaultPacing(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.deck == nil {
		t.deck = NewDeck(src)
	}
	if t.logger == nil {
		t.logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	t.bank = t.rules.StartBank
	t.bet = t.clampBet(t.rules.DefaultBet)
	t.phase = PhaseBetting
	t.message = MsgPlaceBet
	return t
}

// do runs fn under the lock and fires the settle hook afterwards.
func (t *Table) do(fn func() bool) bool {
	t.mu.Lock()
	ok := fn()
	settled := t.settled
	t.settled = nil
	t.mu.Unlock()

	if settled != nil && t.onSettle != nil {
		t.onSettle(*settled)
	}
	return ok
}

func (t *Table) StartRound() bool {
	return t.do(func() bool {
		if t.phase != PhaseBetting {
			return false
		}
		if t.bet <= 0 || t.bet > t.bank {
			t.message = MsgAdjustBet
			return false
		}

		t.bank -= t.bet
		t.clearRound()
		t.phase = PhaseDealing
		t.message = MsgDealing
		t.logger.Debug("round started", "bet", t.bet, "bank", t.bank)
		return true
	})
}

func (t *Table) Hit() bool {
	return t.do(func() bool {
		if t.phase != PhasePlayerTurn {
			return false
		}

		card := t.draw()
		t.player = append(t.player, card)
		t.logger.Debug("hit", "card", card, "hand", formatCards(t.player))

		if IsBust(t.player) {
			t.finish(OutcomeLose, 0, MsgBust)
		}
		return true
	})
}

func (t *Table) Stand() bool {
	return t.do(func() bool {
		if t.phase != PhasePlayerTurn {
			return false
		}
		t.toDealer()
		return true
	})
}

func (t *Table) DoubleDown() bool {
	return t.do(func() bool {
		if !t.canDouble() {
			return false
		}

		t.bank -= t.bet
		t.doubled = true
		card := t.draw()
		t.player = append(t.player, card)
		t.logger.Debug("doubled", "card", card, "hand", formatCards(t.player), "bank", t.bank)
		t.toDealer()
		return true
	})
}

func (t *Table) IncreaseBet() bool {
	return t.do(func() bool {
		if t.phase != PhaseBetting {
			return false
		}
		bet := min(t.bet+t.rules.BetStep, t.rules.MaxBet, t.bank)
		if bet < t.rules.MinBet || bet == t.bet {
			return false
		}
		t.bet = bet
		return true
	})
}

func (t *Table) DecreaseBet() bool {
	return t.do(func() bool {
		if t.phase != PhaseBetting {
			return false
		}
		bet := max(t.bet-t.rules.BetStep, t.rules.MinBet)
		if bet == t.bet {
			return false
		}
		t.bet = bet
		return true
	})
}

func (t *Table) ResetBank() bool {
	return t.do(func() bool {
		if t.phase != PhaseBetting {
			return false
		}
		t.bank = t.rules.StartBank
		t.bet = t.clampBet(t.rules.DefaultBet)
		t.clearRound()
		t.message = MsgBankReset
		t.logger.Debug("bank reset", "bank", t.bank)
		return true
	})
}

func (t *Table) NextRound() bool {
	return t.do(func() bool {
		if t.phase != PhaseRoundOver {
			return false
		}
		t.clearRound()
		t.bet = t.clampBet(t.bet)
		t.phase = PhaseBetting
		t.message = MsgPlaceBet
		return true
	})
}

// StepKind names an automatic transition of the Dealing or DealerTurn phase.
type StepKind int

const (
	StepDealPlayer StepKind = iota
	StepDealDealer
	StepDealerDraw
	StepSettle
)

func (k StepKind) String() string {
	switch k {
	case StepDealPlayer:
		return "deal_player"
	case StepDealDealer:
		return "deal_dealer"
	case StepDealerDraw:
		return "dealer_draw"
	case StepSettle:
		return "settle"
	}
	return "unknown"
}

// Step is the next automatic transition and the delay to show before it.
type Step struct {
	Kind  StepKind
	Delay time.Duration
}

// NextStep is derived from the current state only, so the remaining step
// sequence can be resumed from any point.
func (t *Table) NextStep() (Step, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nextStep()
}

func (t *Table) nextStep() (Step, bool) {
	switch t.phase {
	case PhaseDealing:
		dealt := len(t.player) + len(t.dealer)
		delay := t.pacing.Deal
		if dealt == 0 {
			delay = t.pacing.FirstDeal
		}
		if len(t.player) == len(t.dealer) {
			return Step{Kind: StepDealPlayer, Delay: delay}, true
		}
		return Step{Kind: StepDealDealer, Delay: delay}, true

	case PhaseDealerTurn:
		var delay time.Duration
		if t.dealerSteps > 0 {
			delay = t.pacing.DealerDraw
		}
		if Evaluate(t.dealer).Value < dealerStands {
			return Step{Kind: StepDealerDraw, Delay: delay}, true
		}
		return Step{Kind: StepSettle, Delay: delay}, true
	}
	return Step{}, false
}

// Advance performs the next automatic step, if any.
func (t *Table) Advance() bool {
	return t.do(func() bool {
		step, ok := t.nextStep()
		if !ok {
			return false
		}

		switch step.Kind {
		case StepDealPlayer:
			t.player = append(t.player, t.draw())
		case StepDealDealer:
			t.dealer = append(t.dealer, t.draw())
		case StepDealerDraw:
			card := t.draw()
			t.dealer = append(t.dealer, card)
			t.dealerSteps++
			t.logger.Debug("dealer draws", "card", card, "hand", formatCards(t.dealer))
		case StepSettle:
			t.dealerSteps++
			t.settle()
		}

		if t.phase == PhaseDealing && len(t.player) == 2 && len(t.dealer) == 2 {
			t.checkNaturals()
		}
		return true
	})
}

func (t *Table) Snapshot() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := View{
		PlayerHand:   append([]Card(nil), t.player...),
		DealerHand:   append([]Card(nil), t.dealer...),
		Bank:         t.bank,
		Bet:          t.bet,
		Phase:        t.phase,
		Message:      t.message,
		RevealDealer: t.reveal,
		CanDouble:    t.canDouble(),
		HasDoubled:   t.doubled,
		PlayerTotal:  Evaluate(t.player),
		Outcome:      t.outcome,
		Payout:       t.payout,
	}

	var up Card
	if len(t.dealer) > 0 {
		up = t.dealer[0]
		if t.reveal {
			v.DealerTotal = Evaluate(t.dealer)
		} else {
			v.DealerTotal = Evaluate(t.dealer[:1])
		}
	}
	v.Advice = Advise(t.player, up, v.CanDouble)
	return v
}

func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

func (t *Table) Rules() Rules {
	return t.rules
}

func (t *Table) canDouble() bool {
	return t.phase == PhasePlayerTurn && len(t.player) == 2 && t.bank >= t.bet && !t.doubled
}

func (t *Table) draw() Card {
	before := t.deck.Reshuffles()
	card := t.deck.Draw()
	if t.deck.Reshuffles() != before {
		t.logger.Debug("deck exhausted, reshuffled")
	}
	return card
}

// clampBet bounds the bet by the bank first, then by the table limits, so a
// bank below the minimum leaves the minimum bet in place.
func (t *Table) clampBet(bet int) int {
	return min(max(min(bet, t.bank), t.rules.MinBet), t.rules.MaxBet)
}

func (t *Table) clearRound() {
	t.player = nil
	t.dealer = nil
	t.reveal = false
	t.doubled = false
	t.dealerSteps = 0
	t.outcome = OutcomeNone
	t.payout = 0
}

func (t *Table) toDealer() {
	t.reveal = true
	t.phase = PhaseDealerTurn
	t.dealerSteps = 0
	t.message = MsgDealerPlays
}

func (t *Table) checkNaturals() {
	player := IsBlackjack(t.player)
	dealer := IsBlackjack(t.dealer)

	switch {
	case player && dealer:
		t.finish(OutcomePush, t.bet, MsgBothBlackjack)
	case player:
		t.finish(OutcomeBlackjack, t.bet+t.bet*3/2, MsgBlackjack)
	case dealer:
		t.finish(OutcomeLose, 0, MsgDealerBlackjack)
	default:
		t.phase = PhasePlayerTurn
		t.message = MsgYourMove
	}
}

func (t *Table) settle() {
	stake := t.stake()
	player := Evaluate(t.player).Value
	dealer := Evaluate(t.dealer).Value

	switch {
	case player > blackjack:
		t.finish(OutcomeLose, 0, MsgBust)
	case dealer > blackjack:
		t.finish(OutcomeWin, 2*stake, MsgDealerBusts)
	case player > dealer:
		t.finish(OutcomeWin, 2*stake, MsgWin)
	case player < dealer:
		t.finish(OutcomeLose, 0, MsgDealerWins)
	default:
		t.finish(OutcomePush, stake, MsgPush)
	}
}

func (t *Table) stake() int {
	if t.doubled {
		return 2 * t.bet
	}
	return t.bet
}

func (t *Table) finish(outcome Outcome, payout int, msg string) {
	t.bank += payout
	t.reveal = true
	t.phase = PhaseRoundOver
	t.outcome = outcome
	t.payout = payout
	t.message = msg

	r := Result{
		Outcome:     outcome,
		Bet:         t.bet,
		Doubled:     t.doubled,
		Payout:      payout,
		Net:         payout - t.stake(),
		PlayerTotal: Evaluate(t.player).Value,
		DealerTotal: Evaluate(t.dealer).Value,
	}
	t.settled = &r
	t.logger.Debug("round settled",
		"outcome", outcome, "payout", payout, "bank", t.bank,
		"player", formatCards(t.player), "dealer", formatCards(t.dealer))
}
