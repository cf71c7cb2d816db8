package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blackjack-coach/internal/config"
	"blackjack-coach/internal/game"
	"blackjack-coach/internal/player"
)

// Sender is the part of *tgbotapi.BotAPI the handler uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	bot     Sender
	cfg     *config.Config
	players player.Repository
	tables  *game.Manager
	runner  *game.Runner
	logger  *log.Logger
}

func NewHandler(bot Sender, cfg *config.Config, repo player.Repository, clock quartz.Clock, logger *log.Logger) *Handler {
	h := &Handler{
		bot:     bot,
		cfg:     cfg,
		players: repo,
		runner:  game.NewRunner(clock, logger),
		logger:  logger,
	}
	h.tables = game.NewManager(h.newTable)
	return h
}

func (h *Handler) newTable(chatID int64) *game.Table {
	seed := h.cfg.Seed
	if seed != 0 {
		seed += chatID
	}

	return game.NewTable(game.NewSource(seed),
		game.WithRules(h.cfg.Table),
		game.WithPacing(h.cfg.Pacing),
		game.WithLogger(h.logger.With("chat", chatID)),
		game.WithSettleHook(func(r game.Result) {
			if _, err := h.players.Record(chatID, r); err != nil {
				h.logger.Error("failed to record round", "chat", chatID, "err", err)
			}
		}),
	)
}

func (h *Handler) send(chatID int64, text string) {
	if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		h.logger.Warn("failed to send message", "chat", chatID, "err", err)
	}
}

func (h *Handler) sendTable(chatID int64, v game.View) {
	msg := tgbotapi.NewMessage(chatID, formatTable(v))
	if kb, ok := TableKeyboard(v, h.cfg.Table.BetStep); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Warn("failed to send table", "chat", chatID, "err", err)
	}
}

func (h *Handler) editTable(chatID int64, messageID int, v game.View) {
	var edit tgbotapi.Chattable
	if kb, ok := TableKeyboard(v, h.cfg.Table.BetStep); ok {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, formatTable(v), kb)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, formatTable(v))
	}
	if _, err := h.bot.Send(edit); err != nil {
		h.logger.Debug("failed to edit table", "chat", chatID, "err", err)
	}
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("failed to answer callback", "err", err)
	}
}

func formatHand(cards []game.Card, hideHole bool) string {
	if len(cards) == 0 {
		return "—"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if hideHole && i == 1 {
			parts[i] = "🂠"
			continue
		}
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatTotal(t game.Total) string {
	if t.Soft {
		return fmt.Sprintf("soft %d", t.Value)
	}
	return fmt.Sprintf("%d", t.Value)
}

func formatTable(v game.View) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🃏 Dealer: %s", formatHand(v.DealerHand, !v.RevealDealer))
	if len(v.DealerHand) > 0 {
		fmt.Fprintf(&sb, " (%s)", formatTotal(v.DealerTotal))
	}
	fmt.Fprintf(&sb, "\n🎴 You: %s", formatHand(v.PlayerHand, false))
	if len(v.PlayerHand) > 0 {
		fmt.Fprintf(&sb, " (%s)", formatTotal(v.PlayerTotal))
	}
	fmt.Fprintf(&sb, "\n\n💵 Bank: %d | Bet: %d", v.Bank, v.Bet)
	if v.HasDoubled {
		sb.WriteString(" (doubled)")
	}
	if v.Phase == game.PhasePlayerTurn {
		fmt.Fprintf(&sb, "\n💡 Advice: %s", v.Advice)
	}
	fmt.Fprintf(&sb, "\n\n%s", v.Message)
	if v.Payout > 0 {
		fmt.Fprintf(&sb, "\n💰 +%d", v.Payout)
	}
	return sb.String()
}

func (h *Handler) HandleStart(chatID int64) {
	h.send(chatID,
		"🎰 Welcome to Blackjack!\n\n"+
			"Use the buttons under the table to bet and play.\n"+
			"/table — show the table\n"+
			"/stats — your session results\n"+
			"/top — session leaderboard\n"+
			"/reset — new table with a fresh bank\n"+
			"/help — rules")
	h.sendTable(chatID, h.tables.GetOrCreate(chatID).Snapshot())
}

func (h *Handler) HandleHelp(chatID int64) {
	r := h.cfg.Table
	h.send(chatID, fmt.Sprintf(
		"📖 Blackjack rules:\n\n"+
			"🎯 Beat the dealer without going over 21\n\n"+
			"📊 Values:\n"+
			"• 2-10 — face value\n"+
			"• J, Q, K — 10\n"+
			"• A — 11 or 1\n\n"+
			"🎮 Actions:\n"+
			"• Hit — take a card\n"+
			"• Stand — end your turn\n"+
			"• Double — double the bet, take one card (first move only)\n\n"+
			"🤖 Dealer stands on all 17s\n"+
			"🎰 Blackjack pays 3:2\n"+
			"💵 Bets from %d to %d in steps of %d",
		r.MinBet, r.MaxBet, r.BetStep))
}

func (h *Handler) HandleStats(chatID int64) {
	p, err := h.players.GetOrCreate(chatID)
	if err != nil {
		h.logger.Error("failed to load seat", "chat", chatID, "err", err)
		h.send(chatID, "❌ Error")
		return
	}

	h.send(chatID, fmt.Sprintf(
		"📊 This session:\n"+
			"🎮 Rounds: %d\n"+
			"✅ Wins: %d (%.1f%%)\n"+
			"🎰 Blackjacks: %d\n"+
			"💰 Doubles: %d\n"+
			"❌ Losses: %d\n"+
			"🤝 Pushes: %d\n"+
			"📈 Net: %+d",
		p.Games, p.Wins, p.WinRate(), p.Blackjacks, p.Doubles, p.Losses, p.Pushes, p.Net))
}

func (h *Handler) HandleTop(chatID int64) {
	stats, err := h.players.GetTopByNet(10)
	if err != nil {
		h.logger.Error("failed to load leaderboard", "err", err)
		h.send(chatID, "❌ Error")
		return
	}

	if len(stats) == 0 {
		h.send(chatID, "🏆 Nobody has played yet!")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 Top players:\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, s := range stats {
		medal := fmt.Sprintf("%d.", i+1)
		if i < 3 {
			medal = medals[i]
		}
		fmt.Fprintf(&sb, "%s %+d 💰 | %d rounds (%.0f%%)\n", medal, s.Net, s.Games, s.WinRate)
	}

	h.send(chatID, sb.String())
}

// apply runs the table command named by data. The first result is whether
// the table accepted it, the second whether data names a command at all.
func apply(t *game.Table, data string) (bool, bool) {
	switch data {
	case CallbackDeal:
		return t.StartRound(), true
	case CallbackHit:
		return t.Hit(), true
	case CallbackStand:
		return t.Stand(), true
	case CallbackDouble:
		return t.DoubleDown(), true
	case CallbackBetUp:
		return t.IncreaseBet(), true
	case CallbackBetDown:
		return t.DecreaseBet(), true
	case CallbackReset:
		return t.ResetBank(), true
	case CallbackNext:
		return t.NextRound(), true
	}
	return false, false
}

func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		h.answerCallback(callback.ID, "")
		return
	}
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	table := h.tables.GetOrCreate(chatID)

	accepted, known := apply(table, callback.Data)
	if !known {
		h.logger.Warn("unknown callback", "chat", chatID, "data", callback.Data)
		h.answerCallback(callback.ID, "")
		return
	}

	v := table.Snapshot()
	if !accepted {
		if callback.Data == CallbackDeal && v.Message == game.MsgAdjustBet {
			h.answerCallback(callback.ID, v.Message)
			h.editTable(chatID, messageID, v)
			return
		}
		h.answerCallback(callback.ID, "Not now")
		// a cancelled run leaves the table mid-deal; pick it up again
		if v.Phase == game.PhaseDealing || v.Phase == game.PhaseDealerTurn {
			h.drive(ctx, table, chatID, messageID)
		}
		return
	}

	h.answerCallback(callback.ID, "")
	h.editTable(chatID, messageID, v)
	h.drive(ctx, table, chatID, messageID)
}

func (h *Handler) drive(ctx context.Context, table *game.Table, chatID int64, messageID int) {
	err := h.runner.Run(ctx, table, func(v game.View) {
		h.editTable(chatID, messageID, v)
	})
	if err != nil {
		h.logger.Debug("deal interrupted", "chat", chatID, "err", err)
	}
}

// HandleReset drops the chat's table so the next command starts a fresh one.
func (h *Handler) HandleReset(chatID int64) {
	h.tables.Delete(chatID)
	h.logger.Info("table reset", "chat", chatID, "tables", h.tables.Len())
	h.send(chatID, "🔄 "+game.MsgBankReset)
	h.sendTable(chatID, h.tables.GetOrCreate(chatID).Snapshot())
}

func (h *Handler) HandleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	parts := strings.Fields(msg.Text)

	if len(parts) == 0 {
		return
	}

	// "/cmd@botname" in groups
	cmd, _, _ := strings.Cut(strings.ToLower(parts[0]), "@")

	switch cmd {
	case "/start":
		h.HandleStart(chatID)
	case "/help":
		h.HandleHelp(chatID)
	case "/table":
		h.sendTable(chatID, h.tables.GetOrCreate(chatID).Snapshot())
	case "/stats":
		h.HandleStats(chatID)
	case "/top":
		h.HandleTop(chatID)
	case "/reset":
		h.HandleReset(chatID)
	}
}
