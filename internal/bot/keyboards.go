package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"blackjack-coach/internal/game"
)

const (
	CallbackDeal    = "deal"
	CallbackHit     = "hit"
	CallbackStand   = "stand"
	CallbackDouble  = "double"
	CallbackBetUp   = "bet_up"
	CallbackBetDown = "bet_down"
	CallbackReset   = "reset"
	CallbackNext    = "next"
)

// TableKeyboard offers only the commands legal in the current phase. It
// returns false while cards are being dealt.
func TableKeyboard(v game.View, step int) (tgbotapi.InlineKeyboardMarkup, bool) {
	switch v.Phase {
	case game.PhaseBetting:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➖ %d", step), CallbackBetDown),
				tgbotapi.NewInlineKeyboardButtonData("🃏 Deal", CallbackDeal),
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➕ %d", step), CallbackBetUp),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 Reset bank", CallbackReset),
			),
		), true

	case game.PhasePlayerTurn:
		row := []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("👊 Hit", CallbackHit),
			tgbotapi.NewInlineKeyboardButtonData("✋ Stand", CallbackStand),
		}
		if v.CanDouble {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("💰 Double", CallbackDouble))
		}
		return tgbotapi.NewInlineKeyboardMarkup(row), true

	case game.PhaseRoundOver:
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("▶️ Next round", CallbackNext),
			),
		), true
	}
	return tgbotapi.InlineKeyboardMarkup{}, false
}
