package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"usdt-calculator-bot/calc"
	"usdt-calculator-bot/models"
)

const (
	unitUSDT = "USDT"
	unitIDR  = "IDR"
)

// handleCurrencySelect asks for the amount once the user picked which
// currency the amount will be entered in.
func handleCurrencySelect(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message, txType string) {
	if msg.Text == BtnBack {
		clearState(msg.From.ID)
		showMainMenu(bot, msg.Chat.ID, msg.From.ID)
		return
	}

	rate, _ := models.GetRate(db, txType)
	rateStr := "Tidak tersedia"
	if rate != nil {
		rateStr = FormatCurrency(rate.Value)
	}

	var header, prompt, nextState string
	if txType == models.RateTypeBuy {
		header = "🛍️ *Beli USDT*"
		switch msg.Text {
		case BtnUSDT:
			prompt = "Masukkan jumlah USDT yang ingin dibeli:"
			nextState = stateBuyUSDT
		case BtnIDR:
			prompt = "Masukkan jumlah IDR yang ingin Anda belikan USDT:"
			nextState = stateBuyIDR
		}
	} else {
		header = "💱 *Jual USDT*"
		switch msg.Text {
		case BtnUSDT:
			prompt = "Masukkan jumlah USDT yang ingin dijual:"
			nextState = stateSellUSDT
		case BtnIDR:
			prompt = "Masukkan jumlah IDR yang ingin Anda dapatkan dari penjualan USDT:"
			nextState = stateSellIDR
		}
	}

	if nextState == "" {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Pilihan tidak valid. Silakan pilih mata uang yang tersedia:")
		reply.ReplyMarkup = currencyKeyboard()
		bot.Send(reply)
		return
	}

	setState(msg.From.ID, nextState)
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"%s\n\n▸ Rate: %s / 1 USDT\n%s", header, rateStr, prompt))
	reply.ReplyMarkup = backKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

// handleTradeAmount prices the entered amount and renders the result card.
func handleTradeAmount(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message, txType, unit string) {
	if msg.Text == BtnBack {
		if txType == models.RateTypeBuy {
			setState(msg.From.ID, stateBuyCurrency)
		} else {
			setState(msg.From.ID, stateSellCurrency)
		}
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Pilih mata uang yang ingin Anda gunakan:")
		reply.ReplyMarkup = currencyKeyboard()
		bot.Send(reply)
		return
	}

	amount, err := ParseNumber(msg.Text)
	if err != nil {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Input tidak valid. Silakan masukkan angka:")
		reply.ReplyMarkup = backKeyboard()
		bot.Send(reply)
		return
	}
	if amount <= 0 {
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("❌ Jumlah %s harus lebih besar dari 0. Silakan coba lagi:", unit))
		reply.ReplyMarkup = backKeyboard()
		bot.Send(reply)
		return
	}

	var result *models.TransactionResult
	if unit == unitIDR {
		result, err = models.CalculateTransactionFromIDR(db, amount, txType)
	} else {
		result, err = models.CalculateTransaction(db, amount, txType)
	}
	if err != nil {
		text := "❌ Gagal menghitung transaksi. Silakan coba lagi:"
		if errors.Is(err, models.ErrRateUnavailable) {
			if txType == models.RateTypeBuy {
				text = "❌ Gagal mendapatkan rate beli. Silakan coba lagi:"
			} else {
				text = "❌ Gagal mendapatkan rate jual. Silakan coba lagi:"
			}
		}
		reply := tgbotapi.NewMessage(msg.Chat.ID, text)
		reply.ReplyMarkup = backKeyboard()
		bot.Send(reply)
		return
	}

	clearState(msg.From.ID)
	reply := tgbotapi.NewMessage(msg.Chat.ID, tradeResultCard(msg.From, result, txType))
	reply.ReplyMarkup = resultKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

func tradeResultCard(user *tgbotapi.User, r *models.TransactionResult, txType string) string {
	username := "Tidak ada"
	if user.UserName != "" {
		username = "@" + user.UserName
	}

	section, totalLabel := "BELI USDT", "Total Bayar"
	if txType == models.RateTypeSell {
		section, totalLabel = "JUAL USDT", "Total Terima"
	}

	return "╭────────────────────╮\n" +
		"│  *DETAIL PERHITUNGAN USDT*\n" +
		"╰────────────────────╯\n" +
		"╭────〔 *USER INFO* 〕───────╮\n" +
		fmt.Sprintf("┊└ ID : `%d`\n", user.ID) +
		fmt.Sprintf("┊└ Username : %s\n", username) +
		fmt.Sprintf("┊└ Created at : *%s*\n", FormatTimestamp(time.Now())) +
		"┊\n" +
		fmt.Sprintf("╭────〔 *%s* 〕───────╮\n", section) +
		fmt.Sprintf("┊ • Jumlah IDR : %s\n", FormatCurrency(r.IDRAmount)) +
		fmt.Sprintf("┊ • Jumlah USDT : %.2f USDT\n", r.USDTAmount) +
		fmt.Sprintf("┊ • Rate : %s\n", FormatCurrency(r.Rate)) +
		fmt.Sprintf("┊ • Fee : %s\n", FormatCurrency(r.Fee)) +
		"╰──────────────────────╯\n" +
		fmt.Sprintf("╰➤ %s : `%s`", totalLabel, FormatCurrency(r.TotalAmount))
}

// handleCalculator evaluates free-form arithmetic. × and x mean multiply,
// ^ means power; everything else is the calc package grammar.
func handleCalculator(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == BtnBack {
		clearState(msg.From.ID)
		handleStart(bot, db, msg)
		return
	}

	expr := strings.NewReplacer("×", "*", "x", "*", "^", "**").Replace(text)
	result, err := calc.Eval(expr)
	if err != nil {
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			"*❌ Ekspresi tidak valid. Silakan masukkan ekspresi matematika yang benar.*")
		reply.ReplyMarkup = backKeyboard()
		reply.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(reply)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID,
		fmt.Sprintf("*%s = %s*", text, strconv.FormatFloat(result, 'f', -1, 64)))
	reply.ReplyMarkup = backKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}
