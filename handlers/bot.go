package handlers

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"usdt-calculator-bot/models"
)

// Conversation states
const (
	stateBuyCurrency  = "buy_currency"
	stateSellCurrency = "sell_currency"
	stateBuyUSDT      = "buy_usdt"
	stateBuyIDR       = "buy_idr"
	stateSellUSDT     = "sell_usdt"
	stateSellIDR      = "sell_idr"
	stateCalculator   = "calculator"

	stateAdminMenu    = "admin_menu"
	stateSetBuyRate   = "set_buy_rate"
	stateSetSellRate  = "set_sell_rate"
	stateManageFees   = "manage_fees"
	stateAddFeeMin    = "add_fee_min"
	stateAddFeeMax    = "add_fee_max"
	stateAddFeeAmount = "add_fee_amount"
	stateEditFee      = "edit_fee"
	stateDeleteFee    = "delete_fee"
	stateFormulaType  = "formula_type"
	stateFormulaInput = "formula_input"
)

// Conversation state tracking, one state plus scratch values per user.
var convState = struct {
	m map[int64]string
	sync.RWMutex
}{m: make(map[int64]string)}

var convTemp = struct {
	m map[int64]map[string]string
	sync.RWMutex
}{m: make(map[int64]map[string]string)}

var adminIDs []int64

func StartBot(bot *tgbotapi.BotAPI, db *gorm.DB, admins []int64) {
	adminIDs = admins

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		msg := update.Message

		if msg.IsCommand() {
			switch msg.Command() {
			case "start":
				clearState(msg.From.ID)
				handleStart(bot, db, msg)
			case "help":
				handleHelp(bot, msg)
			case "admin":
				showAdminPanel(bot, msg)
			}
			continue
		}

		// Conversation flow state machine
		if handleConversation(bot, db, msg) {
			continue
		}

		// Main menu navigation
		handleMainMenu(bot, db, msg)
	}
}

// handleConversation routes a message through the current flow. Returns true
// if the user was in a flow.
func handleConversation(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) bool {
	state, inFlow := getState(msg.From.ID)
	if !inFlow {
		return false
	}

	// The main menu buttons always win over whatever flow is active.
	switch msg.Text {
	case BtnBuy, BtnSell, BtnCalculator, BtnAdminPanel:
		clearState(msg.From.ID)
		handleMainMenu(bot, db, msg)
		return true
	}

	switch state {
	case stateBuyCurrency:
		handleCurrencySelect(bot, db, msg, models.RateTypeBuy)
	case stateSellCurrency:
		handleCurrencySelect(bot, db, msg, models.RateTypeSell)
	case stateBuyUSDT:
		handleTradeAmount(bot, db, msg, models.RateTypeBuy, unitUSDT)
	case stateBuyIDR:
		handleTradeAmount(bot, db, msg, models.RateTypeBuy, unitIDR)
	case stateSellUSDT:
		handleTradeAmount(bot, db, msg, models.RateTypeSell, unitUSDT)
	case stateSellIDR:
		handleTradeAmount(bot, db, msg, models.RateTypeSell, unitIDR)
	case stateCalculator:
		handleCalculator(bot, db, msg)
	case stateAdminMenu:
		handleAdminMenu(bot, db, msg)
	case stateSetBuyRate:
		handleSetRate(bot, db, msg, models.RateTypeBuy)
	case stateSetSellRate:
		handleSetRate(bot, db, msg, models.RateTypeSell)
	case stateManageFees:
		handleFeeMenu(bot, db, msg)
	case stateAddFeeMin:
		handleAddFeeMin(bot, db, msg)
	case stateAddFeeMax:
		handleAddFeeMax(bot, db, msg)
	case stateAddFeeAmount:
		handleAddFeeAmount(bot, db, msg)
	case stateEditFee:
		handleEditFee(bot, db, msg)
	case stateDeleteFee:
		handleDeleteFee(bot, db, msg)
	case stateFormulaType:
		handleFormulaType(bot, db, msg)
	case stateFormulaInput:
		handleFormulaInput(bot, db, msg)
	default:
		clearState(msg.From.ID)
		return false
	}
	return true
}

func handleStart(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	user := msg.From
	username := user.UserName
	if username == "" {
		username = user.FirstName
	}

	buyRate, _ := models.GetRate(db, models.RateTypeBuy)
	sellRate, _ := models.GetRate(db, models.RateTypeSell)

	buyStr, sellStr, updatedStr := "Tidak tersedia", "Tidak tersedia", "Tidak diketahui"
	if buyRate != nil {
		buyStr = FormatCurrency(buyRate.Value)
		updatedStr = FormatDateTime(buyRate.UpdatedAt)
	}
	if sellRate != nil {
		sellStr = FormatCurrency(sellRate.Value)
	}

	welcome := "👋 Hai, selamat datang *" + username + "* di layanan jual beli USDT!\n" +
		"Saya adalah bot otomatis untuk melakukan perhitungan nominal convert secara akurat.\n\n" +
		"*⌊ Rate Hari Ini ⌉*\n" +
		"*└ Terakhir Diperbarui: " + updatedStr + "*\n\n" +
		"▸ *Rate Beli USDT*: " + buyStr + " / 1 USDT\n" +
		"▸ *Rate Jual USDT*: " + sellStr + " / 1 USDT\n\n" +
		"📎 *Biaya Transaksi*:\n" +
		"Fee akan dihitung otomatis berdasarkan nominal rupiah transaksi kamu.\n\n" +
		"📢 *Lihat testimoni dari customer kami:* [Testimoni](https://t.me/Testimooney/706)"

	reply := tgbotapi.NewMessage(msg.Chat.ID, welcome)
	reply.ReplyMarkup = mainMenuKeyboard(isAdmin(user.ID))
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

func handleHelp(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID,
		"USDT Calculator Bot - Bantuan\n\n"+
			"Bot ini membantu menghitung harga beli dan jual USDT.\n\n"+
			"Perintah yang tersedia:\n"+
			"/start - Mulai bot dan tampilkan menu utama\n"+
			"/help - Tampilkan bantuan ini\n"+
			"/admin - Buka panel admin\n"))
}

func handleMainMenu(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	switch msg.Text {
	case BtnBuy:
		setState(msg.From.ID, stateBuyCurrency)
		reply := tgbotapi.NewMessage(msg.Chat.ID, "🛍️ *Beli USDT*\n\nPilih mata uang yang ingin Anda gunakan:")
		reply.ReplyMarkup = currencyKeyboard()
		reply.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(reply)
	case BtnSell:
		setState(msg.From.ID, stateSellCurrency)
		reply := tgbotapi.NewMessage(msg.Chat.ID, "💱 *Jual USDT*\n\nPilih mata uang yang ingin Anda gunakan:")
		reply.ReplyMarkup = currencyKeyboard()
		reply.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(reply)
	case BtnCalculator:
		setState(msg.From.ID, stateCalculator)
		reply := tgbotapi.NewMessage(msg.Chat.ID, calculatorText)
		reply.ReplyMarkup = backKeyboard()
		reply.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(reply)
	case BtnAdminPanel:
		showAdminPanel(bot, msg)
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Pilihan tidak valid. Silakan pilih menu yang tersedia.")
		reply.ReplyMarkup = mainMenuKeyboard(isAdmin(msg.From.ID))
		bot.Send(reply)
	}
}

func showMainMenu(bot *tgbotapi.BotAPI, chatID, userID int64) {
	reply := tgbotapi.NewMessage(chatID,
		"🌟 *Menu Utama* 🌟\n\n"+
			"🤖 Bot ini akan membantu Anda menghitung harga beli dan jual USDT\n"+
			"💱 Dapatkan perhitungan akurat dengan rate terbaik\n\n"+
			"Silakan pilih menu di bawah ini:")
	reply.ReplyMarkup = mainMenuKeyboard(isAdmin(userID))
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

// --- Conversation state helpers ---

func setState(userID int64, state string) {
	convState.Lock()
	convState.m[userID] = state
	convState.Unlock()
}

func getState(userID int64) (string, bool) {
	convState.RLock()
	state, ok := convState.m[userID]
	convState.RUnlock()
	return state, ok
}

func clearState(userID int64) {
	convState.Lock()
	delete(convState.m, userID)
	convState.Unlock()
	convTemp.Lock()
	delete(convTemp.m, userID)
	convTemp.Unlock()
}

func setTemp(userID int64, key, value string) {
	convTemp.Lock()
	if convTemp.m[userID] == nil {
		convTemp.m[userID] = make(map[string]string)
	}
	convTemp.m[userID][key] = value
	convTemp.Unlock()
}

func getTemp(userID int64, key string) (string, bool) {
	convTemp.RLock()
	value, ok := convTemp.m[userID][key]
	convTemp.RUnlock()
	return value, ok
}

func delTemp(userID int64, key string) {
	convTemp.Lock()
	delete(convTemp.m[userID], key)
	convTemp.Unlock()
}
