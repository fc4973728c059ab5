package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"usdt-calculator-bot/models"
)

func isAdmin(userID int64) bool {
	for _, id := range adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func showAdminPanel(bot *tgbotapi.BotAPI, msg *tgbotapi.Message) {
	if !isAdmin(msg.From.ID) {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "⛔ Anda tidak memiliki akses ke menu ini.")
		reply.ReplyMarkup = mainMenuKeyboard(false)
		bot.Send(reply)
		return
	}
	setState(msg.From.ID, stateAdminMenu)
	reply := tgbotapi.NewMessage(msg.Chat.ID, adminPanelText)
	reply.ReplyMarkup = adminMenuKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

func handleAdminMenu(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	if !isAdmin(msg.From.ID) {
		clearState(msg.From.ID)
		reply := tgbotapi.NewMessage(msg.Chat.ID, "⛔ Anda tidak memiliki akses ke menu ini.")
		reply.ReplyMarkup = mainMenuKeyboard(false)
		bot.Send(reply)
		return
	}

	switch msg.Text {
	case BtnSetBuyRate:
		promptSetRate(bot, db, msg, models.RateTypeBuy)
	case BtnSetSellRate:
		promptSetRate(bot, db, msg, models.RateTypeSell)
	case BtnManageFees:
		setState(msg.From.ID, stateManageFees)
		reply := tgbotapi.NewMessage(msg.Chat.ID, feeMenuText)
		reply.ReplyMarkup = feeMenuKeyboard()
		reply.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(reply)
	case BtnSetFormula:
		promptFormulaType(bot, db, msg)
	case BtnStats:
		showStatistics(bot, db, msg)
	case BtnBackToMain:
		clearState(msg.From.ID)
		showMainMenu(bot, msg.Chat.ID, msg.From.ID)
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Pilihan tidak valid. Silakan pilih menu yang tersedia.")
		reply.ReplyMarkup = adminMenuKeyboard()
		bot.Send(reply)
	}
}

func showAdminMenu(bot *tgbotapi.BotAPI, userID, chatID int64) {
	setState(userID, stateAdminMenu)
	reply := tgbotapi.NewMessage(chatID, adminPanelText)
	reply.ReplyMarkup = adminMenuKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

// --- Rates ---

func promptSetRate(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message, rateType string) {
	label, title, nextState := "beli", "Beli", stateSetBuyRate
	if rateType == models.RateTypeSell {
		label, title, nextState = "jual", "Jual", stateSetSellRate
	}

	current, updated := "Tidak tersedia", "Tidak tersedia"
	if rate, err := models.GetRate(db, rateType); err == nil {
		current = FormatCurrency(rate.Value)
		updated = FormatTimestamp(rate.UpdatedAt)
	}

	text := fmt.Sprintf("📈 *Set Rate %s USDT*\n\n"+
		"Rate %s saat ini: %s\n"+
		"Terakhir diupdate: %s\n",
		title, label, current, updated)
	if ref, at, ok := models.ReferencePrice(); ok {
		text += fmt.Sprintf("Harga pasar (Indodax): %s (%s)\n", FormatCurrency(ref), FormatTimestamp(at))
	}
	text += fmt.Sprintf("\nMasukkan rate %s USDT baru (dalam IDR):", label)

	setState(msg.From.ID, nextState)
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = backKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

func handleSetRate(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message, rateType string) {
	if !isAdmin(msg.From.ID) {
		clearState(msg.From.ID)
		showMainMenu(bot, msg.Chat.ID, msg.From.ID)
		return
	}
	if msg.Text == BtnBack {
		showAdminMenu(bot, msg.From.ID, msg.Chat.ID)
		return
	}

	label := "beli"
	if rateType == models.RateTypeSell {
		label = "jual"
	}

	newRate, err := ParseNumber(msg.Text)
	if err != nil {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Input tidak valid. Silakan masukkan angka:")
		reply.ReplyMarkup = backKeyboard()
		bot.Send(reply)
		return
	}
	if newRate <= 0 {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Rate harus lebih besar dari 0. Silakan coba lagi:")
		reply.ReplyMarkup = backKeyboard()
		bot.Send(reply)
		return
	}

	if err := models.UpdateRate(db, rateType, newRate); err != nil {
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			fmt.Sprintf("❌ Gagal mengupdate rate %s. Silakan coba lagi:", label))
		reply.ReplyMarkup = backKeyboard()
		bot.Send(reply)
		return
	}
	// The cache does not invalidate itself on write.
	models.ClearRateCache()

	updated := "Tidak tersedia"
	if rate, err := models.GetRate(db, rateType); err == nil {
		updated = FormatTimestamp(rate.UpdatedAt)
	}

	setState(msg.From.ID, stateAdminMenu)
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"✅ Rate %s berhasil diupdate!\n\nRate %s baru: %s\nTerakhir diupdate: %s",
		label, label, FormatCurrency(newRate), updated))
	reply.ReplyMarkup = adminMenuKeyboard()
	bot.Send(reply)
}

// --- Fee management ---

func feeRangeLine(i int, f *models.FeeRange) string {
	maxStr := "unlimited"
	if f.MaxAmount != nil {
		maxStr = FormatCurrency(*f.MaxAmount)
	}
	return fmt.Sprintf("%d. Range: %s - %s, Fee: %s",
		i+1, FormatCurrency(f.MinAmount), maxStr, FormatCurrency(f.FeeAmount))
}

func feeRangeList(db *gorm.DB) (string, []models.FeeRange, error) {
	ranges, err := models.GetAllFeeRanges(db)
	if err != nil {
		return "", nil, err
	}
	lines := make([]string, len(ranges))
	for i := range ranges {
		lines[i] = feeRangeLine(i, &ranges[i])
	}
	return strings.Join(lines, "\n"), ranges, nil
}

func handleFeeMenu(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	if !isAdmin(msg.From.ID) {
		clearState(msg.From.ID)
		showMainMenu(bot, msg.Chat.ID, msg.From.ID)
		return
	}

	switch msg.Text {
	case BtnAddFee:
		setState(msg.From.ID, stateAddFeeMin)
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			"➕ *Tambah Fee Baru*\n\nMasukkan nilai minimum untuk range fee:")
		reply.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(reply)
	case BtnEditFee:
		promptFeeSelection(bot, db, msg, "✏️ *Edit Fee*", "Pilih nomor fee yang ingin diedit:", stateEditFee)
	case BtnDeleteFee:
		promptFeeSelection(bot, db, msg, "❌ *Hapus Fee*", "Pilih nomor fee yang ingin dihapus:", stateDeleteFee)
	case BtnBack:
		showAdminMenu(bot, msg.From.ID, msg.Chat.ID)
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Pilihan tidak valid. Silakan pilih menu yang tersedia.")
		reply.ReplyMarkup = feeMenuKeyboard()
		bot.Send(reply)
	}
}

func promptFeeSelection(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message, header, prompt, nextState string) {
	list, ranges, err := feeRangeList(db)
	if err != nil || len(ranges) == 0 {
		showAdminMenu(bot, msg.From.ID, msg.Chat.ID)
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "ℹ️ Belum ada fee yang tersedia."))
		return
	}
	setState(msg.From.ID, nextState)
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("%s\n\n%s\n\n%s", header, prompt, list))
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

func handleAddFeeMin(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	min, err := ParseNumber(msg.Text)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Input tidak valid. Silakan masukkan angka:"))
		return
	}
	if min < 0 {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID,
			"Nilai minimum harus lebih besar atau sama dengan 0. Silakan coba lagi:"))
		return
	}
	setTemp(msg.From.ID, "fee_min", strconv.FormatFloat(min, 'f', -1, 64))
	setState(msg.From.ID, stateAddFeeMax)
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID,
		"Silakan masukkan nilai maksimum untuk rentang fee (ketik '-' untuk unlimited):"))
}

func handleAddFeeMax(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "-" {
		setTemp(msg.From.ID, "fee_max", "")
	} else {
		max, err := ParseNumber(text)
		if err != nil {
			bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Input tidak valid. Silakan masukkan angka:"))
			return
		}
		minStr, _ := getTemp(msg.From.ID, "fee_min")
		min, _ := strconv.ParseFloat(minStr, 64)
		if max <= min {
			bot.Send(tgbotapi.NewMessage(msg.Chat.ID,
				"Nilai maksimum harus lebih besar dari nilai minimum. Silakan coba lagi:"))
			return
		}
		setTemp(msg.From.ID, "fee_max", strconv.FormatFloat(max, 'f', -1, 64))
	}
	setState(msg.From.ID, stateAddFeeAmount)
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Silakan masukkan jumlah fee untuk rentang ini:"))
}

func handleAddFeeAmount(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	fee, err := ParseNumber(msg.Text)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID, "Input tidak valid. Silakan masukkan angka:"))
		return
	}
	if fee < 0 {
		bot.Send(tgbotapi.NewMessage(msg.Chat.ID,
			"Jumlah fee harus lebih besar atau sama dengan 0. Silakan coba lagi:"))
		return
	}

	minStr, _ := getTemp(msg.From.ID, "fee_min")
	maxStr, _ := getTemp(msg.From.ID, "fee_max")
	min, _ := strconv.ParseFloat(minStr, 64)
	var max *float64
	if maxStr != "" {
		v, _ := strconv.ParseFloat(maxStr, 64)
		max = &v
	}

	// The edit flow re-enters here with the target id stashed.
	if idStr, editing := getTemp(msg.From.ID, "editing_fee_id"); editing {
		id, _ := strconv.ParseUint(idStr, 10, 32)
		err = models.UpdateFeeRange(db, uint(id), min, max, fee)
	} else {
		err = models.AddFeeRange(db, min, max, fee)
	}

	var text string
	maxDisplay := "unlimited"
	if max != nil {
		maxDisplay = FormatCurrency(*max)
	}
	switch {
	case err == nil:
		text = fmt.Sprintf("Fee berhasil disimpan untuk rentang %s - %s dengan jumlah %s.",
			FormatCurrency(min), maxDisplay, FormatCurrency(fee))
	case errors.Is(err, models.ErrInvalidFeeRange):
		text = "Gagal menyimpan fee. Rentang mungkin tumpang tindih dengan rentang yang sudah ada."
	case errors.Is(err, models.ErrFeeRangeNotFound):
		text = "Fee range tidak ditemukan."
	default:
		text = "Gagal menyimpan fee. Silakan coba lagi."
	}

	delTemp(msg.From.ID, "fee_min")
	delTemp(msg.From.ID, "fee_max")
	delTemp(msg.From.ID, "editing_fee_id")
	setState(msg.From.ID, stateManageFees)

	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = feeMenuKeyboard()
	bot.Send(reply)
}

func handleEditFee(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	ranges, index, ok := selectFeeByIndex(bot, db, msg)
	if !ok {
		return
	}
	target := ranges[index]
	setTemp(msg.From.ID, "editing_fee_id", strconv.FormatUint(uint64(target.ID), 10))
	setState(msg.From.ID, stateAddFeeMin)

	maxStr := "unlimited"
	if target.MaxAmount != nil {
		maxStr = FormatCurrency(*target.MaxAmount)
	}
	bot.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"Edit Fee untuk range %s - %s\n\nMasukkan nilai minimum baru:",
		FormatCurrency(target.MinAmount), maxStr)))
}

func handleDeleteFee(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	ranges, index, ok := selectFeeByIndex(bot, db, msg)
	if !ok {
		return
	}
	target := ranges[index]

	maxStr := "unlimited"
	if target.MaxAmount != nil {
		maxStr = FormatCurrency(*target.MaxAmount)
	}

	var text string
	if err := models.DeleteFeeRange(db, target.ID); err != nil {
		text = "Gagal menghapus fee. Silakan coba lagi."
	} else {
		text = fmt.Sprintf("Fee untuk range %s - %s berhasil dihapus.",
			FormatCurrency(target.MinAmount), maxStr)
	}

	setState(msg.From.ID, stateManageFees)
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = feeMenuKeyboard()
	bot.Send(reply)
}

// selectFeeByIndex resolves a 1-based list position against the current
// min-ascending ordering.
func selectFeeByIndex(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) ([]models.FeeRange, int, bool) {
	index, err := strconv.Atoi(strings.TrimSpace(msg.Text))
	if err != nil {
		setState(msg.From.ID, stateManageFees)
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Input tidak valid. Silakan masukkan nomor fee:")
		reply.ReplyMarkup = feeMenuKeyboard()
		bot.Send(reply)
		return nil, 0, false
	}
	ranges, rangesErr := models.GetAllFeeRanges(db)
	if rangesErr != nil || index < 1 || index > len(ranges) {
		setState(msg.From.ID, stateManageFees)
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Nomor fee tidak valid. Silakan pilih nomor yang tersedia:")
		reply.ReplyMarkup = feeMenuKeyboard()
		bot.Send(reply)
		return nil, 0, false
	}
	return ranges, index - 1, true
}

// --- Formulas ---

func promptFormulaType(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	buyFormula, sellFormula := models.DefaultBuyFormula, models.DefaultSellFormula
	if f, err := models.GetActiveFormula(db, models.RateTypeBuy); err == nil && f != nil {
		buyFormula = f.Formula
	}
	if f, err := models.GetActiveFormula(db, models.RateTypeSell); err == nil && f != nil {
		sellFormula = f.Formula
	}

	setState(msg.From.ID, stateFormulaType)
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"📝 *Set Rumus Kustom*\n\n"+
			"Rumus Beli saat ini: `%s`\n"+
			"Rumus Jual saat ini: `%s`\n\n"+
			"Silakan pilih rumus yang ingin diubah:", buyFormula, sellFormula))
	reply.ReplyMarkup = formulaTypeKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

func handleFormulaType(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	var formulaType string
	switch msg.Text {
	case BtnFormulaBuy:
		formulaType = models.RateTypeBuy
	case BtnFormulaSell:
		formulaType = models.RateTypeSell
	case BtnBack:
		showAdminMenu(bot, msg.From.ID, msg.Chat.ID)
		return
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID, "❌ Pilihan tidak valid. Silakan pilih rumus yang tersedia.")
		reply.ReplyMarkup = formulaTypeKeyboard()
		bot.Send(reply)
		return
	}

	current := models.DefaultFormula(formulaType)
	if f, err := models.GetActiveFormula(db, formulaType); err == nil && f != nil {
		current = f.Formula
	}

	setTemp(msg.From.ID, "formula_type", formulaType)
	setState(msg.From.ID, stateFormulaInput)
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"Rumus saat ini: `%s`\n\n"+
			"Silakan masukkan rumus baru. Gunakan variabel {usdt_amount}, {rate}, dan {fee}.\n"+
			"Contoh: {usdt_amount} * {rate} + {fee}", current))
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}

func handleFormulaInput(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	formulaType, ok := getTemp(msg.From.ID, "formula_type")
	if !ok {
		showAdminMenu(bot, msg.From.ID, msg.Chat.ID)
		return
	}

	var text string
	if err := models.UpdateCustomFormula(db, formulaType, msg.Text); err != nil {
		text = "Gagal mengubah rumus. Pastikan rumus valid dan mengandung variabel {usdt_amount}, {rate}, dan {fee}."
	} else {
		text = fmt.Sprintf("Rumus %s berhasil diubah menjadi: %s", formulaType, msg.Text)
	}

	delTemp(msg.From.ID, "formula_type")
	setState(msg.From.ID, stateAdminMenu)
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = adminMenuKeyboard()
	bot.Send(reply)
}

// --- Statistics ---

func showStatistics(bot *tgbotapi.BotAPI, db *gorm.DB, msg *tgbotapi.Message) {
	stats, err := models.GetProfitStatistics(db)
	if err != nil {
		reply := tgbotapi.NewMessage(msg.Chat.ID, "Gagal mengambil statistik keuntungan.")
		reply.ReplyMarkup = adminMenuKeyboard()
		bot.Send(reply)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"📈 *Statistik Keuntungan*\n\n"+
			"Total Keuntungan: %s\n"+
			"Total Transaksi: %d\n"+
			"Total Transaksi Beli: %d\n"+
			"Total Transaksi Jual: %d\n"+
			"Total USDT Dibeli: %.2f\n"+
			"Total USDT Dijual: %.2f",
		FormatCurrency(stats.TotalProfit),
		stats.TotalTransactions,
		stats.TotalBuy,
		stats.TotalSell,
		stats.TotalUSDTBought,
		stats.TotalUSDTSold))
	reply.ReplyMarkup = adminMenuKeyboard()
	reply.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(reply)
}
