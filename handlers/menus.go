package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button labels double as the routing keys of the conversation state machine.
const (
	BtnBuy        = "💰 Beli USDT"
	BtnSell       = "💵 Jual USDT"
	BtnCalculator = "🧮 Kalkulator"
	BtnAdminPanel = "👑 Admin Panel"
	BtnBack       = "🔙 Kembali"
	BtnBackToMain = "🔙 Kembali ke Menu Utama"

	BtnUSDT = "💵 USDT"
	BtnIDR  = "💰 IDR"

	BtnSetBuyRate  = "📊 Set Rate Beli"
	BtnSetSellRate = "📊 Set Rate Jual"
	BtnManageFees  = "💰 Kelola Fee"
	BtnSetFormula  = "📝 Set Formula"
	BtnStats       = "📈 Statistik"

	BtnAddFee    = "➕ Tambah Fee"
	BtnEditFee   = "✏️ Edit Fee"
	BtnDeleteFee = "❌ Hapus Fee"

	BtnFormulaBuy  = "Rumus Beli"
	BtnFormulaSell = "Rumus Jual"
)

func mainMenuKeyboard(admin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBuy),
			tgbotapi.NewKeyboardButton(BtnSell),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnCalculator),
		),
	}
	if admin {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAdminPanel),
		))
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func currencyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnUSDT),
			tgbotapi.NewKeyboardButton(BtnIDR),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBack),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func backKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBack),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func adminMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnSetBuyRate),
			tgbotapi.NewKeyboardButton(BtnSetSellRate),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnManageFees),
			tgbotapi.NewKeyboardButton(BtnSetFormula),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnStats),
			tgbotapi.NewKeyboardButton(BtnBackToMain),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func feeMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnAddFee),
			tgbotapi.NewKeyboardButton(BtnEditFee),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnDeleteFee),
			tgbotapi.NewKeyboardButton(BtnBack),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func formulaTypeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnFormulaBuy),
			tgbotapi.NewKeyboardButton(BtnFormulaSell),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnBack),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func resultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📞 Contact Admin", "https://t.me/yanzost"),
		),
	)
}

const adminPanelText = "👑 *Admin Panel* 👑\n\n" +
	"🎛️ Kontrol penuh atas sistem kalkulator USDT\n" +
	"⚙️ Atur rate, fee, dan formula sesuai kebutuhan\n" +
	"📊 Pantau dan kelola transaksi dengan mudah\n\n" +
	"Silakan pilih menu:"

const feeMenuText = "💰 *Kelola Fee Transaksi*\n\n" +
	"⚖️ Atur fee untuk berbagai range transaksi\n" +
	"📊 Optimalkan keuntungan dengan fee yang tepat\n\n" +
	"Silakan pilih menu:"

const calculatorText = "*⌊ KALKULATOR ⌉*\n" +
	"╭────────────────────╮\n" +
	"┊ *+* : Penjumlahan \n" +
	"┊ *-* : Pengurangan \n" +
	"┊ *×* : Perkalian \n" +
	"┊ */* : Pembagian \n" +
	"┊ *//* : Pembagian bulat \n" +
	"┊ *%* : Modulus/sisa \n" +
	"┊ *^* : Pangkat \n" +
	"╰────────────────────╯\n\n" +
	"*Masukkan angka dan operator yang ingin dihitung*"
