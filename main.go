package main

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"usdt-calculator-bot/config"
	"usdt-calculator-bot/handlers"
	"usdt-calculator-bot/models"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.InfoLevel)

	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Error loading config: %v", err)
	}

	// Connect to MySQL using GORM
	dsn := cfg.MySQL.DSN()
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Error connecting to MySQL: %v", err)
	}

	// Auto-migrate the schema
	err = db.AutoMigrate(
		&models.Rate{},
		&models.FeeRange{},
		&models.CustomFormula{},
		&models.Transaction{},
	)
	if err != nil {
		logrus.Fatalf("AutoMigrate failed: %v", err)
	}

	// Seed default rates, fee tiers and formulas on first boot
	if err := models.InitDefaultData(db); err != nil {
		logrus.Fatalf("Seeding default data failed: %v", err)
	}

	// Initialize Telegram Bot
	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logrus.Fatalf("Error creating Telegram bot: %v", err)
	}
	bot.Debug = cfg.Telegram.Debug

	logrus.Infof("Authorized on account %s", bot.Self.UserName)

	// Advisory market price for the admin panel
	go models.AutoUpdateReferencePrice(time.Duration(cfg.Bot.ReferenceUpdateMinutes) * time.Minute)

	// Start bot handler
	handlers.StartBot(bot, db, cfg.Bot.AdminIDs)
}
