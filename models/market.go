package models

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// IndodaxTicker mirrors the public ticker response from Indodax.
type IndodaxTicker struct {
	Ticker struct {
		High string `json:"high"`
		Low  string `json:"low"`
		Last string `json:"last"`
	} `json:"ticker"`
}

// GetUSDTPriceFromIndodax fetches the last USDT/IDR trade price from the
// Indodax public ticker.
func GetUSDTPriceFromIndodax() (float64, error) {
	url := "https://indodax.com/api/ticker/usdtidr"

	client := &http.Client{
		Timeout: 15 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch price: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %v", err)
	}

	var ticker IndodaxTicker
	if err := json.Unmarshal(body, &ticker); err != nil {
		return 0, fmt.Errorf("failed to parse JSON: %v", err)
	}

	price, err := strconv.ParseFloat(ticker.Ticker.Last, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("no price data available")
	}
	return price, nil
}

// The reference price is advisory only: it is shown to admins next to the
// set-rate prompts and never written into the rate rows.
var refPrice = struct {
	sync.RWMutex
	value     float64
	fetchedAt time.Time
}{}

// ReferencePrice returns the last fetched market price, or ok=false when no
// fetch has succeeded yet.
func ReferencePrice() (value float64, fetchedAt time.Time, ok bool) {
	refPrice.RLock()
	defer refPrice.RUnlock()
	if refPrice.fetchedAt.IsZero() {
		return 0, time.Time{}, false
	}
	return refPrice.value, refPrice.fetchedAt, true
}

// AutoUpdateReferencePrice refreshes the advisory market price on a fixed
// interval. Meant to run in its own goroutine; it never returns.
func AutoUpdateReferencePrice(interval time.Duration) {
	logrus.Infof("starting USDT reference price updater (interval: %v)", interval)

	update := func() {
		price, err := GetUSDTPriceFromIndodax()
		if err != nil {
			logrus.Errorf("error fetching USDT reference price: %v", err)
			return
		}
		refPrice.Lock()
		refPrice.value = price
		refPrice.fetchedAt = time.Now()
		refPrice.Unlock()
		logrus.Infof("USDT/IDR reference price updated: %.0f", price)
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		update()
	}
}
