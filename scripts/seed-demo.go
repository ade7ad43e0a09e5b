//go:build ignore
// +build ignore

// Seeds a demo user through the HTTP API: six months of transactions plus
// accounts, then a generated plan. Run the backend locally first
// (USE_MEMORY_STORE=true), auth is mocked there.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/bucketwise/backend/internal/model"
)

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}
	userID := os.Getenv("USER_ID")
	if userID == "" {
		userID = "local-dev-user"
	}

	log.Printf("seeding demo data for user %s at %s", userID, apiURL)

	now := time.Now().UTC().Truncate(24 * time.Hour)
	var txns []model.Transaction
	for m := 0; m < 6; m++ {
		base := now.AddDate(0, -m, 0)
		id := func(name string) string { return fmt.Sprintf("%s-%d", name, m) }
		txns = append(txns,
			model.Transaction{ID: id("pay"), AccountID: "chk", Amount: -5400, Date: base.AddDate(0, 0, -25), MerchantName: "ACME CORP PAYROLL", CategoryLabels: []string{"Payroll"}},
			model.Transaction{ID: id("rent"), AccountID: "chk", Amount: 1850, Date: base.AddDate(0, 0, -24), MerchantName: "OAKWOOD APARTMENTS", CategoryLabels: []string{"Rent"}},
			model.Transaction{ID: id("groc"), AccountID: "chk", Amount: 430, Date: base.AddDate(0, 0, -18), MerchantName: "SAFEWAY", CategoryLabels: []string{"Groceries"}},
			model.Transaction{ID: id("util"), AccountID: "chk", Amount: 140, Date: base.AddDate(0, 0, -15), MerchantName: "PG&E", CategoryLabels: []string{"Utilities"}},
			model.Transaction{ID: id("401k"), AccountID: "chk", Amount: 450, Date: base.AddDate(0, 0, -12), MerchantName: "VANGUARD 401K CONTRIBUTION"},
			model.Transaction{ID: id("dine"), AccountID: "chk", Amount: 220, Date: base.AddDate(0, 0, -8), MerchantName: "CHIPOTLE", CategoryLabels: []string{"Restaurants"}},
		)
	}
	accounts := []model.Account{
		{ID: "chk", Name: "Checking", Type: model.AccountTypeDepository, Subtype: "checking", CurrentBalance: 9200},
		{ID: "sav", Name: "Savings", Type: model.AccountTypeDepository, Subtype: "savings", CurrentBalance: 6500},
		{ID: "cc", Name: "Rewards Card", Type: model.AccountTypeCredit, Subtype: "credit card", CurrentBalance: -3100, APR: ptr(0.2299)},
	}

	post("/v1/snapshot/refresh", map[string]any{
		"transactions": txns,
		"accounts":     accounts,
	}, apiURL, userID)
	post("/v1/plan", map[string]any{"incomeStability": "stable"}, apiURL, userID)

	log.Println("done")
}

func post(path string, body any, apiURL, userID string) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatalf("marshal %s: %v", path, err)
	}
	req, err := http.NewRequest(http.MethodPost, apiURL+path, bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("build request %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Debug-Impersonate-User", userID)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("POST %s: status %s", path, resp.Status)
	}
	log.Printf("POST %s: ok", path)
}

func ptr(v float64) *float64 { return &v }
