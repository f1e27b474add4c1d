package sales_test

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"springworks/internal/models"
	"springworks/internal/testutil"
)

type lookupBody struct {
	Data struct {
		Result     string                 `json:"result"`
		SalesOrder *models.SalesOrder     `json:"salesOrder"`
		Item       *models.SalesOrderItem `json:"item"`
	} `json:"data"`
}

func TestLookupJobCard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedProducts(t, db)
	h := newTestHandler(db)
	cookie := testutil.LoginAdmin(t, db)
	createOrder(t, h, cookie, twoItemOrder)

	tests := []struct {
		q      string
		code   int
		result string
		serial int
	}{
		{"SO-0001/2", 200, "found", 2},
		{" SO-0001/1 ", 200, "found", 1},
		{"SO-0001/99", 404, "not_found", 0},
		{"SO-0404/1", 404, "not_found", 0},
		{"so-0001/1", 404, "not_found", 0},
		{"SO-0001", 400, "invalid_format", 0},
		{"SO-0001/x", 400, "invalid_format", 0},
		{"SO-0001/1/2", 400, "invalid_format", 0},
		{"/1", 400, "invalid_format", 0},
		{"", 400, "invalid_format", 0},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.LookupJobCard(w, testutil.AuthedRequest("GET", "/api/v1/job-cards/lookup?q="+url.QueryEscape(tt.q), nil, cookie))
			testutil.AssertStatus(t, w, tt.code)
			var body lookupBody
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Data.Result != tt.result {
				t.Errorf("result = %q, want %q", body.Data.Result, tt.result)
			}
			if tt.serial == 0 {
				if body.Data.Item != nil || body.Data.SalesOrder != nil {
					t.Error("only a found result carries the order and item")
				}
				return
			}
			if body.Data.Item == nil || body.Data.Item.ItemSerialNo != tt.serial || body.Data.SalesOrder.SalesOrderID != "SO-0001" {
				t.Errorf("wrong match %+v", body.Data)
			}
		})
	}
}

func TestListJobCards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedProducts(t, db)
	h := newTestHandler(db)
	cookie := testutil.LoginAdmin(t, db)
	createOrder(t, h, cookie, twoItemOrder)
	createOrder(t, h, cookie, twoItemOrder)

	w := httptest.NewRecorder()
	h.ListJobCards(w, testutil.AuthedRequest("GET", "/api/v1/job-cards?salesOrderId=SO-0002", nil, cookie))
	testutil.AssertStatus(t, w, 200)
	var cards []models.JobCard
	testutil.DecodeEnvelope(t, w, &cards)
	if len(cards) != 2 || cards[0].JobCardNumber != "SO-0002/1" || cards[0].CustomerName != "Acme Springs" {
		t.Fatalf("unexpected job cards %+v", cards)
	}
	if cards[0].ProductDetails == nil || cards[0].ProductDetails.ProductName != "Valve Spring" {
		t.Errorf("job card should carry the product snapshot: %+v", cards[0].ProductDetails)
	}
	if cards[1].CompletionTargetDate != "2024-03-20" || cards[1].Remarks != "rush" || cards[1].Quantity != 4 {
		t.Errorf("header fields not copied: %+v", cards[1])
	}

	w = httptest.NewRecorder()
	h.ListJobCards(w, testutil.AuthedRequest("GET", "/api/v1/job-cards", nil, cookie))
	testutil.DecodeEnvelope(t, w, &cards)
	if len(cards) != 4 {
		t.Errorf("expected 4 job cards, got %d", len(cards))
	}
}
