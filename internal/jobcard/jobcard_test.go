package jobcard

import (
	"context"
	"errors"
	"testing"

	"springworks/internal/models"
)

type fakeOrders map[string]*models.SalesOrder

func (f fakeOrders) FindSalesOrder(_ context.Context, id string) (*models.SalesOrder, error) {
	so, ok := f[id]
	if !ok {
		return nil, nil
	}
	return so, nil
}

type failingOrders struct{ err error }

func (f failingOrders) FindSalesOrder(context.Context, string) (*models.SalesOrder, error) {
	return nil, f.err
}

func sampleOrders() fakeOrders {
	return fakeOrders{
		"SO-0001": {
			SalesOrderID: "SO-0001",
			CustomerName: "Acme",
			Items: []models.SalesOrderItem{
				{ItemSerialNo: 1, ProductID: "PROD-2001", JobCardNumber: "SO-0001/1"},
				{ItemSerialNo: 2, ProductID: "PROD-2002", JobCardNumber: "SO-0001/2"},
			},
		},
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		id     string
		serial int
		ok     bool
	}{
		{"SO-0001/2", "SO-0001", 2, true},
		{"SO-0001/0", "SO-0001", 0, true},
		{"so-0001/12", "so-0001", 12, true},
		{"SO-0001", "", 0, false},
		{"SO-0001/", "", 0, false},
		{"/2", "", 0, false},
		{"SO-0001/2/3", "", 0, false},
		{"SO-0001/abc", "", 0, false},
		{"SO-0001/-2", "", 0, false},
		{"SO-0001/+2", "", 0, false},
		{"SO-0001/2 ", "", 0, false},
		{"SO-0001/1.5", "", 0, false},
		{"", "", 0, false},
		{"/", "", 0, false},
		{"SO-0001/99999999999999999999999", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, serial, ok := Parse(tt.in)
			if ok != tt.ok || id != tt.id || serial != tt.serial {
				t.Errorf("Parse(%q) = (%q, %d, %v), want (%q, %d, %v)",
					tt.in, id, serial, ok, tt.id, tt.serial, tt.ok)
			}
		})
	}
}

func TestLocateMalformedIsInvalidFormat(t *testing.T) {
	l := Locator{Orders: sampleOrders()}
	for _, s := range []string{"", "SO-0001", "SO-0001/x", "a/b/c", "/1", "SO-0001/ 2", "SO-0001/２"} {
		res, err := l.Locate(context.Background(), s)
		if err != nil {
			t.Errorf("Locate(%q) returned error %v", s, err)
		}
		if res.Kind != InvalidFormat {
			t.Errorf("Locate(%q) kind = %v, want invalid_format", s, res.Kind)
		}
		if res.SalesOrder != nil || res.Item != nil {
			t.Errorf("Locate(%q) should not carry a match", s)
		}
	}
}

func TestLocateReturnsExactItem(t *testing.T) {
	l := Locator{Orders: sampleOrders()}
	res, err := l.Locate(context.Background(), "SO-0001/2")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if res.Kind != Found {
		t.Fatalf("expected found, got %v", res.Kind)
	}
	if res.Item.ItemSerialNo != 2 || res.Item.ProductID != "PROD-2002" {
		t.Errorf("expected second item, got %+v", res.Item)
	}
	if res.SalesOrder.SalesOrderID != "SO-0001" {
		t.Errorf("unexpected order %s", res.SalesOrder.SalesOrderID)
	}
}

func TestLocateUnknownSerialIsNotFound(t *testing.T) {
	l := Locator{Orders: sampleOrders()}
	res, err := l.Locate(context.Background(), "SO-0001/99")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if res.Kind != NotFound {
		t.Errorf("expected not_found, got %v", res.Kind)
	}
}

func TestLocateUnknownOrderIsNotFound(t *testing.T) {
	l := Locator{Orders: sampleOrders()}
	res, err := l.Locate(context.Background(), "SO-9999/1")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if res.Kind != NotFound {
		t.Errorf("expected not_found, got %v", res.Kind)
	}
}

func TestLocateIsCaseSensitive(t *testing.T) {
	l := Locator{Orders: sampleOrders()}
	res, _ := l.Locate(context.Background(), "so-0001/1")
	if res.Kind != NotFound {
		t.Errorf("expected not_found for lower-case key, got %v", res.Kind)
	}
}

func TestLocateSurfacesDataErrors(t *testing.T) {
	boom := errors.New("database is locked")
	l := Locator{Orders: failingOrders{err: boom}}
	_, err := l.Locate(context.Background(), "SO-0001/1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected data error, got %v", err)
	}

	// Malformed input never reaches the store.
	res, err := l.Locate(context.Background(), "garbage")
	if err != nil || res.Kind != InvalidFormat {
		t.Errorf("expected invalid_format without error, got %v %v", res.Kind, err)
	}
}

func TestKindString(t *testing.T) {
	if Found.String() != "found" || NotFound.String() != "not_found" || InvalidFormat.String() != "invalid_format" {
		t.Error("unexpected kind names")
	}
}

func TestAppendItemIncrementsSerial(t *testing.T) {
	so := &models.SalesOrder{SalesOrderID: "SO-0007"}
	for want := 1; want <= 3; want++ {
		before := NextSerial(so.Items)
		it := AppendItem(so, 0, models.SalesOrderItem{ProductID: "PROD-2001", Quantity: 1})
		if it.ItemSerialNo != before || before != want {
			t.Fatalf("expected serial %d, got %d (next was %d)", want, it.ItemSerialNo, before)
		}
		if NextSerial(so.Items) != before+1 {
			t.Errorf("next serial should advance by exactly 1")
		}
		if it.JobCardNumber != Number("SO-0007", want) {
			t.Errorf("expected job card %s, got %s", Number("SO-0007", want), it.JobCardNumber)
		}
	}
	if so.Items[2].JobCardNumber != "SO-0007/3" {
		t.Errorf("unexpected job card %s", so.Items[2].JobCardNumber)
	}
}

func TestAppendItemNeverReusesRemovedSerial(t *testing.T) {
	so := &models.SalesOrder{SalesOrderID: "SO-0002", Items: []models.SalesOrderItem{{ItemSerialNo: 1}}}
	// Item 2 existed once and was removed; the order remembers 3 as next.
	it := AppendItem(so, 3, models.SalesOrderItem{})
	if it.ItemSerialNo != 3 || it.JobCardNumber != "SO-0002/3" {
		t.Errorf("expected serial 3, got %+v", it)
	}
}

func TestFromItem(t *testing.T) {
	so := &models.SalesOrder{SalesOrderID: "SO-0003", CustomerName: "Globex",
		CreatedDate: "2024-01-02", CompletionTargetDate: "2024-02-01", Remarks: "rush"}
	p := &models.Product{ID: "PROD-2001", ProductName: "Valve spring"}
	jc := FromItem(so, models.SalesOrderItem{ItemSerialNo: 4, ProductID: "PROD-2001", Quantity: 50}, p)
	if jc.JobCardNumber != "SO-0003/4" || jc.Quantity != 50 || jc.CustomerName != "Globex" {
		t.Errorf("unexpected job card %+v", jc)
	}
	if jc.ProductDetails != p {
		t.Error("expected product snapshot")
	}
}
