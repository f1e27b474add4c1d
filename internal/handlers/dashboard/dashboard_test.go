package dashboard_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"springworks/internal/handlers/dashboard"
	"springworks/internal/models"
	"springworks/internal/store"
	"springworks/internal/testutil"
)

func TestDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	ps := &store.Products{DB: db}
	for i, status := range []string{models.ProductActive, models.ProductActive, models.ProductInactive} {
		p := models.Product{
			ProductName: "Spring",
			ProductType: models.TypeCompression,
			Status:      status,
			General:     models.GeneralInfo{SymagPartNo: "SY-" + string(rune('A'+i))},
		}
		if _, err := ps.Create(ctx, p, "admin"); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := ps.Archive(ctx, "PROD-2003"); err != nil {
		t.Fatal(err)
	}
	if _, err := (&store.SalesOrders{DB: db}).Create(ctx, models.SalesOrder{
		CustomerID: "C1", CustomerName: "Acme", CreatedDate: "2024-05-01", CompletionTargetDate: "2024-05-20",
		Items: []models.SalesOrderItem{{ProductID: "PROD-2001", Quantity: 10, UnitPrice: 1}},
	}, "admin"); err != nil {
		t.Fatal(err)
	}
	if _, err := (&store.Orders{DB: db}).GenerateForSalesOrder(ctx, "SO-0001"); err != nil {
		t.Fatal(err)
	}

	cookie := testutil.LoginAdmin(t, db)
	w := httptest.NewRecorder()
	dashboard.New(db).Dashboard(w, testutil.AuthedRequest("GET", "/api/v1/dashboard", nil, cookie))
	testutil.AssertStatus(t, w, 200)

	var sum dashboard.Summary
	testutil.DecodeEnvelope(t, w, &sum)
	if sum.Products[models.ProductActive] != 2 || sum.Products[models.ProductArchived] != 1 || sum.Products[models.ProductInactive] != 0 {
		t.Errorf("product counts = %v", sum.Products)
	}
	if sum.SalesOrders[models.SODraft] != 1 {
		t.Errorf("sales order counts = %v", sum.SalesOrders)
	}
	if sum.Orders.TotalOrders != 1 || sum.Orders.PendingOrders != 1 {
		t.Errorf("order summary = %+v", sum.Orders)
	}
}
