package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"springworks/internal/database"
	"springworks/internal/models"
	"springworks/internal/store"
)

func setup(t *testing.T) (*sql.DB, *store.Products, *store.SalesOrders, *store.Orders) {
	t.Helper()
	db, err := database.Open(":memory:", database.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, &store.Products{DB: db}, &store.SalesOrders{DB: db}, &store.Orders{DB: db}
}

func newProduct(t *testing.T, ps *store.Products, name, typ string) models.Product {
	t.Helper()
	p, err := ps.Create(context.Background(), models.Product{
		ProductName: name,
		ProductType: typ,
		General:     models.GeneralInfo{SymagPartNo: "SYM-" + name, CustomerPartNo: "C-" + name},
		MaterialAndDimensions: models.MaterialAndDimensions{
			GradeSteel: "SS302",
			WireDia:    &models.DimensionWithTolerance{ValueMM: 1.2, ToleranceMM: 0.02},
		},
	}, "admin")
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func newOrder(t *testing.T, ss *store.SalesOrders, items ...models.SalesOrderItem) models.SalesOrder {
	t.Helper()
	so, err := ss.Create(context.Background(), models.SalesOrder{
		CustomerID:           "CUST-1",
		CustomerName:         "Acme Springs",
		CreatedDate:          "2024-03-01",
		CompletionTargetDate: "2024-03-20",
		Items:                items,
	}, "admin")
	if err != nil {
		t.Fatalf("create sales order: %v", err)
	}
	return so
}

func TestProductCreateAssignsSequentialIDs(t *testing.T) {
	_, ps, _, _ := setup(t)
	a := newProduct(t, ps, "Valve Spring", models.TypeCompression)
	b := newProduct(t, ps, "Door Spring", models.TypeExtension)
	if a.ID != "PROD-2001" || b.ID != "PROD-2002" {
		t.Fatalf("unexpected ids %s %s", a.ID, b.ID)
	}
	if a.Status != models.ProductActive {
		t.Errorf("default status = %s", a.Status)
	}

	got, err := ps.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.MaterialAndDimensions.WireDia == nil || got.MaterialAndDimensions.WireDia.ValueMM != 1.2 {
		t.Errorf("nested spec not persisted: %+v", got.MaterialAndDimensions)
	}
	if got.General.SymagPartNo != "SYM-Valve Spring" {
		t.Errorf("general not persisted: %+v", got.General)
	}
}

func TestProductArchiveOnlyChangesStatus(t *testing.T) {
	_, ps, _, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)

	archived, err := ps.Archive(ctx, p.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.Status != models.ProductArchived {
		t.Fatalf("status = %s", archived.Status)
	}
	if archived.ProductName != p.ProductName || archived.UpdatedAt != p.UpdatedAt ||
		archived.General != p.General || archived.UpdatedBy != p.UpdatedBy {
		t.Errorf("archive changed more than status: %+v", archived)
	}

	if _, err := ps.Archive(ctx, "PROD-9999"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductUpdateKeepsCreationMetadata(t *testing.T) {
	_, ps, _, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)

	edit := p
	edit.ProductName = "Valve Spring Mk2"
	edit.CreatedBy = "someone else"
	edit.Status = ""
	updated, err := ps.Update(ctx, p.ID, edit, "planner")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CreatedBy != "admin" || updated.UpdatedBy != "planner" {
		t.Errorf("metadata = %s/%s", updated.CreatedBy, updated.UpdatedBy)
	}
	if updated.Status != models.ProductActive {
		t.Errorf("empty status should keep existing, got %s", updated.Status)
	}
	if _, err := ps.Update(ctx, "PROD-1", edit, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestProductPurgeRefusesReferenced(t *testing.T) {
	_, ps, ss, _ := setup(t)
	ctx := context.Background()
	used := newProduct(t, ps, "Used", models.TypeTorsion)
	free := newProduct(t, ps, "Free", models.TypeTorsion)
	newOrder(t, ss, models.SalesOrderItem{ProductID: used.ID, Quantity: 5, UnitPrice: 2})

	if err := ps.Purge(ctx, used.ID); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := ps.Purge(ctx, free.ID); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, err := ps.Get(ctx, free.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("purged product still readable: %v", err)
	}
}

func TestProductCountByStatus(t *testing.T) {
	_, ps, _, _ := setup(t)
	ctx := context.Background()
	newProduct(t, ps, "A", models.TypeCompression)
	b := newProduct(t, ps, "B", models.TypeCompression)
	ps.Archive(ctx, b.ID)

	counts, err := ps.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[models.ProductActive] != 1 || counts[models.ProductArchived] != 1 || counts[models.ProductInactive] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestSalesOrderCreateDerivesJobCards(t *testing.T) {
	_, ps, ss, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)

	so := newOrder(t, ss,
		models.SalesOrderItem{ProductID: p.ID, Quantity: 3, UnitPrice: 0.1},
		models.SalesOrderItem{ProductID: p.ID, Quantity: 10, UnitPrice: 2.25},
	)
	if so.SalesOrderID != "SO-0001" {
		t.Fatalf("id = %s", so.SalesOrderID)
	}
	if so.Status != models.SODraft {
		t.Errorf("status = %s", so.Status)
	}
	if len(so.Items) != 2 || so.Items[1].ItemSerialNo != 2 || so.Items[1].JobCardNumber != "SO-0001/2" {
		t.Fatalf("items = %+v", so.Items)
	}
	if so.Items[0].TotalPrice != 0.3 || so.TotalAmount != 22.8 {
		t.Errorf("totals = %v / %v", so.Items[0].TotalPrice, so.TotalAmount)
	}
	if so.Items[0].ProductName != "Valve Spring" || so.Items[0].ProductType != models.TypeCompression {
		t.Errorf("product not denormalised: %+v", so.Items[0])
	}

	cards, err := ss.JobCards(ctx, so.SalesOrderID)
	if err != nil {
		t.Fatalf("job cards: %v", err)
	}
	if len(cards) != 2 || cards[0].JobCardNumber != "SO-0001/1" || cards[0].CustomerName != "Acme Springs" {
		t.Fatalf("cards = %+v", cards)
	}
	if cards[0].ProductDetails == nil || cards[0].ProductDetails.ID != p.ID {
		t.Errorf("product snapshot missing: %+v", cards[0].ProductDetails)
	}

	next, _ := ss.NextID(ctx)
	if next != "SO-0002" {
		t.Errorf("next id = %s", next)
	}
}

func TestSalesOrderRejectsArchivedProduct(t *testing.T) {
	_, ps, ss, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Old", models.TypeWireForm)
	ps.Archive(ctx, p.ID)

	_, err := ss.Create(ctx, models.SalesOrder{CustomerID: "C", CustomerName: "C",
		Items: []models.SalesOrderItem{{ProductID: p.ID, Quantity: 1}}}, "admin")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	_, err = ss.Create(ctx, models.SalesOrder{CustomerID: "C", CustomerName: "C",
		Items: []models.SalesOrderItem{{ProductID: "PROD-404", Quantity: 1}}}, "admin")
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected ErrConflict for unknown product, got %v", err)
	}
}

func TestSalesOrderCreateRollsBackOnJobCardFailure(t *testing.T) {
	db, ps, ss, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)

	// A stray job card already holds the number SO-0001/1.
	db.Exec(`INSERT INTO sales_orders (id, customer_id, customer_name, created_date, completion_target_date)
		VALUES ('SO-LEGACY', 'X', 'X', '', '')`)
	if _, err := db.Exec(`INSERT INTO job_cards (job_card_number, sales_order_id, item_serial_no, product_id, quantity,
		created_date, completion_target_date, customer_name) VALUES ('SO-0001/1', 'SO-LEGACY', 1, ?, 1, '', '', 'X')`, p.ID); err != nil {
		t.Fatalf("seed conflict: %v", err)
	}

	_, err := ss.Create(ctx, models.SalesOrder{CustomerID: "C", CustomerName: "C",
		Items: []models.SalesOrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: 1}}}, "admin")
	if err == nil {
		t.Fatal("expected job card conflict")
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM sales_orders WHERE id = 'SO-0001'").Scan(&n)
	if n != 0 {
		t.Error("sales order header survived the rollback")
	}
	db.QueryRow("SELECT COUNT(*) FROM sales_order_items WHERE sales_order_id = 'SO-0001'").Scan(&n)
	if n != 0 {
		t.Error("sales order items survived the rollback")
	}
	next, _ := ss.NextID(ctx)
	if next != "SO-0001" {
		t.Errorf("counter advanced despite rollback: %s", next)
	}
}

func TestSalesOrderAddItemNeverReusesSerials(t *testing.T) {
	_, ps, ss, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)
	so := newOrder(t, ss,
		models.SalesOrderItem{ProductID: p.ID, Quantity: 1, UnitPrice: 1},
		models.SalesOrderItem{ProductID: p.ID, Quantity: 2, UnitPrice: 1},
	)

	added, err := ss.AddItem(ctx, so.SalesOrderID, models.SalesOrderItem{ProductID: p.ID, Quantity: 4, UnitPrice: 1.5})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if added.ItemSerialNo != 3 || added.JobCardNumber != "SO-0001/3" {
		t.Fatalf("added = %+v", added)
	}

	// Drop item 3, then add again: serial 4, not 3.
	edit, _ := ss.Get(ctx, so.SalesOrderID)
	edit.Items = edit.Items[:2]
	if _, err := ss.Update(ctx, so.SalesOrderID, edit); err != nil {
		t.Fatalf("update: %v", err)
	}
	added, err = ss.AddItem(ctx, so.SalesOrderID, models.SalesOrderItem{ProductID: p.ID, Quantity: 1, UnitPrice: 1})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if added.ItemSerialNo != 4 {
		t.Errorf("serial reused: got %d", added.ItemSerialNo)
	}

	got, _ := ss.Get(ctx, so.SalesOrderID)
	if got.TotalAmount != 4 {
		t.Errorf("total = %v", got.TotalAmount)
	}
	cards, _ := ss.JobCards(ctx, so.SalesOrderID)
	if len(cards) != 3 || cards[2].JobCardNumber != "SO-0001/4" {
		t.Errorf("job cards not kept in step: %+v", cards)
	}
}

func TestSalesOrderUpdateKeepsSerials(t *testing.T) {
	_, ps, ss, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)
	so := newOrder(t, ss,
		models.SalesOrderItem{ProductID: p.ID, Quantity: 1, UnitPrice: 1},
		models.SalesOrderItem{ProductID: p.ID, Quantity: 2, UnitPrice: 1},
	)

	edit := so
	edit.CustomerName = "Acme Springs Ltd"
	edit.Items = []models.SalesOrderItem{
		{ItemSerialNo: 2, ProductID: p.ID, Quantity: 5, UnitPrice: 1},
		{ProductID: p.ID, Quantity: 7, UnitPrice: 1},
	}
	updated, err := ss.Update(ctx, so.SalesOrderID, edit)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("items = %+v", updated.Items)
	}
	if updated.Items[0].ItemSerialNo != 2 || updated.Items[0].Quantity != 5 {
		t.Errorf("kept item = %+v", updated.Items[0])
	}
	if updated.Items[1].ItemSerialNo != 3 || updated.Items[1].JobCardNumber != "SO-0001/3" {
		t.Errorf("new item = %+v", updated.Items[1])
	}
	if updated.TotalAmount != 12 || updated.CustomerName != "Acme Springs Ltd" {
		t.Errorf("header = %+v", updated)
	}
	if _, err := ss.Update(ctx, "SO-9999", edit); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSalesOrderUpdateWithArchivedProduct(t *testing.T) {
	_, ps, ss, _ := setup(t)
	ctx := context.Background()
	old := newProduct(t, ps, "Valve Spring", models.TypeCompression)
	spare := newProduct(t, ps, "Clip", models.TypeWireForm)
	so := newOrder(t, ss, models.SalesOrderItem{ProductID: old.ID, Quantity: 3, UnitPrice: 2})
	if _, err := ps.Archive(ctx, old.ID); err != nil {
		t.Fatal(err)
	}

	edit, _ := ss.Get(ctx, so.SalesOrderID)
	edit.Remarks = "Customer asked for delivery on Monday"
	updated, err := ss.Update(ctx, so.SalesOrderID, edit)
	if err != nil {
		t.Fatalf("remarks-only update refused: %v", err)
	}
	if updated.Remarks != edit.Remarks || len(updated.Items) != 1 || updated.Items[0].ProductID != old.ID {
		t.Errorf("unexpected order %+v", updated)
	}

	// The archived product may stay on its line but cannot be added again.
	edit.Items = append(edit.Items, models.SalesOrderItem{ProductID: old.ID, Quantity: 1, UnitPrice: 2})
	if _, err := ss.Update(ctx, so.SalesOrderID, edit); !errors.Is(err, store.ErrConflict) {
		t.Errorf("adding an archived product: expected ErrConflict, got %v", err)
	}
	// Nor can an existing line be switched onto an archived product.
	edit, _ = ss.Get(ctx, so.SalesOrderID)
	edit.Items[0].ProductID = spare.ID
	if _, err := ss.Update(ctx, so.SalesOrderID, edit); err != nil {
		t.Fatalf("switch to active product: %v", err)
	}
	edit.Items[0].ProductID = old.ID
	if _, err := ss.Update(ctx, so.SalesOrderID, edit); !errors.Is(err, store.ErrConflict) {
		t.Errorf("switching back to an archived product: expected ErrConflict, got %v", err)
	}
	if _, err := ss.AddItem(ctx, so.SalesOrderID, models.SalesOrderItem{ProductID: old.ID, Quantity: 1}); !errors.Is(err, store.ErrConflict) {
		t.Errorf("AddItem with archived product: expected ErrConflict, got %v", err)
	}
}

func TestSalesOrderListSearchAndSort(t *testing.T) {
	_, ps, ss, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)
	for _, name := range []string{"Bravo Motors", "alpha tools", "Charlie Pumps"} {
		ss.Create(ctx, models.SalesOrder{CustomerID: "C", CustomerName: name, CreatedDate: "2024-01-01",
			Items: []models.SalesOrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: 1}}}, "admin")
	}
	ss.SetStatus(ctx, "SO-0003", models.SOConfirmed)

	got, err := ss.List(ctx, store.SalesOrderQuery{Search: "ALPHA"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].CustomerName != "alpha tools" || len(got[0].Items) != 1 {
		t.Fatalf("search = %+v", got)
	}

	got, _ = ss.List(ctx, store.SalesOrderQuery{Sort: "customerName", Order: "asc"})
	if len(got) != 3 || got[0].CustomerName != "Bravo Motors" || got[2].CustomerName != "alpha tools" {
		t.Errorf("sorted = %v, %v, %v", got[0].CustomerName, got[1].CustomerName, got[2].CustomerName)
	}

	got, _ = ss.List(ctx, store.SalesOrderQuery{Status: models.SOConfirmed})
	if len(got) != 1 || got[0].SalesOrderID != "SO-0003" {
		t.Errorf("status filter = %+v", got)
	}

	if _, err := ss.List(ctx, store.SalesOrderQuery{Sort: "password"}); !errors.Is(err, store.ErrInvalid) {
		t.Errorf("expected ErrInvalid for unknown sort, got %v", err)
	}
}

func TestSalesOrderDeleteRemovesJobCards(t *testing.T) {
	db, ps, ss, _ := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)
	so := newOrder(t, ss, models.SalesOrderItem{ProductID: p.ID, Quantity: 1, UnitPrice: 1})

	if err := ss.Delete(ctx, so.SalesOrderID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var n int
	db.QueryRow("SELECT COUNT(*) FROM job_cards").Scan(&n)
	if n != 0 {
		t.Errorf("job cards left behind: %d", n)
	}
	if found, err := ss.FindSalesOrder(ctx, so.SalesOrderID); found != nil || err != nil {
		t.Errorf("FindSalesOrder after delete = %v, %v", found, err)
	}
	if err := ss.Delete(ctx, so.SalesOrderID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderLifecycle(t *testing.T) {
	_, ps, _, ords := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Clip", models.TypeWireForm)

	o, err := ords.Create(ctx, models.Order{SalesOrderID: "SO-0001", Quantity: 50}, p.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID != "ORD-1001" || o.JobCardID != "JC-5001" || o.Status != models.OrderPending {
		t.Fatalf("order = %+v", o)
	}
	if o.ItemDetails == nil || o.ItemDetails.ProductType != models.TypeWireForm {
		t.Errorf("details not snapshotted: %+v", o.ItemDetails)
	}

	o, err = ords.UpdateStatus(ctx, o.ID, models.OrderInProduction)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	jc, _ := ords.ProductionJobCard(ctx, "JC-5001")
	if jc.Status != models.JCInProgress || jc.StartDate == nil {
		t.Errorf("job card not started: %+v", jc)
	}

	o, _ = ords.UpdateStatus(ctx, o.ID, models.OrderCompleted)
	if o.CompletionDate == nil {
		t.Error("completion date not stamped")
	}
	jc, _ = ords.ProductionJobCard(ctx, "JC-5001")
	if jc.Status != models.JCCompleted || jc.CompletionDate == nil || jc.StartDate == nil {
		t.Errorf("job card not completed: %+v", jc)
	}

	if _, err := ords.UpdateStatus(ctx, "ORD-1", models.OrderCompleted); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateOrdersForSalesOrder(t *testing.T) {
	_, ps, ss, ords := setup(t)
	ctx := context.Background()
	p := newProduct(t, ps, "Valve Spring", models.TypeCompression)
	so := newOrder(t, ss,
		models.SalesOrderItem{ProductID: p.ID, Quantity: 3, UnitPrice: 1},
		models.SalesOrderItem{ProductID: p.ID, Quantity: 9, UnitPrice: 1},
	)

	created, err := ords.GenerateForSalesOrder(ctx, so.SalesOrderID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(created) != 2 || created[1].ID != "ORD-1002" || created[1].Quantity != 9 || created[1].ItemSerialNo != 2 {
		t.Fatalf("created = %+v", created)
	}
	if _, err := ords.GenerateForSalesOrder(ctx, so.SalesOrderID); !errors.Is(err, store.ErrConflict) {
		t.Errorf("expected ErrConflict on second run, got %v", err)
	}
	if _, err := ords.GenerateForSalesOrder(ctx, "SO-9999"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	list, _ := ords.List(ctx, store.OrderFilter{SalesOrderID: so.SalesOrderID})
	if len(list) != 2 {
		t.Errorf("list = %d", len(list))
	}
	cards, _ := ords.ProductionJobCards(ctx, models.JCPending)
	if len(cards) != 2 {
		t.Errorf("job cards = %d", len(cards))
	}
}

func TestOrderListFilters(t *testing.T) {
	db, _, _, ords := setup(t)
	ctx := context.Background()
	a, _ := ords.Create(ctx, models.Order{SalesOrderID: "SO-0001", Quantity: 1}, "")
	b, _ := ords.Create(ctx, models.Order{SalesOrderID: "SO-0002", Quantity: 1}, "")
	db.Exec("UPDATE orders SET created_date = '2024-01-15 08:00:00' WHERE id = ?", a.ID)
	db.Exec("UPDATE orders SET created_date = '2024-02-15 08:00:00' WHERE id = ?", b.ID)
	ords.UpdateStatus(ctx, b.ID, models.OrderCompleted)

	got, _ := ords.List(ctx, store.OrderFilter{CreatedFrom: "2024-02-01"})
	if len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("createdFrom = %+v", got)
	}
	got, _ = ords.List(ctx, store.OrderFilter{CreatedTo: "2024-01-15"})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("createdTo inclusive = %+v", got)
	}
	got, _ = ords.List(ctx, store.OrderFilter{Status: models.OrderCompleted})
	if len(got) != 1 || got[0].ID != b.ID {
		t.Errorf("status = %+v", got)
	}
	got, _ = ords.List(ctx, store.OrderFilter{JobCardID: a.JobCardID})
	if len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("jobCardId = %+v", got)
	}
}

func TestUpdateJobCardStatusKeepsNotes(t *testing.T) {
	_, _, _, ords := setup(t)
	ctx := context.Background()
	o, _ := ords.Create(ctx, models.Order{SalesOrderID: "SO-0001", Quantity: 1}, "")

	jc, err := ords.UpdateJobCardStatus(ctx, o.JobCardID, models.JCOnHold, "waiting for wire")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if jc.Status != models.JCOnHold || jc.Notes != "waiting for wire" {
		t.Fatalf("jc = %+v", jc)
	}
	jc, _ = ords.UpdateJobCardStatus(ctx, o.JobCardID, models.JCInProgress, "")
	if jc.Notes != "waiting for wire" || jc.StartDate == nil {
		t.Errorf("jc = %+v", jc)
	}
	if _, err := ords.UpdateJobCardStatus(ctx, "JC-1", models.JCOnHold, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	done1 := "2024-01-03 00:00:00"
	done2 := "2024-01-11 00:00:00"
	cs := &models.Product{ProductType: models.TypeCompression}
	orders := []models.Order{
		{Status: models.OrderCompleted, CreatedDate: "2024-01-01 00:00:00", CompletionDate: &done1, ItemDetails: cs},
		{Status: models.OrderCompleted, CreatedDate: "2024-01-01 00:00:00", CompletionDate: &done2, ItemDetails: cs},
		{Status: models.OrderPending, CreatedDate: "2024-02-05 00:00:00", ItemDetails: &models.Product{ProductType: models.TypeTorsion}},
		{Status: models.OrderCancelled, CreatedDate: "2024-02-06 00:00:00"},
	}
	s := store.Summarize(orders)
	if s.TotalOrders != 4 || s.CompletedOrders != 2 || s.PendingOrders != 1 || s.CancelledOrders != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.AverageCompletionTime != 6 || s.MedianCompletionTime != 6 {
		t.Errorf("times = %v / %v", s.AverageCompletionTime, s.MedianCompletionTime)
	}
	if len(s.MonthlyOrderData) != 2 || s.MonthlyOrderData[0] != (models.MonthCount{Month: "2024-01", Count: 2}) {
		t.Errorf("monthly = %+v", s.MonthlyOrderData)
	}
	if len(s.OrdersByProductType) != 2 || s.OrdersByProductType[0] != (models.TypeCount{ProductType: models.TypeCompression, Count: 2}) {
		t.Errorf("by type = %+v", s.OrdersByProductType)
	}
	if len(s.OrdersByStatus) != 4 {
		t.Errorf("by status = %+v", s.OrdersByStatus)
	}

	empty := store.Summarize(nil)
	if empty.AverageCompletionTime != 0 || empty.OrdersByStatus == nil {
		t.Errorf("empty = %+v", empty)
	}
}
