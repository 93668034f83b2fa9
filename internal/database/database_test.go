package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ecobank/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestRepo(t *testing.T) *Repository {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db, DriverSQLite); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return NewRepository(db, DriverSQLite)
}

func TestMigrateIsRepeatable(t *testing.T) {
	repo := setupTestRepo(t)

	if err := Migrate(repo.DB(), DriverSQLite); err != nil {
		t.Fatal("Second migration failed:", err)
	}
}

func TestItemInsertUpdateLoad(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	scannedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	item := models.ScannedItem{
		ID:        "item-1",
		QRCode:    "https://monitoring.e-kassa.gov.az/#/index?doc=ABC",
		Name:      "Bread",
		Category:  "Food",
		Quantity:  2,
		Price:     1.5,
		Status:    models.StatusPending,
		ScannedAt: scannedAt,
		StoreName: "Bravo",
	}

	if err := repo.InsertItem(ctx, item); err != nil {
		t.Fatal("Failed to insert item:", err)
	}
	// duplicate inserts are ignored
	if err := repo.InsertItem(ctx, item); err != nil {
		t.Fatal("Duplicate insert should not fail:", err)
	}

	items, err := repo.LoadItems(ctx)
	if err != nil {
		t.Fatal("Failed to load items:", err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].CO2 != nil || items[0].ApprovedAt != nil {
		t.Error("Pending item should have no co2 or approval time")
	}
	if !items[0].ScannedAt.Equal(scannedAt) {
		t.Errorf("Expected scanned_at %v, got %v", scannedAt, items[0].ScannedAt)
	}

	co2 := 15.0
	approvedAt := scannedAt.Add(time.Hour)
	item.Status = models.StatusApproved
	item.CO2 = &co2
	item.ApprovedAt = &approvedAt
	if err := repo.UpdateItem(ctx, item); err != nil {
		t.Fatal("Failed to update item:", err)
	}

	items, err = repo.LoadItems(ctx)
	if err != nil {
		t.Fatal("Failed to load items:", err)
	}
	got := items[0]
	if got.Status != models.StatusApproved {
		t.Errorf("Expected status approved, got %s", got.Status)
	}
	if got.CO2 == nil || *got.CO2 != 15.0 {
		t.Errorf("Expected co2 15.0, got %v", got.CO2)
	}
	if got.ApprovedAt == nil || !got.ApprovedAt.Equal(approvedAt) {
		t.Errorf("Expected approved_at %v, got %v", approvedAt, got.ApprovedAt)
	}
}

func TestLoadItemsKeepsInsertionOrder(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	ids := []string{"z-late", "a-early", "m-middle"}
	offsets := []time.Duration{48 * time.Hour, 0, 24 * time.Hour}

	for i, id := range ids {
		item := models.ScannedItem{
			ID: id, Name: "Tea", Category: "Food", Quantity: 1,
			Status: models.StatusPending, ScannedAt: base.Add(offsets[i]), StoreName: "Bravo",
		}
		if err := repo.InsertItem(ctx, item); err != nil {
			t.Fatal("Failed to insert item:", err)
		}
	}

	items, err := repo.LoadItems(ctx)
	if err != nil {
		t.Fatal("Failed to load items:", err)
	}
	if len(items) != len(ids) {
		t.Fatalf("Expected %d items, got %d", len(ids), len(items))
	}
	for i, id := range ids {
		if items[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}
}

func TestInsertionOrderByDriver(t *testing.T) {
	if got := insertionOrder(DriverSQLite); got != "rowid" {
		t.Errorf("Expected rowid for sqlite, got %s", got)
	}
	if got := insertionOrder(DriverPostgres); got != "seq" {
		t.Errorf("Expected seq for postgres, got %s", got)
	}
}

func TestUpdateMissingItem(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.UpdateItem(context.Background(), models.ScannedItem{ID: "missing", Status: models.StatusApproved})
	if err == nil {
		t.Error("Expected error updating a missing item")
	}
}

func TestEarnedBadgesRoundTrip(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	earnedAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	badge := models.Badge{
		BadgeTemplate: models.BadgeTemplate{
			ID:     "b1",
			Name:   "First Steps",
			Icon:   "🌱",
			Stores: []string{"Bravo", "Araz"},
			Prizes: []string{"Reusable bag"},
		},
		EarnedAt: earnedAt,
	}

	if err := repo.InsertEarnedBadge(ctx, badge); err != nil {
		t.Fatal("Failed to insert badge:", err)
	}
	if err := repo.InsertEarnedBadge(ctx, badge); err != nil {
		t.Fatal("Duplicate badge insert should not fail:", err)
	}

	badges, err := repo.LoadEarnedBadges(ctx)
	if err != nil {
		t.Fatal("Failed to load badges:", err)
	}
	if len(badges) != 1 {
		t.Fatalf("Expected 1 badge, got %d", len(badges))
	}
	if len(badges[0].Stores) != 2 || badges[0].Stores[1] != "Araz" {
		t.Errorf("Unexpected stores %v", badges[0].Stores)
	}
	if len(badges[0].Prizes) != 1 {
		t.Errorf("Unexpected prizes %v", badges[0].Prizes)
	}
	if !badges[0].EarnedAt.Equal(earnedAt) {
		t.Errorf("Expected earned_at %v, got %v", earnedAt, badges[0].EarnedAt)
	}
}

func TestActiveBadges(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	if err := repo.UpsertActiveBadge(ctx, "b2", start); err != nil {
		t.Fatal("Failed to upsert active badge:", err)
	}
	if err := repo.UpsertActiveBadge(ctx, "b1", start.Add(time.Minute)); err != nil {
		t.Fatal("Failed to upsert active badge:", err)
	}
	if err := repo.UpsertActiveBadge(ctx, "b2", start.Add(time.Hour)); err != nil {
		t.Fatal("Failed to re-upsert active badge:", err)
	}

	ids, err := repo.LoadActiveBadgeIDs(ctx)
	if err != nil {
		t.Fatal("Failed to load active badges:", err)
	}
	if len(ids) != 2 || ids[0] != "b1" || ids[1] != "b2" {
		t.Errorf("Expected [b1 b2], got %v", ids)
	}

	if err := repo.DeleteActiveBadge(ctx, "b1"); err != nil {
		t.Fatal("Failed to delete active badge:", err)
	}
	ids, err = repo.LoadActiveBadgeIDs(ctx)
	if err != nil {
		t.Fatal("Failed to load active badges:", err)
	}
	if len(ids) != 1 || ids[0] != "b2" {
		t.Errorf("Expected [b2], got %v", ids)
	}
}

func TestMilestoneUpsert(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	m := models.Milestone{ID: "m1", Current: 1, Progress: 1, Completed: true}
	if err := repo.UpsertMilestone(ctx, m); err != nil {
		t.Fatal("Failed to upsert milestone:", err)
	}

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	m.Current = 3
	m.Progress = 3
	m.StartedAt = &start
	if err := repo.UpsertMilestone(ctx, m); err != nil {
		t.Fatal("Failed to re-upsert milestone:", err)
	}

	states, err := repo.LoadMilestoneOverrides(ctx)
	if err != nil {
		t.Fatal("Failed to load milestones:", err)
	}
	if len(states) != 1 {
		t.Fatalf("Expected 1 milestone, got %d", len(states))
	}
	s := states[0]
	if s.Current != 3 || !s.Completed {
		t.Errorf("Unexpected state %+v", s)
	}
	if s.StartedAt == nil || !s.StartedAt.Equal(start) {
		t.Errorf("Expected started_at %v, got %v", start, s.StartedAt)
	}
}

func TestRebind(t *testing.T) {
	query := "UPDATE t SET a = ?, b = ? WHERE id = ?"

	if got := rebind(DriverSQLite, query); got != query {
		t.Errorf("sqlite query should be unchanged, got %s", got)
	}

	want := "UPDATE t SET a = $1, b = $2 WHERE id = $3"
	if got := rebind(DriverPostgres, query); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestInitializeRejectsUnknownDriver(t *testing.T) {
	if _, err := Initialize("mysql", "x"); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}
