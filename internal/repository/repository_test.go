package repository

import (
	"errors"
	"testing"
	"time"

	"pos-backoffice/internal/model"
	"pos-backoffice/pkg/database"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo UserRepository, first, last, username string, joined time.Time) *model.User {
	t.Helper()
	u := &model.User{
		FirstName:  first,
		LastName:   last,
		Username:   username,
		Email:      username + "@pos.test",
		Password:   "x",
		Role:       model.RoleGuest,
		IsActive:   true,
		DateJoined: joined,
	}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func seedProduct(t *testing.T, db *gorm.DB, name string, categoryID *uint) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Cost: decimal.NewFromInt(5), Price: decimal.NewFromInt(8), CategoryID: categoryID}
	if err := NewProductRepo(db).Create(p); err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func usernames(users []model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}

func TestUserListSearchMatchesFirstNameCaseInsensitively(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "Alice", "Smith", "asmith", base)
	seedUser(t, repo, "Bob", "Jones", "bjones", base.Add(time.Hour))
	seedUser(t, repo, "MALICE", "Brown", "mbrown", base.Add(2*time.Hour))

	users, err := repo.List("alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := usernames(users)
	if len(got) != 2 || got[0] != "mbrown" || got[1] != "asmith" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestUserListSearchCoversAllTextColumns(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "Ann", "Keeper", "ann", base)
	seedUser(t, repo, "Carl", "Doe", "shopkeeper", base.Add(time.Hour))
	seedUser(t, repo, "Dana", "Doe", "dana", base.Add(2*time.Hour))

	users, err := repo.List("KEEPER")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := usernames(users); len(got) != 2 {
		t.Fatalf("expected last name and username matches, got %v", got)
	}

	users, err = repo.List("dana@pos")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := usernames(users); len(got) != 1 || got[0] != "dana" {
		t.Fatalf("expected email match, got %v", got)
	}
}

func TestUserListEmptySearchOrdersByJoinDateDesc(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "Old", "User", "old", base)
	seedUser(t, repo, "New", "User", "new", base.Add(48*time.Hour))
	seedUser(t, repo, "Mid", "User", "mid", base.Add(24*time.Hour))

	users, err := repo.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := usernames(users)
	want := []string{"new", "mid", "old"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestUserListWhitespaceSearchFilters(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedUser(t, repo, "Mary Ann", "Smith", "mary", base)
	seedUser(t, repo, "Bob", "Jones", "bob", base.Add(time.Hour))

	users, err := repo.List(" ")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := usernames(users); len(got) != 1 || got[0] != "mary" {
		t.Fatalf("a space is a search term, got %v", got)
	}
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCategoryRepo(db)
	for _, name := range []string{"100% Juice", "1000 Islands", "snake_case", "snakeXcase"} {
		if err := repo.Create(&model.Category{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	got, err := repo.List("0%")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "100% Juice" {
		t.Fatalf("percent should match literally, got %+v", got)
	}

	got, err = repo.List("e_c")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "snake_case" {
		t.Fatalf("underscore should match literally, got %+v", got)
	}
}

func TestCategoryListOrdersByName(t *testing.T) {
	repo := NewCategoryRepo(setupTestDB(t))
	for _, name := range []string{"Snacks", "Beverages", "Dairy"} {
		if err := repo.Create(&model.Category{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	got, err := repo.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 || got[0].Name != "Beverages" || got[2].Name != "Snacks" {
		t.Fatalf("unexpected order %+v", got)
	}
}

func TestCategoryNameUniqueSurfacesDuplicateKey(t *testing.T) {
	repo := NewCategoryRepo(setupTestDB(t))
	if err := repo.Create(&model.Category{Name: "Drinks"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(&model.Category{Name: "Drinks"})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key, got %v", err)
	}
}

func TestCategoryDeleteKeepsProductsUncategorised(t *testing.T) {
	db := setupTestDB(t)
	categories := NewCategoryRepo(db)
	products := NewProductRepo(db)

	cat := &model.Category{Name: "Drinks"}
	if err := categories.Create(cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	p := seedProduct(t, db, "Cola", &cat.ID)

	if err := categories.Delete(cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	got, err := products.FindByID(p.ID)
	if err != nil {
		t.Fatalf("product should survive: %v", err)
	}
	if got.CategoryID != nil || got.Category != nil {
		t.Fatalf("category reference should be cleared, got %v", got.CategoryID)
	}
	if _, err := categories.FindByID(cat.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("category should be gone, got %v", err)
	}
}

func TestStockDeleteRemovesDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStockRepo(db)
	p := seedProduct(t, db, "Cola", nil)

	stock := &model.Stock{
		Code:      "STK-1",
		TotalCost: decimal.NewFromInt(50),
		Details: []model.StockDetail{
			{ProductID: p.ID, Qty: 5, Cost: decimal.NewFromInt(5), Total: decimal.NewFromInt(25)},
			{ProductID: p.ID, Qty: 5, Cost: decimal.NewFromInt(5), Total: decimal.NewFromInt(25)},
		},
	}
	if err := repo.Create(stock); err != nil {
		t.Fatalf("create stock: %v", err)
	}

	loaded, err := repo.FindByID(stock.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(loaded.Details) != 2 || loaded.Details[0].Product == nil {
		t.Fatalf("expected 2 details with products, got %+v", loaded.Details)
	}

	if err := repo.Delete(stock.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var count int64
	db.Model(&model.StockDetail{}).Where("stock_id = ?", stock.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected details removed, %d left", count)
	}
	if err := repo.Delete(stock.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestSaleDeleteRemovesDetails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSaleRepo(db)
	p := seedProduct(t, db, "Cola", nil)

	sale := &model.Sale{
		Code:       "INV-1",
		TotalPrice: decimal.NewFromInt(16),
		Details: []model.SaleDetail{
			{ProductID: p.ID, Qty: 2, Price: decimal.NewFromInt(8), Total: decimal.NewFromInt(16)},
		},
	}
	if err := repo.Create(sale); err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if err := repo.Delete(sale.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	db.Model(&model.SaleDetail{}).Where("sale_id = ?", sale.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected details removed, %d left", count)
	}
}

func TestProductDeleteRemovesStockAndSaleLines(t *testing.T) {
	db := setupTestDB(t)
	keep := seedProduct(t, db, "Bread", nil)
	gone := seedProduct(t, db, "Cola", nil)

	stock := &model.Stock{Code: "STK-1", Details: []model.StockDetail{
		{ProductID: keep.ID, Qty: 1},
		{ProductID: gone.ID, Qty: 1},
	}}
	if err := NewStockRepo(db).Create(stock); err != nil {
		t.Fatalf("create stock: %v", err)
	}
	sale := &model.Sale{Code: "INV-1", Details: []model.SaleDetail{{ProductID: gone.ID, Qty: 1}}}
	if err := NewSaleRepo(db).Create(sale); err != nil {
		t.Fatalf("create sale: %v", err)
	}

	if err := NewProductRepo(db).Delete(gone.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	var stockLines, saleLines int64
	db.Model(&model.StockDetail{}).Count(&stockLines)
	db.Model(&model.SaleDetail{}).Count(&saleLines)
	if stockLines != 1 || saleLines != 0 {
		t.Fatalf("expected only the other product's line to remain, got stock=%d sale=%d", stockLines, saleLines)
	}
	if _, err := NewStockRepo(db).FindByID(stock.ID); err != nil {
		t.Fatalf("stock header should survive: %v", err)
	}
}

func TestUserDeleteUnknownIsNotFound(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	if err := repo.Delete(999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateTokenVersion(t *testing.T) {
	repo := NewUserRepo(setupTestDB(t))
	u := seedUser(t, repo, "Ann", "Lee", "ann", time.Now())
	if err := repo.UpdateTokenVersion(u.ID, "v2"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.TokenVersion != "v2" {
		t.Fatalf("token version = %q", got.TokenVersion)
	}
}
