package service

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"pos-backoffice/internal/form"
	"pos-backoffice/internal/model"
	"pos-backoffice/internal/repository"
	"pos-backoffice/internal/ws"
	"pos-backoffice/pkg/database"
	"pos-backoffice/pkg/jwt"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared&_foreign_keys=on"
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

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type fixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	auth       AuthService
	userSvc    UserService
	categories CategoryService
	inventory  InventoryService
	events     *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	rec := &recorder{}
	users := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	return &fixture{
		db:         db,
		users:      users,
		auth:       NewAuthService(users, jwt.NewManager("test-secret", time.Hour)),
		userSvc:    NewUserService(users, nil, rec),
		categories: NewCategoryService(categoryRepo, rec),
		inventory: NewInventoryService(
			repository.NewProductRepo(db),
			categoryRepo,
			repository.NewStockRepo(db),
			repository.NewSaleRepo(db),
			nil,
			rec,
		),
		events: rec,
	}
}

func userValues(username string) form.Values {
	return form.Values{
		"f_name":           "Jane",
		"l_name":           "Doe",
		"u_name":           username,
		"email":            username + "@pos.test",
		"role":             "CASHIER",
		"password":         "secret123",
		"confirm_password": "secret123",
	}
}

func (f *fixture) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := f.userSvc.CreateUser(form.BindUser(userValues(username)), nil, nil)
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func fieldErrors(t *testing.T, err error) *form.Errors {
	t.Helper()
	var errs *form.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected *form.Errors, got %v", err)
	}
	return errs
}

// ---- Auth ----

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "jane")

	if u, err := f.auth.Authenticate("jane", "secret123"); err != nil || u.Username != "jane" {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	_, errWrong := f.auth.Authenticate("jane", "nope")
	_, errUnknown := f.auth.Authenticate("ghost", "secret123")
	if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("expected identical generic errors, got %v / %v", errWrong, errUnknown)
	}
	if errWrong.Error() != errUnknown.Error() {
		t.Fatalf("wrong password and unknown user must look the same")
	}
}

func TestLoginResolveAndLogout(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "jane")

	token, err := f.auth.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	resolved, err := f.auth.ResolveSession(token)
	if err != nil || resolved.ID != user.ID {
		t.Fatalf("resolve: %v", err)
	}

	if err := f.auth.Logout(user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.auth.ResolveSession(token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("token should be invalid after logout, got %v", err)
	}
}

func TestNewLoginInvalidatesPreviousToken(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "jane")

	first, err := f.auth.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	second, err := f.auth.Login(user)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.auth.ResolveSession(first); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("first token should be replaced, got %v", err)
	}
	if _, err := f.auth.ResolveSession(second); err != nil {
		t.Fatalf("second token: %v", err)
	}
}

func TestResolveSessionRejectsDeletedAndInactiveUsers(t *testing.T) {
	f := newFixture(t)
	gone := f.createUser(t, "gone")
	inactive := f.createUser(t, "idle")

	goneToken, _ := f.auth.Login(gone)
	idleToken, _ := f.auth.Login(inactive)

	if err := f.users.Delete(gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.auth.ResolveSession(goneToken); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected user not found, got %v", err)
	}

	f.db.Model(&model.User{}).Where("id = ?", inactive.ID).Update("is_active", false)
	if _, err := f.auth.ResolveSession(idleToken); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected inactive, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	f := newFixture(t)
	if _, err := f.auth.GetUser(404); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---- Users ----

func TestCreateUserRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "jane")

	_, err := f.userSvc.CreateUser(form.BindUser(userValues("jane")), nil, nil)
	errs := fieldErrors(t, err)
	if errs.Fields["u_name"] != MsgUsernameTaken || errs.Fields["email"] != MsgEmailTaken {
		t.Fatalf("unexpected errors %+v", errs.Fields)
	}

	v := userValues("jane2")
	v["email"] = "jane@pos.test"
	_, err = f.userSvc.CreateUser(form.BindUser(v), nil, nil)
	if errs := fieldErrors(t, err); errs.Fields["email"] != MsgEmailTaken {
		t.Fatalf("expected email duplicate, got %+v", errs.Fields)
	}
}

func TestCreateUserDefaults(t *testing.T) {
	f := newFixture(t)
	v := userValues("jane")
	delete(v, "role")
	u, err := f.userSvc.CreateUser(form.BindUser(v), nil, &model.User{Username: "boss"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != model.RoleGuest || !u.IsActive || u.CreatedBy != "boss" {
		t.Fatalf("unexpected defaults %+v", u)
	}
	if u.Password == "secret123" || !u.CheckPassword("secret123") {
		t.Fatalf("password must be stored hashed")
	}
	if got := f.events.actions(); len(got) != 1 || got[0] != "user_created" {
		t.Fatalf("expected user_created event, got %v", got)
	}
}

func TestCreateInactiveUserStaysInactive(t *testing.T) {
	f := newFixture(t)
	v := userValues("idle")
	v["is_active"] = "false"
	u, err := f.userSvc.CreateUser(form.BindUser(v), nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, err := f.users.FindByID(u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("user should be stored inactive")
	}
}

func TestUpdateUserBlankPasswordKeepsHash(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "jane")
	oldHash := u.Password

	v := userValues("jane")
	v["f_name"] = "Janet"
	v["password"] = ""
	v["confirm_password"] = ""
	if _, err := f.userSvc.UpdateUser(u.ID, form.BindUser(v), nil, nil); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := f.users.FindByID(u.ID)
	if stored.Password != oldHash || stored.FirstName != "Janet" {
		t.Fatalf("hash should be unchanged and name updated: %+v", stored)
	}
	if _, err := f.auth.Authenticate("jane", "secret123"); err != nil {
		t.Fatalf("old password should still work: %v", err)
	}
}

func TestUpdateUserPasswordMismatchLeavesRecord(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "jane")

	v := userValues("jane")
	v["f_name"] = "Changed"
	v["password"] = "newpass1"
	v["confirm_password"] = "newpass2"
	_, err := f.userSvc.UpdateUser(u.ID, form.BindUser(v), nil, nil)
	errs := fieldErrors(t, err)
	if len(errs.NonField) != 1 || errs.NonField[0] != form.MsgPasswordMismatch {
		t.Fatalf("expected mismatch, got %+v", errs)
	}

	stored, _ := f.users.FindByID(u.ID)
	if stored.FirstName != "Jane" || stored.Password != u.Password {
		t.Fatalf("record must be untouched: %+v", stored)
	}
}

func TestUpdateUserKeepsOwnUsername(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "jane")
	f.createUser(t, "bob")

	v := userValues("jane")
	v["password"], v["confirm_password"] = "", ""
	if _, err := f.userSvc.UpdateUser(u.ID, form.BindUser(v), nil, nil); err != nil {
		t.Fatalf("re-saving own username must pass: %v", err)
	}

	v = userValues("bob")
	v["password"], v["confirm_password"] = "", ""
	_, err := f.userSvc.UpdateUser(u.ID, form.BindUser(v), nil, nil)
	if errs := fieldErrors(t, err); errs.Fields["u_name"] != MsgUsernameTaken {
		t.Fatalf("expected username taken, got %+v", errs.Fields)
	}
}

func TestDeleteUserSelfGuard(t *testing.T) {
	f := newFixture(t)
	admin, _, err := f.userSvc.EnsureAdmin("admin", "admin@pos.com", "admin123")
	if err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	other := f.createUser(t, "jane")

	if _, err := f.userSvc.DeleteUser(admin.ID, admin); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected self delete guard, got %v", err)
	}
	if _, err := f.users.FindByID(admin.ID); err != nil {
		t.Fatalf("admin must still exist: %v", err)
	}

	if _, err := f.userSvc.DeleteUser(other.ID, admin); err != nil {
		t.Fatalf("delete other: %v", err)
	}
	if _, err := f.userSvc.GetUser(other.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("other user should be gone, got %v", err)
	}
}

func TestDeleteUserAllowsOtherAdmins(t *testing.T) {
	f := newFixture(t)
	admin, _, _ := f.userSvc.EnsureAdmin("admin", "admin@pos.com", "admin123")
	v := userValues("second")
	v["role"] = "ADMIN"
	second, err := f.userSvc.CreateUser(form.BindUser(v), nil, admin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.userSvc.DeleteUser(second.ID, admin); err != nil {
		t.Fatalf("deleting another admin must succeed: %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	admin, created, err := f.userSvc.EnsureAdmin("admin", "admin@pos.com", "admin123")
	if err != nil || !created {
		t.Fatalf("first call should create: %v", err)
	}
	if !admin.IsAdmin() || !admin.IsStaff || !admin.IsActive {
		t.Fatalf("unexpected admin %+v", admin)
	}
	again, created, err := f.userSvc.EnsureAdmin("admin", "other@pos.com", "changed")
	if err != nil || created || again.ID != admin.ID {
		t.Fatalf("second call must keep the existing admin: %v", err)
	}
	if _, err := f.auth.Authenticate("admin", "admin123"); err != nil {
		t.Fatalf("original password must survive: %v", err)
	}
}

// ---- Categories ----

func TestCategoryDuplicateName(t *testing.T) {
	f := newFixture(t)
	if _, err := f.categories.CreateCategory(&form.CategoryForm{Name: "Drinks"}, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := f.categories.CreateCategory(&form.CategoryForm{Name: "Drinks"}, nil)
	if errs := fieldErrors(t, err); errs.Fields["name"] != MsgCategoryTaken {
		t.Fatalf("expected duplicate name, got %+v", errs.Fields)
	}
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	cat, _ := f.categories.CreateCategory(&form.CategoryForm{Name: "Drinks"}, nil)
	other, _ := f.categories.CreateCategory(&form.CategoryForm{Name: "Food"}, nil)

	if _, err := f.categories.UpdateCategory(cat.ID, &form.CategoryForm{Name: "Drinks"}, nil); err != nil {
		t.Fatalf("same name update must pass: %v", err)
	}
	_, err := f.categories.UpdateCategory(cat.ID, &form.CategoryForm{Name: "Food"}, nil)
	if errs := fieldErrors(t, err); errs.Fields["name"] != MsgCategoryTaken {
		t.Fatalf("expected duplicate, got %+v", errs.Fields)
	}

	if _, err := f.categories.DeleteCategory(other.ID, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.categories.GetCategory(other.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.categories.DeleteCategory(other.ID, nil); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("deleting again should be not found, got %v", err)
	}
}

// ---- Inventory ----

func productValues(name, barcode string) form.Values {
	return form.Values{"name": name, "cost": "2.50", "price": "4.00", "qty": "10", "barcode": barcode}
}

func TestCreateProductChecksBarcodeAndCategory(t *testing.T) {
	f := newFixture(t)
	if _, err := f.inventory.CreateProduct(form.BindProduct(productValues("Cola", "123")), nil, nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := f.inventory.CreateProduct(form.BindProduct(productValues("Pepsi", "123")), nil, nil)
	if errs := fieldErrors(t, err); errs.Fields["barcode"] != MsgBarcodeTaken {
		t.Fatalf("expected barcode taken, got %+v", errs.Fields)
	}

	v := productValues("Fanta", "")
	v["category_id"] = "77"
	_, err = f.inventory.CreateProduct(form.BindProduct(v), nil, nil)
	if errs := fieldErrors(t, err); errs.Fields["category_id"] != MsgUnknownCategory {
		t.Fatalf("expected unknown category, got %+v", errs.Fields)
	}
}

func TestProductsWithoutBarcodeDoNotCollide(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"Apple", "Pear"} {
		if _, err := f.inventory.CreateProduct(form.BindProduct(productValues(name, "")), nil, nil); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	products, err := f.inventory.ListProducts("")
	if err != nil || len(products) != 2 {
		t.Fatalf("expected two products, got %d (%v)", len(products), err)
	}
}

func TestUpdateProductChangesCategory(t *testing.T) {
	f := newFixture(t)
	cat, _ := f.categories.CreateCategory(&form.CategoryForm{Name: "Drinks"}, nil)
	p, err := f.inventory.CreateProduct(form.BindProduct(productValues("Cola", "")), nil, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	v := productValues("Cola Zero", "")
	v["category_id"] = strconv.FormatUint(uint64(cat.ID), 10)
	updated, err := f.inventory.UpdateProduct(p.ID, form.BindProduct(v), nil, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Cola Zero" || updated.Category == nil || updated.Category.ID != cat.ID {
		t.Fatalf("unexpected product %+v", updated)
	}
}

func stockForm(productID uint) *form.StockForm {
	return &form.StockForm{
		TotalCost: decimal.NewFromInt(25),
		Details: []form.StockLine{
			{ProductID: productID, Qty: 10, Cost: decimal.RequireFromString("2.50"), Total: decimal.NewFromInt(25)},
		},
	}
}

func TestCreateStockGeneratesCode(t *testing.T) {
	f := newFixture(t)
	p, _ := f.inventory.CreateProduct(form.BindProduct(productValues("Cola", "")), nil, nil)

	stock, err := f.inventory.CreateStock(stockForm(p.ID), nil)
	if err != nil {
		t.Fatalf("create stock: %v", err)
	}
	if !strings.HasPrefix(stock.Code, "STK-") || len(stock.Code) != 12 {
		t.Fatalf("unexpected code %q", stock.Code)
	}
	if len(stock.Details) != 1 || stock.Details[0].Product == nil || stock.Details[0].Product.Name != "Cola" {
		t.Fatalf("details not loaded: %+v", stock.Details)
	}

	sf := stockForm(p.ID)
	sf.Code = stock.Code
	_, err = f.inventory.CreateStock(sf, nil)
	if errs := fieldErrors(t, err); errs.Fields["code"] != MsgStockCodeTaken {
		t.Fatalf("expected code taken, got %+v", errs.Fields)
	}
}

func TestCreateStockRejectsUnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.inventory.CreateStock(stockForm(42), nil)
	if errs := fieldErrors(t, err); errs.Fields["details"] != MsgUnknownProduct {
		t.Fatalf("expected unknown product, got %+v", errs.Fields)
	}
}

func TestSaleLifecycle(t *testing.T) {
	f := newFixture(t)
	p, _ := f.inventory.CreateProduct(form.BindProduct(productValues("Cola", "")), nil, nil)

	sale, err := f.inventory.CreateSale(&form.SaleForm{
		TotalPrice: decimal.NewFromInt(8),
		Details:    []form.SaleLine{{ProductID: p.ID, Qty: 2, Price: decimal.NewFromInt(4), Total: decimal.NewFromInt(8)}},
	}, nil)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if !strings.HasPrefix(sale.Code, "INV-") {
		t.Fatalf("unexpected code %q", sale.Code)
	}

	if _, err := f.inventory.DeleteSale(sale.ID, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.inventory.GetSale(sale.ID); !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProductRemovesLines(t *testing.T) {
	f := newFixture(t)
	p, _ := f.inventory.CreateProduct(form.BindProduct(productValues("Cola", "")), nil, nil)
	stock, err := f.inventory.CreateStock(stockForm(p.ID), nil)
	if err != nil {
		t.Fatalf("create stock: %v", err)
	}

	if _, err := f.inventory.DeleteProduct(p.ID, nil); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	reloaded, err := f.inventory.GetStock(stock.ID)
	if err != nil {
		t.Fatalf("stock header should remain: %v", err)
	}
	if len(reloaded.Details) != 0 {
		t.Fatalf("expected lines removed, got %d", len(reloaded.Details))
	}
}
