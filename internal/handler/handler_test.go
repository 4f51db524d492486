package handler

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/inventory-service/internal/middleware"
	"github.com/suteetoe/inventory-service/internal/model"
	"github.com/suteetoe/inventory-service/internal/repository"
	"github.com/suteetoe/inventory-service/internal/service"
	"github.com/suteetoe/inventory-service/pkg/config"
	"github.com/suteetoe/inventory-service/pkg/database"
	"github.com/suteetoe/inventory-service/pkg/jwtutil"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv holds the handler stack wired against an in-memory database.
type testEnv struct {
	e           *echo.Echo
	db          *gorm.DB
	jwt         *jwtutil.JWTUtil
	auth        *AuthHandler
	users       *UserHandler
	stock       *StockHandler
	orders      *OrderHandler
	audit       *AuditHandler
	tenantID    uint64
	warehouseID uint64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	tenant := &model.Tenant{Name: "Acme Stores", Plan: "free"}
	require.NoError(t, db.Create(tenant).Error)
	warehouse := &model.Warehouse{TenantID: tenant.ID, WarehouseName: "Main", Currency: "NGN"}
	require.NoError(t, db.Create(warehouse).Error)

	userRepo := repository.NewUserRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	stockRepo := repository.NewStockRepository(db)
	productRepo := repository.NewProductRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	auditSvc := service.NewAuditService(repository.NewAuditRepository(db))
	stockSvc := service.NewStockService(db, stockRepo, productRepo, warehouseRepo, auditSvc)
	orderSvc := service.NewOrderService(db, repository.NewPurchaseOrderRepository(db), repository.NewSalesOrderRepository(db), stockRepo, productRepo, warehouseRepo, auditSvc)

	jwtUtil := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	e := echo.New()
	e.Validator = NewRequestValidator()

	return &testEnv{
		e:           e,
		db:          db,
		jwt:         jwtUtil,
		auth:        NewAuthHandler(userRepo, tenantRepo, jwtUtil),
		users:       NewUserHandler(userRepo),
		stock:       NewStockHandler(stockSvc),
		orders:      NewOrderHandler(orderSvc),
		audit:       NewAuditHandler(auditSvc),
		tenantID:    tenant.ID,
		warehouseID: warehouse.WarehouseID,
	}
}

func (env *testEnv) seedProduct(t *testing.T, sku string) {
	t.Helper()
	require.NoError(t, env.db.Create(&model.Product{
		TenantID:  env.tenantID,
		SKU:       sku,
		Name:      "Test Product " + sku,
		Unit:      "pcs",
		CostPrice: decimal.NewFromInt(100),
		SellPrice: decimal.NewFromInt(150),
	}).Error)
}

func (env *testEnv) identity() middleware.Identity {
	return middleware.Identity{TenantID: env.tenantID, UserID: 1, Email: "staff@example.com"}
}

// call invokes a handler directly with an authenticated context, the
// way requests arrive after the JWT middleware has run.
func (env *testEnv) call(t *testing.T, h echo.HandlerFunc, method, path, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params))
		values := make([]string, 0, len(params))
		for name, value := range params {
			names = append(names, name)
			values = append(values, value)
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	middleware.SetIdentity(c, env.identity())
	require.NoError(t, h(c))
	return rec
}

// callAnon invokes a handler without an identity, for public endpoints.
func (env *testEnv) callAnon(t *testing.T, h echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}
