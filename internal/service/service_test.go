package service

import (
	"fmt"
	"os"
	"testing"

	"cryptowallet/internal/config"
	"cryptowallet/internal/model"
	"cryptowallet/pkg/idgen"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	idgen.Init(1)
	os.Exit(m.Run())
}

// newTestDB 每个测试用独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Transaction{},
		&model.SupportTicket{},
		&model.OutboxMessage{},
		&model.EmailMessage{},
	); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 24
	cfg.Kafka.Topic.LedgerEvent = "wallet_ledger_event"
	cfg.Business.AdminEmail = "admin@wallet.local"
	cfg.Business.FrontendURL = "http://localhost:3000"
	cfg.Business.MinWithdrawAmount = "1500"
	cfg.Business.DepositBonusThreshold = "500"
	cfg.Business.DepositBonusRate = "0.05"
	cfg.Business.MaxRetryCount = 3
	if err := cfg.Business.ParseAmounts(); err != nil {
		panic(err)
	}
	return cfg
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("金额解析失败: %s", raw)
	}
	return d
}

// createUser 直接入库一个可用的测试用户
func createUser(t *testing.T, db *gorm.DB, email, balance, bonus string) *model.User {
	t.Helper()
	user := &model.User{
		Email:         email,
		Password:      "not-a-real-hash",
		Role:          model.RoleUser,
		Status:        model.UserStatusActive,
		Verify:        model.VerifyVerified,
		Balance:       mustDecimal(t, balance),
		Bonus:         mustDecimal(t, bonus),
		EmailVerified: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func reloadUser(t *testing.T, db *gorm.DB, id int64) *model.User {
	t.Helper()
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	return &user
}
