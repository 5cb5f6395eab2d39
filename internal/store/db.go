package store

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Order{}, &OrderItem{}, &ReturnDecision{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetOrderByEmail fetches the most recent order for the given email, with
// line items preloaded.
func (d *Database) GetOrderByEmail(email string) (*Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	var order Order
	err := d.gorm.Preload("Items").
		Where("email = ?", email).
		Order("order_date DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches an order by its public identifier, with line items.
func (d *Database) GetOrder(orderID string) (*Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, errors.New("order id is required")
	}
	var order Order
	err := d.gorm.Preload("Items").Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Synthesized order-value band for unknown order identifiers.
const (
	syntheticValueMin  = 50
	syntheticValueSpan = 200
)

// OrderValue returns the order total for a known order, or a synthesized
// placeholder for an unknown identifier. Unknown orders are deliberately not
// an error: the return flow accepts any order id.
func (d *Database) OrderValue(orderID string) (float64, bool) {
	order, err := d.GetOrder(orderID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("order_id", orderID).Warn("order lookup failed")
		}
		return float64(syntheticValueMin + rand.Intn(syntheticValueSpan)), false
	}
	return order.Value(), true
}

// SaveReturnDecision persists an evaluated return request.
func (d *Database) SaveReturnDecision(decision *ReturnDecision) error {
	if decision == nil {
		return errors.New("decision is nil")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Create(decision).Error
}

// ListReturnDecisions returns decision history, newest first.
func (d *Database) ListReturnDecisions(offset, limit int) ([]ReturnDecision, int64, error) {
	var total int64
	if err := d.gorm.Model(&ReturnDecision{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query := d.gorm.Order("created_at DESC, id DESC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []ReturnDecision
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// CountOrders reports how many orders are stored.
func (d *Database) CountOrders() (int64, error) {
	var total int64
	err := d.gorm.Model(&Order{}).Count(&total).Error
	return total, err
}
