package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/pharmstock/pkg/models"
	"github.com/example/pharmstock/pkg/repository"
)

// OrderService is the entry point the downstream intake collaborator reuses to
// create an order with its lines. It gives the same guarantees as the history
// importer: the header and every line commit as one unit, and each line
// captures the medicine's price at creation time.
//
// Unlike the history importer it does not create medicines implicitly: intake
// orders reference products the catalog is expected to know.
type OrderService struct {
	db     *gorm.DB
	redis  *repository.RedisRepository
	mongo  *repository.MongoRepository
	logger *zap.Logger
}

// NewOrderService wires the store plus optional cache and audit sinks; redis
// and mongo may be nil.
func NewOrderService(db *gorm.DB, redisRepo *repository.RedisRepository, mongoRepo *repository.MongoRepository, logger *zap.Logger) *OrderService {
	return &OrderService{db: db, redis: redisRepo, mongo: mongoRepo, logger: logger}
}

type OrderLineInput struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

type OrderInput struct {
	CustomerName string           `json:"customer_name"`
	Mobile       string           `json:"mobile"`
	TotalPrice   float64          `json:"total_price"`
	Lines        []OrderLineInput `json:"lines"`
}

var ErrNoLines = errors.New("order has no lines")

// CreateOrder inserts the order header and one line per input line inside a
// single transaction. When the caller supplies no total, it is computed from
// the captured line prices.
func (s *OrderService) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	if len(in.Lines) == 0 {
		return nil, ErrNoLines
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var computedTotal float64
		items := make([]models.OrderItem, 0, len(in.Lines))

		for _, line := range in.Lines {
			med, err := s.resolveMedicine(ctx, tx, line.Product)
			if err != nil {
				return err
			}
			quantity := line.Quantity
			if quantity < 1 {
				quantity = 1
			}
			items = append(items, models.OrderItem{
				MedicineID:  med.ID,
				Quantity:    quantity,
				PriceAtTime: med.PricePerTablet,
			})
			computedTotal += float64(quantity) * med.PricePerTablet
		}

		total := in.TotalPrice
		if total == 0 {
			total = computedTotal
		}

		order = models.Order{
			CustomerName: in.CustomerName,
			Mobile:       in.Mobile,
			TotalPrice:   total,
			Status:       "completed",
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to insert order items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.mongo != nil {
		go s.mongo.CreateAuditLog(context.Background(), &repository.AuditLog{
			Service:  "order-intake",
			Action:   "create_order",
			EntityID: fmt.Sprintf("%d", order.ID),
			Data:     bson.M{"customer": order.CustomerName, "total_price": order.TotalPrice, "lines": len(in.Lines)},
		})
	}

	return &order, nil
}

// resolveMedicine consults the cache first and falls back to the store; the
// store row refreshes the cache on a miss.
func (s *OrderService) resolveMedicine(ctx context.Context, tx *gorm.DB, name string) (*repository.MedicineCache, error) {
	if name == "" {
		return nil, errors.New("order line has no product name")
	}

	if s.redis != nil {
		if cached, err := s.redis.GetMedicineCache(ctx, name); err == nil {
			return cached, nil
		}
	}

	var med models.Medicine
	if err := tx.Where("name = ?", name).First(&med).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("unknown product %q", name)
		}
		return nil, fmt.Errorf("failed to look up product %q: %w", name, err)
	}

	cached := &repository.MedicineCache{
		ID:             med.ID,
		Name:           med.Name,
		PricePerTablet: med.PricePerTablet,
	}
	if s.redis != nil {
		if err := s.redis.CacheMedicine(ctx, cached); err != nil {
			s.logger.Warn("Failed to cache medicine", zap.String("name", name), zap.Error(err))
		}
	}
	return cached, nil
}
