// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/kbeauty-storefront/internal/domain/order"
)

// ErrInvalidStatus is returned for a status the shop does not know
var ErrInvalidStatus = errors.New("invalid order status")

// DefaultOrderLimit is how many orders the admin list returns when no limit is given
const DefaultOrderLimit = 50

// Backend is the admin side of the backend API
type Backend interface {
	Dashboard(ctx context.Context, credential string) (*DashboardStats, error)
	AdminOrders(ctx context.Context, credential string, status order.OrderStatus, limit int) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, credential, id string, status order.OrderStatus) error
}

// Service handles the admin dashboard
type Service struct {
	backend Backend
	logger  logrus.FieldLogger
}

// NewService creates a new analytics service
func NewService(backend Backend, logger logrus.FieldLogger) *Service {
	return &Service{
		backend: backend,
		logger:  logger.WithField("service", "analytics"),
	}
}

// DashboardStats represents overall dashboard statistics
type DashboardStats struct {
	// Order metrics
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	ConfirmedOrders int64 `json:"confirmed_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`

	// Revenue in TND; potential counts every order that is not cancelled
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`

	TotalProducts int64 `json:"total_products"`
	TotalUsers    int64 `json:"total_users"`

	TopProducts []ProductSalesData `json:"top_products"`
}

// ProductSalesData represents product sales information
type ProductSalesData struct {
	ProductID    string `json:"_id"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	Brand        string `json:"brand"`
	TotalSold    int64  `json:"total_sold"`
}

// StatusData represents the orders in one status
type StatusData struct {
	Status  order.OrderStatus `json:"status"`
	Label   string            `json:"label"`
	Count   int               `json:"count"`
	Revenue decimal.Decimal   `json:"revenue"`
}

// GetDashboardStats returns the backend dashboard figures
func (s *Service) GetDashboardStats(ctx context.Context, credential string) (*DashboardStats, error) {
	stats, err := s.backend.Dashboard(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	if stats.TopProducts == nil {
		stats.TopProducts = []ProductSalesData{}
	}
	return stats, nil
}

// ListOrders returns every customer's orders, optionally filtered by status
func (s *Service) ListOrders(ctx context.Context, credential string, status order.OrderStatus, limit int) ([]order.Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if limit <= 0 {
		limit = DefaultOrderLimit
	}
	return s.backend.AdminOrders(ctx, credential, status, limit)
}

// UpdateOrderStatus moves an order to status
func (s *Service) UpdateOrderStatus(ctx context.Context, credential, id string, status order.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if err := s.backend.UpdateOrderStatus(ctx, credential, id, status); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"order_id": id, "status": status}).Info("Order status updated")
	return nil
}

// StatusBreakdown groups orders by status, in lifecycle order
func StatusBreakdown(orders []order.Order) []StatusData {
	byStatus := map[order.OrderStatus]*StatusData{}
	for _, o := range orders {
		d, ok := byStatus[o.Status]
		if !ok {
			d = &StatusData{Status: o.Status, Label: o.Status.Label()}
			byStatus[o.Status] = d
		}
		d.Count++
		d.Revenue = d.Revenue.Add(o.TotalTND)
	}

	out := make([]StatusData, 0, len(byStatus))
	for _, d := range byStatus {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		return lifecycleRank(out[i].Status) < lifecycleRank(out[j].Status)
	})
	return out
}

var lifecycle = []order.OrderStatus{
	order.OrderStatusPending,
	order.OrderStatusConfirmed,
	order.OrderStatusPreparing,
	order.OrderStatusShipped,
	order.OrderStatusDelivered,
	order.OrderStatusCancelled,
}

func lifecycleRank(s order.OrderStatus) int {
	for i, st := range lifecycle {
		if st == s {
			return i
		}
	}
	return len(lifecycle)
}
