package store

import "github.com/sirupsen/logrus"

// seedOrders are the reference orders installed on first run so tracking and
// returns can be exercised against a fresh database.
var seedOrders = []Order{
	{
		OrderID:           "ORD-2024-001",
		Email:             "alex@example.com",
		Status:            "in_transit",
		CurrentLocation:   "Memphis, TN",
		EstimatedDelivery: "2026-01-05",
		TrackingNumber:    "TRK789456123",
		OrderDate:         "2025-12-28",
		Items: []OrderItem{
			{Name: "Waterproof Hiking Jacket", Quantity: 1, Price: 159.99},
			{Name: "Thermal Base Layer Set", Quantity: 1, Price: 89.99},
		},
	},
	{
		OrderID:           "ORD-2024-002",
		Email:             "sarah@example.com",
		Status:            "shipped",
		CurrentLocation:   "Chicago, IL",
		EstimatedDelivery: "2026-01-06",
		TrackingNumber:    "TRK123789456",
		OrderDate:         "2025-12-30",
		Items: []OrderItem{
			{Name: "Trail Running Shoes", Quantity: 1, Price: 129.99},
		},
	},
	{
		OrderID:           "ORD-2024-003",
		Email:             "john@example.com",
		Status:            "delivered",
		CurrentLocation:   "San Francisco, CA",
		EstimatedDelivery: "2026-01-02",
		TrackingNumber:    "TRK456123789",
		OrderDate:         "2025-12-25",
		Items: []OrderItem{
			{Name: "Insulated Water Bottle", Quantity: 2, Price: 34.99},
		},
	},
}

// Seed installs the reference orders when the orders table is empty.
func (d *Database) Seed() error {
	total, err := d.CountOrders()
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range seedOrders {
		order := seedOrders[i]
		if err := d.gorm.Create(&order).Error; err != nil {
			return err
		}
	}
	logrus.WithField("orders", len(seedOrders)).Info("seeded reference orders")
	return nil
}
