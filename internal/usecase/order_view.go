package usecase

import (
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderItemOutput struct {
	ProductID  *int64          `json:"product_id"`
	PackID     *int64          `json:"pack_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int64           `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderOutput struct {
	ID            int64                 `json:"id"`
	Reference     string                `json:"reference"`
	UserID        *int64                `json:"user_id"`
	Status        model.OrderStatus     `json:"status"`
	StatusLabel   string                `json:"status_label"`
	StatusColor   string                `json:"status_color"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail string                `json:"customer_email"`
	CustomerPhone string                `json:"customer_phone"`
	Shipping      model.ShippingAddress `json:"shipping"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	DeliveryFee   decimal.Decimal       `json:"delivery_fee"`
	Total         decimal.Decimal       `json:"total"`
	CreatedAt     time.Time             `json:"created_at"`
	Items         []OrderItemOutput     `json:"items"`
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:  it.ProductID,
			PackID:     it.PackID,
			Name:       it.ProductNameSnapshot,
			UnitPrice:  it.UnitPriceSnapshot,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice(),
		})
	}

	meta, _ := model.LookupOrderStatus(string(o.Status))

	return OrderOutput{
		ID:            o.ID,
		Reference:     o.Reference,
		UserID:        o.Owner.UserID,
		Status:        o.Status,
		StatusLabel:   o.Status.Label(),
		StatusColor:   meta.Color,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Shipping:      o.Shipping,
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFeeAmount,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
