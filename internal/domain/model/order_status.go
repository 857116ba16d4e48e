package model

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// 注文ステータスの表示用メタデータ
type OrderStatusMeta struct {
	Key         OrderStatus `json:"key"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
	Color       string      `json:"color"`
}

// ステータスの一覧はこのテーブルだけで管理する。
// 遷移の制約は持たない（どのステータスからどのステータスへも変更できる）。
var orderStatusTable = []OrderStatusMeta{
	{Key: OrderStatusPending, Label: "Pending", Description: "Order received, awaiting processing.", Color: "warning"},
	{Key: OrderStatusProcessing, Label: "Processing", Description: "Order is being prepared.", Color: "info"},
	{Key: OrderStatusShipped, Label: "Shipped", Description: "Order handed to the carrier.", Color: "primary"},
	{Key: OrderStatusDelivered, Label: "Delivered", Description: "Order delivered to the customer.", Color: "success"},
	{Key: OrderStatusCancelled, Label: "Cancelled", Description: "Order cancelled.", Color: "danger"},
}

// テーブル順のコピーを返す
func OrderStatuses() []OrderStatusMeta {
	out := make([]OrderStatusMeta, len(orderStatusTable))
	copy(out, orderStatusTable)
	return out
}

func LookupOrderStatus(key string) (OrderStatusMeta, bool) {
	for _, m := range orderStatusTable {
		if string(m.Key) == key {
			return m, true
		}
	}
	return OrderStatusMeta{}, false
}

func (s OrderStatus) Valid() bool {
	_, ok := LookupOrderStatus(string(s))
	return ok
}

// 未知のキーはキーそのものを返す
func (s OrderStatus) Label() string {
	if m, ok := LookupOrderStatus(string(s)); ok {
		return m.Label
	}
	return string(s)
}
