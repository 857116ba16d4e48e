package model

// 配送先住所（注文時点のスナップショット）
type ShippingAddress struct {
	//宛名
	Name string `gorm:"column:shipping_name;type:varchar(255);not null" json:"name"`

	//番地など
	Line1 string `gorm:"column:shipping_line1;type:varchar(255);not null" json:"line1"`

	//建物名など
	Line2 string `gorm:"column:shipping_line2;type:varchar(255)" json:"line2"`

	PostalCode string `gorm:"column:shipping_postal_code;type:varchar(20);not null" json:"postal_code"`
	City       string `gorm:"column:shipping_city;type:varchar(255);not null" json:"city"`
	Country    string `gorm:"column:shipping_country;type:varchar(100);not null" json:"country"`
}
