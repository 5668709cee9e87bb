package model

// Shop 药店表，对应 shops
type Shop struct {
	ShopID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shop_id"`
	Name       string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Street     *string `gorm:"type:varchar(200)"                              json:"street,omitempty"`
	Postalcode *string `gorm:"type:varchar(20)"                               json:"postalcode,omitempty"`
	City       *string `gorm:"type:varchar(100)"                              json:"city,omitempty"`
	Phone      *string `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Shop) TableName() string { return "shops" }
