package model

import "time"

// Drug 药品库存表，对应 drugs
type Drug struct {
	DrugID                 string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"drug_id"`
	MetadataID             string     `gorm:"type:uuid;not null;index"                       json:"metadata_id"`
	PackageSizeID          string     `gorm:"type:uuid;not null"                             json:"package_size_id"`
	ShopID                 string     `gorm:"type:uuid;not null"                             json:"shop_id"`
	BoughtOn               *time.Time `json:"bought_on,omitempty"`
	OpenedOn               *time.Time `json:"opened_on,omitempty"`
	PalatableUntil         *time.Time `gorm:"index"                                          json:"palatable_until,omitempty"` // 有效期
	BoughtBy               *string    `gorm:"type:uuid"                                      json:"bought_by,omitempty"`
	PersonConcerned        *string    `gorm:"type:uuid"                                      json:"person_concerned,omitempty"`
	AmountLeftAbsolute     *float64   `gorm:"type:numeric(10,2)"                             json:"amount_left_absolute,omitempty"`
	AmountLeftInPercentage *float64   `gorm:"type:numeric(5,2)"                              json:"amount_left_in_percentage,omitempty"`
	VersionedModel

	// 关联
	Metadata              *DrugMetadata    `gorm:"foreignKey:MetadataID;references:DrugMetadataID"   json:"metadata,omitempty"`
	PackageSize           *DrugPackageSize `gorm:"foreignKey:PackageSizeID;references:PackageSizeID" json:"package_size,omitempty"`
	Shop                  *Shop            `gorm:"foreignKey:ShopID;references:ShopID"               json:"shop,omitempty"`
	BoughtByPerson        *Person          `gorm:"foreignKey:BoughtBy;references:PersonID"           json:"bought_by_person,omitempty"`
	PersonConcernedPerson *Person          `gorm:"foreignKey:PersonConcerned;references:PersonID"    json:"person_concerned_person,omitempty"`
}

// TableName 指定表名
func (Drug) TableName() string { return "drugs" }
