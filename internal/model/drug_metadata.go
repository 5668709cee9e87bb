package model

// DrugMetadata 药品主数据，对应 drug_metadata
type DrugMetadata struct {
	DrugMetadataID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"drug_metadata_id"`
	Name           string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Description    *string `gorm:"type:text"                                      json:"description,omitempty"`
	ImageURL       *string `gorm:"type:varchar(500)"                              json:"image_url,omitempty"`
	Agreeability   *string `gorm:"type:varchar(200)"                              json:"agreeability,omitempty"`
	SoftDeleteModel

	// 关联
	PackageSizes []DrugPackageSize `gorm:"foreignKey:DrugMetadataID" json:"package_sizes,omitempty"`
}

// TableName 指定表名
func (DrugMetadata) TableName() string { return "drug_metadata" }

// DrugPackageSize 包装规格，对应 drug_package_sizes
type DrugPackageSize struct {
	PackageSizeID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"package_size_id"`
	DrugMetadataID string  `gorm:"type:uuid;not null;index"                       json:"drug_metadata_id"`
	BundleSize     int     `gorm:"not null"                                       json:"bundle_size"`
	BundleType     *string `gorm:"type:varchar(50)"                               json:"bundle_type,omitempty"` // 片 | ml | 支 ...
	SoftDeleteModel

	// 关联
	DrugMetadata *DrugMetadata `gorm:"foreignKey:DrugMetadataID;references:DrugMetadataID" json:"drug_metadata,omitempty"`
}

// TableName 指定表名
func (DrugPackageSize) TableName() string { return "drug_package_sizes" }
