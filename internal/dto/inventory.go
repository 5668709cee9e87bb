package dto

import "time"

// ── 药品主数据 ──

// CreateDrugMetadataRequest 创建药品主数据请求
type CreateDrugMetadataRequest struct {
	Name         string  `json:"name"         binding:"required,min=1,max=200"`
	Description  *string `json:"description"  binding:"omitempty,max=2000"`
	ImageURL     *string `json:"image_url"    binding:"omitempty,url,max=500"`
	Agreeability *string `json:"agreeability" binding:"omitempty,max=200"`
}

// UpdateDrugMetadataRequest 更新药品主数据请求
type UpdateDrugMetadataRequest struct {
	Name         *string `json:"name"         binding:"omitempty,min=1,max=200"`
	Description  *string `json:"description"  binding:"omitempty,max=2000"`
	ImageURL     *string `json:"image_url"    binding:"omitempty,url,max=500"`
	Agreeability *string `json:"agreeability" binding:"omitempty,max=200"`
}

// DrugMetadataListRequest 药品主数据列表查询参数
type DrugMetadataListRequest struct {
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// DrugMetadataResponse 药品主数据响应
type DrugMetadataResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  *string               `json:"description,omitempty"`
	ImageURL     *string               `json:"image_url,omitempty"`
	Agreeability *string               `json:"agreeability,omitempty"`
	PackageSizes []PackageSizeResponse `json:"package_sizes,omitempty"`
	CreatedAt    string                `json:"created_at"`
}

// ── 包装规格 ──

// CreatePackageSizeRequest 创建包装规格请求
type CreatePackageSizeRequest struct {
	DrugMetadataID string  `json:"drug_metadata_id" binding:"required,uuid"`
	BundleSize     int     `json:"bundle_size"      binding:"required,gt=0"`
	BundleType     *string `json:"bundle_type"      binding:"omitempty,max=50"`
}

// UpdatePackageSizeRequest 更新包装规格请求
type UpdatePackageSizeRequest struct {
	BundleSize *int    `json:"bundle_size" binding:"omitempty,gt=0"`
	BundleType *string `json:"bundle_type" binding:"omitempty,max=50"`
}

// PackageSizeListRequest 包装规格列表查询参数
type PackageSizeListRequest struct {
	DrugMetadataID string `form:"drug_metadata_id" binding:"omitempty,uuid"`
}

// PackageSizeResponse 包装规格响应
type PackageSizeResponse struct {
	ID             string  `json:"id"`
	DrugMetadataID string  `json:"drug_metadata_id"`
	BundleSize     int     `json:"bundle_size"`
	BundleType     *string `json:"bundle_type,omitempty"`
}

// ── 药品库存 ──

// CreateDrugRequest 登记药品请求
type CreateDrugRequest struct {
	MetadataID             string     `json:"metadata_id"               binding:"required,uuid"`
	PackageSizeID          string     `json:"package_size_id"           binding:"required,uuid"`
	ShopID                 string     `json:"shop_id"                   binding:"required,uuid"`
	BoughtOn               *time.Time `json:"bought_on"`
	OpenedOn               *time.Time `json:"opened_on"`
	PalatableUntil         *time.Time `json:"palatable_until"`
	BoughtBy               *string    `json:"bought_by"                 binding:"omitempty,uuid"`
	PersonConcerned        *string    `json:"person_concerned"          binding:"omitempty,uuid"`
	AmountLeftAbsolute     *float64   `json:"amount_left_absolute"      binding:"omitempty,gte=0"`
	AmountLeftInPercentage *float64   `json:"amount_left_in_percentage" binding:"omitempty,gte=0,lte=100"`
}

// UpdateDrugRequest 更新药品请求（需携带 version）
type UpdateDrugRequest struct {
	Version                int        `json:"version"                   binding:"required,min=1"`
	MetadataID             *string    `json:"metadata_id"               binding:"omitempty,uuid"`
	PackageSizeID          *string    `json:"package_size_id"           binding:"omitempty,uuid"`
	ShopID                 *string    `json:"shop_id"                   binding:"omitempty,uuid"`
	BoughtOn               *time.Time `json:"bought_on"`
	OpenedOn               *time.Time `json:"opened_on"`
	PalatableUntil         *time.Time `json:"palatable_until"`
	BoughtBy               *string    `json:"bought_by"                 binding:"omitempty,uuid"`
	PersonConcerned        *string    `json:"person_concerned"          binding:"omitempty,uuid"`
	AmountLeftAbsolute     *float64   `json:"amount_left_absolute"      binding:"omitempty,gte=0"`
	AmountLeftInPercentage *float64   `json:"amount_left_in_percentage" binding:"omitempty,gte=0,lte=100"`
}

// DrugListRequest 药品列表查询参数
type DrugListRequest struct {
	PaginationRequest
}

// DrugResponse 药品信息响应
type DrugResponse struct {
	ID                     string               `json:"id"`
	Metadata               *DrugMetadataBrief   `json:"metadata,omitempty"`
	PackageSize            *PackageSizeResponse `json:"package_size,omitempty"`
	Shop                   *ShopBrief           `json:"shop,omitempty"`
	BoughtOn               *time.Time           `json:"bought_on,omitempty"`
	OpenedOn               *time.Time           `json:"opened_on,omitempty"`
	PalatableUntil         *time.Time           `json:"palatable_until,omitempty"`
	BoughtBy               *PersonBrief         `json:"bought_by,omitempty"`
	PersonConcerned        *PersonBrief         `json:"person_concerned,omitempty"`
	AmountLeftAbsolute     *float64             `json:"amount_left_absolute,omitempty"`
	AmountLeftInPercentage *float64             `json:"amount_left_in_percentage,omitempty"`
	Version                int                  `json:"version"`
}

// DrugMetadataBrief 药品主数据简要信息
type DrugMetadataBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ShopBrief 药店简要信息
type ShopBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PersonBrief 人员简要信息
type PersonBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ── 人员 ──

// CreatePersonRequest 创建人员请求
type CreatePersonRequest struct {
	Firstname string  `json:"firstname" binding:"required,min=1,max=100"`
	Lastname  string  `json:"lastname"  binding:"required,min=1,max=100"`
	Phone     *string `json:"phone"     binding:"omitempty,phone"`
	Email     *string `json:"email"     binding:"omitempty,email,max=255"`
}

// UpdatePersonRequest 更新人员请求
type UpdatePersonRequest struct {
	Firstname *string `json:"firstname" binding:"omitempty,min=1,max=100"`
	Lastname  *string `json:"lastname"  binding:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone"     binding:"omitempty,phone"`
	Email     *string `json:"email"     binding:"omitempty,email,max=255"`
}

// PersonResponse 人员信息响应
type PersonResponse struct {
	ID        string  `json:"id"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// ── 药店 ──

// CreateShopRequest 创建药店请求
type CreateShopRequest struct {
	Name       string  `json:"name"       binding:"required,min=1,max=200"`
	Street     *string `json:"street"     binding:"omitempty,max=200"`
	Postalcode *string `json:"postalcode" binding:"omitempty,max=20"`
	City       *string `json:"city"       binding:"omitempty,max=100"`
	Phone      *string `json:"phone"      binding:"omitempty,phone"`
}

// UpdateShopRequest 更新药店请求
type UpdateShopRequest struct {
	Name       *string `json:"name"       binding:"omitempty,min=1,max=200"`
	Street     *string `json:"street"     binding:"omitempty,max=200"`
	Postalcode *string `json:"postalcode" binding:"omitempty,max=20"`
	City       *string `json:"city"       binding:"omitempty,max=100"`
	Phone      *string `json:"phone"      binding:"omitempty,phone"`
}

// ShopResponse 药店信息响应
type ShopResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Street     *string `json:"street,omitempty"`
	Postalcode *string `json:"postalcode,omitempty"`
	City       *string `json:"city,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}
