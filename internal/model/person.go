package model

// Person 人员表，购买人 / 用药人
type Person struct {
	PersonID  string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"person_id"`
	Firstname string  `gorm:"type:varchar(100);not null"                     json:"firstname"`
	Lastname  string  `gorm:"type:varchar(100);not null"                     json:"lastname"`
	Phone     *string `gorm:"type:varchar(50)"                               json:"phone,omitempty"`
	Email     *string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Person) TableName() string { return "persons" }

// FullName 姓名拼接
func (p *Person) FullName() string {
	return p.Firstname + " " + p.Lastname
}
