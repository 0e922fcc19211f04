package models

// Industry is a row of the industries table.
type Industry struct {
	Code     string `gorm:"primaryKey;size:64" json:"code"`
	Industry string `gorm:"not null" json:"industry"`
}

// CompanyIndustry associates one company with one industry.
type CompanyIndustry struct {
	IndCode  string    `gorm:"primaryKey;size:64" json:"ind_code"`
	CompCode string    `gorm:"primaryKey;size:64" json:"comp_code"`
	Industry *Industry `gorm:"foreignKey:IndCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Company  *Company  `gorm:"foreignKey:CompCode;references:Code;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TableName keeps the association table name singular.
func (CompanyIndustry) TableName() string {
	return "company_industry"
}

// IndustryCompany is one row of the industry listing: an industry paired with
// one associated company code, or a nil code when it has none.
type IndustryCompany struct {
	Industry string  `json:"industry"`
	Code     *string `json:"code"`
}
