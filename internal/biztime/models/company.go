// Package models contains the BizTime entities as persisted by GORM and the
// JSON views the HTTP API returns for them.
package models

import "github.com/shopspring/decimal"

func init() {
	// Invoice amounts are exposed as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Company is a row of the companies table. Code is derived from Name at
// creation time and never changes afterwards.
type Company struct {
	Code        string `gorm:"primaryKey;size:64" json:"code"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
}

// CompanyUpdate carries the mutable fields of a Company.
type CompanyUpdate struct {
	Code        string
	Name        string
	Description string
}

// CompanySummary is the list representation of a company.
type CompanySummary struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CompanyDetail is a company together with the ids of its invoices and the
// names of the industries it belongs to.
type CompanyDetail struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Invoices    []int64  `json:"invoices"`
	Industries  []string `json:"industries"`
}

// NewCompanyDetail assembles a CompanyDetail, normalizing nil slices to empty ones.
func NewCompanyDetail(c *Company, invoiceIDs []int64, industries []string) *CompanyDetail {
	if invoiceIDs == nil {
		invoiceIDs = []int64{}
	}
	if industries == nil {
		industries = []string{}
	}
	return &CompanyDetail{
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		Invoices:    invoiceIDs,
		Industries:  industries,
	}
}
