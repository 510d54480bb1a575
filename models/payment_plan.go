// edufy-erp/models/payment_plan.go

package models

import "gorm.io/gorm"

// PaymentPlan is a reusable installment template for spreading tuition
// over the year.
type PaymentPlan struct {
	gorm.Model
	OrgID             *uint             `json:"orgId" gorm:"index"`
	Name              string            `json:"name"`
	InstallmentsCount int               `json:"installments_count"`
	Installments      []PlanInstallment `json:"installments" gorm:"foreignKey:PaymentPlanID"`
}

// PlanInstallment is one installment of a plan. Formula is evaluated with
// the variables Total, Discounted and Discount.
type PlanInstallment struct {
	gorm.Model
	PaymentPlanID uint   `json:"payment_plan_id"`
	Month         int    `json:"month"` // 1-12, calendar month
	Day           int    `json:"day"`
	Formula       string `json:"formula"`
}

func (PaymentPlan) TableName() string     { return "payment_plans" }
func (PlanInstallment) TableName() string { return "plan_installments" }
