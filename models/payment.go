// edufy-erp/models/payment.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment methods accepted at the front desk.
const (
	MethodCash     = "cash"
	MethodCheck    = "check"
	MethodTransfer = "virement"
)

// Payment statuses. Only "paid" counts toward an enrollment's balance;
// checks and transfers wait for manual confirmation.
const (
	StatusPaid                = "paid"
	StatusCheckReceived       = "check_received"
	StatusPendingVerification = "pending_verification"
)

// Payment is one recorded payment against an enrollment.
type Payment struct {
	gorm.Model
	OrgID *uint `json:"orgId" gorm:"index"`

	EnrollmentID uint        `json:"enrollmentId" gorm:"index"`
	Enrollment   *Enrollment `json:"enrollment,omitempty"`

	Amount        float64   `json:"amount" gorm:"type:numeric(12,2)"`
	PaymentDate   time.Time `json:"paymentDate"`
	Method        string    `json:"method"`
	Status        string    `json:"status" gorm:"index"`
	Session       string    `json:"session" gorm:"index"`
	ReceiptNumber string    `json:"receiptNumber" gorm:"uniqueIndex"`

	// Check details.
	CheckNumber string     `json:"checkNumber,omitempty"`
	BankName    string     `json:"bankName,omitempty"`
	DepositDate *time.Time `json:"depositDate,omitempty"`

	// Bank transfer proof.
	ProofURL string `json:"proofUrl,omitempty"`
}

// StatusForMethod maps a payment method to its initial status, as used by
// the single-payment recorder.
//
// Note: the enrollment wizard historically tags every non-cash entry as
// check_received, including transfers. That divergence is kept as-is in the
// enrollment handler pending product clarification.
func StatusForMethod(method string) string {
	switch method {
	case MethodCash:
		return StatusPaid
	case MethodCheck:
		return StatusCheckReceived
	case MethodTransfer:
		return StatusPendingVerification
	default:
		return StatusPendingVerification
	}
}

// CountsTowardBalance reports whether the payment is cleared funds.
func (p *Payment) CountsTowardBalance() bool {
	return p.Status == StatusPaid
}
