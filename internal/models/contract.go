package models

import "time"

// PaymentStatus represents the settlement status of a contract payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Contract represents a customer contract. Contracts are read-only inputs to
// the growth engine's historical income feeder.
type Contract struct {
	Base
	Number     string  `gorm:"uniqueIndex;not null" json:"number"`
	TotalValue float64 `gorm:"not null" json:"total_value"`

	// Relationships
	Products []ContractProduct `gorm:"foreignKey:ContractID" json:"products,omitempty"`
	Payments []ContractPayment `gorm:"foreignKey:ContractID" json:"payments,omitempty"`
}

// ContractProduct links a contract to a product it covers. At most one of
// AllocationPercentage and AllocationAmount is set; when neither is set the
// contract's payments are split equally across its products.
type ContractProduct struct {
	Base
	ContractID           uint     `gorm:"not null;index" json:"contract_id"`
	ProductID            uint     `gorm:"not null;index" json:"product_id"`
	AllocationPercentage *float64 `json:"allocation_percentage,omitempty"`
	AllocationAmount     *float64 `json:"allocation_amount,omitempty"`
}

// ContractPayment represents a single payment against a contract. Only paid
// payments feed historical income.
type ContractPayment struct {
	Base
	ContractID uint          `gorm:"not null;index" json:"contract_id"`
	Amount     float64       `gorm:"not null" json:"amount"`
	Status     PaymentStatus `gorm:"not null;default:pending" json:"status"`
	PaidAt     *time.Time    `json:"paid_at,omitempty"`
}
