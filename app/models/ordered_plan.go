package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanRef points at exactly one row of one plan table. The kind selects the
// table, the ID is the primary key inside it.
type PlanRef struct {
	Kind PlanKind `gorm:"column:plan_kind;type:varchar(20);not null;index:,composite:plan_ref" json:"kind"`
	ID   uint     `gorm:"column:plan_id;not null;index:,composite:plan_ref" json:"id"`
}

// IsZero reports whether the reference points nowhere.
func (r PlanRef) IsZero() bool {
	return r.Kind == "" && r.ID == 0
}

func (r PlanRef) String() string {
	return string(r.Kind) + ":" + strconv.FormatUint(uint64(r.ID), 10)
}

// OrderedPlansList is the customer's cart. Exactly one exists per customer,
// created at registration.
type OrderedPlansList struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OwnerID    uint            `gorm:"not null;uniqueIndex" json:"owner_id"`
	FinalPrice decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0" json:"final_price"`
	Plans      []OrderedPlan   `gorm:"foreignKey:RelatedListID" json:"plans"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the OrderedPlansList model
func (OrderedPlansList) TableName() string {
	return "ordered_plans_lists"
}

// OrderedPlan is one order line. ServiceID is copied from the plan when the
// line is created so (owner, service) can carry a unique index.
//
// Confirmed and ConnectedAt are stored but no flow reads or sets them yet.
type OrderedPlan struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Reference     uuid.UUID  `gorm:"type:char(36);uniqueIndex;not null" json:"reference"`
	Plan          PlanRef    `gorm:"embedded" json:"plan"`
	ServiceID     uint       `gorm:"not null;uniqueIndex:,composite:owner_service" json:"service_id"`
	OwnerID       uint       `gorm:"not null;uniqueIndex:,composite:owner_service" json:"owner_id"`
	RelatedListID uint       `gorm:"not null;index" json:"related_list_id"`
	Confirmed     bool       `gorm:"not null;default:false" json:"confirmed"`
	ConnectedAt   *time.Time `gorm:"type:date;default:null" json:"connected_at"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the OrderedPlan model
func (OrderedPlan) TableName() string {
	return "ordered_plans"
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
