package mysql

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row types mirror the relational schema. Conversion to and from the domain
// types happens in the repositories; domain packages never see gorm tags.

type orderRow struct {
	OrderID       string          `gorm:"column:order_id;primaryKey;size:36"`
	OrderNumber   string          `gorm:"column:order_number;uniqueIndex;size:32"`
	CustomerID    string          `gorm:"column:customer_id;size:36;index"`
	OrderStatus   string          `gorm:"column:order_status;size:32"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2)"`
	PaymentStatus string          `gorm:"column:payment_status;size:32"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`

	Items []orderItemRow `gorm:"foreignKey:OrderID;references:OrderID"`
}

func (orderRow) TableName() string { return "orders" }

type orderItemRow struct {
	OrderItemID     string          `gorm:"column:order_item_id;primaryKey;size:36"`
	OrderID         string          `gorm:"column:order_id;size:36;index"`
	ProductID       string          `gorm:"column:product_id;size:36;index"`
	Quantity        int             `gorm:"column:quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:decimal(12,2)"`
	DiscountApplied decimal.Decimal `gorm:"column:discount_applied;type:decimal(12,2)"`
}

func (orderItemRow) TableName() string { return "order_item" }

type cartRow struct {
	CartID     string          `gorm:"column:cart_id;primaryKey;size:36"`
	CustomerID string          `gorm:"column:customer_id;size:36;uniqueIndex:idx_cart_customer_product_sku"`
	ProductID  string          `gorm:"column:product_id;size:36;uniqueIndex:idx_cart_customer_product_sku"`
	SKU        string          `gorm:"column:sku;size:64;uniqueIndex:idx_cart_customer_product_sku"`
	Quantity   int             `gorm:"column:quantity"`
	UnitPrice  decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2)"`
	AddedAt    time.Time       `gorm:"column:added_at"`
}

func (cartRow) TableName() string { return "shopping_cart" }

// productRow covers only the columns this core owns; the catalog collaborator
// owns the rest of the product table.
type productRow struct {
	ProductID     string          `gorm:"column:product_id;primaryKey;size:36"`
	StockQuantity int             `gorm:"column:stock_quantity"`
	Price         decimal.Decimal `gorm:"column:price;type:decimal(12,2)"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
}

func (productRow) TableName() string { return "product" }

type returnRow struct {
	ReturnID     string    `gorm:"column:return_id;primaryKey;size:36"`
	OrderItemID  string    `gorm:"column:order_item_id;size:36;index"`
	Reason       string    `gorm:"column:reason;size:255"`
	ReturnStatus string    `gorm:"column:return_status;size:32"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (returnRow) TableName() string { return "returns" }
