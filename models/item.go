package models

// Item mirrors a top-level shop product. Rows are provisioned by the
// shop itself; this service only ever updates the stock quantity.
type Item struct {
	ID       string `json:"id" gorm:"column:it_id;primaryKey"`
	Quantity int    `json:"quantity" gorm:"column:it_stock_qty"`
}

func (Item) TableName() string {
	return "g5_shop_item"
}
