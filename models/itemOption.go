package models

// ItemOption mirrors a sub-variant of an Item. The option code is the
// full ERP product code; ItemID is its leading fixed-width prefix.
type ItemOption struct {
	ID       string `json:"id" gorm:"column:io_no;primaryKey"`
	ItemID   string `json:"itemId" gorm:"column:it_id"`
	Quantity int    `json:"quantity" gorm:"column:io_stock_qty"`
}

func (ItemOption) TableName() string {
	return "g5_shop_item_option"
}
