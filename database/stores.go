package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"resmall-api-server/models"
)

// ItemStore persists top-level item quantities.
type ItemStore struct {
	db *gorm.DB
}

func NewItemStore(db *gorm.DB) *ItemStore {
	return &ItemStore{db: db}
}

// UpdateQuantity sets the stock quantity of the item with the given
// code. Updating a missing row is a no-op, matching the shop's
// update-only contract.
func (s *ItemStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	return s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("it_id = ?", id).
		Update("it_stock_qty", quantity).Error
}

// Find returns the item, or nil when no row matches.
func (s *ItemStore) Find(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, "it_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// OptionStore persists item option quantities.
type OptionStore struct {
	db *gorm.DB
}

func NewOptionStore(db *gorm.DB) *OptionStore {
	return &OptionStore{db: db}
}

// UpdateQuantity sets the stock quantity of an option, scoped by both
// the option code and the owning item code.
func (s *OptionStore) UpdateQuantity(ctx context.Context, optionID, itemID string, quantity int) error {
	return s.db.WithContext(ctx).
		Model(&models.ItemOption{}).
		Where("io_no = ? AND it_id = ?", optionID, itemID).
		Update("io_stock_qty", quantity).Error
}

// Find returns the option, or nil when no row matches.
func (s *OptionStore) Find(ctx context.Context, optionID, itemID string) (*models.ItemOption, error) {
	var option models.ItemOption
	err := s.db.WithContext(ctx).First(&option, "io_no = ? AND it_id = ?", optionID, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &option, nil
}

// FindByItemID lists all options owned by an item.
func (s *OptionStore) FindByItemID(ctx context.Context, itemID string) ([]models.ItemOption, error) {
	var options []models.ItemOption
	if err := s.db.WithContext(ctx).Where("it_id = ?", itemID).Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}
