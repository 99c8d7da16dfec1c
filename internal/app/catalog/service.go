package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

// Service is the catalog administration surface. Stock overrides here
// are last-write-wins; order fulfilment never goes through this path.
type Service struct {
	menuRepo interfaces.MenuRepository
	logger   logger.Logger
}

func NewService(menuRepo interfaces.MenuRepository, logger logger.Logger) *Service {
	return &Service{
		menuRepo: menuRepo,
		logger:   logger,
	}
}

func (s *Service) ListMenu(ctx context.Context) ([]*domain.MenuItem, error) {
	return s.menuRepo.List(ctx)
}

func (s *Service) CreateItem(ctx context.Context, actor *domain.User, cmd interfaces.MenuItemCommand) (*domain.MenuItem, error) {
	if !actor.Role.Allowed(domain.OpManageMenu) {
		return nil, domain.NewAuthorization("not permitted to manage the menu")
	}

	item, err := domain.NewMenuItem(uuid.NewString(), cmd.Name, cmd.Category, cmd.Price, cmd.PrepTime, cmd.Stock, cmd.Available)
	if err != nil {
		return nil, err
	}
	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("menu_item_created", fmt.Sprintf("Menu item %s created", item.Name), "", map[string]interface{}{
		"item_id": item.ID,
	})
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, actor *domain.User, id string, cmd interfaces.UpdateMenuItemCommand) (*domain.MenuItem, error) {
	if !actor.Role.Allowed(domain.OpManageMenu) {
		return nil, domain.NewAuthorization("not permitted to manage the menu")
	}

	item, err := s.menuRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		item.Name = *cmd.Name
	}
	if cmd.Category != nil {
		item.Category = *cmd.Category
	}
	if cmd.Price != nil {
		item.Price = *cmd.Price
	}
	if cmd.PrepTime != nil {
		item.PrepTime = *cmd.PrepTime
	}
	if cmd.Stock != nil {
		item.Stock = *cmd.Stock
	}
	if cmd.Available != nil {
		item.Available = *cmd.Available
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a catalog entry. Orders keep their own snapshots
// of name and price, so deletion never corrupts order history.
func (s *Service) DeleteItem(ctx context.Context, actor *domain.User, id string) error {
	if !actor.Role.Allowed(domain.OpManageMenu) {
		return domain.NewAuthorization("not permitted to manage the menu")
	}
	return s.menuRepo.Delete(ctx, id)
}

func (s *Service) SetStockAndAvailability(ctx context.Context, actor *domain.User, id string, stock *int, available *bool) (*domain.MenuItem, error) {
	if !actor.Role.Allowed(domain.OpAdjustStock) {
		return nil, domain.NewAuthorization("not permitted to adjust stock")
	}

	item, err := s.menuRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	newStock := item.Stock
	if stock != nil {
		newStock = *stock
	}
	newAvailable := item.Available
	if available != nil {
		newAvailable = *available
	}
	if newStock < 0 {
		return nil, domain.NewValidation("item stock must not be negative")
	}

	updated, err := s.menuRepo.SetStockAndAvailability(ctx, id, newStock, newAvailable)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("stock_adjusted", fmt.Sprintf("Stock for %s set to %d", updated.Name, updated.Stock), "", map[string]interface{}{
		"item_id":   updated.ID,
		"stock":     updated.Stock,
		"available": updated.Available,
	})
	return updated, nil
}
