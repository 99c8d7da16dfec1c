package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueless/canteen/internal/adapter/logger"
	"github.com/queueless/canteen/internal/adapter/memory"
	"github.com/queueless/canteen/internal/domain"
	"github.com/queueless/canteen/internal/interfaces"
)

func newService(t *testing.T) (*Service, *domain.User, *domain.User, *domain.User) {
	t.Helper()

	store := memory.NewStore()
	store.Seed()

	users := domain.DefaultUsers()
	return NewService(memory.NewMenuRepository(store), logger.Nop()), &users[0], &users[1], &users[2]
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestListMenuIsPublic(t *testing.T) {
	service, _, _, _ := newService(t)

	items, err := service.ListMenu(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 5)
}

func TestCreateItem(t *testing.T) {
	service, admin, _, _ := newService(t)

	item, err := service.CreateItem(context.Background(), admin, interfaces.MenuItemCommand{
		Name:      "Filter Coffee",
		Category:  "Beverages",
		Price:     20,
		PrepTime:  4,
		Stock:     30,
		Available: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Filter Coffee", item.Name)
	assert.Equal(t, 30, item.Stock)
}

func TestCreateItemValidation(t *testing.T) {
	service, admin, _, _ := newService(t)

	_, err := service.CreateItem(context.Background(), admin, interfaces.MenuItemCommand{
		Name:     "Freebie",
		Category: "Snacks",
		Price:    0,
		PrepTime: 5,
	})

	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCreateItemRejectsNonAdmins(t *testing.T) {
	service, _, vendor, student := newService(t)

	for _, actor := range []*domain.User{vendor, student} {
		_, err := service.CreateItem(context.Background(), actor, interfaces.MenuItemCommand{
			Name:     "Nope",
			Category: "Snacks",
			Price:    10,
			PrepTime: 5,
		})
		var authz *domain.AuthorizationError
		assert.ErrorAs(t, err, &authz)
	}
}

func TestUpdateItemPartial(t *testing.T) {
	service, admin, _, _ := newService(t)

	item, err := service.UpdateItem(context.Background(), admin, "m1", interfaces.UpdateMenuItemCommand{
		Price: intPtr(45),
	})
	require.NoError(t, err)

	assert.Equal(t, 45, item.Price)
	assert.Equal(t, "Veg Sandwich", item.Name)
	assert.Equal(t, 25, item.Stock)
}

func TestUpdateItemUnknown(t *testing.T) {
	service, admin, _, _ := newService(t)

	_, err := service.UpdateItem(context.Background(), admin, "nope", interfaces.UpdateMenuItemCommand{})
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestDeleteItem(t *testing.T) {
	service, admin, _, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, service.DeleteItem(ctx, admin, "m1"))

	items, err := service.ListMenu(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestVendorMayAdjustStockButNotManage(t *testing.T) {
	service, _, vendor, _ := newService(t)
	ctx := context.Background()

	item, err := service.SetStockAndAvailability(ctx, vendor, "m1", intPtr(3), boolPtr(false))
	require.NoError(t, err)
	assert.Equal(t, 3, item.Stock)
	assert.False(t, item.Available)

	err = service.DeleteItem(ctx, vendor, "m1")
	var authz *domain.AuthorizationError
	assert.ErrorAs(t, err, &authz)
}

func TestSetStockKeepsUnsetFields(t *testing.T) {
	service, admin, _, _ := newService(t)

	item, err := service.SetStockAndAvailability(context.Background(), admin, "m1", nil, boolPtr(false))
	require.NoError(t, err)

	assert.Equal(t, 25, item.Stock)
	assert.False(t, item.Available)
}

func TestSetStockRejectsNegative(t *testing.T) {
	service, admin, _, _ := newService(t)

	_, err := service.SetStockAndAvailability(context.Background(), admin, "m1", intPtr(-1), nil)
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}
