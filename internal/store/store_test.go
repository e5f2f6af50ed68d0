package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopfront-demo/shopfront/internal/models"
)

func newTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}))
	return New(db)
}

func TestCreateUserEnforcesUniqueEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &models.User{FirstName: "A", LastName: "B", Email: "a@b.com", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, s.CreateUser(ctx, first))

	dup := &models.User{FirstName: "C", LastName: "D", Email: "a@b.com", PasswordHash: "y", Role: models.RoleCustomer}
	require.ErrorIs(t, s.CreateUser(ctx, dup), ErrEmailTaken)
}

func TestProductByRefResolvesBothForms(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	bySlug, err := s.ProductByRef(ctx, "product2")
	require.NoError(t, err)

	byID, err := s.ProductByRef(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, bySlug.ID, byID.ID)

	_, err = s.ProductByRef(ctx, "productX")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProductBackfillsSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	product := &models.Product{Name: "Gizmo", Category: "Gadgets", Price: 1}
	require.NoError(t, s.CreateProduct(ctx, product))
	require.NotEmpty(t, product.Slug)

	found, err := s.ProductByRef(ctx, product.Slug)
	require.NoError(t, err)
	require.Equal(t, product.ID, found.ID)
}

func TestPatchProductLeavesAbsentFieldsAlone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	before, err := s.ProductByRef(ctx, "product1")
	require.NoError(t, err)

	newPrice := before.Price + 100
	after, err := s.PatchProduct(ctx, "product1", ProductPatch{Price: &newPrice})
	require.NoError(t, err)

	require.Equal(t, newPrice, after.Price)
	require.Equal(t, before.Name, after.Name)
	require.Equal(t, before.Category, after.Category)
	require.Equal(t, before.Stock, after.Stock)
	require.Equal(t, before.Rating, after.Rating)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))
	first, err := s.Products(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Seed(ctx))
	second, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, second, len(first))
}

func TestAddCartItemAccumulates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	require.NoError(t, s.AddCartItem(ctx, 1, 3, 2))
	require.NoError(t, s.AddCartItem(ctx, 1, 3, 3))

	items, err := s.CartItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint(5), items[0].Quantity)
}

func TestSetCartItemQuantityZeroDeletesLine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	require.NoError(t, s.AddCartItem(ctx, 1, 3, 2))
	require.NoError(t, s.SetCartItemQuantity(ctx, 1, 3, 0))

	items, err := s.CartItems(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)

	require.ErrorIs(t, s.SetCartItemQuantity(ctx, 1, 3, 1), ErrNotFound)
}

func TestRemoveCartItemMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.RemoveCartItem(ctx, 1, 42), ErrNotFound)
}

func TestCartItemsKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	for _, productID := range []uint{5, 2, 8} {
		require.NoError(t, s.AddCartItem(ctx, 1, productID, 1))
	}

	items, err := s.CartItems(ctx, 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, uint(5), items[0].ProductID)
	require.Equal(t, uint(2), items[1].ProductID)
	require.Equal(t, uint(8), items[2].ProductID)
}
