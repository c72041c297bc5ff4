package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"comanda/internal/apperr"
	"comanda/internal/domain"
	"comanda/internal/services"
)

func newProductService(t *testing.T) (*services.ProductService, *env) {
	t.Helper()
	e := newEnv(t)
	return services.NewProductService(e.prods, 10), e
}

func validProduct() services.ProductInput {
	return services.ProductInput{
		Name:     "Lasagna",
		Price:    decimal.RequireFromString("11.50"),
		Stock:    12,
		Category: "MAIN_COURSE",
	}
}

func TestProductCreateAndGet(t *testing.T) {
	svc, e := newProductService(t)

	p, err := svc.Create(validProduct())
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "Lasagna", p.Name)
	require.NotEmpty(t, p.CreatedAt)

	got, err := e.prods.Get(p.ID)
	require.NoError(t, err)
	require.True(t, got.Price.Equal(decimal.RequireFromString("11.50")))
	require.Equal(t, domain.CategoryMainCourse, got.Category)
}

func TestProductCreate_DuplicateName(t *testing.T) {
	svc, _ := newProductService(t)

	in := validProduct()
	in.Name = "Espresso" // seeded
	_, err := svc.Create(in)
	require.True(t, apperr.IsConflict(err))
}

func TestProductCreate_Validation(t *testing.T) {
	svc, _ := newProductService(t)

	cases := map[string]func(*services.ProductInput){
		"blank name":        func(in *services.ProductInput) { in.Name = "  " },
		"negative price":    func(in *services.ProductInput) { in.Price = decimal.RequireFromString("-1") },
		"negative stock":    func(in *services.ProductInput) { in.Stock = -1 },
		"unknown category":  func(in *services.ProductInput) { in.Category = "SIDES" },
		"empty category":    func(in *services.ProductInput) { in.Category = "" },
		"lowercase catname": func(in *services.ProductInput) { in.Category = "drink" },
	}
	for name, mutate := range cases {
		in := validProduct()
		mutate(&in)
		_, err := svc.Create(in)
		require.True(t, apperr.IsInvalid(err), name)
	}
}

func TestProductUpdate(t *testing.T) {
	svc, _ := newProductService(t)

	p, err := svc.Create(validProduct())
	require.NoError(t, err)

	in := validProduct()
	in.Name = "Lasagna al forno"
	in.Price = decimal.RequireFromString("12.50")
	in.Stock = 4
	up, err := svc.Update(p.ID, in)
	require.NoError(t, err)
	require.Equal(t, "Lasagna al forno", up.Name)
	require.True(t, up.Price.Equal(decimal.RequireFromString("12.50")))
	require.Equal(t, 4, up.Stock)
	require.NotEmpty(t, up.UpdatedAt)

	_, err = svc.Update("missing", validProduct())
	require.True(t, apperr.IsNotFound(err))
}

func TestProductDeleteAndList(t *testing.T) {
	svc, _ := newProductService(t)

	before, err := svc.List()
	require.NoError(t, err)

	p, err := svc.Create(validProduct())
	require.NoError(t, err)

	after, err := svc.List()
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	require.NoError(t, svc.Delete(p.ID))
	require.True(t, apperr.IsNotFound(svc.Delete(p.ID)))
}

func TestProductListByCategory(t *testing.T) {
	svc, _ := newProductService(t)

	drinks, err := svc.ListByCategory("DRINK")
	require.NoError(t, err)
	require.NotEmpty(t, drinks)
	for _, p := range drinks {
		require.Equal(t, domain.CategoryDrink, p.Category)
	}

	_, err = svc.ListByCategory("SNACKS")
	require.True(t, apperr.IsInvalid(err))
}

func TestProductLowStock(t *testing.T) {
	svc, _ := newProductService(t)

	in := validProduct()
	in.Name = "Single portion special"
	in.Stock = 2
	p, err := svc.Create(in)
	require.NoError(t, err)

	alerts, err := svc.LowStock()
	require.NoError(t, err)

	var found bool
	for _, a := range alerts {
		require.Less(t, a.Stock, a.Threshold)
		if a.ProductID == p.ID {
			found = true
			require.Equal(t, 2, a.Stock)
			require.Equal(t, 10, a.Threshold)
		}
	}
	require.True(t, found)
}

func TestAdjustStock_GuardedDecrement(t *testing.T) {
	env := newEnv(t)
	env.mkProduct(t, "prod-p", "10.00", 3)

	require.NoError(t, env.prods.AdjustStock(env.db, "prod-p", -3))
	require.Equal(t, 0, env.stock(t, "prod-p"))

	// would go negative: rejected, value untouched
	err := env.prods.AdjustStock(env.db, "prod-p", -1)
	require.True(t, apperr.IsConflict(err))
	require.Equal(t, 0, env.stock(t, "prod-p"))

	// restock
	require.NoError(t, env.prods.AdjustStock(env.db, "prod-p", 5))
	require.Equal(t, 5, env.stock(t, "prod-p"))

	require.True(t, apperr.IsNotFound(env.prods.AdjustStock(env.db, "ghost", -1)))
}
