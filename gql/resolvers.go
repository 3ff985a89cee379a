package gql

import (
	"context"

	"github.com/teebay/teebay-api/auth"
	"github.com/teebay/teebay-api/products"
	"github.com/teebay/teebay-api/users"
)

func (r *Resolver) products(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	f := products.Filter{
		OwnerID:        intArg(args, "ownerId"),
		BuyerID:        intArg(args, "buyerId"),
		CategoryID:     intArg(args, "categoryId"),
		ExcludeOwnerID: intArg(args, "excludeOwnerId"),
	}
	if s := stringArg(args, "status"); s != nil {
		st := products.Status(*s)
		f.Status = &st
	}
	if n := intArg(args, "limit"); n != nil {
		f.Limit = *n
	}
	if n := intArg(args, "offset"); n != nil {
		f.Offset = *n
	}
	list, err := r.Products.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return productViews(list), nil
}

func (r *Resolver) productsInactive(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	list, err := r.Products.ListInactive(ctx)
	if err != nil {
		return nil, err
	}
	return productViews(list), nil
}

func (r *Resolver) product(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	p, err := r.Products.Get(ctx, *intArg(args, "id"))
	if err != nil {
		return nil, err
	}
	return productView(p), nil
}

func (r *Resolver) user(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	u, err := r.Users.GetByEmail(ctx, *stringArg(args, "email"))
	if err != nil {
		return nil, err
	}
	return userWithProductsView(u), nil
}

func (r *Resolver) categories(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	list, err := r.Products.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return categoryViews(list), nil
}

func (r *Resolver) addProduct(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	ownerID, err := actingUser(ctx, intArg(args, "userId"))
	if err != nil {
		return nil, err
	}
	req := products.CreateProductRequest{
		Name:      *stringArg(args, "name"),
		Price:     *floatArg(args, "price"),
		RentPrice: floatArg(args, "rentPrice"),
		RentType:  rentTypeArg(args),
	}
	if d := stringArg(args, "description"); d != nil {
		req.Description = *d
	}
	if c := intsArg(args, "categories"); c != nil {
		req.Categories = *c
	}
	p, err := r.Products.Create(ctx, ownerID, req)
	if err != nil {
		return nil, err
	}
	return productView(p), nil
}

func (r *Resolver) updateProduct(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID, err := actingUser(ctx, nil)
	if err != nil {
		return nil, err
	}
	upd := products.ProductUpdate{
		Name:        stringArg(args, "name"),
		Description: stringArg(args, "description"),
		Price:       floatArg(args, "price"),
		RentPrice:   floatArg(args, "rentPrice"),
		RentType:    rentTypeArg(args),
		Categories:  intsArg(args, "categories"),
	}
	p, err := r.Products.Update(ctx, userID, *intArg(args, "id"), upd)
	if err != nil {
		return nil, err
	}
	return productView(p), nil
}

func (r *Resolver) deleteProduct(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID, err := actingUser(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := r.Products.Delete(ctx, userID, *intArg(args, "id")); err != nil {
		return nil, err
	}
	return "Product deleted successfully", nil
}

func (r *Resolver) markProductAsSold(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	buyerID, err := actingUser(ctx, intArg(args, "buyerId"))
	if err != nil {
		return nil, err
	}
	p, err := r.Products.Buy(ctx, buyerID, *intArg(args, "id"), intArg(args, "userId"))
	if err != nil {
		return nil, err
	}
	return productView(p), nil
}

func (r *Resolver) markProductAsRented(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	renterID, err := actingUser(ctx, intArg(args, "buyerId"))
	if err != nil {
		return nil, err
	}
	var start, end string
	if s := stringArg(args, "rentStart"); s != nil {
		start = *s
	}
	if e := stringArg(args, "rentEnd"); e != nil {
		end = *e
	}
	p, err := r.Products.Rent(ctx, renterID, *intArg(args, "id"), intArg(args, "userId"), start, end)
	if err != nil {
		return nil, err
	}
	return productView(p), nil
}

func (r *Resolver) addUser(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	req := auth.SignupRequest{
		FirstName: *stringArg(args, "firstName"),
		LastName:  *stringArg(args, "lastName"),
		Email:     *stringArg(args, "email"),
		Password:  *stringArg(args, "password"),
	}
	if a := stringArg(args, "address"); a != nil {
		req.Address = *a
	}
	resp, err := r.Auth.Signup(ctx, req)
	if err != nil {
		return nil, err
	}
	return userView(resp.User), nil
}

func (r *Resolver) updateUser(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	userID, err := actingUser(ctx, intArg(args, "userId"))
	if err != nil {
		return nil, err
	}
	u, err := r.Users.UpdateProfile(ctx, userID, users.UpdateProfileRequest{
		FirstName: stringArg(args, "firstName"),
		LastName:  stringArg(args, "lastName"),
		Email:     stringArg(args, "email"),
		Address:   stringArg(args, "address"),
	})
	if err != nil {
		return nil, err
	}
	return userView(u), nil
}

func (r *Resolver) login(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	resp, err := r.Auth.Login(ctx, auth.LoginRequest{
		Email:    *stringArg(args, "email"),
		Password: *stringArg(args, "password"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"token": resp.Token, "userId": resp.UserID}, nil
}
