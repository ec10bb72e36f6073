// Package graphql exposes the catalog as a read-only GraphQL schema.
//
//	{ products(search: "mug", ordering: "-unit_price") { id name unit_price price_with_tax category { title } } }
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description":     &graphql.Field{Type: graphql.String},
		"top_product_id":  &graphql.Field{Type: graphql.Int},
		"num_of_products": &graphql.Field{Type: graphql.Int},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"slug":           &graphql.Field{Type: graphql.String},
		"description":    &graphql.Field{Type: graphql.String},
		"unit_price":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price_with_tax": &graphql.Field{Type: graphql.String},
		"price_rials":    &graphql.Field{Type: graphql.Float},
		"inventory":      &graphql.Field{Type: graphql.Int},
		"category":       &graphql.Field{Type: categoryType},
	},
})

func categoryMap(c *models.Category) map[string]interface{} {
	m := map[string]interface{}{
		"id":              int(c.ID),
		"title":           c.Title,
		"description":     c.Description,
		"num_of_products": int(c.NumOfProducts),
	}
	if c.TopProductID != nil {
		m["top_product_id"] = int(*c.TopProductID)
	}
	return m
}

func productMap(p services.ProductView) map[string]interface{} {
	m := map[string]interface{}{
		"id":             int(p.ID),
		"name":           p.Name,
		"slug":           p.Slug,
		"description":    p.Description,
		"unit_price":     p.UnitPrice.String(),
		"price_with_tax": p.PriceWithTax.String(),
		"price_rials":    float64(p.PriceRials),
		"inventory":      p.Inventory,
	}
	if p.Category != nil {
		m["category"] = categoryMap(p.Category)
	}
	return m
}

func uintArg(args map[string]interface{}, key string) (uint, bool) {
	n, ok := args[key].(int)
	if !ok || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

func pageArgs(args map[string]interface{}) orm.Pagination {
	page, _ := args["page"].(int)
	size, _ := args["page_size"].(int)
	return orm.Page(page, size)
}

// NewSchema builds the catalog schema over catalog.
func NewSchema(catalog *services.CatalogService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category_id": &graphql.ArgumentConfig{Type: graphql.Int},
					"search":      &graphql.ArgumentConfig{Type: graphql.String},
					"ordering":    &graphql.ArgumentConfig{Type: graphql.String},
					"page":        &graphql.ArgumentConfig{Type: graphql.Int},
					"page_size":   &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var f repositories.ProductFilter
					if id, ok := uintArg(p.Args, "category_id"); ok {
						f.CategoryID = &id
					}
					f.Search, _ = p.Args["search"].(string)
					f.Ordering, _ = p.Args["ordering"].(string)

					rows, _, err := catalog.ListProducts(p.Context, f, pageArgs(p.Args))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, len(rows))
					for i, row := range rows {
						out[i] = productMap(row)
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := uintArg(p.Args, "id")
					if !ok {
						return nil, services.ErrProductNotFound
					}
					v, err := catalog.GetProduct(p.Context, id)
					if err != nil {
						return nil, err
					}
					return productMap(*v), nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Args: graphql.FieldConfigArgument{
					"page":      &graphql.ArgumentConfig{Type: graphql.Int},
					"page_size": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, _, err := catalog.ListCategories(p.Context, pageArgs(p.Args))
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, len(rows))
					for i := range rows {
						out[i] = categoryMap(&rows[i])
					}
					return out, nil
				},
			},
			"category": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := uintArg(p.Args, "id")
					if !ok {
						return nil, services.ErrCategoryNotFound
					}
					c, err := catalog.GetCategory(p.Context, id)
					if err != nil {
						return nil, err
					}
					return categoryMap(c), nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}
