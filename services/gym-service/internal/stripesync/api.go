package stripesync

import (
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/price"
	"github.com/stripe/stripe-go/v79/product"
)

// API is the slice of the Stripe catalog endpoints used by the syncer.
type API interface {
	NewProduct(params *stripe.ProductParams) (*stripe.Product, error)
	UpdateProduct(id string, params *stripe.ProductParams) (*stripe.Product, error)
	NewPrice(params *stripe.PriceParams) (*stripe.Price, error)
	UpdatePrice(id string, params *stripe.PriceParams) (*stripe.Price, error)
}

// stripeAPI calls the package-level stripe-go clients, which read stripe.Key.
type stripeAPI struct{}

func (stripeAPI) NewProduct(params *stripe.ProductParams) (*stripe.Product, error) {
	return product.New(params)
}

func (stripeAPI) UpdateProduct(id string, params *stripe.ProductParams) (*stripe.Product, error) {
	return product.Update(id, params)
}

func (stripeAPI) NewPrice(params *stripe.PriceParams) (*stripe.Price, error) {
	return price.New(params)
}

func (stripeAPI) UpdatePrice(id string, params *stripe.PriceParams) (*stripe.Price, error) {
	return price.Update(id, params)
}
