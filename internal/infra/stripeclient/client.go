package stripeclient

import (
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// Client is the narrow slice of the Stripe API this service touches.
// Handlers depend on it so tests can substitute a fake.
type Client interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	GetCustomer(id string) (*stripe.Customer, error)
}

type apiClient struct {
	api *client.API
}

// New builds a Client bound to the given secret key. The key is scoped to
// this client, not the package-global stripe.Key.
func New(secretKey string) Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &apiClient{api: api}
}

func (c *apiClient) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return c.api.CheckoutSessions.New(params)
}

func (c *apiClient) GetCheckoutSession(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return c.api.CheckoutSessions.Get(id, params)
}

func (c *apiClient) GetSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return c.api.Subscriptions.Get(id, params)
}

func (c *apiClient) GetCustomer(id string) (*stripe.Customer, error) {
	return c.api.Customers.Get(id, nil)
}
