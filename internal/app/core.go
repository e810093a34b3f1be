package app

import (
	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"

	"github.com/ranito1909/furniture-store/internal/domain/checkout"
	"github.com/ranito1909/furniture-store/internal/domain/inventory"
	"github.com/ranito1909/furniture-store/internal/memory"
)

// Core bundles the wired domain services of the store: the stock ledger,
// the checkout service on top of it, and the in-memory boundary stores.
type Core struct {
	Ledger   *inventory.Ledger
	Checkout *checkout.Service
	Orders   *memory.OrderRepository
	Users    *memory.UserRegistry
	Carts    *memory.CartStore
}

// BuildCore constructs the domain services and connects them. It is the
// single place where service dependencies are decided.
func BuildCore(m *sdkapp.Telemetry) (*Core, error) {
	ledger := inventory.NewLedger()
	orders := memory.NewOrderRepository()

	svc, err := checkout.NewService(ledger, orders, m.TracerProvider(), m.MeterProvider())
	if err != nil {
		return nil, errors.Wrap(err, "create checkout service")
	}

	return &Core{
		Ledger:   ledger,
		Checkout: svc,
		Orders:   orders,
		Users:    memory.NewUserRegistry(),
		Carts:    memory.NewCartStore(),
	}, nil
}
