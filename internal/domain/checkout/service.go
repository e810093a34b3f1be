// Package checkout ties carts, inventory, and orders together: it validates
// stock, mock-processes payment, and finalizes purchases atomically.
package checkout

import (
	"context"
	"strconv"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ranito1909/furniture-store/internal/domain/cart"
	"github.com/ranito1909/furniture-store/internal/domain/catalog"
	"github.com/ranito1909/furniture-store/internal/domain/inventory"
	"github.com/ranito1909/furniture-store/internal/domain/order"
)

// Service holds the dependencies shared by all checkout attempts: the stock
// ledger, the order repository, and telemetry. Per-attempt state lives on the
// Process values it begins.
type Service struct {
	ledger *inventory.Ledger
	orders order.Repository

	tracer    trace.Tracer
	finalized metric.Int64Counter
	failed    metric.Int64Counter
}

// NewService creates a checkout service over the given ledger and order
// repository. Telemetry providers may be no-op implementations in tests.
func NewService(
	ledger *inventory.Ledger,
	orders order.Repository,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (*Service, error) {
	meter := mp.Meter("checkout")

	finalized, err := meter.Int64Counter("checkout.finalized",
		metric.WithDescription("Checkouts finalized successfully"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create finalized counter")
	}
	failed, err := meter.Int64Counter("checkout.failed",
		metric.WithDescription("Checkout finalize attempts that failed a gate"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create failed counter")
	}

	return &Service{
		ledger:    ledger,
		orders:    orders,
		tracer:    tp.Tracer("checkout"),
		finalized: finalized,
		failed:    failed,
	}, nil
}

// resolve maps a cart leaf name to a tracked catalog item using the two-phase
// lookup: a name that parses as an integer refers to the item with that id;
// exact name equality applies only when no id matches.
func (s *Service) resolve(ctx context.Context, leafName string) (*catalog.Item, error) {
	if id, err := strconv.ParseInt(leafName, 10, 64); err == nil {
		if item, err := s.ledger.ItemByID(ctx, id); err == nil {
			return item, nil
		}
	}

	item, err := s.ledger.ItemByName(ctx, leafName)
	if err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			return nil, &ItemNotFoundError{LeafName: leafName}
		}
		return nil, errors.Wrapf(err, "resolve %q", leafName)
	}
	return item, nil
}

// flatten collects every leaf in the tree, depth-first with groups expanded
// in place. Order follows insertion order but is not significant.
func flatten(g *cart.Group) []*cart.Leaf {
	var leaves []*cart.Leaf
	for _, child := range g.Children() {
		switch n := child.(type) {
		case *cart.Leaf:
			leaves = append(leaves, n)
		case *cart.Group:
			leaves = append(leaves, flatten(n)...)
		}
	}
	return leaves
}
