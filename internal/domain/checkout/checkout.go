package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ranito1909/furniture-store/internal/domain/cart"
	"github.com/ranito1909/furniture-store/internal/domain/inventory"
	"github.com/ranito1909/furniture-store/internal/domain/order"
	"github.com/ranito1909/furniture-store/internal/domain/user"
)

// Sentinel errors for checkout gates.
var (
	ErrAlreadyFinalized = errors.New("checkout already finalized")
	ErrNoPaymentMethod  = errors.New("payment method not set")
)

// ItemNotFoundError indicates a cart leaf that resolves to no catalog item,
// neither by id nor by exact name.
type ItemNotFoundError struct {
	LeafName string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("no catalog item matches cart entry %q", e.LeafName)
}

// InsufficientStockError indicates a leaf requesting more units than the
// ledger holds.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("item %q: requested %d, only %d in stock", e.ItemName, e.Requested, e.Available)
}

// Process is one checkout attempt over a (user, cart, ledger) triple. It is
// created fresh per attempt via Service.Begin and is done once Finalize
// succeeds; a finished process rejects further finalization.
//
// Validate and ProcessPayment are pure checks usable on their own;
// SetPaymentMethod and SetAddress are ungated setters. Only Finalize has side
// effects, and a failure at any of its gates leaves the ledger, the order
// list, and the user's history untouched.
type Process struct {
	svc  *Service
	id   uuid.UUID
	user *user.User
	cart *cart.Cart

	paymentMethod string
	address       string
	finalized     bool
	summary       string
}

// Begin starts a checkout attempt for the user's cart. Neither is owned: the
// user comes from the registry, the cart from the per-user store.
func (s *Service) Begin(u *user.User, c *cart.Cart) *Process {
	return &Process{
		svc:  s,
		id:   uuid.New(),
		user: u,
		cart: c,
	}
}

// SetPaymentMethod records the payment method. Callable any time before finalize.
func (p *Process) SetPaymentMethod(method string) {
	p.paymentMethod = method
}

// SetAddress records the shipping address. Callable any time before finalize.
func (p *Process) SetAddress(address string) {
	p.address = address
}

// Validate checks, without mutating anything, that every cart leaf resolves
// to a catalog item and that the requested quantities are all in stock. The
// returned error identifies the first offending leaf.
func (p *Process) Validate(ctx context.Context) error {
	for _, leaf := range flatten(p.cart.Root()) {
		item, err := p.svc.resolve(ctx, leaf.ItemName)
		if err != nil {
			return err
		}
		if avail := p.svc.ledger.Quantity(ctx, item); leaf.Quantity > avail {
			return &InsufficientStockError{
				ItemName:  item.Name,
				Requested: leaf.Quantity,
				Available: avail,
			}
		}
	}
	return nil
}

// ProcessPayment runs the mock payment gateway: it fails only when no payment
// method has been set, and mutates nothing.
func (p *Process) ProcessPayment(ctx context.Context) error {
	if p.paymentMethod == "" {
		return ErrNoPaymentMethod
	}
	zctx.From(ctx).Debug("Payment accepted",
		zap.String("checkout_id", p.id.String()),
		zap.String("method", p.paymentMethod),
	)
	return nil
}

// Finalize is the terminal transition: already-finalized gate, validation,
// payment, then an all-or-nothing stock deduction, an order record, and a
// summary appended to the user's history. It returns the created order.
func (p *Process) Finalize(ctx context.Context) (*order.Order, error) {
	ctx, span := p.svc.tracer.Start(ctx, "checkout.Finalize")
	defer span.End()

	o, err := p.finalize(ctx)
	if err != nil {
		p.svc.failed.Add(ctx, 1)
		return nil, err
	}
	p.svc.finalized.Add(ctx, 1)
	return o, nil
}

func (p *Process) finalize(ctx context.Context) (*order.Order, error) {
	if p.finalized {
		return nil, ErrAlreadyFinalized
	}
	if err := p.Validate(ctx); err != nil {
		return nil, errors.Wrap(err, "validate cart")
	}
	if err := p.ProcessPayment(ctx); err != nil {
		return nil, errors.Wrap(err, "process payment")
	}

	leaves := flatten(p.cart.Root())
	deductions := make([]inventory.Deduction, 0, len(leaves))
	lines := make([]order.Line, 0, len(leaves))
	total := decimal.Zero
	for _, leaf := range leaves {
		item, err := p.svc.resolve(ctx, leaf.ItemName)
		if err != nil {
			return nil, err
		}
		deductions = append(deductions, inventory.Deduction{Item: item, Quantity: leaf.Quantity})
		lines = append(lines, order.Line{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  leaf.Quantity,
			UnitPrice: leaf.Effective,
		})
		total = total.Add(leaf.Price())
	}

	// The deduction is the last fallible gate. It re-checks stock under the
	// ledger lock, so concurrent attempts that both validated cannot oversell.
	if err := p.svc.ledger.Deduct(ctx, deductions); err != nil {
		return nil, errors.Wrap(err, "deduct stock")
	}

	o := &order.Order{
		UserEmail: p.user.Email,
		Items:     lines,
		Total:     total,
		Status:    order.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.svc.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	p.summary = renderSummary(p.user, lines, p.address, p.paymentMethod, total)
	p.user.AddOrder(p.summary)
	p.finalized = true

	zctx.From(ctx).Info("Checkout finalized",
		zap.String("checkout_id", p.id.String()),
		zap.Int64("order_id", o.ID),
		zap.String("user", p.user.Email),
		zap.String("total", total.StringFixed(2)),
	)
	return o, nil
}

// Summary returns the rendered order summary, or the empty string before a
// successful finalize.
func (p *Process) Summary() string {
	return p.summary
}

// renderSummary builds the human-readable order summary appended to the
// user's history.
func renderSummary(u *user.User, lines []order.Line, address, method string, total decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order for %s\n", u.Name)
	for _, line := range lines {
		fmt.Fprintf(&b, "  - %s x%d\n", line.Name, line.Quantity)
	}
	fmt.Fprintf(&b, "Ship to: %s\n", address)
	fmt.Fprintf(&b, "Payment: %s\n", method)
	fmt.Fprintf(&b, "Total: %s", total.StringFixed(2))
	return b.String()
}
