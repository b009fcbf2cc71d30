// Package checkout turns the cart and the checkout form into an order.
package checkout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/internal/store"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

type orderCreator interface {
	Create(ctx context.Context, input orders.CreatePayload) (*orders.Order, error)
}

// Summary is what the checkout page shows.
type Summary struct {
	Form  Form            `json:"form"`
	Items []cart.Item     `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Result describes a placed order.
type Result struct {
	OrderID int64           `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
	Order   *orders.Order   `json:"order"`
}

type Service struct {
	store  *store.Container
	orders orderCreator
	logg   *logger.Logger
}

func NewService(container *store.Container, creator orderCreator, logg *logger.Logger) (*Service, error) {
	if container == nil {
		return nil, fmt.Errorf("state container is required")
	}
	if creator == nil {
		return nil, fmt.Errorf("order service is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{store: container, orders: creator, logg: logg}, nil
}

// Summary returns the cart and a form prefilled from the session user.
func (s *Service) Summary() (Summary, error) {
	snap := s.store.Snapshot()
	if !snap.Session.Authenticated() {
		return Summary{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}
	return Summary{
		Form:  Prefill(snap.Session.User),
		Items: snap.Cart.Items,
		Total: cart.Total(snap.Cart),
		Count: cart.Count(snap.Cart),
	}, nil
}

// Submit validates the form, places the order and removes the ordered lines
// from the cart. On any failure the cart is left as it was.
func (s *Service) Submit(ctx context.Context, form Form) (*Result, error) {
	snap := s.store.Snapshot()
	user := snap.Session.User
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to check out")
	}
	total := cart.Total(snap.Cart)
	ctx = s.logg.WithUserID(ctx, strconv.FormatInt(user.ID, 10))

	result, err := s.submit(ctx, user, snap.Cart, form.normalized(), total)
	if err != nil {
		reason := err.Error()
		if typed := pkgerrors.As(err); typed != nil {
			reason = typed.Message()
		}
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"reason":     reason,
			"total":      total.String(),
			"itemsCount": len(snap.Cart.Items),
		}), "checkout.failed")
		return nil, err
	}

	s.store.Dispatch(cart.RemoveOrdered{Items: snap.Cart.Items})
	return result, nil
}

func (s *Service) submit(ctx context.Context, user *session.User, c cart.State, form Form, total decimal.Decimal) (*Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	items, err := orderItems(c)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, orders.CreatePayload{
		CustomerName:  form.Name,
		CustomerPhone: form.Phone,
		CustomerEmail: form.Email,
		Address:       form.Address,
		Note:          form.Note,
		UserID:        user.ID,
		Items:         items,
	})
	if err != nil {
		return nil, err
	}

	logged := make([]map[string]any, 0, len(items))
	for _, it := range items {
		logged = append(logged, map[string]any{
			"productId":   it.ProductID,
			"productName": it.ProductName,
			"price":       it.Price.String(),
			"quantity":    it.Quantity,
		})
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"orderId":       order.ID,
		"total":         total.String(),
		"paymentMethod": form.PaymentMethod,
		"items":         logged,
	}), "checkout.success")

	return &Result{OrderID: order.ID, Total: total, Order: order}, nil
}

func orderItems(c cart.State) ([]orders.ItemPayload, error) {
	items := make([]orders.ItemPayload, 0, len(c.Items))
	for _, it := range c.Items {
		id, err := strconv.ParseInt(it.ID.String(), 10, 64)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains an unknown product").
				WithDetails(map[string]string{"productId": it.ID.String()})
		}
		items = append(items, orders.ItemPayload{
			ProductID:    id,
			ProductName:  it.Name,
			ProductImage: it.Image,
			Price:        it.Price,
			Quantity:     it.Quantity,
		})
	}
	return items, nil
}
