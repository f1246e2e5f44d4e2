package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"jewel-backoffice-be/internal/config"
	"jewel-backoffice-be/internal/dto"
	"jewel-backoffice-be/internal/entity"
	"jewel-backoffice-be/internal/pkg/mailer"
	"jewel-backoffice-be/internal/repository/specification"
	"jewel-backoffice-be/internal/repository/unitofwork"

	"jewel-backoffice-be/pkg/events"
	pktNats "jewel-backoffice-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

type IBillingService interface {
	CreateCart(ctx context.Context, req *dto.CreateCartRequest) (*dto.CartResponse, error)
	UpdateCart(ctx context.Context, cartId uuid.UUID, req *dto.UpdateCartRequest) (*dto.CartResponse, error)
	GetCart(ctx context.Context, cartId uuid.UUID) (*dto.CartResponse, error)
	ListCarts(ctx context.Context) ([]*dto.CartResponse, error)
	Checkout(ctx context.Context, cartId uuid.UUID, req *dto.CheckoutRequest) (*dto.InvoiceResponse, error)
	RecordPayment(ctx context.Context, invoiceId uuid.UUID, req *dto.RecordPaymentRequest) (*dto.InvoiceResponse, error)
	GetInvoice(ctx context.Context, invoiceId uuid.UUID) (*dto.InvoiceResponse, error)
	ListInvoices(ctx context.Context) ([]*dto.InvoiceResponse, error)
}

type billingService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	cfg            config.BillingConfig
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	cfg config.BillingConfig,
) IBillingService {
	return &billingService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		cfg:            cfg,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// recalculate rebuilds every derived amount on the cart from its items.
func recalculate(cart *entity.Cart) {
	subtotal := 0.0
	for i := range cart.Items {
		cart.Items[i].LineTotal = round2(cart.Items[i].UnitPrice * float64(cart.Items[i].Quantity))
		subtotal += cart.Items[i].LineTotal
	}
	cart.Subtotal = round2(subtotal)

	taxable := cart.Subtotal - cart.DiscountAmount
	if taxable < 0 {
		taxable = 0
	}
	cart.TaxAmount = round2(taxable * cart.TaxRatePercent / 100)
	cart.TotalAmount = round2(taxable + cart.TaxAmount)
}

func breakdownOf(cart *entity.Cart) entity.PriceBreakdown {
	taxable := round2(cart.Subtotal - cart.DiscountAmount)
	if taxable < 0 {
		taxable = 0
	}
	half := round2(cart.TaxAmount / 2)
	return entity.PriceBreakdown{
		Subtotal:       cart.Subtotal,
		DiscountAmount: cart.DiscountAmount,
		TaxableAmount:  taxable,
		CGST:           half,
		SGST:           round2(cart.TaxAmount - half),
		TaxAmount:      cart.TaxAmount,
		TotalAmount:    cart.TotalAmount,
	}
}

func itemsOf(reqs []dto.CartItemRequest) []entity.CartItem {
	items := make([]entity.CartItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, entity.CartItem{
			Id:        uuid.New(),
			SKU:       r.SKU,
			Name:      r.Name,
			UnitPrice: r.UnitPrice,
			Quantity:  r.Quantity,
		})
	}
	return items
}

func cartResponseOf(cart *entity.Cart) *dto.CartResponse {
	resp := &dto.CartResponse{
		Id:             cart.Id,
		CustomerName:   cart.CustomerName,
		CustomerPhone:  cart.CustomerPhone,
		CustomerEmail:  cart.CustomerEmail,
		Status:         string(cart.Status),
		DiscountAmount: cart.DiscountAmount,
		TaxRatePercent: cart.TaxRatePercent,
		Subtotal:       cart.Subtotal,
		TaxAmount:      cart.TaxAmount,
		TotalAmount:    cart.TotalAmount,
		CreatedAt:      cart.CreatedAt,
	}
	for _, item := range cart.Items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			SKU:       item.SKU,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return resp
}

func invoiceResponseOf(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		Id:             inv.Id,
		Number:         inv.Number,
		CartId:         inv.CartId,
		CustomerName:   inv.CustomerName,
		Subtotal:       inv.Breakdown.Subtotal,
		DiscountAmount: inv.Breakdown.DiscountAmount,
		TaxableAmount:  inv.Breakdown.TaxableAmount,
		CGST:           inv.Breakdown.CGST,
		SGST:           inv.Breakdown.SGST,
		TaxAmount:      inv.Breakdown.TaxAmount,
		TotalAmount:    inv.Breakdown.TotalAmount,
		PaidAmount:     inv.PaidAmount,
		Outstanding:    inv.Outstanding,
		PaymentStatus:  string(inv.PaymentStatus),
		PaymentLink:    inv.PaymentLink,
		CreatedAt:      inv.CreatedAt,
	}
}

func (s *billingService) CreateCart(ctx context.Context, req *dto.CreateCartRequest) (*dto.CartResponse, error) {
	cart := &entity.Cart{
		Id:             uuid.New(),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerEmail:  req.CustomerEmail,
		Status:         entity.CartStatusOpen,
		Items:          itemsOf(req.Items),
		DiscountAmount: req.DiscountAmount,
		TaxRatePercent: s.cfg.GSTRatePercent,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	recalculate(cart)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CartRepository().Create(ctx, cart); err != nil {
		return nil, err
	}
	return cartResponseOf(cart), nil
}

func (s *billingService) UpdateCart(ctx context.Context, cartId uuid.UUID, req *dto.UpdateCartRequest) (*dto.CartResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cart, err := uow.CartRepository().FindOne(ctx, specification.ByID{ID: cartId})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart not found")
	}
	if cart.Status != entity.CartStatusOpen {
		return nil, errors.New("cart is no longer open")
	}

	cart.Items = itemsOf(req.Items)
	cart.DiscountAmount = req.DiscountAmount
	cart.UpdatedAt = time.Now()
	recalculate(cart)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.CartRepository().ReplaceItems(ctx, cart.Id, cart.Items); err != nil {
		return nil, err
	}
	if err := uow.CartRepository().Update(ctx, cart); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return cartResponseOf(cart), nil
}

func (s *billingService) GetCart(ctx context.Context, cartId uuid.UUID) (*dto.CartResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cart, err := uow.CartRepository().FindOne(ctx, specification.ByID{ID: cartId})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart not found")
	}
	return cartResponseOf(cart), nil
}

func (s *billingService) ListCarts(ctx context.Context) ([]*dto.CartResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	carts, err := uow.CartRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CartResponse, 0, len(carts))
	for _, cart := range carts {
		out = append(out, cartResponseOf(cart))
	}
	return out, nil
}

func (s *billingService) Checkout(ctx context.Context, cartId uuid.UUID, req *dto.CheckoutRequest) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cart, err := uow.CartRepository().FindOne(ctx, specification.ByID{ID: cartId})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart not found")
	}
	if cart.Status != entity.CartStatusOpen {
		return nil, errors.New("cart already checked out")
	}

	recalculate(cart)
	if req.PaidAmount > cart.TotalAmount {
		return nil, errors.New("paid amount exceeds cart total")
	}

	year := time.Now().Year()
	seq, err := uow.InvoiceRepository().NextSequence(ctx, year)
	if err != nil {
		return nil, err
	}

	invoice := &entity.Invoice{
		Id:           uuid.New(),
		Number:       fmt.Sprintf("INV-%d-%05d", year, seq),
		CartId:       cart.Id,
		CustomerName: cart.CustomerName,
		Breakdown:    breakdownOf(cart),
		PaidAmount:   round2(req.PaidAmount),
		CreatedAt:    time.Now(),
	}
	invoice.Outstanding = round2(invoice.Breakdown.TotalAmount - invoice.PaidAmount)
	invoice.PaymentStatus = paymentStatusFor(invoice.PaidAmount, invoice.Breakdown.TotalAmount)

	if invoice.Outstanding > 0 {
		link, linkErr := s.createPaymentLink(invoice, cart)
		if linkErr != nil {
			// The invoice is still valid without an online link;
			// operators can collect in store.
			fmt.Printf("Warning: payment link creation failed: %v\n", linkErr)
		} else {
			invoice.PaymentLink = link
		}
	}

	cart.Status = entity.CartStatusCheckedOut
	cart.UpdatedAt = time.Now()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.InvoiceRepository().Create(ctx, invoice); err != nil {
		return nil, err
	}
	if err := uow.CartRepository().Update(ctx, cart); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewInvoiceIssued(invoice.Id.String(), invoice.Number, invoice.Breakdown.TotalAmount)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("Warning: failed to publish invoice event: %v\n", err)
		}
	}

	if cart.CustomerEmail != "" {
		go func() {
			if emailErr := s.emailService.SendInvoice(cart.CustomerEmail, invoice.Number, invoice.PaymentLink, invoice.Breakdown.TotalAmount); emailErr != nil {
				fmt.Printf("Error sending invoice email: %v\n", emailErr)
			}
		}()
	}

	return invoiceResponseOf(invoice), nil
}

func paymentStatusFor(paid, total float64) entity.PaymentStatus {
	switch {
	case paid >= total:
		return entity.PaymentStatusPaid
	case paid > 0:
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusUnpaid
	}
}

// createPaymentLink opens a Midtrans Snap transaction for the unpaid
// remainder of an invoice.
func (s *billingService) createPaymentLink(invoice *entity.Invoice, cart *entity.Cart) (string, error) {
	var sClient snap.Client
	env := midtrans.Sandbox
	if s.cfg.MidtransEnv == "production" {
		env = midtrans.Production
	}
	sClient.New(s.cfg.MidtransKey, env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  invoice.Id.String(),
			GrossAmt: int64(math.Ceil(invoice.Outstanding)),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cart.CustomerName,
			Email: cart.CustomerEmail,
			Phone: cart.CustomerPhone,
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return "", fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}
	return snapResp.RedirectURL, nil
}

func (s *billingService) RecordPayment(ctx context.Context, invoiceId uuid.UUID, req *dto.RecordPaymentRequest) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: invoiceId})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errors.New("invoice not found")
	}
	if invoice.PaymentStatus == entity.PaymentStatusPaid {
		return nil, errors.New("invoice already paid")
	}
	if req.Amount > invoice.Outstanding {
		return nil, errors.New("payment exceeds outstanding amount")
	}

	invoice.PaidAmount = round2(invoice.PaidAmount + req.Amount)
	invoice.Outstanding = round2(invoice.Breakdown.TotalAmount - invoice.PaidAmount)
	invoice.PaymentStatus = paymentStatusFor(invoice.PaidAmount, invoice.Breakdown.TotalAmount)

	if err := uow.InvoiceRepository().Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoiceResponseOf(invoice), nil
}

func (s *billingService) GetInvoice(ctx context.Context, invoiceId uuid.UUID) (*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	invoice, err := uow.InvoiceRepository().FindOne(ctx, specification.ByID{ID: invoiceId})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, errors.New("invoice not found")
	}
	return invoiceResponseOf(invoice), nil
}

func (s *billingService) ListInvoices(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	invoices, err := uow.InvoiceRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		out = append(out, invoiceResponseOf(invoice))
	}
	return out, nil
}
