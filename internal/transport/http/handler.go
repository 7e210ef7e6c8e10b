package httptransport

import (
	"errors"
	"net/http"

	appcart "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/cart"
	apporder "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/order"
	apppayment "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/payment"
	appreturns "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/application/returns"
	domcart "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/cart"
	dominv "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/inventory"
	domorder "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/order"
	domreturns "github.com/Fubuki233/WebAppDev-Ca-sub000/internal/domain/returns"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// customerHeader carries the caller identity. Session resolution belongs to
// the authentication collaborator; this layer only requires the header.
// Values read from it must be copied (utils.CopyString) before they escape
// the handler: fiber backs them with the request buffer, which is reused.
const customerHeader = "X-Customer-ID"

// Handler exposes the order workflow over HTTP. It stays thin: decode,
// delegate, map errors to status codes.
type Handler struct {
	carts    *appcart.Service
	orders   *apporder.Service
	payments *apppayment.Service
	returns  *appreturns.Service
}

func NewHandler(carts *appcart.Service, orders *apporder.Service, payments *apppayment.Service, returns *appreturns.Service) *Handler {
	return &Handler{carts: carts, orders: orders, payments: payments, returns: returns}
}

func (h *Handler) Register(app *fiber.App) {
	app.Post("/cart/items", h.AddCartLine)
	app.Delete("/cart/items/:id", h.RemoveCartLine)
	app.Get("/cart", h.GetCart)
	app.Post("/checkout", h.Checkout)
	app.Get("/orders/:id", h.GetOrder)
	app.Post("/orders/:id/payment", h.ProcessPayment)
	app.Post("/orders/:id/cancel", h.CancelOrder)
	app.Post("/orders/:id/delivery", h.ConfirmDelivery)
	app.Post("/returns", h.RequestReturn)
}

type addCartLineRequest struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
}

type cartLineResponse struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type addCartLineResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Line    cartLineResponse `json:"line"`
}

func (h *Handler) AddCartLine(c *fiber.Ctx) error {
	customerID := utils.CopyString(c.Get(customerHeader))
	if customerID == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}

	var req addCartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}

	line, err := h.carts.AddLine(c.UserContext(), customerID, req.ProductID, req.SKU, req.Quantity)
	if err != nil {
		return workflowError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(addCartLineResponse{
		Success: true,
		Message: "line added",
		Line:    toCartLineResponse(line),
	})
}

func (h *Handler) RemoveCartLine(c *fiber.Ctx) error {
	if c.Get(customerHeader) == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}
	if err := h.carts.RemoveLine(c.UserContext(), c.Params("id")); err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "message": "line removed"})
}

type getCartResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Lines   []cartLineResponse `json:"lines"`
	Total   string             `json:"total"`
}

func (h *Handler) GetCart(c *fiber.Ctx) error {
	customerID := utils.CopyString(c.Get(customerHeader))
	if customerID == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}

	lines, total, err := h.carts.List(c.UserContext(), customerID)
	if err != nil {
		return workflowError(c, err)
	}

	resp := getCartResponse{
		Success: true,
		Message: "ok",
		Lines:   make([]cartLineResponse, 0, len(lines)),
		Total:   total.StringFixed(2),
	}
	for i := range lines {
		resp.Lines = append(resp.Lines, toCartLineResponse(&lines[i]))
	}
	return c.JSON(resp)
}

type checkoutResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	OrderStatus string `json:"order_status"`
	TotalAmount string `json:"total_amount"`
}

func (h *Handler) Checkout(c *fiber.Ctx) error {
	customerID := utils.CopyString(c.Get(customerHeader))
	if customerID == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}

	result, err := h.orders.CreateOrder(c.UserContext(), customerID)
	if err != nil {
		return workflowError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(checkoutResponse{
		Success:     true,
		Message:     "order created",
		OrderID:     result.OrderID,
		OrderNumber: result.OrderNumber,
		OrderStatus: string(result.Status),
		TotalAmount: result.TotalAmount.StringFixed(2),
	})
}

type orderStatusResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	OrderID       string `json:"order_id"`
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

func (h *Handler) GetOrder(c *fiber.Ctx) error {
	if c.Get(customerHeader) == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}
	entity, err := h.orders.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(orderStatus(entity, "ok"))
}

func (h *Handler) ProcessPayment(c *fiber.Ctx) error {
	if c.Get(customerHeader) == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}
	orderID := c.Params("id")

	paid, err := h.payments.ProcessPayment(c.UserContext(), orderID)
	if err != nil {
		return workflowError(c, err)
	}

	entity, err := h.orders.Get(c.UserContext(), orderID)
	if err != nil {
		return workflowError(c, err)
	}
	msg := "payment confirmed"
	if !paid {
		msg = "payment failed"
	}
	resp := orderStatus(entity, msg)
	resp.Success = paid
	return c.JSON(resp)
}

func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	if c.Get(customerHeader) == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}
	entity, err := h.orders.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(orderStatus(entity, "order cancelled"))
}

func (h *Handler) ConfirmDelivery(c *fiber.Ctx) error {
	if c.Get(customerHeader) == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}
	entity, err := h.orders.ConfirmDelivery(c.UserContext(), c.Params("id"))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(orderStatus(entity, "delivery confirmed"))
}

type requestReturnRequest struct {
	OrderItemID string `json:"order_item_id"`
	Reason      string `json:"reason"`
}

type requestReturnResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ReturnID     string `json:"return_id"`
	ReturnStatus string `json:"return_status"`
}

func (h *Handler) RequestReturn(c *fiber.Ctx) error {
	customerID := utils.CopyString(c.Get(customerHeader))
	if customerID == "" {
		return failure(c, http.StatusUnauthorized, "customer identity is required")
	}

	var req requestReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return failure(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.returns.RequestReturn(c.UserContext(), customerID, req.OrderItemID, req.Reason)
	if err != nil {
		return workflowError(c, err)
	}

	msg := "return requested"
	if !result.Eligible {
		msg = "return window expired"
	}
	return c.JSON(requestReturnResponse{
		Success:      result.Eligible,
		Message:      msg,
		ReturnID:     result.ReturnID,
		ReturnStatus: string(result.Status),
	})
}

func toCartLineResponse(l *domcart.Line) cartLineResponse {
	return cartLineResponse{
		LineID:    l.ID,
		ProductID: l.ProductID,
		SKU:       l.SKU,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice.StringFixed(2),
	}
}

func orderStatus(o *domorder.Order, msg string) orderStatusResponse {
	return orderStatusResponse{
		Success:       true,
		Message:       msg,
		OrderID:       o.ID,
		OrderStatus:   string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
	}
}

func failure(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": msg})
}

// workflowError maps workflow error kinds onto HTTP status codes. Unexpected
// errors surface as 500 without leaking internals.
func workflowError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domcart.ErrEmpty),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, dominv.ErrInsufficientStock),
		errors.Is(err, domorder.ErrInvalidState):
		return failure(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domorder.ErrNotFound),
		errors.Is(err, domorder.ErrLineNotFound),
		errors.Is(err, domcart.ErrNotFound),
		errors.Is(err, dominv.ErrNotFound),
		errors.Is(err, domreturns.ErrNotFound):
		return failure(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domreturns.ErrUnauthorized):
		return failure(c, http.StatusForbidden, err.Error())
	default:
		return failure(c, http.StatusInternalServerError, "internal error")
	}
}
