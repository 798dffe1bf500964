package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service"
	"storefront-checkout/internal/validator"

	"github.com/gin-gonic/gin"
)

type CheckoutSubmitter interface {
	Submit(ctx context.Context, draft model.OrderDraft, cart service.Cart) (service.Outcome, error)
}

type CartFinder interface {
	Find(ctx context.Context, cartID string) (service.Cart, error)
}

// MongoCarts adapta el repositorio de carritos a CartFinder.
type MongoCarts struct {
	Repo *repository.MongoCartRepository
}

func (m MongoCarts) Find(ctx context.Context, cartID string) (service.Cart, error) {
	cart, err := m.Repo.Find(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

type CODPolicy interface {
	Enabled() bool
	IsAllowed(department, city string) bool
	Label() string
}

type ReferenceData interface {
	Departments(ctx context.Context) []model.Department
	CallingCodes(ctx context.Context) []model.CallingCode
}

type CheckoutController struct {
	Service   CheckoutSubmitter
	Carts     CartFinder
	COD       CODPolicy
	Reference ReferenceData
	Builder   *service.OrderBuilder
}

func NewCheckoutController(s CheckoutSubmitter, carts CartFinder, cod CODPolicy, ref ReferenceData, b *service.OrderBuilder) *CheckoutController {
	return &CheckoutController{Service: s, Carts: carts, COD: cod, Reference: ref, Builder: b}
}

// POST /checkout
func (ctl *CheckoutController) Submit(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := ctl.Carts.Find(c.Request.Context(), req.CartID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "carrito no encontrado"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out, err := ctl.Service.Submit(c.Request.Context(), req.ToDraft(cart.Items()), cart)
	switch {
	case errors.Is(err, service.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "ya hay un pedido en proceso para este carrito"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if out.State == service.StateRejected {
		c.JSON(http.StatusUnprocessableEntity, validationResponse(out.Errors))
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		State:       string(out.State),
		Order:       out.Order,
		RedirectURL: out.RedirectURL,
	})
}

func validationResponse(errs validator.FieldErrors) dto.ValidationErrorResponse {
	res := dto.ValidationErrorResponse{
		Error:  "revisa los datos del formulario",
		Fields: make(map[string]string, len(errs)),
	}
	for f, msg := range errs {
		res.Fields[string(f)] = msg
	}
	if f, _, ok := errs.First(); ok {
		res.FirstField = string(f)
	}
	return res
}

// GET /checkout/cod-eligibility?department=&city=
func (ctl *CheckoutController) CODEligibility(c *gin.Context) {
	dept := c.Query("department")
	city := c.Query("city")

	if ctl.COD.IsAllowed(dept, city) {
		c.JSON(http.StatusOK, dto.EligibilityResponse{Allowed: true})
		return
	}
	c.JSON(http.StatusOK, dto.EligibilityResponse{Allowed: false, Message: validator.CODDisabledMessageFor(ctl.COD.Label())})
}

// GET /shipping-policy
func (ctl *CheckoutController) ShippingPolicy(c *gin.Context) {
	express := ctl.Builder.ShippingCost(model.ShippingExpress)
	sections := []string{
		"Envío estándar gratis a todo Colombia: entrega de 3 a 5 días hábiles.",
		fmt.Sprintf("Envío express por $%s COP: entrega de 1 a 2 días hábiles en ciudades principales.", formatCOP(express)),
		"Los pedidos pagados con tarjeta o PSE se despachan una vez la pasarela confirma el pago.",
	}
	cod := ctl.COD.Enabled()
	if cod {
		sections = append(sections, fmt.Sprintf("Pago contra entrega disponible únicamente en %s. Paga en efectivo al recibir tu pedido.", ctl.COD.Label()))
	}

	c.JSON(http.StatusOK, dto.ShippingPolicyResponse{
		StandardCost:   ctl.Builder.ShippingCost(model.ShippingStandard),
		ExpressCost:    express,
		CashOnDelivery: cod,
		Sections:       sections,
	})
}

// GET /reference/departments
func (ctl *CheckoutController) Departments(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Reference.Departments(c.Request.Context()))
}

// GET /reference/calling-codes
func (ctl *CheckoutController) CallingCodes(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.Reference.CallingCodes(c.Request.Context()))
}

// formatCOP agrega separador de miles con punto: 15000 -> 15.000
func formatCOP(v int64) string {
	s := fmt.Sprintf("%d", v)
	neg := false
	if v < 0 {
		neg = true
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// RegisterRoutes monta las rutas públicas del checkout.
func (ctl *CheckoutController) RegisterRoutes(r gin.IRouter) {
	r.POST("/checkout", ctl.Submit)
	r.GET("/checkout/cod-eligibility", ctl.CODEligibility)
	r.GET("/shipping-policy", ctl.ShippingPolicy)

	ref := r.Group("/reference")
	ref.GET("/departments", ctl.Departments)
	ref.GET("/calling-codes", ctl.CallingCodes)
}
