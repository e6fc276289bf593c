package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jmorales/inventario-pos/internal/application/dto"
	"github.com/jmorales/inventario-pos/internal/application/sales"
	"github.com/jmorales/inventario-pos/internal/domain"
	"github.com/jmorales/inventario-pos/internal/domain/entity"
	"github.com/jmorales/inventario-pos/internal/domain/repository"
)

// SalesHandler maneja el carrito de sesión y la confirmación de venta.
// El carrito vive en memoria por usuario autenticado; solo el checkout
// toca la base de datos.
type SalesHandler struct {
	carts       *sales.CartStore
	productRepo repository.ProductRepository
	commit      *sales.CommitSaleUseCase
	receiptPDF  sales.ReceiptPDFGenerator
}

// NewSalesHandler construye el handler.
func NewSalesHandler(
	carts *sales.CartStore,
	productRepo repository.ProductRepository,
	commit *sales.CommitSaleUseCase,
	receiptPDF sales.ReceiptPDFGenerator,
) *SalesHandler {
	return &SalesHandler{
		carts:       carts,
		productRepo: productRepo,
		commit:      commit,
		receiptPDF:  receiptPDF,
	}
}

// GetCart godoc
// @Summary      Ver carrito
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/sales/cart [get]
func (h *SalesHandler) GetCart(c *fiber.Ctx) error {
	cart := h.carts.Get(GetUserID(c))
	return c.JSON(cart.ToResponse())
}

// resolveProduct busca el producto por ID o por código de barras.
func (h *SalesHandler) resolveProduct(in dto.AddCartItemRequest) (*entity.Product, error) {
	if in.ProductID != "" {
		return h.productRepo.GetByID(in.ProductID)
	}
	return h.productRepo.GetByBarcode(in.Barcode)
}

// AddItem godoc
// @Summary      Agregar producto al carrito
// @Description  Acepta product_id o barcode. Cada llamada suma 1 a la línea del producto; la línea nueva entra con cantidad 1.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartItemRequest  true  "Producto a agregar"
// @Success      200   {object}  dto.CartResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/cart/items [post]
func (h *SalesHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" && in.Barcode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id o barcode es requerido"})
	}

	product, err := h.resolveProduct(in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if product == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}

	cart := h.carts.Get(GetUserID(c))
	if err := cart.AddProduct(product); err != nil {
		switch err {
		case domain.ErrOutOfStock:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OUT_OF_STOCK", Message: "producto sin stock"})
		case domain.ErrInsufficientStock:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "no hay stock suficiente para otra unidad"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(cart.ToResponse())
}

// ChangeQuantity godoc
// @Summary      Ajustar cantidad de una línea
// @Description  Aplica delta (típicamente +1/-1). Resultado <= 0 elimina la línea.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string  true  "ID del producto"
// @Param        body       body  dto.ChangeCartQuantityRequest  true  "Delta"
// @Success      200        {object}  dto.CartResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.ErrorResponse
// @Router       /api/sales/cart/items/{productID} [put]
func (h *SalesHandler) ChangeQuantity(c *fiber.Ctx) error {
	productID := c.Params("productID")
	var in dto.ChangeCartQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cart := h.carts.Get(GetUserID(c))
	if err := cart.ChangeQuantity(productID, in.Delta); err != nil {
		switch err {
		case domain.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la línea no está en el carrito"})
		case domain.ErrInsufficientStock:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "la cantidad excede el stock disponible"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(cart.ToResponse())
}

// RemoveItem godoc
// @Summary      Quitar línea del carrito
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        productID  path  string  true  "ID del producto"
// @Success      200        {object}  dto.CartResponse
// @Router       /api/sales/cart/items/{productID} [delete]
func (h *SalesHandler) RemoveItem(c *fiber.Ctx) error {
	cart := h.carts.Get(GetUserID(c))
	cart.RemoveLine(c.Params("productID"))
	return c.JSON(cart.ToResponse())
}

// ClearCart godoc
// @Summary      Vaciar carrito
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/sales/cart [delete]
func (h *SalesHandler) ClearCart(c *fiber.Ctx) error {
	cart := h.carts.Get(GetUserID(c))
	cart.Clear()
	return c.JSON(cart.ToResponse())
}

// Checkout godoc
// @Summary      Confirmar venta
// @Description  Revalida el stock de todas las líneas dentro de una transacción, inserta las salidas en el libro y devuelve el recibo. commit_id es la clave de idempotencia: reintentos con la misma clave devuelven el recibo ya confirmado.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitSaleRequest  false  "Clave de idempotencia opcional"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  map[string]interface{}
// @Router       /api/sales/checkout [post]
func (h *SalesHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CommitSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	receipt, err := h.commit.Commit(c.UserContext(), GetUserID(c), in.CommitID)
	if err != nil {
		var insufficient *sales.InsufficientStockError
		if errors.As(err, &insufficient) {
			// Todas las líneas insuficientes, no solo la primera.
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"code":    "INSUFFICIENT_STOCK",
				"message": "stock insuficiente en una o más líneas, la venta no se aplicó",
				"lines":   insufficient.Lines,
			})
		}
		switch err {
		case domain.ErrEmptyCart:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: "el carrito está vacío"})
		case domain.ErrUserNotFound:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no válido"})
		case domain.ErrNotFound:
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRODUCT_GONE", Message: "un producto del carrito ya no existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if receipt.AlreadyDone {
		return c.JSON(receipt)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// GetReceipt godoc
// @Summary      Obtener recibo de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        saleID  path  string  true  "ID de la venta (transaction_id)"
// @Success      200     {object}  dto.ReceiptResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/sales/{saleID}/receipt [get]
func (h *SalesHandler) GetReceipt(c *fiber.Ctx) error {
	receipt, err := h.commit.Receipt(c.UserContext(), c.Params("saleID"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(receipt)
}

// GetReceiptPDF godoc
// @Summary      Descargar recibo en PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        saleID  path  string  true  "ID de la venta (transaction_id)"
// @Success      200     {file}  binary
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/sales/{saleID}/receipt.pdf [get]
func (h *SalesHandler) GetReceiptPDF(c *fiber.Ctx) error {
	receipt, err := h.commit.Receipt(c.UserContext(), c.Params("saleID"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	pdfBytes, err := h.receiptPDF.GenerateReceiptPDF(c.UserContext(), receipt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="recibo-`+receipt.SaleID+`.pdf"`)
	return c.Send(pdfBytes)
}
