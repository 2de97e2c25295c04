package handler

import (
	"net/http"

	"reportes/internal/dto"
	"reportes/internal/service"

	"github.com/gin-gonic/gin"
)

// LibroHandler registers and lists sales and purchases entered directly,
// outside of the import flow.
type LibroHandler struct{ svc service.LibroService }

func NewLibroHandler(svc service.LibroService) *LibroHandler { return &LibroHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una venta
// @Description  Crea la venta y descuenta stock en la misma transacción.
// @Tags         libro
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.RegistrarVentaRequest true "Venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *LibroHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVenta(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RegistrarCompra godoc
// @Summary      Registrar una compra
// @Description  Crea la compra, suma stock y actualiza el último precio de compra.
// @Tags         libro
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.RegistrarCompraRequest true "Compra"
// @Success      201  {object} dto.CompraResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/compras [post]
func (h *LibroHandler) RegistrarCompra(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCompra(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LibroHandler) ListarVentas(c *gin.Context) {
	var filter dto.LibroFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LibroHandler) ListarCompras(c *gin.Context) {
	var filter dto.LibroFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarCompras(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
