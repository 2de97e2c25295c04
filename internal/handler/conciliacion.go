package handler

import (
	"net/http"

	"reportes/internal/dto"
	"reportes/internal/service"

	"github.com/gin-gonic/gin"
)

// ConciliacionHandler serves the staged sales and purchases. Every method
// takes the staged kind and returns the gin handler for it, so both
// /ventas-importadas and /compras-importadas share one implementation.
type ConciliacionHandler struct{ svc service.ConciliacionService }

func NewConciliacionHandler(svc service.ConciliacionService) *ConciliacionHandler {
	return &ConciliacionHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar filas importadas
// @Description  Filtra por estado e importado_por. Los empleados solo ven sus propias importaciones.
// @Tags         conciliacion
// @Produce      json
// @Security     BearerAuth
// @Param        estado        query string false "PENDIENTE | CONFLICTO | PROCESADO | IGNORADO"
// @Param        importado_por query string false "UUID del usuario"
// @Param        page          query int    false "Página"
// @Param        limit         query int    false "Tamaño de página"
// @Success      200  {object} dto.VentaImportadaListResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/ventas-importadas [get]
// @Router       /v1/compras-importadas [get]
func (h *ConciliacionHandler) Listar(tipo service.TipoImportacion) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter dto.ImportacionFilter
		if !bindQuery(c, &filter) {
			return
		}
		var (
			resp any
			err  error
		)
		if tipo == service.ImportacionVenta {
			resp, err = h.svc.ListarVentasImportadas(c.Request.Context(), filter, actorDe(c))
		} else {
			resp, err = h.svc.ListarComprasImportadas(c.Request.Context(), filter, actorDe(c))
		}
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (h *ConciliacionHandler) Obtener(tipo service.TipoImportacion) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var (
			resp any
			err  error
		)
		if tipo == service.ImportacionVenta {
			resp, err = h.svc.ObtenerVentaImportada(c.Request.Context(), id, actorDe(c))
		} else {
			resp, err = h.svc.ObtenerCompraImportada(c.Request.Context(), id, actorDe(c))
		}
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Procesar godoc
// @Summary      Procesar una fila importada
// @Description  Resuelve producto y contraparte por nombre. Si alguno no existe la fila queda en CONFLICTO y se responde 409 con los detalles.
// @Tags         conciliacion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la fila importada"
// @Success      200  {object} dto.ResultadoProceso
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.ConflictError
// @Router       /v1/ventas-importadas/{id}/procesar [post]
// @Router       /v1/compras-importadas/{id}/procesar [post]
func (h *ConciliacionHandler) Procesar(tipo service.TipoImportacion) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		res, err := h.svc.Procesar(c.Request.Context(), tipo, id, actorDe(c))
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// Ignorar godoc
// @Summary      Descartar una fila importada
// @Tags         conciliacion
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la fila importada"
// @Success      200  {object} dto.VentaImportadaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas-importadas/{id}/ignorar [post]
// @Router       /v1/compras-importadas/{id}/ignorar [post]
func (h *ConciliacionHandler) Ignorar(tipo service.TipoImportacion) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var (
			resp any
			err  error
		)
		if tipo == service.ImportacionVenta {
			resp, err = h.svc.IgnorarVenta(c.Request.Context(), id, actorDe(c))
		} else {
			resp, err = h.svc.IgnorarCompra(c.Request.Context(), id, actorDe(c))
		}
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ProcesarLote godoc
// @Summary      Encolar el procesamiento de varias filas
// @Description  Cada id se procesa en segundo plano por el pool de workers.
// @Tags         conciliacion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.ProcesarLoteRequest true "IDs a procesar"
// @Success      202  {object} dto.ProcesarLoteResponse
// @Failure      422  {object} apierror.ValidationError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/ventas-importadas/procesar-lote [post]
// @Router       /v1/compras-importadas/procesar-lote [post]
func (h *ConciliacionHandler) ProcesarLote(tipo service.TipoImportacion) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ProcesarLoteRequest
		if !bindAndValidate(c, &req) {
			return
		}
		res, err := h.svc.EncolarLote(c.Request.Context(), tipo, req.IDs, actorDe(c))
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, res)
	}
}
