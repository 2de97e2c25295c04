package handler

import (
	"net/http"

	"reportes/internal/dto"
	"reportes/internal/service"

	"github.com/gin-gonic/gin"
)

type ConflictosHandler struct{ svc service.ConflictoService }

func NewConflictosHandler(svc service.ConflictoService) *ConflictosHandler {
	return &ConflictosHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar conflictos de restauración
// @Tags         conflictos
// @Produce      json
// @Security     BearerAuth
// @Param        estado      query string false "PENDIENTE | RESUELTO_RESTAURAR | RESUELTO_IGNORAR"
// @Param        tipo_modelo query string false "PRODUCTO | CLIENTE | PROVEEDOR | VENTA | COMPRA"
// @Success      200  {array}  dto.ConflictoResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/conflictos [get]
func (h *ConflictosHandler) Listar(c *gin.Context) {
	var filter dto.ConflictoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ConflictosHandler) Obtener(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resolver godoc
// @Summary      Resolver un conflicto
// @Description  RESTAURAR envía a la papelera el registro activo y restaura el borrado. IGNORAR solo cierra el conflicto.
// @Tags         conflictos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                       true "UUID del conflicto"
// @Param        body body     dto.ResolverConflictoRequest true "Resolución"
// @Success      200  {object} dto.ResolverConflictoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/conflictos/{id}/resolver [post]
func (h *ConflictosHandler) Resolver(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.ResolverConflictoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Resolver(c.Request.Context(), id, req.Resolucion, req.Notas, actorDe(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
