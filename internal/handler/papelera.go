package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"reportes/internal/dto"
	"reportes/internal/model"
	"reportes/internal/service"

	"github.com/gin-gonic/gin"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PapeleraHandler serves soft delete, trash listing/export and restore for
// every entity kind. The kind is bound when the route is registered.
type PapeleraHandler struct{ svc service.PapeleraService }

func NewPapeleraHandler(svc service.PapeleraService) *PapeleraHandler {
	return &PapeleraHandler{svc: svc}
}

// Eliminar godoc
// @Summary      Enviar a la papelera
// @Description  Borrado lógico. Para ventas y compras revierte el movimiento de stock.
// @Tags         papelera
// @Security     BearerAuth
// @Param        id   path     string true "UUID"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productos/{id} [delete]
func (h *PapeleraHandler) Eliminar(tipo model.TipoModelo) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := h.svc.Eliminar(c.Request.Context(), tipo, id, actorDe(c)); err != nil {
			responderError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Restaurar godoc
// @Summary      Restaurar desde la papelera
// @Description  Si ya existe un registro activo equivalente se crea un conflicto pendiente y se responde 202.
// @Tags         papelera
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID"
// @Success      200  {object} dto.ResultadoRestauracion
// @Success      202  {object} dto.ResultadoRestauracion
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/productos/{id}/restaurar [post]
func (h *PapeleraHandler) Restaurar(tipo model.TipoModelo) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		res, err := h.svc.Restaurar(c.Request.Context(), tipo, id, actorDe(c))
		if err != nil {
			responderError(c, err)
			return
		}
		status := http.StatusOK
		if res.Estado == dto.RestauracionConflicto {
			status = http.StatusAccepted
		}
		c.JSON(status, res)
	}
}

// Listar godoc
// @Summary      Listar la papelera
// @Tags         papelera
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.ElementoPapelera
// @Router       /v1/productos/papelera [get]
func (h *PapeleraHandler) Listar(tipo model.TipoModelo) gin.HandlerFunc {
	return func(c *gin.Context) {
		elementos, err := h.svc.ListarPapelera(c.Request.Context(), tipo)
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, elementos)
	}
}

// Exportar godoc
// @Summary      Exportar la papelera a Excel
// @Tags         papelera
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file} file
// @Router       /v1/productos/papelera/exportar [get]
func (h *PapeleraHandler) Exportar(tipo model.TipoModelo) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := h.svc.ExportarPapelera(c.Request.Context(), tipo, &buf); err != nil {
			responderError(c, err)
			return
		}
		nombre := fmt.Sprintf("papelera_%s_%s.xlsx", strings.ToLower(string(tipo)), time.Now().Format("20060102"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nombre))
		c.Data(http.StatusOK, mimeXLSX, buf.Bytes())
	}
}
