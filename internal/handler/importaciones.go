package handler

import (
	"io"
	"net/http"

	"reportes/internal/apierror"
	"reportes/internal/service"

	"github.com/gin-gonic/gin"
)

const campoArchivo = "file"

type ImportacionesHandler struct {
	svc      service.ImportacionService
	maxBytes int64
}

// NewImportacionesHandler builds the upload handler. maxBytes caps how much of
// the multipart file is read; zero means no cap.
func NewImportacionesHandler(svc service.ImportacionService, maxBytes int64) *ImportacionesHandler {
	return &ImportacionesHandler{svc: svc, maxBytes: maxBytes}
}

// CargarVentas godoc
// @Summary      Importar ventas desde Excel
// @Description  Lee la primera hoja del .xlsx y deja cada fila en staging como PENDIENTE o CONFLICTO.
// @Tags         importaciones
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Archivo .xlsx"
// @Success      200  {object} dto.ResultadoCarga
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      413  {object} apierror.APIError
// @Router       /v1/importaciones/ventas [post]
func (h *ImportacionesHandler) CargarVentas(c *gin.Context) { h.cargar(c, service.CargaVentas) }

// CargarCompras godoc
// @Summary      Importar compras desde Excel
// @Tags         importaciones
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Archivo .xlsx"
// @Success      200  {object} dto.ResultadoCarga
// @Failure      400  {object} apierror.APIError
// @Router       /v1/importaciones/compras [post]
func (h *ImportacionesHandler) CargarCompras(c *gin.Context) { h.cargar(c, service.CargaCompras) }

// CargarUnificado godoc
// @Summary      Importar ventas y compras desde un mismo libro
// @Description  Usa las hojas llamadas Ventas/Compras o detecta el tipo por las columnas Cliente/Proveedor.
// @Tags         importaciones
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Archivo .xlsx"
// @Success      200  {object} dto.ResultadoCarga
// @Failure      400  {object} apierror.APIError
// @Router       /v1/importaciones/unificado [post]
func (h *ImportacionesHandler) CargarUnificado(c *gin.Context) { h.cargar(c, service.CargaUnificado) }

func (h *ImportacionesHandler) cargar(c *gin.Context, tipo service.TipoCarga) {
	fh, err := c.FormFile(campoArchivo)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se envió ningún archivo."))
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		responderError(c, service.ErrArchivoGrande)
		return
	}
	f, err := fh.Open()
	if err != nil {
		responderError(c, err)
		return
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxBytes > 0 {
		// one extra byte lets the service see the file is over the limit
		r = io.LimitReader(f, h.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		responderError(c, service.ErrFormatoArchivo)
		return
	}

	res, err := h.svc.Cargar(c.Request.Context(), tipo, fh.Filename, data, actorDe(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
