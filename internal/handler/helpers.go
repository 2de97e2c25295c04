package handler

import (
	"errors"
	"net/http"
	"reflect"

	"reportes/internal/apierror"
	"reportes/internal/middleware"
	"reportes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Parametros invalidos: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses the :id path parameter, answering 400 when malformed.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// actorDe builds the service actor from the JWT claims. Only gerente is
// privileged.
func actorDe(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{}
	}
	id, _ := uuid.Parse(claims.UserID)
	return service.Actor{
		ID:           id,
		Username:     claims.Username,
		Privilegiado: claims.Rol == middleware.RolGerente,
	}
}

// responderError maps service errors to HTTP responses. Unknown errors are
// logged and answered with a generic 500.
func responderError(c *gin.Context, err error) {
	var conflicto *service.ConflictoReferenciaError
	var archivo *service.ArchivoError
	switch {
	case errors.As(err, &conflicto):
		c.JSON(http.StatusConflict, apierror.NewConflict(conflicto.Detalles))
	case errors.As(err, &archivo):
		c.JSON(http.StatusBadRequest, apierror.New(archivo.Mensaje))
	case errors.Is(err, service.ErrNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.Is(err, service.ErrEstadoInvalido),
		errors.Is(err, service.ErrConflictoResuelto),
		errors.Is(err, service.ErrNoEnPapelera),
		errors.Is(err, service.ErrResolucionInvalida),
		errors.Is(err, service.ErrTipoInvalido),
		errors.Is(err, service.ErrFormatoArchivo),
		errors.Is(err, service.ErrTipoNoDetectado):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrDuplicado),
		errors.Is(err, service.ErrConflictoObsoleto),
		errors.Is(err, service.ErrCargaEnCurso),
		errors.Is(err, service.ErrStockInsuficiente):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrArchivoGrande):
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New(err.Error()))
	case errors.Is(err, service.ErrColaNoDisponible):
		c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("error no controlado")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
