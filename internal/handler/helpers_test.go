package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reportes/internal/middleware"
	"reportes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestResponderError(t *testing.T) {
	casos := []struct {
		nombre string
		err    error
		status int
		body   string
	}{
		{"no encontrado envuelto", fmt.Errorf("buscando: %w", service.ErrNoEncontrado), http.StatusNotFound, `{"detail":"Recurso no encontrado"}`},
		{"estado invalido", service.ErrEstadoInvalido, http.StatusBadRequest, `{"detail":"Esta transacción no está pendiente ni en conflicto para procesamiento."}`},
		{"ya resuelto", service.ErrConflictoResuelto, http.StatusBadRequest, `{"detail":"Este conflicto ya fue resuelto."}`},
		{"no en papelera", service.ErrNoEnPapelera, http.StatusBadRequest, `{"detail":"El elemento no está en la papelera."}`},
		{"conflicto de referencias", &service.ConflictoReferenciaError{Detalles: map[string]string{"producto": "El producto 'X' no existe."}},
			http.StatusConflict, `{"detail":"Se encontraron conflictos.","detalles":{"producto":"El producto 'X' no existe."}}`},
		{"archivo", &service.ArchivoError{Mensaje: "Faltan columnas.", Err: service.ErrFormatoArchivo}, http.StatusBadRequest, `{"detail":"Faltan columnas."}`},
		{"duplicado", service.ErrDuplicado, http.StatusConflict, `{"detail":"Ya existe un registro activo con esos datos."}`},
		{"conflicto obsoleto", service.ErrConflictoObsoleto, http.StatusConflict,
			`{"detail":"Otro registro activo ocupa el lugar del elemento a restaurar. Revise los conflictos pendientes."}`},
		{"carga en curso", service.ErrCargaEnCurso, http.StatusConflict, `{"detail":"Este archivo ya se está procesando."}`},
		{"archivo grande", service.ErrArchivoGrande, http.StatusRequestEntityTooLarge, `{"detail":"El archivo supera el tamaño máximo permitido."}`},
		{"cola", service.ErrColaNoDisponible, http.StatusServiceUnavailable, `{"detail":"La cola de procesamiento no está disponible."}`},
		{"interno", &service.ErrorInterno{Op: "crear venta", Err: errors.New("pq: deadlock")}, http.StatusInternalServerError, `{"detail":"Error interno del servidor"}`},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			responderError(c, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
		})
	}
}

func TestActorDe(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, service.Actor{}, actorDe(c))

	c.Set(middleware.ClaimsKey, &middleware.JWTClaims{
		UserID:   "8f14e45f-ceea-467f-a0e6-1b3c4d5e6f70",
		Username: "ana",
		Rol:      middleware.RolGerente,
	})
	a := actorDe(c)
	assert.Equal(t, "ana", a.Username)
	assert.True(t, a.Privilegiado)
	assert.Equal(t, "8f14e45f-ceea-467f-a0e6-1b3c4d5e6f70", a.ID.String())

	c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: "x", Rol: middleware.RolEmpleado})
	assert.False(t, actorDe(c).Privilegiado)
}

type conPrecio struct {
	Nombre string          `json:"nombre" validate:"required"`
	Precio decimal.Decimal `json:"precio" validate:"min=0"`
}

func TestBindAndValidate(t *testing.T) {
	casos := map[string]int{
		`{"nombre":"a","precio":"1.5"}`: http.StatusOK,
		`{"nombre":"a","precio":"-1"}`:  http.StatusUnprocessableEntity,
		`{"precio":"1"}`:                http.StatusUnprocessableEntity,
		`{`:                             http.StatusBadRequest,
	}
	for body, status := range casos {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var req conPrecio
		if bindAndValidate(c, &req) {
			c.Status(http.StatusOK)
		}
		require.Equal(t, status, w.Code, body)
	}
}
