package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reportes/internal/config"
	"reportes/internal/infra"
	"reportes/internal/middleware"
	"reportes/internal/router"
	"reportes/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const secreto = "test-secret"

// ── Helpers ──────────────────────────────────────────────────────────────────

type app struct {
	engine   *gin.Engine
	rdb      *redis.Client
	gerente  string
	empleado string
}

func nuevaApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := infra.NewDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Env:                   "test",
		JWTSecret:             secreto,
		RateLimitPorMinuto:    1000,
		DatabaseDriver:        "sqlite",
		ImportLocale:          "es",
		ImportMaxMB:           1,
		ImportLockSeconds:     60,
		VentanaColisionHoras:  24,
		StockPermitirNegativo: true,
		WorkerPoolSize:        1,
	}
	return &app{
		engine:   router.New(cfg, db, rdb, router.NewServices(cfg, db, rdb)),
		rdb:      rdb,
		gerente:  token(t, middleware.RolGerente, "gerente"),
		empleado: token(t, middleware.RolEmpleado, "empleado"),
	}
}

func token(t *testing.T, rol, username string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: username,
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secreto))
	require.NoError(t, err)
	return s
}

func (a *app) do(t *testing.T, method, path, tok string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *app) subir(t *testing.T, path, tok, nombre string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", nombre)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func (a *app) crear(t *testing.T, path string, body any) string {
	t.Helper()
	w := a.do(t, http.MethodPost, path, a.gerente, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func libro(t *testing.T, filas ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", celda, &fila))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	a := nuevaApp(t)
	w := a.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "connected", body["db"])
	assert.EqualValues(t, 0, body["cola_conciliacion"])
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRutasProtegidas(t *testing.T) {
	a := nuevaApp(t)
	assert.Equal(t, http.StatusUnauthorized, a.do(t, http.MethodGet, "/v1/conflictos", "", nil).Code)
	otroRol := token(t, "auditor", "x")
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodGet, "/v1/conflictos", otroRol, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/v1/conflictos", a.empleado, nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodGet, "/v1/productos/no-uuid", a.empleado, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodGet, "/v1/productos/"+uuid.NewString(), a.empleado, nil).Code)
}

func TestCatalogo_ValidacionYDuplicados(t *testing.T) {
	a := nuevaApp(t)
	w := a.do(t, http.MethodPost, "/v1/productos", a.gerente, map[string]any{"nombre": ""})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "required", decode(t, w)["fields"].(map[string]any)["Nombre"])

	a.crear(t, "/v1/productos", map[string]any{"nombre": "Widget"})
	w = a.do(t, http.MethodPost, "/v1/productos", a.gerente, map[string]any{"nombre": "Widget"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodPost, "/v1/productos", a.gerente, "{")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Upload, list, process: the happy path and the cross-reference conflict.
func TestImportarYProcesarVentas(t *testing.T) {
	a := nuevaApp(t)
	productoID := a.crear(t, "/v1/productos", map[string]any{"nombre": "Widget", "stock": 10})
	a.crear(t, "/v1/clientes", map[string]any{"nombre": "Acme"})

	w := a.subir(t, "/v1/importaciones/ventas", a.empleado, "ventas.xlsx", libro(t,
		[]any{"Producto", "Cliente", "Cantidad", "Precio"},
		[]any{"widget", "ACME", "tres", "$10.50"},
		[]any{"Widget", "Nadie", "1", "10"},
	))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Archivo procesado. 2 ventas en cola. 0 errores.", decode(t, w)["mensaje"])

	w = a.do(t, http.MethodGet, "/v1/ventas-importadas?estado=PENDIENTE", a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	filas := decode(t, w)["data"].([]any)
	require.Len(t, filas, 2)
	ids := map[string]string{}
	for _, f := range filas {
		fila := f.(map[string]any)
		ids[fila["cliente_nombre"].(string)] = fila["id"].(string)
	}

	w = a.do(t, http.MethodGet, "/v1/ventas-importadas?estado=PENDIENTE", a.gerente, nil)
	assert.Len(t, decode(t, w)["data"].([]any), 2, "the privileged role sees every import")

	w = a.do(t, http.MethodPost, "/v1/ventas-importadas/"+ids["ACME"]+"/procesar", a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	assert.Equal(t, "Venta procesada y creada exitosamente.", res["mensaje"])
	assert.Equal(t, "PROCESADO", res["venta_importada"].(map[string]any)["estado"])

	w = a.do(t, http.MethodGet, "/v1/productos/"+productoID, a.empleado, nil)
	assert.EqualValues(t, 7, decode(t, w)["stock"])

	w = a.do(t, http.MethodPost, "/v1/ventas-importadas/"+ids["ACME"]+"/procesar", a.empleado, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Esta transacción no está pendiente ni en conflicto para procesamiento.", decode(t, w)["detail"])

	w = a.do(t, http.MethodPost, "/v1/ventas-importadas/"+ids["Nadie"]+"/procesar", a.empleado, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Se encontraron conflictos.", body["detail"])
	assert.Equal(t, map[string]any{"cliente": "El cliente 'Nadie' no existe."}, body["detalles"])

	w = a.do(t, http.MethodGet, "/v1/ventas-importadas/"+ids["Nadie"], a.empleado, nil)
	assert.Equal(t, "CONFLICTO", decode(t, w)["estado"])

	w = a.do(t, http.MethodPost, "/v1/ventas-importadas/"+ids["Nadie"]+"/ignorar", a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "IGNORADO", decode(t, w)["estado"])

	w = a.do(t, http.MethodGet, "/v1/productos/"+productoID+"/movimientos", a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestImportar_Rechazos(t *testing.T) {
	a := nuevaApp(t)
	w := a.subir(t, "/v1/importaciones/compras", a.gerente, "compras.csv", []byte("a,b"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.subir(t, "/v1/importaciones/compras", a.gerente, "compras.xlsx", make([]byte, 1<<20+1))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = a.subir(t, "/v1/importaciones/unificado", a.gerente, "libro.xlsx", libro(t, []any{"Producto", "Cantidad"}, []any{"x", "1"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/v1/importaciones/ventas", a.gerente, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcesarLote_Encola(t *testing.T) {
	a := nuevaApp(t)
	ids := []string{uuid.NewString(), uuid.NewString()}

	w := a.do(t, http.MethodPost, "/v1/compras-importadas/procesar-lote", a.gerente, map[string]any{"ids": ids})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode(t, w)["encolados"])

	n, err := worker.Pendientes(context.Background(), a.rdb)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	w = a.do(t, http.MethodPost, "/v1/compras-importadas/procesar-lote", a.gerente, map[string]any{"ids": []string{"x"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// Trash, restore with collision, and resolution restricted to gerente.
func TestPapeleraYConflictos(t *testing.T) {
	a := nuevaApp(t)
	borrado := a.crear(t, "/v1/proveedores", map[string]any{"nombre": "Sur"})

	w := a.do(t, http.MethodDelete, "/v1/proveedores/"+borrado, a.empleado, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, "/v1/proveedores/"+borrado, a.empleado, nil).Code)

	w = a.do(t, http.MethodGet, "/v1/proveedores/papelera", a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), borrado)

	w = a.do(t, http.MethodGet, "/v1/proveedores/papelera/exportar", a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "papelera_proveedor_")

	existente := a.crear(t, "/v1/proveedores", map[string]any{"nombre": "SUR"})

	w = a.do(t, http.MethodPost, "/v1/proveedores/"+borrado+"/restaurar", a.empleado, nil)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	res := decode(t, w)
	assert.Equal(t, "conflicto", res["estado"])
	conflictoID := res["conflicto_id"].(string)

	w = a.do(t, http.MethodGet, "/v1/conflictos?estado=PENDIENTE", a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), existente)
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(t, http.MethodGet, "/v1/conflictos?estado=ABIERTO", a.empleado, nil).Code)

	resolver := "/v1/conflictos/" + conflictoID + "/resolver"
	assert.Equal(t, http.StatusForbidden, a.do(t, http.MethodPost, resolver, a.empleado, map[string]any{"resolucion": "RESTAURAR"}).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(t, http.MethodPost, resolver, a.gerente, map[string]any{"resolucion": "BORRAR"}).Code)

	w = a.do(t, http.MethodPost, resolver, a.gerente, map[string]any{"resolucion": "restaurar", "notas": "mismo proveedor"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Conflicto resuelto: RESTAURAR", body["mensaje"])
	assert.Equal(t, "RESUELTO_RESTAURAR", body["conflicto"].(map[string]any)["estado"])

	w = a.do(t, http.MethodPost, resolver, a.gerente, map[string]any{"resolucion": "IGNORAR"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Este conflicto ya fue resuelto.", decode(t, w)["detail"])

	w = a.do(t, http.MethodPost, "/v1/proveedores/"+borrado+"/restaurar", a.empleado, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "already active")
}

func TestLibro_VentasYCompras(t *testing.T) {
	a := nuevaApp(t)
	productoID := a.crear(t, "/v1/productos", map[string]any{"nombre": "Widget"})
	proveedorID := a.crear(t, "/v1/proveedores", map[string]any{"nombre": "Sur"})

	compraID := a.crear(t, "/v1/compras", map[string]any{
		"producto_id": productoID, "proveedor_id": proveedorID, "cantidad": 4, "precio_compra_unitario": "2.5",
	})
	a.crear(t, "/v1/ventas", map[string]any{"producto_id": productoID, "cantidad": 1, "precio_venta": "5"})

	w := a.do(t, http.MethodGet, "/v1/compras?producto_id="+productoID, a.empleado, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	require.Equal(t, http.StatusNoContent, a.do(t, http.MethodDelete, "/v1/compras/"+compraID, a.gerente, nil).Code)
	w = a.do(t, http.MethodGet, "/v1/productos/"+productoID, a.empleado, nil)
	assert.EqualValues(t, -1, decode(t, w)["stock"])

	w = a.do(t, http.MethodPost, "/v1/compras/"+compraID+"/restaurar", a.gerente, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "restaurado", decode(t, w)["estado"])
	w = a.do(t, http.MethodGet, "/v1/productos/"+productoID, a.empleado, nil)
	assert.EqualValues(t, 3, decode(t, w)["stock"])
}
