package service_test

import (
	"context"
	"testing"

	"reportes/internal/dto"
	"reportes/internal/model"
	"reportes/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conflictoCompras builds a purchase restore conflict: the trashed purchase
// and an active twin with the same supplier and quantity.
func conflictoCompras(t *testing.T, e *entorno) (productoID, borrada, existente, conflictoID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	productoID = e.producto(t, "Widget", 0)
	proveedorID := e.proveedor(t, "Sur")
	borrada = e.compra(t, productoID, proveedorID, 5, "1")
	require.NoError(t, e.papelera.Eliminar(ctx, model.TipoCompra, borrada, gerente))
	existente = e.compra(t, productoID, proveedorID, 5, "1")

	res, err := e.papelera.Restaurar(ctx, model.TipoCompra, borrada, gerente)
	require.NoError(t, err)
	require.Equal(t, dto.RestauracionConflicto, res.Estado)
	return productoID, borrada, existente, uuid.MustParse(*res.ConflictoID)
}

func TestResolver_RestaurarIntercambiaEntidades(t *testing.T) {
	e := nuevoEntorno(t, opciones{})
	ctx := context.Background()
	productoID, borrada, existente, conflictoID := conflictoCompras(t, e)
	require.Equal(t, 5, e.stockDe(t, productoID))

	res, err := e.conflictos.Resolver(ctx, conflictoID, "RESTAURAR", "duplicado del proveedor", gerente)
	require.NoError(t, err)
	assert.Equal(t, "Conflicto resuelto: RESTAURAR", res.Mensaje)
	assert.Equal(t, string(model.ConflictoResueltoRestaurar), res.Conflicto.Estado)
	require.NotNil(t, res.Conflicto.ResueltoPor)
	assert.Equal(t, gerente.Username, *res.Conflicto.ResueltoPor)
	require.NotNil(t, res.Conflicto.NotasResolucion)
	assert.Equal(t, "duplicado del proveedor", *res.Conflicto.NotasResolucion)
	assert.NotNil(t, res.Conflicto.FechaResolucion)

	c, err := e.compras.FindByID(ctx, borrada, true)
	require.NoError(t, err)
	assert.Nil(t, c.DeletedAt)
	c, err = e.compras.FindByID(ctx, existente, true)
	require.NoError(t, err)
	assert.NotNil(t, c.DeletedAt)

	assert.Equal(t, 5, e.stockDe(t, productoID))
	assert.Equal(t, e.netoEsperado(t, productoID, 0), e.stockDe(t, productoID))

	_, err = e.conflictos.Resolver(ctx, conflictoID, "IGNORAR", "", gerente)
	assert.ErrorIs(t, err, service.ErrConflictoResuelto)
}

func TestResolver_RestaurarProveedor(t *testing.T) {
	e := nuevoEntorno(t, opciones{})
	ctx := context.Background()
	borrado := e.proveedor(t, "Acme")
	require.NoError(t, e.papelera.Eliminar(ctx, model.TipoProveedor, borrado, gerente))
	existente := e.proveedor(t, "Acme")
	res, err := e.papelera.Restaurar(ctx, model.TipoProveedor, borrado, gerente)
	require.NoError(t, err)

	_, err = e.conflictos.Resolver(ctx, uuid.MustParse(*res.ConflictoID), "restaurar", "", gerente)
	require.NoError(t, err, "the active-name index must allow the swap")

	activo, err := e.proveedores.FindByID(ctx, borrado, false)
	require.NoError(t, err)
	assert.Equal(t, "Acme", activo.Nombre)
	_, err = e.proveedores.FindByID(ctx, existente, false)
	assert.Error(t, err)
}

func TestResolver_Ignorar(t *testing.T) {
	e := nuevoEntorno(t, opciones{})
	ctx := context.Background()
	productoID, borrada, existente, conflictoID := conflictoCompras(t, e)

	res, err := e.conflictos.Resolver(ctx, conflictoID, "IGNORAR", "", gerente)
	require.NoError(t, err)
	assert.Equal(t, "Conflicto resuelto: IGNORAR", res.Mensaje)
	assert.Equal(t, string(model.ConflictoResueltoIgnorar), res.Conflicto.Estado)
	assert.Nil(t, res.Conflicto.NotasResolucion)

	c, err := e.compras.FindByID(ctx, borrada, true)
	require.NoError(t, err)
	assert.NotNil(t, c.DeletedAt, "ignored: the trashed entity stays trashed")
	c, err = e.compras.FindByID(ctx, existente, true)
	require.NoError(t, err)
	assert.Nil(t, c.DeletedAt)
	assert.Equal(t, 5, e.stockDe(t, productoID))
}

func TestResolver_Errores(t *testing.T) {
	e := nuevoEntorno(t, opciones{})
	ctx := context.Background()
	_, _, existente, conflictoID := conflictoCompras(t, e)

	_, err := e.conflictos.Resolver(ctx, uuid.New(), "IGNORAR", "", gerente)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)

	_, err = e.conflictos.Resolver(ctx, conflictoID, "BORRAR", "", gerente)
	assert.ErrorIs(t, err, service.ErrResolucionInvalida)

	require.NoError(t, e.db.Exec("DELETE FROM compras WHERE id = ?", existente).Error)
	_, err = e.conflictos.Resolver(ctx, conflictoID, "RESTAURAR", "", gerente)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)

	c, err := e.conflictos.Obtener(ctx, conflictoID)
	require.NoError(t, err)
	assert.Equal(t, string(model.ConflictoPendiente), c.Estado, "failed resolutions leave the conflict pending")
}

func TestListarConflictos(t *testing.T) {
	e := nuevoEntorno(t, opciones{})
	ctx := context.Background()
	_, _, _, conflictoID := conflictoCompras(t, e)

	todos, err := e.conflictos.Listar(ctx, dto.ConflictoFilter{})
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, conflictoID.String(), todos[0].ID)

	pendientes, err := e.conflictos.Listar(ctx, dto.ConflictoFilter{Estado: "PENDIENTE", TipoModelo: "COMPRA"})
	require.NoError(t, err)
	assert.Len(t, pendientes, 1)

	otros, err := e.conflictos.Listar(ctx, dto.ConflictoFilter{TipoModelo: "PRODUCTO"})
	require.NoError(t, err)
	assert.Empty(t, otros)
}

func TestResolver_RestaurarConLugarYaOcupado(t *testing.T) {
	e := nuevoEntorno(t, opciones{})
	ctx := context.Background()
	productoID := e.producto(t, "Widget", 10)
	clienteID := e.cliente(t, "Acme", nil)

	primera := e.venta(t, productoID, clienteID, 3, "1")
	require.NoError(t, e.papelera.Eliminar(ctx, model.TipoVenta, primera, gerente))
	segunda := e.venta(t, productoID, clienteID, 3, "1")
	require.NoError(t, e.papelera.Eliminar(ctx, model.TipoVenta, segunda, gerente))
	e.venta(t, productoID, clienteID, 3, "1")

	r1, err := e.papelera.Restaurar(ctx, model.TipoVenta, primera, gerente)
	require.NoError(t, err)
	require.Equal(t, dto.RestauracionConflicto, r1.Estado)
	r2, err := e.papelera.Restaurar(ctx, model.TipoVenta, segunda, gerente)
	require.NoError(t, err)
	require.Equal(t, dto.RestauracionConflicto, r2.Estado)

	_, err = e.conflictos.Resolver(ctx, uuid.MustParse(*r1.ConflictoID), "RESTAURAR", "", gerente)
	require.NoError(t, err)
	_, err = e.conflictos.Resolver(ctx, uuid.MustParse(*r2.ConflictoID), "RESTAURAR", "", gerente)
	assert.ErrorIs(t, err, service.ErrConflictoObsoleto)

	var activas int64
	require.NoError(t, e.db.Model(&model.Venta{}).Where("producto_id = ? AND deleted_at IS NULL", productoID).Count(&activas).Error)
	assert.EqualValues(t, 1, activas, "only one sale may hold the slot")
	assert.Equal(t, 7, e.stockDe(t, productoID))
	assert.Equal(t, e.netoEsperado(t, productoID, 10), e.stockDe(t, productoID))

	c, err := e.conflictos.Obtener(ctx, uuid.MustParse(*r2.ConflictoID))
	require.NoError(t, err)
	assert.Equal(t, string(model.ConflictoPendiente), c.Estado)

	_, err = e.conflictos.Resolver(ctx, uuid.MustParse(*r2.ConflictoID), "IGNORAR", "", gerente)
	assert.NoError(t, err, "a stale conflict can still be ignored")
}

func TestResolver_RestaurarProductoConNombreYaOcupado(t *testing.T) {
	e := nuevoEntorno(t, opciones{})
	ctx := context.Background()
	viejo := e.producto(t, "Widget", 0)
	require.NoError(t, e.papelera.Eliminar(ctx, model.TipoProducto, viejo, gerente))
	intermedio := e.producto(t, "Widget", 0)
	require.NoError(t, e.papelera.Eliminar(ctx, model.TipoProducto, intermedio, gerente))
	e.producto(t, "widget", 0)

	r1, err := e.papelera.Restaurar(ctx, model.TipoProducto, viejo, gerente)
	require.NoError(t, err)
	r2, err := e.papelera.Restaurar(ctx, model.TipoProducto, intermedio, gerente)
	require.NoError(t, err)

	_, err = e.conflictos.Resolver(ctx, uuid.MustParse(*r1.ConflictoID), "RESTAURAR", "", gerente)
	require.NoError(t, err)
	_, err = e.conflictos.Resolver(ctx, uuid.MustParse(*r2.ConflictoID), "RESTAURAR", "", gerente)
	assert.ErrorIs(t, err, service.ErrConflictoObsoleto)

	p, err := e.productos.FindByID(ctx, intermedio, true)
	require.NoError(t, err)
	assert.NotNil(t, p.DeletedAt)
}
