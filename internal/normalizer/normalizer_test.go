package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCantidad_Numerica(t *testing.T) {
	n := New(LocaleES)
	cases := []struct {
		in   any
		want int
	}{
		{"5", 5},
		{" 12 ", 12},
		{"3.9", 3},
		{float64(7), 7},
		{"1e2", 100},
		{"-4", -4},
	}
	for _, c := range cases {
		got, err := n.Cantidad(c.in)
		require.NoError(t, err, "input %v", c.in)
		assert.Equal(t, c.want, got, "input %v", c.in)
	}
}

func TestCantidad_PalabrasEspanol(t *testing.T) {
	n := New("es")
	cases := map[string]int{
		"diez":                    10,
		"Veinticinco":             25,
		"veintitrés":              23,
		"ciento veinte":           120,
		"treinta y dos":           32,
		"dos mil trescientos":     2300,
		"un millón":               1_000_000,
		"dos millones quinientos": 2_000_500,
		"mil":                     1000,
	}
	for in, want := range cases {
		got, err := n.Cantidad(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCantidad_PalabrasIngles(t *testing.T) {
	n := New("en")
	assert.Equal(t, LocaleEN, n.Locale())
	cases := map[string]int{
		"ten":                  10,
		"twenty-five":          25,
		"one hundred and five": 105,
		"three thousand":       3000,
	}
	for in, want := range cases {
		got, err := n.Cantidad(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCantidad_Errores(t *testing.T) {
	n := New("es")

	_, err := n.Cantidad("   ")
	assert.ErrorIs(t, err, ErrCantidadVacia)
	_, err = n.Cantidad(nil)
	assert.ErrorIs(t, err, ErrCantidadVacia)
	_, err = n.Cantidad("texto no valido")
	assert.ErrorIs(t, err, ErrCantidadInvalida)
	_, err = n.Cantidad("NaN")
	assert.ErrorIs(t, err, ErrCantidadInvalida)
	// English words are not understood under the Spanish locale.
	_, err = n.Cantidad("ten")
	assert.ErrorIs(t, err, ErrCantidadInvalida)
}

func TestNew_LocaleDesconocidoUsaEspanol(t *testing.T) {
	n := New("fr")
	assert.Equal(t, LocaleES, n.Locale())
	got, err := n.Cantidad("cinco")
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestDinero(t *testing.T) {
	n := New("es")
	cases := map[string]string{
		"$1,234.56": "1234.56",
		"100":       "100",
		" 9.99 USD": "9.99",
		"0":         "0",
	}
	for in, want := range cases {
		got, err := n.Dinero(in)
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: got %s", in, got)
	}

	got, err := n.Dinero(float64(15.5))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("15.5").Equal(got))
}

func TestDinero_Errores(t *testing.T) {
	n := New("es")

	_, err := n.Dinero("")
	assert.ErrorIs(t, err, ErrPrecioVacio)
	_, err = n.Dinero("abc")
	assert.ErrorIs(t, err, ErrPrecioVacio)
	_, err = n.Dinero("...")
	assert.ErrorIs(t, err, ErrPrecioInvalido)
	_, err = n.Dinero("1.2.3")
	assert.ErrorIs(t, err, ErrPrecioInvalido)
}

func TestTexto(t *testing.T) {
	assert.Equal(t, "", Texto(nil))
	assert.Equal(t, "12", Texto(float64(12)))
	assert.Equal(t, "1.5", Texto(float64(1.5)))
	assert.Equal(t, "7", Texto(7))
	assert.Equal(t, "abc", Texto("abc"))
}
