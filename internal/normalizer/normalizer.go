// Package normalizer turns dirty spreadsheet cells into canonical values.
// It is pure: no I/O, no persisted state. Errors carry the user-facing
// reason that ends up in a staged row's conflict details.
package normalizer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrCantidadVacia    = errors.New("La cantidad no puede estar vacía.")
	ErrCantidadInvalida = errors.New("No es un número ni una palabra numérica válida.")
	ErrPrecioVacio      = errors.New("El precio no puede estar vacío.")
	ErrPrecioInvalido   = errors.New("El precio debe ser un número válido.")
)

// Supported number-word locales.
const (
	LocaleES = "es"
	LocaleEN = "en"
)

var noNumerico = regexp.MustCompile(`[^\d.]`)

// Normalizador converts raw cells for one configured locale.
type Normalizador struct {
	palabras *vocabulario
	locale   string
}

// New returns a Normalizador for locale; unknown locales fall back to Spanish.
func New(locale string) *Normalizador {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale != LocaleEN {
		locale = LocaleES
	}
	return &Normalizador{palabras: vocabularios[locale], locale: locale}
}

func (n *Normalizador) Locale() string { return n.locale }

// Cantidad parses a quantity: a numeric literal (decimals are truncated
// toward zero) or a number written in words for the configured locale.
func (n *Normalizador) Cantidad(raw any) (int, error) {
	s := strings.TrimSpace(Texto(raw))
	if s == "" {
		return 0, ErrCantidadVacia
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			return 0, ErrCantidadInvalida
		}
		return int(f), nil
	}
	v, err := n.palabras.convertir(s)
	if err != nil {
		return 0, ErrCantidadInvalida
	}
	return v, nil
}

// Dinero parses a money amount. Every character that is not a digit or a
// dot is discarded first, so "$1,234.56" becomes 1234.56.
func (n *Normalizador) Dinero(raw any) (decimal.Decimal, error) {
	limpio := noNumerico.ReplaceAllString(strings.TrimSpace(Texto(raw)), "")
	if limpio == "" {
		return decimal.Zero, ErrPrecioVacio
	}
	if strings.Trim(limpio, ".") == "" {
		return decimal.Zero, ErrPrecioInvalido
	}
	d, err := decimal.NewFromString(limpio)
	if err != nil {
		return decimal.Zero, ErrPrecioInvalido
	}
	return d, nil
}

// Texto renders an already-typed cell value as the text a spreadsheet user
// would have typed. nil becomes "".
func Texto(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
