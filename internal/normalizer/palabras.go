package normalizer

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var errPalabraDesconocida = errors.New("palabra numérica desconocida")

// vocabulario holds the number words of one locale.
//
// Values below 1000 accumulate into the current group; multiplicadores close
// a group ("mil", "thousand", "millón"). centenas are words that multiply the
// current group instead of adding to it ("hundred" in English; Spanish
// hundreds are plain values such as "doscientos").
type vocabulario struct {
	valores         map[string]int
	centenas        map[string]int
	multiplicadores map[string]int
	conectores      map[string]bool
}

var vocabularios = map[string]*vocabulario{
	LocaleES: {
		valores: map[string]int{
			"cero": 0, "un": 1, "uno": 1, "una": 1, "dos": 2, "tres": 3, "cuatro": 4,
			"cinco": 5, "seis": 6, "siete": 7, "ocho": 8, "nueve": 9, "diez": 10,
			"once": 11, "doce": 12, "trece": 13, "catorce": 14, "quince": 15,
			"dieciseis": 16, "diecisiete": 17, "dieciocho": 18, "diecinueve": 19,
			"veinte": 20, "veintiun": 21, "veintiuno": 21, "veintiuna": 21,
			"veintidos": 22, "veintitres": 23, "veinticuatro": 24, "veinticinco": 25,
			"veintiseis": 26, "veintisiete": 27, "veintiocho": 28, "veintinueve": 29,
			"treinta": 30, "cuarenta": 40, "cincuenta": 50, "sesenta": 60,
			"setenta": 70, "ochenta": 80, "noventa": 90,
			"cien": 100, "ciento": 100,
			"doscientos": 200, "doscientas": 200, "trescientos": 300, "trescientas": 300,
			"cuatrocientos": 400, "cuatrocientas": 400, "quinientos": 500, "quinientas": 500,
			"seiscientos": 600, "seiscientas": 600, "setecientos": 700, "setecientas": 700,
			"ochocientos": 800, "ochocientas": 800, "novecientos": 900, "novecientas": 900,
		},
		centenas:        map[string]int{},
		multiplicadores: map[string]int{"mil": 1_000, "millon": 1_000_000, "millones": 1_000_000},
		conectores:      map[string]bool{"y": true},
	},
	LocaleEN: {
		valores: map[string]int{
			"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
			"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
			"thirteen": 13, "fourteen": 14, "fifteen": 15, "sixteen": 16,
			"seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
			"thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70,
			"eighty": 80, "ninety": 90,
		},
		centenas:        map[string]int{"hundred": 100},
		multiplicadores: map[string]int{"thousand": 1_000, "million": 1_000_000},
		conectores:      map[string]bool{"and": true},
	},
}

var sinAcentos = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func plegar(s string) string {
	out, _, err := transform.String(sinAcentos, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// convertir parses phrases like "dos mil trescientos cuarenta y cinco" or
// "one hundred and five". Every token must be a known word.
func (v *vocabulario) convertir(frase string) (int, error) {
	tokens := strings.FieldsFunc(plegar(frase), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == ','
	})
	total, grupo := 0, 0
	reconocidas := 0
	for _, t := range tokens {
		if v.conectores[t] {
			continue
		}
		if n, ok := v.valores[t]; ok {
			grupo += n
		} else if n, ok := v.centenas[t]; ok {
			if grupo == 0 {
				grupo = 1
			}
			grupo *= n
		} else if n, ok := v.multiplicadores[t]; ok {
			if grupo == 0 {
				grupo = 1
			}
			if n >= 1_000_000 {
				total = (total + grupo) * n
			} else {
				total += grupo * n
			}
			grupo = 0
		} else {
			return 0, errPalabraDesconocida
		}
		reconocidas++
	}
	if reconocidas == 0 {
		return 0, errPalabraDesconocida
	}
	return total + grupo, nil
}
