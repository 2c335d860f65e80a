// utilitário pequeno para formatação consistente de valores numéricos em headers.
// strconv direto, sem fmt e sem notação científica para floats comuns.

package ratelimit

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRetryAfter arredonda para baixo em segundos, com mínimo de 1.
func formatRetryAfter(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return formatInt(secs)
}
