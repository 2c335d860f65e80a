// Package application contém os casos de uso do portão de admissão e do limite
// de concorrência.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: Service.Decide(ctx, key) registra a tentativa e retorna uma Decision
// (allow/deny + retry-after).
package application
