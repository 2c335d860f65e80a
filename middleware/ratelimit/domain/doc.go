// Package domain define contratos e tipos de domínio para o portão de admissão
// (rate limit por identidade), limite de concorrência e estatísticas.
//
// Este pacote não depende de net/http nem de implementações concretas
// (memória, Redis, x/time/rate). Isso mantém as regras testáveis sem rede.
package domain
