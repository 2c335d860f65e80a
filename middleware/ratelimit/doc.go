// Package ratelimit fornece adapters HTTP (net/http) para o portão de admissão,
// o rate limit do roteador e o limite de concorrência.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos do domínio (sem dependência de net/http)
//   - application: casos de uso (decisão allow/deny, acquire/timeout) sem net/http
//   - infra: implementações concretas (janela fixa em memória/Redis, token bucket, semáforo, stats)
//   - ratelimit (este pacote): middlewares HTTP + extração de identidade + tradução para status/headers
//
// Fluxo no gateway:
//
//  1. Extrai a identidade do cliente (header/XFF/RemoteAddr, senão "unknown")
//  2. Chama a camada application para obter a decisão
//  3. Se bloqueado, responde 429 (rate limit) ou 503 (concorrência) em JSON
//  4. Se permitido, chama o próximo handler
//
// O formulário de contato não usa Middleware diretamente: o contact.Service
// consulta o mesmo application.Service antes de validar a submissão.
package ratelimit
