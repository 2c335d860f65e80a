// Package infra contém implementações concretas para os contratos do pacote domain.
//
//   - MemoryWindowStore: janela fixa por chave em memória, com LRU e janitor
//   - RedisWindowStore: a mesma janela fixa via script Lua (atômico entre processos)
//   - TokenBucketStore: token bucket por chave usando golang.org/x/time/rate
//   - ChanPool: semáforo simples para limite de concorrência
//   - MemoryStatsStore / RedisStatsStore: contadores de decisões
package infra
