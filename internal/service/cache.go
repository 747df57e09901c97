// cache.go — LRU-кэш чтения с TTL для сущностей Library Module.
// Обёртка над hashicorp/golang-lru/v2/expirable: отдельный кэш по id
// и отдельная запись для результата "list all".
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lm_cache_hits_total",
		Help: "Общее количество попаданий в LRU-кэш чтения.",
	}, []string{"entity"})
	cacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lm_cache_misses_total",
		Help: "Общее количество промахов LRU-кэша чтения.",
	}, []string{"entity"})
)

// listKey — ключ записи "list all" в кэше списка.
const listKey = "all"

// EntityCache — LRU-кэш чтения для одной сущности с автоматическим TTL.
// Записи по id и список кэшируются раздельно; операции записи обязаны
// инвалидировать обе части (Delete + InvalidateList).
type EntityCache[V any] struct {
	entity string
	byID   *expirable.LRU[int64, V]
	list   *expirable.LRU[string, []V]
}

// NewEntityCache создаёт кэш для сущности entity (метка метрик)
// с указанным максимальным размером и TTL.
func NewEntityCache[V any](entity string, maxSize int, ttl time.Duration) *EntityCache[V] {
	return &EntityCache[V]{
		entity: entity,
		byID:   expirable.NewLRU[int64, V](maxSize, nil, ttl),
		list:   expirable.NewLRU[string, []V](1, nil, ttl),
	}
}

// Get возвращает запись из кэша по id.
// Возвращает (запись, true) при hit или (zero, false) при miss.
// Обновляет Prometheus-метрики hit/miss.
func (c *EntityCache[V]) Get(id int64) (V, bool) {
	val, ok := c.byID.Get(id)
	if ok {
		cacheHitsTotal.WithLabelValues(c.entity).Inc()
		return val, true
	}
	cacheMissesTotal.WithLabelValues(c.entity).Inc()
	var zero V
	return zero, false
}

// Set добавляет или обновляет запись в кэше.
func (c *EntityCache[V]) Set(id int64, val V) {
	c.byID.Add(id, val)
}

// Delete удаляет запись из кэша (инвалидация при записи).
func (c *EntityCache[V]) Delete(id int64) {
	c.byID.Remove(id)
}

// GetList возвращает закэшированный результат "list all".
func (c *EntityCache[V]) GetList() ([]V, bool) {
	val, ok := c.list.Get(listKey)
	if ok {
		cacheHitsTotal.WithLabelValues(c.entity).Inc()
		return val, true
	}
	cacheMissesTotal.WithLabelValues(c.entity).Inc()
	return nil, false
}

// SetList кэширует результат "list all".
func (c *EntityCache[V]) SetList(vals []V) {
	c.list.Add(listKey, vals)
}

// InvalidateList сбрасывает закэшированный список.
func (c *EntityCache[V]) InvalidateList() {
	c.list.Remove(listKey)
}
