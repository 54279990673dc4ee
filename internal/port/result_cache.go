package port

import "recscan/internal/domain"

// ResultCache memoizes analysis results keyed by the exact input text.
// Entries are immutable once stored, so a shared cache is safe across
// concurrent requests. Implementations must serialize their own reads and
// writes but must never serialize unrelated requests against each other.
type ResultCache interface {
	Get(key string) (*domain.ReceiptRecord, bool)
	Put(key string, record *domain.ReceiptRecord)
	Evict(key string)
}
