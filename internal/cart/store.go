package cart

import (
	"math"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/syahrullah26/dewaunitedstore/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiah = message.NewPrinter(language.Indonesian)

// Store mirrors the server cart. It does no I/O; Operations feed it.
//
// Every write carries a sequence number handed out by begin. A write whose
// sequence is older than the last applied one is dropped, so a slow
// reconciliation fetch cannot overwrite a newer snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot models.CartSnapshot
	issued   uint64
	applied  uint64
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{snapshot: models.EmptyCart()}
}

// SetCart replaces the whole cart with snapshot.
func (s *Store) SetCart(snapshot models.CartSnapshot) {
	s.apply(s.begin(), snapshot)
}

// ClearCart resets the cart to empty.
func (s *Store) ClearCart() {
	s.apply(s.begin(), models.EmptyCart())
}

// begin reserves the next sequence number.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// apply installs snapshot if nothing newer has been applied. It reports
// whether the snapshot was kept.
func (s *Store) apply(seq uint64, snapshot models.CartSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		log.Debug().
			Uint64("seq", seq).
			Uint64("applied", s.applied).
			Msg("dropping stale cart snapshot")
		return false
	}

	s.snapshot = snapshot.Clone()
	s.applied = seq
	return true
}

// Snapshot returns a copy of the current cart.
func (s *Store) Snapshot() models.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Count is the total quantity as reported by the server.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Summary.TotalQuantity
}

// Item finds the line for productID in size.
func (s *Store) Item(productID int64, size string) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.snapshot.Items {
		if it.ProductID == productID && it.Size == size {
			return it, true
		}
	}
	return models.CartItem{}, false
}

// IsEmpty returns true when the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot.Items) == 0
}

// FormattedTotal renders the total price as Rupiah, e.g. "Rp 1.250.000".
func (s *Store) FormattedTotal() string {
	s.mu.RLock()
	total := s.snapshot.Summary.TotalPrice
	s.mu.RUnlock()
	return FormatRupiah(total)
}

// FormatRupiah renders amount with Indonesian digit grouping.
func FormatRupiah(amount float64) string {
	return rupiah.Sprintf("Rp %d", int64(math.Round(amount)))
}
