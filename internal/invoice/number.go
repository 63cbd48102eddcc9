package invoice

import (
	"fmt"
	"time"
)

// FormatInvoiceNo builds the monthly-sequence invoice number, e.g.
// INV-202608-00042 for the 42nd invoice of August 2026.
func FormatInvoiceNo(t time.Time, seq int64) string {
	return fmt.Sprintf("INV-%s-%05d", t.Format("200601"), seq)
}
