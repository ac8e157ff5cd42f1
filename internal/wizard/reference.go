package wizard

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateReference returns a ledger reference of the form
// DON-<unixMillis>-<0..9999>. The millisecond prefix makes references sort
// by creation time for debugging; the random suffix disambiguates writes in
// the same millisecond. There is no collision re-check: at this system's
// write volume the probability is accepted as negligible.
func GenerateReference() string {
	return fmt.Sprintf("DON-%d-%d", time.Now().UnixMilli(), rand.IntN(10000))
}
