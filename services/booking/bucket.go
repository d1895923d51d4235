package booking

import "linque/config"

// BucketFor maps a party size onto the canonical seat-bucket ladder: the
// smallest tier that seats the whole party, or the top tier when the party
// exceeds it. Oversized parties are not rejected here; whether they fit is
// the slot ledger's call.
func BucketFor(partySize int) int {
	for _, bucket := range config.SeatBuckets {
		if partySize <= bucket {
			return bucket
		}
	}
	return config.SeatBuckets[len(config.SeatBuckets)-1]
}
