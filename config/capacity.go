package config

// SeatBuckets is the canonical ascending capacity ladder. Every party size maps
// to exactly one bucket: the smallest tier that can seat the whole party, or
// the top tier when the party exceeds it. Slot provisioning, availability and
// booking lookups must all use this ladder.
var SeatBuckets = []int{2, 4, 6, 8, 10, 15, 20, 25, 30, 50}

// DefaultSlotCapacities maps each bucket to the number of reservation units a
// restaurant gets per date when slots are provisioned. Consulted only by slot
// provisioning and administrative resets.
var DefaultSlotCapacities = map[int]int{
	2:  8,
	4:  6,
	6:  4,
	8:  3,
	10: 2,
	15: 2,
	20: 1,
	25: 1,
	30: 1,
	50: 1,
}

// FallbackSlotCapacity seeds a bucket missing from DefaultSlotCapacities, e.g.
// when a walk-in targets a bucket that was never provisioned for the date.
const FallbackSlotCapacity = 5
