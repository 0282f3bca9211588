package config

// Nikaya describes one canonical division of the Tripitaka and the
// contiguous range of sutta page IDs it occupies on the source site.
//
// The ranges were determined by manual exploration of the site's numbering:
// sutta pages are numbered sequentially and each division occupies one
// contiguous block, so the division a page belongs to follows from its ID.
type Nikaya struct {
	// Key is the short lowercase identifier used on the command line and
	// as the batch subdirectory name (e.g. "digha").
	Key string

	// Name is the Sinhala name of the division.
	Name string

	// NameEnglish is the romanised Pali name.
	NameEnglish string

	// Description is a short English gloss of the division.
	Description string

	// Start is the first sutta ID of the division (inclusive).
	Start int

	// End is the last sutta ID of the division (inclusive).
	End int
}

// nikayaRegistry lists the five Nikayas in traditional order.
// The ID boundaries come from the site structure: each range ends just
// before the next division begins.
var nikayaRegistry = []Nikaya{
	{
		Key:         "digha",
		Name:        "දීඝ නිකාය",
		NameEnglish: "Dīgha Nikāya",
		Description: "Long Discourses",
		Start:       17,
		End:         264,
	},
	{
		Key:         "majjhima",
		Name:        "මජ්ඣිම නිකාය",
		NameEnglish: "Majjhima Nikāya",
		Description: "Middle Length Discourses",
		Start:       265,
		End:         979,
	},
	{
		Key:         "samyutta",
		Name:        "සංයුත්ත නිකාය",
		NameEnglish: "Saṃyutta Nikāya",
		Description: "Connected Discourses",
		Start:       980,
		End:         1172,
	},
	{
		Key:         "khuddaka",
		Name:        "ඛුද්දක නිකාය",
		NameEnglish: "Khuddaka Nikāya",
		Description: "Minor Collection",
		Start:       1173,
		End:         5756,
	},
	{
		Key:         "anguttara",
		Name:        "අංගුත්තර නිකාය",
		NameEnglish: "Aṅguttara Nikāya",
		Description: "Numerical Discourses",
		Start:       5757,
		End:         15702,
	},
}

// Nikayas returns all registered Nikayas in traditional order.
// The returned slice is a copy; callers may modify it freely.
func Nikayas() []Nikaya {
	out := make([]Nikaya, len(nikayaRegistry))
	copy(out, nikayaRegistry)
	return out
}

// LookupNikaya returns the Nikaya with the given key.
// The second return value reports whether the key is registered.
func LookupNikaya(key string) (Nikaya, bool) {
	for _, n := range nikayaRegistry {
		if n.Key == key {
			return n, true
		}
	}
	return Nikaya{}, false
}

// NikayaForSutta returns the Nikaya whose range contains the given sutta ID.
// The second return value reports whether any division claims the ID;
// IDs below the first range or above the last are unclassified.
func NikayaForSutta(id int) (Nikaya, bool) {
	for _, n := range nikayaRegistry {
		if n.Contains(id) {
			return n, true
		}
	}
	return Nikaya{}, false
}

// TotalSuttas returns the total number of sutta IDs across all Nikayas.
func TotalSuttas() int {
	total := 0
	for _, n := range nikayaRegistry {
		total += n.Count()
	}
	return total
}

// Count returns the number of sutta IDs in the Nikaya's range.
func (n Nikaya) Count() int {
	return n.End - n.Start + 1
}

// Contains reports whether the given sutta ID falls within the range.
func (n Nikaya) Contains(id int) bool {
	return id >= n.Start && id <= n.End
}

// Validate checks that the range is well-formed.
// Overrides from the config file can produce arbitrary ranges, so this is
// checked before a fetch run starts.
func (n Nikaya) Validate() error {
	if n.Start < 1 || n.End < n.Start {
		return ErrInvalidNikayaRange
	}
	return nil
}
