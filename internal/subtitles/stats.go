package subtitles

// Bucket is one of the nine ordered reading-speed classes.
type Bucket int

const (
	TooSlow Bucket = iota
	SlowAcceptable
	ABitSlow
	GoodSlow
	Perfect
	GoodFast
	ABitFast
	FastAcceptable
	TooFast
)

// BucketCount is the number of reading-speed classes.
const BucketCount = int(TooFast) + 1

type bucketInfo struct {
	name  string
	label string
	color string
	// below is the exclusive upper bound; the last bucket has none.
	below float64
}

var bucketTable = [BucketCount]bucketInfo{
	TooSlow:        {"tooSlow", "TOO SLOW", "#9999FF", 5},
	SlowAcceptable: {"slowAcceptable", "Slow, acceptable", "#99CCFF", 10},
	ABitSlow:       {"aBitSlow", "A bit slow", "#99FFFF", 13},
	GoodSlow:       {"goodSlow", "Good", "#99FFCC", 15},
	Perfect:        {"perfect", "Perfect", "#99FF99", 23},
	GoodFast:       {"goodFast", "Good", "#CCFF99", 27},
	ABitFast:       {"aBitFast", "A bit fast", "#FFFF99", 31},
	FastAcceptable: {"fastAcceptable", "Fast, acceptable", "#FFCC99", 35},
	TooFast:        {"tooFast", "TOO FAST", "#FF9999", 0},
}

// Buckets lists every class from slowest to fastest.
func Buckets() []Bucket {
	out := make([]Bucket, BucketCount)
	for i := range out {
		out[i] = Bucket(i)
	}
	return out
}

// Name is the stable identifier used in reports.
func (b Bucket) Name() string { return b.info().name }

// Label is the human-readable caption.
func (b Bucket) Label() string { return b.info().label }

// Color is the fixed report colour.
func (b Bucket) Color() string { return b.info().color }

func (b Bucket) String() string { return b.Name() }

func (b Bucket) info() bucketInfo {
	if b < 0 || int(b) >= BucketCount {
		return bucketInfo{name: "unknown"}
	}
	return bucketTable[b]
}

// Classify returns the bucket for a reading speed. Thresholds are exclusive
// upper bounds: a speed of exactly 5 is SlowAcceptable.
func Classify(rs float64) Bucket {
	for b := TooSlow; b < TooFast; b++ {
		if rs < bucketTable[b].below {
			return b
		}
	}
	return TooFast
}

// Stats holds per-bucket cue counts.
type Stats struct {
	counts [BucketCount]int
}

// Count returns the number of cues in b.
func (s Stats) Count(b Bucket) int {
	if b < 0 || int(b) >= BucketCount {
		return 0
	}
	return s.counts[b]
}

// Total is the sum of every bucket.
func (s Stats) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// Percent is Count(b)*100/Total rounded to one decimal. An empty result is
// ErrEmptyDocument.
func (s Stats) Percent(b Bucket) (float64, error) {
	total := s.Total()
	if total == 0 {
		return 0, ErrEmptyDocument
	}
	return round1(float64(s.Count(b)) * 100 / float64(total)), nil
}

// Add records one reading speed.
func (s *Stats) Add(rs float64) Bucket {
	b := Classify(rs)
	s.counts[b]++
	return b
}

// ComputeStats recomputes every cue's reading speed from scratch and
// classifies it. The result replaces any earlier statistics.
func (d *Document) ComputeStats() Stats {
	var stats Stats
	for _, c := range d.cues {
		stats.Add(c.Metrics().ReadingSpeed)
	}
	d.stats = stats
	return stats
}

// Stats returns the statistics stored by the last ComputeStats.
func (d *Document) Stats() Stats { return d.stats }
