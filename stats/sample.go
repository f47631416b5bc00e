package stats

import (
	"io"
	"sort"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/stat"
	"lukechampine.com/frand"
)

// DefaultSampleSize is the number of values a Sampler keeps by default.
const DefaultSampleSize = 4096

// Sampler keeps a uniform random sample (reservoir) of the values pushed
// into it, so that a search touching millions of nodes can still be
// summarized with a bounded amount of memory.
type Sampler struct {
	size    int
	seen    int
	samples []float64
}

func NewSampler(size int) *Sampler {
	if size < 1 {
		size = DefaultSampleSize
	}
	return &Sampler{size: size, samples: make([]float64, 0, size)}
}

func (s *Sampler) Push(val float64) {
	s.seen++
	if len(s.samples) < s.size {
		s.samples = append(s.samples, val)
		return
	}
	if j := frand.Intn(s.seen); j < s.size {
		s.samples[j] = val
	}
}

// Merge pushes the other sampler's values into s. If either reservoir had
// overflowed, the result is only approximately uniform.
func (s *Sampler) Merge(other *Sampler) {
	if other == nil {
		return
	}
	for _, v := range other.samples {
		s.Push(v)
	}
	s.seen += other.seen - len(other.samples)
}

// Seen is the total number of values pushed.
func (s *Sampler) Seen() int {
	return s.seen
}

func (s *Sampler) Samples() []float64 {
	return s.samples
}

// Summary is a short description of a sample.
type Summary struct {
	N      int     `yaml:"n"`
	Mean   float64 `yaml:"mean"`
	Stdev  float64 `yaml:"stdev"`
	Median float64 `yaml:"median"`
	Max    float64 `yaml:"max"`
}

// Summarize returns the mean, standard deviation, median and max of the
// sample.
func (s *Sampler) Summarize() Summary {
	if len(s.samples) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(s.samples))
	copy(sorted, s.samples)
	sort.Float64s(sorted)
	mean, stdev := stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		stdev = 0
	}
	return Summary{
		N:      s.seen,
		Mean:   mean,
		Stdev:  stdev,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}

// FprintHistogram draws a text histogram of the sample.
func (s *Sampler) FprintHistogram(w io.Writer, bins, width int) error {
	if len(s.samples) == 0 {
		_, err := io.WriteString(w, "(no data)\n")
		return err
	}
	hist := histogram.Hist(bins, s.samples)
	return histogram.Fprint(w, hist, histogram.Linear(width))
}
