package stats

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DepthProfile counts the nodes a search expanded at each depth, and keeps
// both a running statistic and a sample of the branching factor.
type DepthProfile struct {
	Nodes     []int
	Branching Statistic
	sample    *Sampler
}

func NewDepthProfile() *DepthProfile {
	return &DepthProfile{sample: NewSampler(DefaultSampleSize)}
}

// Record notes that a node at depth was expanded into children successors.
func (d *DepthProfile) Record(depth, children int) {
	for len(d.Nodes) <= depth {
		d.Nodes = append(d.Nodes, 0)
	}
	d.Nodes[depth]++
	d.Branching.Push(float64(children))
	d.sample.Push(float64(children))
}

func (d *DepthProfile) Merge(other *DepthProfile) {
	if other == nil {
		return
	}
	for i, n := range other.Nodes {
		for len(d.Nodes) <= i {
			d.Nodes = append(d.Nodes, 0)
		}
		d.Nodes[i] += n
	}
	d.Branching.Merge(&other.Branching)
	d.sample.Merge(other.sample)
}

func (d *DepthProfile) Total() int {
	return lo.Sum(d.Nodes)
}

func (d *DepthProfile) Sample() *Sampler {
	return d.sample
}

func (d *DepthProfile) String() string {
	var sb strings.Builder
	for depth, n := range d.Nodes {
		sb.WriteString(fmt.Sprintf("%3d: %d\n", depth, n))
	}
	sb.WriteString(fmt.Sprintf("total: %d, branching mean %.2f stdev %.2f\n",
		d.Total(), d.Branching.Mean(), d.Branching.Stdev()))
	return sb.String()
}
