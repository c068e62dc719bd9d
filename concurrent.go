package partition

// Concurrent partitions with one atomic write cursor per bucket.
//
// Thread t handles input indices t, t+threads, t+2*threads and so on, and
// claims a single output slot per record. It is the baseline the chunked
// strategy is measured against.
type Concurrent struct {
	base
	cursors []cursor // One per bucket.
}

// NewConcurrent creates a single-counter partitioner over input. Every bucket
// is provisioned with the expected average occupancy times the safety factor.
func NewConcurrent(threads int, input []Record, hashBits int, opts ...Option) (*Concurrent, error) {
	c := &Concurrent{}
	if err := c.init(AlgorithmConcurrent, threads, input, hashBits, opts, concurrentPlan); err != nil {
		return nil, err
	}
	c.cursors = make([]cursor, c.plan.partitions)
	return c, nil
}

func (c *Concurrent) Partition() {
	c.run(c.work)
}

func (c *Concurrent) work(thread int) error {
	p := c.plan
	for i := thread; i < p.inputSize; i += p.threads {
		r := c.input[i]
		b := Hash(r.Key, p.hashBits)
		off := c.cursors[b].claim()
		if !c.slots.store(b, off, r) {
			return capacityError(b, off, p.capacity)
		}
	}
	return nil
}
