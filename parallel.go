package partition

// Parallel partitions by claiming work in chunks.
//
// Workers claim a chunk of input records from one shared cursor, and a chunk
// of output slots per bucket from that bucket's cursor. Between claims all
// bookkeeping is local to the worker, so the number of atomic operations
// scales with the number of chunks rather than the number of records.
type Parallel struct {
	base
	in  cursor   // Input chunks handed out.
	out []cursor // Output chunks handed out, one per bucket.
}

// NewParallel creates a chunked partitioner over input.
func NewParallel(threads int, input []Record, hashBits int, opts ...Option) (*Parallel, error) {
	p := &Parallel{}
	if err := p.init(AlgorithmParallel, threads, input, hashBits, opts, parallelPlan); err != nil {
		return nil, err
	}
	p.out = make([]cursor, p.plan.partitions)
	return p, nil
}

// ChunkSizes returns the input and output chunk sizes, in records.
func (p *Parallel) ChunkSizes() (in, out int) {
	return p.plan.chunkIn, p.plan.chunkOut
}

func (p *Parallel) Partition() {
	p.run(p.work)
}

func (p *Parallel) work(int) error {
	cfg := p.plan

	// Current input position and records consumed from the current input chunk.
	next := p.in.claim() * cfg.chunkIn
	consumed := 0

	// Per bucket: next slot to write, and slots used of the current output chunk.
	offsets := make([]int, cfg.partitions)
	filled := make([]int, cfg.partitions)
	for b := range offsets {
		offsets[b] = p.out[b].claim() * cfg.chunkOut
	}

	for next < cfg.inputSize {
		r := p.input[next]
		b := Hash(r.Key, cfg.hashBits)
		if filled[b] >= cfg.chunkOut {
			offsets[b] = p.out[b].claim() * cfg.chunkOut
			filled[b] = 0
		}
		if !p.slots.store(b, offsets[b], r) {
			return capacityError(b, offsets[b], cfg.capacity)
		}
		offsets[b]++
		filled[b]++
		next++
		consumed++

		// A chunk cut short by the end of the input ends the loop above
		// without claiming another one.
		if consumed >= cfg.chunkIn {
			next = p.in.claim() * cfg.chunkIn
			consumed = 0
		}
	}
	return nil
}
