package inmemory

import "sync"

type Snapshot struct {
	RequestTotal    uint64            `json:"request_total"`
	RequestFailure  uint64            `json:"request_failure"`
	NoGameResponses uint64            `json:"no_game_responses"`
	ByEndpoint      map[string]uint64 `json:"by_endpoint"`
}

// Recorder counts automation requests. It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	total      uint64
	failure    uint64
	noGame     uint64
	byEndpoint map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byEndpoint: map[string]uint64{},
	}
}

func (r *Recorder) RecordRequest(endpoint string, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	if failed {
		r.failure++
	}
	r.byEndpoint[endpoint]++
}

func (r *Recorder) RecordNoGame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noGame++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		RequestTotal:    r.total,
		RequestFailure:  r.failure,
		NoGameResponses: r.noGame,
		ByEndpoint:      make(map[string]uint64, len(r.byEndpoint)),
	}
	for k, v := range r.byEndpoint {
		out.ByEndpoint[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
