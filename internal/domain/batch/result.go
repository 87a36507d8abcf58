package batch

// Status is the processing outcome of a single fan-out task.
type Status string

// Task status values.
const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one task in a best-effort fan-out.
// Skipped results carry the reason; they never fail the batch.
type Result[T any] struct {
	id     string
	status Status
	value  T
	err    error
}

// NewOK creates a successful result.
func NewOK[T any](id string, value T) Result[T] {
	return Result[T]{id: id, status: StatusOK, value: value}
}

// NewSkipped creates a skipped result. err may be nil when the provider simply had nothing.
func NewSkipped[T any](id string, err error) Result[T] {
	return Result[T]{id: id, status: StatusSkipped, err: err}
}

// ID returns the task identifier.
func (r Result[T]) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result[T]) Status() Status { return r.status }

// Value returns the produced value; zero for skipped results.
func (r Result[T]) Value() T { return r.value }

// Err returns the skip reason, if any.
func (r Result[T]) Err() error { return r.err }

// OK reports whether the task produced a value.
func (r Result[T]) OK() bool { return r.status == StatusOK }

// Successful filters results down to the values of successful tasks, preserving order.
func Successful[T any](results []Result[T]) []T {
	out := make([]T, 0, len(results))
	for _, r := range results {
		if r.OK() {
			out = append(out, r.value)
		}
	}
	return out
}
