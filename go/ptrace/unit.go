package ptrace

import (
	"fmt"
	"sync/atomic"
	"time"
)

type Int int64

func (i *Int) AddInt(n int) int {
	return int(i.Add(int64(n)))
}

func (i *Int) Add(n int64) int64 {
	return atomic.AddInt64((*int64)(i), n)
}

// -----------------------------------------------------------------------------

type Size int64

func (s *Size) AddInt(n int) int {
	return (*Int)(s).AddInt(n)
}

func (s *Size) Add(n int64) int64 {
	return (*Int)(s).Add(n)
}

func (s Size) Rate(d time.Duration) Rate {
	return Rate{s, d}
}

func (i *Size) String() string {
	return Unit(atomic.LoadInt64((*int64)(i)))
}

// -----------------------------------------------------------------------------

type Rate struct {
	Size     Size
	Duration time.Duration
}

func (i Rate) String() string {
	speed := Size(int64(float64(i.Size) / i.Duration.Seconds()))

	return fmt.Sprintf("%v in %v (%v/S)",
		i.Size.String(), i.Duration.String(),
		speed.String(),
	)
}
