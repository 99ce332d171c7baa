package server

import (
	"hash/fnv"
	"io"
	"net"
	"net/http"
	"time"
)

type antidosBucket struct {
	ticker  *time.Ticker
	tickets chan struct{}
}

// antidos spreads clients over buckets by remote host. Each bucket lets
// one request through per period and queues at most maxConcurrent; the
// rest get 429.
type antidos struct {
	buckets []antidosBucket
}

func newAntidos(buckets int, period time.Duration, maxConcurrent int) *antidos {
	b := make([]antidosBucket, buckets)
	for i := range b {
		b[i] = antidosBucket{
			ticker:  time.NewTicker(period),
			tickets: make(chan struct{}, maxConcurrent),
		}
	}

	return &antidos{
		buckets: b,
	}
}

func (a *antidos) bucket(r *http.Request) *antidosBucket {
	var bucket int
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		h := fnv.New64()
		io.WriteString(h, host)
		bucket = int(h.Sum64() % uint64(len(a.buckets)))
	}
	return &a.buckets[bucket]
}

func (a *antidos) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b := a.bucket(r)

		select {
		case b.tickets <- struct{}{}:
			defer func() { <-b.tickets }()
		default:
			tooManyRequests(w, r)
			return
		}

		select {
		case <-b.ticker.C:
		case <-r.Context().Done():
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *antidos) stop() {
	for _, b := range a.buckets {
		b.ticker.Stop()
	}
}
