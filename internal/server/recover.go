package server

import (
	"net/http"

	"plates/internal/ctxlog"
)

type rech struct {
	next http.Handler
}

func newRecover(next http.Handler) *rech {
	return &rech{next: next}
}

func (rec *rech) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if err := recover(); err != nil {
			if err == http.ErrAbortHandler {
				panic(err)
			}

			log := ctxlog.Get(r.Context())
			log.Error("recovered panic", "error", err)

			clear(w.Header())
			internalServerError(w, r)
		}
	}()

	rec.next.ServeHTTP(w, r)
}
