package http

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6"
	"github.com/didip/tollbooth/v6/limiter"
)

// withThrottle applies a coarse per-client requests-per-second cap at the
// router level. This protects the whole surface from floods; the
// login-attempt limiter with its lock windows and IP bans is a separate,
// finer mechanism inside the service layer.
func (h *Handler) withThrottle(next http.Handler) http.Handler {
	lmt := tollbooth.NewLimiter(h.throttleRPS, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Hour,
	})
	lmt.SetIPLookups([]string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"})
	lmt.SetMessage(`{"message":"too many requests"}`)
	lmt.SetMessageContentType("application/json; charset=utf-8")

	return tollbooth.LimitHandler(lmt, next)
}
