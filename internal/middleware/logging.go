// internal/middleware/logging.go
package middleware

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// RequestLogger wraps an HTTP handler and logs one structured line per
// request. The ResponseWriter is passed through untouched: the room
// websocket endpoint hijacks the connection and must see the real writer.
func RequestLogger(logger *logrus.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote":      r.RemoteAddr,
			}).Info("request served")
		})
	}
}

// LogRoomSocketOpen records a player's websocket attaching to a room.
func LogRoomSocketOpen(logger *logrus.Logger, roomID, playerID, remoteAddr string) {
	logger.WithFields(logrus.Fields{
		"room_id":   roomID,
		"player_id": playerID,
		"remote":    remoteAddr,
	}).Info("room socket opened")
}

// LogRoomSocketClose records the socket detaching. The seat itself
// survives the socket; err is nil on a clean close.
func LogRoomSocketClose(logger *logrus.Logger, roomID, playerID, remoteAddr string, err error) {
	fields := logrus.Fields{
		"room_id":   roomID,
		"player_id": playerID,
		"remote":    remoteAddr,
	}
	if err != nil {
		fields["error"] = err
	}
	logger.WithFields(fields).Info("room socket closed")
}
