package middleware

import "net/http"

// responseStats wraps http.ResponseWriter to record what RequestLogger
// reports: the status sent and the body size. A transcript response can
// run to hundreds of kilobytes, so size is logged alongside latency.
type responseStats struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func newResponseStats(w http.ResponseWriter) *responseStats {
	return &responseStats{ResponseWriter: w}
}

func (rs *responseStats) WriteHeader(code int) {
	if rs.status == 0 {
		rs.status = code
	}
	rs.ResponseWriter.WriteHeader(code)
}

func (rs *responseStats) Write(b []byte) (int, error) {
	if rs.status == 0 {
		rs.status = http.StatusOK
	}
	n, err := rs.ResponseWriter.Write(b)
	rs.bytes += int64(n)
	return n, err
}

// Status is the code sent, 200 when the handler wrote nothing.
func (rs *responseStats) Status() int {
	if rs.status == 0 {
		return http.StatusOK
	}
	return rs.status
}

// Flush implements http.Flusher.
func (rs *responseStats) Flush() {
	if f, ok := rs.ResponseWriter.(http.Flusher); ok {
		if rs.status == 0 {
			rs.status = http.StatusOK
		}
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rs *responseStats) Unwrap() http.ResponseWriter {
	return rs.ResponseWriter
}
