package middleware

import (
	"net/http"

	"github.com/ntp/agent-server-go/internal/httputil"
)

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}
