package handler

import (
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/httputil"
	"github.com/ntp/agent-server-go/internal/middleware"
	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/util"
)

func writeSuccess(w http.ResponseWriter, data any, message string) {
	httputil.Success(w, data, message)
}

func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err)
}

// page is the body of every paginated listing.
type page struct {
	List     any `json:"list"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	Limit    int `json:"limit"`
	LastPage int `json:"last_page,omitempty"`
}

// currentAgent returns the authenticated agent and tenant of the request.
// Protected routes always have a principal; the check covers misrouting.
func currentAgent(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	rc := middleware.GetRequestContext(r.Context())
	agentID, ok := rc.AgentID()
	if !ok {
		writeError(w, apperrors.MissingCredential())
		return 0, "", false
	}
	return agentID, rc.TenantScope, true
}

func dateRange(params url.Values, loc *time.Location) (model.DateRange, error) {
	from, to, err := util.ParseDayRange(params.Get("start_date"), params.Get("end_date"), loc)
	if err != nil {
		return model.DateRange{}, apperrors.ValidationError("日期格式错误").WithCause(err)
	}
	return model.DateRange{From: from, To: to}, nil
}
