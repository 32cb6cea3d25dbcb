package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
)

// requestParams merges query parameters with the request body. A JSON
// object body is flattened to strings so GET, form and JSON callers bind
// the same way.
func requestParams(r *http.Request) (url.Values, error) {
	params := url.Values{}
	for k, v := range r.URL.Query() {
		params[k] = v
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return params, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, apperrors.ValidationError("请求参数格式错误").WithCause(err)
		}
		for k, v := range body {
			if s, ok := scalarString(v); ok {
				params.Set(k, s)
			}
		}
		return params, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, apperrors.ValidationError("请求参数格式错误").WithCause(err)
	}
	for k, v := range r.PostForm {
		params[k] = v
	}
	return params, nil
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(t), true
	}
}

func intParam(params url.Values, key string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(params.Get(key)), 10, 64)
	return v
}

// floatParam passes NaN and ±Inf through unchanged; the services reject
// non-finite amounts and proportions.
func floatParam(params url.Values, key string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(params.Get(key)), 64)
	return v
}
