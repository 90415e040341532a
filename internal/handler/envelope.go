package handler

import (
	"encoding/json"
	"net/url"
	"strings"
)

// RequestEnvelope is the parsed per-call parameter mapping. Values are
// always strings; repeated keys keep the first value.
type RequestEnvelope map[string]string

// Has reports whether every key is present with a non-empty value.
func (e RequestEnvelope) Has(keys ...string) bool {
	for _, k := range keys {
		if e[k] == "" {
			return false
		}
	}
	return true
}

// DecodeRequest parses a URL-encoded request body into an envelope.
func DecodeRequest(body []byte) (RequestEnvelope, error) {
	trimmed := strings.TrimSpace(string(body))
	values, err := url.ParseQuery(trimmed)
	if err != nil {
		return nil, err
	}

	env := make(RequestEnvelope, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			env[key] = vals[0]
		}
	}
	return env, nil
}

// ResponseEnvelope is the structured response document. The Result key
// holds "Success" or "Failure"; failures add Message; method payload
// fields share the document root.
type ResponseEnvelope map[string]any

// EncodeResponse serializes the envelope as UTF-8 JSON.
func EncodeResponse(env ResponseEnvelope) ([]byte, error) {
	return json.Marshal(env)
}

func successDoc(fields ResponseEnvelope) ResponseEnvelope {
	if fields == nil {
		fields = make(ResponseEnvelope, 1)
	}
	fields["Result"] = "Success"
	return fields
}

func failureDoc(msg string) ResponseEnvelope {
	return ResponseEnvelope{
		"Result":  "Failure",
		"Message": msg,
	}
}
