package handler

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	env, err := DecodeRequest([]byte("METHOD=create_user&first_name=Jane&last_name=Doe"))
	require.NoError(t, err)

	assert.Equal(t, "create_user", env["METHOD"])
	assert.Equal(t, "Jane", env["first_name"])
	assert.Equal(t, "Doe", env["last_name"])
}

func TestDecodeRequest_TrimsBody(t *testing.T) {
	env, err := DecodeRequest([]byte("  METHOD=testing&HELLO=hi  \n"))
	require.NoError(t, err)

	assert.Equal(t, "testing", env["METHOD"])
	assert.Equal(t, "hi", env["HELLO"])
}

func TestDecodeRequest_EscapedValues(t *testing.T) {
	env, err := DecodeRequest([]byte("email=" + url.QueryEscape("jane+doe@example.com")))
	require.NoError(t, err)

	assert.Equal(t, "jane+doe@example.com", env["email"])
}

func TestDecodeRequest_Malformed(t *testing.T) {
	_, err := DecodeRequest([]byte("first_name=%zz"))
	assert.Error(t, err)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	fields := map[string]string{
		"Result":    "Success",
		"FirstName": "Jane",
		"LastName":  "Doe",
		"Email":     "jane@example.com",
	}

	env := make(ResponseEnvelope, len(fields))
	for k, v := range fields {
		env[k] = v
	}

	data, err := EncodeResponse(env)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, fields, decoded)
}

func TestHas(t *testing.T) {
	env := RequestEnvelope{"first_name": "Jane", "last_name": "Doe", "empty": ""}

	assert.True(t, env.Has("first_name", "last_name"))
	assert.False(t, env.Has("first_name", "email"))
	assert.False(t, env.Has("empty"))
}
