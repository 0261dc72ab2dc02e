package openvoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseFormat(t *testing.T) {
	for _, s := range []string{"url", "bytes", "base64", "stream", " URL "} {
		f, err := ParseResponseFormat(s)
		assert.NoError(t, err, s)
		assert.True(t, f.Valid())
	}

	_, err := ParseResponseFormat("mp3")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestGenerateAudioRequest_Defaults(t *testing.T) {
	req := GenerateAudioRequest{Input: "hi"}
	req.applyDefaults()

	assert.Equal(t, DefaultVersion, req.Version)
	assert.Equal(t, DefaultModel, req.Model)
	assert.Equal(t, DefaultVoice, req.Voice)
	assert.Equal(t, DefaultSpeed, req.Speed)
	assert.Equal(t, FormatURL, req.ResponseFormat)
}

func TestGenerateAudioRequest_PayloadOmitsOptional(t *testing.T) {
	req := GenerateAudioRequest{Input: "hi"}
	req.applyDefaults()

	raw, err := json.Marshal(req.payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"en","input":"hi","speed":1,"response_format":"url","voice":"raw"}`, string(raw))

	req.Style = "cheerful"
	req.Accent = "en-br"
	raw, err = json.Marshal(req.payload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"en","input":"hi","speed":1,"response_format":"url","voice":"raw","style":"cheerful","accent":"en-br"}`, string(raw))
}

func TestChangeVoiceRequest_Payload(t *testing.T) {
	req := ChangeVoiceRequest{Voice: "elon", AudioData: []byte("QUJD")}
	req.applyDefaults()
	require.NoError(t, req.validate())

	data, err := req.audioData()
	require.NoError(t, err)

	raw, err := json.Marshal(req.payload(data))
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"en","response_format":"url","voice":"elon","audio_data":"QUJD"}`, string(raw))
}

func TestResult_Payload(t *testing.T) {
	assert.Nil(t, Result{StatusCode: 500}.Payload())
	assert.Nil(t, Result{StatusCode: 400, Format: FormatURL, Message: "Bad Request"}.Payload())
	assert.Nil(t, Result{StatusCode: 200, Format: FormatURL, URL: "u", Err: ErrProtocol}.Payload())
	assert.Equal(t, []byte{}, Result{StatusCode: 200, Format: FormatBytes, Audio: []byte{}}.Payload())
	assert.Equal(t, "out.wav", Result{StatusCode: 200, Format: FormatBase64, FilePath: "out.wav"}.Payload())

	// пустой url в успешном ответе остается полезной нагрузкой
	empty := Result{StatusCode: 200, Format: FormatURL}
	assert.NotNil(t, empty.Payload())
	assert.Equal(t, "", empty.Payload())
}
