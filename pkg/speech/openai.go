package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

const (
	transcribeLanguage = "en"
	defaultChatModel   = openai.ChatModelGPT4oMini
)

// Client talks to the OpenAI API for all three speech operations:
// transcription, intent parsing, and synthesis.
type Client struct {
	oai   openai.Client
	model openai.ChatModel
	voice string
	speed float64
}

// NewClient creates a speech client. voice and speed configure synthesis.
func NewClient(apiKey, voice string, speed float64) *Client {
	return &Client{
		oai:   openai.NewClient(option.WithAPIKey(apiKey)),
		model: defaultChatModel,
		voice: voice,
		speed: speed,
	}
}

// Transcribe submits a WAV-packaged utterance for speech recognition.
// prompt biases the decoder toward the callsigns currently on scope.
func (c *Client) Transcribe(ctx context.Context, wav []byte, prompt string) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(wav), "radio.wav", "audio/wav"),
		Model:    openai.AudioModelWhisper1,
		Language: param.NewOpt(transcribeLanguage),
	}
	if prompt != "" {
		params.Prompt = param.NewOpt(prompt)
	}
	resp, err := c.oai.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("speech: transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// incomingSchema constrains the parse response to exactly the fields of
// IncomingTransmission, with the intent as a closed enum.
var incomingSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"to_callsign": {
			Type:        "string",
			Description: "Callsign the transmission is addressed to",
		},
		"from_callsign": {
			Type:        "string",
			Description: "Callsign of the speaker",
		},
		"intent": {
			Type: "string",
			Enum: []any{
				string(IntentRadioCheck),
				string(IntentRequestBogeyDope),
				string(IntentUnknown),
			},
		},
	},
	Required:             []string{"to_callsign", "from_callsign", "intent"},
	AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
}

func intentSystemPrompt(ownCallsign string) string {
	return fmt.Sprintf(`You classify military aviation radio transmissions addressed to the AWACS controller %q.

A transmission normally has the form "<to callsign>, <from callsign>, <request>".
Classify the request as one of:
  radio_check        - a request to confirm radio reception ("radio check", "how do you read")
  request_bogey_dope - a request for the nearest enemy contact ("bogey dope")
  unknown            - anything else

Extract the callsigns as spoken. If a field cannot be determined, use an empty string and intent "unknown".`, ownCallsign)
}

// ParseIntent turns a transcript into a structured transmission using a
// chat completion with a JSON-schema constrained response.
func (c *Client) ParseIntent(ctx context.Context, transcript, ownCallsign string) (IncomingTransmission, error) {
	resp, err := c.oai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(intentSystemPrompt(ownCallsign)),
			openai.UserMessage(transcript),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "incoming_transmission",
					Schema: any(incomingSchema),
					Strict: param.NewOpt(true),
				},
			},
		},
	})
	if err != nil {
		return IncomingTransmission{}, fmt.Errorf("speech: parse intent: %w", err)
	}
	if len(resp.Choices) == 0 {
		return IncomingTransmission{}, fmt.Errorf("speech: parse intent: no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return IncomingTransmission{}, fmt.Errorf("speech: parse intent: empty response")
	}

	var raw struct {
		ToCallsign   string `json:"to_callsign"`
		FromCallsign string `json:"from_callsign"`
		Intent       string `json:"intent"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return IncomingTransmission{}, fmt.Errorf("speech: parse intent response %q: %w", content, err)
	}
	return IncomingTransmission{
		ToCallsign:   strings.TrimSpace(raw.ToCallsign),
		FromCallsign: strings.TrimSpace(raw.FromCallsign),
		Intent:       ParseIntentValue(raw.Intent),
	}, nil
}

// Synthesize renders text to speech as an Ogg Opus byte stream.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.oai.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoice(c.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatOpus,
		Speed:          param.NewOpt(c.speed),
	})
	if err != nil {
		return nil, fmt.Errorf("speech: synthesize: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("speech: read synthesized audio: %w", err)
	}
	return body, nil
}
