// Package llm talks to the OpenAI-compatible completion endpoint. The
// streaming path parses provider SSE lines into content deltas; the
// club's own wire frames are assembled by the handler layer.
package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"github.com/daosail/daosail-server/internal/infrastructure/logger"
	"github.com/daosail/daosail-server/internal/infrastructure/metrics"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

const (
	channelBufferSize    = 100
	errorBufferSize      = 10
	dataPrefix           = "data: "
	doneMarker           = "[DONE]"
	scannerInitialBuffer = 12 * 1024        // 12KB
	scannerMaxBuffer     = 10 * 1024 * 1024 // 10MB
)

// TokenUsage mirrors the usage block of the provider response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamResult is the aggregate of one finished streaming completion.
type StreamResult struct {
	Content      string
	FinishReason string
	Usage        TokenUsage
}

// DeltaFunc receives each content delta as it arrives. Returning an
// error aborts the stream.
type DeltaFunc func(delta string) error

type CompletionClient struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	timeout time.Duration
}

func NewCompletionClient(client *resty.Client, baseURL, apiKey string, timeout time.Duration) *CompletionClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &CompletionClient{
		client:  client,
		baseURL: normalizeBaseURL(baseURL),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// Complete runs one non-streaming completion.
func (c *CompletionClient) Complete(ctx context.Context, request openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var respBody openai.ChatCompletionResponse
	resp, err := c.prepareRequest(ctx).
		SetBody(request).
		SetResult(&respBody).
		Post(c.endpoint("/chat/completions"))
	if err != nil {
		metrics.RecordProviderError(request.Model, "request")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "completion request failed")
	}
	if resp.IsError() {
		metrics.RecordProviderError(request.Model, "http_error")
		return nil, c.errorFromResponse(ctx, resp, "completion request failed")
	}

	metrics.RecordLLMDuration(request.Model, false, time.Since(start).Seconds())
	metrics.RecordTokens(request.Model, respBody.Usage.PromptTokens, respBody.Usage.CompletionTokens)
	return &respBody, nil
}

// Stream runs one streaming completion, invoking onDelta per content
// fragment, and returns the accumulated result.
func (c *CompletionClient) Stream(ctx context.Context, request openai.ChatCompletionRequest, onDelta DeltaFunc) (*StreamResult, error) {
	request.Stream = true
	// Usage arrives on the final chunk when requested
	request.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dataChan := make(chan string, channelBufferSize)
	errChan := make(chan error, errorBufferSize)

	var wg sync.WaitGroup
	wg.Add(1)
	go c.streamResponseToChannel(ctx, request, dataChan, errChan, &wg)

	metrics.IncrementActiveStreams(request.Model)
	defer metrics.DecrementActiveStreams(request.Model)

	start := time.Now()
	firstToken := true
	var contentBuilder strings.Builder
	result := &StreamResult{FinishReason: "stop"}

	streamingComplete := false
	channelClosed := false
	for !streamingComplete {
		select {
		case line, ok := <-dataChan:
			if !ok {
				streamingComplete = true
				channelClosed = true
				break
			}
			data, found := strings.CutPrefix(line, dataPrefix)
			if !found {
				continue
			}
			if data == doneMarker {
				streamingComplete = true
				cancel()
				break
			}

			chunk := c.parseStreamChunk(data)
			if chunk == nil {
				continue
			}
			if chunk.usage != nil {
				result.Usage = *chunk.usage
			}
			if chunk.finishReason != "" {
				result.FinishReason = chunk.finishReason
			}
			if chunk.content == "" {
				continue
			}
			if firstToken {
				metrics.RecordFirstToken(request.Model, time.Since(start).Seconds())
				firstToken = false
			}
			contentBuilder.WriteString(chunk.content)
			if err := onDelta(chunk.content); err != nil {
				cancel()
				wg.Wait()
				return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "stream consumer failed")
			}

		case err, ok := <-errChan:
			if ok && err != nil {
				cancel()
				wg.Wait()
				metrics.RecordProviderError(request.Model, "stream")
				return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "streaming error")
			}

		case <-ctx.Done():
			wg.Wait()
			return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, ctx.Err(), "streaming context cancelled")
		}
	}

	cancel()
	wg.Wait()

	// The producer buffers its error and then closes dataChan, so when
	// both channels are ready the select above may take the closed-data
	// branch first. A close without [DONE] must re-check for a stranded
	// error before the stream can be reported as complete.
	if channelClosed {
		select {
		case err := <-errChan:
			if err != nil {
				metrics.RecordProviderError(request.Model, "stream")
				return nil, platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "streaming error")
			}
		default:
		}
	}

	result.Content = contentBuilder.String()
	metrics.RecordLLMDuration(request.Model, true, time.Since(start).Seconds())
	metrics.RecordTokens(request.Model, result.Usage.PromptTokens, result.Usage.CompletionTokens)
	return result, nil
}

func (c *CompletionClient) prepareRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	return req
}

func (c *CompletionClient) endpoint(path string) string {
	if strings.HasPrefix(path, "/") {
		return c.baseURL + path
	}
	return c.baseURL + "/" + path
}

func (c *CompletionClient) errorFromResponse(ctx context.Context, resp *resty.Response, message string) error {
	if resp == nil || resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "3476dd55-5fc0-4653-bd10-665895ecc099")
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(resp.RawResponse.Body)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "8cd2cae7-9ad9-40fe-ac00-8f9b24251064")
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "b8797de4-38cb-4bd9-9ae8-b9a04e70f6ab")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, fmt.Sprintf("%s: %s", message, trimmed), nil, "a1f46e0d-4017-4411-ac05-987946c3066d")
}

func (c *CompletionClient) doStreamingRequest(ctx context.Context, request openai.ChatCompletionRequest) (*resty.Response, error) {
	req := c.prepareRequest(ctx).
		SetBody(request).
		SetDoNotParseResponse(true)

	if req.Header.Get("Accept-Encoding") == "" {
		req.SetHeader("Accept-Encoding", "identity")
	}

	resp, err := req.Post(c.endpoint("/chat/completions"))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, c.errorFromResponse(ctx, resp, "streaming request failed")
	}
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "streaming request failed: empty response body", nil, "1b3ab461-dbf9-4034-8abb-dfc6ea8486c5")
	}
	return resp, nil
}

func (c *CompletionClient) streamResponseToChannel(ctx context.Context, request openai.ChatCompletionRequest, dataChan chan<- string, errChan chan<- error, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(dataChan)

	resp, err := c.doStreamingRequest(ctx, request)
	if err != nil {
		c.sendAsyncError(errChan, err)
		return
	}

	defer func() {
		if closeErr := resp.RawResponse.Body.Close(); closeErr != nil {
			log := logger.GetLogger()
			log.Error().Err(closeErr).Msg("unable to close response body")
		}
	}()

	scanner := bufio.NewScanner(resp.RawResponse.Body)
	scanner.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxBuffer)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()

		select {
		case dataChan <- line:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		c.sendAsyncError(errChan, err)
	}
}

type streamChunk struct {
	content      string
	finishReason string
	usage        *TokenUsage
}

func (c *CompletionClient) parseStreamChunk(data string) *streamChunk {
	var streamData struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage *TokenUsage `json:"usage"`
	}

	if err := json.Unmarshal([]byte(data), &streamData); err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Str("data", data).Msg("failed to parse stream chunk JSON")
		return nil
	}

	chunk := &streamChunk{usage: streamData.Usage}
	for _, choice := range streamData.Choices {
		chunk.content += choice.Delta.Content
		if choice.FinishReason != "" {
			chunk.finishReason = choice.FinishReason
		}
	}
	return chunk
}

func (c *CompletionClient) sendAsyncError(errChan chan<- error, err error) {
	if err == nil {
		return
	}
	select {
	case errChan <- err:
	default:
	}
}

func normalizeBaseURL(base string) string {
	trimmed := strings.TrimSpace(base)
	return strings.TrimRight(trimmed, "/")
}
