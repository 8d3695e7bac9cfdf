package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying request context.
//
// Every request starts with status 404. A hook that produces a response moves
// the status away from 404, either through SetStatus/SetBody or by writing
// directly with JSON, String, NoContent or Redirect. The dispatcher checks
// Responded after every hook and stops once it returns true.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// SetContext replaces the request's context. Hooks awaited after the
	// call observe its deadline and cancellation.
	SetContext(ctx context.Context)

	// Path returns the escaped request URL path the route is resolved from.
	// Encoded separators such as %2F stay inside their segment.
	Path() string

	// Route returns the resolved module/controller/action.
	// It is the zero Route until the dispatcher has resolved the path.
	Route() Route

	// SetRoute records the resolved route. Called by the dispatcher.
	SetRoute(r Route)

	// Query returns the query parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// Status returns the response status. It is 404 until something sets it.
	Status() int

	// SetStatus sets the status the buffered body is sent with.
	SetStatus(code int)

	// Body returns the buffered response body.
	Body() any

	// SetBody buffers a response body to be written after dispatch.
	// A non-nil body moves a 404 status to 200.
	SetBody(v any)

	// Responded reports whether a response has been produced, i.e. the
	// status has moved away from 404.
	Responded() bool

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	Redirect(code int, url string) error

	// URL builds path with params appended as a query string.
	URL(path string, params map[string]string) string

	// Error creates and returns an HTTPError without writing a response.
	// The error should be returned from the hook to trigger the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written returns true if a response has already been written.
	Written() bool

	// Logger returns the logger for advanced usage.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	// The value can be retrieved using Get or from c.Context().Value(key).
	Set(key any, value any)

	// Get retrieves a value from the request context.
	// Returns nil if the key is not found.
	Get(key any) any
}

// routeKey is the request context key the resolved Route is stored under.
type routeKey struct{}

// requestContext implements the Context interface.
type requestContext struct {
	request   *http.Request
	response  *ResponseWriter
	logger    *slog.Logger
	body      any
	route     Route
	status    int
	responded bool
}

// NewContext creates a Context for w and r.
// Exported for tests and for hosts that drive the Dispatcher directly.
func NewContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) Context {
	return newContext(w, r, logger)
}

func newContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &requestContext{
		request:  r,
		response: rw,
		logger:   logger,
		status:   http.StatusNotFound,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) SetContext(ctx context.Context) {
	if ctx != nil {
		c.request = c.request.WithContext(ctx)
	}
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Path() string {
	return c.request.URL.EscapedPath()
}

func (c *requestContext) Route() Route {
	return c.route
}

func (c *requestContext) SetRoute(r Route) {
	c.route = r
	c.Set(routeKey{}, r)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	v := c.request.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) Status() int {
	if c.response.Written() {
		return c.response.Status()
	}
	return c.status
}

func (c *requestContext) SetStatus(code int) {
	c.status = code
	c.responded = code != http.StatusNotFound
}

func (c *requestContext) Body() any {
	return c.body
}

func (c *requestContext) SetBody(v any) {
	c.body = v
	if v != nil && c.status == http.StatusNotFound {
		c.SetStatus(http.StatusOK)
	}
}

func (c *requestContext) Responded() bool {
	if c.response.Written() {
		return c.response.Status() != http.StatusNotFound
	}
	return c.responded
}

func (c *requestContext) JSON(code int, v any) error {
	c.SetStatus(code)
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.SetStatus(code)
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.SetStatus(code)
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	c.SetStatus(code)
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) URL(path string, params map[string]string) string {
	return path + BuildQuery("", params)
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

// flush writes the buffered status and body unless a response was already
// written directly.
func flush(c Context) error {
	if c.Written() {
		return nil
	}

	w := c.Response()
	code := c.Status()

	switch body := c.Body().(type) {
	case nil:
		w.WriteHeader(code)
		return nil
	case string:
		setDefaultContentType(w, "text/plain; charset=utf-8")
		w.WriteHeader(code)
		_, err := io.WriteString(w, body)
		return err
	case []byte:
		setDefaultContentType(w, "application/octet-stream")
		w.WriteHeader(code)
		_, err := w.Write(body)
		return err
	case io.Reader:
		setDefaultContentType(w, "application/octet-stream")
		w.WriteHeader(code)
		_, err := io.Copy(w, body)
		if closer, ok := body.(io.Closer); ok {
			_ = closer.Close()
		}
		return err
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode response body: %w", err)
		}
		setDefaultContentType(w, "application/json; charset=utf-8")
		w.WriteHeader(code)
		_, err = w.Write(data)
		return err
	}
}

func setDefaultContentType(w http.ResponseWriter, contentType string) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", contentType)
	}
}
