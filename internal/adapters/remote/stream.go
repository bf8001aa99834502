package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/multidash/internal/domain/model"
	"github.com/okian/multidash/pkg/logger"
	"github.com/okian/multidash/pkg/metrics"
)

// Stream configuration constants.
const (
	streamHandshakeTimeout = 10 * time.Second
	streamReadTimeout      = 60 * time.Second
	streamPingInterval     = 30 * time.Second
)

// Sink receives quote updates read off the stream. Enqueue reports
// whether the update was accepted.
type Sink interface {
	Enqueue(ctx context.Context, u model.QuoteUpdate) bool
}

// quoteMessage is the wire format of a stream frame.
type quoteMessage struct {
	EventID   string  `json:"event_id"`
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prev_close"`
	TS        int64   `json:"ts"` // unix milliseconds
}

// QuoteStream subscribes to the live quote websocket and feeds updates
// into a Sink. It reconnects with exponential backoff and keeps the
// connection alive with a ping loop.
type QuoteStream struct {
	url  string
	sink Sink

	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	readTimeout  time.Duration
	pingInterval time.Duration
	logger       logger.Logger
}

// NewQuoteStream creates a stream subscriber for the given websocket URL.
func NewQuoteStream(url string, sink Sink, opts ...StreamOption) *QuoteStream {
	s := &QuoteStream{
		url:          url,
		sink:         sink,
		readTimeout:  streamReadTimeout,
		pingInterval: streamPingInterval,
		logger:       logger.Get().Named("quote-stream"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initiates the connection loop.
func (s *QuoteStream) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.runLoop(ctx)
}

// Stop terminates the stream.
func (s *QuoteStream) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.close()
	s.wg.Wait()
}

func (s *QuoteStream) runLoop(ctx context.Context) {
	defer s.wg.Done()
	retry := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := s.connect(ctx); err != nil {
			s.logger.Warn(ctx, "stream connection failed",
				logger.String("url", s.url),
				logger.Int("retry", retry),
				logger.Error(err),
			)
			delay := backoffDelay(retry)
			retry++

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
				continue
			}
		}

		if retry > 0 {
			metrics.RecordStreamReconnect()
		}
		retry = 0 // reset on successful connect
		s.process(ctx)
	}
}

func (s *QuoteStream) connect(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: streamHandshakeTimeout}
	header := make(http.Header)
	header.Set("User-Agent", defaultUserAgent)

	conn, resp, err := dialer.DialContext(ctx, s.url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	if s.pingInterval > 0 {
		go s.pingLoop(ctx, conn)
	}

	s.logger.Info(ctx, "stream connected", logger.String("url", s.url))
	return nil
}

func (s *QuoteStream) process(ctx context.Context) {
	for {
		s.mu.RLock()
		c := s.conn
		s.mu.RUnlock()
		if c == nil {
			return
		}

		_ = c.SetReadDeadline(time.Now().Add(s.readTimeout))
		_, msg, err := c.ReadMessage()
		if err != nil {
			s.logger.Warn(ctx, "stream read error", logger.Error(err))
			s.close()
			return
		}

		s.handleMessage(ctx, msg)
	}
}

func (s *QuoteStream) handleMessage(ctx context.Context, msg []byte) {
	var m quoteMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		s.logger.Warn(ctx, "stream frame decode failed", logger.Error(err))
		metrics.RecordErrorByComponent("stream", "decode_error")
		return
	}

	if m.Ticker == "" || m.Price <= 0 || m.PrevClose <= 0 {
		metrics.RecordQuoteRejected()
		return
	}

	update := model.QuoteUpdate{
		EventID:   m.EventID,
		Ticker:    m.Ticker,
		Price:     m.Price,
		PrevClose: m.PrevClose,
		Source:    "stream",
		TS:        time.UnixMilli(m.TS),
	}
	if update.EventID == "" {
		// Some feeds omit ids; mint one so dedupe still works downstream.
		update.EventID = uuid.NewString()
	}
	if m.TS == 0 {
		update.TS = time.Now()
	}

	if !s.sink.Enqueue(ctx, update) {
		s.logger.Warn(ctx, "stream update dropped, queue full",
			logger.String("ticker", update.Ticker),
		)
	}
}

// pingLoop keeps the connection it was spawned for alive. It exits once
// that connection is replaced so reconnects do not stack ping goroutines.
func (s *QuoteStream) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			current := s.conn
			s.mu.RUnlock()
			if current != conn {
				return
			}
			if err := s.ping(); err != nil {
				s.logger.Warn(ctx, "stream ping error", logger.Error(err))
				s.close()
				return
			}
		}
	}
}

func (s *QuoteStream) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	c := s.conn
	s.mu.RUnlock()
	if c == nil {
		return ErrNotConnected
	}

	return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

func (s *QuoteStream) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
}

// StreamOption applies a configuration option to the QuoteStream.
type StreamOption func(*QuoteStream)

// WithReadTimeout sets the read deadline applied per frame.
func WithReadTimeout(d time.Duration) StreamOption {
	return func(s *QuoteStream) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// WithPingInterval sets the keepalive ping interval. Zero disables pings.
func WithPingInterval(d time.Duration) StreamOption {
	return func(s *QuoteStream) {
		if d >= 0 {
			s.pingInterval = d
		}
	}
}

// WithStreamLogger sets a custom logger for the stream.
func WithStreamLogger(l logger.Logger) StreamOption {
	return func(s *QuoteStream) {
		if l != nil {
			s.logger = l
		}
	}
}
