package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RelayConfig configures a Relay. Endpoints maps a kind name to the URL
// its submissions are forwarded to; kinds without an endpoint are rejected.
type RelayConfig struct {
	Endpoints map[string]string
	Timeout   time.Duration
	Limiter   Limiter
	Recorder  Recorder
	Client    *http.Client
	Logger    *slog.Logger
}

// Relay validates submissions and forwards them to external endpoints.
type Relay struct {
	endpoints map[Kind]string
	client    *http.Client
	limiter   Limiter
	recorder  Recorder
	logger    *slog.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// NewRelay builds a Relay from cfg.
func NewRelay(cfg RelayConfig) *Relay {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	endpoints := make(map[Kind]string, len(cfg.Endpoints))
	for name, url := range cfg.Endpoints {
		if k, ok := ParseKind(name); ok && url != "" {
			endpoints[k] = url
		}
	}
	return &Relay{
		endpoints: endpoints,
		client:    cfg.Client,
		limiter:   cfg.Limiter,
		recorder:  cfg.Recorder,
		logger:    cfg.Logger,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

// Enabled reports whether kind has a configured endpoint.
func (r *Relay) Enabled(kind Kind) bool {
	_, ok := r.endpoints[kind]
	return ok
}

// Submit forwards one payload for kind on behalf of ip. The returned
// Submission carries the assigned ID even when delivery failed.
func (r *Relay) Submit(ctx context.Context, kind Kind, ip string, payload any) (Submission, error) {
	endpoint, ok := r.endpoints[kind]
	if !ok {
		return Submission{}, ErrUnknownKind
	}

	if r.limiter != nil {
		allowed, err := r.limiter.Allow(ctx, ip)
		if err != nil {
			// Fail open.
			r.logger.Warn("form limiter unavailable", "kind", kind, "err", err)
		} else if !allowed {
			submissionsTotal.WithLabelValues(string(kind), outcomeRateLimited).Inc()
			return Submission{}, ErrRateLimited
		}
	}

	if err := r.validate.Struct(payload); err != nil {
		submissionsTotal.WithLabelValues(string(kind), outcomeInvalid).Inc()
		return Submission{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		submissionsTotal.WithLabelValues(string(kind), outcomeError).Inc()
		return Submission{}, err
	}

	sub := Submission{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   body,
		CreatedAt: r.now().UTC(),
	}

	status, sendErr := r.send(ctx, kind, endpoint, sub)
	sub.UpstreamStatus = status
	switch {
	case sendErr != nil:
		sub.Status = StatusFailed
		sub.Error = sendErr.Error()
		submissionsTotal.WithLabelValues(string(kind), outcomeUpstream).Inc()
		r.logger.Error("form relay failed", "kind", kind, "id", sub.ID, "status", status, "err", sendErr)
	default:
		sub.Status = StatusDelivered
		submissionsTotal.WithLabelValues(string(kind), outcomeDelivered).Inc()
		r.logger.Info("form relayed", "kind", kind, "id", sub.ID, "status", status)
	}

	if r.recorder != nil {
		if err := r.recorder.SaveSubmission(ctx, sub); err != nil {
			r.logger.Error("record submission", "id", sub.ID, "err", err)
		}
	}
	return sub, sendErr
}

func (r *Relay) send(ctx context.Context, kind Kind, endpoint string, sub Submission) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(sub.Payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Submission-ID", sub.ID)

	start := time.Now()
	resp, err := r.client.Do(req)
	upstreamSeconds.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return resp.StatusCode, nil
}
