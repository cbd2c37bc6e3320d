package check

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/darkshare/darkshare/internal/geoip"
	"github.com/darkshare/darkshare/internal/i18n"
	"github.com/darkshare/darkshare/internal/model"
)

// Service is the check facade. It orchestrates validation and evaluation
// and is the only entry point the front-ends (HTTP API, bot handler, CLI)
// use.
//
// A Service is safe for concurrent use: each check is a pure function of
// its input plus independent random draws, and the only shared state is
// the random source, which is guarded by a mutex.
type Service struct {
	// geo is the geolocation provider client used by the IP heuristic.
	geo *geoip.Client

	// lang selects the language for summaries and validation errors.
	lang language.Tag

	// logger records check activity. Targets are expected to be masked
	// by the caller-installed handler (internal/log), not here.
	logger *slog.Logger

	// rng feeds the cosmetic detail fields. Guarded by mu because
	// math/rand/v2 sources are not safe for concurrent use.
	rng *rand.Rand
	mu  sync.Mutex

	// evaluators dispatches a check type to its heuristic.
	evaluators map[model.CheckType]evaluator
}

// evaluator is a single per-type heuristic. Only the IP evaluator uses
// the context (for its bounded external lookup); the rest are synchronous
// pure functions.
type evaluator func(ctx context.Context, value string, now time.Time) *model.CheckResult

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithGeoIP sets the geolocation client used by the IP heuristic.
func WithGeoIP(client *geoip.Client) ServiceOption {
	return func(s *Service) {
		s.geo = client
	}
}

// WithLanguage sets the language for summaries and validation messages.
func WithLanguage(lang language.Tag) ServiceOption {
	return func(s *Service) {
		s.lang = lang
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRand injects a random source. Tests pass a seeded source to make
// the cosmetic detail fields reproducible; production callers normally
// leave the default, which is seeded from crypto randomness.
func WithRand(rng *rand.Rand) ServiceOption {
	return func(s *Service) {
		s.rng = rng
	}
}

// NewService creates a check Service with the given options.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		lang: i18n.DefaultLanguage,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.geo == nil {
		s.geo = geoip.NewClient()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.rng == nil {
		s.rng = newSeededRand()
	}

	s.evaluators = map[model.CheckType]evaluator{
		model.CheckTypeIP:     s.checkIP,
		model.CheckTypeWallet: s.checkWallet,
		model.CheckTypePhone:  s.checkPhone,
		model.CheckTypeEmail:  s.checkEmail,
		model.CheckTypeDomain: s.checkDomain,
		model.CheckTypeURL:    s.checkURL,
	}

	return s
}

// PerformCheck runs the heuristic for the given type against the value
// and returns the resulting CheckResult.
//
// The value is expected to have passed ValidateInput already; evaluators
// do not re-validate. PerformCheck blocks only for the IP type, and then
// no longer than the geolocation lookup timeout. It returns an error only
// for an unrecognized type; every recognized type always produces a
// result, including on external lookup failure.
func (s *Service) PerformCheck(ctx context.Context, typ, value string) (*model.CheckResult, error) {
	checkType, ok := model.ParseCheckType(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	now := time.Now().UTC()
	result := s.evaluators[checkType](ctx, value, now)

	s.logger.Info("check completed",
		"type", checkType.String(),
		"target", value,
		"risk_score", result.RiskScore,
		"risk_level", result.RiskLevel.String(),
	)

	return result, nil
}

// newResult assembles a CheckResult, applying the score clamp, the
// score-to-level step function, and the localized summary. Every
// evaluator finishes through here so the level invariant cannot drift.
func (s *Service) newResult(
	typ model.CheckType,
	target, summaryTarget string,
	score int,
	details map[string]any,
	findings []string,
	sources []string,
	now time.Time,
) *model.CheckResult {
	score = model.ClampScore(score)
	level := model.RiskLevelForScore(score)

	return &model.CheckResult{
		Type:      typ,
		Target:    target,
		RiskScore: score,
		RiskLevel: level,
		Summary:   i18n.Summary(s.lang, typ, summaryTarget, level),
		Details:   details,
		Findings:  findings,
		Sources:   sources,
		Timestamp: now,
	}
}

// intn draws a uniform int in [0,n) from the injected source.
func (s *Service) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// float64n draws a uniform float in [0,1) from the injected source.
func (s *Service) float64n() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// newSeededRand creates a random source seeded from crypto randomness.
// crypto/rand.Read never fails on supported platforms; on the off chance
// it does, the zero seeds still yield a working (if predictable) source,
// which is acceptable for cosmetic detail fields.
func newSeededRand() *rand.Rand {
	var seed [16]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}

// shorten truncates a string for use in one-line summaries. Truncation is
// rune-based so multibyte targets never yield invalid UTF-8.
func shorten(value string, maxLen int) string {
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	return string(runes[:maxLen]) + "..."
}
