package dashboard

import (
	"context"
	"errors"
	"fmt"

	"AINutritionist/internal/activity"
	"AINutritionist/internal/display"
	"AINutritionist/internal/healthdata"
	"AINutritionist/internal/metrics"
	"AINutritionist/internal/premservice"
	"AINutritionist/internal/utility"
	"github.com/rs/zerolog"
)

// Page copy.
const (
	PageTitle   = "AI Nutritionist - Mockaroo Integration"
	PageCaption = "A simple and effective AI nutritionist app using Mockaroo API for health data!"

	HealthDataHeading = "Health Data"
	DailyTipHeading   = "Daily Tip"
	TipButtonLabel    = "Get Today's Tip"
	TipAction         = "/tip"

	slackingMessage = "Slacking Detected! You're below your activity goals."
	onTrackMessage  = "Great job! You're meeting your activity goals."
)

// ReadingFetcher produces today's reading. *healthdata.Fetcher satisfies it.
type ReadingFetcher interface {
	Fetch(ctx context.Context) utility.Outcome[activity.Reading]
}

// Suggester turns a prompt into suggestion text. *premservice.Client satisfies it.
type Suggester interface {
	Suggest(ctx context.Context, prompt string) utility.Outcome[string]
}

// Service runs the fetch, evaluate and suggest pipeline for one render.
type Service struct {
	fetcher   ReadingFetcher
	suggester Suggester
	log       zerolog.Logger
}

// NewService wires the pipeline stages together.
func NewService(fetcher ReadingFetcher, suggester Suggester, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:   fetcher,
		suggester: suggester,
		log:       logger.With().Str("component", "dashboard").Logger(),
	}
}

// Summary is the outcome of one pipeline run.
type Summary struct {
	Reading    *activity.Reading `json:"reading,omitempty"`
	Verdict    *activity.Verdict `json:"verdict,omitempty"`
	Prompt     string            `json:"prompt,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Errors     []string          `json:"errors,omitempty"`
}

// Run executes the pipeline. When the fetch fails no suggestion is requested.
func (s *Service) Run(ctx context.Context) Summary {
	var summary Summary

	fetched := s.fetcher.Fetch(ctx)
	if !fetched.Ok() {
		summary.Errors = append(summary.Errors, fetchErrorMessage(fetched.Err))
		return summary
	}

	reading := fetched.Value
	verdict := activity.Evaluate(reading)
	metrics.IncrementVerdict(verdict.Slacking)

	s.log.Info().
		Float64("steps", verdict.Steps).
		Float64("calories", verdict.Calories).
		Bool("slacking", verdict.Slacking).
		Msg("Evaluated activity reading")

	summary.Reading = &reading
	summary.Verdict = &verdict
	summary.Prompt = activity.Prompt(verdict)

	suggestion := s.suggester.Suggest(ctx, summary.Prompt)
	metrics.IncrementSuggestion("dashboard", suggestion.Ok())
	if !suggestion.Ok() {
		summary.Errors = append(summary.Errors, suggestErrorMessage(suggestion.Err))
	}
	summary.Suggestion = suggestion.ValueOr(premservice.FallbackText)

	return summary
}

// Render runs the pipeline and writes the full dashboard to surface.
func (s *Service) Render(ctx context.Context, surface display.Surface) {
	surface.Title(PageTitle)
	surface.Caption(PageCaption)

	surface.Header(HealthDataHeading)
	summary := s.Run(ctx)
	writeHealthData(surface, summary)

	surface.Header(DailyTipHeading)
	surface.Trigger(TipButtonLabel, TipAction)
}

// Tip requests the daily motivational tip. It always issues exactly one
// suggestion call and never touches the health data endpoint.
func (s *Service) Tip(ctx context.Context) utility.Outcome[string] {
	tip := s.suggester.Suggest(ctx, activity.TipPrompt)
	metrics.IncrementSuggestion("tip", tip.Ok())
	return tip
}

// RenderTip writes the tip page to surface.
func (s *Service) RenderTip(ctx context.Context, surface display.Surface) {
	surface.Title(PageTitle)
	surface.Header(DailyTipHeading)

	tip := s.Tip(ctx)
	if !tip.Ok() {
		surface.Error(suggestErrorMessage(tip.Err))
	}
	surface.Success("Tip: " + tip.ValueOr(premservice.FallbackText))
	surface.Trigger(TipButtonLabel, TipAction)
}

func writeHealthData(surface display.Surface, summary Summary) {
	if summary.Verdict == nil {
		for _, msg := range summary.Errors {
			surface.Error(msg)
		}
		return
	}

	v := summary.Verdict
	surface.Text("**Steps Today**: " + utility.FormatNumber(v.Steps))
	surface.Text("**Calories Burned Today**: " + utility.FormatNumber(v.Calories))

	if v.Slacking {
		surface.Error(slackingMessage)
	} else {
		surface.Success(onTrackMessage)
	}

	for _, msg := range summary.Errors {
		surface.Error(msg)
	}

	if v.Slacking {
		surface.Info("AI Suggestions:")
	} else {
		surface.Info("AI Motivational Message:")
	}
	surface.Text(summary.Suggestion)
}

func fetchErrorMessage(err error) string {
	var statusErr *healthdata.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Failed to fetch mock health data: %d", statusErr.StatusCode)
	}
	return fmt.Sprintf("Error fetching data: %v", err)
}

func suggestErrorMessage(err error) string {
	return fmt.Sprintf("Error using PREM API: %v", err)
}
