package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"AINutritionist/internal/activity"
	"AINutritionist/internal/display"
	"AINutritionist/internal/healthdata"
	"AINutritionist/internal/premservice"
	"AINutritionist/internal/utility"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	out   utility.Outcome[activity.Reading]
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context) utility.Outcome[activity.Reading] {
	f.calls++
	return f.out
}

type recordingSuggester struct {
	prompts []string
	fail    error
}

func (s *recordingSuggester) Suggest(ctx context.Context, prompt string) utility.Outcome[string] {
	s.prompts = append(s.prompts, prompt)
	if s.fail != nil {
		return utility.Failure(premservice.FallbackText, s.fail)
	}
	return utility.Success("Keep moving!")
}

func readingOK(steps, calories float64) *stubFetcher {
	return &stubFetcher{out: utility.Success(activity.NewReading(steps, calories))}
}

func fetchFailed(err error) *stubFetcher {
	return &stubFetcher{out: utility.Failure(activity.Reading{}, err)}
}

// blankSuggester fails without supplying a fallback value.
type blankSuggester struct{}

func (blankSuggester) Suggest(ctx context.Context, prompt string) utility.Outcome[string] {
	return utility.Failure("", errors.New("quota exceeded"))
}

func sectionByHeading(p *display.Page, heading string) (display.Section, bool) {
	for _, s := range p.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return display.Section{}, false
}

func newTestService(f ReadingFetcher, s Suggester) *Service {
	return NewService(f, s, zerolog.Nop())
}

func TestRun_SlackingReading(t *testing.T) {
	suggester := &recordingSuggester{}
	svc := newTestService(readingOK(3000, 1800), suggester)

	summary := svc.Run(context.Background())

	require.NotNil(t, summary.Verdict)
	assert.True(t, summary.Verdict.Slacking)
	require.Len(t, suggester.prompts, 1)
	assert.Contains(t, suggester.prompts[0], "What can I do to improve?")
	assert.Equal(t, "Keep moving!", summary.Suggestion)
	assert.Empty(t, summary.Errors)
}

func TestRun_OnTrackReading(t *testing.T) {
	suggester := &recordingSuggester{}
	svc := newTestService(readingOK(8000, 2500), suggester)

	summary := svc.Run(context.Background())

	require.NotNil(t, summary.Verdict)
	assert.False(t, summary.Verdict.Slacking)
	require.Len(t, suggester.prompts, 1)
	assert.Contains(t, suggester.prompts[0], "stay on track")
}

func TestRun_FetchFailureSkipsSuggestion(t *testing.T) {
	suggester := &recordingSuggester{}
	svc := newTestService(fetchFailed(&healthdata.StatusError{StatusCode: http.StatusInternalServerError}), suggester)

	summary := svc.Run(context.Background())

	assert.Nil(t, summary.Reading)
	assert.Nil(t, summary.Verdict)
	assert.Empty(t, suggester.prompts)
	assert.Equal(t, []string{"Failed to fetch mock health data: 500"}, summary.Errors)
}

func TestRun_SuggestionFailureUsesFallback(t *testing.T) {
	suggester := &recordingSuggester{fail: errors.New("API returned non-200 status: 401 Unauthorized")}
	svc := newTestService(readingOK(3000, 1800), suggester)

	summary := svc.Run(context.Background())

	assert.Equal(t, premservice.FallbackText, summary.Suggestion)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Error using PREM API")
}

func TestRender_SlackingPage(t *testing.T) {
	svc := newTestService(readingOK(3000, 1800), &recordingSuggester{})
	page := display.NewPage()

	svc.Render(context.Background(), page)

	assert.Equal(t, PageTitle, page.PageTitle)
	assert.Equal(t, PageCaption, page.PageCaption)

	health, ok := sectionByHeading(page, HealthDataHeading)
	require.True(t, ok)
	assert.Equal(t, []display.Block{
		{Kind: display.KindText, Strong: "Steps Today", Text: ": 3000"},
		{Kind: display.KindText, Strong: "Calories Burned Today", Text: ": 1800"},
		{Kind: display.KindError, Text: slackingMessage},
		{Kind: display.KindInfo, Text: "AI Suggestions:"},
		{Kind: display.KindText, Text: "Keep moving!"},
	}, health.Blocks)

	tip, ok := sectionByHeading(page, DailyTipHeading)
	require.True(t, ok)
	assert.Equal(t, []display.Block{{Kind: display.KindTrigger, Text: TipButtonLabel, Action: TipAction}}, tip.Blocks)
}

func TestRender_OnTrackPage(t *testing.T) {
	svc := newTestService(readingOK(8000, 2500), &recordingSuggester{})
	page := display.NewPage()

	svc.Render(context.Background(), page)

	assert.Equal(t, []display.Block{{Kind: display.KindSuccess, Text: onTrackMessage}}, page.Blocks(display.KindSuccess))
	assert.Equal(t, []display.Block{{Kind: display.KindInfo, Text: "AI Motivational Message:"}}, page.Blocks(display.KindInfo))
	assert.Empty(t, page.Blocks(display.KindError))
}

func TestRender_FetchFailureShowsOnlyError(t *testing.T) {
	suggester := &recordingSuggester{}
	svc := newTestService(fetchFailed(errors.New("request failed: connection refused")), suggester)
	page := display.NewPage()

	svc.Render(context.Background(), page)

	health, ok := sectionByHeading(page, HealthDataHeading)
	require.True(t, ok)
	assert.Equal(t, []display.Block{
		{Kind: display.KindError, Text: "Error fetching data: request failed: connection refused"},
	}, health.Blocks)
	assert.Empty(t, suggester.prompts)

	_, ok = sectionByHeading(page, DailyTipHeading)
	assert.True(t, ok)
}

func TestRender_SuggestionFailureShowsErrorAndFallback(t *testing.T) {
	svc := newTestService(readingOK(9000, 2600), &recordingSuggester{fail: errors.New("quota exceeded")})
	page := display.NewPage()

	svc.Render(context.Background(), page)

	errs := page.Blocks(display.KindError)
	require.Len(t, errs, 1)
	assert.Equal(t, "Error using PREM API: quota exceeded", errs[0].Text)

	texts := page.Blocks(display.KindText)
	assert.Equal(t, premservice.FallbackText, texts[len(texts)-1].Text)
}

func TestTip_IndependentOfFetch(t *testing.T) {
	for name, fetcher := range map[string]*stubFetcher{
		"FetchOK":     readingOK(8000, 2500),
		"FetchFailed": fetchFailed(errors.New("down")),
	} {
		t.Run(name, func(t *testing.T) {
			suggester := &recordingSuggester{}
			svc := newTestService(fetcher, suggester)

			tip := svc.Tip(context.Background())

			assert.True(t, tip.Ok())
			assert.Equal(t, []string{activity.TipPrompt}, suggester.prompts)
			assert.Zero(t, fetcher.calls)
		})
	}
}

func TestRenderTip_Failure(t *testing.T) {
	svc := newTestService(readingOK(1, 1), &recordingSuggester{fail: errors.New("timeout")})
	page := display.NewPage()

	svc.RenderTip(context.Background(), page)

	assert.Equal(t, []display.Block{{Kind: display.KindError, Text: "Error using PREM API: timeout"}}, page.Blocks(display.KindError))
	assert.Equal(t, []display.Block{{Kind: display.KindSuccess, Text: "Tip: " + premservice.FallbackText}}, page.Blocks(display.KindSuccess))
}

func TestTipAPIHandler(t *testing.T) {
	suggester := &recordingSuggester{}
	fetcher := readingOK(8000, 2500)
	svc := newTestService(fetcher, suggester)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/tip", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, svc.TipAPIHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body TipResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Keep moving!", body.Tip)
	assert.Empty(t, body.Error)
	assert.Len(t, suggester.prompts, 1)
	assert.Zero(t, fetcher.calls)
}

func TestRenderTip_BlankFailureShowsFallbackText(t *testing.T) {
	svc := newTestService(readingOK(8000, 2500), blankSuggester{})

	page := display.NewPage()
	svc.RenderTip(context.Background(), page)

	assert.Equal(t, []display.Block{{Kind: display.KindSuccess, Text: "Tip: " + premservice.FallbackText}}, page.Blocks(display.KindSuccess))
}

func TestTipAPIHandler_FailureServesFallbackText(t *testing.T) {
	svc := newTestService(readingOK(8000, 2500), blankSuggester{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/tip", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, svc.TipAPIHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body TipResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, premservice.FallbackText, body.Tip)
	assert.Equal(t, "quota exceeded", body.Error)
}

func TestDashboardAPIHandler_UpstreamFailureIsNotServerError(t *testing.T) {
	svc := newTestService(fetchFailed(&healthdata.StatusError{StatusCode: http.StatusBadGateway}), &recordingSuggester{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, svc.DashboardAPIHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Verdict)
	assert.Equal(t, []string{"Failed to fetch mock health data: 502"}, body.Errors)
}
