// client.go contains the http side of scraping trackwrestling: sessions,
// request construction and politeness. All parsing lives in the parent package.

package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"trackwrestling-backend/internal/components/assert"
	"trackwrestling-backend/internal/components/chrono"
	"trackwrestling-backend/internal/components/telemetry"
	"trackwrestling-backend/lib/restyutil"
	"trackwrestling-backend/lib/scrapers/trackwrestling"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_verify_session  = "client.verify-session"
	report_client_search          = "client.search"
	report_client_tournament_hub  = "client.tournament-hub"
	report_client_mat_assignments = "client.mat-assignments"
	report_client_brackets        = "client.brackets"
	report_client_bracket_html    = "client.bracket-html"
)

const DefaultBaseUrl = "https://www.trackwrestling.com"

// sessionId is the fixed value the site's own viewer pages send, the real
// session is carried by cookies.
const sessionId = "zyxwvutsrq"

// bracket render dimensions the site's viewer uses
const (
	bracketWidth    = 670
	bracketHeight   = 870
	bracketFontSize = 8
)

// StatusError is a non-2xx response from trackwrestling.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("trackwrestling: %s returned status %d", e.Endpoint, e.StatusCode)
}

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// RequestsPerSecond defaults to 2. It is ignored when Limiter is set.
	RequestsPerSecond float64
	// Limiter can be shared between clients so that all of them together stay
	// under one rate.
	Limiter *rate.Limiter
	// Timeout defaults to 30 seconds.
	Timeout time.Duration
	// Output receives raw http exchanges when set.
	Output restyutil.InstrumentOutput
}

// NewLimiter returns a limiter allowing rps requests per second. Bursts of up
// to rps requests wait instead of failing.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		rps = 2
	}
	return rate.NewLimiter(rate.Limit(rps), int(math.Max(1, math.Ceil(rps))))
}

type sessionKey struct {
	eventType    trackwrestling.EventType
	tournamentId int64
}

// Client is one cookie session against trackwrestling. Tournament pages need
// a viewer session for that tournament, the client opens one the first time a
// tournament is requested and reuses it afterwards.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	clock chrono.TimeAPI
	tel   telemetry.API

	mutex    sync.Mutex
	sessions map[sessionKey]bool
}

func NewClient(opts ClientOptions, clock chrono.TimeAPI, tel telemetry.API) (*Client, error) {
	assert.NotNil(clock)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("trackwrestling_client", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(strings.TrimSuffix(opts.BaseUrl, "/"))
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	limiter := opts.Limiter
	if limiter == nil {
		limiter = NewLimiter(opts.RequestsPerSecond)
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(baseUrl.String())
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	restyutil.InstrumentClient(httpClient, tracer, opts.Output)

	return &Client{
		BaseUrl:  baseUrl,
		Http:     httpClient,
		clock:    clock,
		tel:      tel,
		sessions: map[sessionKey]bool{},
	}, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.Http.R().
		SetContext(ctx).
		SetQueryParam("TIM", strconv.FormatInt(chrono.UnixMilli(c.clock), 10)).
		SetQueryParam("twSessionId", sessionId)
}

func (c *Client) get(req *resty.Request, endpoint string) (string, error) {
	res, err := req.Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("trackwrestling: %s: %w", endpoint, err)
	}
	if res.IsError() {
		return "", &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode()}
	}
	return res.String(), nil
}

func tournamentEndpoint(eventType trackwrestling.EventType, page string) string {
	return fmt.Sprintf("/%s/%s", eventType.Segment(), page)
}

// VerifySession opens a viewer session for a tournament, the same request the
// site makes when a tournament is picked from the search results.
func (c *Client) VerifySession(ctx context.Context, eventType trackwrestling.EventType, tournamentId int64) error {
	if !eventType.Valid() {
		return &trackwrestling.UnknownEventTypeError{Value: eventType.String()}
	}

	req := c.request(ctx).SetQueryParams(map[string]string{
		"tournamentId": strconv.FormatInt(tournamentId, 10),
		"userType":     "viewer",
		"userName":     "",
		"password":     "",
	})
	_, err := c.get(req, tournamentEndpoint(eventType, "VerifyPassword.jsp"))
	if err != nil {
		c.tel.ReportBroken(report_client_verify_session, err, eventType.Alias(), tournamentId)
		return err
	}

	c.mutex.Lock()
	c.sessions[sessionKey{eventType: eventType, tournamentId: tournamentId}] = true
	c.mutex.Unlock()
	return nil
}

func (c *Client) ensureSession(ctx context.Context, eventType trackwrestling.EventType, tournamentId int64) error {
	c.mutex.Lock()
	verified := c.sessions[sessionKey{eventType: eventType, tournamentId: tournamentId}]
	c.mutex.Unlock()
	if verified {
		return nil
	}
	return c.VerifySession(ctx, eventType, tournamentId)
}

func (c *Client) tournamentPage(ctx context.Context, eventType trackwrestling.EventType, tournamentId int64, page string) (string, error) {
	err := c.ensureSession(ctx, eventType, tournamentId)
	if err != nil {
		return "", err
	}
	req := c.request(ctx).SetQueryParam("tournamentId", strconv.FormatInt(tournamentId, 10))
	return c.get(req, tournamentEndpoint(eventType, page))
}

// SearchTournaments searches tournaments by name, an empty query lists the
// site's default selection.
func (c *Client) SearchTournaments(ctx context.Context, query string) ([]trackwrestling.Tournament, error) {
	req := c.request(ctx).SetQueryParams(map[string]string{
		"tName":     query,
		"state":     "",
		"sDate":     "",
		"eDate":     "",
		"lastName":  "",
		"firstName": "",
		"teamName":  "",
		"sfvString": "",
		"city":      "",
		"gbId":      "",
		"camps":     "false",
	})
	body, err := c.get(req, "/Login.jsp")
	if err != nil {
		c.tel.ReportBroken(report_client_search, err, query)
		return nil, err
	}

	tournaments, skipped, err := trackwrestling.ParseTournamentListItems(body)
	if err != nil {
		c.tel.ReportBroken(report_client_search, err, query)
		return nil, err
	}
	for _, item := range skipped {
		c.tel.ReportWarning(report_client_search, item, query)
	}
	c.tel.ReportDebug("search results", query, len(tournaments))
	return tournaments, nil
}

// TournamentHub fetches a tournament's own hub page, which is richer than its
// search result.
func (c *Client) TournamentHub(ctx context.Context, eventType trackwrestling.EventType, tournamentId int64) (trackwrestling.Tournament, error) {
	body, err := c.tournamentPage(ctx, eventType, tournamentId, "TournamentHub.jsp")
	if err != nil {
		c.tel.ReportBroken(report_client_tournament_hub, err, tournamentId)
		return trackwrestling.Tournament{}, err
	}
	tournament, err := trackwrestling.ParseTournamentHub(body, tournamentId, eventType)
	if err != nil {
		c.reportParseError(report_client_tournament_hub, err, tournamentId)
		return trackwrestling.Tournament{}, err
	}
	return tournament, nil
}

// MatAssignments fetches the live mat assignment board.
func (c *Client) MatAssignments(ctx context.Context, eventType trackwrestling.EventType, tournamentId int64) ([]trackwrestling.Match, error) {
	body, err := c.tournamentPage(ctx, eventType, tournamentId, "MB_MatAssignmentDisplay.jsp")
	if err != nil {
		c.tel.ReportBroken(report_client_mat_assignments, err, tournamentId)
		return nil, err
	}
	matches, err := trackwrestling.ParseMatches(body)
	if err != nil {
		c.reportParseError(report_client_mat_assignments, err, tournamentId)
		return nil, err
	}
	return matches, nil
}

// Brackets fetches the bracket viewer and decodes its embedded bracket
// configuration. A tournament without brackets yields
// *trackwrestling.PayloadNotFoundError.
func (c *Client) Brackets(ctx context.Context, eventType trackwrestling.EventType, tournamentId int64) (trackwrestling.BracketData, error) {
	body, err := c.tournamentPage(ctx, eventType, tournamentId, "BracketViewer.jsp")
	if err != nil {
		c.tel.ReportBroken(report_client_brackets, err, tournamentId)
		return trackwrestling.BracketData{}, err
	}
	data, err := trackwrestling.ParseBracketPayload(body)
	if err != nil {
		c.reportParseError(report_client_brackets, err, tournamentId)
		return trackwrestling.BracketData{}, err
	}
	return data, nil
}

// BracketHTML fetches the rendered html of one weight's bracket. The site has
// been seen reading the weight from both groupId and chartId, so both are sent.
func (c *Client) BracketHTML(ctx context.Context, eventType trackwrestling.EventType, tournamentId int64, groupId string, pages []int64) (string, error) {
	err := c.ensureSession(ctx, eventType, tournamentId)
	if err != nil {
		return "", err
	}

	includePages := make([]string, len(pages))
	for i, p := range pages {
		includePages[i] = strconv.FormatInt(p, 10)
	}
	req := c.request(ctx).SetQueryParams(map[string]string{
		"function":     "getBracket",
		"groupId":      groupId,
		"chartId":      groupId,
		"width":        strconv.Itoa(bracketWidth),
		"height":       strconv.Itoa(bracketHeight),
		"font":         strconv.Itoa(bracketFontSize),
		"includePages": strings.Join(includePages, ","),
		"templateId":   "0",
	})
	body, err := c.get(req, tournamentEndpoint(eventType, "AjaxFunctions.jsp"))
	if err != nil {
		c.tel.ReportBroken(report_client_bracket_html, err, tournamentId, groupId)
		return "", err
	}
	return body, nil
}

// reportParseError reports stale extraction as broken and expected absences
// as warnings.
func (c *Client) reportParseError(id string, err error, params ...any) {
	params = append([]any{err}, params...)
	var notFound *trackwrestling.PayloadNotFoundError
	if errors.As(err, &notFound) {
		c.tel.ReportWarning(id, params...)
		return
	}
	c.tel.ReportBroken(id, params...)
}
