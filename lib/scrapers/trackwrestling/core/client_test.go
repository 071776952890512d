package core

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"
	"trackwrestling-backend/internal/components/telemetry"
	"trackwrestling-backend/lib/scrapers/trackwrestling"

	"github.com/stretchr/testify/require"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

const searchPage = `<ul class="tournament-ul">
	<li>
		<div><a href="javascript:eventSelected(812345132,'Big Rumble',1,'null');">Big Rumble</a></div>
		<div><span>Dates:</span><span>3/1/2025 - 3/3/2025</span></div>
	</li>
	<li><div>broken</div></li>
</ul>`

const matPage = `<table>
	<tr><td style="background-color:#006600"></td><td>Mat 2 Bout 14</td><td><div data-short-title="132">132</div></td></tr>
</table>`

const hubPage = `<div class="hub-nav"><ul><li><div class="content"><h3>Big Rumble</h3><p>3/1/2025</p></div></li></ul></div>`

const bracketPage = `<script>var t = new Pile(); str = "100~1~Champ~670~870~8~1,Top"; str = "w1~106~100"; str = "100";</script>`

type fakeSite struct {
	mutex    sync.Mutex
	requests []*http.Request
	server   *httptest.Server
}

func newFakeSite(t *testing.T) *fakeSite {
	site := &fakeSite{}
	mux := http.NewServeMux()

	requireSession := func(w http.ResponseWriter, r *http.Request) bool {
		cookie, err := r.Cookie("JSESSIONID")
		if err != nil || cookie.Value != "viewer-812345132" {
			http.Error(w, "no session", http.StatusForbidden)
			return false
		}
		return true
	}

	mux.HandleFunc("/Login.jsp", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchPage))
	})
	mux.HandleFunc("/predefinedtournaments/VerifyPassword.jsp", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:  "JSESSIONID",
			Value: "viewer-" + r.URL.Query().Get("tournamentId"),
			Path:  "/",
		})
		w.Write([]byte("<html>ok</html>"))
	})
	mux.HandleFunc("/predefinedtournaments/MB_MatAssignmentDisplay.jsp", func(w http.ResponseWriter, r *http.Request) {
		if requireSession(w, r) {
			w.Write([]byte(matPage))
		}
	})
	mux.HandleFunc("/predefinedtournaments/TournamentHub.jsp", func(w http.ResponseWriter, r *http.Request) {
		if requireSession(w, r) {
			w.Write([]byte(hubPage))
		}
	})
	mux.HandleFunc("/predefinedtournaments/BracketViewer.jsp", func(w http.ResponseWriter, r *http.Request) {
		if requireSession(w, r) {
			w.Write([]byte(bracketPage))
		}
	})
	mux.HandleFunc("/predefinedtournaments/AjaxFunctions.jsp", func(w http.ResponseWriter, r *http.Request) {
		if requireSession(w, r) {
			w.Write([]byte("<div class=\"bracket\">rendered</div>"))
		}
	})

	site.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		site.mutex.Lock()
		site.requests = append(site.requests, r.Clone(context.Background()))
		site.mutex.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(site.server.Close)
	return site
}

func (s *fakeSite) find(path string) []url.Values {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var out []url.Values
	for _, r := range s.requests {
		if r.URL.Path == path {
			out = append(out, r.URL.Query())
		}
	}
	return out
}

func newTestClient(t *testing.T, site *fakeSite, tel telemetry.API) *Client {
	client, err := NewClient(ClientOptions{
		BaseUrl:           site.server.URL,
		RequestsPerSecond: 100,
	}, fixedTime{now: testNow}, tel)
	require.NoError(t, err)
	return client
}

func TestSearchTournaments(t *testing.T) {
	site := newFakeSite(t)
	rec := telemetry.NewRecordingAPI()
	client := newTestClient(t, site, rec)

	tournaments, err := client.SearchTournaments(context.Background(), "rumble")
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	require.Equal(t, "Big Rumble", tournaments[0].Name)

	requests := site.find("/Login.jsp")
	require.Len(t, requests, 1)
	query := requests[0]
	require.Equal(t, "rumble", query.Get("tName"))
	require.Equal(t, "false", query.Get("camps"))
	require.Equal(t, sessionId, query.Get("twSessionId"))
	require.Equal(t, "1740830400000", query.Get("TIM"))
	require.True(t, query.Has("sfvString"))

	require.Len(t, rec.Reports(telemetry.KindWarning, report_client_search), 1)
}

func TestTournamentSession(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(t, site, telemetry.NewRecordingAPI())
	ctx := context.Background()

	matches, err := client.MatAssignments(ctx, trackwrestling.EventPredefined, 812345132)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, 2, matches[0].Mat)
	require.Equal(t, 14, matches[0].Bout)

	hub, err := client.TournamentHub(ctx, trackwrestling.EventPredefined, 812345132)
	require.NoError(t, err)
	require.Equal(t, "Big Rumble", hub.Name)

	brackets, err := client.Brackets(ctx, trackwrestling.EventPredefined, 812345132)
	require.NoError(t, err)
	require.Len(t, brackets.Templates, 1)
	require.Len(t, brackets.Weights, 1)

	verify := site.find("/predefinedtournaments/VerifyPassword.jsp")
	require.Len(t, verify, 1, "the viewer session is opened once and reused")
	require.Equal(t, "812345132", verify[0].Get("tournamentId"))
	require.Equal(t, "viewer", verify[0].Get("userType"))
	require.True(t, verify[0].Has("userName"))
	require.True(t, verify[0].Has("password"))
}

func TestBracketHTML(t *testing.T) {
	site := newFakeSite(t)
	client := newTestClient(t, site, telemetry.NewRecordingAPI())

	body, err := client.BracketHTML(context.Background(), trackwrestling.EventPredefined, 812345132, "1227847138", []int64{1, 4})
	require.NoError(t, err)
	require.Contains(t, body, "rendered")

	requests := site.find("/predefinedtournaments/AjaxFunctions.jsp")
	require.Len(t, requests, 1)
	query := requests[0]
	require.Equal(t, "getBracket", query.Get("function"))
	require.Equal(t, "1227847138", query.Get("groupId"))
	require.Equal(t, "1227847138", query.Get("chartId"))
	require.Equal(t, "1,4", query.Get("includePages"))
	require.Equal(t, "670", query.Get("width"))
	require.Equal(t, "870", query.Get("height"))
	require.Equal(t, "8", query.Get("font"))
	require.Equal(t, "0", query.Get("templateId"))
}

func TestUpstreamFailure(t *testing.T) {
	site := newFakeSite(t)
	rec := telemetry.NewRecordingAPI()
	client := newTestClient(t, site, rec)

	_, err := client.MatAssignments(context.Background(), trackwrestling.EventOpen, 1)
	var status *StatusError
	require.ErrorAs(t, err, &status)
	require.Equal(t, http.StatusNotFound, status.StatusCode)
	require.NotEmpty(t, rec.Reports(telemetry.KindBroken, report_client_verify_session))
}

func TestBracketsNotFoundIsWarning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>No brackets have been made yet.</body></html>"))
	}))
	defer server.Close()

	rec := telemetry.NewRecordingAPI()
	client, err := NewClient(ClientOptions{BaseUrl: server.URL, RequestsPerSecond: 100}, fixedTime{now: testNow}, rec)
	require.NoError(t, err)

	_, err = client.Brackets(context.Background(), trackwrestling.EventTeam, 5)
	var notFound *trackwrestling.PayloadNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Len(t, rec.Reports(telemetry.KindWarning, report_client_brackets), 1)
	require.Empty(t, rec.Reports(telemetry.KindBroken, report_client_brackets))
}

func TestNewLimiter(t *testing.T) {
	require.Equal(t, 2, NewLimiter(0).Burst())
	require.Equal(t, 1, NewLimiter(0.5).Burst())
	require.Equal(t, 3, NewLimiter(2.5).Burst())
}
