// Package helpers provides shared fixtures for the integration and
// end-to-end suites.
package helpers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// SeasonHeader matches the football-data.co.uk column layout the ingestion
// pipeline maps.
const SeasonHeader = "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR,HC,AC,HY,AY,HR,AR"

// SeasonCSV joins result rows under the standard header.
func SeasonCSV(rows ...string) string {
	return SeasonHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

var clubs = []string{
	"Alba", "Boreale", "Cremona Vecchia", "Dorado", "Estrella",
	"Fortuna Nord", "Giralda", "Helios", "Iberia Real", "Juno",
	"Kestrel Town", "Lumen", "Meridiana", "Nordstern", "Orzo",
	"Pinnacle", "Quercia", "Rosendal", "Solferino", "Tramontana",
}

// AlternatingSeasonRows returns one result row per day starting at start.
// Even days are busy 3-1 home wins with nine corners and a single card,
// odd days goalless draws with three corners and three cards. Every match
// has at least one corner, so corner floor patterns hit on every row while
// everything else settles around a coin flip.
func AlternatingSeasonRows(div string, start time.Time, n int) []string {
	rows := make([]string, n)
	for i := range rows {
		day := start.AddDate(0, 0, i).Format("02/01/06")
		home := clubs[(2*i)%len(clubs)]
		away := clubs[(2*i+1)%len(clubs)]
		if i%2 == 0 {
			rows[i] = fmt.Sprintf("%s,%s,%s,%s,3,1,H,7,2,1,0,0,0", div, day, home, away)
		} else {
			rows[i] = fmt.Sprintf("%s,%s,%s,%s,0,0,D,2,1,2,1,0,0", div, day, home, away)
		}
	}
	return rows
}

// WriteSeasonMirror writes season files into root using the
// {root}/{season}/{code}.csv layout the csv datasource reads. Keys are
// "season/code", e.g. "2324/I1".
func WriteSeasonMirror(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for key, body := range files {
		season, code, ok := strings.Cut(key, "/")
		require.True(t, ok, "season file key %q must be season/code", key)

		dir := filepath.Join(root, season)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, code+".csv"), []byte(body), 0o644))
	}
}

// MockFootballDataServer serves season files at the download site's
// /mmz4281/{season}/{code}.csv paths. Keys are "season/code"; anything
// else is a 404. The server is closed when the test finishes.
func MockFootballDataServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/mmz4281/")
		key = strings.TrimSuffix(key, ".csv")
		body, ok := files[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

// SkipIfShort skips the test when -short is set.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}

// CreateTestContext returns a context cancelled when the test finishes.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
