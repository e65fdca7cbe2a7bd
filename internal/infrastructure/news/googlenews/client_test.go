package googlenews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>"삼성전자 주식" - Google 뉴스</title>
<item>
<title>삼성전자, 2분기 실적 발표 - 한국경제</title>
<link>https://news.example.com/a</link>
<pubDate>Mon, 16 Jun 2025 01:00:00 GMT</pubDate>
</item>
<item>
<title>삼성전자 주가 전망 - 매일경제</title>
<link>https://news.example.com/b</link>
<pubDate>Sun, 15 Jun 2025 22:00:00 GMT</pubDate>
</item>
</channel>
</rss>`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(time.Minute)
	c.SetFeedURL(srv.URL)
	return c, srv
}

func TestHeadlines_ParsesFeed(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedBody))
	})

	headlines, err := c.Headlines(context.Background(), "삼성전자")
	require.NoError(t, err)
	require.Len(t, headlines, 2)

	assert.Equal(t, "삼성전자, 2분기 실적 발표 - 한국경제", headlines[0].Title)
	assert.Equal(t, "https://news.example.com/a", headlines[0].Link)
	assert.Equal(t, time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC), headlines[0].Published.UTC())

	assert.Contains(t, gotQuery, "hl=ko")
	assert.Contains(t, gotQuery, "gl=KR")
	// "삼성전자 주식" query-escaped
	assert.Contains(t, gotQuery, "%EC%A3%BC%EC%8B%9D")
}

func TestHeadlines_CachesPerQuery(t *testing.T) {
	var calls atomic.Int64
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(feedBody))
	})

	ctx := context.Background()
	_, err := c.Headlines(ctx, "삼성전자")
	require.NoError(t, err)
	_, err = c.Headlines(ctx, "삼성전자")
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	_, err = c.Headlines(ctx, "SK하이닉스")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestHeadlines_CapsAtTen(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>t</title>`
	for i := 0; i < 15; i++ {
		body += `<item><title>headline</title><link>https://news.example.com</link></item>`
	}
	body += `</channel></rss>`

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	headlines, err := c.Headlines(context.Background(), "삼성전자")
	require.NoError(t, err)
	assert.Len(t, headlines, 10)
}

func TestHeadlines_UpstreamFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Headlines(context.Background(), "삼성전자")
	assert.Error(t, err)
}
