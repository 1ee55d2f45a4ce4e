package mux

import (
	"cardroom-server/internal/jwt"
	"cardroom-server/pkg/room"
	"cardroom-server/pkg/room/gamefactory"
	"cardroom-server/pkg/table"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var cbg = context.Background()

var setupJWTOnce sync.Once

func setupJWT() {
	setupJWTOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}

		jwt.SetKeys(key)
	})
}

func newTestMux() *Mux {
	setupJWT()
	pitBoss := room.NewPitBoss(table.NewMemoryStore(), gamefactory.Default(logrus.StandardLogger()), logrus.StandardLogger())
	return NewMux("", pitBoss)
}

func token(userID string) string {
	setupJWT()
	signed, err := jwt.Sign(userID)
	if err != nil {
		panic(err)
	}

	return signed
}

func Test_authRouter(t *testing.T) {
	m := newTestMux()

	m.authRouter.Path("/test").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, userID(r))
	})

	ts := httptest.NewServer(m)
	defer ts.Close()

	var errObj errorResponse
	assertGet(t, ts, "/test", &errObj, 401)
	assert.Equal(t, "Unauthorized", errObj.Message)

	assertGet(t, ts, "/test", &errObj, 401, "not-a-token")

	j := token("alice")

	// test using auth header
	var str string
	resp := assertGetWithResp(t, ts, "/test", &str, 200, j)
	assert.Equal(t, "alice", str)
	assert.Equal(t, "alice", resp.Header.Get("Cardroom-UserID"))

	// test using query parameter
	resp = assertGetWithResp(t, ts, "/test?access_token="+url.QueryEscape(j), &str, 200)
	assert.Equal(t, "alice", str)
	assert.Equal(t, "alice", resp.Header.Get("Cardroom-UserID"))
}

func Test_parsePaginationOptions(t *testing.T) {
	req := func(queryString string) *http.Request {
		req, _ := http.NewRequest(http.MethodGet, "https://example.domain/"+queryString, nil)
		return req
	}

	start, rows, err := parsePaginationOptions(req(""))
	assert.NoError(t, err)
	assert.Equal(t, int64(0), start)
	assert.Equal(t, defaultRows, rows)

	start, rows, err = parsePaginationOptions(req("?start=10&rows=25"))
	assert.NoError(t, err)
	assert.Equal(t, int64(10), start)
	assert.Equal(t, 25, rows)

	_, _, err = parsePaginationOptions(req("?start=-1"))
	assert.EqualError(t, err, "start cannot be less than zero")

	_, _, err = parsePaginationOptions(req("?rows=0"))
	assert.EqualError(t, err, "rows must be greater than zero")

	_, _, err = parsePaginationOptions(req("?rows=101"))
	assert.EqualError(t, err, "rows cannot be greater than 100")
}
