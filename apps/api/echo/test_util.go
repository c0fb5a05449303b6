package echoapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/mawingu/darasa/core"
	"github.com/mawingu/darasa/core/activity"
	emailsvc "github.com/mawingu/darasa/services/email"
	formatsvc "github.com/mawingu/darasa/services/format"
	dummydb "github.com/mawingu/darasa/storage/database/dummy"
)

type testLogger struct{}

var _ core.Logger = (*testLogger)(nil)

func (l testLogger) Enable(bool)                        {}
func (l testLogger) Debug(string, ...interface{})       {}
func (l testLogger) Info(string, ...interface{})        {}
func (l testLogger) Warn(string, ...interface{})        {}
func (l testLogger) Error(string, ...interface{})       {}
func (l testLogger) Fatal(msg string, _ ...interface{}) { panic(msg) }

func testConfig() *core.Config {
	return &core.Config{
		Debug:     true,
		TestMode:  true,
		Env:       "TEST",
		AppName:   "Darasa",
		SecretKey: "secret",
		Locale:    "en",
		Server:    core.ServerConfig{JWTExpirationDelta: time.Hour},
	}
}

func setup(t *testing.T) (Server, *dummydb.DB, *core.Config) {
	t.Helper()
	conf := testConfig()
	db := dummydb.Open()

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	fmtr := formatsvc.NewLocaleFormatter(conf)
	actSvc := activity.NewService(dummydb.NewActivityRepository(db), mailSvc, fmtr)
	validate, translator := core.NewValidators()

	srv := NewServer(
		&Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         testLogger{},
			ActivitySvc:    actSvc,
			Validate:       validate,
			Translator:     translator,
		},
	)
	return srv, db, conf
}

func getToken(t *testing.T, conf *core.Config) string {
	t.Helper()
	claims := NewOperatorClaims(conf, "0a4ed51e-59c1-4b26-9932-d4f7f8ed4a36", "Neema", "Othieno", "neema@test.cd", false)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

// viewerClaims builds a token without staff rights.
func viewerToken(t *testing.T, conf *core.Config) string {
	t.Helper()
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   "8a0f1f67-10c7-4e9f-8efc-18f79b8f2fc1",
			ExpiresAt: now.Add(time.Hour).Unix(),
			IssuedAt:  now.Unix(),
		},
		FirstName: "Zawadi",
		LastName:  "Mutombo",
	}
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	return token
}
