package caption

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/ledger"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeSTT struct {
	transcript *provider.Transcript
	err        error
	calls      int
}

func (f *fakeSTT) Transcribe(ctx context.Context, media []byte, contentType, language string) (*provider.Transcript, error) {
	f.calls++
	return f.transcript, f.err
}

func testDeps(t *testing.T, stt provider.Transcriber) *internal.Deps {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Generation{}))

	return &internal.Deps{
		DB:     db,
		Ledger: ledger.New(db),
		STT:    stt,
	}
}

func testRouter(d *internal.Deps, user *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("requestID", "test-request")
		c.Set("userID", user.ID)
		c.Set("user", user)
	})
	r.POST("/api/caption/generate", func(c *gin.Context) { Generate(c, d) })

	return r
}

func seedUser(t *testing.T, d *internal.Deps, points int) *model.User {
	t.Helper()

	u := &model.User{
		ID:           "usr_test",
		Email:        "test@example.com",
		PasswordHash: "x",
		Points:       points,
	}
	require.NoError(t, d.DB.Create(u).Error)

	return u
}

func postVideo(r *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fh := make(map[string][]string)
	fh["Content-Disposition"] = []string{`form-data; name="video"; filename="clip.mp4"`}
	fh["Content-Type"] = []string{"video/mp4"}

	part, _ := mw.CreatePart(fh)
	part.Write([]byte("fake video bytes"))

	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/caption/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestCaptionGenerate(t *testing.T) {
	viper.Set("deepgram.api_key", "test-key")
	viper.Set("upload.max_size", int64(1<<20))

	stt := &fakeSTT{transcript: &provider.Transcript{
		Text:       "hello world",
		Confidence: 0.98,
		Words: []provider.Word{
			{Word: "hello", Start: 0, End: 0.4},
			{Word: "world", Start: 0.5, End: 0.9},
		},
		DetectedLanguage: "en",
	}}

	d := testDeps(t, stt)
	user := seedUser(t, d, 2)

	w := postVideo(testRouter(d, user), map[string]string{"language": "en"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Transcript string `json:"transcript"`
			Captions   []struct {
				Text string `json:"text"`
			} `json:"captions"`
			Metadata struct {
				DetectedLanguage string `json:"detectedLanguage"`
			} `json:"metadata"`
		} `json:"data"`
		PointsRemaining int `json:"pointsRemaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "hello world", resp.Data.Transcript)
	require.Len(t, resp.Data.Captions, 1)
	assert.Equal(t, "hello world", resp.Data.Captions[0].Text)
	assert.Equal(t, "en", resp.Data.Metadata.DetectedLanguage)
	assert.Equal(t, 1, resp.PointsRemaining)
	assert.Equal(t, 1, stt.calls)
}

func TestCaptionGenerateZeroBalance(t *testing.T) {
	viper.Set("deepgram.api_key", "test-key")
	viper.Set("upload.max_size", int64(1<<20))

	stt := &fakeSTT{transcript: &provider.Transcript{Text: "x"}}
	d := testDeps(t, stt)
	user := seedUser(t, d, 0)

	w := postVideo(testRouter(d, user), nil)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, 0, stt.calls)
}

func TestCaptionGenerateProviderFailure(t *testing.T) {
	viper.Set("deepgram.api_key", "test-key")
	viper.Set("upload.max_size", int64(1<<20))

	stt := &fakeSTT{err: provider.ErrUnavailable}
	d := testDeps(t, stt)
	user := seedUser(t, d, 2)

	w := postVideo(testRouter(d, user), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var fresh model.User
	require.NoError(t, d.DB.First(&fresh, "id = ?", user.ID).Error)
	assert.Equal(t, 2, fresh.Points)
}

func TestCaptionGenerateNoVideo(t *testing.T) {
	viper.Set("deepgram.api_key", "test-key")
	viper.Set("upload.max_size", int64(1<<20))

	stt := &fakeSTT{transcript: &provider.Transcript{Text: "x"}}
	d := testDeps(t, stt)
	user := seedUser(t, d, 2)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("language", "en")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/caption/generate", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	testRouter(d, user).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, stt.calls)
}
