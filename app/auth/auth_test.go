package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/ledger"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDeps(t *testing.T) *internal.Deps {
	t.Helper()

	viper.Set("jwt.secret", "test-secret")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.PasswordReset{}))

	return &internal.Deps{
		DB:     db,
		Argon:  security.New(),
		Ledger: ledger.New(db),
	}
}

func testRouter(d *internal.Deps) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("requestID", "test-request")
	})
	r.POST("/api/auth/register", func(c *gin.Context) { Register(c, d) })
	r.POST("/api/auth/login", func(c *gin.Context) { Login(c, d) })

	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestRegisterSeedsFreeCredits(t *testing.T) {
	d := testDeps(t)
	r := testRouter(d)

	w := postJSON(r, "/api/auth/register", gin.H{
		"name":     "Test User",
		"email":    "new@example.com",
		"password": "Str0ng!Passw0rd",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID                     string `json:"id"`
			Points                 int    `json:"points"`
			HasReceivedFreeCredits bool   `json:"hasReceivedFreeCredits"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Token)
	assert.Len(t, resp.User.ID, 16)
	assert.Equal(t, model.FreeCreditAmount, resp.User.Points)
	assert.True(t, resp.User.HasReceivedFreeCredits)
}

func TestRegisterBlankName(t *testing.T) {
	d := testDeps(t)
	r := testRouter(d)

	for _, name := range []string{"", "   ", "\t\n"} {
		w := postJSON(r, "/api/auth/register", gin.H{
			"name":     name,
			"email":    "blank@example.com",
			"password": "Str0ng!Passw0rd",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	d := testDeps(t)
	r := testRouter(d)

	body := gin.H{
		"name":     "Test User",
		"email":    "dup@example.com",
		"password": "Str0ng!Passw0rd",
	}

	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/register", body).Code)
	assert.Equal(t, http.StatusConflict, postJSON(r, "/api/auth/register", body).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	d := testDeps(t)
	r := testRouter(d)

	require.Equal(t, http.StatusCreated, postJSON(r, "/api/auth/register", gin.H{
		"name":     "Test User",
		"email":    "user@example.com",
		"password": "Str0ng!Passw0rd",
	}).Code)

	w := postJSON(r, "/api/auth/login", gin.H{
		"email":    "user@example.com",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown accounts get the same answer
	w = postJSON(r, "/api/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginGrandfathersFreeCredits(t *testing.T) {
	d := testDeps(t)
	r := testRouter(d)

	hash, err := d.Argon.GenerateFromPassword("Str0ng!Passw0rd")
	require.NoError(t, err)

	// An account created before the free-credit feature existed
	require.NoError(t, d.DB.Create(&model.User{
		ID:           "legacy_user_00001",
		Email:        "legacy@example.com",
		PasswordHash: hash,
		Points:       0,
	}).Error)

	login := func() int {
		w := postJSON(r, "/api/auth/login", gin.H{
			"email":    "legacy@example.com",
			"password": "Str0ng!Passw0rd",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			User struct {
				Points int `json:"points"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		return resp.User.Points
	}

	assert.Equal(t, model.FreeCreditAmount, login())

	// The grant fires once, not on every login
	assert.Equal(t, model.FreeCreditAmount, login())
}
