// Package auth contains the account endpoints: registration, login,
// profile management, password resets and the one-time free credit grant
package auth

import (
	"net/http"
	"strings"
	"time"

	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/internal/service"
	"akshit029/vig-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Register(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})
		return
	}

	// Fields also catches whitespace-only names
	nameParts := strings.Fields(data.Name)
	if len(nameParts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Name, email, and password are required",
			"requestID": requestID,
		})
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var found bool

	r := d.DB.Model(model.User{}).
		Select("count(*) > 0").
		Where("email = ?", data.Email).
		First(&found)
	if r.Error != nil && r.Error != gorm.ErrRecordNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(r.Error), zap.String("requestID", requestID))
		return
	}

	if found {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "This email is already registered. Please login or use a different email",
			"requestID": requestID,
		})
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate user ID", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	firstName := nameParts[0]
	lastName := strings.Join(nameParts[1:], " ")

	user := model.User{
		ID:           userID,
		Email:        data.Email,
		Username:     strings.SplitN(data.Email, "@", 2)[0],
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,

		// Every new account starts with the welcome grant already applied
		Points:                 model.FreeCreditAmount,
		HasReceivedFreeCredits: true,
		Role:                   model.RoleUser,
	}

	if err := d.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Best effort, a broken SMTP server must not fail the registration
	go func() {
		if err := service.SendWelcomeMail(user.Email, firstName); err != nil {
			zap.L().Warn("Failed to send welcome email", zap.Error(err), zap.String("userID", userID))
		}
	}()

	token, err := MakeToken(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	setAuthCookies(c, userID, token)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// MakeToken signs a 7 day HS256 token for a user
func MakeToken(userID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
	})

	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}

func setAuthCookies(c *gin.Context, userID, token string) {
	sslEnabled := viper.GetBool("host.ssl.enabled")

	c.SetCookie("user_id", userID, 60*60*24*7, "/", "", sslEnabled, false)
	c.SetCookie("auth_token", token, 60*60*24*7, "/", "", sslEnabled, true)
	c.SetCookie("logged_in", "1", 60*60*24*7, "/", "", sslEnabled, false)
}
