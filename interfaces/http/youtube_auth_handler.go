package http

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/jmgomezsoriano/easy-tube/infrastructure/auth"
	"github.com/jmgomezsoriano/easy-tube/infrastructure/logger"
)

const oauthStateCookie = "oauth_state"

// IYouTubeAuthHandler defines the interface for YouTube authentication handlers
type IYouTubeAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
	Status(ctx *gin.Context)
}

// YouTubeAuthHandler runs the OAuth2 consent flow and stores the resulting token file
type YouTubeAuthHandler struct {
	oauth2Config *oauth2.Config
	tokenFile    string
}

// NewYouTubeAuthHandler creates a new YouTube auth handler
func NewYouTubeAuthHandler(oauth2Config *oauth2.Config, tokenFile string) IYouTubeAuthHandler {
	return &YouTubeAuthHandler{
		oauth2Config: oauth2Config,
		tokenFile:    tokenFile,
	}
}

// GetAuthURL handles GET /auth/youtube
func (h *YouTubeAuthHandler) GetAuthURL(ctx *gin.Context) {
	state, err := generateRandomState()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to generate state",
			"message": err.Error(),
		})
		return
	}

	ctx.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)

	ctx.JSON(http.StatusOK, gin.H{
		"auth_url": auth.ConsentURL(h.oauth2Config, state),
	})
}

// HandleCallback handles GET /auth/youtube/callback
func (h *YouTubeAuthHandler) HandleCallback(ctx *gin.Context) {
	if errorParam := ctx.Query("error"); errorParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("OAuth error: %s", errorParam),
			"description": ctx.Query("error_description"),
		})
		return
	}

	state := ctx.Query("state")
	expected, err := ctx.Cookie(oauthStateCookie)
	if state == "" || err != nil || state != expected {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid state parameter",
			"action": "Visit /auth/youtube to start over",
		})
		return
	}

	code := ctx.Query("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Authorization code not found",
		})
		return
	}

	token, err := auth.Exchange(ctx.Request.Context(), h.oauth2Config, code, h.tokenFile)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("OAuth code exchange failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to exchange code for token",
			"message": err.Error(),
		})
		return
	}

	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	logger.GetLogger().WithField("tokenFile", h.tokenFile).Info("Stored YouTube OAuth token")
	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token_file": h.tokenFile,
		"expiry":     token.Expiry,
		"message":    "Authentication successful. Restart the application to use the stored token.",
	})
}

// Status handles GET /api/youtube/oauth/status
func (h *YouTubeAuthHandler) Status(ctx *gin.Context) {
	token, err := auth.LoadToken(h.tokenFile)
	if errors.Is(err, os.ErrNotExist) {
		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"authorized": false}})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to read token file",
			"message": err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"authorized":  true,
			"valid":       token.Valid(),
			"refreshable": token.RefreshToken != "",
			"expiry":      token.Expiry,
		},
	})
}

func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
