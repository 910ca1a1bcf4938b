package security

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opalaxis/beamsolopex-companion/internal/rate_limiter"
	"go.uber.org/zap"
)

type LoginHandler struct {
	accounts    Accounts
	issuer      *TokenIssuer
	rateLimiter *rate_limiter.RateLimiter
	logger      *zap.Logger
}

func NewLoginHandler(accounts Accounts, issuer *TokenIssuer, limiter *rate_limiter.RateLimiter, logger *zap.Logger) *LoginHandler {
	return &LoginHandler{
		accounts:    accounts,
		issuer:      issuer,
		rateLimiter: limiter,
		logger:      logger,
	}
}

func (l *LoginHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth/login", l.LoginHandler())
}

// LoginHandler reads email and password from the query string, as the
// backend's clients send them, falling back to a JSON body.
func (l *LoginHandler) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := rateLimitKey(c)
		if !l.rateLimiter.IsAllowed(clientKey) {
			reset := time.Now().Add(l.rateLimiter.Window()).Format(time.RFC3339)
			remaining := l.rateLimiter.GetRemainingRequests(clientKey)
			c.Header("X-RateLimit-Limit", strconv.Itoa(l.rateLimiter.Limit()))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
			c.Header("X-RateLimit-Reset", reset)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":   "Too many login attempts. Try again later.",
				"remaining": remaining,
				"reset_at":  reset,
			})
			return
		}

		email, password := c.Query("email"), c.Query("password")
		if email == "" || password == "" {
			var req struct {
				Email    string `json:"email" binding:"required"`
				Password string `json:"password" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "The email and password fields are required."})
				return
			}
			email, password = req.Email, req.Password
		}

		account, err := AuthenticateUser(email, password, l.accounts)
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		token, err := l.issuer.GenerateJWT(account)
		if err != nil {
			l.logger.Error("Failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":       token,
			"user":        account.User,
			"roles":       account.Roles,
			"permissions": account.Permissions,
		})
	}
}

// rateLimitKey identifies the client. Behind private addresses the user agent
// is added so that clients sharing a NAT do not share a budget.
func rateLimitKey(c *gin.Context) string {
	clientIP := c.GetHeader("X-Forwarded-For")
	if clientIP == "" {
		clientIP = c.GetHeader("X-Real-IP")
	}
	if clientIP == "" {
		clientIP = c.ClientIP()
	}
	if first, _, found := strings.Cut(clientIP, ","); found {
		clientIP = strings.TrimSpace(first)
	}

	if isPrivateIP(clientIP) {
		clientIP = clientIP + ":" + c.GetHeader("User-Agent")
	}
	return clientIP
}

func isPrivateIP(ip string) bool {
	privatePrefixes := []string{
		"10.",
		"172.16.", "172.17.", "172.18.", "172.19.",
		"172.20.", "172.21.", "172.22.", "172.23.",
		"172.24.", "172.25.", "172.26.", "172.27.",
		"172.28.", "172.29.", "172.30.", "172.31.",
		"192.168.",
		"127.",
		"169.254.",
		"::1",
		"fc00::",
		"fe80::",
	}

	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}
