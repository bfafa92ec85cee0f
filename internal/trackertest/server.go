// Package trackertest is an in-process stand-in for the Health Tracker
// backend. Tests and the local devserver run against it; it is not the
// production API.
package trackertest

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pathuGIT/Health-Tracker/internal"
)

// DailyCalorieLimit is the intake above which a meal POST creates an alert.
const DailyCalorieLimit = 2500

type Server struct {
	Engine *gin.Engine

	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration

	mu            sync.RWMutex
	users         map[int]*internal.User
	passwords     map[int]string // userID -> bcrypt hash
	refreshTokens map[int]string // userID -> current refresh token
	exercises     map[int][]internal.Exercise
	meals         map[int][]internal.Meal
	metrics       map[int][]internal.HealthMetric
	alerts        map[int][]internal.Alert
	nextID        int

	// Test switches.
	forceForbidden atomic.Bool // protected routes answer 403 unconditionally
	rejectRefresh  atomic.Bool // refresh endpoint answers 401
	failLogout     atomic.Bool // logout endpoint answers 500
	refreshCalls   atomic.Int64
}

// New builds a server with short token lifetimes suitable for tests.
func New(secret string) *Server {
	return NewWithTTL(secret, 15*time.Minute, 24*time.Hour)
}

func NewWithTTL(secret string, accessTTL, refreshTTL time.Duration) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		secret:        []byte(secret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		users:         make(map[int]*internal.User),
		passwords:     make(map[int]string),
		refreshTokens: make(map[int]string),
		exercises:     make(map[int][]internal.Exercise),
		meals:         make(map[int][]internal.Meal),
		metrics:       make(map[int][]internal.HealthMetric),
		alerts:        make(map[int][]internal.Alert),
		nextID:        1,
	}
	s.Engine = gin.New()
	s.routes()
	return s
}

// ForceForbidden makes every protected route answer 403, driving the client
// into its refresh path.
func (s *Server) ForceForbidden(on bool) { s.forceForbidden.Store(on) }

// RejectRefresh makes the refresh endpoint fail with 401.
func (s *Server) RejectRefresh(on bool) { s.rejectRefresh.Store(on) }

// FailLogout makes the logout endpoint answer 500.
func (s *Server) FailLogout(on bool) { s.failLogout.Store(on) }

// RefreshCalls reports how many times /auth/refresh-token was hit.
func (s *Server) RefreshCalls() int64 { return s.refreshCalls.Load() }

func (s *Server) routes() {
	api := s.Engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.POST("/refresh-token", s.refresh)
		auth.PUT("/logout", s.authRequired(), s.logout)
	}

	protected := api.Group("")
	protected.Use(s.authRequired())
	{
		protected.GET("/users", s.adminRequired(), s.listUsers)
		protected.GET("/users/:id", s.getUser)
		protected.PUT("/users/:id", s.updateUser)
		protected.GET("/users/:id/profile", s.getProfile)
		protected.GET("/users/:id/bmi", s.getBMI)
		protected.GET("/users/:id/calorie-summary", s.getCalorieSummary)

		protected.POST("/exercises", s.logExercise)
		protected.GET("/exercises/user/:id", s.listExercises)
		protected.GET("/exercises/user/:id/date/:date", s.listExercisesByDate)
		protected.GET("/exercises/user/:id/date/:date/calories-burned", s.totalCaloriesBurned)
		protected.GET("/exercises/user/:id/date/:date/summary", s.dailyExerciseSummary)

		protected.POST("/meals", s.logMeal)
		protected.GET("/meals/user/:id", s.listMeals)
		protected.GET("/meals/user/:id/date/:date", s.listMealsByDate)
		protected.GET("/meals/user/:id/date/:date/calories-consumed", s.totalCaloriesConsumed)
		protected.GET("/meals/user/:id/date/:date/summary", s.dailyCalorieIntake)

		protected.POST("/health-metrics", s.recordMetric)
		protected.GET("/health-metrics/user/:id", s.listMetrics)
		protected.GET("/health-metrics/user/:id/latest", s.latestMetric)
		protected.GET("/health-metrics/user/:id/progress", s.healthProgress)
		protected.GET("/health-metrics/user/:id/calories_consumed_burned", s.caloriesConsumedBurned)

		protected.GET("/alerts/user/:id", s.listAlerts)
		protected.GET("/alerts/user/:id/unread", s.listUnreadAlerts)
		protected.PUT("/alerts/:id/read", s.markAlertRead)
	}
}

// ---- token handling ----

func (s *Server) mintToken(userID int, role, typ string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"typ":    typ,
		"exp":    time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(s.secret)
}

func (s *Server) parseToken(tokenString, wantTyp string) (int, string, bool) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	typ, _ := claims["typ"].(string)
	if typ != wantTyp {
		return 0, "", false
	}
	id, ok := claims["userId"].(float64)
	if !ok {
		return 0, "", false
	}
	role, _ := claims["role"].(string)
	return int(id), role, true
}

// authRequired mirrors the backend contract the client is written against:
// an expired or invalid access token is a 403, not a 401.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.forceForbidden.Load() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access token expired"})
			return
		}
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "authorization required"})
			return
		}
		userID, role, ok := s.parseToken(strings.TrimPrefix(header, "Bearer "), "access")
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "invalid or expired token"})
			return
		}
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func (s *Server) adminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != internal.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin role required"})
			return
		}
		c.Next()
	}
}

// canAccess enforces ownership: users see only their own records, admins see
// everything.
func canAccess(c *gin.Context, ownerID int) bool {
	if c.GetString("role") == internal.RoleAdmin {
		return true
	}
	return c.GetInt("userID") == ownerID
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func today() string {
	return time.Now().Format(internal.DateLayout)
}
