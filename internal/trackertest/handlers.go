package trackertest

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/pathuGIT/Health-Tracker/internal"
)

// SeedAdmin registers an administrator account directly, the way admins are
// provisioned out of band in the real system.
func (s *Server) SeedAdmin(name, email, password string) (int, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.users[id] = &internal.User{
		ID:    id,
		Name:  name,
		Email: email,
		Role:  internal.RoleAdmin,
	}
	s.passwords[id] = string(hash)
	return id, nil
}

func sanitized(u *internal.User) internal.User {
	out := *u
	out.Password = ""
	return out
}

// ---- auth handlers ----

func (s *Server) register(c *gin.Context) {
	var req internal.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == req.Email {
			c.JSON(http.StatusBadRequest, gin.H{"message": "This Email already exists."})
			return
		}
		if req.Contact != "" && u.Contact == req.Contact {
			c.JSON(http.StatusBadRequest, gin.H{"message": "This Contact already exists."})
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to hash password"})
		return
	}

	id := s.nextID
	s.nextID++
	user := &internal.User{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Contact: req.Contact,
		Age:     req.Age,
		Height:  req.Height,
		Weight:  req.Weight,
		Role:    internal.RoleUser,
	}
	s.users[id] = user
	s.passwords[id] = string(hash)

	c.JSON(http.StatusCreated, gin.H{"data": sanitized(user)})
}

func (s *Server) login(c *gin.Context) {
	var req internal.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var user *internal.User
	for _, u := range s.users {
		if u.Email == req.Login || (u.Contact != "" && u.Contact == req.Login) {
			user = u
			break
		}
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(s.passwords[user.ID]), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
		return
	}

	access, err := s.mintToken(user.ID, user.Role, "access", s.accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}
	refresh, err := s.mintToken(user.ID, user.Role, "refresh", s.refreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}
	s.refreshTokens[user.ID] = refresh

	c.JSON(http.StatusOK, gin.H{"data": internal.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		UserID:       user.ID,
		Role:         user.Role,
	}})
}

func (s *Server) refresh(c *gin.Context) {
	s.refreshCalls.Add(1)
	if s.rejectRefresh.Load() {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
		return
	}

	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "refreshToken is required"})
		return
	}

	userID, role, ok := s.parseToken(req.RefreshToken, "refresh")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid refresh token"})
		return
	}

	s.mu.RLock()
	stored := s.refreshTokens[userID]
	s.mu.RUnlock()
	if stored != req.RefreshToken {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "refresh token revoked"})
		return
	}

	access, err := s.mintToken(userID, role, "access", s.accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

func (s *Server) logout(c *gin.Context) {
	if s.failLogout.Load() {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "logout failed"})
		return
	}
	s.mu.Lock()
	delete(s.refreshTokens, c.GetInt("userID"))
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

// ---- user handlers ----

func (s *Server) listUsers(c *gin.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, sanitized(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	c.JSON(http.StatusOK, gin.H{"data": users})
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your account"})
		return
	}
	s.mu.RLock()
	user, exists := s.users[id]
	s.mu.RUnlock()
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sanitized(user)})
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your account"})
		return
	}
	var req internal.User
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[id]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Contact != "" {
		user.Contact = req.Contact
	}
	if req.Age != 0 {
		user.Age = req.Age
	}
	if req.Height != 0 {
		user.Height = req.Height
	}
	if req.Weight != 0 {
		user.Weight = req.Weight
	}
	c.JSON(http.StatusOK, gin.H{"data": sanitized(user)})
}

func (s *Server) getProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your account"})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}

	profile := internal.UserProfile{
		UserID:        user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Age:           user.Age,
		CurrentWeight: user.Weight,
		Height:        user.Height,
	}
	if history := s.metrics[id]; len(history) > 0 {
		latest := history[len(history)-1]
		profile.CurrentWeight = latest.Weight
		profile.LastBMIRecorded = latest.BMI
		profile.BMICategory = latest.BMICategory
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) getBMI(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your account"})
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	user, exists := s.users[id]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	weight := user.Weight
	if history := s.metrics[id]; len(history) > 0 {
		weight = history[len(history)-1].Weight
	}
	bmi, err := internal.CalculateBMI(user.Height, weight)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": internal.BMIResult{
		UserID:      id,
		BMI:         bmi,
		BMICategory: internal.BMICategory(bmi),
	}})
}

func (s *Server) getCalorieSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your account"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"data": s.calorieSummaryLocked(id, today())})
}

// calorieSummaryLocked must be called with s.mu held.
func (s *Server) calorieSummaryLocked(userID int, date string) internal.CalorieSummary {
	summary := internal.CalorieSummary{UserID: userID, Date: date}
	for _, m := range s.meals[userID] {
		if m.Date == date {
			summary.TotalMeals++
			summary.TotalCalories += m.CaloriesConsumed
		}
	}
	if summary.TotalMeals > 0 {
		summary.AvgCaloriesPerMeal = summary.TotalCalories / float64(summary.TotalMeals)
	}
	return summary
}
