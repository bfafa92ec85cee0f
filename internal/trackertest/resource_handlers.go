package trackertest

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/pathuGIT/Health-Tracker/internal"
)

// ---- exercise handlers ----

func (s *Server) logExercise(c *gin.Context) {
	var req struct {
		UserID          int     `json:"userId"`
		ExerciseName    string  `json:"exerciseName"`
		DurationMinutes int     `json:"durationMinutes"`
		CaloriesBurned  float64 `json:"caloriesBurned"`
		Date            string  `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.ExerciseName == "" || req.DurationMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "exerciseName and durationMinutes are required"})
		return
	}
	if req.UserID == 0 {
		req.UserID = c.GetInt("userID")
	}
	if !canAccess(c, req.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "cannot log exercises for another user"})
		return
	}
	if req.Date == "" {
		req.Date = today()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	exercise := internal.Exercise{
		ID:              s.nextID,
		UserID:          req.UserID,
		ExerciseName:    req.ExerciseName,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Date:            req.Date,
	}
	s.nextID++
	s.exercises[req.UserID] = append(s.exercises[req.UserID], exercise)
	c.JSON(http.StatusCreated, gin.H{"data": exercise})
}

func (s *Server) listExercises(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]internal.Exercise{}, s.exercises[id]...)
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) listExercisesByDate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	date := c.Param("date")
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.Exercise{}
	for _, e := range s.exercises[id] {
		if e.Date == date {
			out = append(out, e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) totalCaloriesBurned(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	date := c.Param("date")
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for _, e := range s.exercises[id] {
		if e.Date == date {
			total += e.CaloriesBurned
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"totalCaloriesBurned": total}})
}

func (s *Server) dailyExerciseSummary(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	date := c.Param("date")
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := internal.DailyExerciseSummary{UserID: id, Date: date}
	for _, e := range s.exercises[id] {
		if e.Date == date {
			summary.TotalExercises++
			summary.TotalDurationMinutes += e.DurationMinutes
			summary.TotalCaloriesBurned += e.CaloriesBurned
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// ---- meal handlers ----

func (s *Server) logMeal(c *gin.Context) {
	var req struct {
		UserID           int     `json:"userId"`
		MealName         string  `json:"mealName"`
		CaloriesConsumed float64 `json:"caloriesConsumed"`
		Date             string  `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.MealName == "" || req.CaloriesConsumed <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "mealName and caloriesConsumed are required"})
		return
	}
	if req.UserID == 0 {
		req.UserID = c.GetInt("userID")
	}
	if !canAccess(c, req.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "cannot log meals for another user"})
		return
	}
	if req.Date == "" {
		req.Date = today()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	meal := internal.Meal{
		ID:               s.nextID,
		UserID:           req.UserID,
		MealName:         req.MealName,
		CaloriesConsumed: req.CaloriesConsumed,
		Date:             req.Date,
	}
	s.nextID++
	s.meals[req.UserID] = append(s.meals[req.UserID], meal)

	// The backend raises an alert on a calorie-limit breach; the client only
	// ever reads alerts and marks them read.
	summary := s.calorieSummaryLocked(req.UserID, req.Date)
	if summary.TotalCalories > DailyCalorieLimit {
		alert := internal.Alert{
			ID:        s.nextID,
			UserID:    req.UserID,
			Message:   fmt.Sprintf("Daily calorie limit exceeded on %s: %.0f kcal", req.Date, summary.TotalCalories),
			AlertDate: req.Date,
		}
		s.nextID++
		s.alerts[req.UserID] = append(s.alerts[req.UserID], alert)
	}

	c.JSON(http.StatusCreated, gin.H{"data": meal})
}

func (s *Server) listMeals(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]internal.Meal{}, s.meals[id]...)
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) listMealsByDate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	date := c.Param("date")
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.Meal{}
	for _, m := range s.meals[id] {
		if m.Date == date {
			out = append(out, m)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) totalCaloriesConsumed(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	date := c.Param("date")
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary := s.calorieSummaryLocked(id, date)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"totalCaloriesConsumed": summary.TotalCalories}})
}

func (s *Server) dailyCalorieIntake(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	date := c.Param("date")
	s.mu.RLock()
	defer s.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"data": s.calorieSummaryLocked(id, date)})
}

// ---- health metric handlers ----

func (s *Server) recordMetric(c *gin.Context) {
	var req struct {
		UserID int     `json:"userId"`
		Weight float64 `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.UserID == 0 {
		req.UserID = c.GetInt("userID")
	}
	if !canAccess(c, req.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "cannot record metrics for another user"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, exists := s.users[req.UserID]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	bmi, err := internal.CalculateBMI(user.Height, req.Weight)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	metric := internal.HealthMetric{
		ID:          s.nextID,
		UserID:      req.UserID,
		Weight:      req.Weight,
		BMI:         bmi,
		BMICategory: internal.BMICategory(bmi),
		Date:        today(),
	}
	s.nextID++
	s.metrics[req.UserID] = append(s.metrics[req.UserID], metric)
	user.Weight = req.Weight
	c.JSON(http.StatusCreated, gin.H{"data": metric})
}

func (s *Server) listMetrics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]internal.HealthMetric{}, s.metrics[id]...)
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) latestMetric(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.metrics[id]
	if len(history) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no health metrics recorded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": history[len(history)-1]})
}

func (s *Server) healthProgress(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	points := make([]internal.HealthProgressPoint, 0, len(s.metrics[id]))
	for _, m := range s.metrics[id] {
		points = append(points, internal.HealthProgressPoint{Date: m.Date, Weight: m.Weight, BMI: m.BMI})
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}

func (s *Server) caloriesConsumedBurned(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your records"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDate := map[string]*internal.CaloriesConsumedBurned{}
	for _, m := range s.meals[id] {
		if byDate[m.Date] == nil {
			byDate[m.Date] = &internal.CaloriesConsumedBurned{Date: m.Date}
		}
		byDate[m.Date].CaloriesConsumed += m.CaloriesConsumed
	}
	for _, e := range s.exercises[id] {
		if byDate[e.Date] == nil {
			byDate[e.Date] = &internal.CaloriesConsumedBurned{Date: e.Date}
		}
		byDate[e.Date].CaloriesBurned += e.CaloriesBurned
	}
	out := make([]internal.CaloriesConsumedBurned, 0, len(byDate))
	for _, day := range byDate {
		out = append(out, *day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// ---- alert handlers ----

func (s *Server) listAlerts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your alerts"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]internal.Alert{}, s.alerts[id]...)
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) listUnreadAlerts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if !canAccess(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"message": "not your alerts"})
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []internal.Alert{}
	for _, a := range s.alerts[id] {
		if !a.IsRead {
			out = append(out, a)
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) markAlertRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, alerts := range s.alerts {
		for i := range alerts {
			if alerts[i].ID != id {
				continue
			}
			if !canAccess(c, userID) {
				c.JSON(http.StatusForbidden, gin.H{"message": "not your alert"})
				return
			}
			alerts[i].IsRead = true
			c.JSON(http.StatusOK, gin.H{"data": alerts[i]})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "alert not found"})
}
