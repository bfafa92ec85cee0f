package internal

// Roles known to the backend. Role is fixed at registration and defaults to
// RoleUser; admins are provisioned out of band.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// DateLayout is the day-granularity format used in date path segments and
// date fields on the wire.
const DateLayout = "2006-01-02"

type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Contact  string  `json:"contact"`
	Age      int     `json:"age"`
	Height   float64 `json:"height"` // cm
	Weight   float64 `json:"weight"` // kg
	Role     string  `json:"role,omitempty"`
	Password string  `json:"password,omitempty"` // write-only, never returned
}

// UserProfile is the aggregated profile view returned by
// GET /users/{id}/profile.
type UserProfile struct {
	UserID          int     `json:"userId"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Age             int     `json:"age"`
	CurrentWeight   float64 `json:"currentWeight"`
	Height          float64 `json:"height"`
	LastBMIRecorded float64 `json:"lastBMIRecorded,omitempty"`
	BMICategory     string  `json:"bmiCategory,omitempty"`
}

// TokenResponse is the login response. The refresh endpoint returns only a
// fresh accessToken.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	UserID       int    `json:"userId,omitempty"`
	Role         string `json:"role,omitempty"`
}

type Exercise struct {
	ID              int     `json:"id"`
	UserID          int     `json:"userId"`
	ExerciseName    string  `json:"exerciseName"`
	DurationMinutes int     `json:"durationMinutes"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
	Date            string  `json:"date"`
}

type Meal struct {
	ID               int     `json:"id"`
	UserID           int     `json:"userId"`
	MealName         string  `json:"mealName"`
	CaloriesConsumed float64 `json:"caloriesConsumed"`
	Date             string  `json:"date"`
}

// HealthMetric is a weight record; BMI and its category are derived
// server-side from the user's stored height.
type HealthMetric struct {
	ID          int     `json:"id"`
	UserID      int     `json:"userId"`
	Weight      float64 `json:"weight"`
	BMI         float64 `json:"bmi"`
	BMICategory string  `json:"bmiCategory"`
	Date        string  `json:"date"`
}

type Alert struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Message   string `json:"message"`
	AlertDate string `json:"alertDate"`
	IsRead    bool   `json:"isRead"`
}

type CalorieSummary struct {
	UserID             int     `json:"userId"`
	Date               string  `json:"date"`
	TotalMeals         int     `json:"totalMeals"`
	TotalCalories      float64 `json:"totalCalories"`
	AvgCaloriesPerMeal float64 `json:"avgCaloriesPerMeal"`
}

type DailyExerciseSummary struct {
	UserID               int     `json:"userId"`
	Date                 string  `json:"date"`
	TotalExercises       int     `json:"totalExercises"`
	TotalDurationMinutes int     `json:"totalDurationMinutes"`
	TotalCaloriesBurned  float64 `json:"totalCaloriesBurned"`
}

type BMIResult struct {
	UserID      int     `json:"userId"`
	BMI         float64 `json:"bmi"`
	BMICategory string  `json:"bmiCategory"`
}

// HealthProgressPoint is one sample of the weight/BMI history view.
type HealthProgressPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	BMI    float64 `json:"bmi"`
}

// CaloriesConsumedBurned pairs intake and burn totals for one day.
type CaloriesConsumedBurned struct {
	Date             string  `json:"date"`
	CaloriesConsumed float64 `json:"caloriesConsumed"`
	CaloriesBurned   float64 `json:"caloriesBurned"`
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Contact  string  `json:"contact" validate:"required"`
	Password string  `json:"password" validate:"required,min=6"`
	Age      int     `json:"age" validate:"required,gte=10,lte=120"`
	Weight   float64 `json:"weight" validate:"required,gt=0"`
	Height   float64 `json:"height" validate:"required,gt=0"`
}

// LoginRequest carries the email or contact number plus password.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}
