package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"

	"github.com/pathuGIT/Health-Tracker/internal"
	"github.com/pathuGIT/Health-Tracker/internal/api"
	"github.com/pathuGIT/Health-Tracker/internal/auth"
	"github.com/pathuGIT/Health-Tracker/internal/config"
	"github.com/pathuGIT/Health-Tracker/internal/service"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	warning = color.New(color.FgYellow)
)

type app struct {
	client  *api.Client
	session *auth.Manager
}

func main() {
	cfg := config.Load()
	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}

	store := auth.NewFileStore(cfg.CredentialsFile)
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, store, logger)
	session := auth.NewManager(client, store, logger)
	a := &app{client: client, session: session}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd, args := os.Args[1], os.Args[2:]
	ctx := context.Background()

	// Registration is the only command that works without a restored session.
	if cmd != "register" {
		if err := session.Initialize(ctx); err != nil && session.Viewer() != auth.Anonymous {
			warning.Fprintf(os.Stderr, "could not load profile: %v\n", err)
		}
	}

	if err := a.run(ctx, cmd, args); err != nil {
		failure.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		success.Println("Logged out.")
		return nil
	case "whoami":
		return a.whoami()
	case "dashboard":
		return a.dashboard(ctx)
	case "exercises":
		return a.exercises(ctx, args)
	case "meals":
		return a.meals(ctx, args)
	case "weight":
		return a.weight(ctx, args)
	case "alerts":
		return a.alerts(ctx, args)
	case "users":
		return a.users(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Println(`healthcli <command> [flags]

Commands:
  register   -name -email -contact -password -age -weight -height
  login      -login -password
  logout
  whoami
  dashboard
  exercises  list | add -name -minutes -calories [-date]
  meals      list | add -name -calories [-date]
  weight     record -kg | history
  alerts     list [-unread] | read -id
  users      (admin only)`)
}

// requireUser gates commands on an authenticated session; requireAdmin on the
// admin role. Both derive from the viewer variant, never from cached data.
func (a *app) requireUser() error {
	if a.session.Viewer() == auth.Anonymous {
		return fmt.Errorf("%w; run `healthcli login` first", internal.ErrNotAuthenticated)
	}
	return nil
}

func (a *app) requireAdmin() error {
	if err := a.requireUser(); err != nil {
		return err
	}
	if a.session.Viewer() != auth.Admin {
		return fmt.Errorf("admin role required")
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	contact := fs.String("contact", "", "contact number")
	password := fs.String("password", "", "password")
	age := fs.Int("age", 0, "age in years")
	weight := fs.Float64("weight", 0, "weight in kg")
	height := fs.Float64("height", 0, "height in cm")
	fs.Parse(args)

	user, err := service.Register(ctx, a.client, &internal.RegisterRequest{
		Name: *name, Email: *email, Contact: *contact, Password: *password,
		Age: *age, Weight: *weight, Height: *height,
	})
	if err != nil {
		return err
	}
	success.Printf("Registered %s (id %d). You can now log in.\n", user.Name, user.ID)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	login := fs.String("login", "", "email or contact number")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if err := a.session.Login(ctx, *login, *password); err != nil {
		return err
	}
	if user := a.session.CurrentUser(); user != nil {
		success.Printf("Welcome back, %s!\n", user.Name)
	}
	return nil
}

func (a *app) whoami() error {
	viewer := a.session.Viewer()
	if viewer == auth.Anonymous {
		fmt.Println("Not logged in.")
		return nil
	}
	if user := a.session.CurrentUser(); user != nil {
		heading.Printf("Logged in as %s (%s)\n", user.Name, viewer)
	} else {
		heading.Printf("Logged in as user %d (%s)\n", a.session.UserID(), viewer)
	}
	return nil
}

func (a *app) dashboard(ctx context.Context) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	userID := a.session.UserID()

	profile, err := service.GetUserProfile(ctx, a.client, userID)
	if err != nil {
		return err
	}
	heading.Printf("%s's dashboard\n", profile.Name)
	fmt.Printf("  Height: %.0f cm   Weight: %.1f kg", profile.Height, profile.CurrentWeight)
	if profile.LastBMIRecorded > 0 {
		fmt.Printf("   BMI: %.1f (%s)", profile.LastBMIRecorded, profile.BMICategory)
	}
	fmt.Println()

	if summary, err := service.GetCalorieSummary(ctx, a.client, userID); err == nil {
		fmt.Printf("  Today: %d meals, %.0f kcal consumed\n", summary.TotalMeals, summary.TotalCalories)
	}
	if days, err := service.GetCaloriesConsumedBurned(ctx, a.client, userID); err == nil && len(days) > 0 {
		last := days[len(days)-1]
		fmt.Printf("  %s: %.0f kcal in / %.0f kcal out\n", last.Date, last.CaloriesConsumed, last.CaloriesBurned)
	}
	if unread, err := service.ListUnreadAlertsByUser(ctx, a.client, userID); err == nil && len(unread) > 0 {
		warning.Printf("  %d unread alert(s), run `healthcli alerts list -unread`\n", len(unread))
	}
	return nil
}

func (a *app) exercises(ctx context.Context, args []string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	if len(args) == 0 || args[0] == "list" {
		exercises, err := service.ListExercisesByUser(ctx, a.client, a.session.UserID())
		if err != nil {
			return err
		}
		heading.Println("Exercises")
		for _, e := range exercises {
			fmt.Printf("  %s  %-20s %3d min  %6.0f kcal\n", e.Date, e.ExerciseName, e.DurationMinutes, e.CaloriesBurned)
		}
		return nil
	}
	if args[0] != "add" {
		return fmt.Errorf("usage: exercises list | add")
	}

	fs := flag.NewFlagSet("exercises add", flag.ExitOnError)
	name := fs.String("name", "", "exercise name")
	minutes := fs.Int("minutes", 0, "duration in minutes")
	calories := fs.Float64("calories", 0, "calories burned")
	date := fs.String("date", "", "date (YYYY-MM-DD, default today)")
	fs.Parse(args[1:])

	exercise, err := service.LogExercise(ctx, a.client, &service.ExerciseRequest{
		UserID: a.session.UserID(), ExerciseName: *name,
		DurationMinutes: *minutes, CaloriesBurned: *calories, Date: *date,
	})
	if err != nil {
		return err
	}
	success.Printf("Logged %s (%d min, %.0f kcal) on %s.\n",
		exercise.ExerciseName, exercise.DurationMinutes, exercise.CaloriesBurned, exercise.Date)
	return nil
}

func (a *app) meals(ctx context.Context, args []string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	if len(args) == 0 || args[0] == "list" {
		meals, err := service.ListMealsByUser(ctx, a.client, a.session.UserID())
		if err != nil {
			return err
		}
		heading.Println("Meals")
		for _, m := range meals {
			fmt.Printf("  %s  %-20s %6.0f kcal\n", m.Date, m.MealName, m.CaloriesConsumed)
		}
		return nil
	}
	if args[0] != "add" {
		return fmt.Errorf("usage: meals list | add")
	}

	fs := flag.NewFlagSet("meals add", flag.ExitOnError)
	name := fs.String("name", "", "meal name")
	calories := fs.Float64("calories", 0, "calories consumed")
	date := fs.String("date", "", "date (YYYY-MM-DD, default today)")
	fs.Parse(args[1:])

	meal, err := service.LogMeal(ctx, a.client, &service.MealRequest{
		UserID: a.session.UserID(), MealName: *name,
		CaloriesConsumed: *calories, Date: *date,
	})
	if err != nil {
		return err
	}
	success.Printf("Logged %s (%.0f kcal) on %s.\n", meal.MealName, meal.CaloriesConsumed, meal.Date)
	return nil
}

func (a *app) weight(ctx context.Context, args []string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: weight record -kg | history")
	}
	switch args[0] {
	case "record":
		fs := flag.NewFlagSet("weight record", flag.ExitOnError)
		kg := fs.Float64("kg", 0, "weight in kilograms")
		fs.Parse(args[1:])

		metric, err := service.RecordHealthMetric(ctx, a.client, &service.HealthMetricRequest{
			UserID: a.session.UserID(), Weight: *kg,
		})
		if err != nil {
			return err
		}
		success.Printf("Recorded %.1f kg, BMI %.1f (%s)\n", metric.Weight, metric.BMI, metric.BMICategory)
		return nil
	case "history":
		points, err := service.GetHealthProgress(ctx, a.client, a.session.UserID())
		if err != nil {
			return err
		}
		heading.Println("Weight / BMI history")
		for _, p := range points {
			fmt.Printf("  %s  %6.1f kg  BMI %.1f\n", p.Date, p.Weight, p.BMI)
		}
		return nil
	default:
		return fmt.Errorf("usage: weight record -kg | history")
	}
}

func (a *app) alerts(ctx context.Context, args []string) error {
	if err := a.requireUser(); err != nil {
		return err
	}
	if len(args) == 0 || args[0] == "list" {
		fs := flag.NewFlagSet("alerts list", flag.ExitOnError)
		unreadOnly := fs.Bool("unread", false, "only unread alerts")
		if len(args) > 0 {
			fs.Parse(args[1:])
		}

		var alerts []internal.Alert
		var err error
		if *unreadOnly {
			alerts, err = service.ListUnreadAlertsByUser(ctx, a.client, a.session.UserID())
		} else {
			alerts, err = service.ListAlertsByUser(ctx, a.client, a.session.UserID())
		}
		if err != nil {
			return err
		}
		heading.Println("Alerts")
		for _, alert := range alerts {
			marker := " "
			if !alert.IsRead {
				marker = "*"
			}
			fmt.Printf("  %s [%d] %s  %s\n", marker, alert.ID, alert.AlertDate, alert.Message)
		}
		return nil
	}
	if args[0] != "read" {
		return fmt.Errorf("usage: alerts list [-unread] | read -id")
	}

	fs := flag.NewFlagSet("alerts read", flag.ExitOnError)
	id := fs.Int("id", 0, "alert id")
	fs.Parse(args[1:])
	if *id == 0 && fs.NArg() > 0 {
		*id, _ = strconv.Atoi(fs.Arg(0))
	}

	if _, err := service.MarkAlertRead(ctx, a.client, *id); err != nil {
		return err
	}
	success.Printf("Alert %d marked as read.\n", *id)
	return nil
}

func (a *app) users(ctx context.Context) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	users, err := service.ListUsers(ctx, a.client)
	if err != nil {
		return err
	}
	heading.Println("Users")
	for _, u := range users {
		fmt.Printf("  [%d] %-20s %-30s %s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}
