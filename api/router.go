// Package api contains all endpoints available
package api

import (
	"fmt"
	"net/http"
	"time"

	"taskman/todo-web/db"
	"taskman/todo-web/middleware"
	"taskman/todo-web/pkg/security"
	"taskman/todo-web/service"
	"taskman/todo-web/web"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// Form posts in this app are a few fields of text, nothing legitimate
// comes close to this
const maxFormSize = 1 << 20

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Argon  *security.ArgonHash
	Audit  *service.AuditLog
}

func NewRouter() (*API, error) {
	d, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	return newAPI(d), nil
}

// newAPI wires the engine, middleware and routes around an open database
// handle. Split from NewRouter so tests can inject their own database.
func newAPI(d *gorm.DB) *API {
	a := &API{
		DB:    d,
		Argon: security.New(),
		Audit: service.NewAuditLog(d),
	}

	router := gin.New()
	a.Router = router

	scheme := "http"
	if viper.GetBool("host.ssl.enabled") {
		scheme = "https"
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{fmt.Sprintf("%s://%s", scheme, viper.GetString("host.domain"))},
			AllowMethods:     []string{"GET", "POST", "HEAD"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v, ok := c.Get("userID"); ok {
					fields = append(fields, zap.Any("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.SetHTMLTemplate(web.Templates())

	sess := middleware.NewSessionMiddleware(d)
	form := middleware.BodySizeLimiter(maxFormSize)

	// GET /			-> Sends the browser to the login page
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})

	// HEAD /heartbeat		-> Used to check if the server is alive
	router.HEAD("/heartbeat", a.Heartbeat)

	// GET  /register		-> Renders the registration form
	// POST /register		-> Creates a user and redirects to /login
	router.GET("/register", a.RegisterForm)
	router.POST("/register", form, a.Register)

	// GET  /login			-> Renders the login form
	// POST /login			-> Authenticates and starts a session
	router.GET("/login", a.LoginForm)
	router.POST("/login", form, a.Login)

	// POST /logout			-> Clears the session
	router.POST("/logout", a.Logout)

	// GET  /dashboard		-> Lists the session user's tasks, ?filter= optional
	router.GET("/dashboard", sess, a.Dashboard)

	// POST /add-task		-> Creates a task for the session user
	// POST /remove-task		-> Deletes a task the session user owns
	// POST /toggle-task		-> Flips the completed flag of an owned task
	router.POST("/add-task", sess, form, a.TaskAdd)
	router.POST("/remove-task", sess, form, a.TaskRemove)
	router.POST("/toggle-task", sess, form, a.TaskToggle)

	// Every admin route requires the admin capability, session presence
	// alone is not enough
	admin := router.Group("/admin", sess, middleware.NewAdminMiddleware(d))
	{
		// GET /admin			-> Lists non-admin users, ?search=&status= optional
		admin.GET("", a.AdminUsers)

		// POST /admin/delete/:id	-> Deletes a user and their tasks
		admin.POST("/delete/:id", a.AdminUserDelete)

		// GET /admin/tasks/:id		-> Shows a user's task list
		admin.GET("/tasks/:id", a.AdminUserTasks)
	}

	a.Audit.StartWorkerPool()

	return a
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// internalError hides whatever actually went wrong behind a generic 500.
// The request ID lets the user report something that can be found in the
// logs without leaking internals.
func internalError(c *gin.Context, requestID string) {
	c.String(http.StatusInternalServerError, "Internal server error (request %s)", requestID)
	c.Abort()
}
