package routes

import (
	"github.com/gin-gonic/gin"

	"go-monsoon/boundary"
	"go-monsoon/classify"
	"go-monsoon/config"
	"go-monsoon/db"
	"go-monsoon/dispatch"
	"go-monsoon/handlers"
	"go-monsoon/metrics"
	"go-monsoon/resolver"
	"go-monsoon/session"
)

// SetupRouter wires every page and API endpoint. Dependencies are injected
// into the handlers through closures.
func SetupRouter(
	cfg *config.Config,
	users *db.UserStore,
	res *resolver.Resolver,
	cls classify.Classifier,
	disp *dispatch.Dispatcher,
	bounds *boundary.Store,
) *gin.Engine {
	r := gin.Default()
	r.Use(metrics.Middleware())
	r.Use(session.Middleware(cfg.SessionSecret, int(cfg.SessionMaxAge.Seconds())))

	r.LoadHTMLGlob("web/templates/*.html")
	r.Static("/static", "./web/static")

	// pages
	r.GET("/login", handlers.LoginPage)
	r.GET("/register", handlers.RegisterPage)
	r.GET("/", handlers.RequirePage, handlers.ReportPage)

	// account lifecycle
	r.POST("/api/auth/register", func(c *gin.Context) {
		handlers.RegisterUser(c, users)
	})
	r.POST("/api/auth/login", func(c *gin.Context) {
		handlers.LoginUser(c, users)
	})
	r.POST("/api/auth/logout", handlers.LogoutUser)

	// everything below needs a session
	api := r.Group("/api", handlers.RequireAPI)
	{
		api.POST("/location/browser", handlers.SaveBrowserFix)
		api.DELETE("/location/browser", handlers.ClearBrowserFix)
		api.POST("/location/preview", func(c *gin.Context) {
			handlers.PreviewLocation(c, res)
		})
		api.POST("/report", func(c *gin.Context) {
			handlers.SubmitReport(c, res, cls, disp)
		})
		api.GET("/boundary", func(c *gin.Context) {
			handlers.GetBoundary(c, bounds)
		})
	}

	// operational endpoints
	r.GET("/health", func(c *gin.Context) {
		handlers.Health(c, users, bounds)
	})
	r.GET("/metrics", metrics.Handler())

	return r
}
