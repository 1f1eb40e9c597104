package bootstrap

import (
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	httpapi "github.com/domuus/domuus-backend/internal/api/http"
	apimw "github.com/domuus/domuus-backend/internal/api/http/middleware"
	authhttp "github.com/domuus/domuus-backend/internal/auth/http"
	"github.com/domuus/domuus-backend/internal/auth/middleware"
	historyhttp "github.com/domuus/domuus-backend/internal/history/http"
	presencehttp "github.com/domuus/domuus-backend/internal/presence/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Log         *logrus.Logger

	AuthClient *fbauth.Client
	DB         *pgxpool.Pool
	Redis      *redis.Client

	AuthHandler     *authhttp.Handler
	PresenceHandler *presencehttp.Handler
	HistoryHandler  *historyhttp.Handler
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if dep.Log != nil {
		r.Use(apimw.RequestID(dep.Log))
	}

	if len(dep.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = dep.CORSOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		r.Use(cors.New(corsCfg))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	dep.AuthHandler.RegisterPublic(api)

	protected := api.Group("")
	protected.Use(middleware.FirebaseAuthMiddleware(dep.AuthClient))

	dep.AuthHandler.RegisterProtected(protected)
	dep.PresenceHandler.RegisterRoutes(protected)
	dep.HistoryHandler.RegisterRoutes(protected)

	return r
}
