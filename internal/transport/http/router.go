package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

// Services are the use cases exposed over HTTP.
type Services struct {
	Questions      *app.QuestionService
	Questionnaires *app.QuestionnaireService
	Sessions       *app.SessionService
	Game           *app.GameService
	Users          *app.UserService
}

// Config controls authentication of the HTTP surface.
type Config struct {
	Identity IdentityVerifier
	// Attestation may be nil, which disables attestation checks.
	Attestation        AttestationVerifier
	EnforceAttestation bool
	// BindCallerIdentity requires body and query userId values to match the token subject.
	BindCallerIdentity bool
}

type handler struct {
	services Services
	cfg      Config
	ws       *WSHandler
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(services Services, cfg Config) *gin.Engine {
	h := &handler{services: services, cfg: cfg, ws: NewWSHandler(services.Game)}

	r := gin.New()
	r.Use(requestLogger(), recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", attestationHeader},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	protected := r.Group("", requireIdentity(cfg.Identity))
	{
		protected.POST("/questions", h.createQuestion)
		protected.GET("/questions", h.listQuestions)
		protected.GET("/questions/:id", h.getQuestion)
		protected.PUT("/questions/:id", h.updateQuestion)
		protected.DELETE("/questions/:id", h.deleteQuestion)
		protected.POST("/questions/:id/media", h.uploadQuestionMedia)

		protected.POST("/questionnaires", h.createQuestionnaire)
		protected.GET("/questionnaires", h.listQuestionnaires)
		protected.GET("/questionnaires/:id", h.getQuestionnaire)
		protected.PUT("/questionnaires/:id", h.updateQuestionnaire)
		protected.DELETE("/questionnaires/:id", h.deleteQuestionnaire)

		protected.POST("/gameSessions", h.createGameSession)
		protected.GET("/gameSessions", h.listGameSessions)
		protected.GET("/gameSessions/:id", h.getGameSession)
		protected.PUT("/gameSessions/:id/status", h.updateGameSessionStatus)
		protected.PUT("/gameSessions/:id/toggle-open", h.toggleGameSessionOpen)
		protected.PUT("/gameSessions/:id/refresh-questions", h.refreshGameSessionQuestions)
		protected.DELETE("/gameSessions/:id", h.deleteGameSession)

		protected.PUT("/users/:uid", h.saveUser)
		protected.GET("/users/:uid", h.getUser)
	}

	public := r.Group("/game")
	if cfg.Attestation != nil {
		public.Use(requireAttestation(cfg.Attestation, cfg.EnforceAttestation))
	}
	{
		public.GET("/:id", h.getPublicGame)
		public.POST("/:id/join", h.joinGame)
		public.GET("/:id/players/:userId", h.getPlayerProgress)
		public.POST("/:id/players/:userId/answer", h.submitAnswer)
		public.GET("/:id/ranking", h.getRanking)
		public.GET("/:id/ranking/ws", h.ws.ServeRanking)
	}
	return r
}

// callerID returns the userId supplied by the client, checked against the token
// subject when identity binding is on.
func (h *handler) callerID(c *gin.Context, supplied string) (string, error) {
	if h.cfg.BindCallerIdentity && supplied != identityOf(c).UID {
		return "", domain.ErrForbidden
	}
	return supplied, nil
}

func success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
