package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/learnifypk/backend/config"
	"github.com/learnifypk/backend/database"
	"github.com/learnifypk/backend/internal/controller"
	"github.com/learnifypk/backend/internal/events"
	"github.com/learnifypk/backend/internal/logger"
	"github.com/learnifypk/backend/internal/mailer"
	"github.com/learnifypk/backend/internal/model"
	"github.com/learnifypk/backend/internal/repository"
	"github.com/learnifypk/backend/internal/service"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			events.NewDispatcher,
			NewMailer,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewAttemptRepository,
			repository.NewAnswerRepository,
			repository.NewResultRepository,
			repository.NewPaymentRepository,
		),

		fx.Provide(
			service.NewQuizService,
			service.NewSubscriptionService,
			func(db *gorm.DB,
				attemptRepo repository.AttemptRepository,
				answerRepo repository.AnswerRepository,
				questionRepo repository.QuestionRepository,
				quizRepo repository.QuizRepository,
				resultRepo repository.ResultRepository,
			) service.AttemptService {
				return service.NewAttemptService(db, attemptRepo, answerRepo, questionRepo, quizRepo, resultRepo)
			},
			func(db *gorm.DB,
				paymentRepo repository.PaymentRepository,
				subscription service.SubscriptionService,
				dispatcher *events.Dispatcher,
				cfg *config.Config,
			) service.PaymentService {
				return service.NewPaymentService(db, paymentRepo, subscription, dispatcher, cfg)
			},
		),

		fx.Provide(
			controller.NewQuizController,
			controller.NewPaymentController,
		),

		fx.Invoke(RegisterMailHooks),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	origins := []string{"*"}
	if cfg.Frontend.Origin != "" {
		origins = []string{cfg.Frontend.Origin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func NewMailer(cfg *config.Config) mailer.Mailer {
	return mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
}

// RegisterMailHooks wires the transactional mails onto the post-commit
// payment events. Mail failure is logged and dropped.
func RegisterMailHooks(dispatcher *events.Dispatcher, m mailer.Mailer) {
	dispatcher.Subscribe(events.TopicUserCreated, func(payload any) {
		ev, ok := payload.(events.UserCreated)
		if !ok {
			return
		}
		if err := m.SendWelcome(ev.Email, ev.FullName); err != nil {
			log.Error().Err(err).Uint("userId", ev.UserID).Msg("Failed to send welcome mail")
		}
	})
	dispatcher.Subscribe(events.TopicPaymentSucceeded, func(payload any) {
		ev, ok := payload.(events.PaymentSucceeded)
		if !ok {
			return
		}
		if err := m.SendPaymentReceipt(ev.Email, ev.FullName, ev.Amount, ev.Plan, ev.OrderRef); err != nil {
			log.Error().Err(err).Str("paymentId", ev.PaymentID).Msg("Failed to send payment receipt")
		}
	})
	dispatcher.Subscribe(events.TopicSubscriptionExtended, func(payload any) {
		ev, ok := payload.(events.SubscriptionExtended)
		if !ok {
			return
		}
		if err := m.SendSubscriptionExtended(ev.Email, ev.FullName, ev.Plan, ev.Expiry); err != nil {
			log.Error().Err(err).Uint("userId", ev.UserID).Msg("Failed to send subscription notice")
		}
	})
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	userRepo repository.UserRepository,
	quizCtrl *controller.QuizController,
	paymentCtrl *controller.PaymentController,
) {
	apiV1 := router.Group("/api/v1")
	apiV1.Use(controller.Identity(userRepo))

	quizCtrl.RegisterRoutes(apiV1)
	paymentCtrl.RegisterRoutes(apiV1)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Quiz API server starting on port %s", port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("HTTP server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.QuestionBank{},
		&model.Question{},
		&model.Quiz{},
		&model.QuizAssignment{},
		&model.Attempt{},
		&model.Answer{},
		&model.Result{},
		&model.Payment{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migrations completed")
	return nil
}
