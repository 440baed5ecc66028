package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"order-workflow-service/internal/appstate"
	"order-workflow-service/internal/config"
	"order-workflow-service/internal/controller"
	"order-workflow-service/internal/middleware"
	"order-workflow-service/internal/parent"
	"order-workflow-service/internal/rabbit"
	"order-workflow-service/internal/service"
	"order-workflow-service/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// MongoDB connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)
	kv := store.NewMongoKV(db)

	// Shared state, initialization gate and engine
	state := appstate.NewState()
	gate := appstate.NewGate(state)

	// RabbitMQ connection: notification publisher + data injection consumer
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("connecting to RabbitMQ failed: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("opening RabbitMQ channel failed: %v", err)
	}

	publisher, err := rabbit.NewNotificationPublisher(ch)
	if err != nil {
		log.Fatalf("declaring notifications exchange failed: %v", err)
	}

	engine := service.NewEngine(state, gate, kv, publisher, service.NopPresenter{}, cfg.AdminIDs, logger)
	rabbit.SetupConsumers(ch, engine, logger)

	// The engine stays inert until the host injects data (API or broker);
	// role resolution failure after injection is fatal by design.
	go func() {
		if err := engine.Start(context.Background()); err != nil {
			logger.WithError(err).Fatal("engine startup failed")
		}

		if cfg.ParentURL != "" {
			source := parent.NewHTTPSnapshotSource(cfg.ParentURL)
			synchronizer := service.NewSynchronizer(engine, source, cfg.PollInterval, logger)
			synchronizer.Start()
			logger.WithField("interval", cfg.PollInterval).Info("parent state polling started")
		}
	}()

	// Handlers
	ctl := controller.NewStepperController(engine)

	// Router
	r := gin.Default()

	// Public routes
	r.POST("/stepper/init", ctl.InitData)

	// Routes requiring a resolvable identity
	auth := r.Group("/")
	auth.Use(middleware.Identity(engine))

	auth.GET("/stepper/state", ctl.GetState)
	auth.POST("/stepper/steps/:stepId/activate", ctl.ActivateStep)
	auth.PATCH("/stepper/items", ctl.UpdateItems)
	auth.GET("/stepper/views/review", ctl.ReviewView)
	auth.GET("/stepper/views/confirmation", ctl.ConfirmationView)
	auth.GET("/stepper/views/rejected", ctl.RejectedView)
	auth.GET("/stepper/views/shippable", ctl.ShippableView)
	auth.GET("/stepper/views/delivery", ctl.DeliveryView)
	auth.GET("/stepper/views/returned", ctl.ReturnedView)

	// Admin routes
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/items", ctl.AllItemStatuses)

	log.Printf("Order Workflow Service running on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
