package api

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/jsaveker/fork-it-app/api/controllers"
	"github.com/jsaveker/fork-it-app/api/transport"
	"github.com/jsaveker/fork-it-app/logging"
	"github.com/jsaveker/fork-it-app/storage"
)

type Server struct {
	config *Config
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
	}
}

func (s *Server) Start() {
	r := transport.NewRouter(gin.DebugMode)

	// Create storage
	kv := newKeyValueStore(s.config)
	sessionStorage := &storage.KVSessionStorage{
		Store:   kv,
		TTL:     s.config.SessionTTL(),
		Timeout: s.config.StoreCallTimeout(),
	}
	optionStorage := &storage.KVOptionStorage{
		Store:   kv,
		Timeout: s.config.StoreCallTimeout(),
	}

	//Register controllers
	sessionController := controllers.NewSessionController(sessionStorage)
	sessionController.RegisterRoutes(r)
	votingController := controllers.NewVotingController(sessionStorage)
	votingController.RegisterRoutes(r)
	optionsController := controllers.NewOptionsController(optionStorage)
	optionsController.RegisterRoutes(r)

	//Do not run lambda helper locally
	if os.Getenv("APP_ENV") == "local" {
		startLocal(r, s.config.Port)
	} else {
		startLambda(r)
	}
}

// newKeyValueStore builds the configured store backend. The process cannot
// do anything useful without one, so failures here are fatal.
func newKeyValueStore(config *Config) storage.KeyValueStore {
	switch config.Backend {
	case "dynamo":
		cfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			logging.Log.Errorf("failed to load AWS config: %v", err)
			panic("failed to load AWS config")
		}
		return &storage.DynamoKeyValueStore{
			Client:    dynamodb.NewFromConfig(cfg),
			TableName: config.TableNameSessions,
		}
	case "memory":
		logging.Log.Warn("using the in-memory store; sessions will not survive a restart")
		return storage.NewMemoryKeyValueStore()
	default:
		kv, err := storage.NewRedisKeyValueStore(config.RedisAddress)
		if err != nil {
			logging.Log.Errorf("failed to connect to redis at %s: %v", config.RedisAddress, err)
			panic("failed to connect to redis")
		}
		return kv
	}
}

// StartLambda sets up for AWS Lambda
func startLambda(engine *gin.Engine) {
	ginLambda := ginadapter.NewV2(engine)

	handler := func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		logging.Log.Infof("Lambda handler triggered on path: %s", req.RawPath)
		return ginLambda.ProxyWithContext(ctx, req)
	}

	logging.Log.Info("Starting lambda")
	lambda.Start(handler)
}

// StartLocal starts a normal HTTP server on the configured port
func startLocal(engine *gin.Engine, port int) {
	logging.Log.Info(fmt.Sprintf("Starting server on http://localhost:%d", port))

	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		logging.Log.Fatalf("Failed to run server: %v", err)
	}
}
