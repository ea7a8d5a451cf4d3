package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
	_ "github.com/mattn/go-sqlite3"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/memory/sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/assistant"
	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/config"
	"github.com/Visheshsing/Zomato-Assistant-AI-Powered-Restaurant/events"
)

type Agent struct {
	config   *config.Config
	registry *assistant.Registry
	executor *agents.Executor
	upgrader websocket.Upgrader
}

func main() {
	cfg := config.LoadConfig()

	db, err := openDB(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal(err)
	}

	var pub events.Publisher = events.NopPublisher{}
	if cfg.Nats.Enabled() {
		natsPub, err := events.NewNatsPublisher(cfg.Nats.ConnStr(), cfg.Nats.Stream, cfg.Nats.SubjectPrefix)
		if err != nil {
			log.Fatal(err)
		}
		defer natsPub.Close()
		pub = natsPub
	}

	store := assistant.NewStore(db, pub)
	registry := assistant.NewRegistry(store)

	historyDB, err := sql.Open("sqlite3", cfg.Agent.HistoryDB)
	if err != nil {
		log.Fatal(err)
	}

	chatHistory := sqlite3.NewSqliteChatMessageHistory(
		sqlite3.WithSession(cfg.Agent.Session),
		sqlite3.WithDB(historyDB),
	)
	conversationBuffer := memory.NewConversationBuffer(memory.WithChatHistory(chatHistory))

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.Ollama.Address()),
		ollama.WithModel(cfg.Ollama.ChatModel),
		ollama.WithSystemPrompt(AssistantSysPrompt),
	)
	if err != nil {
		log.Fatal(err)
	}

	maxIterations := cfg.Agent.MaxIterations
	if maxIterations < 1 {
		maxIterations = 8
	}

	executor, err := agents.Initialize(
		llm,
		registry.Tools(),
		agents.ZeroShotReactDescription,
		agents.WithMaxIterations(maxIterations),
		agents.WithMemory(conversationBuffer),
	)
	if err != nil {
		log.Fatal(err)
	}

	agent := &Agent{
		config:   cfg,
		registry: registry,
		executor: executor,
		upgrader: websocket.Upgrader{},
	}

	if err := agent.Run(); err != nil {
		log.Fatalf("failed to run the agent: %v", err)
	}
}

func openDB(connStr string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	return gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: newLogger,
	})
}
