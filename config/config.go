package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p Postgres) ConnStr() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

type Nats struct {
	Host          string `mapstructure:"host"`
	Port          string `mapstructure:"port"`
	Stream        string `mapstructure:"stream"`
	SubjectPrefix string `mapstructure:"subjectPrefix"`
}

func (n Nats) ConnStr() string {
	return fmt.Sprintf("nats://%s:%s", n.Host, n.Port)
}

// Enabled reports whether event publishing is configured at all.
func (n Nats) Enabled() bool {
	return n.Host != ""
}

type Ollama struct {
	Host      string `mapstructure:"host"`
	Port      string `mapstructure:"port"`
	ChatModel string `mapstructure:"chatModel"`
}

func (o *Ollama) Address() string {
	return fmt.Sprintf("http://%s:%s", o.Host, o.Port)
}

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Agent struct {
	HistoryDB     string `mapstructure:"historyDb"`
	Session       string `mapstructure:"session"`
	MaxIterations int    `mapstructure:"maxIterations"`
}

type Notifier struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queueSize"`
}

type Seed struct {
	Restaurants int `mapstructure:"restaurants"`
	Users       int `mapstructure:"users"`
	Bookings    int `mapstructure:"bookings"`
	Orders      int `mapstructure:"orders"`
}

type Config struct {
	Postgres Postgres `mapstructure:"postgres"`
	Nats     Nats     `mapstructure:"nats"`
	Ollama   Ollama   `mapstructure:"ollama"`
	Server   Server   `mapstructure:"server"`
	Agent    Agent    `mapstructure:"agent"`
	Notifier Notifier `mapstructure:"notifier"`
	Seed     Seed     `mapstructure:"seed"`
}

func LoadConfig() *Config {
	viper.SetConfigFile("./config/config.yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	return &config
}
