package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/tutornest-ai/tutornest/app/core/srv"
	"github.com/tutornest-ai/tutornest/pkg/rag"
	"github.com/tutornest-ai/tutornest/pkg/scoring"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr     string   `toml:"addr"`
	Log      Log      `toml:"log"`
	Postgres PGConfig `toml:"postgres"`

	AI      srv.AIConfig  `toml:"ai"`
	RAG     RAGConfig     `toml:"rag"`
	Scoring ScoringConfig `toml:"scoring"`

	RateLimit int `toml:"rate_limit"` // 单实例每分钟请求上限，0 表示不限流
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("TUTORNEST_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.AI.Gemini = &srv.GeminiConfig{
		Token: os.Getenv("TUTORNEST_GEMINI_TOKEN"),
	}
	c.AI.Mistral = &srv.MistralConfig{
		Token: os.Getenv("TUTORNEST_MISTRAL_TOKEN"),
	}
	c.AI.DefaultProvider = os.Getenv("TUTORNEST_DEFAULT_PROVIDER")
	c.AI.EmbeddingProvider = os.Getenv("TUTORNEST_EMBEDDING_PROVIDER")
	if c.AI.Gemini.Token == "" {
		c.AI.Gemini = nil
	}
	if c.AI.Mistral.Token == "" {
		c.AI.Mistral = nil
	}
	if limit := os.Getenv("TUTORNEST_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			c.RateLimit = n
		}
	}
}

// RAGConfig 检索管线参数。阈值是经验值而不是推导值，按数据调参后改这里。
type RAGConfig struct {
	ChunkSize    int     `toml:"chunk_size"`
	ChunkOverlap int     `toml:"chunk_overlap"`
	TopK         int     `toml:"top_k"`
	MaxDistance  float64 `toml:"max_distance"` // 余弦距离阈值，超过视为不相关
	HistoryLimit int     `toml:"history_limit"`
}

func (c RAGConfig) Formalize() RAGConfig {
	if c.ChunkSize <= 0 {
		c.ChunkSize = rag.DEFAULT_CHUNK_SIZE
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = rag.DEFAULT_CHUNK_OVERLAP
	}
	if c.TopK <= 0 {
		c.TopK = rag.DEFAULT_TOP_K
	}
	if c.MaxDistance <= 0 {
		c.MaxDistance = rag.DEFAULT_MAX_DISTANCE
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 20
	}
	return c
}

type ScoringConfig struct {
	Weights           scoring.Weights `toml:"weights"`
	FeedbackThreshold float64         `toml:"feedback_threshold"`
}

func (c ScoringConfig) Formalize() ScoringConfig {
	if c.Weights.Lexical+c.Weights.Semantic+c.Weights.Keyword <= 0 {
		c.Weights = scoring.DefaultWeights()
	}
	if c.FeedbackThreshold <= 0 {
		c.FeedbackThreshold = scoring.DEFAULT_FEEDBACK_THRESHOLD
	}
	return c
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("TUTORNEST_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("TUTORNEST_LOG_LEVEL")
	l.Path = os.Getenv("TUTORNEST_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
