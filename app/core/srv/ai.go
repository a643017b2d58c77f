package srv

import (
	"net/http"
	"sync"
	"time"

	"github.com/tutornest-ai/tutornest/pkg/ai"
	"github.com/tutornest-ai/tutornest/pkg/ai/gemini"
	"github.com/tutornest-ai/tutornest/pkg/ai/mistral"
	"github.com/tutornest-ai/tutornest/pkg/errors"
	"github.com/tutornest-ai/tutornest/pkg/i18n"
)

type AIConfig struct {
	// 知识库未指定提供商时的默认聊天驱动
	DefaultProvider string `toml:"default_provider"`
	// 向量化驱动，全局唯一。索引和查询必须共用，换驱动需要重建向量库
	EmbeddingProvider string `toml:"embedding_provider"`
	// 单次模型调用超时秒数，0 使用默认值
	QueryTimeout int `toml:"query_timeout"`

	Gemini  *GeminiConfig  `toml:"gemini"`
	Mistral *MistralConfig `toml:"mistral"`
}

type GeminiConfig struct {
	Token string       `toml:"token"`
	Model ai.ModelName `toml:"model"`
}

type MistralConfig struct {
	Token string       `toml:"token"`
	Proxy string       `toml:"proxy"`
	Model ai.ModelName `toml:"model"`
}

type aiDriver interface {
	ai.ChatAI
	ai.EmbeddingAI
}

// AI 聊天与向量化驱动的注册表。驱动首次被使用时才初始化，
// 初始化一次后进程内共享。
type AI struct {
	chatDrivers map[string]func() aiDriver

	defaultProvider   string
	embeddingProvider string
	queryTimeout      time.Duration
}

func SetupAI(cfg AIConfig) (*AI, error) {
	a := &AI{
		chatDrivers:       make(map[string]func() aiDriver),
		defaultProvider:   cfg.DefaultProvider,
		embeddingProvider: cfg.EmbeddingProvider,
		queryTimeout:      ai.DEFAULT_QUERY_TIMEOUT,
	}
	if cfg.QueryTimeout > 0 {
		a.queryTimeout = time.Duration(cfg.QueryTimeout) * time.Second
	}

	if cfg.Gemini != nil {
		token, model := cfg.Gemini.Token, cfg.Gemini.Model
		a.chatDrivers[gemini.NAME] = sync.OnceValue(func() aiDriver {
			return gemini.New(token, model)
		})
	}
	if cfg.Mistral != nil {
		token, proxy, model := cfg.Mistral.Token, cfg.Mistral.Proxy, cfg.Mistral.Model
		a.chatDrivers[mistral.NAME] = sync.OnceValue(func() aiDriver {
			return mistral.New(token, proxy, model)
		})
	}

	if len(a.chatDrivers) == 0 {
		return nil, errors.New("srv.SetupAI", i18n.ERROR_AI_UNAVAILABLE, nil).Code(http.StatusServiceUnavailable)
	}

	if a.defaultProvider == "" {
		for name := range a.chatDrivers {
			a.defaultProvider = name
			break
		}
	}
	if a.embeddingProvider == "" {
		a.embeddingProvider = a.defaultProvider
	}

	if _, ok := a.chatDrivers[a.defaultProvider]; !ok {
		return nil, errors.New("srv.SetupAI.defaultProvider", i18n.ERROR_AI_UNAVAILABLE, nil).Code(http.StatusServiceUnavailable)
	}
	if _, ok := a.chatDrivers[a.embeddingProvider]; !ok {
		return nil, errors.New("srv.SetupAI.embeddingProvider", i18n.ERROR_AI_UNAVAILABLE, nil).Code(http.StatusServiceUnavailable)
	}

	return a, nil
}

// ChatDriver 按提供商名称取聊天驱动，空名称回落到默认驱动。
func (a *AI) ChatDriver(provider string) (ai.ChatAI, error) {
	if provider == "" {
		provider = a.defaultProvider
	}

	setup, ok := a.chatDrivers[provider]
	if !ok {
		return nil, errors.New("srv.AI.ChatDriver", i18n.ERROR_UNSUPPORTED_FEATURE, nil).Code(http.StatusBadRequest)
	}
	return setup(), nil
}

func (a *AI) Embedding() ai.EmbeddingAI {
	return a.chatDrivers[a.embeddingProvider]()
}

func (a *AI) QueryTimeout() time.Duration {
	return a.queryTimeout
}

func (a *AI) Providers() []string {
	providers := make([]string, 0, len(a.chatDrivers))
	for name := range a.chatDrivers {
		providers = append(providers, name)
	}
	return providers
}
