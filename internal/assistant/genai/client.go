// internal/assistant/genai/client.go

// Package genai talks to the OpenAI-compatible completion backend and
// hides the provider SDK behind a small streaming interface.
package genai

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"sales-assistant/internal/common/config"
	"sales-assistant/internal/common/errors"
	"sales-assistant/internal/models"
)

// systemPrompt primes the model with its role before any real turn.
// It is sent as a user turn followed by a canned acknowledgement so
// backends without a system role handle it identically.
const systemPrompt = `Você é um Assistente de Vendas Inteligente integrado em uma ferramenta de CRM/Força de Vendas chamada Sankhya CRM.

SEU PAPEL E RESPONSABILIDADES:
- Ajudar vendedores a identificar oportunidades de vendas
- Sugerir ações estratégicas para fechar negócios
- Analisar leads e recomendar próximos passos
- Identificar clientes potenciais com maior chance de conversão
- Sugerir produtos que podem interessar aos clientes
- Alertar sobre leads em risco ou oportunidades urgentes

DADOS QUE VOCÊ TEM ACESSO:
- Leads: oportunidades de vendas com informações sobre valor, estágio, parceiro associado
- Parceiros: clientes e prospects cadastrados no sistema
- Produtos: catálogo REAL de produtos com estoque atual (USE APENAS OS PRODUTOS FORNECIDOS NO CONTEXTO)
- Pedidos: histórico de vendas

⚠️ REGRA IMPORTANTE SOBRE PRODUTOS:
Você receberá uma lista completa de produtos com suas quantidades em estoque.
NUNCA mencione produtos que não estejam explicitamente listados nos dados fornecidos.
Se não houver produtos na lista, informe que não há produtos cadastrados no momento.

COMO VOCÊ DEVE AGIR:
1. Sempre analise os dados fornecidos antes de responder
2. Seja proativo em sugerir vendas e ações comerciais
3. Identifique padrões e oportunidades nos dados
4. Use métricas e números concretos em suas análises
5. Seja direto e focado em resultados de vendas
6. Priorize leads com maior valor e urgência
7. Sugira próximos passos claros e acionáveis

FORMATO DAS RESPOSTAS:
- Use emojis para destacar informações importantes (📊 💰 🎯 ⚠️ ✅)
- Organize informações em listas quando relevante
- Destaque valores monetários e datas importantes
- Seja conciso mas informativo

Sempre que o usuário fizer uma pergunta, considere os dados do sistema disponíveis para dar respostas contextualizadas e acionáveis.`

const primingAck = `Entendido! Sou seu Assistente de Vendas no Sankhya CRM. Estou pronto para analisar seus dados e ajudar você a vender mais. Como posso ajudar?`

// Stream yields the generated answer one text fragment at a time.
// Recv returns io.EOF once the answer is complete.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Streamer starts a generation for a conversation plus a new prompt.
type Streamer interface {
	StreamCompletion(ctx context.Context, history []models.ConversationTurn, prompt string) (Stream, error)
}

type Client struct {
	api    *openai.Client
	config config.GenAIConfig
}

func NewClient(cfg config.GenAIConfig) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:    openai.NewClientWithConfig(apiConfig),
		config: cfg,
	}
}

func (c *Client) StreamCompletion(ctx context.Context, history []models.ConversationTurn, prompt string) (Stream, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    buildMessages(history, prompt),
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		Stream:      true,
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, errors.NewGenerationFailureError(err)
	}
	return &openaiStream{inner: stream}, nil
}

// buildMessages lays out the priming pair, the prior turns and the new
// prompt in the order the backend expects.
func buildMessages(history []models.ConversationTurn, prompt string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)
	messages = append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: systemPrompt},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: primingAck},
	)
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})
	return messages
}

type openaiStream struct {
	inner *openai.ChatCompletionStream
}

// Recv skips chunks without text content so callers only see fragments
// that carry something to forward.
func (s *openaiStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if text := resp.Choices[0].Delta.Content; text != "" {
			return text, nil
		}
	}
}

func (s *openaiStream) Close() error {
	return s.inner.Close()
}
