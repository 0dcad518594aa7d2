package messages

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatterboxhq/chatterbox-backend/pkg/config"
	"github.com/chatterboxhq/chatterbox-backend/pkg/db/models"
	pkgerrors "github.com/chatterboxhq/chatterbox-backend/pkg/errors"
	"github.com/chatterboxhq/chatterbox-backend/pkg/logger"
	"github.com/chatterboxhq/chatterbox-backend/pkg/openai"
	"github.com/chatterboxhq/chatterbox-backend/pkg/pagination"
	"github.com/google/uuid"
)

// aiContextWindow is how many recent turns are replayed to the model.
const aiContextWindow = 10

// Service defines the message behavior needed by the controllers.
type Service interface {
	CreateMessage(ctx context.Context, chatID, userID uuid.UUID, req CreateMessageRequest) (*MessageDTO, error)
	GetChatMessages(ctx context.Context, chatID uuid.UUID, page pagination.Params) ([]*MessageDTO, error)
	MarkMessagesAsRead(ctx context.Context, chatID, viewerID uuid.UUID) (int64, error)
	GenerateAIResponse(ctx context.Context, chatID, triggeringUserID uuid.UUID) (*MessageDTO, error)
}

type messageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	ListRecent(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkRead(ctx context.Context, chatID, viewerID uuid.UUID) (int64, error)
}

type completionClient interface {
	Complete(ctx context.Context, turns []openai.Turn, opts *openai.CompleteOptions) (*openai.Completion, error)
	Moderate(ctx context.Context, content string) (bool, error)
}

type aiMetrics interface {
	IncAICompletion(outcome string)
}

type service struct {
	messages  messageRepository
	ai        completionClient
	metrics   aiMetrics
	logg      *logger.Logger
	openAICfg config.OpenAIConfig
}

// ServiceParams bundles the dependencies required to build a messages service.
type ServiceParams struct {
	MessageRepo  messageRepository
	AIClient     completionClient
	Metrics      aiMetrics
	Logger       *logger.Logger
	OpenAIConfig config.OpenAIConfig
}

// NewService constructs a messages service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.MessageRepo == nil {
		return nil, fmt.Errorf("message repository is required")
	}
	if params.AIClient == nil {
		return nil, fmt.Errorf("ai client is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		messages:  params.MessageRepo,
		ai:        params.AIClient,
		metrics:   params.Metrics,
		logg:      params.Logger,
		openAICfg: params.OpenAIConfig,
	}, nil
}

// CreateMessage moderates and persists a user turn. The optional AI follow-on
// runs after the user message has committed; its failure is logged, never
// returned, so a generation outage cannot mask an accepted message.
func (s *service) CreateMessage(ctx context.Context, chatID, userID uuid.UUID, req CreateMessageRequest) (*MessageDTO, error) {
	ctx = s.logg.WithChatID(ctx, chatID.String())

	flagged, err := s.ai.Moderate(ctx, req.Content)
	if err != nil {
		// moderation outage: let the message through rather than block sends
		s.logg.Warn(s.logg.WithField(ctx, "moderation_error", err.Error()), "moderation unavailable, treating content as not flagged")
		flagged = false
	}
	if flagged {
		return nil, pkgerrors.New(pkgerrors.CodeContentRejected, "message content was flagged by moderation")
	}

	msg := &models.Message{
		Content: req.Content,
		ChatID:  chatID,
		UserID:  userID,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
	}

	if req.GenerateAIResponse {
		if _, err := s.GenerateAIResponse(ctx, chatID, userID); err != nil {
			s.logg.Error(ctx, "ai follow-on generation failed", err)
		}
	}

	return FromModel(msg), nil
}

// GetChatMessages pages from the newest message backwards and returns the
// page in chronological order.
func (s *service) GetChatMessages(ctx context.Context, chatID uuid.UUID, page pagination.Params) ([]*MessageDTO, error) {
	limit := pagination.NormalizeLimit(page.Limit)
	offset := pagination.NormalizeOffset(page.Offset)

	list, err := s.messages.ListRecent(ctx, chatID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}

	reverse(list)
	return FromModels(list), nil
}

func (s *service) MarkMessagesAsRead(ctx context.Context, chatID, viewerID uuid.UUID) (int64, error) {
	updated, err := s.messages.MarkRead(ctx, chatID, viewerID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark messages read")
	}
	return updated, nil
}

// GenerateAIResponse replays the recent history to the model and persists the
// generated turn. Nothing is persisted when the completion call fails.
func (s *service) GenerateAIResponse(ctx context.Context, chatID, triggeringUserID uuid.UUID) (*MessageDTO, error) {
	ctx = s.logg.WithChatID(ctx, chatID.String())

	history, err := s.messages.ListRecent(ctx, chatID, aiContextWindow, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load chat history")
	}
	reverse(history)

	turns := make([]openai.Turn, 0, len(history)+1)
	turns = append(turns, openai.Turn{Role: openai.RoleSystem, Content: s.systemPrompt()})
	for _, msg := range history {
		role := openai.RoleUser
		if msg.IsAI {
			role = openai.RoleAssistant
		}
		turns = append(turns, openai.Turn{Role: role, Content: msg.Content})
	}

	completion, err := s.ai.Complete(ctx, turns, nil)
	if err != nil {
		s.metricsInc("failure")
		return nil, pkgerrors.Wrap(pkgerrors.CodeGenerationFailed, err, "completion call failed")
	}
	if strings.TrimSpace(completion.Content) == "" {
		s.metricsInc("failure")
		return nil, pkgerrors.New(pkgerrors.CodeGenerationFailed, "completion returned no content")
	}

	msg := &models.Message{
		Content: completion.Content,
		ChatID:  chatID,
		UserID:  triggeringUserID,
		IsAI:    true,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist ai message")
	}

	s.metricsInc("success")
	return FromModel(msg), nil
}

func (s *service) systemPrompt() string {
	if s.openAICfg.SystemPrompt != "" {
		return s.openAICfg.SystemPrompt
	}
	return "You are a helpful assistant in a chat conversation. Provide concise, helpful responses."
}

func (s *service) metricsInc(outcome string) {
	if s.metrics != nil {
		s.metrics.IncAICompletion(outcome)
	}
}

func reverse(list []models.Message) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
}
